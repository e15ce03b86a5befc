// Package cache keeps recent scrape results on disk so repeated runs within
// a TTL don't hit the schedule page again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"huskers-schedule/internal/model"
	"huskers-schedule/internal/store"
)

// Key identifies one scrape: the strategy that ran and the page it read.
type Key struct {
	Strategy string
	URL      string
}

// fileName is "<strategy>-<hash of strategy and url>.json".
func (k Key) fileName() string {
	sum := sha256.Sum256([]byte(k.Strategy + "|" + k.URL))
	strategy := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, k.Strategy)
	return strategy + "-" + hex.EncodeToString(sum[:8]) + ".json"
}

type entry struct {
	Strategy  string       `json:"strategy"`
	SourceURL string       `json:"source_url"`
	FetchedAt time.Time    `json:"fetched_at"`
	Games     []model.Game `json:"games"`
}

// Cache stores scraped games per Key in a directory. The directory is
// created on the first Set.
type Cache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// New returns a cache in dir whose entries stay fresh for ttl.
func New(dir string, ttl time.Duration) *Cache {
	return &Cache{dir: dir, ttl: ttl, now: time.Now}
}

// Get returns the cached games for k if an entry exists and is fresh.
// Unreadable or mismatched entries count as misses.
func (c *Cache) Get(k Key) ([]model.Game, bool) {
	data, err := os.ReadFile(c.path(k))
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	if e.Strategy != k.Strategy || e.SourceURL != k.URL {
		return nil, false
	}
	if c.now().Sub(e.FetchedAt) > c.ttl {
		return nil, false
	}
	return e.Games, true
}

// Set records games for k, replacing any previous entry in one rename.
func (c *Cache) Set(k Key, games []model.Game) error {
	data, err := json.MarshalIndent(entry{
		Strategy:  k.Strategy,
		SourceURL: k.URL,
		FetchedAt: c.now().UTC(),
		Games:     games,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	return store.WriteFileAtomic(c.path(k), data, 0644)
}

// Invalidate drops the entry for k. A missing entry is not an error.
func (c *Cache) Invalidate(k Key) error {
	if err := os.Remove(c.path(k)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing cache entry: %w", err)
	}
	return nil
}

func (c *Cache) path(k Key) string {
	return filepath.Join(c.dir, k.fileName())
}

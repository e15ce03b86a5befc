package cache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"huskers-schedule/internal/model"
)

const scheduleURL = "https://huskers.com/sports/football/schedule"

func opponent(name string) []model.Game {
	return []model.Game{{Status: model.StatusUpcoming, OpponentName: &name, Links: []model.Link{}}}
}

func TestCacheGetSet(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache"), time.Hour)
	key := Key{Strategy: "static", URL: scheduleURL}

	if _, ok := c.Get(key); ok {
		t.Fatal("empty cache should miss")
	}

	if err := c.Set(key, opponent("Iowa")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(got) != 1 || got[0].OpponentName == nil || *got[0].OpponentName != "Iowa" {
		t.Errorf("Get returned %+v", got)
	}
	if got[0].Status != model.StatusUpcoming {
		t.Errorf("Status = %q, want upcoming", got[0].Status)
	}
}

func TestCacheKeyedByStrategyAndURL(t *testing.T) {
	c := New(t.TempDir(), time.Hour)

	keys := []Key{
		{Strategy: "static", URL: scheduleURL},
		{Strategy: "static", URL: "https://huskers.com/sports/football/schedule/2024"},
		{Strategy: "browser", URL: scheduleURL},
	}
	for i, k := range keys {
		if err := c.Set(k, opponent(k.Strategy+"-"+string(rune('a'+i)))); err != nil {
			t.Fatalf("Set(%v): %v", k, err)
		}
	}

	for i, k := range keys {
		got, ok := c.Get(k)
		if !ok {
			t.Fatalf("Get(%v) missed", k)
		}
		want := k.Strategy + "-" + string(rune('a'+i))
		if *got[0].OpponentName != want {
			t.Errorf("Get(%v) = %q, want %q", k, *got[0].OpponentName, want)
		}
	}
}

func TestCacheExpiry(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	key := Key{Strategy: "browser", URL: scheduleURL}

	start := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return start }
	if err := c.Set(key, []model.Game{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	c.now = func() time.Time { return start.Add(59 * time.Minute) }
	if _, ok := c.Get(key); !ok {
		t.Error("entry should still be fresh")
	}

	c.now = func() time.Time { return start.Add(61 * time.Minute) }
	if _, ok := c.Get(key); ok {
		t.Error("entry should have expired")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := New(t.TempDir(), time.Hour)
	key := Key{Strategy: "static", URL: scheduleURL}

	if err := c.Set(key, []model.Game{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Invalidate(key); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("invalidated entry should miss")
	}
	if err := c.Invalidate(key); err != nil {
		t.Errorf("Invalidate of missing entry: %v", err)
	}
}

func TestCacheFileName(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Hour)

	if err := c.Set(Key{Strategy: "../static strategy", URL: scheduleURL}, []model.Game{}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one cache file, got %d", len(entries))
	}
	name := entries[0].Name()
	if !strings.HasPrefix(name, "___static_strategy-") || !strings.HasSuffix(name, ".json") {
		t.Errorf("unexpected cache file name %q", name)
	}
}

func TestCacheIgnoresForeignEntry(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Hour)
	key := Key{Strategy: "static", URL: scheduleURL}

	if err := c.Set(key, opponent("Iowa")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	// An entry written for another URL under this key's file name is a miss.
	other := `{"strategy": "static", "source_url": "https://example.com", "fetched_at": "` +
		time.Now().UTC().Format(time.RFC3339) + `", "games": []}`
	if err := os.WriteFile(c.path(key), []byte(other), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Get(key); ok {
		t.Error("entry for a different URL should miss")
	}
}

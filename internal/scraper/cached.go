package scraper

import (
	"context"
	"log/slog"

	"huskers-schedule/internal/cache"
	"huskers-schedule/internal/model"
)

type cachedScraper struct {
	Scraper
	cache *cache.Cache
}

// WithCache wraps s so fresh cached games for the same strategy and page are
// returned instead of scraping. Successful scrapes refresh the cache; cache
// write failures only log.
func WithCache(s Scraper, c *cache.Cache) Scraper {
	if c == nil {
		return s
	}
	return &cachedScraper{Scraper: s, cache: c}
}

// CacheKey is the cache entry a scraper reads and writes.
func CacheKey(s Scraper) cache.Key {
	return cache.Key{Strategy: s.Name(), URL: s.URL()}
}

func (s *cachedScraper) Fetch(ctx context.Context) ([]model.Game, error) {
	key := CacheKey(s.Scraper)
	if games, ok := s.cache.Get(key); ok {
		slog.Info("using cached schedule", "strategy", key.Strategy, "url", key.URL, "games", len(games))
		return games, nil
	}

	games, err := s.Scraper.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, games); err != nil {
		slog.Warn("failed to cache schedule", "strategy", key.Strategy, "error", err)
	}
	return games, nil
}

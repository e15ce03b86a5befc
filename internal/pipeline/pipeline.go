// Package pipeline runs the extract, manifest and publish passes shared by
// the commands. Each function is one run-to-completion step; outputs are
// written only after the full record set is assembled.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"huskers-schedule/internal/model"
	"huskers-schedule/internal/scraper"
	"huskers-schedule/internal/stadium"
	"huskers-schedule/internal/store"
)

// ErrInputMissing is returned when a required input file does not exist.
var ErrInputMissing = errors.New("input file not found")

// Scrape fetches the schedule with s and writes it to outPath, stamped with
// the page s read.
func Scrape(ctx context.Context, s scraper.Scraper, outPath string, now time.Time) (*model.Schedule, error) {
	slog.Info("scraping schedule", "strategy", s.Name(), "url", s.URL())

	games, err := s.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s scrape: %w", s.Name(), err)
	}

	schedule := &model.Schedule{
		SourceURL: s.URL(),
		ScrapedAt: now.UTC().Truncate(time.Second),
		Games:     games,
	}
	if schedule.Games == nil {
		schedule.Games = []model.Game{}
	}

	if err := writeJSON(outPath, schedule); err != nil {
		return nil, err
	}
	slog.Info("wrote schedule", "path", outPath, "games", len(schedule.Games))
	return schedule, nil
}

// LoadSchedule reads a scrape output file. A bare JSON array of games is
// accepted as well.
func LoadSchedule(path string) (*model.Schedule, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrInputMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var schedule model.Schedule
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &schedule.Games); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, &schedule); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &schedule, nil
}

// ManifestOptions names the files of a manifest run.
type ManifestOptions struct {
	Input      string
	StadiumDir string
	Output     string
	Markdown   string
}

// BuildManifest derives the stadium manifest from the schedule at
// opts.Input, probing images (a local store on opts.StadiumDir when nil),
// and writes the JSON manifest and the markdown status table.
func BuildManifest(opts ManifestOptions, images stadium.ImageLookup) (*stadium.Manifest, error) {
	schedule, err := LoadSchedule(opts.Input)
	if err != nil {
		return nil, err
	}

	if images == nil {
		images = store.NewLocal(opts.StadiumDir)
	}

	m := stadium.Build(opts.Input, opts.StadiumDir, schedule.Games, images)

	if err := writeJSON(opts.Output, m); err != nil {
		return nil, err
	}
	if err := store.WriteFileAtomic(opts.Markdown, []byte(stadium.RenderMarkdown(m)), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", opts.Markdown, err)
	}

	slog.Info("wrote stadium manifest",
		"path", opts.Output,
		"markdown", opts.Markdown,
		"found", len(m.Found),
		"missing", len(m.Missing),
	)
	return m, nil
}

// GamePublisher stores a source's games, replacing what was there, and
// reads them back.
type GamePublisher interface {
	ReplaceGames(ctx context.Context, source string, games []model.Game, batchID string) error
	GetGames(ctx context.Context, source string) ([]model.Game, error)
}

// PublishGames replaces the stored games of source with the schedule's
// games, then reads the source back and checks every game landed in order.
func PublishGames(ctx context.Context, p GamePublisher, source string, schedule *model.Schedule, batchID string) error {
	if err := p.ReplaceGames(ctx, source, schedule.Games, batchID); err != nil {
		return fmt.Errorf("publishing games for %s: %w", source, err)
	}

	stored, err := p.GetGames(ctx, source)
	if err != nil {
		return fmt.Errorf("reading back games for %s: %w", source, err)
	}
	if len(stored) != len(schedule.Games) {
		return fmt.Errorf("%s: stored %d games, published %d", source, len(stored), len(schedule.Games))
	}
	for i := range stored {
		if !sameGame(stored[i], schedule.Games[i]) {
			return fmt.Errorf("%s: stored game %d does not match the published one", source, i)
		}
	}

	slog.Info("published games", "source", source, "games", len(stored), "batch_id", batchID)
	return nil
}

func sameGame(a, b model.Game) bool {
	return a.Status == b.Status &&
		equalText(a.DateText, b.DateText) &&
		equalText(a.OpponentName, b.OpponentName) &&
		equalText(a.Location, b.Location)
}

func equalText(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// PublishImages copies the image files of every found venue from src to
// dst and returns how many were copied.
func PublishImages(ctx context.Context, m *stadium.Manifest, src, dst store.Store) (int, error) {
	copied := 0
	for _, v := range m.Found {
		for _, ext := range stadium.Extensions {
			if err := ctx.Err(); err != nil {
				return copied, err
			}

			key := v.Slug + ext
			data, ok := src.Get(key)
			if !ok {
				continue
			}
			if err := dst.Set(key, data); err != nil {
				return copied, fmt.Errorf("uploading %s: %w", key, err)
			}
			slog.Debug("uploaded stadium image", "key", key, "to", dst.Location(key))
			copied++
		}
	}
	return copied, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	data = append(data, '\n')
	if err := store.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

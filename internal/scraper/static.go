package scraper

import (
	"context"
	"net/http"

	"huskers-schedule/internal/model"
)

// StaticScraper fetches the schedule page over plain HTTP and parses the
// delivered markup as-is.
type StaticScraper struct {
	client *http.Client
	url    string
}

// NewStaticScraper creates a static scraper. An empty url means SourceURL.
func NewStaticScraper(url string) *StaticScraper {
	if url == "" {
		url = SourceURL
	}
	return &StaticScraper{
		client: &http.Client{Timeout: Timeout},
		url:    url,
	}
}

func (s *StaticScraper) Name() string {
	return "static"
}

func (s *StaticScraper) URL() string {
	return s.url
}

func (s *StaticScraper) Fetch(ctx context.Context) ([]model.Game, error) {
	doc, err := fetchDocument(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}
	return ParseEvents(doc, s.url), nil
}

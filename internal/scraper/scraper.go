package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"huskers-schedule/internal/model"
)

// SourceURL is the schedule page both strategies scrape; SiteOrigin is
// prefixed to root-relative links.
const (
	SourceURL  = "https://huskers.com/sports/football/schedule"
	SiteOrigin = "https://huskers.com"
	UserAgent  = "huskers-schedule-scraper/1.0 (+https://example.com)"
	Timeout    = 30 * time.Second
)

// fetchDocument fetches a URL and parses it as an HTML document.
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return doc, nil
}

// Scraper defines the interface both schedule scraping strategies implement.
type Scraper interface {
	// Name returns the strategy name ("static" or "browser").
	Name() string

	// URL returns the page the strategy reads.
	URL() string

	// Fetch retrieves the games listed on the schedule page, in page order.
	Fetch(ctx context.Context) ([]model.Game, error)
}

// Registry holds the available strategies by name.
type Registry struct {
	scrapers []Scraper
}

// NewRegistry creates a new scraper registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a scraper to the registry.
func (r *Registry) Register(s Scraper) {
	r.scrapers = append(r.scrapers, s)
}

// Get returns the scraper registered under name.
func (r *Registry) Get(name string) (Scraper, bool) {
	for _, s := range r.scrapers {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Names returns the registered strategy names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		names = append(names, s.Name())
	}
	return names
}

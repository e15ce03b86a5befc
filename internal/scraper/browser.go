package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"

	"huskers-schedule/internal/model"
)

const (
	browserSettle         = 400 * time.Millisecond
	browserScrollPause    = 120 * time.Millisecond
	browserElementTimeout = 2 * time.Second
)

// Progress receives updates from the browser's scroll loop.
type Progress interface {
	SetTotal(total int)
	Increment()
	Done()
}

type noProgress struct{}

func (noProgress) SetTotal(int) {}

func (noProgress) Increment() {}

func (noProgress) Done() {}

// BrowserScraper drives headless Chrome so lazy-loaded logos resolve before
// the DOM is read.
type BrowserScraper struct {
	url      string
	execPath string

	settle         time.Duration
	scrollPause    time.Duration
	elementTimeout time.Duration

	progress Progress
}

// NewBrowserScraper creates a browser scraper. An empty url means SourceURL;
// an empty execPath lets chromedp find Chrome on its own.
func NewBrowserScraper(url, execPath string) *BrowserScraper {
	if url == "" {
		url = SourceURL
	}
	return &BrowserScraper{
		url:            url,
		execPath:       execPath,
		settle:         browserSettle,
		scrollPause:    browserScrollPause,
		elementTimeout: browserElementTimeout,
		progress:       noProgress{},
	}
}

// SetProgress installs a progress reporter for the scroll loop.
func (s *BrowserScraper) SetProgress(p Progress) {
	if p == nil {
		p = noProgress{}
	}
	s.progress = p
}

func (s *BrowserScraper) Name() string {
	return "browser"
}

func (s *BrowserScraper) URL() string {
	return s.url
}

func (s *BrowserScraper) Fetch(ctx context.Context) ([]model.Game, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	if s.execPath != "" {
		opts = append(opts, chromedp.ExecPath(s.execPath))
	}
	opts = append(opts,
		chromedp.Headless,
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.UserAgent(UserAgent),
		chromedp.WindowSize(1400, 2400),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	var count int
	err := chromedp.Run(chromeCtx,
		chromedp.Navigate(s.url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.settle),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%q).length`, eventSelector), &count),
	)
	if err != nil {
		return nil, fmt.Errorf("loading schedule page: %w", err)
	}

	// Scroll every event into view to trigger lazy loading.
	s.progress.SetTotal(count)
	for i := 0; i < count; i++ {
		if err := s.scrollIntoView(chromeCtx, i); err != nil {
			s.progress.Done()
			return nil, fmt.Errorf("scrolling to event %d: %w", i, err)
		}
		if err := chromedp.Run(chromeCtx, chromedp.Sleep(s.scrollPause)); err != nil {
			s.progress.Done()
			return nil, fmt.Errorf("waiting for lazy images: %w", err)
		}
		s.progress.Increment()
	}
	s.progress.Done()

	for i := 0; i < count; i++ {
		if err := s.markCurrentSources(chromeCtx, i); err != nil {
			return nil, fmt.Errorf("reading image sources of event %d: %w", i, err)
		}
	}

	var html string
	if err := chromedp.Run(chromeCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("reading rendered page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered page: %w", err)
	}

	return ParseEvents(doc, s.url), nil
}

// elementStep runs step under the per-element timeout. A failing step only
// costs that element its data; the parent's own cancellation is returned.
func elementStep(parent context.Context, timeout time.Duration, step func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if err := step(ctx); err != nil && parent.Err() != nil {
		return parent.Err()
	}
	return nil
}

// scrollIntoView scrolls event i into view. A timeout is not an error; the
// event just keeps whatever images it already has.
func (s *BrowserScraper) scrollIntoView(ctx context.Context, i int) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%q)[%d];
		if (!el) return false;
		el.scrollIntoView({block: "center"});
		return true;
	})()`, eventSelector, i)

	return elementStep(ctx, s.elementTimeout, func(ctx context.Context) error {
		var found bool
		return chromedp.Run(ctx, chromedp.Evaluate(js, &found))
	})
}

// markCurrentSources copies each image's currentSrc of event i into an
// attribute so the shared parser can see it. On timeout the attribute is
// missing and the parser falls back to src / data-src.
func (s *BrowserScraper) markCurrentSources(ctx context.Context, i int) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelectorAll(%q)[%d];
		if (!el) return 0;
		let n = 0;
		el.querySelectorAll("img").forEach((img) => {
			if (img.currentSrc) {
				img.setAttribute(%q, img.currentSrc);
				n++;
			}
		});
		return n;
	})()`, eventSelector, i, currentSrcAttr)

	return elementStep(ctx, s.elementTimeout, func(ctx context.Context) error {
		var marked int
		return chromedp.Run(ctx, chromedp.Evaluate(js, &marked))
	})
}

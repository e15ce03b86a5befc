package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// currentSrcAttr carries the browser-resolved image source (img.currentSrc)
// into the serialized DOM. Static pages never have it.
const currentSrcAttr = "data-current-src"

// srcCandidate yields one possible source for an <img>.
type srcCandidate func(img *goquery.Selection) (string, bool)

func attrCandidate(name string) srcCandidate {
	return func(img *goquery.Selection) (string, bool) {
		return img.Attr(name)
	}
}

// imageSourceChain is tried in order; the first accepted value wins.
var imageSourceChain = []srcCandidate{
	attrCandidate(currentSrcAttr),
	attrCandidate("src"),
	attrCandidate("data-src"),
}

// acceptImageSource rejects blanks and inline data: placeholders.
func acceptImageSource(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	return !strings.HasPrefix(strings.ToLower(v), "data:")
}

// resolveImageURL returns the displayed source of the first img in sel, or nil.
func resolveImageURL(sel *goquery.Selection, pageURL string) *string {
	img := sel.First()
	if img.Length() == 0 {
		return nil
	}
	for _, candidate := range imageSourceChain {
		v, ok := candidate(img)
		if !ok || !acceptImageSource(v) {
			continue
		}
		resolved := resolveReference(pageURL, strings.TrimSpace(v))
		return &resolved
	}
	return nil
}

func resolveReference(base, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() {
		return raw
	}
	b, err := url.Parse(base)
	if err != nil {
		return raw
	}
	return b.ResolveReference(u).String()
}

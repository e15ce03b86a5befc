package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestResolveImageURL(t *testing.T) {
	tests := []struct {
		name string
		img  string
		want *string
	}{
		{
			name: "current source wins",
			img:  `<img data-current-src="https://cdn.example.com/a@2x.png" src="/a.png" data-src="/a-lazy.png">`,
			want: strPtr("https://cdn.example.com/a@2x.png"),
		},
		{
			name: "placeholder current source falls back to src",
			img:  `<img data-current-src="data:image/gif;base64,AAAA" src="https://cdn.example.com/a.png">`,
			want: strPtr("https://cdn.example.com/a.png"),
		},
		{
			name: "placeholder src falls back to data-src",
			img:  `<img src="DATA:image/svg+xml,%3Csvg%3E" data-src="https://cdn.example.com/lazy.png">`,
			want: strPtr("https://cdn.example.com/lazy.png"),
		},
		{
			name: "blank src falls back to data-src",
			img:  `<img src="  " data-src="/lazy.png">`,
			want: strPtr("https://huskers.com/lazy.png"),
		},
		{
			name: "relative src resolved against page",
			img:  `<img src="logos/iowa.png">`,
			want: strPtr("https://huskers.com/sports/football/logos/iowa.png"),
		},
		{
			name: "only placeholders",
			img:  `<img src="data:image/gif;base64,AAAA" data-src="data:image/gif;base64,BBBB">`,
			want: nil,
		},
		{
			name: "no attributes",
			img:  `<img alt="logo">`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + tt.img + "</div>"))
			if err != nil {
				t.Fatalf("parsing: %v", err)
			}
			got := resolveImageURL(doc.Find("img"), testPageURL)
			switch {
			case got == nil && tt.want == nil:
			case got == nil || tt.want == nil:
				t.Errorf("resolveImageURL() = %v, want %v", got, tt.want)
			case *got != *tt.want:
				t.Errorf("resolveImageURL() = %q, want %q", *got, *tt.want)
			}
		})
	}
}

func TestResolveImageURLNoImage(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div></div>"))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if got := resolveImageURL(doc.Find("img"), testPageURL); got != nil {
		t.Errorf("resolveImageURL() = %q, want nil", *got)
	}
}

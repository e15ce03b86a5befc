package stadium

import (
	"fmt"
	"sort"

	"huskers-schedule/internal/model"
)

// Extensions are probed in this order for every venue.
var Extensions = []string{".jpg", ".png", ".webp"}

// ImageLookup answers whether an image file exists. store.LocalStore and
// store.GCSStore both satisfy it.
type ImageLookup interface {
	Exists(key string) bool
	Location(key string) string
}

// Venue is one manifest entry per unique slug.
type Venue struct {
	Slug               string   `json:"slug"`
	LocationRaw        string   `json:"location_raw"`
	City               *string  `json:"city"`
	Stadium            *string  `json:"stadium"`
	ExampleGame        *string  `json:"example_game"`
	FilesPresent       []string `json:"files_present"`
	SuggestedFilenames []string `json:"suggested_filenames"`
}

// Notes documents the naming rules inside the manifest itself.
type Notes struct {
	NamingRule string `json:"naming_rule"`
	SlugSource string `json:"slug_source"`
	SlugRules  string `json:"slug_rules"`
}

// Manifest is the found/missing report written to stadium_manifest.json.
type Manifest struct {
	GeneratedFrom string  `json:"generated_from"`
	StadiumDir    string  `json:"stadium_dir"`
	Found         []Venue `json:"found"`
	Missing       []Venue `json:"missing"`
	Notes         Notes   `json:"notes"`
}

// UniqueVenues returns one venue per slug in first-seen order. Games without
// a derivable slug are skipped.
func UniqueVenues(games []model.Game) []Venue {
	seen := make(map[string]bool)
	venues := make([]Venue, 0)

	for _, g := range games {
		loc, ok := ParseLocation(g.Location)
		if !ok || seen[loc.Slug] {
			continue
		}
		seen[loc.Slug] = true

		suggested := make([]string, 0, len(Extensions))
		for _, ext := range Extensions {
			suggested = append(suggested, loc.Slug+ext)
		}

		venues = append(venues, Venue{
			Slug:               loc.Slug,
			LocationRaw:        loc.Raw,
			City:               loc.City,
			Stadium:            loc.Stadium,
			ExampleGame:        g.OpponentName,
			FilesPresent:       []string{},
			SuggestedFilenames: suggested,
		})
	}

	return venues
}

// Partition probes images for every venue and splits them into found and
// missing, each sorted by slug.
func Partition(venues []Venue, images ImageLookup) (found, missing []Venue) {
	found = make([]Venue, 0)
	missing = make([]Venue, 0)

	for _, v := range venues {
		for _, ext := range Extensions {
			key := v.Slug + ext
			if images.Exists(key) {
				v.FilesPresent = append(v.FilesPresent, images.Location(key))
			}
		}
		if len(v.FilesPresent) > 0 {
			found = append(found, v)
		} else {
			missing = append(missing, v)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Slug < found[j].Slug })
	sort.Slice(missing, func(i, j int) bool { return missing[i].Slug < missing[j].Slug })

	return found, missing
}

// Build assembles the manifest for games against the images in stadiumDir.
func Build(generatedFrom, stadiumDir string, games []model.Game, images ImageLookup) *Manifest {
	found, missing := Partition(UniqueVenues(games), images)
	return &Manifest{
		GeneratedFrom: generatedFrom,
		StadiumDir:    stadiumDir,
		Found:         found,
		Missing:       missing,
		Notes: Notes{
			NamingRule: fmt.Sprintf("%s/<slug>.jpg|.png|.webp", stadiumDir),
			SlugSource: "Prefer <stadium> + <city>. If no stadium, use <city>.",
			SlugRules:  "lowercase; non-alphanumerics -> '-'; '&' -> 'and'; collapse repeats.",
		},
	}
}

package stadium

import (
	"strings"
	"unicode"
)

// Slugify lowercases s, spells "&" as "and", turns every run of
// non-alphanumeric runes into one hyphen and trims hyphens from both ends.
// Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	s = strings.ReplaceAll(strings.ToLower(s), "&", "and")

	var b strings.Builder
	dash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash {
			b.WriteByte('-')
			dash = true
		}
	}

	res := strings.Trim(b.String(), "-")
	for strings.Contains(res, "--") {
		res = strings.ReplaceAll(res, "--", "-")
	}
	return res
}

// Location is a raw venue string split into its parts.
type Location struct {
	Raw     string
	City    *string
	Stadium *string
	Slug    string
}

// ParseLocation splits "<city> / <stadium>" and derives the slug. ok is
// false when loc is nil or no slug can be derived from it.
func ParseLocation(loc *string) (Location, bool) {
	if loc == nil || *loc == "" {
		return Location{}, false
	}

	parts := strings.Split(*loc, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	city := parts[0]
	var stadium *string
	if len(parts) > 1 {
		stadium = &parts[1]
	}

	var base string
	switch {
	case stadium != nil && *stadium != "":
		base = *stadium + "-" + city
	case city != "":
		base = city
	default:
		base = strings.TrimSpace(*loc)
	}

	slug := Slugify(base)
	if slug == "" {
		return Location{}, false
	}

	return Location{
		Raw:     *loc,
		City:    &city,
		Stadium: stadium,
		Slug:    slug,
	}, true
}

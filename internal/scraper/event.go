package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"huskers-schedule/internal/model"
)

// Selectors for the schedule page markup.
const (
	eventSelector       = ".schedule-event-item"
	venueTypeSelector   = ".schedule-event-venue__type-label"
	weekdaySelector     = ".schedule-event-date__time time"
	dateSelector        = ".schedule-event-date__label"
	winSelector         = ".schedule-event-item-result__win"
	lossSelector        = ".schedule-event-item-result__loss"
	tieSelector         = ".schedule-event-item-result__tie"
	resultLabelSelector = ".schedule-event-item-result__label"
	resultWrapSelector  = ".schedule-event-item-result__wrapper"
	logoWrapperSelector = ".schedule-event-item-default__images .schedule-event-item-default__image-wrapper"
	dividerSelector     = ".schedule-event-item-default__divider"
	opponentSelector    = ".schedule-event-item-default__opponent-name"
	locationSelector    = ".schedule-event-item-default__location .schedule-event-location"
	tvLogoSelector      = ".schedule-event-bottom__link img, .schedule-event-item-links__image"
	linkSelector        = ".schedule-event-bottom__link"
	linkTitleSelector   = ".schedule-event-item-links__title"
)

// ParseEvents extracts one game per schedule entry in document order.
// pageURL is used to resolve relative image sources.
func ParseEvents(doc *goquery.Document, pageURL string) []model.Game {
	games := make([]model.Game, 0)
	doc.Find(eventSelector).Each(func(i int, event *goquery.Selection) {
		games = append(games, parseEvent(event, pageURL))
	})
	return games
}

func parseEvent(event *goquery.Selection, pageURL string) model.Game {
	status, result, kickoff := classifyResult(event)

	game := model.Game{
		VenueType:    textOf(event.Find(venueTypeSelector)),
		Weekday:      textOf(event.Find(weekdaySelector)),
		DateText:     textOf(event.Find(dateSelector)),
		Status:       status,
		Result:       result,
		Kickoff:      kickoff,
		DividerText:  textOf(event.Find(dividerSelector)),
		OpponentName: textOf(event.Find(opponentSelector)),
		Location:     textOf(event.Find(locationSelector)),
		Links:        parseLinks(event),
	}

	// Nebraska first, opponent second, by position.
	wrappers := event.Find(logoWrapperSelector)
	if wrappers.Length() >= 1 {
		game.NebraskaLogoURL = resolveImageURL(wrappers.Eq(0).Find("img"), pageURL)
	}
	if wrappers.Length() >= 2 {
		game.OpponentLogoURL = resolveImageURL(wrappers.Eq(1).Find("img"), pageURL)
	}

	game.TVNetworkLogoURL = resolveImageURL(event.Find(tvLogoSelector), pageURL)

	return game
}

// classifyResult applies the final / upcoming / tbd branch.
func classifyResult(event *goquery.Selection) (model.Status, *model.Result, *string) {
	var outcome string
	switch {
	case event.Find(winSelector).Length() > 0:
		outcome = model.OutcomeWin
	case event.Find(lossSelector).Length() > 0:
		outcome = model.OutcomeLoss
	case event.Find(tieSelector).Length() > 0:
		outcome = model.OutcomeTie
	}

	label := textOf(event.Find(resultLabelSelector))

	if outcome != "" {
		if label == nil {
			label = textOf(event.Find(resultWrapSelector))
		}
		var score *string
		if label != nil {
			s := scoreFromLabel(*label)
			score = &s
		}
		return model.StatusFinal, &model.Result{Outcome: outcome, Score: score}, nil
	}

	if label != nil && *label != "" {
		return model.StatusUpcoming, nil, label
	}

	return model.StatusTBD, nil, nil
}

// scoreFromLabel returns the last whitespace token containing a hyphen,
// or the whole label when none does.
func scoreFromLabel(label string) string {
	parts := strings.Fields(label)
	for i := len(parts) - 1; i >= 0; i-- {
		if strings.Contains(parts[i], "-") {
			return parts[i]
		}
	}
	return label
}

func parseLinks(event *goquery.Selection) []model.Link {
	links := make([]model.Link, 0)
	event.Find(linkSelector).Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			return
		}

		title := textOf(a.Find(linkTitleSelector))
		if title == nil || *title == "" {
			title = textOf(a)
		}

		links = append(links, model.Link{
			Title: *title,
			Href:  absoluteLink(href),
		})
	})
	return links
}

// absoluteLink prefixes root-relative hrefs with SiteOrigin. Protocol-relative
// "//host/path" hrefs are not root-relative and become "https://host/path"
// instead of "https://huskers.com//host/path".
func absoluteLink(href string) string {
	switch {
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return SiteOrigin + href
	}
	return href
}

// textOf returns the normalized text of the first match, or nil when
// nothing matched. A matched but empty element yields "".
func textOf(sel *goquery.Selection) *string {
	if sel.Length() == 0 {
		return nil
	}
	t := cleanSpace(collectText(sel.First()))
	return &t
}

// collectText joins descendant text nodes with a space so adjacent inline
// elements don't run together.
func collectText(sel *goquery.Selection) string {
	var parts []string
	sel.Contents().Each(func(i int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			parts = append(parts, c.Text())
		case "#comment", "script", "style":
		default:
			parts = append(parts, collectText(c))
		}
	})
	return strings.Join(parts, " ")
}

func cleanSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

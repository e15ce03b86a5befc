package model

import "time"

// Status is the lifecycle state of a scheduled game.
type Status string

const (
	StatusTBD      Status = "tbd"
	StatusUpcoming Status = "upcoming"
	StatusFinal    Status = "final"
)

// Result outcome tags.
const (
	OutcomeWin  = "W"
	OutcomeLoss = "L"
	OutcomeTie  = "T"
)

// Result is the outcome of a finished game.
type Result struct {
	Outcome string  `json:"outcome"`
	Score   *string `json:"score"`
}

// Link is a titled link attached to a game (box score, recap, tickets).
type Link struct {
	Title string `json:"title"`
	Href  string `json:"href"`
}

// Game represents a single scraped schedule entry. Nil pointers mean the
// source element was not on the page.
type Game struct {
	VenueType        *string `json:"venue_type"`
	Weekday          *string `json:"weekday"`
	DateText         *string `json:"date_text"`
	Status           Status  `json:"status"`
	Result           *Result `json:"result"`
	Kickoff          *string `json:"kickoff"`
	DividerText      *string `json:"divider_text"`
	NebraskaLogoURL  *string `json:"nebraska_logo_url"`
	OpponentLogoURL  *string `json:"opponent_logo_url"`
	OpponentName     *string `json:"opponent_name"`
	Location         *string `json:"location"`
	TVNetworkLogoURL *string `json:"tv_network_logo_url"`
	Links            []Link  `json:"links"`
}

// Schedule is the document written by a scrape run.
type Schedule struct {
	SourceURL string    `json:"source_url"`
	ScrapedAt time.Time `json:"scraped_at"`
	Games     []Game    `json:"games"`
}

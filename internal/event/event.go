package event

import "strings"

// Event represents one bookable futsal tournament slot on the listing site
type Event struct {
	Title    string `json:"title"`
	Facility string `json:"facility"` // empty when no heuristic matched
	URL      string `json:"url"`      // absolute; identity key for deduplication
	Date     string `json:"date"`     // YYYYMMDD
}

// NewEvent creates a new Event with whitespace-trimmed fields
func NewEvent(title, facility, url, date string) *Event {
	return &Event{
		Title:    strings.TrimSpace(title),
		Facility: strings.TrimSpace(facility),
		URL:      strings.TrimSpace(url),
		Date:     strings.TrimSpace(date),
	}
}

// ID returns the identity key used by the ledger
func (e *Event) ID() string {
	return e.URL
}

// SameAs reports whether two events describe the same reservation slot
func (e *Event) SameAs(other *Event) bool {
	if e == nil || other == nil {
		return false
	}
	return e.URL == other.URL
}

// ShortTitle returns the title cut to at most n runes, with an ellipsis when cut
func (e *Event) ShortTitle(n int) string {
	runes := []rune(e.Title)
	if n <= 0 || len(runes) <= n {
		return e.Title
	}
	return string(runes[:n]) + "..."
}

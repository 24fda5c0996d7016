// Package scraper provides HTTP fetching and HTML extraction for LaBOLA futsal listings.
//
// The scraper fetches one personal-event search page per target date and walks the
// event cards on it. For every card it reads the title link, the status label and a
// facility name, then applies the filter rules. Only accepted cards become events.
// Malformed cards are skipped and logged without affecting the rest of the page, and
// a failed page fetch skips that date without affecting the rest of the run.
package scraper

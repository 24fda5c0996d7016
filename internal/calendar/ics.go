// Package calendar exports events as an iCalendar (.ics) file.
package calendar

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/line"
)

const prodID = "-//futsal-watch//futsal-watch//JA"

// GenerateICS generates one calendar holding an all-day entry per event.
// now is used for DTSTAMP.
func GenerateICS(events []*event.Event, fallback string, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	for _, evt := range events {
		writeEvent(&ics, evt, fallback, now)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func writeEvent(ics *strings.Builder, evt *event.Event, fallback string, now time.Time) {
	day := event.ParseDate(evt.Date)
	if day.IsZero() {
		return
	}

	facility := evt.Facility
	if facility == "" {
		facility = fallback
	}

	ics.WriteString("BEGIN:VEVENT\r\n")

	// Stable across runs so re-imports update instead of duplicating
	ics.WriteString(fmt.Sprintf("UID:%s@futsal-watch\r\n", EventUID(evt)))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", now.UTC().Format("20060102T150405Z")))
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", day.Format("20060102")))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", day.AddDate(0, 0, 1).Format("20060102")))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(facility)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(line.FormatEvent(evt, fallback))))
	ics.WriteString(fmt.Sprintf("URL:%s\r\n", evt.URL))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// EventUID derives a name-based UUID from the event URL
func EventUID(evt *event.Event) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(evt.URL)).String()
}

// WriteFile writes the calendar for events to path
func WriteFile(path string, events []*event.Event, fallback string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating calendar file: %w", err)
	}
	if _, err := io.WriteString(f, GenerateICS(events, fallback, time.Now())); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("writing calendar file: %w", err)
	}
	return f.Close()
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}

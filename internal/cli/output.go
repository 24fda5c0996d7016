package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/futsal-watch/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

const titleWidth = 50

// RunResult contains data to be output
type RunResult struct {
	RunID        string         `json:"run_id"`
	CheckedAt    time.Time      `json:"checked_at"`
	Dates        []string       `json:"dates"`
	Found        int            `json:"found"`
	NewEvents    []*event.Event `json:"new_events"`
	Delivered    []*event.Event `json:"delivered,omitempty"`
	FailedEvents []*event.Event `json:"failed_events,omitempty"`
	Sent         int            `json:"sent"`
	Failed       int            `json:"failed"`
	DryRun       bool           `json:"dry_run,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *RunResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *RunResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *RunResult, verbose bool) error {
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "LaBOLA Monitor - %s\n", result.CheckedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintln(w, rule)

	if result.Found == 0 {
		fmt.Fprintln(w, "No matching events found.")
		fmt.Fprintln(w, rule)
		return nil
	}

	fmt.Fprintf(w, "Found %d matching events\n", result.Found)

	if len(result.NewEvents) == 0 {
		fmt.Fprintln(w, "No new events to notify (all already sent).")
		fmt.Fprintln(w, rule)
		return nil
	}

	fmt.Fprintf(w, "\n--- New Events (%d) ---\n", len(result.NewEvents))
	for _, evt := range result.NewEvents {
		fmt.Fprintf(w, "  [%s] %s\n", evt.Date, evt.ShortTitle(titleWidth))
		if verbose {
			fmt.Fprintf(w, "       URL: %s\n", evt.URL)
			if evt.Facility != "" {
				fmt.Fprintf(w, "       Facility: %s\n", evt.Facility)
			}
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	if result.DryRun {
		fmt.Fprintf(w, "Summary (dry run): %d messages printed, %d failed\n", result.Sent, result.Failed)
	} else {
		fmt.Fprintf(w, "Summary: %d notifications sent, %d failed\n", result.Sent, result.Failed)
	}
	fmt.Fprintln(w, rule)

	return nil
}

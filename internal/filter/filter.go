// Package filter provides the acceptance predicate for listing-site event cards.
//
// A card qualifies when it is open for booking and is a tournament, unless it names
// an excluded venue. Rules are an immutable value so that the scraper can be tested
// with injected keywords:
//
//	rules := filter.NewRules("受付け中", []string{"大会"}, []string{"千住大橋"})
//	d := rules.Evaluate(filter.Card{Status: status, Text: text})
//	if d.Accepted {
//	    // keep the event
//	}
//
// Exclusion is checked first and wins over every other condition. Status is compared
// for exact equality; keywords are substring matches against the card's full text.
package filter

import (
	"fmt"
	"strings"
)

const (
	DefaultAcceptingStatus = "受付け中"
	DefaultRequiredKeyword = "大会"
	DefaultExcludedKeyword = "千住大橋"
)

// Rules holds the filtering criteria. The zero value rejects every card.
type Rules struct {
	acceptingStatus  string
	requiredKeywords []string
	excludedKeywords []string
}

// NewRules creates a Rules value. The keyword slices are copied and blank entries dropped.
func NewRules(acceptingStatus string, required, excluded []string) Rules {
	return Rules{
		acceptingStatus:  strings.TrimSpace(acceptingStatus),
		requiredKeywords: compact(required),
		excludedKeywords: compact(excluded),
	}
}

// DefaultRules returns the rules used when no configuration overrides them
func DefaultRules() Rules {
	return NewRules(DefaultAcceptingStatus, []string{DefaultRequiredKeyword}, []string{DefaultExcludedKeyword})
}

// AcceptingStatus returns the status a card must carry exactly
func (r Rules) AcceptingStatus() string {
	return r.acceptingStatus
}

// RequiredKeywords returns a copy of the keywords that must all appear in the card text
func (r Rules) RequiredKeywords() []string {
	return append([]string(nil), r.requiredKeywords...)
}

// ExcludedKeywords returns a copy of the keywords that reject a card on sight
func (r Rules) ExcludedKeywords() []string {
	return append([]string(nil), r.excludedKeywords...)
}

// Validate checks that the rules can ever accept a card
func (r Rules) Validate() error {
	if r.acceptingStatus == "" {
		return fmt.Errorf("accepting status is required")
	}
	for _, req := range r.requiredKeywords {
		for _, ex := range r.excludedKeywords {
			if strings.Contains(req, ex) {
				return fmt.Errorf("required keyword %q contains excluded keyword %q", req, ex)
			}
		}
	}
	return nil
}

// Card is the part of an event card the predicate looks at
type Card struct {
	Status string // text of the status label, empty if absent
	Text   string // full concatenated text of the card
}

// Decision is the outcome of evaluating a card
type Decision struct {
	Accepted bool
	Reason   string
}

// Evaluate applies the rules to a card.
//
// Order:
//   - Excluded keyword anywhere in the text: reject
//   - Status not exactly equal to the accepting status: reject
//   - Any required keyword missing from the text: reject
//   - Otherwise accept
func (r Rules) Evaluate(c Card) Decision {
	for _, kw := range r.excludedKeywords {
		if strings.Contains(c.Text, kw) {
			return reject("contains excluded keyword %q", kw)
		}
	}

	if r.acceptingStatus == "" || c.Status != r.acceptingStatus {
		if c.Status == "" {
			return reject("no status label")
		}
		return reject("status %q is not %q", c.Status, r.acceptingStatus)
	}

	for _, kw := range r.requiredKeywords {
		if !strings.Contains(c.Text, kw) {
			return reject("missing required keyword %q", kw)
		}
	}

	return Decision{Accepted: true, Reason: "accepting and matches all keywords"}
}

// Accepts is shorthand for Evaluate(c).Accepted
func (r Rules) Accepts(c Card) bool {
	return r.Evaluate(c).Accepted
}

func reject(format string, args ...interface{}) Decision {
	return Decision{Accepted: false, Reason: fmt.Sprintf(format, args...)}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Package ledger records which events have already been notified.
//
// The ledger loads the full set of notified URLs once, answers membership questions
// from memory, and grows only through Commit. Commit must be called after a delivery
// has been confirmed and never before: a crash before the commit can at worst repeat a
// notification on the next run, but can never drop one.
package ledger

import (
	"fmt"

	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/storage"
)

// Ledger is the set of event URLs already notified
type Ledger struct {
	store storage.Store
	seen  map[string]struct{}
}

// Open loads every identifier from store
func Open(store storage.Store) (*Ledger, error) {
	ids, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}

	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}

	return &Ledger{store: store, seen: seen}, nil
}

// IsNew reports whether evt's URL has not been notified yet
func (l *Ledger) IsNew(evt *event.Event) bool {
	_, ok := l.seen[evt.ID()]
	return !ok
}

// FilterNew returns the events not yet notified, preserving order
func (l *Ledger) FilterNew(events []*event.Event) []*event.Event {
	fresh := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if l.IsNew(evt) {
			fresh = append(fresh, evt)
		}
	}
	return fresh
}

// Commit durably records url as notified. The in-memory set is updated only after
// the store accepted the entry. Committing a known url is a no-op.
func (l *Ledger) Commit(url string) error {
	if _, ok := l.seen[url]; ok {
		return nil
	}

	if err := l.store.Append(url); err != nil {
		return fmt.Errorf("committing %s: %w", url, err)
	}

	l.seen[url] = struct{}{}
	return nil
}

// Len returns the number of notified identifiers
func (l *Ledger) Len() int {
	return len(l.seen)
}

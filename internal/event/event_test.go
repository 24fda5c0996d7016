package event

import (
	"testing"
)

func TestNewEvent(t *testing.T) {
	evt := NewEvent("  【Test】大会募集 ", "代々木", " https://labola.jp/r/shop/1/event/show/2/", "20260207")

	if evt.Title != "【Test】大会募集" {
		t.Errorf("expected title to be trimmed, got %q", evt.Title)
	}

	if evt.URL != "https://labola.jp/r/shop/1/event/show/2/" {
		t.Errorf("expected URL to be trimmed, got %q", evt.URL)
	}

	if evt.ID() != evt.URL {
		t.Errorf("ID() = %q, want URL %q", evt.ID(), evt.URL)
	}

	if evt.Date != "20260207" {
		t.Errorf("expected date to be '20260207', got %q", evt.Date)
	}
}

func TestSameAs(t *testing.T) {
	a := NewEvent("A", "", "https://labola.jp/r/shop/1/event/show/2/", "20260207")
	b := NewEvent("B", "other", "https://labola.jp/r/shop/1/event/show/2/", "20260208")
	c := NewEvent("A", "", "https://labola.jp/r/shop/1/event/show/3/", "20260207")

	if !a.SameAs(b) {
		t.Error("events with the same URL should be the same event")
	}
	if a.SameAs(c) {
		t.Error("events with different URLs should differ")
	}
	if a.SameAs(nil) {
		t.Error("SameAs(nil) should be false")
	}
}

func TestShortTitle(t *testing.T) {
	tests := []struct {
		title string
		n     int
		want  string
	}{
		{"short", 10, "short"},
		{"フットサル大会募集", 5, "フットサル..."},
		{"exact", 5, "exact"},
		{"anything", 0, "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			evt := &Event{Title: tt.title}
			if got := evt.ShortTitle(tt.n); got != tt.want {
				t.Errorf("ShortTitle(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

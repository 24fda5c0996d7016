package event

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"20260207", true},
		{"2026020", false},
		{"202602071", false},
		{"2026-02-07", false},
		{"abcdefgh", false},
		{"", false},
		{" 20260207", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := IsValidDate(tt.date); got != tt.want {
				t.Errorf("IsValidDate(%q) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got := ParseDate("20260207")
	want := time.Date(2026, time.February, 7, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate() = %v, want %v", got, want)
	}

	if !ParseDate("20261340").IsZero() {
		t.Error("ParseDate() should return zero time for an impossible date")
	}

	if !ParseDate("not a date").IsZero() {
		t.Error("ParseDate() should return zero time for malformed input")
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"20260207", "2026/02/07"},
		{"20261231", "2026/12/31"},
		{"2026", "2026"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := FormatDate(tt.date); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestLoadDates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dates.txt")
	content := "20260207\n\n  20260214  \n2026-02-21\nfoo\n20260228\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write dates file: %v", err)
	}

	list, err := LoadDates(path)
	if err != nil {
		t.Fatalf("LoadDates() error: %v", err)
	}

	wantDates := []string{"20260207", "20260214", "20260228"}
	if len(list.Dates) != len(wantDates) {
		t.Fatalf("LoadDates() returned %d dates, want %d: %v", len(list.Dates), len(wantDates), list.Dates)
	}
	for i, d := range wantDates {
		if list.Dates[i] != d {
			t.Errorf("Dates[%d] = %q, want %q", i, list.Dates[i], d)
		}
	}

	if len(list.Invalid) != 2 {
		t.Errorf("expected 2 invalid lines, got %d: %v", len(list.Invalid), list.Invalid)
	}
}

func TestLoadDates_MissingFile(t *testing.T) {
	_, err := LoadDates(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatal("LoadDates() expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("LoadDates() error = %v, want fs.ErrNotExist", err)
	}
}

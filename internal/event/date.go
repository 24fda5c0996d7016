package event

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

const dateLayout = "20060102"

var datePattern = regexp.MustCompile(`^\d{8}$`)

// IsValidDate reports whether s is an 8-digit date string
func IsValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ParseDate parses a YYYYMMDD string.
// Returns time.Time{} (zero value) if parsing fails.
func ParseDate(date string) time.Time {
	if !IsValidDate(date) {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return t
}

// FormatDate reformats a YYYYMMDD string as YYYY/MM/DD.
// Strings that are not 8 digits are returned unchanged.
func FormatDate(date string) string {
	if !IsValidDate(date) {
		return date
	}
	return date[:4] + "/" + date[4:6] + "/" + date[6:]
}

// DateList is the result of reading a date list file
type DateList struct {
	Dates   []string // valid dates in file order
	Invalid []string // non-blank lines that are not 8-digit dates
}

// LoadDates reads one date per line from path.
// Blank lines are ignored and malformed lines are collected in Invalid.
// A missing file returns an error satisfying errors.Is(err, fs.ErrNotExist).
func LoadDates(path string) (*DateList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dates file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	list := &DateList{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if IsValidDate(line) {
			list.Dates = append(list.Dates, line)
		} else {
			list.Invalid = append(list.Invalid, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dates file: %w", err)
	}

	return list, nil
}

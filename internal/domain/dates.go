package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for effective dates.
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date in UTC. Effective windows are
// compared at day granularity.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// ParseOptionalDate parses s, returning nil for an empty string.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// WindowContains reports whether the inclusive window [from, to] contains day.
// A nil to is open-ended.
func WindowContains(from time.Time, to *time.Time, day time.Time) bool {
	day = DateOf(day)
	if DateOf(from).After(day) {
		return false
	}
	return to == nil || !DateOf(*to).Before(day)
}

// WindowsOverlap reports whether two inclusive windows share at least one day.
func WindowsOverlap(aFrom time.Time, aTo *time.Time, bFrom time.Time, bTo *time.Time) bool {
	if aTo != nil && DateOf(*aTo).Before(DateOf(bFrom)) {
		return false
	}
	if bTo != nil && DateOf(*bTo).Before(DateOf(aFrom)) {
		return false
	}
	return true
}

package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical wire and display format for calendar dates.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ParseDate accepts ISO-like and US locale dates and returns the calendar day at UTC midnight.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date; the zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// ClampDate bounds d to [lo, hi].
func ClampDate(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}

// ClampRange orders (from, to) and clamps both ends to [lo, hi].
func ClampRange(from, to, lo, hi time.Time) (time.Time, time.Time) {
	if from.IsZero() {
		from = lo
	}
	if to.IsZero() {
		to = hi
	}
	if to.Before(from) {
		from, to = to, from
	}
	return ClampDate(from, lo, hi), ClampDate(to, lo, hi)
}

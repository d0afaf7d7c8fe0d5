package model

import (
	"time"
)

// DateLayout is the storage format for due dates
const DateLayout = "2006-01-02"

// Accepted inputs for due dates, most specific first
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// NormalizeDate reduces a date or timestamp string to YYYY-MM-DD, dropping the
// time of day. Timestamps keep the calendar day they were written in.
func NormalizeDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), true
		}
	}
	return "", false
}

// ParseDate returns midnight of the calendar day in s, in loc
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	d, ok := NormalizeDate(s)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, d, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate formats the calendar day of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// StartOfDay truncates t to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

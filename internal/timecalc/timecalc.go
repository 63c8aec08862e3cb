package timecalc

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the on-disk date key format. Lexicographic order of keys
// equals chronological order.
const DateLayout = "2006-01-02"

var dateKeyRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateKey formats t as a YYYY-MM-DD key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// IsDateKey reports whether s has the shape of a date shard name.
func IsDateKey(s string) bool {
	return dateKeyRe.MatchString(s)
}

// ParseDate parses a YYYY-MM-DD key in the local time zone.
func ParseDate(s string) (time.Time, error) {
	if !IsDateKey(s) {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// DaysAgo returns the date key n calendar days before now.
func DaysAgo(now time.Time, n int) string {
	return DateKey(StartOfDay(now).AddDate(0, 0, -n))
}

// WeekRange returns the Monday and Sunday date keys of the ISO week containing t.
func WeekRange(t time.Time) (string, string) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t).AddDate(0, 0, -(wd - 1))
	sunday := monday.AddDate(0, 0, 6)
	return DateKey(monday), DateKey(sunday)
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

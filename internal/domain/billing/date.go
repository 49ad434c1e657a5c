// internal/domain/billing/date.go
package billing

import (
	"fmt"
	"time"
)

// DateLayout is the persisted form of every civil date crossing the boundary.
const DateLayout = "2006-01-02"

const day = 24 * time.Hour

// Date strips the clock from t and returns midnight UTC of t's own calendar day.
// All engine arithmetic works on values produced by Date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return Date(t).Format(DateLayout)
}

// AddDays shifts a civil date by n days (n may be negative).
func AddDays(t time.Time, n int) time.Time {
	return Date(t).AddDate(0, 0, n)
}

// daysBetween returns the number of whole days from a to b. Both must be civil dates.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / day)
}

// monthsBetween counts calendar month boundaries from a to b, ignoring the day of month.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// addMonthsClamped adds months to a civil date and clamps the day to the end
// of the target month. The day is always taken from base, so callers must pass
// the original start date rather than a previously clamped result.
func addMonthsClamped(base time.Time, months int) time.Time {
	y, m, d := base.Date()
	// Day 1 never overflows into the following month.
	target := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month is the last day of target's month.
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(target.Year(), target.Month(), d, 0, 0, 0, 0, time.UTC)
}

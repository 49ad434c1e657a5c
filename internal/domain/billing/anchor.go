package billing

import (
	"fmt"
	"time"
)

// Anchor returns the date of the n-th occurrence (n >= 0) of p: StartDate
// advanced by n cycles. Month and year occurrences are computed from
// StartDate directly, so a clamped occurrence never shortens later ones:
// 2024-01-31 monthly gives 2024-02-29 then 2024-03-31.
func Anchor(p Period, n int) time.Time {
	return p.Cycle.Shift(p.StartDate, n)
}

// FirstAnchorAtOrAfter returns the smallest n >= 0 with Anchor(p, n) >= target,
// and that anchor.
func FirstAnchorAtOrAfter(p Period, target time.Time) (int, time.Time) {
	start := p.start()
	target = Date(target)
	if !target.After(start) {
		return 0, start
	}

	n := estimateOccurrence(p, start, target)

	// Month lengths and end-of-month clamping can put the estimate one cycle
	// off in either direction. Both loops run at most a couple of times.
	for Anchor(p, n).Before(target) {
		n++
	}
	for n > 0 && !Anchor(p, n-1).Before(target) {
		n--
	}
	return n, Anchor(p, n)
}

// FirstAnchorAfter returns the smallest n >= 0 with Anchor(p, n) > target.
func FirstAnchorAfter(p Period, target time.Time) (int, time.Time) {
	return FirstAnchorAtOrAfter(p, AddDays(target, 1))
}

// LastAnchorBefore returns the largest n with Anchor(p, n) < target.
// ok is false when even the first occurrence is not before target.
func LastAnchorBefore(p Period, target time.Time) (n int, date time.Time, ok bool) {
	first, _ := FirstAnchorAtOrAfter(p, target)
	if first == 0 {
		return 0, time.Time{}, false
	}
	return first - 1, Anchor(p, first-1), true
}

// estimateOccurrence guesses the first occurrence at or after target, where
// target > start. Day and week cycles have fixed length so the guess is exact.
func estimateOccurrence(p Period, start, target time.Time) int {
	switch p.Cycle.Unit {
	case UnitDay, UnitWeek:
		length := p.Cycle.Value
		if p.Cycle.Unit == UnitWeek {
			length *= 7
		}
		days := daysBetween(start, target)
		return (days + length - 1) / length
	case UnitMonth, UnitYear:
		perCycle := p.Cycle.Value
		if p.Cycle.Unit == UnitYear {
			perCycle *= 12
		}
		n := monthsBetween(start, target) / perCycle
		if n < 0 {
			return 0
		}
		return n
	}
	panic(fmt.Sprintf("billing: unknown cycle unit %q", p.Cycle.Unit))
}

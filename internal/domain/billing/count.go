package billing

import "time"

// RenewalsPassed counts occurrences on or before today (and on or before
// EndDate). Multiply by the per-cycle amount for "charged to date".
func RenewalsPassed(p Period, now time.Time) int {
	upper := Date(now)
	if p.start().After(upper) {
		return 0
	}
	if p.pastEnd(upper) {
		upper = Date(*p.EndDate)
	}
	n, _, ok := LastAnchorBefore(p, AddDays(upper, 1))
	if !ok {
		return 0
	}
	return n + 1
}

// RenewalsInRange counts occurrences a with r.Start <= a < r.End that also
// fall between StartDate and EndDate inclusive.
func RenewalsInRange(p Period, r DateRange) int {
	from := Date(r.Start)
	if p.start().After(from) {
		from = p.start()
	}
	to := Date(r.End)
	if p.EndDate != nil {
		if afterEnd := AddDays(*p.EndDate, 1); afterEnd.Before(to) {
			to = afterEnd
		}
	}
	if !from.Before(to) {
		return 0
	}

	low, _ := FirstAnchorAtOrAfter(p, from)
	high, _, ok := LastAnchorBefore(p, to)
	if !ok || high < low {
		return 0
	}
	return high - low + 1
}

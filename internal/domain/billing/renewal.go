package billing

import "time"

// RenewalDate is the client view of the next renewal as of now, inclusive of
// today: a renewal due today is reported as today. A subscription that has not
// started yet renews on its StartDate. ok is false once the subscription has
// ended, i.e. when the next occurrence falls on or after EndDate.
func RenewalDate(p Period, now time.Time) (time.Time, bool) {
	today := Date(now)
	if p.start().After(today) {
		return cutAtEnd(p, p.start())
	}
	_, next := FirstAnchorAtOrAfter(p, today)
	return cutAtEnd(p, next)
}

// RenewalDateAfterToday is the server view used by the daily scheduler: the
// first renewal strictly after today, so a renewal landing on now is skipped.
// It applies the same end cutoff as RenewalDate: an occurrence on EndDate is
// reported as ended by the client view, so the scheduler must not plan a
// reminder for it either.
func RenewalDateAfterToday(p Period, now time.Time) (time.Time, bool) {
	today := Date(now)
	if p.start().After(today) {
		return cutAtEnd(p, p.start())
	}
	_, next := FirstAnchorAfter(p, today)
	return cutAtEnd(p, next)
}

func cutAtEnd(p Period, d time.Time) (time.Time, bool) {
	if p.ended(d) {
		return time.Time{}, false
	}
	return d, true
}

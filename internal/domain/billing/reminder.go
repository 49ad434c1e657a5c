package billing

import "time"

// ReminderDate returns when to remind about the next renewal as of now
// (client view, inclusive of today): lead days before it, never earlier than
// today. When lead reaches back past the previous renewal the reminder moves
// on to the following renewal, which matters for month and year cycles of
// uneven length. ok is false when the subscription has ended, when lead does
// not fit the following cycle either, or when the subscription has not
// started and lead exceeds its first cycle.
func ReminderDate(p Period, lead LeadTime, now time.Time) (time.Time, bool) {
	today := Date(now)
	next, ok := RenewalDate(p, today)
	if !ok {
		return time.Time{}, false
	}
	if p.start().After(today) && !leadFits(p, lead, next) {
		return time.Time{}, false
	}
	return reminderFor(p, lead, next, today)
}

// ReminderTarget returns the renewal a reminder firing on now refers to: the
// latest upcoming renewal whose reminder window has opened by today. ok is
// false when no upcoming renewal can be reminded about.
func ReminderTarget(p Period, lead LeadTime, now time.Time) (time.Time, bool) {
	today := Date(now)
	current, ok := RenewalDate(p, today)
	if !ok {
		return time.Time{}, false
	}
	following, hasFollowing := RenewalDateAfterToday(p, current)
	hasFollowing = hasFollowing && leadFits(p, lead, following)

	// When lead equals the cycle length the following renewal's window opens
	// on the same day as the current renewal.
	if hasFollowing && !AddDays(following, -lead.Days()).After(today) {
		return following, true
	}
	if leadFits(p, lead, current) {
		return current, true
	}
	if hasFollowing {
		return following, true
	}
	return time.Time{}, false
}

// NextReminderDate is the server view used after a reminder was delivered on
// now: the reminder date for the renewal following ReminderTarget, strictly
// after today.
func NextReminderDate(p Period, lead LeadTime, now time.Time) (time.Time, bool) {
	today := Date(now)
	target, ok := ReminderTarget(p, lead, today)
	if !ok {
		return time.Time{}, false
	}
	following, ok := RenewalDateAfterToday(p, target)
	if !ok {
		return time.Time{}, false
	}
	return reminderFor(p, lead, following, AddDays(today, 1))
}

// reminderFor offsets renewal by lead, moving on to the next occurrence once
// when lead does not fit the cycle ending at renewal, and clamps the result to
// earliest. renewal must be an occurrence of p.
func reminderFor(p Period, lead LeadTime, renewal, earliest time.Time) (time.Time, bool) {
	if !leadFits(p, lead, renewal) {
		following, ok := RenewalDateAfterToday(p, renewal)
		if !ok || !leadFits(p, lead, following) {
			return time.Time{}, false
		}
		renewal = following
	}
	candidate := AddDays(renewal, -lead.Days())
	if candidate.Before(earliest) {
		candidate = earliest
	}
	return candidate, true
}

// leadFits reports whether the reminder for renewal falls within the cycle
// ending at renewal.
func leadFits(p Period, lead LeadTime, renewal time.Time) bool {
	return !AddDays(renewal, -lead.Days()).Before(cycleStart(p, renewal))
}

// cycleStart returns the occurrence preceding renewal. For the first
// occurrence that is StartDate moved back one cycle.
func cycleStart(p Period, renewal time.Time) time.Time {
	n, _ := FirstAnchorAtOrAfter(p, renewal)
	return p.Cycle.Shift(p.StartDate, n-1)
}

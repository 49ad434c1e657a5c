package billing

import "time"

// Clock supplies "now" to code built on the engine. The engine functions
// themselves take now as a parameter and never read a clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in Location (UTC when nil), so that
// "today" follows the configured timezone.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now().UTC()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant. Used by tests.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

package billing

import (
	"fmt"
	"time"

	"github.com/samber/lo"
)

// Unit is the calendar unit a cycle repeats in.
type Unit string

const (
	UnitDay   Unit = "DAY"
	UnitWeek  Unit = "WEEK"
	UnitMonth Unit = "MONTH"
	UnitYear  Unit = "YEAR"
)

// Units lists every supported cycle unit.
var Units = []Unit{UnitDay, UnitWeek, UnitMonth, UnitYear}

func (u Unit) String() string {
	return string(u)
}

// Valid reports whether u is one of Units.
func (u Unit) Valid() bool {
	return lo.Contains(Units, u)
}

// Cycle means "every Value Units".
type Cycle struct {
	Unit  Unit
	Value int
}

// Validate is meant for the handler boundary. The engine assumes valid cycles.
func (c Cycle) Validate() error {
	if !c.Unit.Valid() {
		return fmt.Errorf("unknown cycle unit %q", c.Unit)
	}
	if c.Value < 1 {
		return fmt.Errorf("cycle value must be a positive integer, got %d", c.Value)
	}
	return nil
}

func (c Cycle) String() string {
	if c.Value == 1 {
		return fmt.Sprintf("every %s", unitName(c.Unit))
	}
	return fmt.Sprintf("every %d %ss", c.Value, unitName(c.Unit))
}

func unitName(u Unit) string {
	switch u {
	case UnitDay:
		return "day"
	case UnitWeek:
		return "week"
	case UnitMonth:
		return "month"
	case UnitYear:
		return "year"
	}
	return string(u)
}

// Shift moves a civil date forward by k whole cycles (k may be negative).
// Month and year cycles clamp to the last day of the target month.
func (c Cycle) Shift(from time.Time, k int) time.Time {
	base := Date(from)
	steps := k * c.Value
	switch c.Unit {
	case UnitDay:
		return base.AddDate(0, 0, steps)
	case UnitWeek:
		return base.AddDate(0, 0, 7*steps)
	case UnitMonth:
		return addMonthsClamped(base, steps)
	case UnitYear:
		return addMonthsClamped(base, 12*steps)
	}
	panic(fmt.Sprintf("billing: unknown cycle unit %q", c.Unit))
}

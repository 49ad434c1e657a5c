package billing

import "time"

// Period describes a recurring charge: first charged on StartDate, repeating
// every Cycle, with no charge on or after EndDate when it is set.
// Callers own Period values; nothing in this package mutates them.
type Period struct {
	StartDate time.Time
	EndDate   *time.Time // nil means open-ended
	Cycle     Cycle
}

// DateRange is the half-open interval [Start, End).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// LeadTime is how many whole days before a renewal a reminder fires.
type LeadTime int

const (
	LeadSameDay   LeadTime = 0
	LeadOneDay    LeadTime = 1
	LeadThreeDays LeadTime = 3
	LeadOneWeek   LeadTime = 7

	// MaxLeadTime bounds what the handlers accept.
	MaxLeadTime LeadTime = 30
)

func (l LeadTime) Days() int {
	return int(l)
}

func (p Period) start() time.Time {
	return Date(p.StartDate)
}

// ended reports whether d is at or past the end date.
func (p Period) ended(d time.Time) bool {
	return p.EndDate != nil && !d.Before(Date(*p.EndDate))
}

// pastEnd reports whether d is strictly after the end date.
func (p Period) pastEnd(d time.Time) bool {
	return p.EndDate != nil && d.After(Date(*p.EndDate))
}

// internal/domain/subscription/subscription.go
package subscription

import (
	"time"

	"github.com/shopspring/decimal"

	"subscription_tracker_bot/internal/domain/billing"
)

// Subscription is a recurring charge a user tracks.
// Corresponds to the 'subscriptions' table.
type Subscription struct {
	ID        int64
	UserID    int64 // Foreign Key to users.id
	Name      string
	Amount    decimal.Decimal // charged once per cycle
	Currency  string
	StartDate time.Time  // civil date, first charge before any trial shift
	EndDate   *time.Time // nil for open-ended subscriptions
	Cycle     billing.Cycle
	Trial     *billing.Cycle // free period before StartDate's first charge

	LeadTime     *billing.LeadTime // nil disables reminders
	ReminderDate *time.Time        // next reminder, maintained by the services

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BillingPeriod builds the engine input. A trial moves the first charge
// forward by one trial cycle.
func (s *Subscription) BillingPeriod() billing.Period {
	start := billing.Date(s.StartDate)
	if s.Trial != nil {
		start = s.Trial.Shift(start, 1)
	}
	p := billing.Period{
		StartDate: start,
		Cycle:     s.Cycle,
	}
	if s.EndDate != nil {
		end := billing.Date(*s.EndDate)
		p.EndDate = &end
	}
	return p
}

// RemindersEnabled reports whether the user asked to be reminded.
func (s *Subscription) RemindersEnabled() bool {
	return s.LeadTime != nil
}

// ScheduleReminder recomputes ReminderDate as of now with client-view
// semantics. It clears the date when reminders are off or none is possible.
func (s *Subscription) ScheduleReminder(now time.Time) {
	s.ReminderDate = nil
	if !s.RemindersEnabled() {
		return
	}
	p := s.BillingPeriod()
	if next, ok := billing.ReminderDate(p, *s.LeadTime, now); ok {
		s.ReminderDate = &next
		return
	}
	// The first charge of a subscription that has not started may be too
	// close for the lead time; the later renewals still get reminders.
	if p.StartDate.After(billing.Date(now)) {
		if next, ok := billing.ReminderDate(p, *s.LeadTime, billing.AddDays(p.StartDate, 1)); ok {
			s.ReminderDate = &next
		}
	}
}

// AdvanceReminder moves ReminderDate to the following renewal's reminder
// after one was delivered on now.
func (s *Subscription) AdvanceReminder(now time.Time) {
	s.ReminderDate = nil
	if !s.RemindersEnabled() {
		return
	}
	if next, ok := billing.NextReminderDate(s.BillingPeriod(), *s.LeadTime, now); ok {
		s.ReminderDate = &next
	}
}

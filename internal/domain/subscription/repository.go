package subscription

import (
	"context"
	"time"
)

// Repository defines operations for Subscription entities.
type Repository interface {
	Create(ctx context.Context, s *Subscription) error
	Update(ctx context.Context, s *Subscription) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Subscription, error)
	ListByUser(ctx context.Context, userID int64) ([]*Subscription, error)

	// ListDueReminders returns subscriptions whose reminder_date is on or before the given day.
	ListDueReminders(ctx context.Context, onOrBefore time.Time) ([]*Subscription, error)
	// UpdateReminderDate persists only the reminder date; nil clears it.
	UpdateReminderDate(ctx context.Context, id int64, reminderDate *time.Time) error
}

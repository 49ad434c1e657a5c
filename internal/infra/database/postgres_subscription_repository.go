// internal/infra/database/postgres_subscription_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"subscription_tracker_bot/internal/domain/billing"
	"subscription_tracker_bot/internal/domain/subscription"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

const subscriptionColumns = `id, user_id, name, amount, currency, start_date, end_date, cycle_unit, cycle_value,
               trial_unit, trial_value, reminder_lead_days, reminder_date, created_at, updated_at`

type PostgresSubscriptionRepository struct {
	db *sql.DB
}

func NewPostgresSubscriptionRepository(db *sql.DB) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{db: db}
}

func (r *PostgresSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	query := `INSERT INTO subscriptions (user_id, name, amount, currency, start_date, end_date, cycle_unit, cycle_value,
                                        trial_unit, trial_value, reminder_lead_days, reminder_date)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, subscriptionArgs(s)...).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating subscription: %w", err)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	query := `UPDATE subscriptions
               SET user_id = $1, name = $2, amount = $3, currency = $4, start_date = $5, end_date = $6,
                   cycle_unit = $7, cycle_value = $8, trial_unit = $9, trial_value = $10,
                   reminder_lead_days = $11, reminder_date = $12, updated_at = NOW()
               WHERE id = $13
               RETURNING updated_at`

	args := append(subscriptionArgs(s), s.ID)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubscriptionNotFound
		}
		return fmt.Errorf("error updating subscription %d: %w", s.ID, err)
	}
	return nil
}

func (r *PostgresSubscriptionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting subscription %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for subscription %d: %w", id, err)
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

func (r *PostgresSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, fmt.Errorf("error getting subscription %d: %w", id, err)
	}
	return s, nil
}

func (r *PostgresSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
               FROM subscriptions
               WHERE user_id = $1
               ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing subscriptions for user %d: %w", userID, err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func (r *PostgresSubscriptionRepository) ListDueReminders(ctx context.Context, onOrBefore time.Time) ([]*subscription.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
               FROM subscriptions
               WHERE reminder_date IS NOT NULL AND reminder_date <= $1
               ORDER BY reminder_date ASC, id ASC` // Oldest first
	rows, err := r.db.QueryContext(ctx, query, billing.FormatDate(onOrBefore))
	if err != nil {
		return nil, fmt.Errorf("error querying due reminders: %w", err)
	}
	defer rows.Close()
	return scanSubscriptions(rows)
}

func (r *PostgresSubscriptionRepository) UpdateReminderDate(ctx context.Context, id int64, reminderDate *time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET reminder_date = $1, updated_at = NOW() WHERE id = $2`,
		nullDate(reminderDate), id)
	if err != nil {
		return fmt.Errorf("error updating reminder date for subscription %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows for subscription %d: %w", id, err)
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row rowScanner) (*subscription.Subscription, error) {
	var (
		s            subscription.Subscription
		endDate      sql.NullTime
		reminderDate sql.NullTime
		cycleUnit    string
		trialUnit    sql.NullString
		trialValue   sql.NullInt32
		leadDays     sql.NullInt32
	)
	err := row.Scan(
		&s.ID, &s.UserID, &s.Name, &s.Amount, &s.Currency, &s.StartDate, &endDate, &cycleUnit, &s.Cycle.Value,
		&trialUnit, &trialValue, &leadDays, &reminderDate, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.StartDate = billing.Date(s.StartDate)
	s.Cycle.Unit = billing.Unit(cycleUnit)
	if endDate.Valid {
		s.EndDate = lo.ToPtr(billing.Date(endDate.Time))
	}
	if trialUnit.Valid && trialValue.Valid {
		s.Trial = &billing.Cycle{Unit: billing.Unit(trialUnit.String), Value: int(trialValue.Int32)}
	}
	if leadDays.Valid {
		s.LeadTime = lo.ToPtr(billing.LeadTime(leadDays.Int32))
	}
	if reminderDate.Valid {
		s.ReminderDate = lo.ToPtr(billing.Date(reminderDate.Time))
	}
	return &s, nil
}

func scanSubscriptions(rows *sql.Rows) ([]*subscription.Subscription, error) {
	subs := make([]*subscription.Subscription, 0)
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning subscription row: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscription rows: %w", err)
	}
	return subs, nil
}

// subscriptionArgs lists the writable columns in INSERT order. Dates travel as
// YYYY-MM-DD strings so the session timezone cannot shift them.
func subscriptionArgs(s *subscription.Subscription) []any {
	var trialUnit sql.NullString
	var trialValue sql.NullInt32
	if s.Trial != nil {
		trialUnit = sql.NullString{String: string(s.Trial.Unit), Valid: true}
		trialValue = sql.NullInt32{Int32: int32(s.Trial.Value), Valid: true}
	}
	var leadDays sql.NullInt32
	if s.LeadTime != nil {
		leadDays = sql.NullInt32{Int32: int32(s.LeadTime.Days()), Valid: true}
	}
	return []any{
		s.UserID, s.Name, s.Amount, s.Currency,
		billing.FormatDate(s.StartDate), nullDate(s.EndDate),
		string(s.Cycle.Unit), s.Cycle.Value,
		trialUnit, trialValue, leadDays, nullDate(s.ReminderDate),
	}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: billing.FormatDate(*t), Valid: true}
}

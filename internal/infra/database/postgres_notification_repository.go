// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"subscription_tracker_bot/internal/domain/billing"
	"subscription_tracker_bot/internal/domain/notification"
)

var ErrDuplicateDelivery = errors.New("reminder already delivered for this renewal (subscription_id, renewal_date)")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) RecordDelivery(ctx context.Context, d *notification.Delivery) error {
	query := `INSERT INTO reminder_deliveries (subscription_id, renewal_date)
               VALUES ($1, $2)
               RETURNING id, sent_at`
	err := r.db.QueryRowContext(ctx, query, d.SubscriptionID, billing.FormatDate(d.RenewalDate)).Scan(&d.ID, &d.SentAt)
	if err != nil {
		if isUniqueViolation(err, "reminder_deliveries_unique") {
			return ErrDuplicateDelivery
		}
		return fmt.Errorf("error recording delivery for subscription %d: %w", d.SubscriptionID, err)
	}
	return nil
}

func (r *PostgresNotificationRepository) WasDelivered(ctx context.Context, subscriptionID int64, renewalDate time.Time) (bool, error) {
	query := `SELECT EXISTS (
                   SELECT 1 FROM reminder_deliveries WHERE subscription_id = $1 AND renewal_date = $2
               )`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, subscriptionID, billing.FormatDate(renewalDate)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking delivery for subscription %d: %w", subscriptionID, err)
	}
	return exists, nil
}

package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subscription_tracker_bot/internal/domain/notification"
)

func TestPostgresNotificationRepository_RecordDelivery(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresNotificationRepository(db)
	sentAt := time.Date(2025, 6, 17, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reminder_deliveries`)).
		WithArgs(int64(11), "2025-06-20").
		WillReturnRows(sqlmock.NewRows([]string{"id", "sent_at"}).AddRow(1, sentAt))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO reminder_deliveries`)).
		WithArgs(int64(11), "2025-06-20").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reminder_deliveries_unique"})

	d := &notification.Delivery{SubscriptionID: 11, RenewalDate: day(2025, 6, 20)}
	require.NoError(t, repo.RecordDelivery(context.Background(), d))
	assert.Equal(t, sentAt, d.SentAt)

	err := repo.RecordDelivery(context.Background(), &notification.Delivery{SubscriptionID: 11, RenewalDate: day(2025, 6, 20)})
	assert.ErrorIs(t, err, ErrDuplicateDelivery)
}

func TestPostgresNotificationRepository_WasDelivered(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresNotificationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS`)).
		WithArgs(int64(11), "2025-06-20").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	delivered, err := repo.WasDelivered(context.Background(), 11, day(2025, 6, 20))
	require.NoError(t, err)
	assert.True(t, delivered)
}

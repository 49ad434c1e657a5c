package app

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v3"

	"subscription_tracker_bot/internal/domain/notification"
	"subscription_tracker_bot/internal/domain/subscription"
	"subscription_tracker_bot/internal/domain/user"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	args := m.Called(ctx, telegramID)
	u, _ := args.Get(0).(*user.User)
	return u, args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	return m.Called(ctx, u).Error(0)
}

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSubscriptionRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*subscription.Subscription)
	return s, args.Error(1)
}

func (m *MockSubscriptionRepository) ListByUser(ctx context.Context, userID int64) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, userID)
	subs, _ := args.Get(0).([]*subscription.Subscription)
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) ListDueReminders(ctx context.Context, onOrBefore time.Time) ([]*subscription.Subscription, error) {
	args := m.Called(ctx, onOrBefore)
	subs, _ := args.Get(0).([]*subscription.Subscription)
	return subs, args.Error(1)
}

func (m *MockSubscriptionRepository) UpdateReminderDate(ctx context.Context, id int64, reminderDate *time.Time) error {
	return m.Called(ctx, id, reminderDate).Error(0)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) RecordDelivery(ctx context.Context, d *notification.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockNotificationRepository) WasDelivered(ctx context.Context, subscriptionID int64, renewalDate time.Time) (bool, error) {
	args := m.Called(ctx, subscriptionID, renewalDate)
	return args.Bool(0), args.Error(1)
}

type MockTelegramClient struct {
	mock.Mock
}

func (m *MockTelegramClient) Send(chatID int64, text string, markup *telebot.ReplyMarkup) error {
	return m.Called(chatID, text, markup).Error(0)
}

func testLogger() *logrus.Entry {
	logger, _ := logrustest.NewNullLogger()
	return logger.WithField("component", "test")
}

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, day int) *time.Time {
	t := d(y, m, day)
	return &t
}

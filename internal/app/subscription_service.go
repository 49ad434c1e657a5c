package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"subscription_tracker_bot/internal/domain/billing"
	"subscription_tracker_bot/internal/domain/subscription"
	"subscription_tracker_bot/internal/domain/user"
)

// SubscriptionView pairs a subscription with its dates as of today.
type SubscriptionView struct {
	Subscription   *subscription.Subscription
	RenewalDate    *time.Time // nil once the subscription has ended
	RenewalsPassed int
}

func (v SubscriptionView) Ended() bool {
	return v.RenewalDate == nil
}

type SubscriptionService struct {
	subRepo     subscription.Repository
	userRepo    user.Repository
	clock       billing.Clock
	validate    *validator.Validate
	defaultLead *billing.LeadTime
	logger      *logrus.Entry
}

// NewSubscriptionService builds the service. A negative defaultLeadDays turns
// reminders off for subscriptions that do not ask for one.
func NewSubscriptionService(
	sr subscription.Repository,
	ur user.Repository,
	clock billing.Clock,
	defaultLeadDays int,
	logger *logrus.Entry,
) *SubscriptionService {
	s := &SubscriptionService{
		subRepo:  sr,
		userRepo: ur,
		clock:    clock,
		validate: newValidator(),
		logger:   logger,
	}
	if defaultLeadDays >= 0 {
		s.defaultLead = lo.ToPtr(billing.LeadTime(defaultLeadDays))
	}
	return s
}

// Create validates the input, schedules the first reminder and stores the subscription.
func (s *SubscriptionService) Create(ctx context.Context, telegramID int64, in SubscriptionInput) (*SubscriptionView, error) {
	u, err := lookupUser(ctx, s.userRepo, telegramID)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if err := s.validate.Struct(in); err != nil {
		return nil, invalidInput(err)
	}

	sub := &subscription.Subscription{
		UserID:    u.ID,
		Name:      in.Name,
		Amount:    in.Amount,
		Currency:  lo.Ternary(in.Currency != "", in.Currency, u.Currency),
		StartDate: billing.Date(in.StartDate),
		Cycle:     in.Cycle,
		Trial:     in.Trial,
	}
	if in.EndDate != nil {
		sub.EndDate = lo.ToPtr(billing.Date(*in.EndDate))
	}
	switch {
	case in.DisableReminders:
	case in.LeadDays != nil:
		sub.LeadTime = lo.ToPtr(billing.LeadTime(*in.LeadDays))
	default:
		sub.LeadTime = s.defaultLead
	}

	now := s.clock.Now()
	sub.ScheduleReminder(now)
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"user_id":         u.ID,
		"cycle":           sub.Cycle.String(),
	}).Info("Subscription created")

	view := s.view(sub, now)
	return &view, nil
}

// List returns the user's subscriptions, soonest renewal first and ended ones last.
func (s *SubscriptionService) List(ctx context.Context, telegramID int64) ([]SubscriptionView, error) {
	u, err := lookupUser(ctx, s.userRepo, telegramID)
	if err != nil {
		return nil, err
	}
	subs, err := s.subRepo.ListByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	now := s.clock.Now()
	views := lo.Map(subs, func(sub *subscription.Subscription, _ int) SubscriptionView {
		return s.view(sub, now)
	})
	slices.SortStableFunc(views, func(a, b SubscriptionView) int {
		switch {
		case a.Ended() && b.Ended():
			return 0
		case a.Ended():
			return 1
		case b.Ended():
			return -1
		}
		return a.RenewalDate.Compare(*b.RenewalDate)
	})
	return views, nil
}

// Get returns one of the user's subscriptions.
func (s *SubscriptionService) Get(ctx context.Context, telegramID, subscriptionID int64) (*SubscriptionView, error) {
	sub, err := s.owned(ctx, telegramID, subscriptionID)
	if err != nil {
		return nil, err
	}
	view := s.view(sub, s.clock.Now())
	return &view, nil
}

// Remove deletes one of the user's subscriptions and returns what was deleted.
func (s *SubscriptionService) Remove(ctx context.Context, telegramID, subscriptionID int64) (*subscription.Subscription, error) {
	sub, err := s.owned(ctx, telegramID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if err := s.subRepo.Delete(ctx, sub.ID); err != nil {
		return nil, fmt.Errorf("failed to delete subscription %d: %w", sub.ID, err)
	}
	s.logger.WithField("subscription_id", sub.ID).Info("Subscription removed")
	return sub, nil
}

// SetReminder changes the lead time (nil turns reminders off) and reschedules.
func (s *SubscriptionService) SetReminder(ctx context.Context, telegramID, subscriptionID int64, lead *billing.LeadTime) (*SubscriptionView, error) {
	if lead != nil && (*lead < 0 || *lead > billing.MaxLeadTime) {
		return nil, fmt.Errorf("%w: reminder must be between 0 and %d days", ErrInvalidInput, billing.MaxLeadTime)
	}
	sub, err := s.owned(ctx, telegramID, subscriptionID)
	if err != nil {
		return nil, err
	}
	sub.LeadTime = lead
	return s.reschedule(ctx, sub)
}

// SetEndDate sets or clears (nil) the end date and reschedules.
func (s *SubscriptionService) SetEndDate(ctx context.Context, telegramID, subscriptionID int64, end *time.Time) (*SubscriptionView, error) {
	sub, err := s.owned(ctx, telegramID, subscriptionID)
	if err != nil {
		return nil, err
	}
	if end != nil {
		d := billing.Date(*end)
		if d.Before(sub.StartDate) {
			return nil, fmt.Errorf("%w: end date must not be before the start date %s", ErrInvalidInput, billing.FormatDate(sub.StartDate))
		}
		end = &d
	}
	sub.EndDate = end
	return s.reschedule(ctx, sub)
}

func (s *SubscriptionService) reschedule(ctx context.Context, sub *subscription.Subscription) (*SubscriptionView, error) {
	now := s.clock.Now()
	sub.ScheduleReminder(now)
	if err := s.subRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update subscription %d: %w", sub.ID, err)
	}
	s.logger.WithFields(logrus.Fields{
		"subscription_id": sub.ID,
		"reminder_date":   formatOptionalDate(sub.ReminderDate),
	}).Info("Subscription rescheduled")

	view := s.view(sub, now)
	return &view, nil
}

func (s *SubscriptionService) owned(ctx context.Context, telegramID, subscriptionID int64) (*subscription.Subscription, error) {
	u, err := lookupUser(ctx, s.userRepo, telegramID)
	if err != nil {
		return nil, err
	}
	sub, err := s.subRepo.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != u.ID {
		return nil, ErrNotOwner
	}
	return sub, nil
}

func (s *SubscriptionService) view(sub *subscription.Subscription, now time.Time) SubscriptionView {
	p := sub.BillingPeriod()
	v := SubscriptionView{
		Subscription:   sub,
		RenewalsPassed: billing.RenewalsPassed(p, now),
	}
	if next, ok := billing.RenewalDate(p, now); ok {
		v.RenewalDate = &next
	}
	return v
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return billing.FormatDate(*t)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"subscription_tracker_bot/internal/domain/billing"
	"subscription_tracker_bot/internal/domain/notification"
	"subscription_tracker_bot/internal/domain/subscription"
	domainTelegram "subscription_tracker_bot/internal/domain/telegram"
	"subscription_tracker_bot/internal/domain/user"
	idb "subscription_tracker_bot/internal/infra/database"
)

// CallbackReminderOff identifies the inline button that turns reminders off.
// The button payload is the subscription id.
const CallbackReminderOff = "sub_rmoff"

// ReminderService sends the renewal reminders that are due.
type ReminderService struct {
	subRepo        subscription.Repository
	userRepo       user.Repository
	notifRepo      notification.Repository
	telegramClient domainTelegram.Client
	clock          billing.Clock
	logger         *logrus.Entry
}

func NewReminderService(
	sr subscription.Repository,
	ur user.Repository,
	nr notification.Repository,
	tc domainTelegram.Client,
	clock billing.Clock,
	logger *logrus.Entry,
) *ReminderService {
	return &ReminderService{
		subRepo:        sr,
		userRepo:       ur,
		notifRepo:      nr,
		telegramClient: tc,
		clock:          clock,
		logger:         logger,
	}
}

// ProcessDueReminders handles every subscription whose reminder date is today
// or earlier. A reminder is sent at most once per renewal; afterwards the
// reminder date moves to the following renewal. A failed send leaves the date
// untouched so the next run retries it.
func (s *ReminderService) ProcessDueReminders(ctx context.Context) error {
	now := s.clock.Now()
	today := billing.Date(now)
	s.logger.WithField("today", billing.FormatDate(today)).Info("Processing due reminders")

	due, err := s.subRepo.ListDueReminders(ctx, today)
	if err != nil {
		return fmt.Errorf("failed to list due reminders: %w", err)
	}
	if len(due) == 0 {
		s.logger.Info("No reminders due")
		return nil
	}

	var sent, failed int
	for _, sub := range due {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		ok, err := s.processOne(ctx, sub, now)
		if err != nil {
			failed++
			s.logger.WithError(err).WithField("subscription_id", sub.ID).Error("Failed to process reminder")
			continue
		}
		if ok {
			sent++
		}
	}
	s.logger.WithFields(logrus.Fields{"due": len(due), "sent": sent, "failed": failed}).Info("Reminder run finished")
	return nil
}

// processOne reports whether a message went out for sub.
func (s *ReminderService) processOne(ctx context.Context, sub *subscription.Subscription, now time.Time) (bool, error) {
	log := s.logger.WithField("subscription_id", sub.ID)

	if !sub.RemindersEnabled() {
		return false, s.subRepo.UpdateReminderDate(ctx, sub.ID, nil)
	}
	renewal, ok := billing.ReminderTarget(sub.BillingPeriod(), *sub.LeadTime, now)
	if !ok {
		log.Info("No upcoming renewal to remind about, clearing reminder")
		return false, s.subRepo.UpdateReminderDate(ctx, sub.ID, nil)
	}

	delivered, err := s.notifRepo.WasDelivered(ctx, sub.ID, renewal)
	if err != nil {
		return false, err
	}

	sent := false
	if !delivered {
		owner, err := s.userRepo.GetByID(ctx, sub.UserID)
		if err != nil {
			return false, fmt.Errorf("failed to load owner %d: %w", sub.UserID, err)
		}
		if owner.IsActive {
			if err := s.send(owner, sub, renewal, now); err != nil {
				return false, err
			}
			sent = true
			log.WithField("renewal_date", billing.FormatDate(renewal)).Info("Reminder sent")
		} else {
			log.Warn("Owner is inactive, skipping reminder")
		}

		err = s.notifRepo.RecordDelivery(ctx, &notification.Delivery{SubscriptionID: sub.ID, RenewalDate: renewal})
		if err != nil && !errors.Is(err, idb.ErrDuplicateDelivery) {
			return sent, err
		}
	}

	sub.AdvanceReminder(now)
	if err := s.subRepo.UpdateReminderDate(ctx, sub.ID, sub.ReminderDate); err != nil {
		return sent, err
	}
	return sent, nil
}

func (s *ReminderService) send(owner *user.User, sub *subscription.Subscription, renewal, now time.Time) error {
	text := ReminderText(sub, renewal, now)

	markup := &telebot.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data("Stop reminders", CallbackReminderOff, strconv.FormatInt(sub.ID, 10))))

	if err := s.telegramClient.Send(owner.TelegramID, text, markup); err != nil {
		return fmt.Errorf("failed to send reminder to %d: %w", owner.TelegramID, err)
	}
	return nil
}

// ReminderText renders the reminder message for one renewal.
func ReminderText(sub *subscription.Subscription, renewal, now time.Time) string {
	var when string
	switch days := int(renewal.Sub(billing.Date(now)).Hours() / 24); days {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", days)
	}
	return fmt.Sprintf("🔔 %s renews %s (%s): %s %s",
		sub.Name, when, billing.FormatDate(renewal), sub.Amount.StringFixed(2), sub.Currency)
}

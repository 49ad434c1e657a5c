package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"subscription_tracker_bot/internal/app"
	"subscription_tracker_bot/internal/domain/billing"
)

// Inline buttons. The payload of each is the subscription id.
var (
	btnConfirmDelete = telebot.Btn{Unique: "sub_del"}
	btnKeep          = telebot.Btn{Unique: "sub_keep"}
	btnReminderOff   = telebot.Btn{Unique: app.CallbackReminderOff}
)

// RegisterSubscriptionHandlers registers the commands that manage subscriptions.
func RegisterSubscriptionHandlers(ctx context.Context, b *telebot.Bot, subService *app.SubscriptionService, baseLogger *logrus.Entry) {
	b.Handle("/add", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/add",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		in, err := parseAddArgs(c.Args())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid command format")
			if errors.Is(err, errUsage) {
				return c.Send(addUsage)
			}
			return c.Send(capitalize(err.Error()) + ".\n\n" + addUsage)
		}

		view, err := subService.Create(ctx, c.Sender().ID, in)
		if err != nil {
			return replyError(c, handlerLogger, err)
		}
		return c.Send("Added:\n" + formatSubscription(*view))
	})

	b.Handle("/list", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/list",
			"sender_id": c.Sender().ID,
		})

		views, err := subService.List(ctx, c.Sender().ID)
		if err != nil {
			return replyError(c, handlerLogger, err)
		}
		handlerLogger.WithField("subscriptions_count", len(views)).Info("Listed subscriptions")
		return c.Send(formatSubscriptionList(views))
	})

	b.Handle("/remove", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remove",
			"sender_id": c.Sender().ID,
		})
		args := c.Args()
		if len(args) != 1 {
			return c.Send("Usage: /remove <id>. Find the id with /list.")
		}
		id, err := parseID(args[0])
		if err != nil {
			return c.Send(capitalize(err.Error()) + ".")
		}

		view, err := subService.Get(ctx, c.Sender().ID, id)
		if err != nil {
			return replyError(c, handlerLogger.WithField("subscription_id", id), err)
		}

		payload := strconv.FormatInt(id, 10)
		markup := &telebot.ReplyMarkup{}
		markup.Inline(markup.Row(
			markup.Data("Delete", btnConfirmDelete.Unique, payload),
			markup.Data("Keep", btnKeep.Unique, payload),
		))
		return c.Send(fmt.Sprintf("Delete this subscription?\n\n%s", formatSubscription(*view)), markup)
	})

	b.Handle(&btnConfirmDelete, func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "sub_del",
			"sender_id": c.Sender().ID,
		})
		id, err := parseID(c.Data())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid callback payload")
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
		}

		removed, err := subService.Remove(ctx, c.Sender().ID, id)
		if err != nil {
			return respondError(c, handlerLogger.WithField("subscription_id", id), err)
		}
		if err := c.Edit(fmt.Sprintf("Deleted #%d %s.", removed.ID, removed.Name)); err != nil {
			handlerLogger.WithError(err).Warn("Could not edit confirmation message")
		}
		return c.Respond()
	})

	b.Handle(&btnKeep, func(c telebot.Context) error {
		if err := c.Edit("Kept, nothing was deleted."); err != nil {
			baseLogger.WithError(err).Warn("Could not edit confirmation message")
		}
		return c.Respond()
	})

	b.Handle("/remind", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/remind",
			"sender_id": c.Sender().ID,
		})
		args := c.Args()
		if len(args) != 2 {
			return c.Send(fmt.Sprintf("Usage: /remind <id> <days|off>, days from 0 to %d.", billing.MaxLeadTime))
		}
		id, err := parseID(args[0])
		if err != nil {
			return c.Send(capitalize(err.Error()) + ".")
		}
		lead, err := parseLead(args[1])
		if err != nil {
			return c.Send(capitalize(err.Error()) + ".")
		}

		view, err := subService.SetReminder(ctx, c.Sender().ID, id, lead)
		if err != nil {
			return replyError(c, handlerLogger.WithField("subscription_id", id), err)
		}
		return c.Send(reminderConfirmation(view))
	})

	b.Handle(&btnReminderOff, func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   app.CallbackReminderOff,
			"sender_id": c.Sender().ID,
		})
		id, err := parseID(c.Data())
		if err != nil {
			handlerLogger.WithError(err).Warn("Invalid callback payload")
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
		}
		if _, err := subService.SetReminder(ctx, c.Sender().ID, id, nil); err != nil {
			return respondError(c, handlerLogger.WithField("subscription_id", id), err)
		}
		if err := c.Edit(c.Message().Text + "\n\nReminders turned off."); err != nil {
			handlerLogger.WithError(err).Warn("Could not edit reminder message")
		}
		return c.Respond(&telebot.CallbackResponse{Text: "Reminders turned off."})
	})

	b.Handle("/end", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/end",
			"sender_id": c.Sender().ID,
		})
		args := c.Args()
		if len(args) != 2 {
			return c.Send("Usage: /end <id> <YYYY-MM-DD|none>. No renewal on or after the end date is counted.")
		}
		id, err := parseID(args[0])
		if err != nil {
			return c.Send(capitalize(err.Error()) + ".")
		}
		end, err := parseOptionalDate(args[1])
		if err != nil {
			return c.Send(capitalize(err.Error()) + ".")
		}

		view, err := subService.SetEndDate(ctx, c.Sender().ID, id, end)
		if err != nil {
			return replyError(c, handlerLogger.WithField("subscription_id", id), err)
		}
		return c.Send("Updated:\n" + formatSubscription(*view))
	})
}

func reminderConfirmation(v *app.SubscriptionView) string {
	s := v.Subscription
	switch {
	case s.LeadTime == nil:
		return fmt.Sprintf("Reminders for %s are off.", s.Name)
	case s.ReminderDate == nil && v.RenewalDate == nil:
		return fmt.Sprintf("Saved, but %s has no upcoming renewal to remind you about.", s.Name)
	case s.ReminderDate == nil:
		return fmt.Sprintf("Saved, but %s is longer than the billing cycle of %s (%s), so there is nothing to remind you about. Try a shorter lead time.",
			plural(s.LeadTime.Days(), "day"), s.Name, s.Cycle)
	default:
		return fmt.Sprintf("I will remind you about %s %s before each renewal. Next reminder: %s.",
			s.Name, plural(s.LeadTime.Days(), "day"), billing.FormatDate(*s.ReminderDate))
	}
}

// RegisterReportHandlers registers /spend.
func RegisterReportHandlers(ctx context.Context, b *telebot.Bot, reportService *app.ReportService, baseLogger *logrus.Entry) {
	b.Handle("/spend", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/spend",
			"sender_id": c.Sender().ID,
		})

		var arg string
		if args := c.Args(); len(args) > 0 {
			arg = args[0]
		}
		window, err := app.ParseWindow(arg)
		if err != nil {
			return replyError(c, handlerLogger, err)
		}

		report, err := reportService.Spend(ctx, c.Sender().ID, window)
		if err != nil {
			return replyError(c, handlerLogger, err)
		}
		handlerLogger.WithFields(logrus.Fields{
			"window":     window,
			"currencies": len(report.Totals),
		}).Info("Spend report built")
		return c.Send(formatSpendReport(report))
	})
}

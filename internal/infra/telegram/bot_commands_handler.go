// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"subscription_tracker_bot/internal/app"
)

// Commands is the command menu published to Telegram.
var Commands = []telebot.Command{
	{Text: "add", Description: "Track a new subscription"},
	{Text: "list", Description: "Show your subscriptions and next renewals"},
	{Text: "spend", Description: "Spending this week, month or year"},
	{Text: "remind", Description: "Change or turn off reminders"},
	{Text: "end", Description: "Set or clear an end date"},
	{Text: "remove", Description: "Delete a subscription"},
	{Text: "currency", Description: "Set your default currency"},
	{Text: "help", Description: "How to use the bot"},
}

func helpText() string {
	var b strings.Builder
	b.WriteString("I track your subscriptions and remind you before they renew.\n\n")
	b.WriteString(addUsage + "\n\n")
	b.WriteString("/list - your subscriptions with the next renewal dates\n")
	b.WriteString("/spend [week|month|year] - what you pay in the current period\n")
	b.WriteString("/remind <id> <days|off> - remind me N days before each renewal\n")
	b.WriteString("/end <id> <YYYY-MM-DD|none> - stop counting renewals from that date\n")
	b.WriteString("/remove <id> - delete a subscription\n")
	b.WriteString("/currency <ISO> - default currency for new subscriptions, e.g. EUR\n")
	b.WriteString("/help - show this message")
	return b.String()
}

func RegisterBotCommands(
	ctx context.Context,
	b *telebot.Bot,
	userService *app.UserService,
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		sender := c.Sender()
		logCtx := startHelpLogger.WithFields(logrus.Fields{"command": "/start", "sender_id": sender.ID})
		logCtx.Info("Processing /start command")

		u, created, err := userService.Register(ctx, sender.ID, sender.FirstName, sender.LastName)
		if err != nil {
			return replyError(c, logCtx, err)
		}
		logCtx.WithFields(logrus.Fields{"user_id": u.ID, "created": created}).Info("User registered")

		if created {
			return c.Send(fmt.Sprintf("Hi, %s! Your default currency is %s, change it with /currency.\n\n%s",
				u.FirstName, u.Currency, helpText()))
		}
		return c.Send(fmt.Sprintf("Welcome back, %s! Use /list to see your subscriptions.", u.FirstName))
	})

	b.Handle("/help", func(c telebot.Context) error {
		startHelpLogger.WithFields(logrus.Fields{"command": "/help", "sender_id": c.Sender().ID}).Info("Processing /help command")
		return c.Send(helpText())
	})

	b.Handle("/currency", func(c telebot.Context) error {
		logCtx := baseLogger.WithFields(logrus.Fields{"handler": "/currency", "sender_id": c.Sender().ID})
		args := c.Args()
		if len(args) != 1 {
			u, err := userService.Get(ctx, c.Sender().ID)
			if err != nil {
				return replyError(c, logCtx, err)
			}
			return c.Send(fmt.Sprintf("Your default currency is %s. Usage: /currency <ISO code>, e.g. /currency EUR", u.Currency))
		}

		u, err := userService.SetCurrency(ctx, c.Sender().ID, args[0])
		if err != nil {
			return replyError(c, logCtx, err)
		}
		logCtx.WithField("currency", u.Currency).Info("Default currency changed")
		return c.Send(fmt.Sprintf("Default currency set to %s. Existing subscriptions keep their currency.", u.Currency))
	})
}

package telegram

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"

	"subscription_tracker_bot/internal/app"
	idb "subscription_tracker_bot/internal/infra/database"
)

const genericFailure = "Something went wrong, please try again later."

// errorText maps a service error to a chat reply. expected is false for
// errors the user cannot fix, which the caller should log.
func errorText(err error) (text string, expected bool) {
	switch {
	case errors.Is(err, app.ErrUserNotRegistered):
		return "Send /start first so I can keep track of your subscriptions.", true
	case errors.Is(err, app.ErrNotOwner), errors.Is(err, idb.ErrSubscriptionNotFound):
		return "Subscription not found. Use /list to see your subscriptions.", true
	case errors.Is(err, app.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), app.ErrInvalidInput.Error()+": ")
		return capitalize(msg) + ".", true
	default:
		return genericFailure, false
	}
}

// replyError answers a command with errorText and logs unexpected errors.
func replyError(c telebot.Context, log *logrus.Entry, err error) error {
	text, expected := errorText(err)
	if expected {
		log.WithError(err).Info("Request rejected")
	} else {
		log.WithError(err).Error("Request failed")
	}
	return c.Send(text)
}

// respondError answers a button press with errorText.
func respondError(c telebot.Context, log *logrus.Entry, err error) error {
	text, expected := errorText(err)
	if !expected {
		log.WithError(err).Error("Callback failed")
	}
	return c.Respond(&telebot.CallbackResponse{Text: text, ShowAlert: expected})
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// internal/infra/telegram/client.go
package telegram

import (
	"gopkg.in/telebot.v3"
)

// TelebotAdapter delivers messages for the services through a telebot.Bot.
type TelebotAdapter struct {
	bot *telebot.Bot
}

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// Send posts text to a private chat. The chat id of a private chat equals the user's Telegram id.
func (a *TelebotAdapter) Send(chatID int64, text string, markup *telebot.ReplyMarkup) error {
	opts := &telebot.SendOptions{DisableWebPagePreview: true}
	if markup != nil {
		opts.ReplyMarkup = markup
	}
	_, err := a.bot.Send(telebot.ChatID(chatID), text, opts)
	return err
}

package telegram

import "gopkg.in/telebot.v3"

// Client delivers bot messages to a chat. markup may be nil.
type Client interface {
	Send(chatID int64, text string, markup *telebot.ReplyMarkup) error
}

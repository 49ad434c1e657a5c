package user

import (
	"database/sql"
	"time"
)

// User is a Telegram user who tracks subscriptions with the bot.
type User struct {
	ID         int64
	TelegramID int64
	FirstName  string
	LastName   sql.NullString // Telegram users may have no last name
	Currency   string         // ISO 4217 code used when a subscription omits one
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DisplayName joins first and last name when the last name is known.
func (u *User) DisplayName() string {
	if u.LastName.Valid && u.LastName.String != "" {
		return u.FirstName + " " + u.LastName.String
	}
	return u.FirstName
}

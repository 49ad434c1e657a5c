package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"subscription_tracker_bot/internal/domain/user"
)

// Custom errors
var ErrUserNotFound = errors.New("user not found")
var ErrDuplicateTelegramID = errors.New("user with this Telegram ID already exists")

const userColumns = `id, telegram_id, first_name, last_name, currency, is_active, created_at, updated_at`

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u *user.User) error {
	query := `INSERT INTO users (telegram_id, first_name, last_name, currency, is_active)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, u.TelegramID, u.FirstName, u.LastName, u.Currency, u.IsActive).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_telegram_id_key") {
			return ErrDuplicateTelegramID
		}
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *PostgresUserRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE telegram_id = $1`
	return r.getOne(ctx, query, telegramID)
}

func (r *PostgresUserRepository) getOne(ctx context.Context, query string, arg int64) (*user.User, error) {
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.TelegramID, &u.FirstName, &u.LastName, &u.Currency, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("error getting user: %w", err)
	}
	return u, nil
}

func (r *PostgresUserRepository) Update(ctx context.Context, u *user.User) error {
	query := `UPDATE users
               SET first_name = $1, last_name = $2, currency = $3, is_active = $4, updated_at = NOW()
               WHERE id = $5
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, u.FirstName, u.LastName, u.Currency, u.IsActive, u.ID).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return fmt.Errorf("error updating user: %w", err)
	}
	return nil
}

package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"subscription_tracker_bot/internal/domain/user"
	idb "subscription_tracker_bot/internal/infra/database"
)

// Application-level errors shared by the services.
var ErrUserNotRegistered = errors.New("user is not registered, send /start first")
var ErrNotOwner = errors.New("subscription belongs to another user")
var ErrInvalidInput = errors.New("invalid input")

type UserService struct {
	userRepo        user.Repository
	validate        *validator.Validate
	defaultCurrency string
}

func NewUserService(ur user.Repository, defaultCurrency string) *UserService {
	return &UserService{
		userRepo:        ur,
		validate:        newValidator(),
		defaultCurrency: strings.ToUpper(defaultCurrency),
	}
}

// Register creates the user on first contact. Repeated calls refresh the
// stored name and reactivate the account; created reports whether a new row
// was inserted.
func (s *UserService) Register(ctx context.Context, telegramID int64, firstName, lastName string) (u *user.User, created bool, err error) {
	existing, err := s.userRepo.GetByTelegramID(ctx, telegramID)
	switch {
	case err == nil:
		return s.refresh(ctx, existing, firstName, lastName)
	case !errors.Is(err, idb.ErrUserNotFound):
		return nil, false, fmt.Errorf("failed to look up user: %w", err)
	}

	u = &user.User{
		TelegramID: telegramID,
		FirstName:  firstName,
		LastName:   nullString(lastName),
		Currency:   s.defaultCurrency,
		IsActive:   true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, idb.ErrDuplicateTelegramID) {
			// Lost a race with a concurrent /start.
			existing, getErr := s.userRepo.GetByTelegramID(ctx, telegramID)
			if getErr != nil {
				return nil, false, fmt.Errorf("failed to load concurrently created user: %w", getErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}
	return u, true, nil
}

func (s *UserService) refresh(ctx context.Context, u *user.User, firstName, lastName string) (*user.User, bool, error) {
	last := nullString(lastName)
	if u.IsActive && u.FirstName == firstName && u.LastName == last {
		return u, false, nil
	}
	u.FirstName = firstName
	u.LastName = last
	u.IsActive = true
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, false, fmt.Errorf("failed to update user %d: %w", u.ID, err)
	}
	return u, false, nil
}

// Get returns the registered user for a Telegram account.
func (s *UserService) Get(ctx context.Context, telegramID int64) (*user.User, error) {
	return lookupUser(ctx, s.userRepo, telegramID)
}

// SetCurrency changes the currency applied to new subscriptions that do not
// name one.
func (s *UserService) SetCurrency(ctx context.Context, telegramID int64, currency string) (*user.User, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if err := s.validate.Var(currency, "required,iso4217"); err != nil {
		return nil, fmt.Errorf("%w: %q is not an ISO 4217 currency code", ErrInvalidInput, currency)
	}

	u, err := lookupUser(ctx, s.userRepo, telegramID)
	if err != nil {
		return nil, err
	}
	u.Currency = currency
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to update currency for user %d: %w", u.ID, err)
	}
	return u, nil
}

func lookupUser(ctx context.Context, repo user.Repository, telegramID int64) (*user.User, error) {
	u, err := repo.GetByTelegramID(ctx, telegramID)
	if err != nil {
		if errors.Is(err, idb.ErrUserNotFound) {
			return nil, ErrUserNotRegistered
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !u.IsActive {
		return nil, ErrUserNotRegistered
	}
	return u, nil
}

func nullString(v string) sql.NullString {
	if v == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: v, Valid: true}
}

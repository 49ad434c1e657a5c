package app

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"subscription_tracker_bot/internal/domain/user"
	idb "subscription_tracker_bot/internal/infra/database"
)

func TestUserService_RegisterNewUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "usd")
	ctx := context.Background()

	repo.On("GetByTelegramID", ctx, int64(42)).Return(nil, idb.ErrUserNotFound).Once()
	repo.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
		return u.TelegramID == 42 && u.Currency == "USD" && u.IsActive && !u.LastName.Valid
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*user.User).ID = 7
	}).Return(nil).Once()

	u, created, err := svc.Register(ctx, 42, "Ann", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), u.ID)
	repo.AssertExpectations(t)
}

func TestUserService_RegisterExistingUnchanged(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "USD")
	ctx := context.Background()

	existing := &user.User{ID: 7, TelegramID: 42, FirstName: "Ann", LastName: sql.NullString{String: "Lee", Valid: true}, IsActive: true}
	repo.On("GetByTelegramID", ctx, int64(42)).Return(existing, nil).Once()

	u, created, err := svc.Register(ctx, 42, "Ann", "Lee")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, existing, u)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUserService_RegisterReactivates(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "USD")
	ctx := context.Background()

	existing := &user.User{ID: 7, TelegramID: 42, FirstName: "Ann", IsActive: false}
	repo.On("GetByTelegramID", ctx, int64(42)).Return(existing, nil).Once()
	repo.On("Update", ctx, existing).Return(nil).Once()

	u, created, err := svc.Register(ctx, 42, "Anna", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, u.IsActive)
	assert.Equal(t, "Anna", u.FirstName)
	repo.AssertExpectations(t)
}

func TestUserService_RegisterConcurrentCreate(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "USD")
	ctx := context.Background()

	winner := &user.User{ID: 8, TelegramID: 42, FirstName: "Ann", IsActive: true}
	repo.On("GetByTelegramID", ctx, int64(42)).Return(nil, idb.ErrUserNotFound).Once()
	repo.On("Create", ctx, mock.Anything).Return(idb.ErrDuplicateTelegramID).Once()
	repo.On("GetByTelegramID", ctx, int64(42)).Return(winner, nil).Once()

	u, created, err := svc.Register(ctx, 42, "Ann", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(8), u.ID)
	repo.AssertExpectations(t)
}

func TestUserService_SetCurrency(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "USD")
	ctx := context.Background()

	existing := &user.User{ID: 7, TelegramID: 42, FirstName: "Ann", Currency: "USD", IsActive: true}
	repo.On("GetByTelegramID", ctx, int64(42)).Return(existing, nil).Once()
	repo.On("Update", ctx, mock.MatchedBy(func(u *user.User) bool { return u.Currency == "EUR" })).Return(nil).Once()

	u, err := svc.SetCurrency(ctx, 42, " eur ")
	require.NoError(t, err)
	assert.Equal(t, "EUR", u.Currency)
	repo.AssertExpectations(t)
}

func TestUserService_SetCurrencyRejectsUnknownCode(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "USD")

	_, err := svc.SetCurrency(context.Background(), 42, "EURO")
	assert.ErrorIs(t, err, ErrInvalidInput)
	repo.AssertNotCalled(t, "GetByTelegramID", mock.Anything, mock.Anything)
}

func TestUserService_GetUnregistered(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo, "USD")
	ctx := context.Background()

	repo.On("GetByTelegramID", ctx, int64(42)).Return(nil, idb.ErrUserNotFound).Once()
	repo.On("GetByTelegramID", ctx, int64(43)).Return(&user.User{ID: 9, IsActive: false}, nil).Once()

	_, err := svc.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrUserNotRegistered)
	_, err = svc.Get(ctx, 43)
	assert.ErrorIs(t, err, ErrUserNotRegistered)
}

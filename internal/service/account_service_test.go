package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/event"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/repository"
)

func TestAccountService_Signup(t *testing.T) {
	t.Run("creates free account and publishes event", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		bus := event.NewBus()
		events, unsubscribe := bus.Subscribe()
		defer unsubscribe()
		svc := NewAccountService(accounts, gateFor(accounts), bus)

		accounts.On("FindByEmail", mock.Anything, "new@example.com").Return(model.Account{}, model.ErrAccountNotFound)
		accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
			return a.Email == "new@example.com" &&
				a.Role == model.RoleUser &&
				a.Subscription == model.TierFree &&
				a.GenerationsLeft == 20 && a.GenerationsTotal == 20 &&
				auth.ComparePassword(a.PasswordHash, "s3cret-pass")
		})).Return(nil)

		account, err := svc.Signup(bg, model.SignupRequest{Name: " Ada ", Email: " new@example.com ", Password: "s3cret-pass"})
		require.NoError(t, err)
		assert.Equal(t, "Ada", account.Name)
		assert.NotEmpty(t, account.ID)

		select {
		case e := <-events:
			assert.Equal(t, event.TypeAccountCreated, e.Type)
		case <-time.After(time.Second):
			t.Fatal("account.created not published")
		}
		accounts.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		svc := NewAccountService(accounts, gateFor(accounts), nil)
		accounts.On("FindByEmail", mock.Anything, "writer@example.com").Return(writerAccount, nil)

		_, err := svc.Signup(bg, model.SignupRequest{Email: "writer@example.com", Password: "long-enough"})
		assert.True(t, errors.Is(err, model.ErrEmailTaken))
		accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("validation", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		svc := NewAccountService(accounts, gateFor(accounts), nil)

		for _, req := range []model.SignupRequest{
			{Email: "", Password: "long-enough"},
			{Email: "a@b.c", Password: ""},
			{Email: "a@b.c", Password: "short"},
			{Email: "a@b.c", Password: strings.Repeat("a", 80)},
			{Email: "not-an-email", Password: "long-enough"},
		} {
			_, err := svc.Signup(bg, req)
			assert.True(t, errors.Is(err, model.ErrValidation), "request %+v", req)
		}
		accounts.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestAccountService_UpdateProfile(t *testing.T) {
	t.Run("email owned by someone else", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		svc := NewAccountService(accounts, gateFor(accounts), nil)
		accounts.On("FindByEmail", mock.Anything, "other@example.com").Return(otherAccount, nil)

		email := "other@example.com"
		_, err := svc.UpdateProfile(bg, subjectOf(writerAccount), model.UpdateProfileRequest{Email: &email})
		assert.True(t, errors.Is(err, model.ErrEmailTaken))
	})

	t.Run("name only keeps email", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		svc := NewAccountService(accounts, gateFor(accounts), nil)

		updated := writerAccount
		updated.Name = "New Name"
		accounts.On("UpdateProfile", mock.Anything, writerID, "New Name", "writer@example.com").Return(updated, nil)

		name := "  New Name "
		account, err := svc.UpdateProfile(bg, subjectOf(writerAccount), model.UpdateProfileRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "New Name", account.Name)
	})
}

func TestAccountService_ChangePassword(t *testing.T) {
	hash, err := auth.HashPassword("old-password")
	require.NoError(t, err)
	withHash := writerAccount
	withHash.PasswordHash = hash

	t.Run("wrong current password", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		accounts.On("FindByID", mock.Anything, writerID).Return(withHash, nil)
		svc := NewAccountService(accounts, auth.NewGate(accounts), nil)

		err := svc.ChangePassword(bg, subjectOf(writerAccount), model.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
		assert.True(t, errors.Is(err, model.ErrValidation))
		accounts.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("new password too long for bcrypt", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		accounts.On("FindByID", mock.Anything, writerID).Return(withHash, nil).Maybe()
		svc := NewAccountService(accounts, auth.NewGate(accounts), nil)

		err := svc.ChangePassword(bg, subjectOf(writerAccount), model.ChangePasswordRequest{
			CurrentPassword: "old-password",
			NewPassword:     strings.Repeat("é", 40),
		})
		assert.True(t, errors.Is(err, model.ErrValidation))
		accounts.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("success stores new hash", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		accounts.On("FindByID", mock.Anything, writerID).Return(withHash, nil)
		accounts.On("UpdatePassword", mock.Anything, writerID, mock.MatchedBy(func(h string) bool {
			return auth.ComparePassword(h, "brand-new-pass")
		})).Return(nil)
		svc := NewAccountService(accounts, auth.NewGate(accounts), nil)

		err := svc.ChangePassword(bg, subjectOf(writerAccount), model.ChangePasswordRequest{CurrentPassword: "old-password", NewPassword: "brand-new-pass"})
		require.NoError(t, err)
		accounts.AssertExpectations(t)
	})
}

func TestAccountService_EnsureAdmin(t *testing.T) {
	t.Run("creates admin when missing", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		accounts.On("FindByEmail", mock.Anything, "root@example.com").Return(model.Account{}, model.ErrAccountNotFound)
		accounts.On("Create", mock.Anything, mock.MatchedBy(func(a model.Account) bool {
			return a.Role == model.RoleAdmin && a.Email == "root@example.com"
		})).Return(nil)

		svc := NewAccountService(accounts, auth.NewGate(accounts), nil)
		require.NoError(t, svc.EnsureAdmin(bg, "root@example.com", "admin-password"))
		accounts.AssertExpectations(t)
	})

	t.Run("promotes existing user", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		accounts.On("FindByEmail", mock.Anything, "writer@example.com").Return(writerAccount, nil)
		accounts.On("ApplyAdminUpdate", mock.Anything, writerID, mock.MatchedBy(func(u model.AccountUpdate) bool {
			return u.Role != nil && *u.Role == model.RoleAdmin
		})).Return(writerAccount, nil)

		svc := NewAccountService(accounts, auth.NewGate(accounts), nil)
		require.NoError(t, svc.EnsureAdmin(bg, "writer@example.com", ""))
		accounts.AssertExpectations(t)
	})

	t.Run("no email configured", func(t *testing.T) {
		accounts := new(repository.MockAccountRepository)
		svc := NewAccountService(accounts, auth.NewGate(accounts), nil)
		assert.NoError(t, svc.EnsureAdmin(bg, "", ""))
	})
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-blog-ai/internal/cache"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/repository"
)

type memoryCache struct {
	values  map[string]model.AdminStats
	deletes int
}

func (c *memoryCache) GetJSON(_ context.Context, key string, dest any) error {
	v, ok := c.values[key]
	if !ok {
		return cache.ErrMiss
	}
	*dest.(*model.AdminStats) = v
	return nil
}

func (c *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.values[key] = value.(model.AdminStats)
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.deletes++
	delete(c.values, key)
	return nil
}

func newAdminFixture(t *testing.T) (*AdminService, *repository.MockAccountRepository, *repository.MockPostRepository, *memoryCache) {
	t.Helper()
	accounts := new(repository.MockAccountRepository)
	posts := new(repository.MockPostRepository)
	audit, _ := auditFor(t)
	store := &memoryCache{values: map[string]model.AdminStats{}}

	svc := NewAdminService(accounts, posts, gateFor(accounts), audit, store, time.Minute, nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 17, 9, 30, 0, 0, time.UTC) }
	return svc, accounts, posts, store
}

func TestAdminService_UpdateAccount(t *testing.T) {
	t.Run("premium upgrade resets quota to 100/100", func(t *testing.T) {
		svc, accounts, _, _ := newAdminFixture(t)

		upgraded := writerAccount
		upgraded.Subscription = model.TierPremium
		upgraded.GenerationsLeft, upgraded.GenerationsTotal = 100, 100

		accounts.On("ApplyAdminUpdate", mock.Anything, writerID, mock.MatchedBy(func(u model.AccountUpdate) bool {
			return u.Role == nil &&
				u.Subscription != nil && *u.Subscription == model.TierPremium &&
				u.GenerationsLeft != nil && *u.GenerationsLeft == 100 &&
				u.GenerationsTotal != nil && *u.GenerationsTotal == 100
		})).Return(upgraded, nil)

		account, err := svc.UpdateAccount(bg, actorOf(adminAccount), writerID, model.AdminUpdateAccountRequest{Subscription: "premium"})
		require.NoError(t, err)
		assert.Equal(t, 100, account.GenerationsLeft)
		assert.Equal(t, 100, account.GenerationsTotal)
		accounts.AssertExpectations(t)
	})

	t.Run("downgrade leaves quota alone", func(t *testing.T) {
		svc, accounts, _, _ := newAdminFixture(t)

		accounts.On("ApplyAdminUpdate", mock.Anything, writerID, mock.MatchedBy(func(u model.AccountUpdate) bool {
			return u.Subscription != nil && *u.Subscription == model.TierFree &&
				u.GenerationsLeft == nil && u.GenerationsTotal == nil
		})).Return(writerAccount, nil)

		_, err := svc.UpdateAccount(bg, actorOf(adminAccount), writerID, model.AdminUpdateAccountRequest{Subscription: "free"})
		require.NoError(t, err)
		accounts.AssertExpectations(t)
	})

	t.Run("admin cannot demote self", func(t *testing.T) {
		svc, accounts, _, _ := newAdminFixture(t)

		_, err := svc.UpdateAccount(bg, actorOf(adminAccount), adminID, model.AdminUpdateAccountRequest{Role: "user"})
		assert.True(t, errors.Is(err, model.ErrSelfLockout))
		accounts.AssertNotCalled(t, "ApplyAdminUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		svc, accounts, _, _ := newAdminFixture(t)

		_, err := svc.UpdateAccount(bg, actorOf(writerAccount), otherID, model.AdminUpdateAccountRequest{Role: "admin"})
		assert.True(t, errors.Is(err, model.ErrForbidden))
		accounts.AssertNotCalled(t, "ApplyAdminUpdate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid values", func(t *testing.T) {
		svc, _, _, _ := newAdminFixture(t)

		_, err := svc.UpdateAccount(bg, actorOf(adminAccount), writerID, model.AdminUpdateAccountRequest{})
		assert.True(t, errors.Is(err, model.ErrValidation))

		_, err = svc.UpdateAccount(bg, actorOf(adminAccount), writerID, model.AdminUpdateAccountRequest{Role: "owner"})
		assert.True(t, errors.Is(err, model.ErrValidation))

		_, err = svc.UpdateAccount(bg, actorOf(adminAccount), writerID, model.AdminUpdateAccountRequest{Subscription: "gold"})
		assert.True(t, errors.Is(err, model.ErrValidation))
	})
}

func TestAdminService_DeleteAccount(t *testing.T) {
	t.Run("cascade delete", func(t *testing.T) {
		svc, accounts, _, store := newAdminFixture(t)
		report := model.DeletionReport{SavedLinks: 2, CollectionLinks: 1, Collections: 1, Posts: 3}
		accounts.On("DeleteCascade", mock.Anything, writerID).Return(report, nil)

		got, err := svc.DeleteAccount(bg, actorOf(adminAccount), writerID)
		require.NoError(t, err)
		assert.Equal(t, report, got)
		assert.Equal(t, 1, store.deletes)
	})

	t.Run("self delete is refused", func(t *testing.T) {
		svc, accounts, _, _ := newAdminFixture(t)

		_, err := svc.DeleteAccount(bg, actorOf(adminAccount), adminID)
		assert.True(t, errors.Is(err, model.ErrSelfLockout))
		accounts.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		svc, _, _, _ := newAdminFixture(t)

		_, err := svc.DeleteAccount(bg, actorOf(adminAccount), "not-a-uuid")
		assert.True(t, errors.Is(err, model.ErrAccountNotFound))
	})
}

func TestAdminService_Stats(t *testing.T) {
	svc, accounts, posts, _ := newAdminFixture(t)

	accounts.On("Count", mock.Anything).Return(10, nil).Once()
	accounts.On("CountBySubscription", mock.Anything, model.TierPremium).Return(3, nil).Once()
	posts.On("CountAll", mock.Anything).Return(42, nil).Once()
	posts.On("CountCreatedSince", mock.Anything, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)).Return(7, nil).Once()

	want := model.AdminStats{TotalUsers: 10, PremiumUsers: 3, TotalPosts: 42, PostsThisMonth: 7}

	stats, err := svc.Stats(bg, subjectOf(adminAccount))
	require.NoError(t, err)
	assert.Equal(t, want, stats)

	// Second call is served from cache; the Once expectations would fail otherwise.
	stats, err = svc.Stats(bg, subjectOf(adminAccount))
	require.NoError(t, err)
	assert.Equal(t, want, stats)

	accounts.AssertExpectations(t)
	posts.AssertExpectations(t)

	_, err = svc.Stats(bg, subjectOf(writerAccount))
	assert.True(t, errors.Is(err, model.ErrForbidden))
}

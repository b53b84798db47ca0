package repository

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-blog-ai/internal/model"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id string) (model.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, email string) (model.Account, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountRepository) Create(ctx context.Context, a model.Account) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, id string, name string, email string) (model.Account, error) {
	args := m.Called(ctx, id, name, email)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) ApplyAdminUpdate(ctx context.Context, id string, update model.AccountUpdate) (model.Account, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockAccountRepository) ConsumeGeneration(ctx context.Context, id string) (model.Quota, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Quota), args.Error(1)
}

func (m *MockAccountRepository) RefundGeneration(ctx context.Context, id string) (model.Quota, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Quota), args.Error(1)
}

func (m *MockAccountRepository) List(ctx context.Context) ([]model.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) CountBySubscription(ctx context.Context, tier string) (int, error) {
	args := m.Called(ctx, tier)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountRepository) DeleteCascade(ctx context.Context, id string) (model.DeletionReport, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DeletionReport), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, p model.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, p model.Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Query(ctx context.Context, query model.PostQuery) ([]model.Post, model.Meta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(model.Meta), args.Error(2)
	}
	return args.Get(0).([]model.Post), args.Get(1).(model.Meta), args.Error(2)
}

func (m *MockPostRepository) CountsByAuthor(ctx context.Context, authorID string) (model.PostCounts, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(model.PostCounts), args.Error(1)
}

func (m *MockPostRepository) Recent(ctx context.Context, authorID string, limit int) ([]model.Post, error) {
	args := m.Called(ctx, authorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) RecentDrafts(ctx context.Context, authorID string, limit int) ([]model.Post, error) {
	args := m.Called(ctx, authorID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	args := m.Called(ctx, since)
	return args.Int(0), args.Error(1)
}

func (m *MockPostRepository) CollectionsForPost(ctx context.Context, postID string) ([]model.Collection, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockPostRepository) SetCollections(ctx context.Context, postID string, collectionIDs []string) error {
	args := m.Called(ctx, postID, collectionIDs)
	return args.Error(0)
}

type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) Create(ctx context.Context, c model.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCollectionRepository) FindByID(ctx context.Context, id string) (model.Collection, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListByUser(ctx context.Context, userID string, search string) ([]model.Collection, error) {
	args := m.Called(ctx, userID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Collection), args.Error(1)
}

func (m *MockCollectionRepository) CountOwned(ctx context.Context, userID string, ids []string) (int, error) {
	args := m.Called(ctx, userID, ids)
	return args.Int(0), args.Error(1)
}

func (m *MockCollectionRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockSavedPostRepository struct {
	mock.Mock
}

func (m *MockSavedPostRepository) Save(ctx context.Context, userID string, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockSavedPostRepository) Unsave(ctx context.Context, userID string, postID string) error {
	args := m.Called(ctx, userID, postID)
	return args.Error(0)
}

func (m *MockSavedPostRepository) ListSaved(ctx context.Context, userID string) ([]model.Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Log(ctx context.Context, entry model.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Get(1).(model.Meta), args.Error(2)
	}
	return args.Get(0).([]model.AuditEntry), args.Get(1).(model.Meta), args.Error(2)
}

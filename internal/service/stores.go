package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

type AccountStore interface {
	FindByID(ctx context.Context, id string) (model.Account, error)
	FindByEmail(ctx context.Context, email string) (model.Account, error)
	Create(ctx context.Context, a model.Account) error
	UpdateProfile(ctx context.Context, id string, name string, email string) (model.Account, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	ApplyAdminUpdate(ctx context.Context, id string, update model.AccountUpdate) (model.Account, error)
	ConsumeGeneration(ctx context.Context, id string) (model.Quota, error)
	RefundGeneration(ctx context.Context, id string) (model.Quota, error)
	List(ctx context.Context) ([]model.Account, error)
	Count(ctx context.Context) (int, error)
	CountBySubscription(ctx context.Context, tier string) (int, error)
	DeleteCascade(ctx context.Context, id string) (model.DeletionReport, error)
}

type PostStore interface {
	Create(ctx context.Context, p model.Post) error
	FindByID(ctx context.Context, id string) (model.Post, error)
	Update(ctx context.Context, p model.Post) error
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, query model.PostQuery) ([]model.Post, model.Meta, error)
	CountsByAuthor(ctx context.Context, authorID string) (model.PostCounts, error)
	Recent(ctx context.Context, authorID string, limit int) ([]model.Post, error)
	RecentDrafts(ctx context.Context, authorID string, limit int) ([]model.Post, error)
	CountAll(ctx context.Context) (int, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int, error)
	CollectionsForPost(ctx context.Context, postID string) ([]model.Collection, error)
	SetCollections(ctx context.Context, postID string, collectionIDs []string) error
}

type CollectionStore interface {
	Create(ctx context.Context, c model.Collection) error
	FindByID(ctx context.Context, id string) (model.Collection, error)
	ListByUser(ctx context.Context, userID string, search string) ([]model.Collection, error)
	CountOwned(ctx context.Context, userID string, ids []string) (int, error)
	Delete(ctx context.Context, id string) error
}

type SavedPostStore interface {
	Save(ctx context.Context, userID string, postID string) error
	Unsave(ctx context.Context, userID string, postID string) error
	ListSaved(ctx context.Context, userID string) ([]model.Post, error)
}

type AuditStore interface {
	Log(ctx context.Context, entry model.AuditEntry) error
	Query(ctx context.Context, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error)
}

// Authorizer is satisfied by *auth.Gate.
type Authorizer interface {
	Authorize(ctx context.Context, check auth.Check) error
}

// MinPasswordLength applies to signup and password changes.
const MinPasswordLength = 8

func checkPage(page int) error {
	if page > model.MaxPage {
		return validationError(fmt.Sprintf("page must be at most %d", model.MaxPage), strconv.Itoa(page))
	}
	return nil
}

// checkPasswordLength rejects passwords bcrypt cannot hash or that are too
// short. Length is counted in bytes.
func checkPasswordLength(password string, field string) error {
	if len(password) < MinPasswordLength {
		return validationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength), field)
	}
	if len(password) > auth.MaxPasswordBytes {
		return validationError(fmt.Sprintf("password must be at most %d bytes", auth.MaxPasswordBytes), field)
	}
	return nil
}

func validationError(message string, details string) error {
	err := apierror.Wrap(model.ErrValidation, "VALIDATION_ERROR", message, http.StatusBadRequest)
	err.Details = details
	return err
}

func forbidden(message string) error {
	return apierror.Wrap(model.ErrForbidden, "FORBIDDEN", message, http.StatusForbidden)
}

// requireID rejects ids that cannot name a record, so malformed path
// parameters read as not found instead of reaching the database.
func requireID(id string, notFound error) error {
	if _, err := uuid.Parse(id); err != nil {
		apiErr := apierror.Wrap(notFound, "NOT_FOUND", notFound.Error(), http.StatusNotFound)
		apiErr.Details = id
		return apiErr
	}
	return nil
}

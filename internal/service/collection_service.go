package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/util"
)

const maxDescriptionLength = 500

type CollectionService struct {
	collections CollectionStore
	gate        Authorizer
}

func NewCollectionService(collections CollectionStore, gate Authorizer) *CollectionService {
	return &CollectionService{collections: collections, gate: gate}
}

func (s *CollectionService) List(ctx context.Context, subject model.Subject, search string) ([]model.Collection, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionManageCollection}); err != nil {
		return nil, err
	}
	return s.collections.ListByUser(ctx, subject.ID, strings.TrimSpace(search))
}

func (s *CollectionService) Create(ctx context.Context, subject model.Subject, req model.CreateCollectionRequest) (model.Collection, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionManageCollection}); err != nil {
		return model.Collection{}, err
	}

	name := util.TruncateRunes(util.CleanText(req.Name), maxNameLength)
	if name == "" {
		return model.Collection{}, validationError("name is required", "name")
	}

	collection := model.Collection{
		ID:          uuid.NewString(),
		UserID:      subject.ID,
		Name:        name,
		Description: util.TruncateRunes(strings.TrimSpace(req.Description), maxDescriptionLength),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.collections.Create(ctx, collection); err != nil {
		return model.Collection{}, err
	}
	return collection, nil
}

func (s *CollectionService) Delete(ctx context.Context, subject model.Subject, id string) error {
	if err := requireID(id, model.ErrCollectionNotFound); err != nil {
		return err
	}

	collection, err := s.collections.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: collection.UserID, Action: auth.ActionManageCollection}); err != nil {
		return err
	}

	return s.collections.Delete(ctx, collection.ID)
}

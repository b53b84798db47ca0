package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/event"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/util"
)

const (
	maxTitleLength = 200
	maxPhaseLength = 50
)

type PostService struct {
	posts       PostStore
	collections CollectionStore
	saved       SavedPostStore
	accounts    AccountStore
	gate        Authorizer
	audit       *AuditService
	bus         event.Bus
	now         func() time.Time
}

func NewPostService(posts PostStore, collections CollectionStore, saved SavedPostStore, accounts AccountStore, gate Authorizer, audit *AuditService, bus event.Bus) *PostService {
	return &PostService{
		posts:       posts,
		collections: collections,
		saved:       saved,
		accounts:    accounts,
		gate:        gate,
		audit:       audit,
		bus:         bus,
		now:         time.Now,
	}
}

func (s *PostService) Create(ctx context.Context, subject model.Subject, req model.CreatePostRequest) (model.Post, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionCreateContent}); err != nil {
		return model.Post{}, err
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.StatusDraft
	}
	if !model.ValidStatus(status) {
		return model.Post{}, validationError("invalid status", req.Status)
	}

	title := util.TruncateRunes(util.CleanText(req.Title), maxTitleLength)
	if title == "" && strings.TrimSpace(req.Content) == "" {
		return model.Post{}, validationError("title or content is required", "")
	}

	now := s.now().UTC()
	post := model.Post{
		ID:           uuid.NewString(),
		AuthorID:     subject.ID,
		Title:        title,
		Content:      req.Content,
		Excerpt:      util.Excerpt(req.Content),
		Status:       status,
		WritingPhase: util.TruncateRunes(util.CleanText(req.WritingPhase), maxPhaseLength),
		WordCount:    util.WordCount(req.Content),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return model.Post{}, err
	}

	return post, nil
}

func (s *PostService) List(ctx context.Context, subject model.Subject, query model.PostQuery) ([]model.Post, model.Meta, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionReadContent}); err != nil {
		return nil, model.Meta{}, err
	}

	if query.Status != "" && !model.ValidStatus(query.Status) {
		return nil, model.Meta{}, validationError("invalid status", query.Status)
	}
	if err := checkPage(query.Page); err != nil {
		return nil, model.Meta{}, err
	}

	query.AuthorID = subject.ID
	return s.posts.Query(ctx, query)
}

// Get returns a post the subject may read: any published post, or a draft
// they own. Admins may read any draft.
func (s *PostService) Get(ctx context.Context, subject model.Subject, id string) (model.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	if err := s.authorizeRead(ctx, subject, post); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, subject model.Subject, id string, req model.UpdatePostRequest) (model.Post, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return model.Post{}, err
	}

	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: post.AuthorID, Action: auth.ActionUpdateContent}); err != nil {
		return model.Post{}, err
	}

	if req.Title != nil {
		post.Title = util.TruncateRunes(util.CleanText(*req.Title), maxTitleLength)
	}
	if req.Content != nil {
		post.Content = *req.Content
		post.Excerpt = util.Excerpt(post.Content)
		post.WordCount = util.WordCount(post.Content)
	}
	if req.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*req.Status))
		if !model.ValidStatus(status) {
			return model.Post{}, validationError("invalid status", *req.Status)
		}
		post.Status = status
	}
	if req.WritingPhase != nil {
		post.WritingPhase = util.TruncateRunes(util.CleanText(*req.WritingPhase), maxPhaseLength)
	}

	post.UpdatedAt = s.now().UTC()
	if err := s.posts.Update(ctx, post); err != nil {
		return model.Post{}, err
	}

	return post, nil
}

func (s *PostService) Publish(ctx context.Context, subject model.Subject, id string) (model.Post, error) {
	published := model.StatusPublished
	post, err := s.Update(ctx, subject, id, model.UpdatePostRequest{Status: &published})
	if err != nil {
		return model.Post{}, err
	}

	if s.bus != nil {
		s.bus.Publish(event.New(event.TypePostPublished, subject.ID, post))
	}
	return post, nil
}

// Delete removes a post. Owners delete their own; admins may delete any
// post, and those removals are audited.
func (s *PostService) Delete(ctx context.Context, actor model.AuditActor, id string) error {
	post, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	subject := actor.Subject()
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: post.AuthorID, Action: auth.ActionDeleteContent}); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return err
	}

	if post.AuthorID != subject.ID {
		s.audit.Log(ctx, "post.delete", actor, AuditStatusSuccess, post.ID, post, nil, "")
	}
	return nil
}

func (s *PostService) Collections(ctx context.Context, subject model.Subject, id string) ([]model.Collection, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: post.AuthorID, Action: auth.ActionReadContent}); err != nil {
		return nil, err
	}

	return s.posts.CollectionsForPost(ctx, post.ID)
}

// SetCollections replaces the post's collection memberships. The post and
// every named collection must belong to the subject.
func (s *PostService) SetCollections(ctx context.Context, subject model.Subject, id string, collectionIDs []string) ([]model.Collection, error) {
	post, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: post.AuthorID, Action: auth.ActionUpdateContent}); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(collectionIDs))
	seen := make(map[string]struct{}, len(collectionIDs))
	for _, raw := range collectionIDs {
		cid := strings.TrimSpace(raw)
		if _, err := uuid.Parse(cid); err != nil {
			return nil, validationError("invalid collection id", raw)
		}
		if _, dup := seen[cid]; dup {
			continue
		}
		seen[cid] = struct{}{}
		ids = append(ids, cid)
	}

	if len(ids) > 0 {
		owned, err := s.collections.CountOwned(ctx, subject.ID, ids)
		if err != nil {
			return nil, err
		}
		if owned != len(ids) {
			return nil, forbidden("every collection must belong to you")
		}
	}

	if err := s.posts.SetCollections(ctx, post.ID, ids); err != nil {
		return nil, err
	}

	return s.posts.CollectionsForPost(ctx, post.ID)
}

func (s *PostService) Save(ctx context.Context, subject model.Subject, id string) error {
	post, err := s.loadSaveable(ctx, subject, id)
	if err != nil {
		return err
	}
	return s.saved.Save(ctx, subject.ID, post.ID)
}

func (s *PostService) Unsave(ctx context.Context, subject model.Subject, id string) error {
	// The saved list is the subject's own personal collection.
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionManageCollection}); err != nil {
		return err
	}
	if err := requireID(id, model.ErrPostNotFound); err != nil {
		return err
	}
	return s.saved.Unsave(ctx, subject.ID, id)
}

func (s *PostService) ListSaved(ctx context.Context, subject model.Subject) ([]model.Post, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionReadContent}); err != nil {
		return nil, err
	}
	return s.saved.ListSaved(ctx, subject.ID)
}

// Share e-mails a summary of a readable post to the subject's own address.
// Delivery happens asynchronously.
func (s *PostService) Share(ctx context.Context, subject model.Subject, id string) error {
	post, err := s.Get(ctx, subject, id)
	if err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, subject.ID)
	if err != nil {
		return err
	}

	if s.bus != nil {
		s.bus.Publish(event.New(event.TypePostShared, subject.ID, event.PostShared{
			PostID:    post.ID,
			Title:     post.Title,
			Excerpt:   post.Excerpt,
			Recipient: account.Email,
			SharedBy:  account.Email,
		}))
	}
	return nil
}

func (s *PostService) load(ctx context.Context, id string) (model.Post, error) {
	if err := requireID(id, model.ErrPostNotFound); err != nil {
		return model.Post{}, err
	}
	return s.posts.FindByID(ctx, id)
}

func (s *PostService) authorizeRead(ctx context.Context, subject model.Subject, post model.Post) error {
	action := auth.ActionReadContent
	if post.Status == model.StatusPublished {
		action = auth.ActionReadPublished
	}
	return s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: post.AuthorID, Action: action})
}

func (s *PostService) loadSaveable(ctx context.Context, subject model.Subject, id string) (model.Post, error) {
	post, err := s.Get(ctx, subject, id)
	if err != nil {
		return model.Post{}, err
	}
	if post.Status != model.StatusPublished {
		return model.Post{}, validationError("only published posts can be saved", post.ID)
	}
	return post, nil
}

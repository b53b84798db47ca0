package service

import (
	"context"
	"fmt"
	"time"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/util"
)

const dashboardListSize = 3

type DashboardService struct {
	accounts AccountStore
	posts    PostStore
	gate     Authorizer
	now      func() time.Time
}

func NewDashboardService(accounts AccountStore, posts PostStore, gate Authorizer) *DashboardService {
	return &DashboardService{accounts: accounts, posts: posts, gate: gate, now: time.Now}
}

// Get summarises the subject's own writing: totals, generation balance,
// the newest posts and the drafts edited most recently.
func (s *DashboardService) Get(ctx context.Context, subject model.Subject) (model.Dashboard, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionReadContent}); err != nil {
		return model.Dashboard{}, err
	}

	account, err := s.accounts.FindByID(ctx, subject.ID)
	if err != nil {
		return model.Dashboard{}, err
	}

	counts, err := s.posts.CountsByAuthor(ctx, subject.ID)
	if err != nil {
		return model.Dashboard{}, err
	}

	recent, err := s.posts.Recent(ctx, subject.ID, dashboardListSize)
	if err != nil {
		return model.Dashboard{}, err
	}

	drafts, err := s.posts.RecentDrafts(ctx, subject.ID, dashboardListSize)
	if err != nil {
		return model.Dashboard{}, err
	}

	now := s.now()
	dashboard := model.Dashboard{
		Stats: model.DashboardStats{
			TotalPosts:     counts.Total,
			PublishedPosts: counts.Published,
			DraftPosts:     counts.Drafts,
			Generations:    fmt.Sprintf("%d/%d", account.GenerationsLeft, account.GenerationsTotal),
		},
		RecentPosts: make([]model.DashboardPost, 0, len(recent)),
		Drafts:      make([]model.DashboardPost, 0, len(drafts)),
	}

	for _, p := range recent {
		dashboard.RecentPosts = append(dashboard.RecentPosts, model.DashboardPost{
			ID:     p.ID,
			Title:  p.Title,
			Status: p.Status,
			Date:   util.RelativeDate(p.CreatedAt, now),
		})
	}

	for _, p := range drafts {
		phase := p.WritingPhase
		if phase == "" {
			phase = "Needs Editing"
		}
		dashboard.Drafts = append(dashboard.Drafts, model.DashboardPost{
			ID:     p.ID,
			Title:  p.Title,
			Status: phase,
			Date:   util.RelativeDate(p.UpdatedAt, now),
		})
	}

	return dashboard, nil
}

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/cache"
	"go-blog-ai/internal/event"
	"go-blog-ai/internal/model"
)

const statsCacheKey = "admin:stats"

type AdminService struct {
	accounts AccountStore
	posts    PostStore
	gate     Authorizer
	audit    *AuditService
	cache    cache.Store
	statsTTL time.Duration
	bus      event.Bus
	now      func() time.Time
}

func NewAdminService(accounts AccountStore, posts PostStore, gate Authorizer, audit *AuditService, store cache.Store, statsTTL time.Duration, bus event.Bus) *AdminService {
	if store == nil {
		store = cache.Noop{}
	}

	return &AdminService{
		accounts: accounts,
		posts:    posts,
		gate:     gate,
		audit:    audit,
		cache:    store,
		statsTTL: statsTTL,
		bus:      bus,
		now:      time.Now,
	}
}

func (s *AdminService) ListAccounts(ctx context.Context, subject model.Subject) ([]model.Account, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, Action: auth.ActionListAccounts}); err != nil {
		return nil, err
	}

	return s.accounts.List(ctx)
}

// Stats reports platform totals. Results are cached for statsTTL; a cache
// failure falls through to the database.
func (s *AdminService) Stats(ctx context.Context, subject model.Subject) (model.AdminStats, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, Action: auth.ActionReadStats}); err != nil {
		return model.AdminStats{}, err
	}

	var stats model.AdminStats
	err := s.cache.GetJSON(ctx, statsCacheKey, &stats)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		slog.Warn("stats cache read failed", "error", err)
	}

	if stats.TotalUsers, err = s.accounts.Count(ctx); err != nil {
		return model.AdminStats{}, err
	}
	if stats.PremiumUsers, err = s.accounts.CountBySubscription(ctx, model.TierPremium); err != nil {
		return model.AdminStats{}, err
	}
	if stats.TotalPosts, err = s.posts.CountAll(ctx); err != nil {
		return model.AdminStats{}, err
	}

	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	if stats.PostsThisMonth, err = s.posts.CountCreatedSince(ctx, monthStart); err != nil {
		return model.AdminStats{}, err
	}

	if s.statsTTL > 0 {
		if err := s.cache.SetJSON(ctx, statsCacheKey, stats, s.statsTTL); err != nil {
			slog.Warn("stats cache write failed", "error", err)
		}
	}

	return stats, nil
}

// UpdateAccount changes another account's role and/or subscription tier.
// Upgrading to premium resets the generation balance to the premium
// allotment; downgrading leaves the balance alone.
func (s *AdminService) UpdateAccount(ctx context.Context, actor model.AuditActor, targetID string, req model.AdminUpdateAccountRequest) (model.Account, error) {
	role := strings.ToLower(strings.TrimSpace(req.Role))
	tier := strings.ToLower(strings.TrimSpace(req.Subscription))

	if role == "" && tier == "" {
		return model.Account{}, validationError("role or subscription is required", "")
	}
	if role != "" && !model.ValidRole(role) {
		return model.Account{}, validationError("invalid role", role)
	}
	if tier != "" && !model.ValidTier(tier) {
		return model.Account{}, validationError("invalid subscription", tier)
	}

	check := auth.Check{Subject: actor.Subject(), OwnerID: targetID, Action: auth.ActionUpdateAccount, TargetRole: role}
	if err := s.gate.Authorize(ctx, check); err != nil {
		s.audit.Log(ctx, "account.update", actor, AuditStatusFailure, targetID, nil, req, err.Error())
		return model.Account{}, err
	}

	if err := requireID(targetID, model.ErrAccountNotFound); err != nil {
		return model.Account{}, err
	}

	before, err := s.accounts.FindByID(ctx, targetID)
	if err != nil {
		return model.Account{}, err
	}

	update := model.AccountUpdate{}
	if role != "" {
		update.Role = &role
	}
	if tier != "" {
		update.Subscription = &tier
		if tier == model.TierPremium {
			allotment := model.PremiumGenerations
			update.GenerationsLeft = &allotment
			update.GenerationsTotal = &allotment
		}
	}

	after, err := s.accounts.ApplyAdminUpdate(ctx, targetID, update)
	if err != nil {
		s.audit.Log(ctx, "account.update", actor, AuditStatusFailure, targetID, before, req, err.Error())
		return model.Account{}, err
	}

	s.audit.Log(ctx, "account.update", actor, AuditStatusSuccess, targetID, before, after, "")
	s.invalidateStats(ctx)
	if s.bus != nil {
		s.bus.Publish(event.New(event.TypeAccountUpdated, actor.UserID, after))
	}

	return after, nil
}

// DeleteAccount removes another account together with its posts,
// collections and save-links.
func (s *AdminService) DeleteAccount(ctx context.Context, actor model.AuditActor, targetID string) (model.DeletionReport, error) {
	check := auth.Check{Subject: actor.Subject(), OwnerID: targetID, Action: auth.ActionDeleteAccount}
	if err := s.gate.Authorize(ctx, check); err != nil {
		s.audit.Log(ctx, "account.delete", actor, AuditStatusFailure, targetID, nil, nil, err.Error())
		return model.DeletionReport{}, err
	}

	if err := requireID(targetID, model.ErrAccountNotFound); err != nil {
		return model.DeletionReport{}, err
	}

	report, err := s.accounts.DeleteCascade(ctx, targetID)
	if err != nil {
		s.audit.Log(ctx, "account.delete", actor, AuditStatusFailure, targetID, nil, nil, err.Error())
		return model.DeletionReport{}, err
	}

	s.audit.Log(ctx, "account.delete", actor, AuditStatusSuccess, targetID, nil, report, "")
	s.invalidateStats(ctx)
	if s.bus != nil {
		s.bus.Publish(event.New(event.TypeAccountDeleted, actor.UserID, report))
	}

	slog.Info("account deleted", "account_id", targetID, "by", actor.UserID, "posts", report.Posts, "collections", report.Collections)
	return report, nil
}

func (s *AdminService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		slog.Warn("stats cache invalidation failed", "error", err)
	}
}

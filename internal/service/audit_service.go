package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/model"
)

const (
	AuditStatusSuccess = "success"
	AuditStatusFailure = "failure"
)

type AuditService struct {
	store AuditStore
	gate  Authorizer
}

func NewAuditService(store AuditStore, gate Authorizer) *AuditService {
	return &AuditService{store: store, gate: gate}
}

// Log records an entry. Failures to persist are logged and swallowed so an
// audit outage never fails the audited operation.
func (s *AuditService) Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, before any, after any, errText string) {
	if s == nil || s.store == nil {
		return
	}

	entry := model.AuditEntry{
		Action:     action,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Actor:      actor,
		Status:     status,
		Resource:   resource,
		Before:     before,
		After:      after,
		Error:      errText,
	}

	if err := s.store.Log(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("audit entry not recorded", "action", action, "resource", resource, "error", err)
	}
}

func (s *AuditService) Query(ctx context.Context, subject model.Subject, query model.AuditQuery) ([]model.AuditEntry, model.Meta, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, Action: auth.ActionReadAudit}); err != nil {
		return nil, model.Meta{}, err
	}

	if _, err := parseOptionalAuditTime(query.From); err != nil {
		return nil, model.Meta{}, validationError("invalid 'from' datetime format", query.From)
	}
	if _, err := parseOptionalAuditTime(query.To); err != nil {
		return nil, model.Meta{}, validationError("invalid 'to' datetime format", query.To)
	}
	if err := checkPage(query.Page); err != nil {
		return nil, model.Meta{}, err
	}

	return s.store.Query(ctx, query)
}

func parseOptionalAuditTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}

	if value, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return value.UTC(), nil
	}

	value, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, err
	}

	return value.UTC(), nil
}

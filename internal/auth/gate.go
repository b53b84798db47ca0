package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

type Action string

const (
	// Own-account actions.
	ActionReadProfile    Action = "profile.read"
	ActionUpdateProfile  Action = "profile.update"
	ActionChangePassword Action = "profile.password"

	// Admin-scoped actions.
	ActionListAccounts  Action = "admin.accounts.list"
	ActionReadStats     Action = "admin.stats.read"
	ActionReadAudit     Action = "admin.audit.read"
	ActionUpdateAccount Action = "admin.accounts.update"
	ActionDeleteAccount Action = "admin.accounts.delete"

	// Content and collection actions.
	ActionCreateContent    Action = "content.create"
	ActionReadContent      Action = "content.read"
	ActionReadPublished    Action = "content.read_published"
	ActionUpdateContent    Action = "content.update"
	ActionDeleteContent    Action = "content.delete"
	ActionManageCollection Action = "collection.manage"
)

// Check describes one authorization question. OwnerID is the account that
// owns the target resource; for admin actions on accounts it is the target
// account itself. TargetRole is the role an account update would set.
type Check struct {
	Subject    model.Subject
	OwnerID    string
	Action     Action
	TargetRole string
}

type accountByID interface {
	FindByID(ctx context.Context, id string) (model.Account, error)
}

// Gate decides allow/deny for a Check. Roles are always read from the
// record store, never from the token.
type Gate struct {
	accounts accountByID
}

func NewGate(accounts accountByID) *Gate {
	return &Gate{accounts: accounts}
}

// Authorize returns nil when the check is allowed.
func (g *Gate) Authorize(ctx context.Context, check Check) error {
	if check.Subject.ID == "" {
		return apierror.Wrap(model.ErrUnauthenticated, "UNAUTHENTICATED", "authentication required", http.StatusUnauthorized)
	}

	isOwner := check.OwnerID != "" && check.OwnerID == check.Subject.ID

	switch check.Action {
	case ActionReadProfile, ActionUpdateProfile, ActionChangePassword:
		if isOwner {
			return nil
		}
		return forbidden("you can only manage your own account")

	case ActionListAccounts, ActionReadStats, ActionReadAudit, ActionUpdateAccount, ActionDeleteAccount:
		return g.authorizeAdmin(ctx, check, isOwner)

	case ActionReadPublished:
		return nil

	case ActionCreateContent, ActionUpdateContent, ActionManageCollection:
		if isOwner {
			return nil
		}
		return forbidden("you do not own this resource")

	case ActionReadContent, ActionDeleteContent:
		if isOwner {
			return nil
		}
		admin, err := g.isAdmin(ctx, check.Subject.ID)
		if err != nil {
			return err
		}
		if admin {
			return nil
		}
		return forbidden("you do not own this resource")
	}

	return forbidden("action is not permitted")
}

func (g *Gate) authorizeAdmin(ctx context.Context, check Check, isOwner bool) error {
	admin, err := g.isAdmin(ctx, check.Subject.ID)
	if err != nil {
		return err
	}
	if !admin {
		return forbidden("admin access required")
	}

	if !isOwner {
		return nil
	}

	switch check.Action {
	case ActionDeleteAccount:
		return apierror.Wrap(model.ErrSelfLockout, "SELF_LOCKOUT", "you cannot delete your own account", http.StatusForbidden)
	case ActionUpdateAccount:
		if check.TargetRole != "" && check.TargetRole != model.RoleAdmin {
			return apierror.Wrap(model.ErrSelfLockout, "SELF_LOCKOUT", "you cannot remove your own admin role", http.StatusForbidden)
		}
	}

	return nil
}

func (g *Gate) isAdmin(ctx context.Context, subjectID string) (bool, error) {
	account, err := g.accounts.FindByID(ctx, subjectID)
	if errors.Is(err, model.ErrAccountNotFound) {
		return false, apierror.Wrap(model.ErrUnauthenticated, "UNAUTHENTICATED", "account no longer exists", http.StatusUnauthorized)
	}
	if err != nil {
		return false, fmt.Errorf("load requester role: %w", err)
	}

	return account.Role == model.RoleAdmin, nil
}

func forbidden(message string) error {
	return apierror.Wrap(model.ErrForbidden, "FORBIDDEN", message, http.StatusForbidden)
}

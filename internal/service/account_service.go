package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/event"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/util"
	"go-blog-ai/pkg/apierror"
)

const maxNameLength = 100

type AccountService struct {
	accounts AccountStore
	gate     Authorizer
	bus      event.Bus
}

func NewAccountService(accounts AccountStore, gate Authorizer, bus event.Bus) *AccountService {
	return &AccountService{accounts: accounts, gate: gate, bus: bus}
}

// Signup creates a free-tier user account. Emails are stored as given,
// trimmed of surrounding space; lookups are case-sensitive.
func (s *AccountService) Signup(ctx context.Context, req model.SignupRequest) (model.Account, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.Account{}, validationError("email and password are required", "")
	}
	if err := validateEmail(email); err != nil {
		return model.Account{}, err
	}
	if err := checkPasswordLength(req.Password, "password"); err != nil {
		return model.Account{}, err
	}

	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return model.Account{}, apierror.Wrap(model.ErrEmailTaken, "CONFLICT", "email already in use", http.StatusConflict)
	} else if !errors.Is(err, model.ErrAccountNotFound) {
		return model.Account{}, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return model.Account{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	account := model.Account{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     hash,
		Name:             util.TruncateRunes(util.CleanText(req.Name), maxNameLength),
		Role:             model.RoleUser,
		Subscription:     model.TierFree,
		GenerationsLeft:  model.FreeGenerations,
		GenerationsTotal: model.FreeGenerations,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.accounts.Create(ctx, account); err != nil {
		return model.Account{}, err
	}

	if s.bus != nil {
		s.bus.Publish(event.New(event.TypeAccountCreated, account.ID, event.AccountCreated{
			AccountID: account.ID,
			Email:     account.Email,
			Name:      account.Name,
		}))
	}

	slog.Info("account created", "account_id", account.ID)
	return account, nil
}

// Me returns the subject's current record.
func (s *AccountService) Me(ctx context.Context, subject model.Subject) (model.Account, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionReadProfile}); err != nil {
		return model.Account{}, err
	}

	return s.accounts.FindByID(ctx, subject.ID)
}

func (s *AccountService) UpdateProfile(ctx context.Context, subject model.Subject, req model.UpdateProfileRequest) (model.Account, error) {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionUpdateProfile}); err != nil {
		return model.Account{}, err
	}

	current, err := s.accounts.FindByID(ctx, subject.ID)
	if err != nil {
		return model.Account{}, err
	}

	name := current.Name
	if req.Name != nil {
		name = util.TruncateRunes(util.CleanText(*req.Name), maxNameLength)
	}

	email := current.Email
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
		if email == "" {
			return model.Account{}, validationError("email cannot be empty", "email")
		}
		if err := validateEmail(email); err != nil {
			return model.Account{}, err
		}
	}

	if email != current.Email {
		existing, err := s.accounts.FindByEmail(ctx, email)
		if err == nil && existing.ID != current.ID {
			return model.Account{}, apierror.Wrap(model.ErrEmailTaken, "CONFLICT", "email already in use", http.StatusConflict)
		}
		if err != nil && !errors.Is(err, model.ErrAccountNotFound) {
			return model.Account{}, err
		}
	}

	return s.accounts.UpdateProfile(ctx, current.ID, name, email)
}

func (s *AccountService) ChangePassword(ctx context.Context, subject model.Subject, req model.ChangePasswordRequest) error {
	if err := s.gate.Authorize(ctx, auth.Check{Subject: subject, OwnerID: subject.ID, Action: auth.ActionChangePassword}); err != nil {
		return err
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return validationError("current_password and new_password are required", "")
	}
	if err := checkPasswordLength(req.NewPassword, "new_password"); err != nil {
		return err
	}

	account, err := s.accounts.FindByID(ctx, subject.ID)
	if err != nil {
		return err
	}

	if !auth.ComparePassword(account.PasswordHash, req.CurrentPassword) {
		return validationError("current password is incorrect", "current_password")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.accounts.UpdatePassword(ctx, account.ID, hash)
}

// EnsureAdmin creates the bootstrap administrator, or promotes an existing
// account with that email. It does nothing when email is empty.
func (s *AccountService) EnsureAdmin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role == model.RoleAdmin {
			return nil
		}
		role := model.RoleAdmin
		if _, err := s.accounts.ApplyAdminUpdate(ctx, existing.ID, model.AccountUpdate{Role: &role}); err != nil {
			return fmt.Errorf("promote seed admin: %w", err)
		}
		slog.Info("seed admin promoted", "account_id", existing.ID)
		return nil
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return fmt.Errorf("look up seed admin: %w", err)
	}

	if err := checkPasswordLength(password, ""); err != nil {
		return fmt.Errorf("seed admin password: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed admin password: %w", err)
	}

	now := time.Now().UTC()
	account := model.Account{
		ID:               uuid.NewString(),
		Email:            email,
		PasswordHash:     hash,
		Name:             "Administrator",
		Role:             model.RoleAdmin,
		Subscription:     model.TierPremium,
		GenerationsLeft:  model.PremiumGenerations,
		GenerationsTotal: model.PremiumGenerations,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return fmt.Errorf("create seed admin: %w", err)
	}

	slog.Info("seed admin created", "account_id", account.ID)
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return validationError("invalid email address", "email")
	}
	return nil
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/repository"
)

const (
	adminID  = "6f0c3a4e-0000-4000-8000-000000000001"
	writerID = "6f0c3a4e-0000-4000-8000-000000000002"
	otherID  = "6f0c3a4e-0000-4000-8000-000000000003"
	postID   = "7a1d2b3c-0000-4000-8000-000000000010"
	colID    = "8b2e3c4d-0000-4000-8000-000000000020"
)

func TestMain(m *testing.M) {
	auth.PasswordCost = bcrypt.MinCost
	m.Run()
}

var (
	adminAccount  = model.Account{ID: adminID, Email: "admin@example.com", Role: model.RoleAdmin, Subscription: model.TierPremium}
	writerAccount = model.Account{ID: writerID, Email: "writer@example.com", Role: model.RoleUser, Subscription: model.TierFree, GenerationsLeft: 5, GenerationsTotal: 20}
	otherAccount  = model.Account{ID: otherID, Email: "other@example.com", Role: model.RoleUser, Subscription: model.TierFree}
)

func subjectOf(a model.Account) model.Subject {
	return model.Subject{ID: a.ID, Email: a.Email, Role: a.Role}
}

func actorOf(a model.Account) model.AuditActor {
	return model.AuditActor{UserID: a.ID, Email: a.Email, Role: a.Role, IP: "127.0.0.1"}
}

// gateFor builds a real Gate backed by the account mock, with role lookups
// for the three fixture accounts allowed any number of times.
func gateFor(accounts *repository.MockAccountRepository) *auth.Gate {
	for _, a := range []model.Account{adminAccount, writerAccount, otherAccount} {
		accounts.On("FindByID", mock.Anything, a.ID).Return(a, nil).Maybe()
	}
	return auth.NewGate(accounts)
}

func auditFor(t *testing.T) (*AuditService, *repository.MockAuditRepository) {
	t.Helper()
	store := new(repository.MockAuditRepository)
	store.On("Log", mock.Anything, mock.AnythingOfType("model.AuditEntry")).Return(nil).Maybe()
	return NewAuditService(store, nil), store
}

var bg = context.Background()

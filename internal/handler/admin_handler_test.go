package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-blog-ai/internal/cache"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/repository"
	"go-blog-ai/internal/service"
)

func newAdminHandler() (*AdminHandler, *repository.MockAccountRepository) {
	accounts := new(repository.MockAccountRepository)
	audit := new(repository.MockAuditRepository)
	audit.On("Log", mock.Anything, mock.AnythingOfType("model.AuditEntry")).Return(nil).Maybe()

	svc := service.NewAdminService(accounts, new(repository.MockPostRepository), gateFor(accounts),
		service.NewAuditService(audit, nil), cache.Noop{}, time.Minute, nil)
	return NewAdminHandler(svc), accounts
}

func TestAdminHandler_ListUsersRequiresAdmin(t *testing.T) {
	h, accounts := newAdminHandler()
	accounts.On("List", mock.Anything).Return([]model.Account{adminAccount, writerAccount}, nil)

	rec := serve(http.MethodGet, "/admin/users", "/admin/users", "", subjectOf(writerAccount), h.ListUsers)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(http.MethodGet, "/admin/users", "/admin/users", "", subjectOf(adminAccount), h.ListUsers)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), writerAccount.Email)
}

func TestAdminHandler_SelfLockout(t *testing.T) {
	h, accounts := newAdminHandler()

	rec := serve(http.MethodPatch, "/admin/users/{id}", "/admin/users/"+adminID, `{"role":"user"}`, subjectOf(adminAccount), h.UpdateUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SELF_LOCKOUT", decodeEnvelope(t, rec).Code)

	rec = serve(http.MethodDelete, "/admin/users/{id}", "/admin/users/"+adminID, "", subjectOf(adminAccount), h.DeleteUser)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	accounts.AssertNotCalled(t, "ApplyAdminUpdate", mock.Anything, mock.Anything, mock.Anything)
	accounts.AssertNotCalled(t, "DeleteCascade", mock.Anything, mock.Anything)
}

func TestAdminHandler_UpgradeToPremium(t *testing.T) {
	h, accounts := newAdminHandler()
	upgraded := writerAccount
	upgraded.Subscription = model.TierPremium
	upgraded.GenerationsLeft, upgraded.GenerationsTotal = 100, 100
	accounts.On("ApplyAdminUpdate", mock.Anything, writerID, mock.MatchedBy(func(u model.AccountUpdate) bool {
		return u.Subscription != nil && *u.GenerationsLeft == 100 && *u.GenerationsTotal == 100
	})).Return(upgraded, nil)

	rec := serve(http.MethodPatch, "/admin/users/{id}", "/admin/users/"+writerID, `{"subscription":"premium"}`, subjectOf(adminAccount), h.UpdateUser)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"generations_left":100`)
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	h, accounts := newAdminHandler()
	accounts.On("DeleteCascade", mock.Anything, otherID).Return(model.DeletionReport{Posts: 2, Collections: 1}, nil)

	rec := serve(http.MethodDelete, "/admin/users/{id}", "/admin/users/"+otherID, "", subjectOf(adminAccount), h.DeleteUser)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"posts":2`)
}

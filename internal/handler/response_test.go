package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

func TestWriteError_Taxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", model.ErrValidation, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"invalid credentials", model.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unauthenticated", model.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", model.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"self lockout", model.ErrSelfLockout, http.StatusForbidden, "SELF_LOCKOUT"},
		{"quota", model.ErrQuotaExceeded, http.StatusForbidden, "QUOTA_EXCEEDED"},
		{"not found", fmt.Errorf("load: %w", model.ErrPostNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", model.ErrEmailTaken, http.StatusConflict, "CONFLICT"},
		{"upstream", model.ErrUpstreamFailure, http.StatusBadGateway, "UPSTREAM_FAILURE"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"api error", apierror.New("RATE_LIMITED", "slow down", "", http.StatusTooManyRequests), http.StatusTooManyRequests, "RATE_LIMITED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			env := decodeEnvelope(t, rec)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, env.Code)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: password authentication failed"))

	assert.NotContains(t, rec.Body.String(), "password authentication")
}

func TestWriteError_RetryFlag(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apierror.Wrap(model.ErrUpstreamFailure, "UPSTREAM_FAILURE", "try again", http.StatusBadGateway).Retryable())

	env := decodeEnvelope(t, rec)
	assert.True(t, env.RequiresRetry)
	assert.Equal(t, "try again", env.Error)
}

func TestParseDateParam(t *testing.T) {
	got, err := parseDateParam("", "from", false)
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDateParam("2026-03-01", "to", true)
	assert.NoError(t, err)
	assert.Equal(t, 23, got.Hour())

	_, err = parseDateParam("yesterday", "from", false)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

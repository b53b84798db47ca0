package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"go-blog-ai/internal/config"
	"go-blog-ai/internal/handler"
	"go-blog-ai/internal/middleware"
	"go-blog-ai/internal/model"
)

type okDB struct{}

func (okDB) Health(context.Context) error { return nil }

type rejectAll struct{}

func (rejectAll) Verify(string) *model.Subject { return nil }

func newTestRouter() http.Handler {
	cfg := &config.Config{
		CORSOrigins:      []string{"http://localhost:3000"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   time.Second,
	}

	// Services are never reached: every request below stops at the
	// session check or at the health endpoints.
	return New(cfg, middleware.NewAuthMiddleware(rejectAll{}), Handlers{
		Health:     handler.NewHealthHandler(okDB{}),
		Auth:       handler.NewAuthHandler(nil, nil, false),
		User:       handler.NewUserHandler(nil),
		Admin:      handler.NewAdminHandler(nil),
		Audit:      handler.NewAuditHandler(nil),
		Post:       handler.NewPostHandler(nil),
		Collection: handler.NewCollectionHandler(nil),
		Generate:   handler.NewGenerateHandler(nil),
		Dashboard:  handler.NewDashboardHandler(nil),
	})
}

func TestRouter_Health(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/health", "/ready"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	}
}

func TestRouter_PrivateRoutesRequireSession(t *testing.T) {
	r := newTestRouter()

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodGet, "/api/v1/user/profile"},
		{http.MethodPut, "/api/v1/user/password"},
		{http.MethodGet, "/api/v1/admin/users"},
		{http.MethodPatch, "/api/v1/admin/users/x"},
		{http.MethodDelete, "/api/v1/admin/users/x"},
		{http.MethodGet, "/api/v1/admin/stats"},
		{http.MethodGet, "/api/v1/admin/audit"},
		{http.MethodGet, "/api/v1/posts"},
		{http.MethodPost, "/api/v1/posts"},
		{http.MethodGet, "/api/v1/posts/x"},
		{http.MethodPost, "/api/v1/posts/x/publish"},
		{http.MethodPut, "/api/v1/posts/x/collections"},
		{http.MethodDelete, "/api/v1/posts/x/save"},
		{http.MethodPost, "/api/v1/posts/x/share"},
		{http.MethodGet, "/api/v1/saved"},
		{http.MethodGet, "/api/v1/collections"},
		{http.MethodDelete, "/api/v1/collections/x"},
		{http.MethodPost, "/api/v1/generate/ideas"},
		{http.MethodPost, "/api/v1/generate/draft"},
		{http.MethodGet, "/api/v1/dashboard"},
	}

	for _, route := range routes {
		req := httptest.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, route.method+" "+route.path)
	}
}

func TestRouter_LogoutIsPublic(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/files", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

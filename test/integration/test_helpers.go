//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-blog-ai/internal/auth"
	"go-blog-ai/internal/cache"
	"go-blog-ai/internal/config"
	"go-blog-ai/internal/database"
	"go-blog-ai/internal/event"
	"go-blog-ai/internal/handler"
	"go-blog-ai/internal/mailer"
	"go-blog-ai/internal/middleware"
	"go-blog-ai/internal/repository"
	"go-blog-ai/internal/router"
	"go-blog-ai/internal/service"
	"go-blog-ai/internal/textgen"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
	testSecret    = "integration-test-secret-0123456789"
)

type stack struct {
	server *httptest.Server
	db     *database.DB
}

// newStack runs the full router against the database named by
// TEST_DATABASE_URL. Every table is emptied first.
func newStack(t *testing.T, generator textgen.Generator) *stack {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	auth.PasswordCost = bcrypt.MinCost
	ctx := context.Background()

	db, err := database.New(ctx, url, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.Migrate(ctx))

	_, err = db.Pool.Exec(ctx, `TRUNCATE saved_posts, post_collections, collections, posts, audit_entries, accounts`)
	require.NoError(t, err)

	accounts := repository.NewAccountRepository(db.Pool)
	posts := repository.NewPostRepository(db.Pool)
	collections := repository.NewCollectionRepository(db.Pool)
	saved := repository.NewSavedPostRepository(db.Pool)
	audits := repository.NewAuditRepository(db.Pool)

	issuer, err := auth.NewIssuer(accounts, []byte(testSecret))
	require.NoError(t, err)
	verifier, err := auth.NewVerifier([]byte(testSecret))
	require.NoError(t, err)
	gate := auth.NewGate(accounts)

	bus := event.NewBus()
	auditService := service.NewAuditService(audits, gate)
	accountService := service.NewAccountService(accounts, gate, bus)
	require.NoError(t, accountService.EnsureAdmin(ctx, adminEmail, adminPassword))

	notifyCtx, cancel := context.WithCancel(ctx)
	done := service.NewNotificationService(bus, mailer.LogMailer{}).Start(notifyCtx)
	t.Cleanup(func() {
		cancel()
		<-done
	})

	cfg := &config.Config{
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   10 * time.Second,
	}

	postService := service.NewPostService(posts, collections, saved, accounts, gate, auditService, bus)
	h := router.Handlers{
		Health:     handler.NewHealthHandler(db),
		Auth:       handler.NewAuthHandler(accountService, issuer, false),
		User:       handler.NewUserHandler(accountService),
		Admin:      handler.NewAdminHandler(service.NewAdminService(accounts, posts, gate, auditService, cache.Noop{}, time.Minute, bus)),
		Audit:      handler.NewAuditHandler(auditService),
		Post:       handler.NewPostHandler(postService),
		Collection: handler.NewCollectionHandler(service.NewCollectionService(collections, gate)),
		Generate:   handler.NewGenerateHandler(service.NewGenerationService(accounts, gate, generator, 5*time.Second)),
		Dashboard:  handler.NewDashboardHandler(service.NewDashboardService(accounts, posts, gate)),
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(verifier), h))
	t.Cleanup(server.Close)

	return &stack{server: server, db: db}
}

// client returns an HTTP client with its own cookie jar, so each one acts
// as a separate browser session.
func (s *stack) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

type envelope struct {
	Success       bool            `json:"success"`
	Data          json.RawMessage `json:"data"`
	Error         string          `json:"error"`
	Code          string          `json:"code"`
	RequiresRetry bool            `json:"requires_retry"`
}

func (s *stack) do(t *testing.T, c *http.Client, method string, path string, payload any) (int, envelope) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, s.server.URL+path, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func (s *stack) login(t *testing.T, email string, password string) *http.Client {
	t.Helper()
	c := s.client(t)
	status, env := s.do(t, c, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password})
	require.Equal(t, http.StatusOK, status, env.Error)
	return c
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

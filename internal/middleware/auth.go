package middleware

import (
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"go-blog-ai/internal/model"
)

// SessionCookieName carries the session token for browser clients.
const SessionCookieName = "auth-token"

type sessionVerifier interface {
	Verify(tokenString string) *model.Subject
}

// Session is the verified request credential, extracted once per request.
type Session struct {
	Token   string
	Subject model.Subject
}

type contextKey string

const sessionContextKey contextKey = "auth_session"

type AuthMiddleware struct {
	verifier sessionVerifier
}

func NewAuthMiddleware(verifier sessionVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a valid session token. The session
// cookie is tried first and the "Authorization: Bearer" header second; the
// first token that verifies wins, so a stale cookie does not mask a valid
// header.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens := TokensFromRequest(r)
		if len(tokens) == 0 {
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			return
		}

		for _, token := range tokens {
			if subject := m.verifier.Verify(token); subject != nil {
				ctx := context.WithValue(r.Context(), sessionContextKey, Session{Token: token, Subject: *subject})
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
		}

		writeJSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid or expired session")
	})
}

// TokensFromRequest returns the non-empty session tokens the request
// carries, cookie before header, without duplicates.
func TokensFromRequest(r *http.Request) []string {
	var tokens []string

	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if token := strings.TrimSpace(cookie.Value); token != "" {
			tokens = append(tokens, token)
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		if token := strings.TrimSpace(header[7:]); token != "" && !slices.Contains(tokens, token) {
			tokens = append(tokens, token)
		}
	}

	return tokens
}

// WithSubject attaches a session carrying only subject.
func WithSubject(ctx context.Context, subject model.Subject) context.Context {
	return context.WithValue(ctx, sessionContextKey, Session{Subject: subject})
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

func SubjectFromContext(ctx context.Context) (model.Subject, bool) {
	session, ok := SessionFromContext(ctx)
	return session.Subject, ok
}

// SetSessionCookie stores token in an httpOnly cookie that lives as long
// as the token.
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the client to drop the session cookie. The token
// itself stays valid until it expires.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

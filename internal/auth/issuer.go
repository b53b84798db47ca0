package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

// SessionTTL is the fixed lifetime of every session token.
const SessionTTL = 7 * 24 * time.Hour

type accountByEmail interface {
	FindByEmail(ctx context.Context, email string) (model.Account, error)
}

type Issuer struct {
	accounts accountByEmail
	key      []byte
	now      func() time.Time
}

func NewIssuer(accounts accountByEmail, key []byte) (*Issuer, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key is required")
	}

	return &Issuer{accounts: accounts, key: key, now: time.Now}, nil
}

// Issue authenticates email/secret and returns a signed session token. A
// missing account and a wrong secret produce the same error.
func (i *Issuer) Issue(ctx context.Context, email string, secret string) (model.IssuedToken, error) {
	if email == "" || secret == "" {
		return model.IssuedToken{}, apierror.Wrap(model.ErrValidation, "VALIDATION_ERROR", "email and password are required", http.StatusBadRequest)
	}

	account, err := i.accounts.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrAccountNotFound) {
		burnComparison(secret)
		return model.IssuedToken{}, invalidCredentials()
	}
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("look up account: %w", err)
	}

	if !ComparePassword(account.PasswordHash, secret) {
		return model.IssuedToken{}, invalidCredentials()
	}

	return i.Mint(account)
}

// Mint signs a token for an already authenticated account.
func (i *Issuer) Mint(account model.Account) (model.IssuedToken, error) {
	issuedAt := i.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(SessionTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":    account.ID,
		"email": account.Email,
		"role":  account.Role,
		"iat":   issuedAt.Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString(i.key)
	if err != nil {
		return model.IssuedToken{}, fmt.Errorf("sign session token: %w", err)
	}

	return model.IssuedToken{
		Token:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
		Account:   account,
	}, nil
}

func invalidCredentials() error {
	return apierror.Wrap(model.ErrInvalidCredentials, "INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
}

package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-blog-ai/internal/model"
)

type Verifier struct {
	key []byte
	now func() time.Time
}

func NewVerifier(key []byte) (*Verifier, error) {
	if len(key) == 0 {
		return nil, errors.New("signing key is required")
	}

	return &Verifier{key: key, now: time.Now}, nil
}

// Verify returns the token's subject, or nil when the token is malformed,
// signed with another key or algorithm, or expired. Callers must not tell
// these cases apart.
func (v *Verifier) Verify(tokenString string) *model.Subject {
	if tokenString == "" {
		return nil
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid {
		return nil
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	return ExtractSubject(claims)
}

// ExtractSubject reads the subject out of a decoded claims object. A payload
// without a non-empty string id is rejected.
func ExtractSubject(claims map[string]any) *model.Subject {
	if claims == nil {
		return nil
	}

	id, _ := claims["id"].(string)
	if id == "" {
		return nil
	}

	subject := &model.Subject{ID: id}
	subject.Email, _ = claims["email"].(string)
	subject.Role, _ = claims["role"].(string)

	return subject
}

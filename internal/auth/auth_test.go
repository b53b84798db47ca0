package auth

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"go-blog-ai/internal/model"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func TestMain(m *testing.M) {
	PasswordCost = bcrypt.MinCost
	m.Run()
}

type fakeAccounts struct {
	byID map[string]model.Account
}

func newFakeAccounts(accounts ...model.Account) *fakeAccounts {
	f := &fakeAccounts{byID: make(map[string]model.Account)}
	for _, a := range accounts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) FindByID(_ context.Context, id string) (model.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return model.Account{}, model.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) FindByEmail(_ context.Context, email string) (model.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return model.Account{}, model.ErrAccountNotFound
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

package handler

import (
	"context"
	"net/http"

	"go-blog-ai/internal/middleware"
	"go-blog-ai/internal/model"
	"go-blog-ai/internal/service"
)

type credentialIssuer interface {
	Issue(ctx context.Context, email string, secret string) (model.IssuedToken, error)
}

type AuthHandler struct {
	accounts     *service.AccountService
	issuer       credentialIssuer
	secureCookie bool
}

func NewAuthHandler(accounts *service.AccountService, issuer credentialIssuer, secureCookie bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, issuer: issuer, secureCookie: secureCookie}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload model.SignupRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.accounts.Signup(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, account, nil)
}

// Login issues a session token and also sets it as the session cookie so
// browser clients need not handle it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	issued, err := h.issuer.Issue(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	middleware.SetSessionCookie(w, issued.Token, issued.ExpiresAt, h.secureCookie)
	writeSuccess(w, http.StatusOK, model.LoginData{
		User:      issued.Account,
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt,
	}, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w, h.secureCookie)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true}, nil)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.Me(r.Context(), subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, account, nil)
}

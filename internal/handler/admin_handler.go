package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"go-blog-ai/internal/model"
	"go-blog-ai/internal/service"
)

type AdminHandler struct {
	service *service.AdminService
}

func NewAdminHandler(service *service.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	users, err := h.service.ListAccounts(r.Context(), subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.AccountList{Users: users}, nil)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := subjectFrom(w, r); !ok {
		return
	}

	var payload model.AdminUpdateAccountRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	account, err := h.service.UpdateAccount(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, account, nil)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := subjectFrom(w, r); !ok {
		return
	}

	report, err := h.service.DeleteAccount(r.Context(), actorFromRequest(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, map[string]any{"deleted": true, "removed": report}, nil)
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), subject)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, stats, nil)
}

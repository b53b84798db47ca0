package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-blog-ai/internal/model"
	"go-blog-ai/internal/service"
)

type CollectionHandler struct {
	service *service.CollectionService
}

func NewCollectionHandler(service *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{service: service}
}

func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), subject, strings.TrimSpace(r.URL.Query().Get("query")))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.CollectionListData{Items: items}, nil)
}

func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var payload model.CreateCollectionRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	collection, err := h.service.Create(r.Context(), subject, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, collection, nil)
}

func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), subject, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeNoContent(w)
}

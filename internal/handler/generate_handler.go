package handler

import (
	"net/http"

	"go-blog-ai/internal/model"
	"go-blog-ai/internal/service"
)

type GenerateHandler struct {
	service *service.GenerationService
}

func NewGenerateHandler(service *service.GenerationService) *GenerateHandler {
	return &GenerateHandler{service: service}
}

func (h *GenerateHandler) Ideas(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var payload model.GenerateIdeasRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Ideas(r.Context(), subject, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

func (h *GenerateHandler) Draft(w http.ResponseWriter, r *http.Request) {
	subject, ok := subjectFrom(w, r)
	if !ok {
		return
	}

	var payload model.GenerateDraftRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Draft(r.Context(), subject, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, result, nil)
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"go-blog-ai/internal/middleware"
	"go-blog-ai/internal/model"
	"go-blog-ai/pkg/apierror"
)

// maxBodyBytes caps JSON request bodies. Drafts are the largest payload.
const maxBodyBytes = 1 << 20

func writeSuccess(w http.ResponseWriter, status int, data any, meta *model.Meta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: true,
		Data:    data,
		Meta:    meta,
	})
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeError renders err as the error envelope. APIErrors carry their own
// status; bare sentinels are classified here and anything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	body := model.APIResponse{
		Success: false,
		Error:   "Unexpected server error",
		Code:    "INTERNAL_ERROR",
	}
	status := http.StatusInternalServerError

	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Error = apiErr.Message
		body.Details = apiErr.Details
		body.RequiresRetry = apiErr.RequiresRetry
	case errors.Is(err, model.ErrValidation):
		status, body.Code, body.Error = http.StatusBadRequest, "VALIDATION_ERROR", err.Error()
	case errors.Is(err, model.ErrInvalidCredentials):
		status, body.Code, body.Error = http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"
	case errors.Is(err, model.ErrUnauthenticated):
		status, body.Code, body.Error = http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required"
	case errors.Is(err, model.ErrSelfLockout):
		status, body.Code, body.Error = http.StatusForbidden, "SELF_LOCKOUT", err.Error()
	case errors.Is(err, model.ErrQuotaExceeded):
		status, body.Code, body.Error = http.StatusForbidden, "QUOTA_EXCEEDED", "No generations left"
	case errors.Is(err, model.ErrForbidden):
		status, body.Code, body.Error = http.StatusForbidden, "FORBIDDEN", "Access denied"
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrPostNotFound),
		errors.Is(err, model.ErrCollectionNotFound):
		status, body.Code, body.Error = http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, model.ErrEmailTaken):
		status, body.Code, body.Error = http.StatusConflict, "CONFLICT", "Email already in use"
	case errors.Is(err, model.ErrUpstreamFailure):
		status, body.Code, body.Error = http.StatusBadGateway, "UPSTREAM_FAILURE", "Text generation failed"
		body.RequiresRetry = true
	default:
		slog.Error("unhandled error in writeError", "error", err)
	}

	if status >= http.StatusInternalServerError && apiErr != nil {
		slog.Error("request failed", "code", body.Code, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dest any) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		return apierror.Wrap(model.ErrValidation, "VALIDATION_ERROR", "invalid JSON body", http.StatusBadRequest)
	}
	return nil
}

// subjectFrom returns the session subject, writing a 401 when the route was
// mounted without RequireAuth.
func subjectFrom(w http.ResponseWriter, r *http.Request) (model.Subject, bool) {
	subject, ok := middleware.SubjectFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return model.Subject{}, false
	}
	return subject, true
}

func parseIntOrDefault(raw string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return value
}

package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"go-blog-ai/internal/model"
)

const defaultRequestTimeout = 30 * time.Second

// Timeout answers 503 with a REQUEST_TIMEOUT envelope when a handler runs
// longer than d. A non-positive d means the default.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = defaultRequestTimeout
	}

	body, _ := json.Marshal(model.APIResponse{Error: "request timed out", Code: "REQUEST_TIMEOUT"})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, string(body))
	}
}

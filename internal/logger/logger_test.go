package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "json", "warn")

	log.Info("dropped")
	log.Warn("kept", "account_id", "a-1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "a-1", line["account_id"])
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "pretty", "info").With("component", "test").WithGroup("req")

	log.Debug("hidden")
	log.Info("request", "status", 200)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "request")
	assert.Contains(t, out, "req.status")
	assert.Contains(t, out, "=200")
}

func TestPrettyHandler_NilLevel(t *testing.T) {
	h := NewPrettyHandler(&bytes.Buffer{}, nil)
	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestPrettyHandler_GroupsApplyToLaterAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, nil)).
		With("component", "auth").
		WithGroup("http").
		With("method", "GET")

	log.Info("served", slog.Group("client", "ip", "10.0.0.1"), "path", "/api/v1/posts list")

	out := buf.String()
	assert.Contains(t, out, "component")
	assert.NotContains(t, out, "http.component")
	assert.Contains(t, out, "http.method")
	assert.Contains(t, out, "http.client.ip")
	assert.Contains(t, out, `="/api/v1/posts list"`)
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

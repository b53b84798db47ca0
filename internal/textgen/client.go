// Package textgen talks to the hosted text-generation model that produces
// blog ideas and drafts, and turns its loosely formatted output into
// titles.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// UpstreamError is a non-200 answer from the model API.
type UpstreamError struct {
	StatusCode int
	Status     string
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("textgen: HTTP %d %s: %s", e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("textgen: HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports whether retrying the same request could succeed.
func (e *UpstreamError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// ErrEmptyResponse is returned when the model answers without any text.
var ErrEmptyResponse = errors.New("textgen: empty response")

type GeminiConfig struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	HTTPClient *http.Client
}

type GeminiClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	maxRetries uint64
	backoff    time.Duration
}

func NewGeminiClient(cfg GeminiConfig) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("textgen: api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com"
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	endpoint, err := url.JoinPath(cfg.BaseURL, "v1beta", "models", cfg.Model+":generateContent")
	if err != nil {
		return nil, fmt.Errorf("textgen: build endpoint: %w", err)
	}

	return &GeminiClient{
		httpClient: cfg.HTTPClient,
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		maxRetries: cfg.MaxRetries,
		backoff:    250 * time.Millisecond,
	}, nil
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (r *geminiResponse) text() string {
	var builder strings.Builder
	for _, candidate := range r.Candidates {
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
		if builder.Len() > 0 {
			break
		}
	}
	return builder.String()
}

// Generate sends prompt to the model, retrying rate limits, server errors
// and transport failures with exponential backoff.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("textgen: marshaling request: %w", err)
	}

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewExponential(c.backoff))

	var text string
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		result, err := c.send(ctx, body)
		if err != nil {
			var upstream *UpstreamError
			if errors.As(err, &upstream) && !upstream.Temporary() {
				return err
			}
			if errors.Is(err, ErrEmptyResponse) {
				return err
			}
			return retry.RetryableError(err)
		}

		text = result
		return nil
	})
	if err != nil {
		return "", err
	}

	return text, nil
}

func (c *GeminiClient) send(ctx context.Context, body []byte) (string, error) {
	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("textgen: creating request: %w", err)
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("x-goog-api-key", c.apiKey)

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return "", fmt.Errorf("textgen: sending request: %w", err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return "", readUpstreamError(httpResponse)
	}

	var wire geminiResponse
	if err := json.NewDecoder(httpResponse.Body).Decode(&wire); err != nil {
		return "", fmt.Errorf("textgen: decoding response: %w", err)
	}

	text := wire.text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// readUpstreamError parses {"error":{"code":...,"message":"...","status":"..."}}
// and falls back to the raw body.
func readUpstreamError(httpResponse *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4096))

	var wireError struct {
		Error struct {
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		return &UpstreamError{
			StatusCode: httpResponse.StatusCode,
			Status:     wireError.Error.Status,
			Message:    wireError.Error.Message,
		}
	}

	return &UpstreamError{StatusCode: httpResponse.StatusCode, Message: string(body)}
}

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("textgen: no model api key configured")

// Disabled is used when GEMINI_API_KEY is unset; every call fails.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

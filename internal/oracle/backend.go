package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Backend client defaults.
const (
	defaultBackendTimeout = 5 * time.Second
	defaultBackendRPS     = 5
)

// Backend is the boundary to the external scoring model. Implementations
// either resolve or return an error; timeouts and retries live behind
// this interface, never above it.
type Backend interface {
	// Complete sends a prompt with optional context and returns the raw
	// completion text.
	Complete(ctx context.Context, prompt, pageContext string) (string, error)
	// Health reports whether the backend is reachable.
	Health(ctx context.Context) error
}

// completeRequest is the request body for POST /v1/score.
type completeRequest struct {
	Prompt  string `json:"prompt"`
	Context string `json:"context,omitempty"`
}

// completeResponse is the response body from /v1/score. The completion
// is free text; parsing it is the normalizer's job.
type completeResponse struct {
	Completion string `json:"completion"`
}

type healthResponse struct {
	ModelVersion string `json:"model_version"`
}

// HTTPBackend is an HTTP client for the scoring model service. Calls are
// rate limited to respect backend quota.
type HTTPBackend struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPBackend creates a backend client. rps bounds the sustained call
// rate; zero or negative applies the default.
func NewHTTPBackend(baseURL string, rps int) *HTTPBackend {
	if rps <= 0 {
		rps = defaultBackendRPS
	}
	return &HTTPBackend{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultBackendTimeout},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Complete sends the prompt to the scoring service.
func (b *HTTPBackend) Complete(ctx context.Context, prompt, pageContext string) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: rate limiter: %w", ErrUnavailable, err)
	}

	body, err := json.Marshal(completeRequest{Prompt: prompt, Context: pageContext})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/v1/score", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", fmt.Errorf("%w: status %d", ErrQuotaExceeded, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out completeResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&out); decodeErr != nil {
		return "", fmt.Errorf("decode response: %w", decodeErr)
	}
	return out.Completion, nil
}

// Health calls GET /health at the backend.
func (b *HTTPBackend) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/health", http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := b.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unhealthy status %d", ErrUnavailable, resp.StatusCode)
	}

	var health healthResponse
	_ = json.NewDecoder(resp.Body).Decode(&health) // model_version optional
	return nil
}

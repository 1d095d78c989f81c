package oracle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPBackend_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/score", r.URL.Path)

		var req completeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.NotEmpty(t, req.Prompt)

		_ = json.NewEncoder(w).Encode(completeResponse{Completion: `{"score": 7}`})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 100)
	got, err := b.Complete(context.Background(), "rate this text", "page excerpt")
	require.NoError(t, err)
	assert.Equal(t, `{"score": 7}`, got)
}

func TestHTTPBackend_QuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 100)
	_, err := b.Complete(context.Background(), "p", "")
	assert.ErrorIs(t, err, ErrQuotaExceeded)
}

func TestHTTPBackend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 100)
	_, err := b.Complete(context.Background(), "p", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPBackend_Unreachable(t *testing.T) {
	b := NewHTTPBackend("http://127.0.0.1:1", 100)
	_, err := b.Complete(context.Background(), "p", "")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPBackend_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(healthResponse{ModelVersion: "v3"})
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 100)
	assert.NoError(t, b.Health(context.Background()))
}

func TestHTTPBackend_HealthUnhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	b := NewHTTPBackend(srv.URL, 100)
	assert.ErrorIs(t, b.Health(context.Background()), ErrUnavailable)
}

func TestHTTPBackend_ContextCancelled(t *testing.T) {
	b := NewHTTPBackend("http://127.0.0.1:1", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Complete(ctx, "p", "")
	assert.Error(t, err)
}

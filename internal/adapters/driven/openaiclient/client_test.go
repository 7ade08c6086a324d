package openaiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPing(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantErr    bool
		wantStatus string
	}{
		{name: "ok", status: http.StatusOK},
		{name: "bad key", status: http.StatusUnauthorized, wantErr: true, wantStatus: "status 401"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/models", r.URL.Path)
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				if tt.status == http.StatusOK {
					_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
					return
				}
				_, _ = w.Write([]byte(`{"error":{"message":"invalid key","type":"auth"}}`))
			}))
			defer srv.Close()

			client := New(Config{APIKey: "sk-test", BaseURL: srv.URL})
			err := Ping(t.Context(), &client, "groq")

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "groq error")
			assert.Contains(t, err.Error(), tt.wantStatus)
		})
	}
}

func TestNew_NegativeRetriesDisablesRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := New(Config{APIKey: "k", BaseURL: srv.URL, MaxRetries: -1})
	_, err := client.Models.List(t.Context())

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDescribe(t *testing.T) {
	plain := errors.New("dial tcp: connection refused")

	err := Describe("ollama", plain)

	assert.EqualError(t, err, "ollama: dial tcp: connection refused")
	assert.ErrorIs(t, err, plain)

	apiErr := &openai.Error{
		StatusCode: http.StatusTooManyRequests,
		Request:    httptest.NewRequest(http.MethodPost, "/chat/completions", nil),
		Response:   &http.Response{StatusCode: http.StatusTooManyRequests},
	}
	err = Describe("openai", apiErr)

	var target *openai.Error
	require.ErrorAs(t, err, &target)
	assert.Contains(t, err.Error(), "openai error (status 429)")
}

func TestPing_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	client := New(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1", MaxRetries: -1})

	assert.Error(t, Ping(ctx, &client, "openai"))
}

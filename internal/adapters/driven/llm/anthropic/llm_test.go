package anthropic

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewLLMService(Config{APIKey: "sk-ant", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return s
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}

func TestGenerate_Success(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		temp, ok := raw["temperature"]
		require.True(t, ok, "temperature must be sent even when zero")
		assert.Equal(t, 0.0, temp)
		assert.Equal(t, float64(DefaultMaxTokens), raw["max_tokens"])

		_, _ = w.Write([]byte(`{"content":[
			{"type":"text","text":"The capital "},
			{"type":"tool_use","id":"x"},
			{"type":"text","text":"is Paris. "}
		],"stop_reason":"end_turn"}`))
	})

	out, err := s.Generate(t.Context(), "prompt", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "The capital is Paris.", out)
}

func TestGenerate_MaxTokensOverride(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 64, req.MaxTokens)
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"ok"}]}`))
	})

	_, err := s.Generate(t.Context(), "p", driven.GenerateOptions{MaxTokens: 64})

	assert.NoError(t, err)
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		contains []string
	}{
		{
			name:     "api envelope",
			status:   http.StatusTooManyRequests,
			body:     `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`,
			contains: []string{"status 429", "rate_limit_error", "slow down"},
		},
		{
			name:     "plain text",
			status:   http.StatusBadGateway,
			body:     "<html>bad gateway</html>",
			contains: []string{"status 502", "bad gateway"},
		},
		{
			name:     "no text content",
			status:   http.StatusOK,
			body:     `{"content":[],"stop_reason":"max_tokens"}`,
			contains: []string{"no text", "max_tokens"},
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `{"content":`,
			contains: []string{"decode response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := s.Generate(t.Context(), "p", driven.GenerateOptions{})

			require.Error(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestGenerate_APIErrorType(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	})

	_, err := s.Generate(t.Context(), "p", driven.GenerateOptions{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "authentication_error", apiErr.Type)
}

func TestPing(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/models", r.URL.Path)
		if r.Header.Get("x-api-key") != "sk-ant" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})

	assert.NoError(t, s.Ping(t.Context()))
}

func TestPing_Unauthorized(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`invalid x-api-key`))
	})

	err := s.Ping(t.Context())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ping failed")
	assert.Contains(t, err.Error(), "401")
}

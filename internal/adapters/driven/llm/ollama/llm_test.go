package ollama

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

func TestCompatURL(t *testing.T) {
	tests := map[string]string{
		"http://localhost:11434":  "http://localhost:11434/v1",
		"http://localhost:11434/": "http://localhost:11434/v1",
		"http://gpu-box:8080":     "http://gpu-box:8080/v1",
	}
	for in, want := range tests {
		assert.Equal(t, want, CompatURL(in), in)
	}
}

func newTestService(t *testing.T, url string) driven.LLMService {
	t.Helper()
	s, err := NewLLMService(LLMConfig{BaseURL: url})
	require.NoError(t, err)
	return s
}

func TestNewLLMService_DefaultModel(t *testing.T) {
	assert.Equal(t, DefaultLLMModel, newTestService(t, "").ModelName())
}

func TestGenerate_UsesChatCompletions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, "llama3.2", raw["model"])
		temp, ok := raw["temperature"]
		require.True(t, ok, "temperature must be sent even when zero")
		assert.Equal(t, 0.0, temp)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"  Paris.\n"}}]}`))
	}))
	defer srv.Close()

	out, err := newTestService(t, srv.URL).Generate(t.Context(), "What is the capital of France?", driven.GenerateOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Paris.", out)
}

func TestGenerate_ServerErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"model \"llama3.2\" not found, try pulling it first"}}`))
	}))
	defer srv.Close()

	_, err := newTestService(t, srv.URL).Generate(t.Context(), "p", driven.GenerateOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama error (status 500)")
	assert.Equal(t, 1, calls)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"llama3.2","object":"model"}]}`))
	}))
	defer srv.Close()

	assert.NoError(t, newTestService(t, srv.URL).Ping(t.Context()))
}

// Package ollama generates answers with a local Ollama server through its
// OpenAI-compatible /v1 endpoint.
package ollama

import (
	"strings"
	"time"

	"github.com/custodia-labs/kbase/internal/adapters/driven/llm/openai"
)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultLLMModel   = "llama3.2"
	DefaultLLMTimeout = 120 * time.Second

	// apiKey is ignored by Ollama but required by the client.
	apiKey = "ollama"
)

// LLMConfig holds configuration for the Ollama LLM service.
type LLMConfig struct {
	// BaseURL is the server root, without /v1.
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewLLMService returns a chat completion client for the Ollama server at
// cfg.BaseURL. Local servers fail fast, so retries are off.
func NewLLMService(cfg LLMConfig) (*openai.LLMService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return openai.NewLLMService(openai.LLMConfig{
		APIKey:     apiKey,
		BaseURL:    CompatURL(cfg.BaseURL),
		Model:      cfg.Model,
		Timeout:    cfg.Timeout,
		MaxRetries: -1,
		Provider:   "ollama",
	})
}

// CompatURL maps an Ollama server root to its OpenAI-compatible base URL.
func CompatURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/v1"
}

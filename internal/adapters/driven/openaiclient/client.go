// Package openaiclient builds the openai-go client shared by every adapter
// that speaks the OpenAI wire format: OpenAI itself, Groq and Ollama's /v1
// endpoints.
package openaiclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config selects the endpoint and transport behaviour.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// MaxRetries counts SDK retries on 408, 409, 429 and 5xx responses.
	// Zero keeps the SDK default, a negative value disables retries.
	MaxRetries int
}

// New returns a client for cfg. Callers validate the API key first: some
// compatible servers accept any key.
func New(cfg Config) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	switch {
	case cfg.MaxRetries < 0:
		opts = append(opts, option.WithMaxRetries(0))
	case cfg.MaxRetries > 0:
		opts = append(opts, option.WithMaxRetries(cfg.MaxRetries))
	}
	return openai.NewClient(opts...)
}

// Describe prefixes err with the provider name and, for API errors, the HTTP
// status. The SDK error stays reachable through errors.As.
func Describe(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s error (status %d): %w", provider, apiErr.StatusCode, err)
	}
	return fmt.Errorf("%s: %w", provider, err)
}

// Ping lists models, which checks the key without running inference.
func Ping(ctx context.Context, client *openai.Client, provider string) error {
	if _, err := client.Models.List(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", Describe(provider, err))
	}
	return nil
}

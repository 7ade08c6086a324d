// Package openai generates answers through OpenAI-compatible chat completion
// APIs. It serves OpenAI, Groq and, through its /v1 endpoint, Ollama.
package openai

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/openai/openai-go"

	"github.com/custodia-labs/kbase/internal/adapters/driven/openaiclient"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultLLMModel   = "gpt-4o-mini"
	DefaultLLMTimeout = 120 * time.Second

	GroqBaseURL      = "https://api.groq.com/openai/v1"
	GroqDefaultModel = "llama-3.1-8b-instant"
)

// LLMConfig holds configuration for the service. Only APIKey is required.
type LLMConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// MaxRetries follows openaiclient.Config.MaxRetries.
	MaxRetries int

	// Provider names the backend in errors. Defaults to "openai".
	Provider string
}

// LLMService sends each prompt as a single user message.
type LLMService struct {
	client   openai.Client
	baseURL  string
	model    string
	provider string
}

func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.Provider == "" {
		cfg.Provider = "openai"
	}
	if cfg.APIKey == "" {
		return nil, errors.New(cfg.Provider + ": API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: openaiclient.New(openaiclient.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		}),
		baseURL:  cfg.BaseURL,
		model:    cfg.Model,
		provider: cfg.Provider,
	}, nil
}

// Generate always sends the temperature: omitting 0.0 would let the server
// apply its own default.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}

	completion, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", openaiclient.Describe(s.provider, err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New(s.provider + ": no response choices returned")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

func (s *LLMService) ModelName() string {
	return s.model
}

func (s *LLMService) Ping(ctx context.Context) error {
	return openaiclient.Ping(ctx, &s.client, s.provider)
}

func (s *LLMService) Close() error {
	return nil
}

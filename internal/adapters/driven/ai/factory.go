// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/custodia-labs/kbase/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/kbase/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/kbase/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/kbase/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/kbase/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/kbase/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if embeddings fell back to the local hashing embedder.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init creates the services described by settings.
//
// An unreachable or misconfigured embedding provider falls back to the local
// hashing embedder with a warning, so ingestion keeps working offline. The LLM
// has no fallback: a missing LLM is reported as domain.ErrLLMUnavailable.
func Init(settings *domain.AppSettings) (*InitResult, error) {
	if settings == nil {
		return nil, domain.ErrInvalidInput
	}
	result := &InitResult{}

	embedder, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil || embedder == nil {
		warning := "embedding provider not configured, using local hashing embedder"
		if err != nil {
			warning = fmt.Sprintf("%v; using local hashing embedder", err)
		}
		logger.Warn("%s", warning)
		result.Warnings = append(result.Warnings, warning)
		result.FellBack = true
		embedder = hashing.NewEmbeddingService(hashing.DefaultDimensions)
	}
	result.EmbeddingService = embedder

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		result.Close()
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if llm == nil {
		result.Close()
		return nil, fmt.Errorf("%w: %s needs an API key (set %s or run 'kbase settings set')",
			domain.ErrLLMUnavailable, settings.LLM.Provider, settings.LLM.Provider.APIKeyEnv())
	}
	result.LLMService = llm

	return result, nil
}

// ResolveAPIKey returns key, or the provider's environment variable when key is empty.
func ResolveAPIKey(provider domain.AIProvider, key string) string {
	if key != "" {
		return key
	}
	if env := provider.APIKeyEnv(); env != "" {
		return os.Getenv(env)
	}
	return ""
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'kbase settings set' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	if err := ping(svc, pingTimeout); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'kbase settings set' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'kbase settings set' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	if err := ping(svc, pingTimeout); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'kbase settings set' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured. Missing API keys are read
// from the provider's environment variable.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	resolved := *settings
	resolved.APIKey = ResolveAPIKey(resolved.Provider, resolved.APIKey)
	if !resolved.IsConfigured() {
		return nil, nil
	}

	switch resolved.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(&resolved), nil

	case domain.AIProviderOpenAI:
		svc, err := createOpenAIEmbedding(&resolved)
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderLocal:
		return hashing.NewEmbeddingService(domain.EmbeddingDimensions()[resolved.Model]), nil

	case domain.AIProviderAnthropic, domain.AIProviderGroq:
		return nil, fmt.Errorf("%s does not support embeddings, use ollama, openai or local", resolved.Provider)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", resolved.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured. Missing API keys are read
// from the provider's environment variable.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}
	resolved := *settings
	resolved.APIKey = ResolveAPIKey(resolved.Provider, resolved.APIKey)
	if resolved.Provider == domain.AIProviderLocal {
		return nil, errors.New("local provider only supports embeddings")
	}
	if !resolved.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.LLMService
		err error
	)
	switch resolved.Provider {
	case domain.AIProviderGroq:
		svc, err = createGroqLLM(&resolved)
	case domain.AIProviderOllama:
		svc, err = createOllamaLLM(&resolved)
	case domain.AIProviderOpenAI:
		svc, err = createOpenAILLM(&resolved)
	case domain.AIProviderAnthropic:
		svc, err = createAnthropicLLM(&resolved)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", resolved.Provider)
	}
	// A failed constructor returns a typed nil; never hand that out.
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createGroqLLM creates a Groq LLM service through its OpenAI-compatible API.
func createGroqLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = openaillm.GroqBaseURL
	}
	model := settings.Model
	if model == "" {
		model = openaillm.GroqDefaultModel
	}
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:   settings.APIKey,
		BaseURL:  baseURL,
		Model:    model,
		Provider: "groq",
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

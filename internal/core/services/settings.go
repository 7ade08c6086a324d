package services

import (
	"fmt"
	"slices"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyChunkSize     = "rag.chunk_size"
	keyChunkOverlap  = "rag.chunk_overlap"
	keyRetrievalK    = "rag.retrieval_k"
)

const localBaseURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
// Unset or invalid values fall back to the defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.getStored(keyEmbedBaseURL, defaults.Embedding.BaseURL),
			APIKey:   s.configStore.String(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.String(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.String(keyLLMAPIKey),
		},
		RAG: domain.RAGSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.RAG.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.RAG.ChunkOverlap),
			RetrievalK:   s.getInt(keyRetrievalK, defaults.RAG.RetrievalK),
		},
	}

	if settings.RAG.Validate() != nil {
		settings.RAG = defaults.RAG
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := settings.RAG.Validate(); err != nil {
		return fmt.Errorf("rag settings: %w", err)
	}

	values := map[string]any{
		keyEmbedProvider: settings.Embedding.Provider.String(),
		keyEmbedModel:    settings.Embedding.Model,
		keyEmbedBaseURL:  settings.Embedding.BaseURL,
		keyLLMProvider:   settings.LLM.Provider.String(),
		keyLLMModel:      settings.LLM.Model,
		keyLLMBaseURL:    settings.LLM.BaseURL,
		keyChunkSize:     settings.RAG.ChunkSize,
		keyChunkOverlap:  settings.RAG.ChunkOverlap,
		keyRetrievalK:    settings.RAG.RetrievalK,
	}
	// Keys are only written when set, so environment variables keep working.
	if settings.Embedding.APIKey != "" {
		values[keyEmbedAPIKey] = settings.Embedding.APIKey
	}
	if settings.LLM.APIKey != "" {
		values[keyLLMAPIKey] = settings.LLM.APIKey
	}

	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings to %s: %w", s.configStore.Path(), err)
	}
	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
// An empty apiKey is allowed for cloud providers: the key is then read from
// the provider's environment variable when the service is created.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if !slices.Contains(domain.AllLLMProviders(), provider) {
		return fmt.Errorf("provider %s does not support text generation", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetRAG updates chunking and retrieval settings.
func (s *SettingsService) SetRAG(rag domain.RAGSettings) error {
	if err := rag.Validate(); err != nil {
		return fmt.Errorf("chunk_size must be positive, chunk_overlap in [0, chunk_size) and retrieval_k positive: %w", err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.RAG = rag
	return s.Save(settings)
}

func (s *SettingsService) Location() string {
	return s.configStore.Path()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.String(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getStored returns defaultVal only when key was never written, so a saved
// empty value (a cloud provider's base URL) survives a reload.
func (s *SettingsService) getStored(key, defaultVal string) string {
	if _, exists := s.configStore.Lookup(key); !exists {
		return defaultVal
	}
	return s.configStore.String(key)
}

// getInt distinguishes an explicit zero from an unset key, since a zero
// overlap is a valid setting.
func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Lookup(key); !exists {
		return defaultVal
	}
	return s.configStore.Int(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.String(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a configured Ollama URL, clears it for cloud providers
// and leaves it empty for the in-process embedder.
func baseURLFor(provider domain.AIProvider, current string) string {
	switch provider {
	case domain.AIProviderOllama:
		if current == "" {
			return localBaseURL
		}
		return current
	default:
		return ""
	}
}

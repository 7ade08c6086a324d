package driving

import "github.com/custodia-labs/kbase/internal/core/domain"

// SettingsService reads and changes the persisted provider and RAG settings.
// Unset values read back as domain.DefaultAppSettings.
type SettingsService interface {
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider and SetLLMProvider fill in the provider's default
	// model when model is empty. An empty apiKey defers to the provider's
	// environment variable.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetRAG rejects settings that fail domain.RAGSettings.Validate.
	SetRAG(rag domain.RAGSettings) error

	// Location describes where settings are persisted.
	Location() string

	// ValidateEmbeddingConfig and ValidateLLMConfig make a live call to the
	// configured provider.
	ValidateEmbeddingConfig() error
	ValidateLLMConfig() error
}

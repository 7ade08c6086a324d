package driven

import "github.com/custodia-labs/kbase/internal/core/domain"

// AIConfigValidator validates AI provider configurations by connecting to them.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM validates an LLM configuration.
	ValidateLLM(config *domain.LLMSettings) error
}

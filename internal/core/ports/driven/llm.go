package driven

import "context"

// LLMService generates text from a fully rendered prompt.
//
// Implementations may include:
//   - Groq (llama-3.1-8b-instant) via its OpenAI-compatible API
//   - OpenAI (gpt-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type LLMService interface {
	// Generate produces a single completion for the prompt.
	// Transport, quota and malformed-response failures are returned as errors.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate. Zero means provider default.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// Adapters must always send it, including 0.0.
	Temperature float64
}

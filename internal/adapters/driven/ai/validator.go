package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// pingable is the part of a provider client that validation needs.
type pingable interface {
	Ping(ctx context.Context) error
	Close() error
}

func ping(svc pingable, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ConfigValidator checks provider settings with a live call to the provider.
// Settings that select no provider pass without a call.
type ConfigValidator struct {
	timeout      time.Duration
	newEmbedding func(*domain.EmbeddingSettings) (driven.EmbeddingService, error)
	newLLM       func(*domain.LLMSettings) (driven.LLMService, error)
}

// ValidatorOption configures a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithPingTimeout bounds each validation call. Defaults to 5s.
func WithPingTimeout(d time.Duration) ValidatorOption {
	return func(v *ConfigValidator) { v.timeout = d }
}

func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{
		timeout:      pingTimeout,
		newEmbedding: CreateEmbeddingService,
		newLLM:       CreateLLMService,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	if config == nil {
		return nil
	}
	svc, err := v.newEmbedding(config)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()

	if err := ping(svc, v.timeout); err != nil {
		return fmt.Errorf("%s embedding (%s): %w", config.Provider, config.Model, err)
	}
	return nil
}

func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	if config == nil {
		return nil
	}
	svc, err := v.newLLM(config)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()

	if err := ping(svc, v.timeout); err != nil {
		return fmt.Errorf("%s llm (%s): %w", config.Provider, config.Model, err)
	}
	return nil
}

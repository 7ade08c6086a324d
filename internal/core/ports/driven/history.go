package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// HistoryStore persists chat exchanges for a presentation layer.
type HistoryStore interface {
	// Append records an exchange.
	Append(ctx context.Context, exchange domain.Exchange) error

	// List returns exchanges oldest first.
	List(ctx context.Context) ([]domain.Exchange, error)

	// Reset removes every exchange.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}

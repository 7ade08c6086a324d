package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// HistoryService records the conversation for presentation layers.
type HistoryService interface {
	// Record appends a question and its answer.
	Record(ctx context.Context, query, answer string) error

	// List returns the conversation oldest first.
	List(ctx context.Context) ([]domain.Exchange, error)

	// Reset clears the conversation.
	Reset(ctx context.Context) error
}

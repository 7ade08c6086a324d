package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Splitter turns a document into retrieval chunks.
type Splitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split returns the chunks for doc. Empty content yields no chunks.
	Split(ctx context.Context, doc *domain.Document) ([]domain.Chunk, error)
}

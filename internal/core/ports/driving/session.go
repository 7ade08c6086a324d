package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Session holds the current index for one user and answers against it.
// Presentation layers share a single Session.
type Session interface {
	// Ingest builds a new index from sources. The current index is replaced
	// only when the build succeeds.
	Ingest(ctx context.Context, sources []domain.SourceDescriptor) (*IngestResult, error)

	// Ask answers query against the current index.
	// Returns domain.ErrIndexUnavailable before the first successful ingestion.
	Ask(ctx context.Context, query string) (*domain.AnswerPacket, error)

	// Ready reports whether an index has been built.
	Ready() bool

	// Stats returns the statistics of the batch behind the current index.
	Stats() (domain.IngestStats, bool)
}

package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// IngestResult is the outcome of one ingestion batch.
type IngestResult struct {
	// Index is the freshly built index. It replaces any previous index wholesale.
	Index driven.VectorIndex

	// Stats summarises the batch.
	Stats domain.IngestStats

	// Failures lists sources that were skipped because they failed to load.
	Failures []*domain.SourceLoadError
}

// IngestService runs the build phase: load, chunk, embed and index.
type IngestService interface {
	// Ingest loads every source and builds a new index from the survivors.
	// Returns domain.ErrNoSources for an empty request and
	// domain.ErrEmptyContent when nothing could be extracted.
	Ingest(ctx context.Context, sources []domain.SourceDescriptor) (*IngestResult, error)
}

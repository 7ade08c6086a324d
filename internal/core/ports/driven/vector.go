package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// IndexBuilder embeds chunks and produces an immutable VectorIndex.
// A rebuild always produces a new index; there are no incremental updates.
type IndexBuilder interface {
	// Build embeds every chunk and returns the populated index.
	// Returns domain.ErrEmptyContent if chunks is empty.
	Build(ctx context.Context, chunks []domain.Chunk) (VectorIndex, error)
}

// VectorIndex is an immutable set of (vector, chunk) pairs built from one
// ingestion batch, bound to the embedder that built it.
type VectorIndex interface {
	// Search embeds query with the index's own embedder and returns the k
	// nearest chunks ordered by ascending squared Euclidean distance.
	// Lower distance means more similar. Returns every chunk if fewer than k exist.
	Search(ctx context.Context, query string, k int) ([]domain.RetrievalHit, error)

	// Len returns the number of indexed chunks.
	Len() int

	// ModelName returns the embedding model the index was built with.
	ModelName() string
}

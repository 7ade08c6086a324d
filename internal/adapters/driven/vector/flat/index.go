package flat

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure implementations satisfy the interfaces.
var (
	_ driven.IndexBuilder = (*Builder)(nil)
	_ driven.VectorIndex  = (*Index)(nil)
)

// Builder embeds chunks and produces flat indexes bound to one embedder.
type Builder struct {
	embedder driven.EmbeddingService
}

// NewBuilder creates a builder that embeds with embedder.
func NewBuilder(embedder driven.EmbeddingService) *Builder {
	return &Builder{embedder: embedder}
}

// Build embeds every chunk and returns a new index.
// Returns domain.ErrEmptyContent when there is nothing to index.
func (b *Builder) Build(ctx context.Context, chunks []domain.Chunk) (driven.VectorIndex, error) {
	if len(chunks) == 0 {
		return nil, domain.ErrEmptyContent
	}
	if b.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	vectors, err := b.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return nil, fmt.Errorf("embed chunks: got %d vectors for %d chunks", len(vectors), len(chunks))
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, errors.New("embed chunks: empty vector")
	}

	entries := make([]entry, len(chunks))
	for i, vec := range vectors {
		if len(vec) != dimension {
			return nil, fmt.Errorf("%w: chunk %d has %d dimensions, want %d",
				domain.ErrDimensionMismatch, i, len(vec), dimension)
		}
		chunk := chunks[i]
		chunk.Metadata = domain.CopyMetadata(chunk.Metadata)
		entries[i] = entry{vector: vec, chunk: chunk}
	}

	logger.Debug("built flat index: %d vectors, %d dimensions, model %s",
		len(entries), dimension, b.embedder.ModelName())

	return &Index{
		embedder:  b.embedder,
		dimension: dimension,
		entries:   entries,
	}, nil
}

type entry struct {
	vector []float32
	chunk  domain.Chunk
}

// Index is an immutable set of (vector, chunk) pairs.
// It is safe for concurrent searches.
type Index struct {
	embedder  driven.EmbeddingService
	dimension int
	entries   []entry
}

// Len returns the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Dimension returns the vector size of the index.
func (idx *Index) Dimension() int {
	return idx.dimension
}

// ModelName returns the embedding model the index was built with.
func (idx *Index) ModelName() string {
	return idx.embedder.ModelName()
}

// Search returns the min(k, Len()) chunks nearest to query, ascending by
// squared Euclidean distance. Equal distances keep insertion order.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]domain.RetrievalHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, k)
	}

	qvec, err := idx.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qvec) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrDimensionMismatch, len(qvec), idx.dimension)
	}

	hits := make([]domain.RetrievalHit, len(idx.entries))
	for i := range idx.entries {
		hits[i] = domain.RetrievalHit{
			Chunk:    idx.entries[i].chunk,
			Distance: SquaredL2(qvec, idx.entries[i].vector),
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Distance < hits[j].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	out := hits[:k:k]
	for i := range out {
		out[i].Chunk.Metadata = domain.CopyMetadata(out[i].Chunk.Metadata)
	}
	return out, nil
}

// SquaredL2 returns the squared Euclidean distance between a and b,
// accumulated in float64. The vectors must have equal length.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

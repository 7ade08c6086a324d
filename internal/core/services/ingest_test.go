package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/adapters/driven/embedding/hashing"
	"github.com/custodia-labs/kbase/internal/adapters/driven/vector/flat"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/loaders"
	"github.com/custodia-labs/kbase/internal/postprocessors/chunker"
)

func newTestIngest(loader *stubLoader) *IngestService {
	return NewIngestService(loader, chunker.Default(), flat.NewBuilder(hashing.NewEmbeddingService(0)))
}

func TestIngest_EmptyRequest(t *testing.T) {
	svc := NewIngestService(loaders.New(), chunker.Default(), flat.NewBuilder(hashing.NewEmbeddingService(0)))

	result, err := svc.Ingest(context.Background(), nil)

	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrEmptyContent)
	assert.ErrorIs(t, err, domain.ErrNoSources)
	assert.Contains(t, err.Error(), "no content extracted")
}

func TestIngest_AllSourcesFail(t *testing.T) {
	loader := &stubLoader{errs: map[string]error{
		"https://example.com": domain.NewSourceLoadError(domain.URLSource("https://example.com"), errors.New("dns")),
	}}

	result, err := newTestIngest(loader).Ingest(context.Background(), []domain.SourceDescriptor{
		domain.URLSource("https://example.com"),
	})

	require.ErrorIs(t, err, domain.ErrEmptyContent)
	assert.NotErrorIs(t, err, domain.ErrNoSources)
	require.NotNil(t, result)
	assert.Nil(t, result.Index)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "https://example.com", result.Failures[0].Label)
}

func TestIngest_EmptyText(t *testing.T) {
	svc := NewIngestService(loaders.New(), chunker.Default(), flat.NewBuilder(hashing.NewEmbeddingService(0)))

	_, err := svc.Ingest(context.Background(), []domain.SourceDescriptor{domain.TextSource("")})

	assert.ErrorIs(t, err, domain.ErrEmptyContent)
}

func TestIngest_SkipsFailedSources(t *testing.T) {
	good, err := domain.FileSource("good.txt", nil)
	require.NoError(t, err)
	bad, err := domain.FileSource("bad.pdf", nil)
	require.NoError(t, err)

	loader := &stubLoader{
		docs: map[string][]domain.Document{
			"good.txt":         {doc("good.txt", "The capital of France is Paris.")},
			domain.DirectInput: {doc(domain.DirectInput, "Berlin is in Germany.")},
		},
		errs: map[string]error{"bad.pdf": errors.New("malformed")},
	}

	result, err := newTestIngest(loader).Ingest(context.Background(), []domain.SourceDescriptor{
		good, bad, domain.TextSource("Berlin is in Germany."),
	})

	require.NoError(t, err)
	require.NotNil(t, result.Index)
	assert.Equal(t, 2, result.Index.Len())
	assert.Equal(t, 2, result.Stats.Documents)
	assert.Equal(t, 2, result.Stats.Chunks)

	// Plain errors are wrapped so callers always see the source.
	require.Len(t, result.Failures, 1)
	assert.Equal(t, domain.SourceKindPDF, result.Failures[0].Kind)
	assert.Equal(t, "bad.pdf", result.Failures[0].Label)
}

func TestIngest_Stats(t *testing.T) {
	long := strings.Repeat("word ", 500) // 2500 runes
	loader := &stubLoader{docs: map[string][]domain.Document{
		domain.DirectInput: {doc(domain.DirectInput, long)},
	}}

	result, err := newTestIngest(loader).Ingest(context.Background(), []domain.SourceDescriptor{
		domain.TextSource(long),
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Documents)
	assert.Greater(t, result.Stats.Chunks, 2)
	assert.LessOrEqual(t, result.Stats.AvgChunkLen, float64(domain.DefaultChunkSize))
	assert.Equal(t, result.Stats.Chunks, result.Index.Len())
}

func TestIngest_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	loader := &stubLoader{errs: map[string]error{domain.DirectInput: context.Canceled}}

	_, err := newTestIngest(loader).Ingest(ctx, []domain.SourceDescriptor{domain.TextSource("x")})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestIngest_RebuildDoesNotLeak(t *testing.T) {
	svc := NewIngestService(loaders.New(), chunker.Default(), flat.NewBuilder(hashing.NewEmbeddingService(0)))
	ctx := context.Background()

	first, err := svc.Ingest(ctx, []domain.SourceDescriptor{domain.TextSource("Apples grow on trees.")})
	require.NoError(t, err)
	second, err := svc.Ingest(ctx, []domain.SourceDescriptor{domain.TextSource("Rivers flow to the sea.")})
	require.NoError(t, err)

	hits, err := second.Index.Search(ctx, "Apples grow on trees.", 3)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Rivers flow to the sea.", hits[0].Chunk.Content)

	// The first handle is untouched by the rebuild.
	assert.Equal(t, 1, first.Index.Len())
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService runs load, chunk and index build for one batch of sources.
// It holds no index itself: every call returns a fresh handle.
type IngestService struct {
	loader   driven.SourceLoader
	splitter driven.Splitter
	builder  driven.IndexBuilder
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	loader driven.SourceLoader,
	splitter driven.Splitter,
	builder driven.IndexBuilder,
) *IngestService {
	return &IngestService{
		loader:   loader,
		splitter: splitter,
		builder:  builder,
	}
}

// Ingest loads every source, splits the surviving documents and builds a new index.
//
// A source that fails to load is recorded in the result's Failures and skipped.
// An empty request fails with an error matching both domain.ErrEmptyContent and
// domain.ErrNoSources; a batch where nothing survives fails with domain.ErrEmptyContent.
// In both cases no index is built.
func (s *IngestService) Ingest(ctx context.Context, sources []domain.SourceDescriptor) (*driving.IngestResult, error) {
	logger.Section("Ingestion")

	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmptyContent, domain.ErrNoSources)
	}

	result := &driving.IngestResult{}

	var docs []domain.Document
	for _, src := range sources {
		loaded, err := s.loader.Load(ctx, src)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			var loadErr *domain.SourceLoadError
			if !errors.As(err, &loadErr) {
				loadErr = domain.NewSourceLoadError(src, err)
			}
			result.Failures = append(result.Failures, loadErr)
			continue
		}
		docs = append(docs, loaded...)
	}

	if len(docs) == 0 {
		logger.Debug("No documents survived loading (%d failure(s))", len(result.Failures))
		return result, domain.ErrEmptyContent
	}

	var chunks []domain.Chunk
	for i := range docs {
		split, err := s.splitter.Split(ctx, &docs[i])
		if err != nil {
			return nil, fmt.Errorf("split document %s: %w", docs[i].Source(), err)
		}
		chunks = append(chunks, split...)
	}
	logger.Debug("Split %d document(s) into %d chunk(s) with %s", len(docs), len(chunks), s.splitter.Name())

	if len(chunks) == 0 {
		return result, domain.ErrEmptyContent
	}

	index, err := s.builder.Build(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}

	result.Index = index
	result.Stats = domain.ComputeIngestStats(docs, chunks)
	logger.Info("Indexed %d chunk(s) from %d document(s)", result.Stats.Chunks, result.Stats.Documents)

	return result, nil
}

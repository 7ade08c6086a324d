package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// SourceLoader normalises a single source into documents.
// Per-source failures are returned as *domain.SourceLoadError so the caller
// can log and skip them without aborting the batch.
type SourceLoader interface {
	Load(ctx context.Context, src domain.SourceDescriptor) ([]domain.Document, error)
}

// FileParser parses one file kind from an addressable location on disk.
type FileParser interface {
	// Kind returns the file kind this parser handles.
	Kind() domain.SourceKind

	// Parse reads the file at path. name is the original filename recorded
	// as provenance.
	Parse(ctx context.Context, path, name string) ([]domain.Document, error)
}

// PageFetcher retrieves a web page body.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

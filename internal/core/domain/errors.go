package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source or file type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoSources indicates an ingestion request carried no URL, file or text.
	ErrNoSources = errors.New("please provide at least one source")

	// ErrEmptyContent indicates no document or chunk survived ingestion.
	// The index is not built.
	ErrEmptyContent = errors.New("no content extracted")

	// ErrIndexUnavailable indicates a query was attempted before any index was built.
	// Callers are expected to check for an index before asking a question.
	ErrIndexUnavailable = errors.New("no knowledge base available")

	// ErrGeneration indicates the language model call failed.
	// The underlying error is wrapped verbatim.
	ErrGeneration = errors.New("answer generation failed")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrDimensionMismatch indicates vectors from different embedding spaces were mixed.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// SourceLoadError records a single source that failed to load or parse.
// It is recovered locally: the batch continues without that source.
type SourceLoadError struct {
	Kind  SourceKind
	Label string
	Err   error
}

// NewSourceLoadError wraps err for the given source.
func NewSourceLoadError(src SourceDescriptor, err error) *SourceLoadError {
	return &SourceLoadError{Kind: src.Kind, Label: src.Label(), Err: err}
}

func (e *SourceLoadError) Error() string {
	return fmt.Sprintf("load %s %q: %v", e.Kind, e.Label, e.Err)
}

func (e *SourceLoadError) Unwrap() error {
	return e.Err
}

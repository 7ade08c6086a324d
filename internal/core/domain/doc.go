// Package domain defines the core business entities for kbase.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceDescriptor: A URL, raw text or uploaded file awaiting ingestion
//   - Document: Normalised text with provenance metadata
//   - Chunk: A bounded slice of a Document, the unit of retrieval
//   - RetrievalHit: A chunk paired with its search distance
//   - AnswerPacket: A grounded answer and the sources it was built from
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

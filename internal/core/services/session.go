package services

import (
	"context"
	"sync/atomic"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// Ensure Session implements the interface.
var _ driving.Session = (*Session)(nil)

// snapshot is one built index together with the stats of the batch that built it.
type snapshot struct {
	index driven.VectorIndex
	stats domain.IngestStats
}

// Session holds the current index handle for one user.
//
// Ingestion swaps the handle atomically once the new index is fully built, so
// a question in flight keeps answering against the index it started with. A
// failed ingestion leaves the previous index in place.
type Session struct {
	ingest  driving.IngestService
	answer  driving.AnswerService
	current atomic.Pointer[snapshot]
}

// NewSession creates a session with no index.
func NewSession(ingest driving.IngestService, answer driving.AnswerService) *Session {
	return &Session{
		ingest: ingest,
		answer: answer,
	}
}

// Ingest builds a new index from sources and makes it current on success.
func (s *Session) Ingest(ctx context.Context, sources []domain.SourceDescriptor) (*driving.IngestResult, error) {
	result, err := s.ingest.Ingest(ctx, sources)
	if err != nil {
		return result, err
	}
	s.current.Store(&snapshot{index: result.Index, stats: result.Stats})
	return result, nil
}

// Ask answers query against the current index.
// Returns domain.ErrIndexUnavailable until an ingestion has succeeded.
func (s *Session) Ask(ctx context.Context, query string) (*domain.AnswerPacket, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return s.answer.Answer(ctx, snap.index, query)
}

// Ready reports whether an index has been built.
func (s *Session) Ready() bool {
	return s.current.Load() != nil
}

// Index returns the current index, or nil before the first ingestion.
func (s *Session) Index() driven.VectorIndex {
	if snap := s.current.Load(); snap != nil {
		return snap.index
	}
	return nil
}

// Stats returns the statistics of the batch behind the current index.
func (s *Session) Stats() (domain.IngestStats, bool) {
	if snap := s.current.Load(); snap != nil {
		return snap.stats, true
	}
	return domain.IngestStats{}, false
}

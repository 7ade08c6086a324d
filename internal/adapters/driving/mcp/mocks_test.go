package mcp

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// mockSession is a mock implementation of driving.Session.
type mockSession struct {
	result    *driving.IngestResult
	ingestErr error
	packet    *domain.AnswerPacket
	askErr    error
	stats     *domain.IngestStats

	ingested []domain.SourceDescriptor
	asked    string
}

func (m *mockSession) Ingest(
	_ context.Context,
	sources []domain.SourceDescriptor,
) (*driving.IngestResult, error) {
	m.ingested = sources
	return m.result, m.ingestErr
}

func (m *mockSession) Ask(_ context.Context, query string) (*domain.AnswerPacket, error) {
	m.asked = query
	return m.packet, m.askErr
}

func (m *mockSession) Ready() bool {
	return m.stats != nil
}

func (m *mockSession) Stats() (domain.IngestStats, bool) {
	if m.stats == nil {
		return domain.IngestStats{}, false
	}
	return *m.stats, true
}

// mockHistory is a mock implementation of driving.HistoryService.
type mockHistory struct {
	exchanges []domain.Exchange
	err       error
}

func (m *mockHistory) Record(_ context.Context, query, answer string) error {
	if m.err != nil {
		return m.err
	}
	m.exchanges = append(m.exchanges, domain.Exchange{Query: query, Answer: answer})
	return nil
}

func (m *mockHistory) List(_ context.Context) ([]domain.Exchange, error) {
	return m.exchanges, m.err
}

func (m *mockHistory) Reset(_ context.Context) error {
	m.exchanges = nil
	return m.err
}

package tui

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// mockSession implements driving.Session for TUI tests.
type mockSession struct {
	packet *domain.AnswerPacket
	err    error
	stats  *domain.IngestStats
}

func (m *mockSession) Ingest(context.Context, []domain.SourceDescriptor) (*driving.IngestResult, error) {
	return nil, nil
}

func (m *mockSession) Ask(context.Context, string) (*domain.AnswerPacket, error) {
	return m.packet, m.err
}

func (m *mockSession) Ready() bool { return m.stats != nil }

func (m *mockSession) Stats() (domain.IngestStats, bool) {
	if m.stats == nil {
		return domain.IngestStats{}, false
	}
	return *m.stats, true
}

// mockHistory implements driving.HistoryService for TUI tests.
type mockHistory struct {
	exchanges []domain.Exchange
}

func (m *mockHistory) Record(_ context.Context, query, answer string) error {
	m.exchanges = append(m.exchanges, domain.Exchange{Query: query, Answer: answer})
	return nil
}

func (m *mockHistory) List(context.Context) ([]domain.Exchange, error) {
	return m.exchanges, nil
}

func (m *mockHistory) Reset(context.Context) error {
	m.exchanges = nil
	return nil
}

package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps chat exchanges for the lifetime of the process.
type HistoryStore struct {
	mu        sync.RWMutex
	exchanges []domain.Exchange
}

// NewHistoryStore creates an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Append records an exchange.
func (s *HistoryStore) Append(ctx context.Context, exchange domain.Exchange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = append(s.exchanges, exchange)
	return nil
}

// List returns a copy of the exchanges, oldest first.
func (s *HistoryStore) List(ctx context.Context) ([]domain.Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out, nil
}

// Reset removes every exchange.
func (s *HistoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exchanges = nil
	return nil
}

// Close releases resources.
func (s *HistoryStore) Close() error {
	return nil
}

package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService records question and answer pairs for the chat surfaces.
type HistoryService struct {
	store driven.HistoryStore
	now   func() time.Time
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.HistoryStore) *HistoryService {
	return &HistoryService{
		store: store,
		now:   time.Now,
	}
}

// Record appends a question and its answer.
func (s *HistoryService) Record(ctx context.Context, query, answer string) error {
	if strings.TrimSpace(query) == "" {
		return domain.ErrInvalidInput
	}
	return s.store.Append(ctx, domain.Exchange{
		ID:        uuid.New().String(),
		Query:     query,
		Answer:    answer,
		CreatedAt: s.now().UTC(),
	})
}

// List returns the conversation oldest first.
func (s *HistoryService) List(ctx context.Context) ([]domain.Exchange, error) {
	return s.store.List(ctx)
}

// Reset clears the conversation.
func (s *HistoryService) Reset(ctx context.Context) error {
	return s.store.Reset(ctx)
}

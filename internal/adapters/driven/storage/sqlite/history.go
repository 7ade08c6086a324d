package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Append records an exchange.
func (h *historyStore) Append(ctx context.Context, exchange domain.Exchange) error {
	_, err := h.store.db.ExecContext(ctx, `
		INSERT INTO exchanges (id, query, answer, created_at)
		VALUES (?, ?, ?, ?)
	`, exchange.ID, exchange.Query, exchange.Answer, exchange.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// List returns exchanges in insertion order.
func (h *historyStore) List(ctx context.Context) ([]domain.Exchange, error) {
	rows, err := h.store.db.QueryContext(ctx, `
		SELECT id, query, answer, created_at FROM exchanges ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var exchanges []domain.Exchange
	for rows.Next() {
		var (
			ex      domain.Exchange
			created int64
		)
		if err := rows.Scan(&ex.ID, &ex.Query, &ex.Answer, &created); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		ex.CreatedAt = time.Unix(0, created).UTC()
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

// Reset removes every exchange.
func (h *historyStore) Reset(ctx context.Context) error {
	if _, err := h.store.db.ExecContext(ctx, "DELETE FROM exchanges"); err != nil {
		return fmt.Errorf("deleting exchanges: %w", err)
	}
	return nil
}

// Close closes the underlying store.
func (h *historyStore) Close() error {
	return h.store.Close()
}

package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

func TestHistoryStore_AppendListReset(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	first := domain.Exchange{ID: "1", Query: "What is the capital of France?", Answer: "Paris.", CreatedAt: time.Now()}
	second := domain.Exchange{ID: "2", Query: "And of Spain?", Answer: domain.RefusalAnswer, CreatedAt: time.Now()}
	require.NoError(t, store.Append(ctx, first))
	require.NoError(t, store.Append(ctx, second))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Exchange{first, second}, list)

	require.NoError(t, store.Reset(ctx))
	list, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistoryStore_ListReturnsCopy(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()
	require.NoError(t, store.Append(ctx, domain.Exchange{ID: "1", Query: "q"}))

	list, err := store.List(ctx)
	require.NoError(t, err)
	list[0].Query = "mutated"

	again, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "q", again[0].Query)
}

func TestHistoryStore_CancelledContext(t *testing.T) {
	store := NewHistoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Append(ctx, domain.Exchange{ID: "1"}), context.Canceled)
	_, err := store.List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func exchange(i int) domain.Exchange {
	return domain.Exchange{
		ID:        fmt.Sprintf("ex-%d", i),
		Query:     fmt.Sprintf("question %d", i),
		Answer:    fmt.Sprintf("answer %d", i),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC),
	}
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	store := setupTestStore(t)

	var version int
	err := store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestNewStore_ReopenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.HistoryStore().Append(ctx, exchange(1)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	list, err := reopened.HistoryStore().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, exchange(1), list[0])
}

func TestHistoryStore_AppendList_PreservesOrder(t *testing.T) {
	history := setupTestStore(t).HistoryStore()
	ctx := context.Background()

	for _, i := range []int{3, 1, 2} {
		require.NoError(t, history.Append(ctx, exchange(i)))
	}

	list, err := history.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "ex-3", list[0].ID)
	assert.Equal(t, "ex-1", list[1].ID)
	assert.Equal(t, "ex-2", list[2].ID)
}

func TestHistoryStore_DuplicateID(t *testing.T) {
	history := setupTestStore(t).HistoryStore()
	ctx := context.Background()

	require.NoError(t, history.Append(ctx, exchange(1)))
	assert.Error(t, history.Append(ctx, exchange(1)))
}

func TestHistoryStore_Reset(t *testing.T) {
	history := setupTestStore(t).HistoryStore()
	ctx := context.Background()

	require.NoError(t, history.Append(ctx, exchange(1)))
	require.NoError(t, history.Reset(ctx))

	list, err := history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistoryStore_ListEmpty(t *testing.T) {
	list, err := setupTestStore(t).HistoryStore().List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMigrate_AppliesPendingInOrder(t *testing.T) {
	store := setupTestStore(t)
	fsys := fstest.MapFS{
		"003_notes.up.sql":   {Data: []byte("CREATE TABLE notes (id TEXT PRIMARY KEY, body TEXT)")},
		"002_tags.up.sql":    {Data: []byte("CREATE TABLE tags (name TEXT PRIMARY KEY)")},
		"002_tags.down.sql":  {Data: []byte("DROP TABLE tags")},
		"001_history.up.sql": {Data: []byte("this would fail if it ran again")},
		"README.md":          {Data: []byte("not a migration")},
	}

	require.NoError(t, store.migrate(t.Context(), fsys))

	var versions []int
	rows, err := store.db.Query("SELECT version FROM schema_migrations ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var v int
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []int{1, 2, 3}, versions)
}

func TestMigrate_FailedScriptIsNotRecorded(t *testing.T) {
	store := setupTestStore(t)
	fsys := fstest.MapFS{
		"002_broken.up.sql": {Data: []byte("CREATE TABLE broken (")},
	}

	err := store.migrate(t.Context(), fsys)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_broken.up.sql")
	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

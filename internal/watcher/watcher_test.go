package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("no paths", func(t *testing.T) {
		w, err := New(nil, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrNoPaths)
		assert.Nil(t, w)
	})

	t.Run("watches each parent directory once", func(t *testing.T) {
		dir := t.TempDir()
		w, err := New([]string{
			filepath.Join(dir, "a.txt"),
			filepath.Join(dir, "b.csv"),
		}, func(context.Context) error { return nil })
		require.NoError(t, err)
		assert.Len(t, w.files, 2)
		assert.Len(t, w.dirs, 1)
		assert.Equal(t, DefaultDebounce, w.debounce)
	})

	t.Run("debounce option", func(t *testing.T) {
		w, err := New([]string{"x.txt"}, nil, WithDebounce(10*time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, 10*time.Millisecond, w.debounce)
	})
}

func TestWatcher_relevant(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "notes.txt")
	w, err := New([]string{watched}, nil)
	require.NoError(t, err)

	tests := []struct {
		name     string
		path     string
		op       fsnotify.Op
		expected bool
	}{
		{name: "write to watched file", path: watched, op: fsnotify.Write, expected: true},
		{name: "create watched file", path: watched, op: fsnotify.Create, expected: true},
		{name: "remove watched file", path: watched, op: fsnotify.Remove, expected: true},
		{name: "rename watched file", path: watched, op: fsnotify.Rename, expected: true},
		{name: "chmod only", path: watched, op: fsnotify.Chmod, expected: false},
		{name: "write and chmod", path: watched, op: fsnotify.Write | fsnotify.Chmod, expected: true},
		{name: "sibling file", path: filepath.Join(dir, "other.txt"), op: fsnotify.Write, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := fsnotify.Event{Name: tt.path, Op: tt.op}
			assert.Equal(t, tt.expected, w.relevant(event))
		})
	}
}

func TestWatcher_Run_RebuildsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("initial"), 0o600))

	rebuilt := make(chan struct{}, 4)
	w, err := New([]string{path}, func(context.Context) error {
		rebuilt <- struct{}{}
		return nil
	}, WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.WriteFile(path, []byte("modified"), 0o600) //nolint:errcheck
	}()

	select {
	case <-rebuilt:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for rebuild")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}
}

func TestWatcher_Run_NotifiesFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n1\n"), 0o600))

	failure := errors.New("no content extracted")
	results := make(chan error, 4)
	w, err := New([]string{path}, func(context.Context) error {
		return failure
	}, WithDebounce(20*time.Millisecond), WithNotify(func(err error) {
		results <- err
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx) //nolint:errcheck

	go func() {
		time.Sleep(100 * time.Millisecond)
		os.Remove(path) //nolint:errcheck
	}()

	select {
	case err := <-results:
		assert.ErrorIs(t, err, failure)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for notification")
	}
}

func TestWatcher_Run_MissingDirectory(t *testing.T) {
	w, err := New([]string{"/non/existent/dir/file.txt"}, func(context.Context) error { return nil })
	require.NoError(t, err)

	err = w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch")
}

func TestWatcher_Run_AfterClose(t *testing.T) {
	w, err := New([]string{filepath.Join(t.TempDir(), "a.txt")}, func(context.Context) error { return nil })
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	err = w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

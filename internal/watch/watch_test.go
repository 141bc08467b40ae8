package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDebouncesCatalogChanges(t *testing.T) {
	dir := t.TempDir()
	var fired atomic.Int32

	w := New(dir, 50*time.Millisecond, func() { fired.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "en.json")
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte(`{"a": "x"}`), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	assert.Eventually(t, func() bool { return fired.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), fired.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), 0, func() {})
	assert.Error(t, w.Run(context.Background()))
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant(fsnotify.Event{Name: "/x/en.json", Op: fsnotify.Write}))
	assert.True(t, relevant(fsnotify.Event{Name: "/x/en.json", Op: fsnotify.Remove}))
	assert.False(t, relevant(fsnotify.Event{Name: "/x/en.json", Op: fsnotify.Chmod}))
	assert.False(t, relevant(fsnotify.Event{Name: "/x/en.yaml", Op: fsnotify.Write}))
}

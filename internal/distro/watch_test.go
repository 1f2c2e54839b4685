package distro

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsTrackedFileChanges(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "run.yaml")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(tracked, []byte("a"), 0o644))

	w, err := NewWatcher([]string{tracked})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 4)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(p string) { changed <- p }) }()

	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(tracked, []byte("b"), 0o644))

	select {
	case p := <-changed:
		assert.Equal(t, "run.yaml", filepath.Base(p))
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	_, err := NewWatcher([]string{filepath.Join(t.TempDir(), "nope", "run.yaml")})
	assert.Error(t, err)
}

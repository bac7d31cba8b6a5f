package store

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")

	var calls atomic.Int32
	fw, err := NewFileWatcher(path, func() { calls.Add(1) })
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, NewFileBackend(path).Save(EventsKey, []byte(`[]`)))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestFileWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()

	var calls atomic.Int32
	fw, err := NewFileWatcher(filepath.Join(dir, "events.json"), func() { calls.Add(1) })
	require.NoError(t, err)
	defer fw.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600))

	assert.Never(t, func() bool { return calls.Load() > 0 }, 300*time.Millisecond, 20*time.Millisecond)
}

func TestFileWatcherCloseTwice(t *testing.T) {
	fw, err := NewFileWatcher(filepath.Join(t.TempDir(), "events.json"), func() {})
	require.NoError(t, err)

	assert.NoError(t, fw.Close())
	assert.NoError(t, fw.Close())
}

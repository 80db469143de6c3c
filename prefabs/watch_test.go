package prefabs

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReportsSpecAndScriptEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	spec := filepath.Join(dir, "crawler.yaml")
	script := filepath.Join(dir, "crawler.tengo")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(spec, []byte("name: crawler\n"), 0o644))
	require.NoError(t, os.WriteFile(script, []byte("move = 1\n"), 0o644))

	var seen []string
	assert.Eventually(t, func() bool {
		seen = append(seen, w.Drain()...)
		return slices.Contains(seen, spec) && slices.Contains(seen, script)
	}, 2*time.Second, 20*time.Millisecond)
	assert.NotContains(t, seen, filepath.Join(dir, "notes.txt"))
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
	assert.Empty(t, w.Drain())
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecoverPanic(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cleaned := false
	func() {
		defer RecoverPanic("worker", func() { cleaned = true })
		panic("boom")
	}()
	require.True(t, cleaned)

	matches, err := filepath.Glob(filepath.Join(dir, "vlist-panic-worker-*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "Panic in worker: boom"))
	require.Contains(t, string(data), "Stack Trace:")
}

func TestRecoverPanicWithoutPanic(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cleaned := false
	func() {
		defer RecoverPanic("idle", func() { cleaned = true })
	}()
	require.False(t, cleaned)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

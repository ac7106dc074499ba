package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/vlist/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, project string) *App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cwd := t.TempDir()
	if project != "" {
		require.NoError(t, os.WriteFile(filepath.Join(cwd, "vlist.json"), []byte(project), 0o644))
	}
	cfg, err := config.Load(cwd, false)
	require.NoError(t, err)

	a, err := New(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func TestSource(t *testing.T) {
	a := newApp(t, `{"dataset": {"name": "small", "groups": 3, "items_per_group": 4, "header": true, "page_size": 5}}`)

	require.Len(t, a.Dataset, 3)
	assert.Equal(t, "small-0", a.Dataset[0].Key)

	src := a.Source()
	assert.True(t, src.IsGrouping())
	assert.True(t, src.ShowHeader())
	assert.False(t, src.ShowFooter())
	assert.Equal(t, 5, src.ItemCount())
	assert.True(t, src.HasMore())
}

func TestPositions(t *testing.T) {
	a := newApp(t, `{"dataset": {"name": "positions"}}`)
	ctx := t.Context()

	_, ok, err := a.RestorePosition(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, a.SavePosition(ctx, 42, 410, 1000))
	p, ok, err := a.RestorePosition(ctx, 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, p.Display)
	assert.Equal(t, 410, p.Offset)
	assert.Equal(t, "positions", p.Dataset)

	// The dataset shrank below the saved position.
	_, ok, err = a.RestorePosition(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	// Nothing visible, nothing saved.
	require.NoError(t, a.SavePosition(ctx, -1, 0, 1000))
	p, _, err = a.RestorePosition(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 42, p.Display)
}

func TestPositionsDisabled(t *testing.T) {
	a := newApp(t, `{"options": {"restore_position": false}}`)
	ctx := t.Context()

	require.NoError(t, a.SavePosition(ctx, 3, 3, 10))
	_, ok, err := a.RestorePosition(ctx, 100)
	require.NoError(t, err)
	assert.False(t, ok)

	positions, err := a.Positions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestReload(t *testing.T) {
	a := newApp(t, `{"dataset": {"name": "reload", "grouped": true}}`)
	path := filepath.Join(a.Config.WorkingDir(), "vlist.json")

	changed, err := a.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte(`{"dataset": {"name": "reload", "grouped": true}, "layout": {"snap_points": "far"}}`), 0o644))
	changed, err = a.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "far", a.Config.Layout.SnapPoints)

	require.NoError(t, os.WriteFile(path, []byte(`{"dataset": {"name": "reload", "groups": 2, "items_per_group": 2}}`), 0o644))
	changed, err = a.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Len(t, a.Dataset, 2)

	require.NoError(t, os.WriteFile(path, []byte(`{"layout": {"orientation": "sideways"}}`), 0o644))
	_, err = a.Reload()
	require.Error(t, err)
	assert.Len(t, a.Dataset, 2)
}

package tcellhost

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/vlist/internal/app"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, project string) *app.App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cwd := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cwd, "vlist.json"), []byte(project), 0o644))
	cfg, err := config.Load(cwd, false)
	require.NoError(t, err)
	a, err := app.New(t.Context(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a
}

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(width, height)
	t.Cleanup(s.Fini)
	return s
}

func newViewer(t *testing.T, s tcell.Screen, a *app.App) *Viewer {
	t.Helper()
	v, err := New(s, a)
	require.NoError(t, err)
	v.Resize()
	require.NoError(t, v.err)
	v.Draw()
	return v
}

// row returns the right-trimmed text of row y.
func row(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; {
		primary, combining, _, width := s.GetContent(x, y)
		if primary == 0 {
			primary = ' '
		}
		b.WriteRune(primary)
		for _, r := range combining {
			b.WriteRune(r)
		}
		x += max(width, 1)
	}
	return strings.TrimRight(b.String(), " ")
}

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

const grouped = `{"dataset": {"name": "tc", "groups": 3, "items_per_group": 5}}`

func TestDraw(t *testing.T) {
	s := newScreen(t, 30, 6)
	newViewer(t, s, newApp(t, grouped))

	assert.Equal(t, " Group 0 (5)", row(s, 0))
	assert.Equal(t, "  Group 0 · item 0", row(s, 1))
	assert.Equal(t, "  Group 0 · item 3", row(s, 4))
	assert.True(t, strings.HasPrefix(row(s, 5), " tc  first 1 "), row(s, 5))
}

func TestDrawTruncates(t *testing.T) {
	s := newScreen(t, 12, 3)
	newViewer(t, s, newApp(t, grouped))

	for y := range 2 {
		line := row(s, y)
		assert.LessOrEqual(t, len([]rune(line)), 12)
	}
	assert.True(t, strings.HasSuffix(row(s, 1), "…"), row(s, 1))
}

func TestHandleKey(t *testing.T) {
	s := newScreen(t, 30, 6)
	v := newViewer(t, s, newApp(t, grouped))
	e := v.Engine()

	assert.False(t, v.HandleKey(key(tcell.KeyPgDn)))
	assert.Equal(t, 5, e.ScrollOffset())

	v.HandleKey(runeKey('k'))
	assert.Equal(t, 4, e.ScrollOffset())

	v.HandleKey(key(tcell.KeyEnd))
	assert.Equal(t, v.src.DisplayCount()-1, e.LastVisibleDisplayPosition())

	v.HandleKey(runeKey('g'))
	assert.Zero(t, e.ScrollOffset())
	require.NoError(t, e.CheckInvariants())

	assert.True(t, v.HandleKey(runeKey('q')))
	assert.True(t, v.HandleKey(key(tcell.KeyCtrlC)))
}

func TestToggles(t *testing.T) {
	s := newScreen(t, 60, 6)
	v := newViewer(t, s, newApp(t, grouped))
	v.ScrollBy(7)
	first := v.Engine().FirstVisibleDisplayPosition()

	v.HandleKey(runeKey('s'))
	assert.False(t, v.app.Config.StickyHeaders())
	assert.Equal(t, first, v.Engine().FirstVisibleDisplayPosition())

	v.HandleKey(runeKey('n'))
	assert.Equal(t, layout.SnapNear.String(), v.app.Config.Layout.SnapPoints)

	v.Draw()
	assert.Contains(t, row(s, 5), "sticky off")

	// Both toggles were persisted.
	v.Reload()
	require.NoError(t, v.err)
	assert.False(t, v.app.Config.StickyHeaders())
	assert.Equal(t, layout.SnapNear.String(), v.app.Config.Layout.SnapPoints)
	assert.Equal(t, first, v.Engine().FirstVisibleDisplayPosition())
}

func TestHandleMouse(t *testing.T) {
	s := newScreen(t, 30, 6)
	v := newViewer(t, s, newApp(t, grouped))

	v.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, wheelStep, v.Engine().ScrollOffset())
	v.HandleMouse(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.Zero(t, v.Engine().ScrollOffset())
}

func TestHorizontal(t *testing.T) {
	s := newScreen(t, 40, 4)
	v := newViewer(t, s, newApp(t, `{"layout": {"orientation": "horizontal"}, "dataset": {"name": "tc", "groups": 1, "items_per_group": 20, "grouped": false}}`))

	assert.Equal(t, layout.Horizontal, v.Engine().Orientation())
	assert.True(t, strings.HasPrefix(row(s, 0), "  All · item 0"), row(s, 0))

	v.HandleKey(key(tcell.KeyRight))
	assert.Equal(t, 1, v.Engine().ScrollOffset())
	require.NoError(t, v.Engine().CheckInvariants())
}

func TestPaging(t *testing.T) {
	s := newScreen(t, 30, 6)
	v := newViewer(t, s, newApp(t, `{"dataset": {"name": "tc", "groups": 1, "items_per_group": 100, "grouped": false, "page_size": 10, "page_threshold": 2}}`))
	require.Equal(t, 10, v.src.ItemCount())

	v.ScrollBy(6)
	assert.Equal(t, 20, v.src.ItemCount())
	require.NoError(t, v.Engine().CheckInvariants())
}

func TestLoop(t *testing.T) {
	a := newApp(t, grouped)
	s := newScreen(t, 30, 6)

	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Loop(ctx, s, a)
	}()

	s.InjectKey(tcell.KeyPgDn, 0, tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("loop did not quit")
	}

	p, ok, err := a.RestorePosition(t.Context(), 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Positive(t, p.Display)
	assert.Equal(t, "tc", p.Dataset)
}

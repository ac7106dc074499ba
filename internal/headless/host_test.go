package headless_test

import (
	"errors"
	"testing"

	"github.com/charmbracelet/vlist/internal/headless"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/stretchr/testify/require"
)

func newHost(opts ...headless.Option) *headless.Host {
	src := source.New([]source.Group{{Title: "G", Size: 10}}, source.WithGrouping(true))
	return headless.New(src, opts...)
}

func TestMaterialize(t *testing.T) {
	t.Parallel()

	h := newHost()

	header, err := h.Materialize(0, layout.GroupHeaderView)
	require.NoError(t, err)
	require.Equal(t, "G (10)", header.Text)

	el, err := h.Materialize(3, layout.ItemView)
	require.NoError(t, err)
	require.Equal(t, layout.Index{Row: 2}, el.Index)
	require.Equal(t, "G · item 2", el.Text)
	require.True(t, h.Live(el))

	_, err = h.Materialize(99, layout.ItemView)
	require.ErrorIs(t, err, headless.ErrUnknownPosition)

	stats := h.Stats()
	require.Equal(t, 2, stats.Materialized)
	require.Equal(t, 2, stats.Created)
	require.Equal(t, 2, stats.Live)
}

func TestReuse(t *testing.T) {
	t.Parallel()

	t.Run("released elements are recycled", func(t *testing.T) {
		t.Parallel()
		h := newHost()
		el, err := h.Materialize(1, layout.ItemView)
		require.NoError(t, err)
		h.Release(el, false)
		require.False(t, h.Live(el))

		again, err := h.Materialize(5, layout.ItemView)
		require.NoError(t, err)
		require.Same(t, el, again)
		require.Equal(t, 5, again.Display)
		require.Equal(t, 1, h.Stats().Recycled)
		require.Equal(t, 1, h.Stats().Created)
	})

	t.Run("detached elements come back for the same position", func(t *testing.T) {
		t.Parallel()
		h := newHost()
		a, err := h.Materialize(1, layout.ItemView)
		require.NoError(t, err)
		b, err := h.Materialize(2, layout.ItemView)
		require.NoError(t, err)
		h.Release(a, true)
		h.Release(b, true)

		got, err := h.Materialize(2, layout.ItemView)
		require.NoError(t, err)
		require.Same(t, b, got)
		require.Equal(t, 1, h.Stats().DetachedReuse)

		// Another position steals the lowest detached element.
		got, err = h.Materialize(7, layout.ItemView)
		require.NoError(t, err)
		require.Same(t, a, got)
		require.Equal(t, 1, h.Stats().Recycled)
		require.Equal(t, 2, h.Stats().Detached)
	})

	t.Run("detached element of another kind is not reused in place", func(t *testing.T) {
		t.Parallel()
		h := newHost()
		el, err := h.Materialize(0, layout.GroupHeaderView)
		require.NoError(t, err)
		h.Release(el, true)

		got, err := h.Materialize(0, layout.ItemView)
		require.NoError(t, err)
		require.Same(t, el, got)
		require.Zero(t, h.Stats().DetachedReuse)
		require.Equal(t, layout.ItemView, got.Kind)
	})
}

func TestRebind(t *testing.T) {
	t.Parallel()

	h := newHost()
	el, err := h.Materialize(1, layout.ItemView)
	require.NoError(t, err)

	require.NoError(t, h.Rebind(el, 4))
	require.Equal(t, 4, el.Display)
	require.Equal(t, "G · item 3", el.Text)
	require.Equal(t, 1, h.Stats().Rebound)

	require.ErrorIs(t, h.Rebind(el, 50), headless.ErrUnknownPosition)
}

func TestArrange(t *testing.T) {
	t.Parallel()

	h := newHost()
	el, err := h.Materialize(1, layout.ItemView)
	require.NoError(t, err)
	frame := layout.Rect{X: 2, Y: 3, Width: 10, Height: 1}
	h.Arrange(el, frame)
	require.Equal(t, frame, el.Frame)
	require.Equal(t, 1, h.Stats().Arranged)
}

func TestFixedExtent(t *testing.T) {
	t.Parallel()

	vertical := headless.FixedExtent(layout.Vertical, 3, map[layout.ViewType]int{
		layout.GroupHeaderView: 1,
	})
	require.Equal(t, layout.Size{Width: 20, Height: 3},
		vertical(source.Entry{Kind: layout.ItemView}, layout.Size{Width: 20, Height: layout.Unbounded}))
	require.Equal(t, layout.Size{Width: 20, Height: 1},
		vertical(source.Entry{Kind: layout.GroupHeaderView}, layout.Size{Width: 20, Height: layout.Unbounded}))

	// Unbounded breadth falls back to the display width of the text.
	require.Equal(t, layout.Size{Width: 6, Height: 3},
		vertical(source.Entry{Kind: layout.ItemView, Text: "日本語"}, layout.Size{Width: layout.Unbounded, Height: layout.Unbounded}))

	horizontal := headless.FixedExtent(layout.Horizontal, 8, nil)
	require.Equal(t, layout.Size{Width: 8, Height: 4},
		horizontal(source.Entry{Kind: layout.ItemView}, layout.Size{Width: layout.Unbounded, Height: 4}))
}

func TestFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	h := newHost(headless.WithFailure(func(display int, kind layout.ViewType) error {
		if display == 2 {
			return boom
		}
		return nil
	}))

	_, err := h.Materialize(1, layout.ItemView)
	require.NoError(t, err)
	_, err = h.Materialize(2, layout.ItemView)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, h.Stats().Materialized)
}

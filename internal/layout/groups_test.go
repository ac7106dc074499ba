package layout_test

import (
	"testing"

	"github.com/charmbracelet/vlist/internal/headless"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/stretchr/testify/require"
)

// grouped builds groups of the given sizes, with 10-cell items and headers.
func grouped(t testing.TB, viewport int, sizes []int, opts ...layout.Option) *harness {
	t.Helper()
	groups := make([]source.Group, len(sizes))
	for i, n := range sizes {
		groups[i] = source.Group{Title: groupTitle(i), Size: n}
	}
	return newHarness(t, source.New(groups, source.WithGrouping(true)), harnessConfig{
		size:     headless.FixedExtent(layout.Vertical, 10, nil),
		viewport: layout.Size{Width: 40, Height: viewport},
		opts:     opts,
	})
}

func groupTitle(i int) string {
	return "Group " + string(rune('A'+i))
}

func (h *harness) groupHeaders() map[int]layout.Rect {
	out := make(map[int]layout.Rect)
	for _, p := range h.placements(layout.GroupHeaderView) {
		out[p.Index.Group] = p.Frame
	}
	return out
}

func TestGroupedFill(t *testing.T) {
	t.Parallel()

	h := grouped(t, 200, []int{5, 0, 5})

	require.Equal(t, map[int]layout.Rect{
		0: {Y: 0, Width: 40, Height: 10},
		1: {Y: 60, Width: 40, Height: 10},
		2: {Y: 70, Width: 40, Height: 10},
	}, h.groupHeaders())

	items := h.placements(layout.ItemView)
	require.Len(t, items, 10)
	require.Equal(t, layout.Index{Group: 0, Row: 0}, items[0].Index)
	require.Equal(t, 10, items[0].Frame.Y)
	require.Equal(t, layout.Index{Group: 2, Row: 0}, items[5].Index)
	require.Equal(t, 80, items[5].Frame.Y)
	require.Equal(t, 1, items[0].DisplayIndex)
	require.Equal(t, 8, items[5].DisplayIndex)

	stats := h.engine.Stats()
	require.Equal(t, 3, stats.GroupHeaders)
	require.Equal(t, 3, stats.Groups)
	h.requireConsistent(t)
}

func TestGroupedTrailingEmptyGroups(t *testing.T) {
	t.Parallel()

	h := grouped(t, 200, []int{3, 0, 0})

	require.Equal(t, map[int]layout.Rect{
		0: {Y: 0, Width: 40, Height: 10},
		1: {Y: 40, Width: 40, Height: 10},
		2: {Y: 50, Width: 40, Height: 10},
	}, h.groupHeaders())
	h.requireConsistent(t)
}

func TestGroupedLeadingEmptyGroups(t *testing.T) {
	t.Parallel()

	h := grouped(t, 200, []int{0, 0, 3})

	require.Equal(t, map[int]layout.Rect{
		0: {Y: 0, Width: 40, Height: 10},
		1: {Y: 10, Width: 40, Height: 10},
		2: {Y: 20, Width: 40, Height: 10},
	}, h.groupHeaders())
	items := h.placements(layout.ItemView)
	require.Len(t, items, 3)
	require.Equal(t, 30, items[0].Frame.Y)
	h.requireConsistent(t)
}

func TestStickyHeaders(t *testing.T) {
	t.Parallel()

	t.Run("header of the only visible group is pinned", func(t *testing.T) {
		t.Parallel()
		h := grouped(t, 50, []int{5, 5, 5}, layout.WithStickyHeaders(true))

		// Group 2 starts at 120 and its items fill [130, 180).
		actual, err := h.engine.ScrollBy(130)
		require.NoError(t, err)
		require.Equal(t, 130, actual)

		items := h.placements(layout.ItemView)
		require.Len(t, items, 5)
		for i, p := range items {
			require.Equal(t, layout.Index{Group: 2, Row: i}, p.Index)
			require.Equal(t, i*10, p.Frame.Y)
		}
		require.Equal(t, map[int]layout.Rect{
			2: {Y: 0, Width: 40, Height: 10},
		}, h.groupHeaders())
		h.requireConsistent(t)
	})

	t.Run("next group pushes the pinned header out", func(t *testing.T) {
		t.Parallel()
		h := grouped(t, 50, []int{5, 5, 5}, layout.WithStickyHeaders(true))

		_, err := h.engine.ScrollBy(55)
		require.NoError(t, err)

		// Group 0 ends at 60, so only 5 cells of its header fit.
		headers := h.groupHeaders()
		require.Equal(t, -5, headers[0].Y)
		require.Equal(t, 5, headers[1].Y)
		h.requireConsistent(t)
	})

	t.Run("scrolling back restores headers to their groups", func(t *testing.T) {
		t.Parallel()
		h := grouped(t, 50, []int{5, 5, 5}, layout.WithStickyHeaders(true))

		_, err := h.engine.ScrollBy(25)
		require.NoError(t, err)
		require.Equal(t, 0, h.groupHeaders()[0].Y)

		_, err = h.engine.ScrollBy(-25)
		require.NoError(t, err)
		require.Equal(t, 0, h.groupHeaders()[0].Y)
		require.Equal(t, 10, h.placements(layout.ItemView)[0].Frame.Y)
	})
}

func TestNonStickyHeaders(t *testing.T) {
	t.Parallel()

	h := grouped(t, 50, []int{5, 5, 5})

	_, err := h.engine.ScrollBy(130)
	require.NoError(t, err)
	require.Equal(t, map[int]layout.Rect{
		2: {Y: -10, Width: 40, Height: 10},
	}, h.groupHeaders())
	h.requireConsistent(t)
}

func TestAdjacentHeaders(t *testing.T) {
	t.Parallel()

	size := func(entry source.Entry, constraint layout.Size) layout.Size {
		if entry.Kind == layout.GroupHeaderView {
			return layout.Size{Width: 8, Height: 10}
		}
		return layout.Size{Width: constraint.Width, Height: 10}
	}
	src := source.New(source.Generate("adj", 3, 3), source.WithGrouping(true))
	h := newHarness(t, src, harnessConfig{
		size:     size,
		viewport: layout.Size{Width: 40, Height: 50},
		opts:     []layout.Option{layout.WithHeaderPlacement(layout.PlacementAdjacent)},
	})

	require.Equal(t, map[int]layout.Rect{
		0: {X: 0, Y: 0, Width: 8, Height: 10},
		1: {X: 0, Y: 30, Width: 8, Height: 10},
	}, h.groupHeaders())

	items := h.placements(layout.ItemView)
	require.Len(t, items, 5)
	require.Equal(t, layout.Rect{X: 8, Y: 0, Width: 32, Height: 10}, items[0].Frame)
	require.Equal(t, layout.Rect{X: 8, Y: 30, Width: 32, Height: 10}, items[3].Frame)
	h.requireConsistent(t)

	_, err := h.engine.ScrollBy(1000)
	require.NoError(t, err)
	items = h.placements(layout.ItemView)
	require.Equal(t, layout.Index{Group: 2, Row: 2}, items[len(items)-1].Index)
	require.Equal(t, 40, items[len(items)-1].Frame.Y)
	h.requireConsistent(t)
}

func TestGridStrategy(t *testing.T) {
	t.Parallel()

	h := newHarness(t, source.New([]source.Group{{Size: 10}}), harnessConfig{
		size:     headless.FixedExtent(layout.Vertical, 10, nil),
		viewport: layout.Size{Width: 30, Height: 20},
		strategy: layout.Grid[*headless.Element](3),
	})

	items := h.placements(layout.ItemView)
	require.Equal(t, span(0, 5), h.itemDisplays())
	for i, p := range items {
		require.Equal(t, layout.Rect{X: (i % 3) * 10, Y: (i / 3) * 10, Width: 10, Height: 10}, p.Frame)
	}

	// Four rows of 10 in a 20 viewport.
	actual, err := h.engine.ScrollBy(40)
	require.NoError(t, err)
	require.Equal(t, 20, actual)
	require.Equal(t, span(6, 9), h.itemDisplays())
	h.requireConsistent(t)

	actual, err = h.engine.ScrollBy(-20)
	require.NoError(t, err)
	require.Equal(t, -20, actual)
	require.Equal(t, span(0, 5), h.itemDisplays())
	h.requireConsistent(t)
}

func TestGridKeepsWholeLine(t *testing.T) {
	t.Parallel()

	h := newHarness(t, source.New([]source.Group{{Size: 9}}), harnessConfig{
		size:     headless.FixedExtent(layout.Vertical, 30, nil),
		viewport: layout.Size{Width: 30, Height: 10},
		strategy: layout.Grid[*headless.Element](3),
	})

	_, err := h.engine.ScrollBy(15)
	require.NoError(t, err)
	require.Equal(t, span(0, 2), h.itemDisplays())

	_, err = h.engine.ScrollBy(20)
	require.NoError(t, err)
	require.Equal(t, span(3, 5), h.itemDisplays())
	h.requireConsistent(t)
}

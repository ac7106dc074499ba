package layout_test

import (
	"testing"

	"github.com/charmbracelet/vlist/internal/headless"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/stretchr/testify/require"
)

func firstItem(t testing.TB, h *harness) layout.Placement[*headless.Element] {
	t.Helper()
	items := h.placements(layout.ItemView)
	require.NotEmpty(t, items)
	return items[0]
}

func TestRemoveAnchorGroup(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5})

	// Group 1 spans [60, 120); its second item lands at the top.
	_, err := h.engine.ScrollBy(80)
	require.NoError(t, err)
	anchor := firstItem(t, h)
	require.Equal(t, layout.Index{Group: 1, Row: 1}, anchor.Index)
	require.Equal(t, 0, anchor.Frame.Y)

	op, err := h.src.RemoveGroup(1)
	require.NoError(t, err)
	h.engine.NotifyGroupOperation(op)
	require.NoError(t, h.engine.Layout())

	first := firstItem(t, h)
	require.Equal(t, layout.Index{Group: 1, Row: 0}, first.Index)
	require.Equal(t, groupTitle(2)+" · item 0", first.Element.Text)
	require.Equal(t, anchor.Frame.Y, first.Frame.Y)
	require.Equal(t, 80, h.engine.ScrollOffset())
	require.Equal(t, 7, h.engine.FirstVisibleDisplayPosition())
	h.requireConsistent(t)

	// The rebuild went through detach, so the host got its elements back.
	require.Positive(t, h.host.Stats().Detached)
	require.Positive(t, h.host.Stats().DetachedReuse)
}

func TestRemoveGroupBeforeAnchor(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5})
	_, err := h.engine.ScrollBy(80)
	require.NoError(t, err)
	anchor := firstItem(t, h)
	anchorText := anchor.Element.Text

	op, err := h.src.RemoveGroup(0)
	require.NoError(t, err)
	h.engine.NotifyGroupOperation(op)
	require.NoError(t, h.engine.Layout())

	first := firstItem(t, h)
	require.Equal(t, layout.Index{Group: 0, Row: 1}, first.Index)
	require.Equal(t, anchorText, first.Element.Text)
	require.Equal(t, anchor.Frame.Y, first.Frame.Y)
	h.requireConsistent(t)
}

func TestInsertGroupBeforeAnchor(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5})
	_, err := h.engine.ScrollBy(80)
	require.NoError(t, err)
	anchor := firstItem(t, h)
	anchorText := anchor.Element.Text

	op, err := h.src.InsertGroup(0, source.Group{Title: "Inserted", Size: 2})
	require.NoError(t, err)
	h.engine.NotifyGroupOperation(op)
	require.NoError(t, h.engine.Layout())

	first := firstItem(t, h)
	require.Equal(t, layout.Index{Group: 2, Row: 1}, first.Index)
	require.Equal(t, anchorText, first.Element.Text)
	require.Equal(t, anchor.Frame.Y, first.Frame.Y)
	require.Equal(t, 80, h.engine.ScrollOffset())
	h.requireConsistent(t)
}

func TestInsertGroupAfterAnchor(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5})
	_, err := h.engine.ScrollBy(80)
	require.NoError(t, err)
	before := h.snapshot()

	op, err := h.src.InsertGroup(3, source.Group{Title: "Tail", Size: 4})
	require.NoError(t, err)
	h.engine.NotifyGroupOperation(op)
	require.NoError(t, h.engine.Layout())

	require.Equal(t, before, h.snapshot())
	h.requireConsistent(t)
}

func TestAnchorGone(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5})
	_, err := h.engine.ScrollBy(140)
	require.NoError(t, err)
	require.Equal(t, 2, firstItem(t, h).Index.Group)

	for _, g := range []int{2, 1} {
		op, err := h.src.RemoveGroup(g)
		require.NoError(t, err)
		h.engine.NotifyGroupOperation(op)
	}
	require.NoError(t, h.engine.Layout())

	require.Zero(t, h.engine.ScrollOffset())
	first := firstItem(t, h)
	require.Equal(t, layout.Index{}, first.Index)
	require.Equal(t, 10, first.Frame.Y)
	require.Equal(t, map[int]layout.Rect{
		0: {Y: 0, Width: 40, Height: 10},
	}, h.groupHeaders())
	h.requireConsistent(t)
}

func TestResizeKeepsAnchor(t *testing.T) {
	t.Parallel()

	h := rows(t, 1000, 50)
	_, err := h.engine.ScrollBy(5000)
	require.NoError(t, err)

	_, err = h.engine.Measure(layout.Size{Width: 60, Height: 300})
	require.NoError(t, err)
	require.NoError(t, h.engine.Layout())

	require.Equal(t, span(100, 105), h.itemDisplays())
	require.Equal(t, layout.Rect{Y: 0, Width: 60, Height: 50}, firstItem(t, h).Frame)
	require.Equal(t, 5000, h.engine.ScrollOffset())
	require.Equal(t, 6, h.host.Stats().DetachedReuse)
	h.requireConsistent(t)
}

func TestResizeWithHeaderAtTop(t *testing.T) {
	t.Parallel()

	src := source.New([]source.Group{{Size: 100}}, source.WithHeader(true))
	h := newHarness(t, src, harnessConfig{
		size: headless.FixedExtent(layout.Vertical, 50, map[layout.ViewType]int{
			layout.HeaderView: 30,
		}),
		viewport: layout.Size{Width: 40, Height: 500},
	})
	before := h.snapshot()

	_, err := h.engine.Measure(layout.Size{Width: 40, Height: 500})
	require.NoError(t, err)
	require.Equal(t, before, h.snapshot())
	h.requireConsistent(t)
}

func TestClosesGapAtEnd(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5, 1})
	_, err := h.engine.ScrollBy(1000)
	require.NoError(t, err)
	require.Equal(t, 170, h.engine.ScrollOffset())

	op, err := h.src.RemoveGroup(3)
	require.NoError(t, err)
	h.engine.NotifyGroupOperation(op)
	require.NoError(t, h.engine.Layout())

	// The last item is pulled back down to the bottom edge.
	require.Equal(t, 150, h.engine.ScrollOffset())
	items := h.placements(layout.ItemView)
	require.Len(t, items, 3)
	require.Equal(t, layout.Index{Group: 2, Row: 2}, items[0].Index)
	require.Equal(t, 0, items[0].Frame.Y)
	require.Equal(t, layout.Index{Group: 2, Row: 4}, items[2].Index)
	require.Equal(t, 20, items[2].Frame.Y)
	h.requireConsistent(t)
}

func TestRemoveGroupAboveAnchorRebasesOffset(t *testing.T) {
	t.Parallel()

	h := grouped(t, 30, []int{5, 5, 5})
	_, err := h.engine.ScrollBy(20)
	require.NoError(t, err)

	op, err := h.src.RemoveGroup(0)
	require.NoError(t, err)
	h.engine.NotifyGroupOperation(op)
	require.NoError(t, h.engine.Layout())

	first := firstItem(t, h)
	require.Equal(t, layout.Index{}, first.Index)
	require.Equal(t, 0, first.Frame.Y)
	// Only the group header of the new first group sits above the anchor.
	require.Equal(t, 10, h.engine.ScrollOffset())

	actual, err := h.engine.ScrollBy(-1000)
	require.NoError(t, err)
	require.Equal(t, -10, actual)
	require.Zero(t, h.engine.ScrollOffset())
	require.False(t, h.engine.CanScroll(layout.Back))
	require.Equal(t, 10, firstItem(t, h).Frame.Y)
	require.Equal(t, 0, h.groupHeaders()[0].Y)
	require.Equal(t, 2*60, h.engine.ScrollRange())
	h.requireConsistent(t)
}

package source_test

import (
	"fmt"
	"testing"

	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Parallel()

	src := source.New([]source.Group{
		{Title: "A", Size: 2},
		{Title: "B", Size: 0},
		{Title: "C", Size: 3},
	}, source.WithGrouping(true), source.WithHeader(true), source.WithFooter(true))

	require.Equal(t, 5, src.ItemCount())
	require.Equal(t, 3, src.GroupCount())
	require.Equal(t, 10, src.DisplayCount())

	require.Equal(t, 2, src.GroupHeaderDisplayIndex(0))
	require.Equal(t, 5, src.GroupHeaderDisplayIndex(1))
	require.Equal(t, 6, src.GroupHeaderDisplayIndex(2))
	require.Equal(t, -1, src.GroupHeaderDisplayIndex(3))

	require.Equal(t, 3, src.FlattenIndex(layout.Index{Group: 0, Row: 0}))
	require.Equal(t, 4, src.FlattenIndex(layout.Index{Group: 0, Row: 1}))
	require.Equal(t, 7, src.FlattenIndex(layout.Index{Group: 2, Row: 0}))
	require.Equal(t, 9, src.FlattenIndex(layout.Index{Group: 2, Row: 2}))
	require.Equal(t, -1, src.FlattenIndex(layout.Index{Group: 5}))

	require.Equal(t, 2, src.Ordinal(layout.Index{Group: 2, Row: 0}))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	src := source.New([]source.Group{
		{Title: "A", Size: 2},
		{Title: "B", Size: 0},
		{Title: "C", Size: 3},
	}, source.WithGrouping(true), source.WithHeader(true), source.WithFooter(true))

	want := []source.Entry{
		{Kind: layout.HeaderView, Text: "5 items in 3 groups"},
		{Kind: layout.FooterView, Text: "end of list"},
		{Kind: layout.GroupHeaderView, Index: layout.Index{Group: 0}, Text: "A (2)"},
		{Kind: layout.ItemView, Index: layout.Index{Group: 0, Row: 0}, Text: "A · item 0"},
		{Kind: layout.ItemView, Index: layout.Index{Group: 0, Row: 1}, Text: "A · item 1"},
		{Kind: layout.GroupHeaderView, Index: layout.Index{Group: 1}, Text: "B (0)"},
		{Kind: layout.GroupHeaderView, Index: layout.Index{Group: 2}, Text: "C (3)"},
		{Kind: layout.ItemView, Index: layout.Index{Group: 2, Row: 0}, Text: "C · item 0"},
		{Kind: layout.ItemView, Index: layout.Index{Group: 2, Row: 1}, Text: "C · item 1"},
		{Kind: layout.ItemView, Index: layout.Index{Group: 2, Row: 2}, Text: "C · item 2"},
	}
	for display, w := range want {
		got, ok := src.Resolve(display)
		require.True(t, ok, "display %d", display)
		require.Equal(t, w, got, "display %d", display)
	}

	_, ok := src.Resolve(-1)
	require.False(t, ok)
	_, ok = src.Resolve(len(want))
	require.False(t, ok)

	// Every item resolves back to its own display position.
	for display := range want {
		got, _ := src.Resolve(display)
		if got.Kind == layout.ItemView {
			require.Equal(t, display, src.FlattenIndex(got.Index))
		}
	}
}

func TestUngrouped(t *testing.T) {
	t.Parallel()

	src := source.New([]source.Group{{Size: 3}, {Size: 4}}, source.WithFooter(true))

	require.False(t, src.IsGrouping())
	require.Equal(t, 7, src.ItemCount())
	require.Equal(t, 1, src.GroupCount())
	require.Equal(t, 8, src.DisplayCount())
	require.Equal(t, -1, src.GroupHeaderDisplayIndex(0))
	require.Equal(t, 6, src.FlattenIndex(layout.Index{Row: 5}))

	entry, ok := src.Resolve(6)
	require.True(t, ok)
	require.Equal(t, layout.Index{Row: 5}, entry.Index)
	require.Equal(t, "All · item 5", entry.Text)

	entry, ok = src.Resolve(0)
	require.True(t, ok)
	require.Equal(t, layout.FooterView, entry.Kind)
}

func TestNextIndex(t *testing.T) {
	t.Parallel()

	src := source.New([]source.Group{{Size: 2}, {Size: 0}, {Size: 0}, {Size: 1}}, source.WithGrouping(true))

	first, ok := src.FirstIndex()
	require.True(t, ok)
	require.Equal(t, layout.Index{}, first)
	last, ok := src.LastIndex()
	require.True(t, ok)
	require.Equal(t, layout.Index{Group: 3}, last)

	var forward []layout.Index
	for idx, ok := first, true; ok; idx, ok = src.NextIndex(idx, layout.Forward) {
		forward = append(forward, idx)
	}
	require.Equal(t, []layout.Index{{Group: 0}, {Group: 0, Row: 1}, {Group: 3}}, forward)

	var back []layout.Index
	for idx, ok := last, true; ok; idx, ok = src.NextIndex(idx, layout.Back) {
		back = append(back, idx)
	}
	require.Equal(t, []layout.Index{{Group: 3}, {Group: 0, Row: 1}, {Group: 0}}, back)

	// Out-of-range cursors enter the collection from the matching end.
	idx, ok := src.NextIndex(layout.Index{Group: -1}, layout.Forward)
	require.True(t, ok)
	require.Equal(t, first, idx)
	idx, ok = src.NextIndex(layout.Index{Group: 4}, layout.Back)
	require.True(t, ok)
	require.Equal(t, last, idx)

	empty := source.New(nil, source.WithGrouping(true))
	_, ok = empty.FirstIndex()
	require.False(t, ok)
	_, ok = empty.LastIndex()
	require.False(t, ok)
}

func TestPaging(t *testing.T) {
	t.Parallel()

	src := source.New([]source.Group{{Size: 50}}, source.WithPaging(20, 5), source.WithFooter(true))
	require.Equal(t, 20, src.ItemCount())
	require.True(t, src.HasMore())

	footer, _ := src.Resolve(0)
	require.Equal(t, "20 of 50 loaded", footer.Text)

	// Display 20 is the last exposed item; 15 is the first within threshold.
	src.ApproachingEnd(14)
	require.False(t, src.LoadMore())
	src.ApproachingEnd(15)
	require.True(t, src.LoadMore())
	require.Equal(t, 40, src.ItemCount())
	require.False(t, src.LoadMore())

	src.ApproachingEnd(40)
	require.True(t, src.LoadMore())
	require.Equal(t, 50, src.ItemCount())
	require.False(t, src.HasMore())

	src.ApproachingEnd(50)
	require.False(t, src.LoadMore())
	footer, _ = src.Resolve(0)
	require.Equal(t, "end of list", footer.Text)
}

func TestPagingGrouped(t *testing.T) {
	t.Parallel()

	src := source.New(source.Generate("p", 3, 10), source.WithGrouping(true), source.WithPaging(15, 0))
	require.Equal(t, 15, src.ItemCount())
	require.Equal(t, 2, src.GroupCount())
	last, ok := src.LastIndex()
	require.True(t, ok)
	require.Equal(t, layout.Index{Group: 1, Row: 4}, last)

	src.ApproachingEnd(src.DisplayCount() - 1)
	require.True(t, src.LoadMore())
	require.Equal(t, 30, src.ItemCount())
	require.Equal(t, 3, src.GroupCount())
}

func TestGroupOperations(t *testing.T) {
	t.Parallel()

	src := source.New(source.Generate("ops", 2, 3), source.WithGrouping(true))

	op, err := src.InsertGroup(1, source.Group{Title: "New", Size: 4})
	require.NoError(t, err)
	require.Equal(t, layout.GroupOperation{Kind: layout.GroupInsert, GroupIndex: 1}, op)
	require.Equal(t, 10, src.ItemCount())
	require.Equal(t, []string{"Group 0", "New", "Group 1"}, titles(src))

	op, err = src.RemoveGroup(0)
	require.NoError(t, err)
	require.Equal(t, layout.GroupOperation{Kind: layout.GroupRemove, GroupIndex: 0}, op)
	require.Equal(t, 7, src.ItemCount())
	require.Equal(t, []string{"New", "Group 1"}, titles(src))

	_, err = src.RemoveGroup(2)
	require.ErrorIs(t, err, source.ErrGroupOutOfRange)
	_, err = src.InsertGroup(-1, source.Group{})
	require.ErrorIs(t, err, source.ErrGroupOutOfRange)

	flat := source.New(source.Generate("flat", 2, 3))
	_, err = flat.InsertGroup(0, source.Group{})
	require.Error(t, err)
	_, err = flat.RemoveGroup(0)
	require.Error(t, err)
}

func TestLabels(t *testing.T) {
	t.Parallel()

	src := source.New(source.Generate("l", 2, 2),
		source.WithGrouping(true),
		source.WithLabels(func(g source.Group, row int) string {
			return fmt.Sprintf("%s/%d", g.Key, row)
		}),
	)
	require.Equal(t, "l-1/1", src.Label(layout.Index{Group: 1, Row: 1}))
	require.Empty(t, src.Label(layout.Index{Group: 9}))
	require.Equal(t, "Group 1 (2)", src.GroupTitle(1))
}

func titles(src *source.Source) []string {
	var out []string
	for _, g := range src.Groups() {
		out = append(out, g.Title)
	}
	return out
}

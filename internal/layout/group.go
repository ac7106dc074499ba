package layout

import "github.com/gammazero/deque"

// group is the materialized slice of one logical group: an optional header
// and a contiguous run of lines. Line positions are derived from start.
type group[E any] struct {
	index int
	start int

	lines       deque.Deque[Line[E]]
	linesExtent int
	breadth     int

	placement     HeaderPlacement
	hasHeader     bool
	header        E
	headerDisplay int
	headerStart   int
	headerExtent  int
	headerBreadth int
}

func (g *group[E]) reset(index, start int) {
	var zero E
	g.index = index
	g.start = start
	g.lines.Clear()
	g.linesExtent = 0
	g.breadth = 0
	g.hasHeader = false
	g.header = zero
	g.headerDisplay = 0
	g.headerStart = 0
	g.headerExtent = 0
	g.headerBreadth = 0
}

// extent is the space the group occupies along the scroll axis. An adjacent
// header only contributes while the group has no lines.
func (g *group[E]) extent() int {
	if g.placement == PlacementAdjacent {
		if g.lines.Len() > 0 {
			return g.linesExtent
		}
		return g.headerExtent
	}
	return g.headerExtent + g.linesExtent
}

func (g *group[E]) end() int {
	return g.start + g.extent()
}

func (g *group[E]) itemsExtentOffset() int {
	if g.placement == PlacementInline {
		return g.headerExtent
	}
	return 0
}

func (g *group[E]) itemsBreadthOffset() int {
	if g.placement == PlacementAdjacent {
		return g.headerBreadth
	}
	return 0
}

func (g *group[E]) setHeader(el E, display, extent, breadth int, placement HeaderPlacement) {
	g.hasHeader = true
	g.header = el
	g.headerDisplay = display
	g.headerExtent = extent
	g.headerBreadth = breadth
	g.placement = placement
	g.breadth = max(g.breadth, breadth)
}

// leadingEdge is where the next group would start (Forward) or end (Back).
func (g *group[E]) leadingEdge(dir Direction) int {
	if dir == Forward {
		return g.end()
	}
	return g.start
}

// leadingEdgeWithin is where the next line of this group would start
// (Forward) or end (Back).
func (g *group[E]) leadingEdgeWithin(dir Direction) int {
	if g.lines.Len() == 0 {
		if dir == Forward {
			return g.start + g.itemsExtentOffset()
		}
		return g.end()
	}
	if dir == Forward {
		return g.start + g.itemsExtentOffset() + g.linesExtent
	}
	return g.start + g.itemsExtentOffset()
}

func (g *group[E]) leadingLine(dir Direction) Line[E] {
	if dir == Forward {
		return g.lines.Back()
	}
	return g.lines.Front()
}

func (g *group[E]) trailingLine(dir Direction) Line[E] {
	if dir == Forward {
		return g.lines.Front()
	}
	return g.lines.Back()
}

// trailingLineStart is the extent coordinate of the line unfill would drop
// next in dir.
func (g *group[E]) trailingLineStart(dir Direction) int {
	if dir == Forward {
		return g.start + g.itemsExtentOffset()
	}
	return g.start + g.itemsExtentOffset() + g.linesExtent - g.lines.Back().Extent
}

// addLine appends l at the leading edge. Adding at the back keeps the group's
// end fixed, adding at the front keeps its start fixed.
func (g *group[E]) addLine(l Line[E], dir Direction) {
	if dir == Forward {
		g.lines.PushBack(l)
		g.linesExtent += l.Extent
	} else {
		end := g.end()
		g.lines.PushFront(l)
		g.linesExtent += l.Extent
		g.start = end - g.extent()
	}
	g.breadth = max(g.breadth, g.itemsBreadthOffset()+l.breadth())
}

// removeTrailingLine drops the line at the trailing edge, keeping the
// opposite edge of the group in place.
func (g *group[E]) removeTrailingLine(dir Direction) Line[E] {
	if dir == Forward {
		end := g.end()
		l := g.lines.PopFront()
		g.linesExtent -= l.Extent
		g.start = end - g.extent()
		return l
	}
	l := g.lines.PopBack()
	g.linesExtent -= l.Extent
	return l
}

func (g *group[E]) itemCount() int {
	n := 0
	for i := range g.lines.Len() {
		n += len(g.lines.At(i).Slots)
	}
	return n
}

package layout

import (
	"errors"
	"log/slog"
)

var errEmptyLine = errors.New("line strategy returned no items")

// fill realizes lines in dir until the leading edge passes the viewport
// shifted by scrollOffset, or the collection runs out.
func (e *Engine[E]) fill(dir Direction, scrollOffset, availableExtent, availableBreadth int) error {
	headerOffset := 0
	if !e.st.headerAndFooterCreated {
		h, err := e.createHeaderAndFooter(scrollOffset, availableBreadth)
		if err != nil {
			return err
		}
		headerOffset = h
		e.st.headerAndFooterCreated = true
	}

	if !e.st.initialExtentOffsetApplied {
		if g := e.groups.trailing(dir); g != nil {
			if e.st.hasPreviousHeaderExtent {
				g.start -= e.st.previousHeaderExtent
			}
			g.start += headerOffset
		} else if e.st.seed.hasStart {
			if e.st.hasPreviousHeaderExtent {
				e.st.seed.start -= e.st.previousHeaderExtent
			}
			e.st.seed.start += headerOffset
		}
		e.st.hasPreviousHeaderExtent = false
		e.st.initialExtentOffsetApplied = true
	}

	grouping := e.adapter.IsGrouping()
	if !e.st.initialGroupHeaderCreated && grouping && e.adapter.GroupCount() > 0 {
		if g := e.groups.leading(dir); g != nil && !g.hasHeader {
			if err := e.createGroupHeader(dir, availableBreadth, g); err != nil {
				return err
			}
		}
		e.st.initialGroupHeaderCreated = true
	}

	next, ok := e.nextUnmaterialized(dir, e.fillOrigin(dir))
	for ok {
		if e.groups.len() == 0 {
			if err := e.createGroupsAtLeadingEdge(next.Group, dir, scrollOffset, availableExtent, availableBreadth); err != nil {
				return err
			}
		}
		created, err := e.tryCreateLine(dir, scrollOffset, availableExtent, availableBreadth, next)
		if err != nil {
			return err
		}
		if !created {
			break
		}
		next, ok = e.nextUnmaterialized(dir, e.leadingMaterialized(dir))
	}
	e.st.seed = seedState{}

	// Trailing empty groups only have a header to show.
	if !ok && grouping {
		end := 0
		if dir == Forward {
			end = e.adapter.GroupCount() - 1
		}
		if lg := e.groups.leading(dir); end >= 0 && (lg == nil || lg.index != end) {
			if err := e.createGroupsAtLeadingEdge(end, dir, scrollOffset, availableExtent, availableBreadth); err != nil {
				return err
			}
		}
	}

	e.assertValid()
	return nil
}

type origin struct {
	index Index
	ok    bool
}

// fillOrigin is the rebuild seed if one is pending, else the leading
// materialized item.
func (e *Engine[E]) fillOrigin(dir Direction) origin {
	if e.st.seed.hasIndex {
		return origin{index: e.st.seed.index, ok: true}
	}
	return e.leadingMaterialized(dir)
}

func (e *Engine[E]) leadingMaterialized(dir Direction) origin {
	g := e.groups.leadingNonEmpty(dir)
	if g == nil {
		return origin{}
	}
	l := g.leadingLine(dir)
	if dir == Forward {
		return origin{index: l.Last, ok: true}
	}
	return origin{index: l.First, ok: true}
}

func (e *Engine[E]) nextUnmaterialized(dir Direction, from origin) (Index, bool) {
	if !from.ok {
		if dir == Forward {
			return e.adapter.FirstIndex()
		}
		return Index{}, false
	}
	return e.adapter.NextIndex(from.index, dir)
}

func (e *Engine[E]) hasUnmaterialized(dir Direction) bool {
	_, ok := e.nextUnmaterialized(dir, e.leadingMaterialized(dir))
	return ok
}

// tryCreateLine adds the line seeded by next if there is room for it,
// creating any groups it has to cross to get there.
func (e *Engine[E]) tryCreateLine(dir Direction, scrollOffset, availableExtent, availableBreadth int, next Index) (bool, error) {
	if g := e.groups.leading(dir); g != nil && g.index == next.Group {
		if !e.gapWithinGroup(g, dir, scrollOffset, availableExtent) {
			return false, nil
		}
		return true, e.addLine(g, dir, availableBreadth, next)
	}

	if g := e.groups.leading(dir); g != nil && !e.gapOutsideGroup(g, dir, scrollOffset, availableExtent) {
		return false, nil
	}
	if err := e.createGroupsAtLeadingEdge(next.Group, dir, scrollOffset, availableExtent, availableBreadth); err != nil {
		return false, err
	}
	g := e.groups.leading(dir)
	if g == nil || g.index != next.Group || !e.gapWithinGroup(g, dir, scrollOffset, availableExtent) {
		return false, nil
	}
	return true, e.addLine(g, dir, availableBreadth, next)
}

func (e *Engine[E]) gapWithinGroup(g *group[E], dir Direction, scrollOffset, availableExtent int) bool {
	return isGap(dir, g.leadingEdgeWithin(dir)-scrollOffset, availableExtent)
}

func (e *Engine[E]) gapOutsideGroup(g *group[E], dir Direction, scrollOffset, availableExtent int) bool {
	return isGap(dir, g.leadingEdge(dir)-scrollOffset, availableExtent)
}

func isGap(dir Direction, edge, availableExtent int) bool {
	if dir == Forward {
		return edge < availableExtent
	}
	return edge > 0
}

// createGroupsAtLeadingEdge creates every group between the leading group
// and target, while there is room for them.
func (e *Engine[E]) createGroupsAtLeadingEdge(target int, dir Direction, scrollOffset, availableExtent, availableBreadth int) error {
	lg := e.groups.leading(dir)
	edge := e.axis.initialExtentPadding(e.opts.padding)
	switch {
	case lg != nil:
		edge = lg.leadingEdge(dir)
	case e.st.seed.hasStart:
		edge = e.st.seed.start
	}
	e.st.seed.hasStart = false

	inc := dir.sign()
	toCreate := -1
	if lg != nil {
		toCreate = lg.index
	} else if e.st.seed.hasIndex {
		toCreate = e.st.seed.index.Group
	}
	if toCreate == target {
		toCreate -= inc
	}
	if (toCreate-target)*inc > 0 {
		slog.Error("Cannot create groups past the target", "direction", dir, "from", toCreate, "target", target)
		return nil
	}

	for toCreate != target {
		toCreate += inc
		if lg == nil || e.gapOutsideGroup(lg, dir, scrollOffset, availableExtent) {
			if err := e.createGroupAtLeadingEdge(toCreate, dir, availableBreadth, edge); err != nil {
				return err
			}
		}
		lg = e.groups.leading(dir)
		edge = lg.leadingEdge(dir)
	}
	return nil
}

func (e *Engine[E]) createGroupAtLeadingEdge(index int, dir Direction, availableBreadth, edge int) error {
	g := e.groups.acquire(index, edge, e.opts.placement)
	if e.adapter.IsGrouping() {
		if err := e.createGroupHeader(dir, availableBreadth, g); err != nil {
			e.groups.recycle(g)
			return err
		}
	}
	e.groups.push(g, dir)
	return nil
}

func (e *Engine[E]) createGroupHeader(dir Direction, availableBreadth int, g *group[E]) error {
	display := e.adapter.GroupHeaderDisplayIndex(g.index)
	el, size, err := e.realize(display, GroupHeaderView, e.axis.size(Unbounded, availableBreadth))
	if err != nil {
		return err
	}
	extent, breadth := e.axis.extent(size), e.axis.breadth(size)
	if e.opts.placement != PlacementAdjacent {
		breadth = availableBreadth
	}
	g.setHeader(el, display, extent, breadth, e.opts.placement)
	e.st.groupHeaderViews++
	if dir == Back {
		g.start -= extent
	}
	g.headerStart = g.start
	e.host.Arrange(el, e.groupHeaderFrame(g))
	return nil
}

// createHeaderAndFooter realizes the list header and footer and returns the
// header's extent.
func (e *Engine[E]) createHeaderAndFooter(extentOffset, availableBreadth int) (int, error) {
	headerExtent := 0
	showHeader := e.adapter.ShowHeader()
	if showHeader {
		el, size, err := e.realize(0, HeaderView, e.axis.size(Unbounded, availableBreadth))
		if err != nil {
			return 0, err
		}
		headerExtent = e.axis.extent(size)
		e.header = chrome[E]{
			present: true,
			el:      el,
			display: 0,
			start:   extentOffset + e.axis.initialExtentPadding(e.opts.padding),
			extent:  headerExtent,
			breadth: availableBreadth,
		}
		e.st.headerViews++
		e.host.Arrange(el, e.chromeFrame(&e.header))
	}
	if e.adapter.ShowFooter() {
		display := 0
		if showHeader {
			display = 1
		}
		el, size, err := e.realize(display, FooterView, e.axis.size(Unbounded, availableBreadth))
		if err != nil {
			return 0, err
		}
		e.footer = chrome[E]{
			present: true,
			el:      el,
			display: display,
			start:   extentOffset + e.axis.initialExtentPadding(e.opts.padding) + headerExtent,
			extent:  e.axis.extent(size),
			breadth: availableBreadth,
		}
		e.st.footerViews++
		e.host.Arrange(el, e.chromeFrame(&e.footer))
	}
	return headerExtent, nil
}

// addLine asks the strategy for the line seeded by next and attaches it at
// the leading edge of g.
func (e *Engine[E]) addLine(g *group[E], dir Direction, availableBreadth int, next Index) error {
	isNewGroup := g.lines.Len() == 0
	lineBreadth := availableBreadth - g.itemsBreadthOffset()

	e.scratch = e.scratch[:0]
	l, err := e.strategy(lineContext[E]{e: e}, LineRequest{
		Direction:        dir,
		Seed:             next,
		AvailableBreadth: lineBreadth,
		IsNewGroup:       isNewGroup,
	})
	if err == nil && len(l.Slots) == 0 {
		err = errEmptyLine
	}
	if err != nil {
		e.discardScratch()
		return err
	}
	e.scratch = e.scratch[:0]

	g.addLine(l, dir)
	e.st.itemViews += len(l.Slots)

	start := g.leadingEdgeWithin(Back)
	if dir == Forward {
		start = g.leadingEdgeWithin(Forward) - l.Extent
	}
	e.arrangeLine(g, l, start)
	return nil
}

// lineContext is the engine's side of a LineStrategy call.
type lineContext[E any] struct {
	e *Engine[E]
}

func (lc lineContext[E]) Realize(idx Index, breadth int) (Slot[E], error) {
	e := lc.e
	display := e.adapter.FlattenIndex(idx)
	el, size, err := e.realize(display, ItemView, e.axis.size(Unbounded, breadth))
	if err != nil {
		return Slot[E]{}, err
	}
	slot := Slot[E]{
		Element:      el,
		Index:        idx,
		DisplayIndex: display,
		Extent:       e.axis.extent(size),
		Breadth:      breadth,
	}
	e.scratch = append(e.scratch, slot)
	return slot, nil
}

func (lc lineContext[E]) NextIndex(idx Index, dir Direction) (Index, bool) {
	return lc.e.adapter.NextIndex(idx, dir)
}

package layout

// applyOffset shifts every realized element by delta along the extent and
// re-arranges them. Moving content up (negative delta) grows ContentOffset.
func (e *Engine[E]) applyOffset(delta int) {
	e.st.contentOffset -= delta
	for g := range e.groups.all() {
		g.start += delta
		g.headerStart += delta
	}
	e.header.start += delta
	e.footer.start += delta
	e.refreshPositions()
}

// refreshPositions pins header, footer and group headers to the groups and
// arranges every element.
func (e *Engine[E]) refreshPositions() {
	e.rebaseOffset()
	e.updateHeaderAndFooterPositions()
	e.updateGroupHeaderPositions()
	e.arrangeAll()
}

// rebaseOffset derives the content offset from the realized top once nothing
// before it is left to realize. A rebuild after a structural change above the
// anchor keeps the old offset until then.
func (e *Engine[E]) rebaseOffset() {
	g := e.groups.first()
	if g == nil || g.index != 0 || e.st.itemViews == 0 || e.hasUnmaterialized(Back) {
		return
	}
	if e.adapter.IsGrouping() && !g.hasHeader {
		return
	}
	if e.adapter.ShowHeader() && !e.header.present {
		return
	}
	e.st.contentOffset = -e.contentStart()
}

func (e *Engine[E]) updateHeaderAndFooterPositions() {
	if e.groups.len() == 0 {
		return
	}
	if e.header.present {
		e.header.start = e.groups.first().start - e.header.extent
	}
	if e.footer.present {
		e.footer.start = e.groups.last().end()
	}
}

// updateGroupHeaderPositions puts each group header at the top of its group,
// or with sticky headers at the viewport's leading edge until the group's end
// pushes it out.
func (e *Engine[E]) updateGroupHeaderPositions() {
	if e.st.groupHeaderViews == 0 {
		return
	}
	for g := range e.groups.all() {
		if !g.hasHeader {
			continue
		}
		if !e.opts.stickyHeaders {
			g.headerStart = g.start
			continue
		}
		clamping := max(g.start, 0) - g.headerStart
		base := g.end() - (g.headerStart + g.headerExtent)
		g.headerStart += min(clamping, base)
	}
}

func (e *Engine[E]) arrangeAll() {
	for g := range e.groups.all() {
		pos := g.start + g.itemsExtentOffset()
		for i := range g.lines.Len() {
			l := g.lines.At(i)
			e.arrangeLine(g, l, pos)
			pos += l.Extent
		}
		if g.hasHeader {
			e.host.Arrange(g.header, e.groupHeaderFrame(g))
		}
	}
	if e.header.present {
		e.host.Arrange(e.header.el, e.chromeFrame(&e.header))
	}
	if e.footer.present {
		e.host.Arrange(e.footer.el, e.chromeFrame(&e.footer))
	}
}

func (e *Engine[E]) arrangeLine(g *group[E], l Line[E], start int) {
	base := e.axis.initialBreadthPadding(e.opts.padding) + g.itemsBreadthOffset()
	for _, s := range l.Slots {
		e.host.Arrange(s.Element, e.axis.frame(start, base+s.BreadthOffset, s.Extent, s.Breadth))
	}
}

func (e *Engine[E]) groupHeaderFrame(g *group[E]) Rect {
	return e.axis.frame(g.headerStart, e.axis.initialBreadthPadding(e.opts.padding), g.headerExtent, g.headerBreadth)
}

func (e *Engine[E]) chromeFrame(c *chrome[E]) Rect {
	return e.axis.frame(c.start, e.axis.initialBreadthPadding(e.opts.padding), c.extent, c.breadth)
}

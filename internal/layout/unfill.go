package layout

// unfill releases lines and empty groups that have left the viewport shifted
// by offset, starting from the edge opposite to dir. At least one line is
// always kept so later fills have an anchor.
func (e *Engine[E]) unfill(dir Direction, offset, availableExtent int) {
	for {
		g := e.groups.trailingNonEmpty(dir)
		if g == nil {
			break
		}
		l := g.trailingLine(dir)
		if e.st.itemViews <= len(l.Slots) {
			break
		}
		if e.isLineVisible(g.trailingLineStart(dir), l.Extent, availableExtent, offset) {
			break
		}
		e.removeTrailingLine(dir, false)
	}

	for e.st.groupHeaderViews > 0 {
		g := e.groups.trailing(dir)
		if g == nil || g.lines.Len() > 0 || isGroupVisible(g, availableExtent, offset) {
			break
		}
		e.removeTrailingGroup(dir, false)
	}

	e.assertValid()
}

func (e *Engine[E]) isLineVisible(start, extent, availableExtent, offset int) bool {
	if availableExtent == Unbounded {
		availableExtent /= 2
	}
	return start < availableExtent+offset && start+extent > offset
}

func isGroupVisible[E any](g *group[E], availableExtent, offset int) bool {
	return g.start-offset <= availableExtent && g.end()-offset >= 0
}

func (e *Engine[E]) removeTrailingLine(dir Direction, detach bool) {
	g := e.groups.trailingNonEmpty(dir)
	l := g.removeTrailingLine(dir)
	for _, s := range l.Slots {
		e.release(s.Element, detach)
	}
	e.st.itemViews -= len(l.Slots)
}

// removeTrailingGroup drops the trailing group, which must hold no lines.
func (e *Engine[E]) removeTrailingGroup(dir Direction, detach bool) {
	g := e.groups.trailing(dir)
	if g.hasHeader {
		e.release(g.header, detach)
		e.st.groupHeaderViews--
	}
	e.groups.popTrailing(dir)
}

func (e *Engine[E]) releaseChrome(detach bool) {
	if e.header.present {
		e.release(e.header.el, detach)
	}
	if e.footer.present {
		e.release(e.footer.el, detach)
	}
	e.header = chrome[E]{}
	e.footer = chrome[E]{}
	e.st.headerViews = 0
	e.st.footerViews = 0
	e.st.headerAndFooterCreated = false
}

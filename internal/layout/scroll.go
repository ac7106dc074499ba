package layout

// Measure sizes the list for available, rebuilding the window around the
// current anchor when elements already exist. It returns the size the
// content wants, capped by available.
func (e *Engine[E]) Measure(available Size) (desired Size, err error) {
	defer e.boundary("measure", &err)

	e.viewport = available
	extent := e.axis.extent(available)
	breadth := e.contentBreadth()
	if e.axis.breadth(available) > 0 {
		if err := e.updateLayout(extent, breadth, true); err != nil {
			return Size{}, err
		}
	}

	pad := e.axis.initialBreadthPadding(e.opts.padding) + e.axis.finalBreadthPadding(e.opts.padding)
	measuredBreadth := min(e.contentBreadthUsed()+pad, e.axis.breadth(available))
	measuredExtent := min(e.contentEnd(), extent)
	if extent == Unbounded {
		e.viewport = e.axis.size(measuredExtent, e.axis.breadth(available))
	}
	return e.axis.size(measuredExtent, measuredBreadth), nil
}

// Layout runs a layout pass for the current viewport. A pending
// ScrollToPosition request is applied here; otherwise queued data changes
// are consumed and the window is topped up.
func (e *Engine[E]) Layout() (err error) {
	defer e.boundary("layout", &err)

	extent, breadth := e.extent(), e.contentBreadth()
	req := e.st.pendingScroll
	if req == nil || e.st.needsRebuild || e.st.needsHeaderAndFooterUpdate {
		if err := e.updateLayout(extent, breadth, false); err != nil {
			return err
		}
	}
	if req != nil {
		if err := e.applyScrollToPosition(req.display, req.alignment); err != nil {
			return err
		}
		e.st.pendingScroll = nil
	}
	return nil
}

func (e *Engine[E]) updateLayout(extent, breadth int, isMeasure bool) error {
	if e.st.needsHeaderAndFooterUpdate {
		if err := e.resetHeaderAndFooter(); err != nil {
			return err
		}
		e.st.needsHeaderAndFooterUpdate = false
	}

	if (isMeasure && extent > 0 && breadth > 0) || e.st.needsRebuild {
		if e.st.realized > 0 {
			e.scrapLayout()
		} else {
			e.st.pendingOps = e.st.pendingOps[:0]
		}
		e.st.needsRebuild = false
	}

	if err := e.fill(Forward, 0, extent, breadth); err != nil {
		return err
	}
	e.unfill(Forward, 0, extent)
	e.refreshPositions()
	e.notifyApproachingEnd()

	if extent != Unbounded {
		return e.closeTrailingGap()
	}
	return nil
}

// closeTrailingGap scrolls back when content was removed from under the end
// of the viewport.
func (e *Engine[E]) closeTrailingGap() error {
	if e.st.realized == 0 {
		return nil
	}
	gap := e.extent() - e.contentEnd()
	if gap <= 0 {
		return nil
	}
	actual, err := e.scrollBy(-gap)
	if err != nil {
		return err
	}
	e.applyOffset(-actual)
	return nil
}

// ScrollBy scrolls by delta along the extent and returns the distance
// actually scrolled, which is delta clamped to the content.
func (e *Engine[E]) ScrollBy(delta int) (actual int, err error) {
	defer e.boundary("scroll", &err)

	if e.st.needsRebuild || e.st.needsHeaderAndFooterUpdate {
		if err := e.updateLayout(e.extent(), e.contentBreadth(), false); err != nil {
			return 0, err
		}
	}
	if delta == 0 {
		return 0, nil
	}
	actual, err = e.scrollBy(delta)
	if err != nil {
		return 0, err
	}
	e.applyOffset(-actual)
	return actual, nil
}

// scrollBy consumes offset one leading-item extent at a time so a long jump
// never realizes more than about one viewport of elements. It does not move
// anything: the caller applies the returned offset.
func (e *Engine[E]) scrollBy(offset int) (int, error) {
	dir := directionOf(offset)
	inc := e.scrollIncrement(dir) * dir.sign()
	if inc != 0 {
		unconsumed, applied := offset, 0
		for abs(unconsumed) > abs(inc) {
			unconsumed -= inc
			applied += inc
			actual, err := e.scrollByInner(applied)
			if err != nil {
				return 0, err
			}
			if abs(actual) < abs(applied) {
				break
			}
		}
	}
	return e.scrollByInner(offset)
}

func (e *Engine[E]) scrollByInner(offset int) (int, error) {
	dir := directionOf(offset)
	extent := e.extent()
	if err := e.fill(dir, offset, extent, e.contentBreadth()); err != nil {
		return 0, err
	}

	var maxDelta int
	if dir == Forward {
		maxDelta = max(0, e.contentEnd()-extent)
	} else {
		maxDelta = max(0, -e.contentStart())
	}
	actual := max(min(offset, maxDelta), -maxDelta)

	e.unfill(dir, actual, extent)
	e.notifyApproachingEnd()
	return actual, nil
}

// scrollIncrement is the extent of the leading item in dir, or of the first
// realized element when there are no items.
func (e *Engine[E]) scrollIncrement(dir Direction) int {
	if g := e.groups.leadingNonEmpty(dir); g != nil {
		l := g.leadingLine(dir)
		s := l.Slots[len(l.Slots)-1]
		if dir == Back {
			s = l.Slots[0]
		}
		return s.Extent
	}
	for g := range e.groups.all() {
		if g.hasHeader {
			return g.headerExtent
		}
	}
	if e.header.present {
		return e.header.extent
	}
	if e.footer.present {
		return e.footer.extent
	}
	return 0
}

func (e *Engine[E]) notifyApproachingEnd() {
	if last := e.LastVisibleDisplayPosition(); last >= 0 {
		e.adapter.ApproachingEnd(last)
	}
}

// ScrollOffset is the distance the content has been scrolled from the top.
func (e *Engine[E]) ScrollOffset() int {
	return e.st.contentOffset
}

// ScrollExtent is the viewport extent.
func (e *Engine[E]) ScrollExtent() int {
	return e.extent()
}

// ScrollRange estimates the total content extent, extrapolating from the
// realized lines for the part of the collection that is not realized.
func (e *Engine[E]) ScrollRange() int {
	end := e.contentEnd()
	lastIdx, ok := e.lastVisibleIndex()
	if !ok {
		return e.st.contentOffset + end
	}

	lines, linesExtent := 0, 0
	for g := range e.groups.all() {
		lines += g.lines.Len()
		linesExtent += g.linesExtent
	}
	perLine := 1
	if lines > 0 {
		perLine = max(e.st.itemViews/lines, 1)
	}

	remainingItems := max(e.adapter.ItemCount()-e.adapter.Ordinal(lastIdx)-1, 0)
	remainingLines := (remainingItems + perLine - 1) / perLine
	lineExtent := 0
	if lines > 0 {
		lineExtent = linesExtent / lines
	}
	rng := e.st.contentOffset + end + remainingLines*lineExtent

	if e.adapter.IsGrouping() && e.opts.placement == PlacementInline {
		lastGroup := e.groups.last()
		remainingGroups := max(e.adapter.GroupCount()-lastGroup.index-1, 0)
		rng += remainingGroups * lastGroup.headerExtent
	}
	return rng
}

// CanScroll reports whether the content extends past the viewport in dir.
func (e *Engine[E]) CanScroll(dir Direction) bool {
	if dir == Forward {
		return e.hasUnmaterialized(Forward) || e.contentEnd() > e.extent()
	}
	return e.hasUnmaterialized(Back) || e.contentStart() < 0
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

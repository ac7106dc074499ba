package layout

import "log/slog"

// ScrollToPosition asks the next Layout to bring the element at a display
// position into view. Only the latest request is kept.
func (e *Engine[E]) ScrollToPosition(display int, alignment ScrollAlignment) {
	e.st.pendingScroll = &scrollRequest{display: display, alignment: alignment}
}

func (e *Engine[E]) applyScrollToPosition(target int, alignment ScrollAlignment) error {
	extent, breadth := e.extent(), e.contentBreadth()
	snapStart, snapEnd := false, false

	// Every pass through either loop realizes at least one line, so the
	// number of rows bounds them.
	limit := e.adapter.ItemCount() + e.adapter.GroupCount() + 1
	applied, actual := 0, 0
	for n := 0; n < limit && target > e.LastVisibleDisplayPosition() && e.hasUnmaterialized(Forward); n++ {
		snapEnd = true
		inc := e.scrollIncrement(Forward)
		if inc <= 0 {
			break
		}
		applied += inc
		a, err := e.scrollByInner(applied)
		if err != nil {
			return err
		}
		actual = a
	}
	for n := 0; n < limit && target < e.FirstVisibleDisplayPosition() && e.hasUnmaterialized(Back); n++ {
		snapStart = true
		inc := e.scrollIncrement(Back)
		if inc <= 0 {
			break
		}
		applied -= inc
		a, err := e.scrollByInner(applied)
		if err != nil {
			return err
		}
		actual = a
	}
	if actual != 0 {
		e.applyOffset(-actual)
	}

	if alignment == AlignLeading {
		snapStart, snapEnd = true, false
	}

	if start, end, ok := e.targetSpan(target); ok {
		if alignment == AlignCenter {
			// Centring goes through the clamped scroll so the content never
			// leaves a gap at either end.
			actual, err := e.scrollBy((start+end)/2 - extent/2)
			if err != nil {
				return err
			}
			e.applyOffset(-actual)
		} else {
			gapToStart := -start
			if !snapStart {
				gapToStart = max(0, gapToStart)
			}
			gapToEnd := extent - (end + gapToStart)
			if !snapEnd {
				gapToEnd = min(0, gapToEnd)
			}
			if delta := gapToStart + gapToEnd; delta != 0 {
				e.applyOffset(delta)
			}
		}
	} else {
		slog.Debug("Scroll target is not realized", "target", target)
	}

	if snap, ok := e.nearestSnapPoint(); ok {
		if d := e.remainingSnapDistance(snap); d != 0 {
			e.applyOffset(-d)
		}
	}

	e.unfill(Forward, 0, extent)
	e.unfill(Back, 0, extent)
	if err := e.fill(Forward, 0, extent, breadth); err != nil {
		return err
	}
	if err := e.fill(Back, 0, extent, breadth); err != nil {
		return err
	}
	e.refreshPositions()
	e.notifyApproachingEnd()
	return nil
}

// targetSpan returns the extent span of the realized element at display. A
// group header spans from its group's start, wherever sticking put it.
func (e *Engine[E]) targetSpan(display int) (start, end int, ok bool) {
	for p := range e.Elements() {
		if p.DisplayIndex != display {
			continue
		}
		start, end = e.axis.start(p.Frame), e.axis.end(p.Frame)
		if p.Kind == GroupHeaderView {
			for g := range e.groups.all() {
				if g.hasHeader && g.headerDisplay == display {
					start, end = g.start, g.start+g.headerExtent
					break
				}
			}
		}
		return start, end, true
	}
	return 0, 0, false
}

package layout

import "log/slog"

// scrapLayout detaches every realized element and records a seed so the next
// fill rebuilds the window starting where the first visible item was. The
// host may hand detached elements back without rebinding.
func (e *Engine[E]) scrapLayout() {
	first, hasFirst := e.firstVisibleIndex()
	adjusted, hasAdjusted := e.adjustedFirstItem(first, hasFirst)

	if e.header.present && (!hasAdjusted || adjusted == (Index{})) {
		e.st.initialExtentOffsetApplied = false
		e.st.previousHeaderExtent = e.header.extent
		e.st.hasPreviousHeaderExtent = true
	}

	seed, hasSeed, gone := e.dynamicSeedIndex(adjusted, hasAdjusted)

	seedStart, hasSeedStart := 0, false
	if g := e.groups.trailing(Forward); g != nil {
		seedStart, hasSeedStart = g.start, true
	}

	for e.st.itemViews > 0 && e.groups.trailingNonEmpty(Back) != nil {
		e.removeTrailingLine(Back, true)
	}
	if e.adapter.IsGrouping() {
		for e.groups.len() > 0 {
			e.removeTrailingGroup(Forward, true)
		}
	}
	e.releaseChrome(true)

	if gone {
		slog.Debug("First visible item no longer exists, relaying out from the top", "first", first)
		e.reset()
		return
	}
	e.st.seed = seedState{
		index:    seed,
		hasIndex: hasSeed,
		start:    seedStart,
		hasStart: hasSeedStart,
	}
}

// adjustedFirstItem maps the first visible item through the queued group
// operations. The queue is consumed.
func (e *Engine[E]) adjustedFirstItem(first Index, ok bool) (Index, bool) {
	ops := e.st.pendingOps
	e.st.pendingOps = e.st.pendingOps[:0]
	if !ok {
		return Index{}, false
	}
	for _, op := range ops {
		switch op.Kind {
		case GroupInsert:
			if op.GroupIndex <= first.Group {
				first.Group++
			}
		case GroupRemove:
			switch {
			case op.GroupIndex < first.Group:
				first.Group--
			case op.GroupIndex == first.Group:
				first.Row = 0
			}
		}
	}
	return first, true
}

// dynamicSeedIndex returns the item just before the adjusted first visible
// item, which is where the next fill continues from. gone is set when the
// first item no longer exists in the collection.
func (e *Engine[E]) dynamicSeedIndex(first Index, ok bool) (seed Index, hasSeed bool, gone bool) {
	if e.st.contentOffset == 0 || !ok {
		return Index{}, false, false
	}
	last, hasLast := e.adapter.LastIndex()
	if !hasLast || last.Less(first) {
		return Index{}, false, true
	}
	seed, hasSeed = e.adapter.NextIndex(first, Back)
	return seed, hasSeed, false
}

// resetHeaderAndFooter rebinds the list header and footer to their display
// positions and lets the next fill recreate them.
func (e *Engine[E]) resetHeaderAndFooter() error {
	if e.header.present {
		if err := e.host.Rebind(e.header.el, e.header.display); err != nil {
			return err
		}
	}
	if e.footer.present {
		if err := e.host.Rebind(e.footer.el, e.footer.display); err != nil {
			return err
		}
	}
	previous, hadHeader := e.header.extent, e.header.present
	e.releaseChrome(false)
	e.st.initialExtentOffsetApplied = false
	e.st.previousHeaderExtent = previous
	e.st.hasPreviousHeaderExtent = hadHeader
	return nil
}

package layout

import (
	"fmt"
	"strings"
)

// InvariantError reports broken engine bookkeeping. It is a programming
// error, never a host failure.
type InvariantError struct {
	Violations []string
}

func (e *InvariantError) Error() string {
	return "layout invariants violated: " + strings.Join(e.Violations, "; ")
}

// CheckInvariants verifies the engine's bookkeeping against its realized
// elements.
func (e *Engine[E]) CheckInvariants() error {
	var v []string
	add := func(format string, args ...any) {
		v = append(v, fmt.Sprintf(format, args...))
	}

	st := e.st
	if st.itemViews < 0 || st.groupHeaderViews < 0 || st.headerViews < 0 || st.footerViews < 0 {
		add("negative count: items=%d groupHeaders=%d headers=%d footers=%d",
			st.itemViews, st.groupHeaderViews, st.headerViews, st.footerViews)
	}
	if st.headerViews > 1 || st.footerViews > 1 {
		add("more than one header or footer: headers=%d footers=%d", st.headerViews, st.footerViews)
	}
	if sum := st.itemViews + st.groupHeaderViews + st.headerViews + st.footerViews; sum != st.realized {
		add("role counts sum to %d but %d elements are realized", sum, st.realized)
	}
	if e.header.present != (st.headerViews == 1) {
		add("header present=%t but header count is %d", e.header.present, st.headerViews)
	}
	if e.footer.present != (st.footerViews == 1) {
		add("footer present=%t but footer count is %d", e.footer.present, st.footerViews)
	}

	items, headers := 0, 0
	var prevGroup *group[E]
	var prevItem Index
	hasPrevItem := false
	for g := range e.groups.all() {
		if prevGroup != nil && g.index != prevGroup.index+1 {
			add("group %d follows group %d", g.index, prevGroup.index)
		}
		if prevGroup != nil && g.start < prevGroup.end() {
			add("group %d starts at %d before group %d ends at %d", g.index, g.start, prevGroup.index, prevGroup.end())
		}
		if g.hasHeader {
			headers++
		}
		linesExtent := 0
		for i := range g.lines.Len() {
			l := g.lines.At(i)
			linesExtent += l.Extent
			items += len(l.Slots)
			for _, s := range l.Slots {
				if s.Index.Group != g.index {
					add("item %s is in group %d", s.Index, g.index)
				}
				if hasPrevItem {
					next, ok := e.adapter.NextIndex(prevItem, Forward)
					if !ok || next != s.Index {
						add("item %s does not follow %s", s.Index, prevItem)
					}
				}
				prevItem, hasPrevItem = s.Index, true
			}
		}
		if linesExtent != g.linesExtent {
			add("group %d lines extent is %d, tracked %d", g.index, linesExtent, g.linesExtent)
		}
		prevGroup = g
	}
	if items != st.itemViews {
		add("%d items realized but item count is %d", items, st.itemViews)
	}
	if headers != st.groupHeaderViews {
		add("%d group headers realized but group header count is %d", headers, st.groupHeaderViews)
	}

	if len(v) > 0 {
		return &InvariantError{Violations: v}
	}
	return nil
}

func (e *Engine[E]) assertValid() {
	if !e.opts.assertions {
		return
	}
	if err := e.CheckInvariants(); err != nil {
		panic(err)
	}
}

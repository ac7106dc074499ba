package layout

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
)

// ErrLayoutAborted wraps any failure that stopped a layout pass. The engine
// state stays consistent and the next pass retries.
var ErrLayoutAborted = errors.New("layout pass aborted")

// Engine keeps a window of realized elements over a possibly huge, possibly
// grouped collection. It realizes elements as they scroll into view, releases
// them as they scroll out, keeps the first visible item stable across data
// changes and positions sticky group headers.
//
// An Engine is not safe for concurrent use: every call must come from the
// goroutine that owns the host.
type Engine[E any] struct {
	host     Host[E]
	adapter  Adapter
	strategy LineStrategy[E]
	opts     options
	axis     axis

	viewport Size
	groups   groupSequence[E]
	header   chrome[E]
	footer   chrome[E]
	st       state

	// scratch tracks slots realized for the line under construction.
	scratch []Slot[E]
}

// chrome is the list-level header or footer.
type chrome[E any] struct {
	present bool
	el      E
	display int
	start   int
	extent  int
	breadth int
}

type seedState struct {
	index    Index
	hasIndex bool
	start    int
	hasStart bool
}

type scrollRequest struct {
	display   int
	alignment ScrollAlignment
}

// state is the per-episode bookkeeping, reset wholesale on a full relayout.
type state struct {
	contentOffset int

	itemViews        int
	groupHeaderViews int
	headerViews      int
	footerViews      int
	realized         int

	headerAndFooterCreated     bool
	initialExtentOffsetApplied bool
	initialGroupHeaderCreated  bool
	needsHeaderAndFooterUpdate bool
	needsRebuild               bool

	previousHeaderExtent    int
	hasPreviousHeaderExtent bool

	seed          seedState
	pendingScroll *scrollRequest
	pendingOps    []GroupOperation
}

// New returns an engine bound to host and adapter. A nil strategy lays out
// one item per line.
func New[E any](host Host[E], adapter Adapter, strategy LineStrategy[E], opts ...Option) *Engine[E] {
	if strategy == nil {
		strategy = SingleColumn[E]()
	}
	e := &Engine[E]{
		host:     host,
		adapter:  adapter,
		strategy: strategy,
	}
	for _, opt := range opts {
		opt(&e.opts)
	}
	e.axis = axis(e.opts.orientation)
	e.reset()
	return e
}

// Placement is a realized element and where it was last arranged.
type Placement[E any] struct {
	Element      E
	Kind         ViewType
	DisplayIndex int
	// Index is only meaningful for items.
	Index Index
	Frame Rect
}

// Stats is a snapshot of the engine's bookkeeping.
type Stats struct {
	Items         int
	GroupHeaders  int
	Headers       int
	Footers       int
	Realized      int
	Groups        int
	ContentOffset int
}

func (e *Engine[E]) Stats() Stats {
	return Stats{
		Items:         e.st.itemViews,
		GroupHeaders:  e.st.groupHeaderViews,
		Headers:       e.st.headerViews,
		Footers:       e.st.footerViews,
		Realized:      e.st.realized,
		Groups:        e.groups.len(),
		ContentOffset: e.st.contentOffset,
	}
}

// Viewport returns the size used by the last Measure.
func (e *Engine[E]) Viewport() Size {
	return e.viewport
}

func (e *Engine[E]) Orientation() Orientation {
	return e.opts.orientation
}

// Reconfigure applies opts and discards every realized element. The next
// Measure rebuilds from the top.
func (e *Engine[E]) Reconfigure(opts ...Option) {
	e.reset()
	for _, opt := range opts {
		opt(&e.opts)
	}
	e.axis = axis(e.opts.orientation)
	e.reset()
}

// Reset releases every realized element and returns to the initial state,
// scrolled to the top.
func (e *Engine[E]) Reset() {
	e.reset()
}

// NotifyDataChanged marks the layout for a rebuild on the next Layout.
func (e *Engine[E]) NotifyDataChanged() {
	e.st.needsRebuild = true
}

// NotifyGroupOperation queues a structural change so the next rebuild can keep
// the first visible item stable.
func (e *Engine[E]) NotifyGroupOperation(op GroupOperation) {
	e.st.pendingOps = append(e.st.pendingOps, op)
	e.st.needsRebuild = true
}

// RefreshHeaderAndFooter rebinds the list header and footer on the next
// pass.
func (e *Engine[E]) RefreshHeaderAndFooter() {
	e.st.needsHeaderAndFooterUpdate = true
}

// Elements iterates over every realized element. Items come first, then group
// headers, so drawing in iteration order keeps headers on top.
func (e *Engine[E]) Elements() iter.Seq[Placement[E]] {
	return func(yield func(Placement[E]) bool) {
		for g := range e.groups.all() {
			pos := g.start + g.itemsExtentOffset()
			breadthBase := e.axis.initialBreadthPadding(e.opts.padding) + g.itemsBreadthOffset()
			for i := range g.lines.Len() {
				l := g.lines.At(i)
				for _, s := range l.Slots {
					p := Placement[E]{
						Element:      s.Element,
						Kind:         ItemView,
						DisplayIndex: s.DisplayIndex,
						Index:        s.Index,
						Frame:        e.axis.frame(pos, breadthBase+s.BreadthOffset, s.Extent, s.Breadth),
					}
					if !yield(p) {
						return
					}
				}
				pos += l.Extent
			}
		}
		for g := range e.groups.all() {
			if !g.hasHeader {
				continue
			}
			p := Placement[E]{
				Element:      g.header,
				Kind:         GroupHeaderView,
				DisplayIndex: g.headerDisplay,
				Index:        Index{Group: g.index},
				Frame:        e.groupHeaderFrame(g),
			}
			if !yield(p) {
				return
			}
		}
		for _, c := range []struct {
			ch   *chrome[E]
			kind ViewType
		}{{&e.header, HeaderView}, {&e.footer, FooterView}} {
			if !c.ch.present {
				continue
			}
			p := Placement[E]{
				Element:      c.ch.el,
				Kind:         c.kind,
				DisplayIndex: c.ch.display,
				Frame:        e.chromeFrame(c.ch),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// FindElementByPosition returns the realized element for a display position.
func (e *Engine[E]) FindElementByPosition(display int) (E, bool) {
	for p := range e.Elements() {
		if p.DisplayIndex == display {
			return p.Element, true
		}
	}
	var zero E
	return zero, false
}

// FirstVisibleDisplayPosition is the display position of the first realized
// item, or -1.
func (e *Engine[E]) FirstVisibleDisplayPosition() int {
	idx, ok := e.firstVisibleIndex()
	if !ok {
		return -1
	}
	return e.adapter.FlattenIndex(idx)
}

// LastVisibleDisplayPosition is the display position of the last realized
// item, or -1.
func (e *Engine[E]) LastVisibleDisplayPosition() int {
	idx, ok := e.lastVisibleIndex()
	if !ok {
		return -1
	}
	return e.adapter.FlattenIndex(idx)
}

func (e *Engine[E]) firstVisibleIndex() (Index, bool) {
	g := e.groups.trailingNonEmpty(Forward)
	if g == nil {
		return Index{}, false
	}
	return g.trailingLine(Forward).First, true
}

func (e *Engine[E]) lastVisibleIndex() (Index, bool) {
	g := e.groups.leadingNonEmpty(Forward)
	if g == nil {
		return Index{}, false
	}
	return g.leadingLine(Forward).Last, true
}

func (e *Engine[E]) extent() int {
	return e.axis.extent(e.viewport)
}

func (e *Engine[E]) contentBreadth() int {
	return e.axis.breadth(e.viewport) - e.axis.initialBreadthPadding(e.opts.padding) - e.axis.finalBreadthPadding(e.opts.padding)
}

// contentStart is the extent coordinate of the top of the content, padding
// and list header included.
func (e *Engine[E]) contentStart() int {
	start := 0
	if g := e.groups.first(); g != nil {
		start = g.start
	}
	if e.header.present {
		start -= e.header.extent
	}
	return start - e.axis.initialExtentPadding(e.opts.padding)
}

// contentEnd is the extent coordinate of the bottom of the realized content,
// padding and list footer included.
func (e *Engine[E]) contentEnd() int {
	end := 0
	if g := e.groups.last(); g != nil {
		end = g.end()
	}
	if e.footer.present {
		end += e.footer.extent
	}
	return end + e.axis.finalExtentPadding(e.opts.padding)
}

func (e *Engine[E]) contentBreadthUsed() int {
	b := 0
	for g := range e.groups.all() {
		b = max(b, g.breadth)
	}
	if e.header.present {
		b = max(b, e.header.breadth)
	}
	if e.footer.present {
		b = max(b, e.footer.breadth)
	}
	return b
}

func (e *Engine[E]) realize(display int, kind ViewType, constraint Size) (E, Size, error) {
	el, err := e.host.Materialize(display, kind)
	if err != nil {
		var zero E
		return zero, Size{}, fmt.Errorf("materialize %s at %d: %w", kind, display, err)
	}
	e.st.realized++
	return el, e.host.Measure(el, constraint), nil
}

func (e *Engine[E]) release(el E, detach bool) {
	e.host.Release(el, detach)
	e.st.realized--
}

func (e *Engine[E]) discardScratch() {
	for _, s := range e.scratch {
		e.release(s.Element, false)
	}
	e.scratch = e.scratch[:0]
}

// reset releases everything and starts a new episode at the top.
func (e *Engine[E]) reset() {
	for e.st.itemViews > 0 {
		if e.groups.trailingNonEmpty(Back) == nil {
			break
		}
		e.removeTrailingLine(Back, false)
	}
	for e.groups.len() > 0 {
		e.removeTrailingGroup(Forward, false)
	}
	e.releaseChrome(false)
	e.groups.clear()

	e.st = state{}
	e.groups.push(e.groups.acquire(0, e.axis.initialExtentPadding(e.opts.padding), e.opts.placement), Forward)
}

// boundary is deferred by every entry point. Host failures and host panics
// abort the pass with ErrLayoutAborted; broken invariants keep panicking.
func (e *Engine[E]) boundary(op string, errp *error) {
	if r := recover(); r != nil {
		if ie, ok := r.(*InvariantError); ok {
			panic(ie)
		}
		e.discardScratch()
		slog.Error("Layout pass aborted", "op", op, "panic", r)
		*errp = fmt.Errorf("%w: %s: %v", ErrLayoutAborted, op, r)
		return
	}
	if *errp != nil && !errors.Is(*errp, ErrLayoutAborted) {
		slog.Error("Layout pass aborted", "op", op, "error", *errp)
		*errp = fmt.Errorf("%w: %s: %w", ErrLayoutAborted, op, *errp)
	}
}

// Package headless is a layout host that draws nothing. It keeps a reuse
// pool and counts every callback, which makes it the reference host for
// simulations and engine tests.
package headless

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/rivo/uniseg"
)

var ErrUnknownPosition = errors.New("display position does not exist")

// Element is a realized row.
type Element struct {
	ID      int
	Display int
	Kind    layout.ViewType
	Index   layout.Index
	Text    string
	Frame   layout.Rect
}

func (e *Element) String() string {
	return fmt.Sprintf("#%d %s@%d %q", e.ID, e.Kind, e.Display, e.Text)
}

// SizeFunc returns the desired size of an entry under constraint.
type SizeFunc func(entry source.Entry, constraint layout.Size) layout.Size

// FixedExtent sizes every entry to extent along the scroll axis of o and
// fills the constraint across it. Entries of kind listed in overrides get
// their own extent.
func FixedExtent(o layout.Orientation, extent int, overrides map[layout.ViewType]int) SizeFunc {
	return func(entry source.Entry, constraint layout.Size) layout.Size {
		ext := extent
		if v, ok := overrides[entry.Kind]; ok {
			ext = v
		}
		if o == layout.Horizontal {
			h := constraint.Height
			if h == layout.Unbounded {
				h = 1
			}
			return layout.Size{Width: ext, Height: h}
		}
		w := constraint.Width
		if w == layout.Unbounded {
			w = uniseg.StringWidth(entry.Text)
		}
		return layout.Size{Width: w, Height: ext}
	}
}

// Stats counts host callbacks.
type Stats struct {
	Materialized  int `json:"materialized" yaml:"materialized"`
	Created       int `json:"created" yaml:"created"`
	Recycled      int `json:"recycled" yaml:"recycled"`
	DetachedReuse int `json:"detached_reuse" yaml:"detached_reuse"`
	Released      int `json:"released" yaml:"released"`
	Detached      int `json:"detached" yaml:"detached"`
	Rebound       int `json:"rebound" yaml:"rebound"`
	Arranged      int `json:"arranged" yaml:"arranged"`
	Live          int `json:"live" yaml:"live"`
	MaxLive       int `json:"max_live" yaml:"max_live"`
}

// Host implements layout.Host[*Element] over a source.
type Host struct {
	src  *source.Source
	size SizeFunc
	fail func(display int, kind layout.ViewType) error

	nextID   int
	pool     []*Element
	detached map[int]*Element
	live     map[*Element]struct{}
	stats    Stats
}

type Option func(*Host)

func WithSize(fn SizeFunc) Option {
	return func(h *Host) {
		h.size = fn
	}
}

// WithFailure makes Materialize fail (or panic, if fn panics) for the
// positions fn returns an error for.
func WithFailure(fn func(display int, kind layout.ViewType) error) Option {
	return func(h *Host) {
		h.fail = fn
	}
}

func New(src *source.Source, opts ...Option) *Host {
	h := &Host{
		src:      src,
		size:     FixedExtent(layout.Vertical, 1, nil),
		detached: make(map[int]*Element),
		live:     make(map[*Element]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Materialize(display int, kind layout.ViewType) (*Element, error) {
	if h.fail != nil {
		if err := h.fail(display, kind); err != nil {
			return nil, err
		}
	}
	entry, ok := h.src.Resolve(display)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPosition, display)
	}
	h.stats.Materialized++

	el, ok := h.detached[display]
	switch {
	case ok && el.Kind == kind:
		delete(h.detached, display)
		h.stats.DetachedReuse++
	case len(h.pool) > 0:
		el = h.pool[len(h.pool)-1]
		h.pool = h.pool[:len(h.pool)-1]
		h.stats.Recycled++
	default:
		el = h.takeDetached()
		if el == nil {
			h.nextID++
			el = &Element{ID: h.nextID}
			h.stats.Created++
		} else {
			h.stats.Recycled++
		}
	}
	el.Display = display
	el.Kind = kind
	el.Index = entry.Index
	el.Text = entry.Text
	el.Frame = layout.Rect{}

	h.live[el] = struct{}{}
	h.stats.Live = len(h.live)
	h.stats.MaxLive = max(h.stats.MaxLive, h.stats.Live)
	return el, nil
}

// takeDetached steals the detached element with the lowest display
// position, so reuse stays deterministic.
func (h *Host) takeDetached() *Element {
	best := -1
	for d := range h.detached {
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return nil
	}
	el := h.detached[best]
	delete(h.detached, best)
	return el
}

func (h *Host) Measure(el *Element, constraint layout.Size) layout.Size {
	return h.size(source.Entry{Kind: el.Kind, Index: el.Index, Text: el.Text}, constraint)
}

func (h *Host) Arrange(el *Element, frame layout.Rect) {
	el.Frame = frame
	h.stats.Arranged++
}

func (h *Host) Release(el *Element, detachOnly bool) {
	delete(h.live, el)
	h.stats.Live = len(h.live)
	if detachOnly {
		h.detached[el.Display] = el
		h.stats.Detached++
		return
	}
	h.pool = append(h.pool, el)
	h.stats.Released++
}

func (h *Host) Rebind(el *Element, display int) error {
	entry, ok := h.src.Resolve(display)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPosition, display)
	}
	el.Display = display
	el.Index = entry.Index
	el.Text = entry.Text
	h.stats.Rebound++
	return nil
}

func (h *Host) Stats() Stats {
	return h.stats
}

// Live reports whether el is currently realized.
func (h *Host) Live(el *Element) bool {
	_, ok := h.live[el]
	return ok
}

package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/charmbracelet/vlist/internal/tui/styles"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
	"github.com/zeebo/xxh3"
)

// maxCachedViews bounds the render cache. It is dropped wholesale when full;
// a viewport only ever needs a screenful of entries.
const maxCachedViews = 4096

// horizontalMaxWidth caps the width of a column in a horizontal list.
const horizontalMaxWidth = 24

// Element is a row (or a column, in a horizontal list) realized by the
// terminal host.
type Element struct {
	id      int
	display int
	kind    layout.ViewType
	index   layout.Index
	text    string
	frame   layout.Rect
}

func (e *Element) Display() int          { return e.display }
func (e *Element) Kind() layout.ViewType { return e.kind }
func (e *Element) Index() layout.Index   { return e.index }
func (e *Element) Text() string          { return e.text }
func (e *Element) Frame() layout.Rect    { return e.frame }
func (e *Element) String() string        { return fmt.Sprintf("#%d %s@%d", e.id, e.kind, e.display) }

// host implements layout.Host[*Element]. It renders entries with lipgloss
// and keeps released elements for reuse.
type host struct {
	src         *source.Source
	orientation layout.Orientation
	itemHeight  int
	selected    int

	nextID   int
	pool     []*Element
	detached map[int]*Element
	live     int

	views map[uint64]string
}

func newHost(src *source.Source, itemHeight int) *host {
	return &host{
		src:        src,
		itemHeight: max(itemHeight, 1),
		selected:   -1,
		detached:   make(map[int]*Element),
		views:      make(map[uint64]string),
	}
}

func (h *host) Materialize(display int, kind layout.ViewType) (*Element, error) {
	entry, ok := h.src.Resolve(display)
	if !ok {
		return nil, fmt.Errorf("materialize: no entry at display position %d", display)
	}

	el, ok := h.detached[display]
	switch {
	case ok && el.kind == kind:
		delete(h.detached, display)
	case len(h.pool) > 0:
		el = h.pool[len(h.pool)-1]
		h.pool = h.pool[:len(h.pool)-1]
	default:
		h.nextID++
		el = &Element{id: h.nextID}
	}
	el.display = display
	el.kind = kind
	el.index = entry.Index
	el.text = entry.Text
	el.frame = layout.Rect{}
	h.live++
	return el, nil
}

func (h *host) Measure(el *Element, constraint layout.Size) layout.Size {
	if h.orientation == layout.Horizontal {
		height := constraint.Height
		if height == layout.Unbounded {
			height = h.extentOf(el)
		}
		width := min(lipgloss.Width(h.style(el).Render(el.text))+1, horizontalMaxWidth)
		return layout.Size{Width: width, Height: height}
	}

	width := constraint.Width
	if width == layout.Unbounded {
		width = lipgloss.Width(h.style(el).Render(el.text))
	}
	return layout.Size{Width: width, Height: h.extentOf(el)}
}

func (h *host) extentOf(el *Element) int {
	if el.kind == layout.ItemView {
		return h.itemHeight
	}
	return 1
}

func (h *host) Arrange(el *Element, frame layout.Rect) {
	el.frame = frame
}

func (h *host) Release(el *Element, detachOnly bool) {
	h.live--
	if detachOnly {
		h.detached[el.display] = el
		return
	}
	h.pool = append(h.pool, el)
}

func (h *host) Rebind(el *Element, display int) error {
	entry, ok := h.src.Resolve(display)
	if !ok {
		return fmt.Errorf("rebind: no entry at display position %d", display)
	}
	el.display = display
	el.index = entry.Index
	el.text = entry.Text
	return nil
}

// flushDetached drops detached elements nobody claimed back during the last
// pass.
func (h *host) flushDetached() {
	for d, el := range h.detached {
		delete(h.detached, d)
		h.pool = append(h.pool, el)
	}
}

func (h *host) style(el *Element) lipgloss.Style {
	t := styles.CurrentTheme()
	switch el.kind {
	case layout.GroupHeaderView:
		return t.S().GroupHeader
	case layout.HeaderView:
		return t.S().Header
	case layout.FooterView:
		return t.S().Footer
	}
	if el.display == h.selected {
		return t.S().Selected
	}
	return t.S().Item
}

// render draws el into a block of exactly width x height cells.
func (h *host) render(el *Element, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	selected := el.kind == layout.ItemView && el.display == h.selected
	key := xxh3.HashString(fmt.Sprintf("%d|%d|%d|%t|%s", el.kind, width, height, selected, el.text))
	if view, ok := h.views[key]; ok {
		return view
	}

	style := h.style(el)
	text := ansi.Truncate(el.text, max(width-style.GetHorizontalFrameSize(), 0), "…")
	view := style.Width(width).Height(height).MaxHeight(height).Render(text)

	if len(h.views) >= maxCachedViews {
		clear(h.views)
	}
	h.views[key] = view
	return view
}

// clip cuts view, drawn at frame, down to the part inside a width x height
// viewport and returns where that part goes.
func clip(view string, frame layout.Rect, width, height int) (string, uv.Rectangle, bool) {
	top, left := max(0, -frame.Y), max(0, -frame.X)
	bottom := min(frame.Height, height-frame.Y)
	right := min(frame.Width, width-frame.X)
	if top >= bottom || left >= right {
		return "", uv.Rectangle{}, false
	}

	lines := strings.Split(view, "\n")
	if top >= len(lines) {
		return "", uv.Rectangle{}, false
	}
	lines = lines[top:min(len(lines), bottom)]
	if left > 0 || right < frame.Width {
		for i, line := range lines {
			lines[i] = ansi.Cut(line, left, right)
		}
	}
	dst := uv.Rect(frame.X+left, frame.Y+top, right-left, bottom-top)
	return strings.Join(lines, "\n"), dst, true
}

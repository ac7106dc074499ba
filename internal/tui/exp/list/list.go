// Package list is a bubbletea component that draws a virtualized list. The
// layout engine decides which rows exist and where; the component renders
// the realized rows into a screen buffer.
package list

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	uv "github.com/charmbracelet/ultraviolet"
)

const ViewportDefaultScrollSize = 2

// ErrorMsg reports a layout pass that failed. The list stays usable; the
// next pass retries.
type ErrorMsg struct {
	Err error
}

type confOptions struct {
	width, height int
	keyMap        KeyMap
	focused       bool
	enableMouse   bool
	itemHeight    int
	strategy      layout.LineStrategy[*Element]
	engineOpts    []layout.Option
}

type ListOption func(*confOptions)

// WithSize sets the size of the list.
func WithSize(width, height int) ListOption {
	return func(l *confOptions) {
		l.width = width
		l.height = height
	}
}

func WithKeyMap(keyMap KeyMap) ListOption {
	return func(l *confOptions) {
		l.keyMap = keyMap
	}
}

func WithFocus(focus bool) ListOption {
	return func(l *confOptions) {
		l.focused = focus
	}
}

func WithEnableMouse() ListOption {
	return func(l *confOptions) {
		l.enableMouse = true
	}
}

// WithItemHeight sets the extent of every item row, in cells.
func WithItemHeight(height int) ListOption {
	return func(l *confOptions) {
		l.itemHeight = height
	}
}

// WithColumns lays items out in a grid of the given number of columns.
func WithColumns(columns int) ListOption {
	return func(l *confOptions) {
		if columns > 1 {
			l.strategy = layout.Grid[*Element](columns)
		}
	}
}

// WithLayoutOptions passes options through to the layout engine.
func WithLayoutOptions(opts ...layout.Option) ListOption {
	return func(l *confOptions) {
		l.engineOpts = append(l.engineOpts, opts...)
	}
}

type List struct {
	*confOptions

	src    *source.Source
	host   *host
	engine *layout.Engine[*Element]
}

func New(src *source.Source, opts ...ListOption) *List {
	l := &List{
		confOptions: &confOptions{
			keyMap:     DefaultKeyMap(),
			focused:    true,
			itemHeight: 1,
		},
		src: src,
	}
	for _, opt := range opts {
		opt(l.confOptions)
	}
	l.host = newHost(src, l.itemHeight)
	l.engine = layout.New(l.host, src, l.strategy, l.engineOpts...)
	l.host.orientation = l.engine.Orientation()
	return l
}

func (l *List) Init() tea.Cmd {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}
	return l.measure()
}

func (l *List) Update(msg tea.Msg) (*List, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseWheelMsg:
		if !l.enableMouse {
			return l, nil
		}
		switch msg.Button {
		case tea.MouseWheelDown:
			return l, l.MoveDown(ViewportDefaultScrollSize)
		case tea.MouseWheelUp:
			return l, l.MoveUp(ViewportDefaultScrollSize)
		}
	case tea.KeyPressMsg:
		if !l.focused {
			return l, nil
		}
		extent := l.engine.ScrollExtent()
		switch {
		case key.Matches(msg, l.keyMap.Down):
			return l, l.SelectItemBelow()
		case key.Matches(msg, l.keyMap.Up):
			return l, l.SelectItemAbove()
		case key.Matches(msg, l.keyMap.LineDown):
			return l, l.MoveDown(1)
		case key.Matches(msg, l.keyMap.LineUp):
			return l, l.MoveUp(1)
		case key.Matches(msg, l.keyMap.HalfPageDown):
			return l, l.MoveDown(extent / 2)
		case key.Matches(msg, l.keyMap.HalfPageUp):
			return l, l.MoveUp(extent / 2)
		case key.Matches(msg, l.keyMap.PageDown):
			return l, l.MoveDown(extent)
		case key.Matches(msg, l.keyMap.PageUp):
			return l, l.MoveUp(extent)
		case key.Matches(msg, l.keyMap.End):
			return l, l.GoToBottom()
		case key.Matches(msg, l.keyMap.Home):
			return l, l.GoToTop()
		}
	}
	return l, nil
}

// View draws every realized element at its frame. Elements come out of the
// engine items first, so group headers pinned over items win.
func (l *List) View() string {
	if l.width <= 0 || l.height <= 0 {
		return ""
	}
	area := uv.Rect(0, 0, l.width, l.height)
	scr := uv.NewScreenBuffer(area.Dx(), area.Dy())
	for p := range l.engine.Elements() {
		view := l.host.render(p.Element, p.Frame.Width, p.Frame.Height)
		view, dst, ok := clip(view, p.Frame, l.width, l.height)
		if !ok {
			continue
		}
		uv.NewStyledString(view).Draw(scr, dst)
	}
	// The buffer ends lines with CRLF; bubbletea and lipgloss expect LF.
	return strings.ReplaceAll(scr.Render(), "\r\n", "\n")
}

func (l *List) SetSize(width, height int) tea.Cmd {
	l.width = width
	l.height = height
	return l.measure()
}

func (l *List) GetSize() (int, int) {
	return l.width, l.height
}

func (l *List) Focus() tea.Cmd {
	l.focused = true
	return nil
}

func (l *List) Blur() tea.Cmd {
	l.focused = false
	return nil
}

func (l *List) IsFocused() bool {
	return l.focused
}

func (l *List) KeyMap() KeyMap {
	return l.keyMap
}

// Engine exposes the layout engine, for inspection.
func (l *List) Engine() *layout.Engine[*Element] {
	return l.engine
}

// Reconfigure replaces the engine options and lays out from the top.
func (l *List) Reconfigure(opts ...layout.Option) tea.Cmd {
	l.engine.Reconfigure(opts...)
	l.host.orientation = l.engine.Orientation()
	clear(l.host.views)
	return l.measure()
}

// NotifyGroupOperations hands structural changes of the source to the
// engine. The first visible item stays where it is.
func (l *List) NotifyGroupOperations(ops ...layout.GroupOperation) tea.Cmd {
	if len(ops) == 0 {
		return nil
	}
	for _, op := range ops {
		l.engine.NotifyGroupOperation(op)
	}
	l.engine.RefreshHeaderAndFooter()
	if entry, ok := l.src.Resolve(l.host.selected); !ok || entry.Kind != layout.ItemView {
		l.host.selected = -1
	}
	return l.pass(l.engine.Layout())
}

// NotifyDataChanged rebuilds the window around the current first item.
func (l *List) NotifyDataChanged() tea.Cmd {
	l.engine.NotifyDataChanged()
	l.engine.RefreshHeaderAndFooter()
	return l.pass(l.engine.Layout())
}

func (l *List) MoveDown(n int) tea.Cmd {
	return l.scrollBy(n)
}

func (l *List) MoveUp(n int) tea.Cmd {
	return l.scrollBy(-n)
}

func (l *List) scrollBy(delta int) tea.Cmd {
	if delta == 0 {
		return nil
	}
	_, err := l.engine.ScrollBy(delta)
	return l.pass(err)
}

// ScrollToPosition brings a display position into view.
func (l *List) ScrollToPosition(display int, alignment layout.ScrollAlignment) tea.Cmd {
	l.engine.ScrollToPosition(display, alignment)
	return l.pass(l.engine.Layout())
}

func (l *List) GoToTop() tea.Cmd {
	if first, ok := l.src.FirstIndex(); ok {
		l.host.selected = l.src.FlattenIndex(first)
	}
	return l.ScrollToPosition(0, layout.AlignLeading)
}

// GoToBottom selects the last item and scrolls to the end of the content,
// list footer included.
func (l *List) GoToBottom() tea.Cmd {
	last, ok := l.src.LastIndex()
	if !ok {
		return nil
	}
	l.host.selected = l.src.FlattenIndex(last)
	l.engine.ScrollToPosition(l.host.selected, layout.AlignDefault)
	if err := l.engine.Layout(); err != nil {
		return l.pass(err)
	}
	_, err := l.engine.ScrollBy(l.engine.ScrollExtent())
	return l.pass(err)
}

func (l *List) SelectItemBelow() tea.Cmd {
	return l.moveSelection(layout.Forward)
}

func (l *List) SelectItemAbove() tea.Cmd {
	return l.moveSelection(layout.Back)
}

func (l *List) moveSelection(dir layout.Direction) tea.Cmd {
	entry, ok := l.src.Resolve(l.host.selected)
	if !ok || entry.Kind != layout.ItemView {
		entry, ok = l.src.Resolve(l.engine.FirstVisibleDisplayPosition())
		if !ok {
			return nil
		}
		return l.SetSelected(l.src.FlattenIndex(entry.Index))
	}
	next, ok := l.src.NextIndex(entry.Index, dir)
	if !ok {
		return nil
	}
	return l.SetSelected(l.src.FlattenIndex(next))
}

// SetSelected selects the item at a display position and brings it into
// view.
func (l *List) SetSelected(display int) tea.Cmd {
	l.host.selected = display
	return l.ScrollToPosition(display, layout.AlignDefault)
}

// Selected returns the display position of the selected item, or -1.
func (l *List) Selected() int {
	return l.host.selected
}

// SelectedEntry resolves the selected item.
func (l *List) SelectedEntry() (source.Entry, bool) {
	return l.src.Resolve(l.host.selected)
}

func (l *List) measure() tea.Cmd {
	if l.width <= 0 || l.height <= 0 {
		return nil
	}
	if _, err := l.engine.Measure(layout.Size{Width: l.width, Height: l.height}); err != nil {
		return l.pass(err)
	}
	return l.pass(l.engine.Layout())
}

// pass finishes a layout pass: exposes the next page of the source when
// the engine came close to the end of it and reports failures.
func (l *List) pass(err error) tea.Cmd {
	if err == nil && l.src.LoadMore() {
		l.engine.NotifyDataChanged()
		l.engine.RefreshHeaderAndFooter()
		err = l.engine.Layout()
	}
	l.host.flushDetached()
	if err == nil {
		return nil
	}
	if !errors.Is(err, layout.ErrLayoutAborted) {
		slog.Error("Unexpected list error", "error", err)
	}
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}

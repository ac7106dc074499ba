// Package tcellhost runs the list on a tcell screen. A headless host keeps
// the realized elements; this package draws their frames and turns key and
// mouse events into scrolls.
package tcellhost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/vlist/internal/app"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/headless"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/log"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/charmbracelet/vlist/internal/tui/styles"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

const (
	// columnWidth caps the width of a column in a horizontal list.
	columnWidth = 24
	wheelStep   = 2
)

// configEvent is posted by the config watcher.
type configEvent struct {
	tcell.EventTime
}

func newConfigEvent() *configEvent {
	ev := &configEvent{}
	ev.SetEventNow()
	return ev
}

type Viewer struct {
	screen  tcell.Screen
	app     *app.App
	palette palette

	src    *source.Source
	host   *headless.Host
	engine *layout.Engine[*headless.Element]

	notice string
	err    error
}

func New(screen tcell.Screen, a *app.App) (*Viewer, error) {
	v := &Viewer{
		screen:  screen,
		app:     a,
		palette: newPalette(styles.CurrentTheme()),
	}
	if err := v.rebuild(); err != nil {
		return nil, err
	}
	return v, nil
}

// sizeOf sizes rows to the viewport width, or columns to their label in a
// horizontal list.
func sizeOf(o layout.Orientation, itemHeight int) headless.SizeFunc {
	return func(entry source.Entry, constraint layout.Size) layout.Size {
		natural := uniseg.StringWidth(entry.Text) + 2
		if o == layout.Horizontal {
			h := constraint.Height
			if h == layout.Unbounded {
				h = 1
			}
			return layout.Size{Width: min(natural, columnWidth), Height: h}
		}
		extent := 1
		if entry.Kind == layout.ItemView {
			extent = itemHeight
		}
		w := constraint.Width
		if w == layout.Unbounded {
			w = natural
		}
		return layout.Size{Width: w, Height: extent}
	}
}

func (v *Viewer) rebuild() error {
	cfg := v.app.Config
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	orientation, err := layout.ParseOrientation(cfg.Layout.Orientation)
	if err != nil {
		return err
	}
	var strategy layout.LineStrategy[*headless.Element]
	if cfg.Layout.GridColumns > 1 {
		strategy = layout.Grid[*headless.Element](cfg.Layout.GridColumns)
	}
	v.src = v.app.Source()
	v.host = headless.New(v.src, headless.WithSize(sizeOf(orientation, max(cfg.Dataset.ItemHeight, 1))))
	v.engine = layout.New(v.host, v.src, strategy, opts...)
	return nil
}

// Engine exposes the layout engine, for inspection.
func (v *Viewer) Engine() *layout.Engine[*headless.Element] {
	return v.engine
}

// Resize measures the engine against the screen, less the status line.
func (v *Viewer) Resize() {
	w, h := v.screen.Size()
	if w <= 0 || h <= 0 {
		return
	}
	_, err := v.engine.Measure(layout.Size{Width: w, Height: max(h-1, 1)})
	if err == nil {
		err = v.engine.Layout()
	}
	v.pass(err)
}

// pass finishes a layout pass: it exposes the next page of the source when
// the engine came close to its end and records failures.
func (v *Viewer) pass(err error) {
	if err == nil && v.src.LoadMore() {
		v.engine.NotifyDataChanged()
		v.engine.RefreshHeaderAndFooter()
		err = v.engine.Layout()
	}
	if err != nil && !errors.Is(err, layout.ErrLayoutAborted) {
		slog.Error("Unexpected layout error", "error", err)
	}
	v.err = err
}

func (v *Viewer) ScrollBy(delta int) {
	if delta == 0 {
		return
	}
	_, err := v.engine.ScrollBy(delta)
	v.pass(err)
}

func (v *Viewer) ScrollToPosition(display int, alignment layout.ScrollAlignment) {
	v.engine.ScrollToPosition(display, alignment)
	v.pass(v.engine.Layout())
}

// ScrollToEnd brings the last item into view and then scrolls past it to
// the end of the content.
func (v *Viewer) ScrollToEnd() {
	last, ok := v.src.LastIndex()
	if !ok {
		return
	}
	v.engine.ScrollToPosition(v.src.FlattenIndex(last), layout.AlignDefault)
	if err := v.engine.Layout(); err != nil {
		v.pass(err)
		return
	}
	v.ScrollBy(v.engine.ScrollExtent())
}

// HandleKey applies a key press and reports whether it asks to quit.
func (v *Viewer) HandleKey(ev *tcell.EventKey) bool {
	extent := v.engine.ScrollExtent()
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return true
	case tcell.KeyDown, tcell.KeyRight:
		v.ScrollBy(1)
	case tcell.KeyUp, tcell.KeyLeft:
		v.ScrollBy(-1)
	case tcell.KeyPgDn:
		v.ScrollBy(extent)
	case tcell.KeyPgUp:
		v.ScrollBy(-extent)
	case tcell.KeyHome:
		v.ScrollToPosition(0, layout.AlignLeading)
	case tcell.KeyEnd:
		v.ScrollToEnd()
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case 'j', 'l':
			v.ScrollBy(1)
		case 'k', 'h':
			v.ScrollBy(-1)
		case 'f', ' ':
			v.ScrollBy(extent)
		case 'b':
			v.ScrollBy(-extent)
		case 'd':
			v.ScrollBy(extent / 2)
		case 'u':
			v.ScrollBy(-extent / 2)
		case 'g':
			v.ScrollToPosition(0, layout.AlignLeading)
		case 'G':
			v.ScrollToEnd()
		case 's':
			v.setConfig(v.app.Config.SetStickyHeaders(!v.app.Config.StickyHeaders()))
		case 'n':
			snap, _ := layout.ParseSnapPoints(v.app.Config.Layout.SnapPoints)
			v.setConfig(v.app.Config.SetSnapPoints((snap + 1) % (layout.SnapFar + 1)))
		}
	}
	return false
}

func (v *Viewer) setConfig(err error) {
	if err != nil {
		v.err = err
		return
	}
	v.reconfigure()
}

func (v *Viewer) HandleMouse(ev *tcell.EventMouse) {
	switch {
	case ev.Buttons()&tcell.WheelDown != 0:
		v.ScrollBy(wheelStep)
	case ev.Buttons()&tcell.WheelUp != 0:
		v.ScrollBy(-wheelStep)
	}
}

// reconfigure applies the layout section of the config and keeps the first
// visible item in place.
func (v *Viewer) reconfigure() {
	opts, err := v.app.Config.EngineOptions()
	if err != nil {
		v.err = err
		return
	}
	first := v.engine.FirstVisibleDisplayPosition()
	v.engine.Reconfigure(opts...)
	v.Resize()
	if first >= 0 {
		v.ScrollToPosition(first, layout.AlignLeading)
	}
}

// Reload reads the config again and rebuilds the list from it.
func (v *Viewer) Reload() {
	first := v.engine.FirstVisibleDisplayPosition()
	if _, err := v.app.Reload(); err != nil {
		v.err = fmt.Errorf("config reload: %w", err)
		return
	}
	if err := v.rebuild(); err != nil {
		v.err = err
		return
	}
	v.notice = "Config reloaded"
	v.Resize()
	if first >= 0 && first < v.src.DisplayCount() {
		v.ScrollToPosition(first, layout.AlignLeading)
	}
}

func (v *Viewer) Restore(ctx context.Context) {
	p, ok, err := v.app.RestorePosition(ctx, v.src.DisplayCount())
	if err != nil {
		slog.Warn("Failed to restore position", "error", err)
		return
	}
	if ok {
		v.ScrollToPosition(p.Display, p.Alignment)
	}
}

func (v *Viewer) Save(ctx context.Context) {
	e := v.engine
	if err := v.app.SavePosition(ctx, e.FirstVisibleDisplayPosition(), e.ScrollOffset(), v.src.ItemCount()); err != nil {
		slog.Error("Failed to save position", "error", err)
	}
}

// Draw paints the realized elements and the status line and shows the
// screen.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	listHeight := max(h-1, 1)
	for p := range v.engine.Elements() {
		style, indent := v.palette.of(p.Kind)
		drawEntry(v.screen, p.Frame, p.Element.Text, indent, style, w, listHeight)
	}
	if h > 1 {
		v.drawStatus(w, h-1)
	}
	v.screen.Show()
}

func (v *Viewer) drawStatus(width, y int) {
	style, text := v.palette.status, v.statusText()
	if v.err != nil {
		style, text = v.palette.statusError, v.err.Error()
	}
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	drawEntry(v.screen, layout.Rect{X: 0, Y: y, Width: width, Height: 1}, text, 1, style, width, y+1)
}

func (v *Viewer) statusText() string {
	cfg := v.app.Config
	e := v.engine
	sticky := "off"
	if cfg.StickyHeaders() {
		sticky = "on"
	}
	text := fmt.Sprintf("%s  first %d  offset %d/%d  sticky %s  snap %s",
		cfg.Dataset.Name,
		e.FirstVisibleDisplayPosition(),
		e.ScrollOffset(),
		e.ScrollRange(),
		sticky,
		cfg.Layout.SnapPoints,
	)
	if v.notice != "" {
		text += "  " + v.notice
	}
	return text
}

// Run opens the terminal and runs the viewer on it until the user quits or
// ctx is done.
func Run(ctx context.Context, a *app.App) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	return Loop(ctx, screen, a)
}

// Loop runs the viewer on an initialized screen. The last position is saved
// on the way out.
func Loop(ctx context.Context, screen tcell.Screen, a *app.App) error {
	v, err := New(screen, a)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		defer log.RecoverPanic("tcell-config-watch", nil)
		err := config.Watch(ctx, a.Config.Paths(), func() {
			_ = screen.PostEvent(newConfigEvent())
		})
		if err != nil {
			slog.Warn("Config watcher stopped", "error", err)
		}
	}()

	v.Resize()
	v.Restore(ctx)
	v.Draw()

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)
	for {
		select {
		case <-ctx.Done():
			v.Save(context.WithoutCancel(ctx))
			return nil
		case ev, ok := <-events:
			if !ok || ev == nil {
				v.Save(ctx)
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				v.Resize()
			case *tcell.EventKey:
				if v.HandleKey(ev) {
					v.Save(ctx)
					return nil
				}
			case *tcell.EventMouse:
				v.HandleMouse(ev)
			case *configEvent:
				v.Reload()
			case *tcell.EventError:
				return ev
			}
			v.Draw()
		}
	}
}

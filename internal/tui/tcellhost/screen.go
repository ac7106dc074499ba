package tcellhost

import (
	"image/color"

	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/tui/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"
)

// clippedScreen drops everything drawn outside of its rectangle.
type clippedScreen struct {
	tcell.Screen
	x      int
	y      int
	width  int
	height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	if !s.inBounds(x, y) {
		return
	}
	s.Screen.SetContent(x, y, primary, combining, style)
}

func (s *clippedScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y || y >= s.y+s.height {
		return
	}

	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if x >= s.x+s.width {
			return
		}
		if x >= s.x && x+width <= s.x+s.width {
			runes := []rune(cluster)
			s.Screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += width
	}
}

// fill paints every cell of the rectangle with style.
func (s *clippedScreen) fill(x, y, width, height int, style tcell.Style) {
	for row := y; row < y+height; row++ {
		for col := x; col < x+width; col++ {
			s.SetContent(col, row, ' ', nil, style)
		}
	}
}

// intersect clips frame to a width x height viewport at the origin.
func intersect(frame layout.Rect, width, height int) (x, y, w, h int, ok bool) {
	x, y = max(frame.X, 0), max(frame.Y, 0)
	right := min(frame.X+frame.Width, width)
	bottom := min(frame.Y+frame.Height, height)
	if x >= right || y >= bottom {
		return 0, 0, 0, 0, false
	}
	return x, y, right - x, bottom - y, true
}

// drawEntry paints a realized element: its frame in the background of style
// and its text on the first row, indented and truncated to the frame.
func drawEntry(screen tcell.Screen, frame layout.Rect, text string, indent int, style tcell.Style, width, height int) {
	x, y, w, h, ok := intersect(frame, width, height)
	if !ok {
		return
	}
	clipped := newClippedScreen(screen, x, y, w, h)
	clipped.fill(x, y, w, h, style)
	text = ansi.Truncate(text, max(frame.Width-indent, 0), "…")
	clipped.PutStrStyled(frame.X+indent, frame.Y, text, style)
}

func tcellColor(c color.Color) tcell.Color {
	if c == nil {
		return tcell.ColorDefault
	}
	return tcell.FromImageColor(c)
}

// palette maps the theme onto tcell styles.
type palette struct {
	item, groupHeader, chrome tcell.Style
	status, statusError       tcell.Style
}

func newPalette(t *styles.Theme) palette {
	base := tcell.StyleDefault.Foreground(tcellColor(t.FgBase))
	return palette{
		item:        base,
		groupHeader: base.Foreground(tcellColor(t.Secondary)).Background(tcellColor(t.BgSubtle)).Bold(true),
		chrome:      base.Foreground(tcellColor(t.FgMuted)),
		status:      base.Foreground(tcellColor(t.FgMuted)).Background(tcellColor(t.BgOverlay)),
		statusError: base.Foreground(tcellColor(t.Error)).Background(tcellColor(t.BgOverlay)),
	}
}

func (p palette) of(kind layout.ViewType) (tcell.Style, int) {
	switch kind {
	case layout.GroupHeaderView:
		return p.groupHeader, 1
	case layout.HeaderView, layout.FooterView:
		return p.chrome, 1
	}
	return p.item, 2
}

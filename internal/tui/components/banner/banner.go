// Package banner draws the block-letter banner shown when the list has
// nothing to show.
package banner

import (
	"image/color"
	"strings"
	"unicode"

	"github.com/MakeNowJust/heredoc"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/rivo/uniseg"
)

var Primary = heredoc.Doc(`
	█ █ █   █ █▀▀ ▀█▀
	▀▄▀ █   █ ▀▀█  █
	 ▀  ▀▀▀ ▀ ▀▀▀  ▀
`)

type Banner struct {
	face  string
	style uv.Style
}

func Standard(fg color.Color) *Banner {
	return &Banner{
		face:  Primary,
		style: uv.Style{Fg: fg},
	}
}

// Size returns the width and height of the banner in cells.
func (b *Banner) Size() (int, int) {
	lines := strings.Split(strings.TrimRight(b.face, "\n"), "\n")
	w := 0
	for _, line := range lines {
		w = max(w, uniseg.StringWidth(line))
	}
	return w, len(lines)
}

// Draw sets the non-blank cells of the banner inside area, clipping what
// does not fit.
func (b *Banner) Draw(scr uv.Screen, area uv.Rectangle) {
	for y, line := range strings.Split(b.face, "\n") {
		if area.Min.Y+y >= area.Max.Y {
			return
		}
		x := 0
		for _, r := range line {
			pos := area.Min.X + x
			x++
			if unicode.IsSpace(r) || pos >= area.Max.X {
				continue
			}
			cell := uv.Cell{
				Style:   b.style,
				Content: string(r),
				Width:   1,
			}
			scr.SetCell(pos, area.Min.Y+y, &cell)
		}
	}
}

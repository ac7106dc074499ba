// Package styles holds the palette and lipgloss styles shared by the
// terminal hosts.
package styles

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/exp/charmtone"
)

type Theme struct {
	Primary   color.Color
	Secondary color.Color
	Accent    color.Color

	FgBase   color.Color
	FgMuted  color.Color
	FgSubtle color.Color

	BgBase    color.Color
	BgSubtle  color.Color
	BgOverlay color.Color

	Success color.Color
	Error   color.Color
	Info    color.Color

	styles *Styles
}

// Styles are the element styles of the list and the status line.
type Styles struct {
	Base        lipgloss.Style
	Item        lipgloss.Style
	Selected    lipgloss.Style
	GroupHeader lipgloss.Style
	Header      lipgloss.Style
	Footer      lipgloss.Style

	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style
	StatusError lipgloss.Style
	Notice      lipgloss.Style
	Filter      lipgloss.Style
	Muted       lipgloss.Style
}

var current = NewCharmtoneTheme()

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	return current
}

func NewCharmtoneTheme() *Theme {
	return &Theme{
		Primary:   charmtone.Charple,
		Secondary: charmtone.Dolly,
		Accent:    charmtone.Zest,

		FgBase:   charmtone.Ash,
		FgMuted:  charmtone.Squid,
		FgSubtle: charmtone.Oyster,

		BgBase:    charmtone.Pepper,
		BgSubtle:  charmtone.Charcoal,
		BgOverlay: charmtone.Iron,

		Success: charmtone.Guac,
		Error:   charmtone.Sriracha,
		Info:    charmtone.Malibu,
	}
}

// S returns the styles derived from the theme.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:     base,
		Item:     base.PaddingLeft(2),
		Selected: base.PaddingLeft(2).Bold(true).Foreground(t.Primary).Background(t.BgSubtle),
		GroupHeader: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Secondary).
			Background(t.BgSubtle).
			PaddingLeft(1),
		Header: lipgloss.NewStyle().
			Foreground(t.Info).
			Italic(true).
			PaddingLeft(1),
		Footer: lipgloss.NewStyle().
			Foreground(t.FgMuted).
			Italic(true).
			PaddingLeft(1),

		StatusBar:   lipgloss.NewStyle().Background(t.BgOverlay).Foreground(t.FgBase).Padding(0, 1),
		StatusKey:   lipgloss.NewStyle().Background(t.BgOverlay).Foreground(t.FgMuted),
		StatusValue: lipgloss.NewStyle().Background(t.BgOverlay).Foreground(t.Accent),
		StatusError: lipgloss.NewStyle().Background(t.Error).Foreground(t.FgBase).Padding(0, 1),
		Notice:      lipgloss.NewStyle().Foreground(t.Success).PaddingLeft(1),
		Filter:      lipgloss.NewStyle().Foreground(t.Primary).PaddingLeft(1),
		Muted:       lipgloss.NewStyle().Foreground(t.FgSubtle),
	}
}

package tui

import (
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/vlist/internal/tui/exp/list"
)

type KeyMap struct {
	Quit,
	Help,
	Filter,
	ClearFilter,
	ToggleSticky,
	CycleSnap,
	ToggleOrientation key.Binding

	List list.KeyMap
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter groups"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear filter"),
		),
		ToggleSticky: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sticky headers"),
		),
		CycleSnap: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "snap points"),
		),
		ToggleOrientation: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "orientation"),
		),
		List: list.DefaultKeyMap(),
	}
}

func (k KeyMap) KeyBindings() []key.Binding {
	return []key.Binding{
		k.Filter,
		k.ClearFilter,
		k.ToggleSticky,
		k.CycleSnap,
		k.ToggleOrientation,
		k.Help,
		k.Quit,
	}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	m := [][]key.Binding{}
	slice := append(k.List.KeyBindings(), k.KeyBindings()...)
	for i := 0; i < len(slice); i += 4 {
		end := min(i+4, len(slice))
		m = append(m, slice[i:end])
	}
	return m
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.List.Down,
		k.List.PageDown,
		k.Filter,
		k.Help,
		k.Quit,
	}
}

// Package tui is the interactive bubbletea front end: a virtualized list
// over the configured dataset with a fuzzy group filter, a status line and
// live config reload.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/v2/help"
	"github.com/charmbracelet/bubbles/v2/key"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/vlist/internal/app"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/charmbracelet/vlist/internal/tui/components/banner"
	"github.com/charmbracelet/vlist/internal/tui/exp/list"
	"github.com/charmbracelet/vlist/internal/tui/styles"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"
)

// configChangedMsg is posted by the config watcher.
type configChangedMsg struct{}

type Model struct {
	ctx    context.Context
	app    *app.App
	src    *source.Source
	list   *list.List
	events chan tea.Msg

	// shown lists the dataset indexes of the groups the source shows.
	shown []int

	keyMap    KeyMap
	help      help.Model
	filter    textinput.Model
	filtering bool
	showHelp  bool
	restored  bool

	width, height int
	notice        string
	err           error
}

func New(ctx context.Context, a *app.App) (*Model, error) {
	m := &Model{
		ctx:    ctx,
		app:    a,
		events: make(chan tea.Msg, 1),
		keyMap: DefaultKeyMap(),
		help:   help.New(),
	}
	m.filter = textinput.New()
	m.filter.Prompt = "/ "
	m.filter.Placeholder = "filter groups"

	if err := m.rebuild(); err != nil {
		return nil, err
	}

	needs, err := config.ProjectNeedsInitialization(a.Config)
	if err != nil {
		slog.Warn("Failed to check project initialization", "error", err)
	}
	if needs {
		m.notice = "First run here: `vlist config init` writes a project config"
		if err := config.MarkProjectInitialized(a.Config); err != nil {
			slog.Warn("Failed to mark project initialized", "error", err)
		}
	}
	return m, nil
}

// ConfigChanged tells the model to reload its configuration. It is safe to
// call from any goroutine.
func (m *Model) ConfigChanged() {
	select {
	case m.events <- configChangedMsg{}:
	default:
	}
}

func (m *Model) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

// rebuild creates the source and the list from the current config, showing
// the whole dataset.
func (m *Model) rebuild() error {
	cfg := m.app.Config
	opts, err := cfg.EngineOptions()
	if err != nil {
		return err
	}
	m.src = m.app.Source()
	m.shown = matchGroups(m.app.Dataset, "")
	if !cfg.Grouped() {
		m.shown = nil
	}
	m.list = list.New(m.src,
		list.WithKeyMap(m.keyMap.List),
		list.WithEnableMouse(),
		list.WithItemHeight(cfg.Dataset.ItemHeight),
		list.WithColumns(cfg.Layout.GridColumns),
		list.WithLayoutOptions(opts...),
	)
	m.filter.Reset()
	m.filtering = false
	return nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.list.Init(), m.listen())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		cmds := []tea.Cmd{m.resizeList()}
		if !m.restored {
			m.restored = true
			cmds = append(cmds, m.restorePosition())
		}
		return m, tea.Batch(cmds...)
	case configChangedMsg:
		return m, tea.Batch(m.reload(), m.listen())
	case list.ErrorMsg:
		m.err = msg.Err
		return m, nil
	case tea.KeyPressMsg:
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keyMap.Quit):
			m.savePosition()
			return m, tea.Quit
		case key.Matches(msg, m.keyMap.Help):
			m.showHelp = !m.showHelp
			return m, m.resizeList()
		case key.Matches(msg, m.keyMap.Filter):
			if !m.app.Config.Grouped() {
				m.notice = "Filtering needs a grouped dataset"
				return m, nil
			}
			m.filtering = true
			return m, tea.Batch(m.filter.Focus(), m.resizeList())
		case key.Matches(msg, m.keyMap.ClearFilter):
			return m, m.applyFilter("")
		case key.Matches(msg, m.keyMap.ToggleSticky):
			if err := m.app.Config.SetStickyHeaders(!m.app.Config.StickyHeaders()); err != nil {
				m.err = err
				return m, nil
			}
			return m, m.reconfigure()
		case key.Matches(msg, m.keyMap.CycleSnap):
			snap, _ := layout.ParseSnapPoints(m.app.Config.Layout.SnapPoints)
			if err := m.app.Config.SetSnapPoints((snap + 1) % (layout.SnapFar + 1)); err != nil {
				m.err = err
				return m, nil
			}
			return m, m.reconfigure()
		case key.Matches(msg, m.keyMap.ToggleOrientation):
			next := layout.Horizontal.String()
			if m.app.Config.Layout.Orientation == next {
				next = layout.Vertical.String()
			}
			m.app.Config.Layout.Orientation = next
			return m, m.reconfigure()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateFilter(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filter.Blur()
		return m.resizeList()
	case "esc":
		m.filtering = false
		m.filter.Blur()
		return tea.Batch(m.applyFilter(""), m.resizeList())
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return tea.Batch(cmd, m.applyFilter(m.filter.Value()))
}

// applyFilter turns the groups in and out of the source that query selects,
// so the list keeps its place through the change.
func (m *Model) applyFilter(query string) tea.Cmd {
	if !m.app.Config.Grouped() {
		return nil
	}
	if query == "" {
		m.filter.Reset()
	}
	shown, ops, err := applyGroups(m.src, m.app.Dataset, m.shown, matchGroups(m.app.Dataset, query))
	m.shown = shown
	cmd := m.list.NotifyGroupOperations(ops...)
	if err != nil {
		m.err = err
	}
	return cmd
}

// reconfigure applies the layout section of the config to the engine and
// keeps the first visible item in place.
func (m *Model) reconfigure() tea.Cmd {
	opts, err := m.app.Config.EngineOptions()
	if err != nil {
		m.err = err
		return nil
	}
	first := m.list.Engine().FirstVisibleDisplayPosition()
	cmds := []tea.Cmd{m.list.Reconfigure(opts...)}
	if first >= 0 {
		cmds = append(cmds, m.list.ScrollToPosition(first, layout.AlignLeading))
	}
	m.err = nil
	return tea.Batch(cmds...)
}

func (m *Model) reload() tea.Cmd {
	columns := m.app.Config.Layout.GridColumns
	changed, err := m.app.Reload()
	if err != nil {
		m.err = fmt.Errorf("config reload: %w", err)
		return nil
	}
	m.notice = "Config reloaded"
	if changed || columns != m.app.Config.Layout.GridColumns {
		if err := m.rebuild(); err != nil {
			m.err = err
			return nil
		}
		return tea.Batch(m.list.Init(), m.resizeList())
	}
	return m.reconfigure()
}

func (m *Model) restorePosition() tea.Cmd {
	p, ok, err := m.app.RestorePosition(m.ctx, m.src.DisplayCount())
	if err != nil {
		slog.Warn("Failed to restore position", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	slog.Debug("Restoring position", "dataset", p.Dataset, "display", p.Display)
	return m.list.ScrollToPosition(p.Display, p.Alignment)
}

func (m *Model) savePosition() {
	if len(m.shown) != len(m.app.Dataset) && m.app.Config.Grouped() {
		// Display positions of a filtered list mean nothing to the next run.
		return
	}
	e := m.list.Engine()
	if err := m.app.SavePosition(m.ctx, e.FirstVisibleDisplayPosition(), e.ScrollOffset(), m.src.ItemCount()); err != nil {
		slog.Error("Failed to save position", "error", err)
	}
}

func (m *Model) resizeList() tea.Cmd {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	return m.list.SetSize(m.width, max(m.height-m.chromeHeight(), 1))
}

func (m *Model) chromeHeight() int {
	h := 1
	if m.filtering {
		h++
	}
	if m.showHelp {
		h += lipgloss.Height(m.helpView())
	}
	return h
}

func (m *Model) helpView() string {
	m.help.ShowAll = true
	return m.help.View(m.keyMap)
}

func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	parts := []string{m.listView()}
	if m.filtering {
		parts = append(parts, styles.CurrentTheme().S().Filter.Render(m.filter.View()))
	}
	parts = append(parts, m.statusView())
	if m.showHelp {
		parts = append(parts, m.helpView())
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) listView() string {
	if m.src.DisplayCount() > 0 {
		return m.list.View()
	}
	w, h := m.list.GetSize()
	scr := uv.NewScreenBuffer(w, h)
	b := banner.Standard(styles.CurrentTheme().Primary)
	bw, bh := b.Size()
	b.Draw(scr, uv.Rect(max((w-bw)/2, 0), max((h-bh)/2, 0), bw, bh))
	return strings.ReplaceAll(scr.Render(), "\r\n", "\n")
}

func (m *Model) statusView() string {
	s := styles.CurrentTheme().S()
	if m.err != nil {
		return s.StatusError.Width(m.width).Render(fitLine(m.err.Error(), m.width-2))
	}
	e := m.list.Engine()
	cfg := m.app.Config
	sticky := "off"
	if cfg.StickyHeaders() {
		sticky = "on"
	}
	fields := []string{
		s.StatusValue.Render(cfg.Dataset.Name),
		s.StatusKey.Render("first ") + s.StatusValue.Render(fmt.Sprint(e.FirstVisibleDisplayPosition())),
		s.StatusKey.Render("offset ") + s.StatusValue.Render(fmt.Sprintf("%d/%d", e.ScrollOffset(), e.ScrollRange())),
		s.StatusKey.Render("sticky ") + s.StatusValue.Render(sticky),
		s.StatusKey.Render("snap ") + s.StatusValue.Render(cfg.Layout.SnapPoints),
	}
	if m.notice != "" {
		fields = append(fields, s.StatusKey.Render(m.notice))
	}
	return s.StatusBar.Width(m.width).Render(fitLine(strings.Join(fields, s.StatusKey.Render("  ")), m.width-2))
}

// fitLine keeps the first line of s and truncates it to width cells.
func fitLine(s string, width int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return ansi.Truncate(s, max(width, 0), "…")
}

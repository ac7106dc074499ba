package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc"
	charmlog "github.com/charmbracelet/log/v2"
	"github.com/charmbracelet/vlist/internal/app"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/headless"
	"github.com/charmbracelet/vlist/internal/layout"
	"github.com/charmbracelet/vlist/internal/source"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a scroll script against a headless list",
	Long: heredoc.Doc(`
		Lay out the configured dataset in a headless viewport, run a scroll
		script against it and print what was visible after every step.

		Steps run in a fixed order: every --scroll, then every --remove-group,
		then every --insert-group, then --to.
	`),
	Example: heredoc.Doc(`
		# Scroll down twice and back up
		vlist simulate --scroll 5 --scroll 30 --scroll -10

		# Jump to display position 120 and put it at the top
		vlist simulate --to 120 --align leading

		# Remove the first group while scrolled, as YAML
		vlist simulate --scroll 40 --remove-group 0 -f yaml
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		opts, err := simulateOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		if opts.verbose {
			slog.SetDefault(slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				Level:           charmlog.DebugLevel,
				ReportTimestamp: true,
				Prefix:          "simulate",
			})))
		}
		trace, err := runSimulate(cmd.Context(), cfg, opts)
		if err != nil {
			return err
		}
		return trace.write(cmd.OutOrStdout(), opts.format)
	},
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().IntSlice("scroll", nil, "Scroll by this many cells; repeatable")
	simulateCmd.Flags().Int("to", -1, "Scroll to this display position last")
	simulateCmd.Flags().String("align", "default", "Alignment for --to (default, leading, center)")
	simulateCmd.Flags().IntSlice("remove-group", nil, "Remove the group at this index; repeatable")
	simulateCmd.Flags().IntSlice("insert-group", nil, "Insert a group at this index; repeatable")
	simulateCmd.Flags().String("viewport", "40x10", "Viewport size as WIDTHxHEIGHT")
	simulateCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml, markdown)")
	simulateCmd.Flags().BoolP("verbose", "v", false, "Log engine activity to stderr")
}

type simulateOptions struct {
	scrolls      []int
	to           int
	align        layout.ScrollAlignment
	removeGroups []int
	insertGroups []int
	width        int
	height       int
	format       string
	verbose      bool
}

func simulateOptionsFromFlags(cmd *cobra.Command) (simulateOptions, error) {
	var opts simulateOptions
	flags := cmd.Flags()
	opts.scrolls, _ = flags.GetIntSlice("scroll")
	opts.to, _ = flags.GetInt("to")
	opts.removeGroups, _ = flags.GetIntSlice("remove-group")
	opts.insertGroups, _ = flags.GetIntSlice("insert-group")
	opts.format, _ = flags.GetString("format")
	opts.verbose, _ = flags.GetBool("verbose")

	align, _ := flags.GetString("align")
	a, err := layout.ParseScrollAlignment(align)
	if err != nil {
		return opts, err
	}
	opts.align = a

	viewport, _ := flags.GetString("viewport")
	opts.width, opts.height, err = parseViewport(viewport)
	return opts, err
}

func parseViewport(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("invalid viewport %q, want WIDTHxHEIGHT: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid viewport %q: both sides must be positive", s)
	}
	return w, h, nil
}

// simStep is the state of the list after one step of the script.
type simStep struct {
	Op           string `json:"op" yaml:"op"`
	Moved        int    `json:"moved" yaml:"moved"`
	Offset       int    `json:"offset" yaml:"offset"`
	Range        int    `json:"range" yaml:"range"`
	First        int    `json:"first" yaml:"first"`
	Last         int    `json:"last" yaml:"last"`
	Items        int    `json:"items" yaml:"items"`
	GroupHeaders int    `json:"group_headers" yaml:"group_headers"`
	Loaded       int    `json:"loaded" yaml:"loaded"`
}

type simTrace struct {
	Dataset string         `json:"dataset" yaml:"dataset"`
	Width   int            `json:"width" yaml:"width"`
	Height  int            `json:"height" yaml:"height"`
	Groups  int            `json:"groups" yaml:"groups"`
	Steps   []simStep      `json:"steps" yaml:"steps"`
	Host    headless.Stats `json:"host" yaml:"host"`
}

type simulation struct {
	src    *source.Source
	host   *headless.Host
	engine *layout.Engine[*headless.Element]
	trace  *simTrace
}

func runSimulate(ctx context.Context, cfg *config.Config, opts simulateOptions) (*simTrace, error) {
	engineOpts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	// Assertions run after every step either way.
	engineOpts = append(engineOpts, layout.WithAssertions(true))
	orientation, err := layout.ParseOrientation(cfg.Layout.Orientation)
	if err != nil {
		return nil, err
	}

	var strategy layout.LineStrategy[*headless.Element]
	if cfg.Layout.GridColumns > 1 {
		strategy = layout.Grid[*headless.Element](cfg.Layout.GridColumns)
	}
	src := app.NewSource(cfg, app.Dataset(cfg))
	host := headless.New(src, headless.WithSize(headless.FixedExtent(orientation, max(cfg.Dataset.ItemHeight, 1), map[layout.ViewType]int{
		layout.GroupHeaderView: 1,
		layout.HeaderView:      1,
		layout.FooterView:      1,
	})))
	s := &simulation{
		src:    src,
		host:   host,
		engine: layout.New(host, src, strategy, engineOpts...),
		trace: &simTrace{
			Dataset: cfg.Dataset.Name,
			Width:   opts.width,
			Height:  opts.height,
			Groups:  src.GroupCount(),
		},
	}

	if _, err := s.engine.Measure(layout.Size{Width: opts.width, Height: opts.height}); err != nil {
		return nil, err
	}
	if err := s.step(ctx, "init", 0, s.engine.Layout()); err != nil {
		return nil, err
	}

	for _, delta := range opts.scrolls {
		moved, err := s.engine.ScrollBy(delta)
		if err := s.step(ctx, fmt.Sprintf("scroll %d", delta), moved, err); err != nil {
			return nil, err
		}
	}
	for _, at := range opts.removeGroups {
		op, err := s.src.RemoveGroup(at)
		if err != nil {
			return nil, err
		}
		s.engine.NotifyGroupOperation(op)
		if err := s.step(ctx, fmt.Sprintf("remove-group %d", at), 0, s.engine.Layout()); err != nil {
			return nil, err
		}
	}
	for _, at := range opts.insertGroups {
		op, err := s.src.InsertGroup(at, source.Group{
			Key:   fmt.Sprintf("%s-inserted-%d", cfg.Dataset.Name, at),
			Title: fmt.Sprintf("Inserted %d", at),
			Size:  cfg.Dataset.ItemsPerGroup,
		})
		if err != nil {
			return nil, err
		}
		s.engine.NotifyGroupOperation(op)
		if err := s.step(ctx, fmt.Sprintf("insert-group %d", at), 0, s.engine.Layout()); err != nil {
			return nil, err
		}
	}
	if opts.to >= 0 {
		before := s.engine.ScrollOffset()
		s.engine.ScrollToPosition(opts.to, opts.align)
		err := s.engine.Layout()
		if err := s.step(ctx, fmt.Sprintf("to %d %s", opts.to, opts.align), s.engine.ScrollOffset()-before, err); err != nil {
			return nil, err
		}
	}

	s.trace.Groups = s.src.GroupCount()
	s.trace.Host = s.host.Stats()
	return s.trace, nil
}

// step finishes a pass the way the terminal hosts do, loading the next page
// when asked, and records the visible state.
func (s *simulation) step(ctx context.Context, op string, moved int, err error) error {
	if err == nil && s.src.LoadMore() {
		s.engine.NotifyDataChanged()
		err = s.engine.Layout()
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	e := s.engine
	stats := e.Stats()
	st := simStep{
		Op:           op,
		Moved:        moved,
		Offset:       e.ScrollOffset(),
		Range:        e.ScrollRange(),
		First:        e.FirstVisibleDisplayPosition(),
		Last:         e.LastVisibleDisplayPosition(),
		Items:        stats.Items,
		GroupHeaders: stats.GroupHeaders,
		Loaded:       s.src.ItemCount(),
	}
	slog.Debug("Simulation step", "op", op, "offset", st.Offset, "first", st.First, "last", st.Last, "realized", stats.Realized)
	s.trace.Steps = append(s.trace.Steps, st)
	return nil
}

func (t *simTrace) write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, err := yaml.Marshal(t)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	case "markdown", "md":
		fmt.Fprintf(w, "# %s\n\n", t.Dataset)
		fmt.Fprintf(w, "Viewport %dx%d, %d groups.\n\n", t.Width, t.Height, t.Groups)
		fmt.Fprintln(w, "| Step | Moved | Offset | First | Last | Items |")
		fmt.Fprintln(w, "|---|---|---|---|---|---|")
		for _, s := range t.Steps {
			fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d |\n", s.Op, s.Moved, s.Offset, s.First, s.Last, s.Items)
		}
	case "text":
		fmt.Fprintf(w, "%s %dx%d groups=%d\n", t.Dataset, t.Width, t.Height, t.Groups)
		for _, s := range t.Steps {
			fmt.Fprintf(w, "%s: moved=%d offset=%d first=%d last=%d\n", s.Op, s.Moved, s.Offset, s.First, s.Last)
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

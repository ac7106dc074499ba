package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/vlist/internal/app"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/log"
	"github.com/charmbracelet/vlist/internal/tui"
	"github.com/charmbracelet/vlist/internal/tui/tcellhost"
	"github.com/charmbracelet/vlist/internal/version"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().String("dataset", "", "Name of the dataset, overrides the config")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().StringP("backend", "b", "", "Terminal backend (bubbletea, tcell)")
}

var rootCmd = &cobra.Command{
	Use:   "vlist",
	Short: "Scroll through huge grouped lists in your terminal",
	Long: heredoc.Doc(`
		vlist lays out large, grouped collections incrementally: only the rows
		that are in view are ever realized, and scrolling recycles them.

		Run it to scroll through the dataset described by your config.
	`),
	Example: heredoc.Doc(`
		# Scroll through the configured dataset
		vlist

		# Use the tcell backend
		vlist --backend tcell

		# Run with debug logging in a specific directory
		vlist -d -c /path/to/project

		# Remember positions under another dataset name
		vlist --dataset inbox
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer a.Shutdown()

		if !term.IsTerminal(os.Stdout.Fd()) {
			return errors.New("vlist needs a terminal, try `vlist simulate` instead")
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		if a.Config.Options.Backend == config.BackendTcell {
			return tcellhost.Run(ctx, a)
		}
		return runBubbleTea(ctx, a)
	},
}

func runBubbleTea(ctx context.Context, a *app.App) error {
	m, err := tui.New(ctx, a)
	if err != nil {
		return err
	}
	program := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithMouseCellMotion(),
	)

	go func() {
		defer log.RecoverPanic("config-watch", nil)
		if err := config.Watch(ctx, a.Config.Paths(), m.ConfigChanged); err != nil {
			slog.Warn("Config watcher stopped", "error", err)
		}
	}()

	if _, err := program.Run(); err != nil {
		slog.Error("TUI run error", "error", err)
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config of the working directory and applies the
// flags that override it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	cwd, err := resolveCwd(cmd)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Init(cwd, debug)
	if err != nil {
		return nil, err
	}

	if dataset, _ := cmd.Flags().GetString("dataset"); dataset != "" {
		cfg.Dataset.Name = dataset
	}
	if cmd.Flags().Lookup("backend") != nil {
		backend, _ := cmd.Flags().GetString("backend")
		if backend != "" {
			if !slices.Contains([]string{config.BackendBubbleTea, config.BackendTcell}, backend) {
				return nil, fmt.Errorf("unknown backend %q", backend)
			}
			cfg.Options.Backend = backend
		}
	}
	return cfg, nil
}

// setupApp loads the config, starts logging into the data directory and
// opens the app.
func setupApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log.Setup(filepath.Join(cfg.Options.DataDirectory, "logs", "vlist.log"), cfg.Options.Debug)

	a, err := app.New(cmd.Context(), cfg)
	if err != nil {
		slog.Error("Failed to create app instance", "error", err)
		return nil, err
	}
	return a, nil
}

func resolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd == "" {
		c, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %v", err)
		}
		return c, nil
	}
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to resolve working directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to change directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

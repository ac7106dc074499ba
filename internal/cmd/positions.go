package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vlist/internal/app"
	"github.com/charmbracelet/vlist/internal/position"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "Manage saved scroll positions",
	Long:  `List and clear the scroll positions vlist remembers per dataset`,
}

var positionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved positions",
	Example: heredoc.Doc(`
		# List positions as text
		vlist positions list

		# List positions as JSON
		vlist positions list -f json
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		a, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer a.Shutdown()
		return runPositionsList(cmd.Context(), a, format, cmd.OutOrStdout())
	},
}

var positionsClearCmd = &cobra.Command{
	Use:   "clear [dataset]",
	Short: "Forget saved positions",
	Long:  `Forget the saved position of a dataset, or of every dataset when none is given`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setupApp(cmd)
		if err != nil {
			return err
		}
		defer a.Shutdown()
		return runPositionsClear(cmd.Context(), a, args, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	positionsCmd.AddCommand(positionsListCmd)
	positionsCmd.AddCommand(positionsClearCmd)

	positionsListCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml, markdown)")
}

func runPositionsList(ctx context.Context, a *app.App, format string, w io.Writer) error {
	positions, err := a.Positions.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list positions: %w", err)
	}
	return formatPositions(w, positions, format)
}

func runPositionsClear(ctx context.Context, a *app.App, args []string, w io.Writer) error {
	if len(args) == 0 {
		if err := a.Positions.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear positions: %w", err)
		}
		fmt.Fprintln(w, "Cleared all positions.")
		return nil
	}
	if err := a.Positions.Delete(ctx, args[0]); err != nil {
		return fmt.Errorf("failed to delete position %s: %w", args[0], err)
	}
	fmt.Fprintf(w, "Cleared the position of %s.\n", args[0])
	return nil
}

func formatPositions(w io.Writer, positions []position.Position, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(positions, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		data, err := yaml.Marshal(positions)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
	case "markdown", "md":
		fmt.Fprintln(w, "# Positions")
		fmt.Fprintln(w)
		if len(positions) == 0 {
			fmt.Fprintln(w, "No positions saved.")
			return nil
		}
		fmt.Fprintln(w, "| Dataset | Display | Offset | Items | Updated |")
		fmt.Fprintln(w, "|---|---|---|---|---|")
		for _, p := range positions {
			fmt.Fprintf(w, "| %s | %d | %d | %d | %s |\n", p.Dataset, p.Display, p.Offset, p.ItemCount, formatTimestamp(p.UpdatedAt))
		}
	case "text":
		if len(positions) == 0 {
			fmt.Fprintln(w, "No positions saved.")
			return nil
		}
		for _, p := range positions {
			fmt.Fprintf(w, "• %s (display: %d, offset: %d, items: %d)\n", p.Dataset, p.Display, p.Offset, p.ItemCount)
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
	return nil
}

func formatTimestamp(timestamp int64) string {
	return time.Unix(timestamp, 0).Format("2006-01-02 15:04:05")
}

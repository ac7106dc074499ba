package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and change the configuration",
	Long: heredoc.Doc(`
		Read the effective configuration, change fields of the global data
		config, print the JSON schema or write a project config.
	`),
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a field of the effective configuration",
	Example: heredoc.Doc(`
		# Print the snap points alignment
		vlist config get layout.snap_points

		# Print the whole dataset section
		vlist config get dataset
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		value, err := cfg.GetConfigField(args[0])
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a field in the global data config",
	Long: heredoc.Doc(`
		Change a field in the global data config. Values are read as JSON
		when they parse as JSON and as plain strings otherwise.
	`),
	Example: heredoc.Doc(`
		# Turn sticky headers off
		vlist config set layout.sticky_headers false

		# Lay items out in three columns
		vlist config set layout.grid_columns 3

		# Snap to the nearest edge
		vlist config set layout.snap_points near
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		var value any
		if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
			value = args[1]
		}
		if err := cfg.SetConfigField(args[0], value); err != nil {
			return err
		}
		if _, err := config.Load(cfg.WorkingDir(), false); err != nil {
			return fmt.Errorf("%s was saved but the configuration is now invalid: %w", args[0], err)
		}
		return nil
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a project config with the effective layout and dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		path, err := config.InitProjectConfig(cfg)
		if errors.Is(err, config.ErrProjectConfigExists) {
			return fmt.Errorf("%w in %s", err, cfg.WorkingDir())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSchemaCmd)
	configCmd.AddCommand(configInitCmd)
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/vlist/internal/config"
	"github.com/spf13/cobra"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by vlist",
	Long: heredoc.Doc(`
		Print the directories where vlist stores its configuration and data.
		The project data directory holds the position store and the logs.
	`),
	Example: heredoc.Doc(`
		# Print all directories
		vlist dirs

		# Print only the config directory
		vlist dirs --config

		# Print only the data directory of the current project
		vlist dirs --data
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		configOnly, _ := cmd.Flags().GetBool("config")
		dataOnly, _ := cmd.Flags().GetBool("data")

		if configOnly && dataOnly {
			return fmt.Errorf("cannot specify both --config and --data flags")
		}

		configDir := filepath.Dir(config.GlobalConfig())
		globalDataDir := filepath.Dir(config.GlobalConfigData())

		out := cmd.OutOrStdout()
		if configOnly {
			fmt.Fprintln(out, configDir)
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if dataOnly {
			fmt.Fprintln(out, cfg.Options.DataDirectory)
			return nil
		}

		fmt.Fprintf(out, "Config directory:  %s\n", configDir)
		fmt.Fprintf(out, "Global data:       %s\n", globalDataDir)
		fmt.Fprintf(out, "Project data:      %s\n", cfg.Options.DataDirectory)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
	dirsCmd.Flags().Bool("config", false, "Print only the config directory")
	dirsCmd.Flags().Bool("data", false, "Print only the project data directory")
}

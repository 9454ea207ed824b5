package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/cmdpal/internal/config"
	"github.com/oakwood-commons/cmdpal/pkg/settings"
)

var (
	configOutput  string
	configDefault bool
)

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage cmdpal configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the merged configuration",
	Long: `Get prints the embedded defaults merged with the user config file, after
row height and colors are normalized. With --default it prints the embedded
defaults, comments included.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configDefault {
			_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
			return err
		}
		data, err := runCfg.Marshal(configOutput)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show which config file is read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := ""
		if run, ok := settings.FromContext(rootCtx); ok {
			path = run.ConfigPath
		}
		if path == "" {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "(defaults only)")
			return err
		}
		state := "found"
		if _, err := os.Stat(path); err != nil {
			state = "not found, using defaults"
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", path, state)
		return err
	},
}

func init() { //nolint:gochecknoinits
	configGetCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json|toml")
	configGetCmd.Flags().BoolVar(&configDefault, "default", false, "print the embedded default config")
	configCmd.AddCommand(configGetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

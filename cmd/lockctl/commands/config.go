package commands

import (
	"github.com/spf13/cobra"

	"smartlock/config"
)

var configFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the lock configuration as TOML",
	Long: `Print the compiled-in firmware configuration as TOML.

With --file, the file is loaded and validated first, and the effective
configuration (file values over defaults) is printed.

Examples:
  # Start a configuration file from the defaults
  lockctl config > lock.toml

  # Check a configuration file
  lockctl config --file lock.toml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().StringVarP(&configFile, "file", "f", "", "Configuration file to validate and print")
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)

	cfg, err := loadConfig(configFile)
	if err != nil {
		return p.Error("Invalid configuration", err.Error(), nil)
	}
	return config.Encode(cmd.OutOrStdout(), cfg)
}

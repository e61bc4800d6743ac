package commands

import (
	"fmt"

	"github.com/pion/logging"
	"github.com/spf13/cobra"

	"smartlock/config"
	"smartlock/host/printer"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lockctl",
	Short: "lockctl - smart lock companion tool",
	Long: `lockctl talks to the smart lock over its wireless serial link and runs
the lock controller against simulated hardware.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command. Called once by main.main().
func Execute() error {
	// Errors are printed by the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func newPrinter(cmd *cobra.Command) *printer.Printer {
	return printer.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// newLoggerFactory logs to the command's error stream, at debug level with --verbose
func newLoggerFactory(cmd *cobra.Command) *logging.DefaultLoggerFactory {
	factory := logging.NewDefaultLoggerFactory()
	factory.Writer = cmd.ErrOrStderr()
	if verbose {
		factory.DefaultLogLevel = logging.LogLevelDebug
	}
	return factory
}

// loadConfig returns the firmware configuration, or the file's if a path is given
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

// Package cli implements the cupspanel command-line interface.
//
// Running the bare binary starts the panel daemon, which keeps the old
// single-purpose invocation working under systemd. Subcommands cover
// one-shot rendering (once), diagnostics (doctor) and version info.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// configFlag holds the global --config value.
var configFlag string

var rootCmd = &cobra.Command{
	Use:   "cupspanel",
	Short: "Status panel daemon for a CUPS print server",
	Long: `cupspanel polls the local CUPS scheduler and system sensors and
renders a small status dashboard: queue depth, scheduler state,
IP address, CPU temperature and load.

Frames go to a PNG file, a Linux framebuffer device or an
SPI-attached TFT panel depending on DISPLAY_MODE.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"config file (default searches ., configs, /etc/cupspanel)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cupspanel/internal/collect"
	"cupspanel/internal/config"
	"cupspanel/internal/display"
	"cupspanel/internal/logger"
	"cupspanel/internal/panel"
	"cupspanel/internal/render"
)

// shutdownGrace bounds how long we wait for the loop to blank the
// display and stop after a termination signal.
const shutdownGrace = 5 * time.Second

// runCmd starts the refresh loop, same as invoking the bare binary.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the panel refresh loop",
	Long: `Poll CUPS and the system sensors on their configured cadences and
push a frame to the display every REFRESH_SEC until interrupted.
The display is blanked on the way out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// runCommand starts the refresh loop and blocks until SIGINT or SIGTERM.
func runCommand() error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	log := logger.Get(cfg.LogLevel)

	collector := collect.New(log, collect.ExecRunner{}, collect.Options{
		Printer:  cfg.Printer,
		CUPSPoll: cfg.CUPSPoll,
		NetPoll:  cfg.NetPoll,
		TempPoll: cfg.TempPoll,
	})
	fonts := render.LoadFonts(cfg.FontPath)
	renderer := render.New(cfg.Width, cfg.Height, fonts)
	output := display.New(log, cfg)

	log.Infow("panel starting",
		"mode", cfg.DisplayMode,
		"printer", cfg.Printer,
		"refresh", cfg.Refresh,
		"font", fonts.Source(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := panel.New(log, collector, renderer, output, cfg.Refresh)
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	waitForShutdown(cancel, done, log)
	return nil
}

// waitForShutdown blocks on termination signals, then stops the loop and
// gives it a grace period to blank the display.
func waitForShutdown(cancel context.CancelFunc, done <-chan struct{}, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down panel...")
	cancel()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		log.Warnw("refresh loop did not stop in time")
	}
}

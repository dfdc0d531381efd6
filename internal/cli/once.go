package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cupspanel/internal/collect"
	"cupspanel/internal/config"
	"cupspanel/internal/display"
	"cupspanel/internal/logger"
	"cupspanel/internal/panel"
	"cupspanel/internal/render"
)

var onceOut string

// onceCmd renders a single frame and exits.
var onceCmd = &cobra.Command{
	Use:   "once",
	Short: "Render a single frame and exit",
	Long: `Collect one snapshot, render it, write the frame and exit.

Useful for cron jobs, checking layout changes, or producing a dashboard
image on machines without a display. CPU usage shows as a placeholder
because it needs two samples.

Examples:
  cupspanel once
  cupspanel once --out /tmp/frame.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return onceCommand()
	},
}

func init() {
	onceCmd.Flags().StringVar(&onceOut, "out", "", "write a PNG here instead of the configured output")
	rootCmd.AddCommand(onceCmd)
}

func onceCommand() error {
	cfg, err := config.Load(configFlag)
	if err != nil {
		return err
	}
	if onceOut != "" {
		cfg.OutputPath = onceOut
		cfg.DisplayMode = config.ModePNG
	}
	log := logger.Get(cfg.LogLevel)

	collector := collect.New(log, collect.ExecRunner{}, collect.Options{
		Printer:  cfg.Printer,
		CUPSPoll: cfg.CUPSPoll,
		NetPoll:  cfg.NetPoll,
		TempPoll: cfg.TempPoll,
	})
	renderer := render.New(cfg.Width, cfg.Height, render.LoadFonts(cfg.FontPath))
	output := display.New(log, cfg)
	defer output.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	p := panel.New(log, collector, renderer, output, cfg.Refresh)
	if err := p.RunOnce(ctx); err != nil {
		return fmt.Errorf("render frame: %w", err)
	}
	if cfg.DisplayMode == config.ModePNG {
		fmt.Printf("Wrote %s\n", cfg.OutputPath)
	}
	return nil
}

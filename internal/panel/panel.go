// Package panel runs the refresh loop: collect a snapshot, render it,
// present the frame, sleep until the next tick.
package panel

import (
	"context"
	"image"
	"time"

	"cupspanel"
	"cupspanel/internal/logger"
)

// Collector gathers a snapshot for one tick.
type Collector interface {
	Collect(ctx context.Context, now time.Time) cupspanel.Snapshot
}

// Renderer turns a snapshot into a frame.
type Renderer interface {
	Render(snap cupspanel.Snapshot) *image.RGBA
}

// Presenter shows frames and clears the output on shutdown.
type Presenter interface {
	Present(img *image.RGBA) error
	Blank() error
	Close() error
}

// Panel ties collection, rendering and output into the refresh loop.
type Panel struct {
	log       *logger.Logger
	collector Collector
	renderer  Renderer
	output    Presenter
	interval  time.Duration
	clock     Clock
}

// New assembles a panel refreshing at the given interval.
func New(log *logger.Logger, collector Collector, renderer Renderer, output Presenter, interval time.Duration) *Panel {
	return &Panel{
		log:       log,
		collector: collector,
		renderer:  renderer,
		output:    output,
		interval:  interval,
		clock:     realClock{},
	}
}

// Run refreshes the panel until ctx is canceled, then blanks and closes
// the output. The first frame is drawn right away rather than one
// interval in.
func (p *Panel) Run(ctx context.Context) {
	defer func() {
		if err := p.output.Blank(); err != nil {
			p.log.Debugw("blank display", "error", err)
		}
		if err := p.output.Close(); err != nil {
			p.log.Debugw("close display", "error", err)
		}
	}()

	p.tick(ctx, p.clock.Now())

	t := p.clock.Ticker(p.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.Chan():
			p.tick(ctx, now)
		}
	}
}

// RunOnce draws a single frame and reports the presentation error. Used
// by the one-shot CLI command.
func (p *Panel) RunOnce(ctx context.Context) error {
	snap := p.collector.Collect(ctx, p.clock.Now())
	return p.output.Present(p.renderer.Render(snap))
}

// tick produces and presents one frame. A panic stays contained to the
// tick so one bad poll cannot take the daemon down.
func (p *Panel) tick(ctx context.Context, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorw("tick panicked", "panic", r)
		}
	}()
	snap := p.collector.Collect(ctx, now)
	frame := p.renderer.Render(snap)
	if err := p.output.Present(frame); err != nil {
		p.log.Errorw("present frame", "error", err)
	}
}

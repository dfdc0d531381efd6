// Package display moves rendered frames onto an output: a PNG file, a
// Linux framebuffer device or an SPI-attached TFT panel. Device sinks
// never take the daemon down; when one rejects a frame the frame is
// written to the PNG file instead and the device is retried next tick.
package display

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"cupspanel/internal/config"
	"cupspanel/internal/logger"
)

// Sink presents frames on one output backend.
type Sink interface {
	Name() string
	// Present shows the frame. The frame is resampled when the backend
	// geometry differs from the canvas.
	Present(img *image.RGBA) error
	// Blank clears the physical output, used on shutdown. File-backed
	// sinks have nothing to clear.
	Blank() error
	Close() error
}

// Output routes frames to the configured sink with a file fallback.
type Output struct {
	log      *logger.Logger
	primary  Sink
	fallback *FileSink // nil when the primary already writes the file
}

// New builds the output for the configured display mode.
func New(log *logger.Logger, cfg *config.Config) *Output {
	file := NewFileSink(cfg.OutputPath)
	out := &Output{log: log, primary: file}
	switch cfg.DisplayMode {
	case config.ModeFB:
		out.primary = NewFBSink(cfg.Framebuffer, cfg.Width, cfg.Height)
		out.fallback = file
	case config.ModeSPI:
		out.primary = NewSPISink(cfg.SPI)
		out.fallback = file
	}
	return out
}

// Name reports the active sink.
func (o *Output) Name() string { return o.primary.Name() }

// Present pushes the frame to the primary sink. A device failure is
// logged and the frame lands in the fallback file; the device itself is
// tried again on the next frame.
func (o *Output) Present(img *image.RGBA) error {
	err := o.primary.Present(img)
	if err == nil || o.fallback == nil {
		return err
	}
	o.log.Warnw("display rejected frame, writing file instead",
		"sink", o.primary.Name(), "error", err)
	if ferr := o.fallback.Present(img); ferr != nil {
		return fmt.Errorf("%s: %v; file fallback: %w", o.primary.Name(), err, ferr)
	}
	return nil
}

// Blank clears the primary sink.
func (o *Output) Blank() error { return o.primary.Blank() }

// Close releases the primary sink's resources.
func (o *Output) Close() error { return o.primary.Close() }

// scaleTo resamples a frame to the target geometry. Frames already at
// size pass through untouched.
func scaleTo(img *image.RGBA, width, height int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

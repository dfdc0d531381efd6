package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// FileSink writes each frame as a PNG to a fixed path.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Name() string { return "png" }

// Present encodes the frame to the output path, creating parent
// directories as needed.
func (s *FileSink) Present(img *image.RGBA) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	return nil
}

// Blank is a no-op; a stale file on disk is harmless.
func (s *FileSink) Blank() error { return nil }

func (s *FileSink) Close() error { return nil }

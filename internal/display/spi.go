package display

import (
	"fmt"
	"image"

	gc9307 "github.com/photonicat/periph.io-gc9307"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"cupspanel/internal/config"
)

// SPISink drives a small TFT panel over SPI. Hardware setup is deferred
// to the first frame so constructing the sink is safe on machines
// without the panel attached.
type SPISink struct {
	cfg   config.SPIConfig
	port  spi.PortCloser
	panel gc9307.Device
	ready bool
}

func NewSPISink(cfg config.SPIConfig) *SPISink {
	return &SPISink{cfg: cfg}
}

func (s *SPISink) Name() string { return "spi" }

func (s *SPISink) setup() error {
	if s.ready {
		return nil
	}
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph host: %w", err)
	}
	port, err := spireg.Open(s.cfg.Port)
	if err != nil {
		return fmt.Errorf("open spi port %q: %w", s.cfg.Port, err)
	}
	conn, err := port.Connect(physic.Frequency(s.cfg.Hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return fmt.Errorf("connect spi: %w", err)
	}

	rst := gpioreg.ByName(s.cfg.ResetPin)
	dc := gpioreg.ByName(s.cfg.DCPin)
	cs := gpioreg.ByName(s.cfg.CSPin)
	bl := gpioreg.ByName(s.cfg.BacklightPin)
	if rst == nil || dc == nil || bl == nil {
		port.Close()
		return fmt.Errorf("resolve gpio pins rst=%s dc=%s bl=%s",
			s.cfg.ResetPin, s.cfg.DCPin, s.cfg.BacklightPin)
	}

	s.panel = gc9307.New(conn, rst, dc, cs, bl)
	s.panel.Configure(gc9307.Config{
		Width:        int16(s.cfg.Width),
		Height:       int16(s.cfg.Height),
		Rotation:     rotationFor(s.cfg.Rotation),
		RowOffset:    0,
		ColumnOffset: 0,
		FrameRate:    gc9307.FRAMERATE_60,
		VSyncLines:   gc9307.MAX_VSYNC_SCANLINES,
		UseCS:        false,
	})
	s.port = port
	s.ready = true
	return nil
}

// Present resamples the frame to the panel geometry and pushes it as one
// big-endian RGB565 bitmap.
func (s *SPISink) Present(img *image.RGBA) error {
	if err := s.setup(); err != nil {
		return err
	}
	frame := scaleTo(img, s.cfg.Width, s.cfg.Height)
	raw := encodeRGB565BE(frame)
	if err := s.panel.DrawRGBBitmap8(0, 0, raw, int16(s.cfg.Width), int16(s.cfg.Height)); err != nil {
		return fmt.Errorf("push frame: %w", err)
	}
	return nil
}

// Blank paints the panel black. Nothing to do when the panel was never
// brought up.
func (s *SPISink) Blank() error {
	if !s.ready {
		return nil
	}
	return s.Present(image.NewRGBA(image.Rect(0, 0, s.cfg.Width, s.cfg.Height)))
}

func (s *SPISink) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	s.ready = false
	return err
}

// rotationFor maps degrees to the driver's rotation constants. Unknown
// values fall back to no rotation.
func rotationFor(deg int) gc9307.Rotation {
	switch deg {
	case 90:
		return gc9307.ROTATION_90
	case 180:
		return gc9307.ROTATION_180
	case 270:
		return gc9307.ROTATION_270
	default:
		return gc9307.NO_ROTATION
	}
}

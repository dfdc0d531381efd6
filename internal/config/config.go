package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Display modes.
const (
	ModePNG = "png"
	ModeFB  = "fb"
	ModeSPI = "spi"

	// modePygame is the legacy name for the display-binding mode; unit
	// files written against the old daemon keep working.
	modePygame = "pygame"
)

// ErrBadMode reports an unrecognized DISPLAY_MODE value.
var ErrBadMode = errors.New("unknown display mode")

// Config is the resolved runtime configuration for the panel daemon.
type Config struct {
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	OutputPath  string `mapstructure:"output_path"`
	DisplayMode string `mapstructure:"display_mode"`
	Framebuffer string `mapstructure:"fbdev"`
	Printer     string `mapstructure:"printer"`
	LogLevel    string `mapstructure:"log_level"`
	FontPath    string `mapstructure:"font_path"`

	// Poll cadences, given in float seconds (REFRESH_SEC=0.5 is half a
	// second). Resolved to durations by Load.
	Refresh  time.Duration `mapstructure:"-"`
	CUPSPoll time.Duration `mapstructure:"-"`
	NetPoll  time.Duration `mapstructure:"-"`
	TempPoll time.Duration `mapstructure:"-"`

	SPI SPIConfig `mapstructure:"spi"`
}

// SPIConfig describes the SPI-attached TFT panel used by ModeSPI.
type SPIConfig struct {
	Port         string `mapstructure:"port"` // spireg name, "" = first registered port
	Hz           int64  `mapstructure:"hz"`
	Width        int    `mapstructure:"width"`
	Height       int    `mapstructure:"height"`
	ResetPin     string `mapstructure:"rst_pin"`
	DCPin        string `mapstructure:"dc_pin"`
	CSPin        string `mapstructure:"cs_pin"`
	BacklightPin string `mapstructure:"bl_pin"`
	Rotation     int    `mapstructure:"rotation"` // 0, 90, 180, 270
}

// envBindings maps viper keys to the environment variables the daemon has
// always honored. Bound explicitly because the names carry no shared prefix.
var envBindings = map[string]string{
	"width":         "WIDTH",
	"height":        "HEIGHT",
	"output_path":   "OUTPUT_PATH",
	"display_mode":  "DISPLAY_MODE",
	"fbdev":         "FBDEV",
	"printer":       "PRINTER",
	"refresh_sec":   "REFRESH_SEC",
	"cups_poll_sec": "CUPS_POLL_SEC",
	"net_poll_sec":  "NET_POLL_SEC",
	"temp_poll_sec": "TEMP_POLL_SEC",
	"log_level":     "LOG_LEVEL",
	"font_path":     "FONT_PATH",
	"spi.port":      "SPI_PORT",
	"spi.hz":        "SPI_HZ",
	"spi.width":     "SPI_WIDTH",
	"spi.height":    "SPI_HEIGHT",
	"spi.rst_pin":   "SPI_RST_PIN",
	"spi.dc_pin":    "SPI_DC_PIN",
	"spi.cs_pin":    "SPI_CS_PIN",
	"spi.bl_pin":    "SPI_BL_PIN",
	"spi.rotation":  "SPI_ROTATION",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("width", 480)
	v.SetDefault("height", 320)
	v.SetDefault("output_path", "./build/dashboard.png")
	v.SetDefault("display_mode", ModePNG)
	v.SetDefault("fbdev", "/dev/fb1")
	v.SetDefault("printer", "")
	v.SetDefault("refresh_sec", 1.0)
	v.SetDefault("cups_poll_sec", 2.0)
	v.SetDefault("net_poll_sec", 30.0)
	v.SetDefault("temp_poll_sec", 2.0)
	v.SetDefault("log_level", "info")
	v.SetDefault("font_path", "")
	v.SetDefault("spi.port", "")
	v.SetDefault("spi.hz", 40_000_000)
	v.SetDefault("spi.width", 172)
	v.SetDefault("spi.height", 320)
	v.SetDefault("spi.rst_pin", "GPIO122")
	v.SetDefault("spi.dc_pin", "GPIO121")
	v.SetDefault("spi.cs_pin", "GPIO13")
	v.SetDefault("spi.bl_pin", "GPIO13")
	v.SetDefault("spi.rotation", 0)
}

// Load resolves configuration from defaults, an optional YAML config file
// and the environment, in rising precedence. path may name a config file
// explicitly; when empty the usual locations are searched and a missing
// file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		v.AddConfigPath("/etc/cupspanel")
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.Refresh = secondsDuration(v.GetFloat64("refresh_sec"))
	cfg.CUPSPoll = secondsDuration(v.GetFloat64("cups_poll_sec"))
	cfg.NetPoll = secondsDuration(v.GetFloat64("net_poll_sec"))
	cfg.TempPoll = secondsDuration(v.GetFloat64("temp_poll_sec"))
	cfg.DisplayMode = NormalizeMode(cfg.DisplayMode)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NormalizeMode lowercases the mode and folds legacy names onto current ones.
func NormalizeMode(mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == modePygame {
		return ModeSPI
	}
	return mode
}

// Validate rejects configurations the daemon cannot run with.
func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas size %dx%d: dimensions must be positive", c.Width, c.Height)
	}
	for _, iv := range []struct {
		name string
		d    time.Duration
	}{
		{"REFRESH_SEC", c.Refresh},
		{"CUPS_POLL_SEC", c.CUPSPoll},
		{"NET_POLL_SEC", c.NetPoll},
		{"TEMP_POLL_SEC", c.TempPoll},
	} {
		if iv.d <= 0 {
			return fmt.Errorf("%s: interval must be positive", iv.name)
		}
	}
	switch c.DisplayMode {
	case ModePNG, ModeFB, ModeSPI:
	default:
		return fmt.Errorf("%w: %q", ErrBadMode, c.DisplayMode)
	}
	if c.DisplayMode == ModeSPI {
		if c.SPI.Width <= 0 || c.SPI.Height <= 0 {
			return fmt.Errorf("spi panel size %dx%d: dimensions must be positive", c.SPI.Width, c.SPI.Height)
		}
		if c.SPI.Hz <= 0 {
			return fmt.Errorf("SPI_HZ: frequency must be positive")
		}
	}
	return nil
}

func secondsDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

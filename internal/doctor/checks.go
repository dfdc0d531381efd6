package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"cupspanel"
	"cupspanel/internal/collect"
	"cupspanel/internal/config"
	"cupspanel/internal/render"
)

const probeTimeout = 3 * time.Second

// ToolCheck verifies an external command is on PATH. Degraded names the
// fallback the daemon uses without it; when empty the tool is required
// and its absence is a failure.
type ToolCheck struct {
	Tool       string
	Cat        string
	Degraded   string
	Suggestion string
}

func (c *ToolCheck) Name() string     { return c.Tool }
func (c *ToolCheck) Category() string { return c.Cat }

func (c *ToolCheck) Run() CheckResult {
	path, err := exec.LookPath(c.Tool)
	if err != nil {
		status := StatusFail
		msg := fmt.Sprintf("%s not found on PATH", c.Tool)
		if c.Degraded != "" {
			status = StatusWarn
			msg = fmt.Sprintf("%s not found on PATH; %s", c.Tool, c.Degraded)
		}
		return CheckResult{Name: c.Name(), Status: status, Message: msg, Suggestion: c.Suggestion}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: path}
}

// SchedulerCheck asks CUPS whether the scheduler is running.
type SchedulerCheck struct {
	CUPS *collect.CUPS
}

func (c *SchedulerCheck) Name() string     { return "scheduler" }
func (c *SchedulerCheck) Category() string { return "CUPS" }

func (c *SchedulerCheck) Run() CheckResult {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	status, err := c.CUPS.SchedulerStatus(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("scheduler state unknown: %v", err),
			Suggestion: "Start CUPS: systemctl start cups",
		}
	}
	if status != cupspanel.SchedulerRunning {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("CUPS scheduler is %s", status),
			Suggestion: "Start CUPS: systemctl start cups",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: "CUPS scheduler is running"}
}

// FileCheck verifies a file the daemon reads or writes is present.
type FileCheck struct {
	Label      string
	Cat        string
	Path       string
	Degraded   string // fallback description; empty makes absence a failure
	Suggestion string
}

func (c *FileCheck) Name() string     { return c.Label }
func (c *FileCheck) Category() string { return c.Cat }

func (c *FileCheck) Run() CheckResult {
	if _, err := os.Stat(c.Path); err != nil {
		status := StatusFail
		msg := fmt.Sprintf("%s missing", c.Path)
		if c.Degraded != "" {
			status = StatusWarn
			msg = fmt.Sprintf("%s missing; %s", c.Path, c.Degraded)
		}
		return CheckResult{Name: c.Name(), Status: status, Message: msg, Suggestion: c.Suggestion}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: c.Path}
}

// OutputDirCheck verifies the frame file's directory can be written.
type OutputDirCheck struct {
	Path string // the configured output file
}

func (c *OutputDirCheck) Name() string     { return "output_dir" }
func (c *OutputDirCheck) Category() string { return "OUTPUT" }

func (c *OutputDirCheck) Run() CheckResult {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("cannot create %s: %v", dir, err),
			Suggestion: "Point OUTPUT_PATH at a writable location",
		}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("cannot write in %s: %v", dir, err),
			Suggestion: "Point OUTPUT_PATH at a writable location",
		}
	}
	probe.Close()
	os.Remove(probe.Name())
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: fmt.Sprintf("%s is writable", dir)}
}

// FontCheck reports which typeface the renderer resolved.
type FontCheck struct {
	FontPath string
}

func (c *FontCheck) Name() string     { return "font" }
func (c *FontCheck) Category() string { return "RENDER" }

func (c *FontCheck) Run() CheckResult {
	fonts := render.LoadFonts(c.FontPath)
	if !fonts.Scalable() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "no scalable font found, panel text will use the 7x13 bitmap face",
			Suggestion: "Install fonts-dejavu-core or set FONT_PATH",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: fonts.Source()}
}

// SPICheck verifies the SPI bus is registered. The sink claims the port
// lazily on the first frame, so the probe only inspects the registry and
// never opens anything.
type SPICheck struct {
	Port string // spireg name, "" accepts any registered port

	// initHost and listPorts are swapped in tests.
	initHost  func() error
	listPorts func() []string
}

func (c *SPICheck) Name() string     { return "spi_port" }
func (c *SPICheck) Category() string { return "OUTPUT" }

func (c *SPICheck) Run() CheckResult {
	initHost := c.initHost
	if initHost == nil {
		initHost = periphHostInit
	}
	listPorts := c.listPorts
	if listPorts == nil {
		listPorts = spiPortNames
	}

	if err := initHost(); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("periph host init failed: %v; frames fall back to the PNG file", err),
			Suggestion: "Enable the SPI overlay (dtparam=spi=on) and reboot",
		}
	}
	names := listPorts()
	if len(names) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "no SPI ports registered; frames fall back to the PNG file",
			Suggestion: "Enable the SPI overlay (dtparam=spi=on) and reboot",
		}
	}
	if c.Port != "" {
		for _, name := range names {
			if name == c.Port {
				return CheckResult{Name: c.Name(), Status: StatusPass, Message: name}
			}
		}
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s not registered (have %s); frames fall back to the PNG file", c.Port, strings.Join(names, ", ")),
			Suggestion: "Check SPI_PORT against the registered port names",
		}
	}
	return CheckResult{Name: c.Name(), Status: StatusPass, Message: strings.Join(names, ", ")}
}

func periphHostInit() error {
	_, err := host.Init()
	return err
}

func spiPortNames() []string {
	refs := spireg.All()
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return names
}

// ChecksFor assembles the diagnostics for the active configuration.
func ChecksFor(cfg *config.Config) []Check {
	checks := []Check{
		&ToolCheck{
			Tool:       "lpstat",
			Cat:        "CUPS",
			Suggestion: "Install the CUPS client tools (apt install cups-client)",
		},
		&SchedulerCheck{CUPS: collect.NewCUPS(collect.ExecRunner{})},
		&ToolCheck{
			Tool:     "systemctl",
			Cat:      "CUPS",
			Degraded: "scheduler probing relies on lpstat alone",
		},
		&ToolCheck{
			Tool:     "hostname",
			Cat:      "NETWORK",
			Degraded: "IP discovery falls back to interface scanning",
		},
		&FileCheck{
			Label:    "thermal_zone",
			Cat:      "SENSORS",
			Path:     "/sys/class/thermal/thermal_zone0/temp",
			Degraded: "temperature falls back to vcgencmd, then gopsutil sensors",
		},
		&ToolCheck{
			Tool:     "vcgencmd",
			Cat:      "SENSORS",
			Degraded: "only used when the thermal zone is unreadable",
		},
		&FileCheck{
			Label:    "proc_stat",
			Cat:      "SENSORS",
			Path:     "/proc/stat",
			Degraded: "CPU usage will show as a placeholder",
		},
		&FontCheck{FontPath: cfg.FontPath},
		&OutputDirCheck{Path: cfg.OutputPath},
	}
	if cfg.DisplayMode == config.ModeFB {
		checks = append(checks,
			&FileCheck{
				Label:      "framebuffer",
				Cat:        "OUTPUT",
				Path:       cfg.Framebuffer,
				Degraded:   "frames fall back to the PNG file",
				Suggestion: "Check FBDEV or load the framebuffer driver",
			},
			&FileCheck{
				Label:    "fb_geometry",
				Cat:      "OUTPUT",
				Path:     filepath.Join("/sys/class/graphics", filepath.Base(cfg.Framebuffer), "virtual_size"),
				Degraded: "panel geometry defaults to the canvas at 16 bpp",
			},
		)
	}
	if cfg.DisplayMode == config.ModeSPI {
		checks = append(checks, &SPICheck{Port: cfg.SPI.Port})
	}
	return checks
}

package collect

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

const defaultThermalZone = "/sys/class/thermal/thermal_zone0/temp"

// cpuSensorKeys are sensor-table names that plausibly mean the SoC die, in
// preference order.
var cpuSensorKeys = []string{"cpu_thermal", "cpu-thermal", "soc_thermal", "coretemp", "cpu"}

// Thermal reads the SoC temperature.
type Thermal struct {
	run      CommandRunner
	zonePath string
	// sensors lists host temperature sensors; swapped in tests.
	sensors func(context.Context) ([]host.TemperatureStat, error)
}

// NewThermal returns a Thermal collector using the given runner.
func NewThermal(run CommandRunner) *Thermal {
	return &Thermal{
		run:      run,
		zonePath: defaultThermalZone,
		sensors:  host.SensorsTemperaturesWithContext,
	}
}

// TemperatureC reads the CPU temperature in degrees Celsius. The kernel
// thermal zone is authoritative; vcgencmd and the host sensor table cover
// systems without thermal_zone0. nil means unavailable.
func (t *Thermal) TemperatureC(ctx context.Context) (*float64, error) {
	if raw, err := os.ReadFile(t.zonePath); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64); err == nil {
			c := v / 1000.0
			return &c, nil
		}
	}

	if out, err := t.run.Output(ctx, "vcgencmd", "measure_temp"); err == nil {
		if v, ok := parseVcgencmdTemp(out); ok {
			return &v, nil
		}
	}

	stats, err := t.sensors(ctx)
	if err != nil {
		return nil, fmt.Errorf("read temperature: %w", err)
	}
	for _, key := range cpuSensorKeys {
		for _, st := range stats {
			if strings.Contains(st.SensorKey, key) && st.Temperature > 0 {
				v := st.Temperature
				return &v, nil
			}
		}
	}
	return nil, nil
}

// parseVcgencmdTemp parses the firmware tool's "temp=45.2'C" form.
func parseVcgencmdTemp(out string) (float64, bool) {
	s := strings.TrimSpace(out)
	if !strings.HasPrefix(s, "temp=") || !strings.HasSuffix(s, "'C") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[len("temp="):len(s)-len("'C")], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

package collect

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// cpuSample holds cumulative jiffies from one read of the kernel's
// aggregate cpu line.
type cpuSample struct {
	idle  uint64 // idle + iowait
	total uint64
}

// CPU derives utilization from the delta between consecutive samples of
// the kernel's cumulative counters. A single sample carries no rate, so
// the first call after process start reports nil.
type CPU struct {
	statPath string
	prev     *cpuSample
}

// NewCPU returns a CPU collector reading /proc/stat.
func NewCPU() *CPU {
	return &CPU{statPath: "/proc/stat"}
}

// UsagePercent returns utilization over the window since the previous
// call, clamped to [0,100]. nil when there is no prior sample or the
// counters did not advance. A failed read keeps the prior sample so the
// next window stays meaningful.
func (c *CPU) UsagePercent() (*float64, error) {
	cur, err := c.readSample()
	if err != nil {
		return nil, fmt.Errorf("cpu sample: %w", err)
	}
	prev := c.prev
	c.prev = cur
	if prev == nil {
		return nil, nil
	}

	totalDelta := float64(cur.total) - float64(prev.total)
	idleDelta := float64(cur.idle) - float64(prev.idle)
	if totalDelta <= 0 {
		return nil, nil
	}
	pct := (1.0 - idleDelta/totalDelta) * 100.0
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return &pct, nil
}

// readSample parses the first line of /proc/stat:
// "cpu  <user> <nice> <system> <idle> <iowait> ...".
func (c *CPU) readSample() (*cpuSample, error) {
	f, err := os.Open(c.statPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("%s: no data", c.statPath)
	}
	fields := strings.Fields(sc.Text())
	if len(fields) < 5 || fields[0] != "cpu" {
		return nil, fmt.Errorf("%s: unexpected first line %q", c.statPath, sc.Text())
	}

	var s cpuSample
	for i, field := range fields[1:] {
		v, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: parse %q: %w", c.statPath, field, err)
		}
		s.total += v
		if i == 3 || i == 4 { // idle, iowait
			s.idle += v
		}
	}
	return &s, nil
}

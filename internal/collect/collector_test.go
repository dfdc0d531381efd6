package collect

import (
	"context"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"cupspanel"
	"cupspanel/internal/logger"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// quietCollector builds a Collector whose gauge sources are pinned to
// stable stubs so cadence assertions only see the stubbed runner.
func quietCollector(t *testing.T, run CommandRunner, opts Options) *Collector {
	t.Helper()
	c := New(logger.Get(logger.ErrorLevel), run, opts)
	c.cpu.statPath = filepath.Join(t.TempDir(), "missing-stat")
	c.thermal.zonePath = filepath.Join(t.TempDir(), "missing-zone")
	c.thermal.run = failingRunner{}
	c.thermal.sensors = func(context.Context) ([]host.TemperatureStat, error) {
		return nil, errors.New("no sensors in test")
	}
	c.memory.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: 41.5}, nil
	}
	return c
}

type failingRunner struct{}

func (failingRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	return "", errors.New(name + ": not found")
}

func TestCollector_RefreshCadence(t *testing.T) {
	run := &cupsRunnerStub{results: map[string]string{
		"lpstat -r":   "scheduler is running\n",
		"lpstat -p":   "printer office is idle.  enabled\n",
		"lpstat -o":   "office-1  alice  100  Tue\n",
		"hostname -I": "192.168.1.7\n",
	}}
	c := quietCollector(t, run, Options{
		CUPSPoll: 2 * time.Second,
		NetPoll:  30 * time.Second,
		TempPoll: 2 * time.Second,
	})

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	c.Collect(ctx, base)
	if got := run.calls["lpstat -p"]; got != 1 {
		t.Fatalf("first tick: lpstat -p calls want 1, got %d", got)
	}
	if got := run.calls["hostname -I"]; got != 1 {
		t.Fatalf("first tick: hostname calls want 1, got %d", got)
	}

	// Inside every interval: cached values only, no re-invocation.
	c.Collect(ctx, base.Add(time.Second))
	if got := run.calls["lpstat -p"]; got != 1 {
		t.Errorf("within interval: lpstat -p calls want 1, got %d", got)
	}
	if got := run.calls["lpstat -r"]; got != 1 {
		t.Errorf("within interval: lpstat -r calls want 1, got %d", got)
	}
	if got := run.calls["hostname -I"]; got != 1 {
		t.Errorf("within interval: hostname calls want 1, got %d", got)
	}
	// The queue length is uncached: -o runs for the count every tick plus
	// once per printer-info refresh.
	if got := run.calls["lpstat -o"]; got != 3 {
		t.Errorf("within interval: lpstat -o calls want 3, got %d", got)
	}

	// At the interval boundary: exactly one re-invocation.
	c.Collect(ctx, base.Add(2*time.Second))
	if got := run.calls["lpstat -p"]; got != 2 {
		t.Errorf("past interval: lpstat -p calls want 2, got %d", got)
	}
	if got := run.calls["hostname -I"]; got != 1 {
		t.Errorf("past interval: hostname stays cached, want 1, got %d", got)
	}

	c.Collect(ctx, base.Add(30*time.Second))
	if got := run.calls["hostname -I"]; got != 2 {
		t.Errorf("past net interval: hostname calls want 2, got %d", got)
	}
}

func TestCollector_SnapshotFields(t *testing.T) {
	run := &cupsRunnerStub{results: map[string]string{
		"lpstat -r":   "scheduler is running\n",
		"lpstat -p":   "printer office is idle.  enabled\n",
		"lpstat -o":   "office-1  alice  100  Tue\nlobby-2  bob  200  Tue\n",
		"hostname -I": "192.168.1.7\n",
	}}
	c := quietCollector(t, run, Options{
		CUPSPoll: 2 * time.Second,
		NetPoll:  30 * time.Second,
		TempPoll: 2 * time.Second,
	})

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	snap := c.Collect(context.Background(), now)

	if snap.PrinterName != "office" {
		t.Errorf("printer name: want office, got %q", snap.PrinterName)
	}
	// The queue count is filtered by the resolved printer name, so the
	// lobby job does not count.
	if snap.QueueSize != 1 {
		t.Errorf("queue size: want 1, got %d", snap.QueueSize)
	}
	if snap.Scheduler != cupspanel.SchedulerRunning {
		t.Errorf("scheduler: want running, got %q", snap.Scheduler)
	}
	if snap.CurrentJob == "" {
		t.Error("current job: want non-empty")
	}
	if snap.State != cupspanel.StatePrinting {
		t.Errorf("derived state: want printing, got %q", snap.State)
	}
	if snap.IPAddr != "192.168.1.7" {
		t.Errorf("ip: want 192.168.1.7, got %q", snap.IPAddr)
	}
	if snap.CPUUsagePct != nil {
		t.Errorf("cpu usage on first tick: want nil, got %v", *snap.CPUUsagePct)
	}
	if snap.MemUsedPct == nil || *snap.MemUsedPct != 41.5 {
		t.Errorf("memory: want 41.5, got %v", snap.MemUsedPct)
	}
	if !snap.CollectedAt.Equal(now) {
		t.Errorf("collected at: want %v, got %v", now, snap.CollectedAt)
	}
}

func TestCollector_EverySourceDown(t *testing.T) {
	c := quietCollector(t, failingRunner{}, Options{
		Printer:  "office",
		CUPSPoll: 2 * time.Second,
		NetPoll:  30 * time.Second,
		TempPoll: 2 * time.Second,
	})
	c.memory.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("mem unavailable")
	}
	c.network.addrs = func() ([]net.Addr, error) { return nil, errors.New("netlink down") }

	snap := c.Collect(context.Background(), time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))

	if snap.Scheduler != cupspanel.SchedulerUnknown {
		t.Errorf("scheduler: want unknown, got %q", snap.Scheduler)
	}
	if snap.QueueSize != 0 {
		t.Errorf("queue size: want 0, got %d", snap.QueueSize)
	}
	// The configured filter still names the printer even when lpstat is
	// gone.
	if snap.PrinterName != "office" {
		t.Errorf("printer name: want office, got %q", snap.PrinterName)
	}
	if snap.IPAddr != "" {
		t.Errorf("ip: want empty, got %q", snap.IPAddr)
	}
	if snap.CPUTempC != nil || snap.CPUUsagePct != nil || snap.MemUsedPct != nil {
		t.Error("gauges must be nil when every source is down")
	}
	if snap.State != cupspanel.StateUnknown {
		t.Errorf("derived state: want unknown, got %q", snap.State)
	}
}

func TestCollector_CachedSentinelIsReused(t *testing.T) {
	run := &cupsRunnerStub{
		results: map[string]string{
			"lpstat -o":   "",
			"hostname -I": "",
		},
		errs: map[string]error{
			"lpstat -r":   errors.New("lpstat: not found"),
			"lpstat -p":   errors.New("lpstat: not found"),
			"hostname -I": errors.New("hostname: not found"),
		},
	}
	c := quietCollector(t, run, Options{
		CUPSPoll: 2 * time.Second,
		NetPoll:  30 * time.Second,
		TempPoll: 2 * time.Second,
	})
	c.network.addrs = func() ([]net.Addr, error) { return nil, errors.New("netlink down") }

	base := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	c.Collect(ctx, base)
	calls := run.calls["lpstat -p"]

	// A failed refresh leaves a sentinel behind; the next tick inside the
	// interval must reuse it without an early retry.
	snap := c.Collect(ctx, base.Add(time.Second))
	if got := run.calls["lpstat -p"]; got != calls {
		t.Errorf("sentinel retry: lpstat -p calls want %d, got %d", calls, got)
	}
	if snap.Scheduler != cupspanel.SchedulerUnknown {
		t.Errorf("scheduler sentinel: want unknown, got %q", snap.Scheduler)
	}
}

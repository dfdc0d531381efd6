package collect

import (
	"context"
	"time"

	"cupspanel"
	"cupspanel/internal/logger"
)

// Options sets the printer filter and per-source poll cadences.
type Options struct {
	Printer  string
	CUPSPoll time.Duration
	NetPoll  time.Duration
	TempPoll time.Duration
}

// Collector owns the per-source caches and assembles one snapshot per
// render tick. Not safe for concurrent use; the panel loop is its only
// caller.
type Collector struct {
	cups    *CUPS
	network *Network
	thermal *Thermal
	cpu     *CPU
	memory  *Memory
	log     *logger.Logger

	printer string

	cupsTicket ticket
	netTicket  ticket
	tempTicket ticket

	// Cached values survive between refreshes, sentinels included.
	scheduler cupspanel.SchedulerStatus
	info      PrinterInfo
	ipAddr    string
	tempC     *float64
	memPct    *float64
}

// New builds a Collector over the given runner.
func New(log *logger.Logger, run CommandRunner, opts Options) *Collector {
	return &Collector{
		cups:       NewCUPS(run),
		network:    NewNetwork(run),
		thermal:    NewThermal(run),
		cpu:        NewCPU(),
		memory:     NewMemory(),
		log:        log,
		printer:    opts.Printer,
		cupsTicket: ticket{interval: opts.CUPSPoll},
		netTicket:  ticket{interval: opts.NetPoll},
		tempTicket: ticket{interval: opts.TempPoll},
		scheduler:  cupspanel.SchedulerUnknown,
		info:       PrinterInfo{Name: opts.Printer},
	}
}

// Collect refreshes the sources that are due at now and returns the
// snapshot for this tick. Refresh order is fixed: print system, then
// network, then temperature and memory, then the CPU window. A source that
// fails is logged once here and keeps its previous cached value or
// sentinel.
func (c *Collector) Collect(ctx context.Context, now time.Time) cupspanel.Snapshot {
	if c.cupsTicket.due(now) {
		sched, err := c.cups.SchedulerStatus(ctx)
		if err != nil {
			c.log.Debugw("scheduler status unavailable", "err", err)
		}
		c.scheduler = sched

		info, err := c.cups.PrinterInfo(ctx, c.printer)
		if err != nil {
			c.log.Debugw("printer info unavailable", "err", err)
		}
		c.info = info
	}

	// The queue length drives the headline number, so it is polled every
	// tick against the resolved printer rather than cached.
	target := c.info.Name
	if target == "" {
		target = c.printer
	}
	size, err := c.cups.QueueSize(ctx, target)
	if err != nil {
		c.log.Debugw("queue size unavailable", "err", err)
	}

	if c.netTicket.due(now) {
		ip, err := c.network.IPAddress(ctx)
		if err != nil {
			c.log.Debugw("ip address unavailable", "err", err)
		}
		c.ipAddr = ip
	}

	if c.tempTicket.due(now) {
		temp, err := c.thermal.TemperatureC(ctx)
		if err != nil {
			c.log.Debugw("temperature unavailable", "err", err)
		}
		c.tempC = temp

		memPct, err := c.memory.UsedPercent(ctx)
		if err != nil {
			c.log.Debugw("memory info unavailable", "err", err)
		}
		c.memPct = memPct
	}

	usage, err := c.cpu.UsagePercent()
	if err != nil {
		c.log.Debugw("cpu usage unavailable", "err", err)
	}

	snap := cupspanel.Snapshot{
		PrinterName:  c.info.Name,
		PrinterState: c.info.State,
		Scheduler:    c.scheduler,
		CurrentJob:   c.info.CurrentJob,
		QueueSize:    size,
		IPAddr:       c.ipAddr,
		CPUTempC:     c.tempC,
		CPUUsagePct:  usage,
		MemUsedPct:   c.memPct,
		CollectedAt:  now,
	}
	snap.State = cupspanel.DeriveState(snap.CurrentJob, snap.QueueSize, snap.PrinterState)
	return snap
}

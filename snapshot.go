package cupspanel

import "time"

// SchedulerStatus reports whether the CUPS scheduler is reachable.
type SchedulerStatus string

const (
	SchedulerRunning SchedulerStatus = "running"
	SchedulerStopped SchedulerStatus = "stopped"
	SchedulerUnknown SchedulerStatus = "unknown"
)

// Display states shown in the right-hand column of the panel.
const (
	StatePrinting = "printing"
	StateQueued   = "queued"
	StateIdle     = "idle"
	StateUnknown  = "unknown"
)

// Snapshot is one collected view of the print server, complete enough to
// render a frame from. Pointer fields are nil when the gauge could not be
// read this tick.
type Snapshot struct {
	PrinterName  string          `json:"printer_name,omitempty"`  // "" = no printer resolved
	PrinterState string          `json:"printer_state,omitempty"` // lowercase, parsed from lpstat -p
	Scheduler    SchedulerStatus `json:"scheduler"`
	State        string          `json:"state"`                 // derived, see DeriveState
	CurrentJob   string          `json:"current_job,omitempty"` // "user: title", "" = none
	QueueSize    int             `json:"queue_size"`
	IPAddr       string          `json:"ip_addr,omitempty"`
	CPUTempC     *float64        `json:"cpu_temp_c,omitempty"`
	CPUUsagePct  *float64        `json:"cpu_usage_pct,omitempty"`
	MemUsedPct   *float64        `json:"mem_used_pct,omitempty"`
	CollectedAt  time.Time       `json:"collected_at"`
}

// DeriveState resolves the headline state for the panel. An active job wins
// over a backed-up queue, which wins over whatever lpstat reported.
func DeriveState(currentJob string, queueSize int, printerState string) string {
	switch {
	case currentJob != "":
		return StatePrinting
	case queueSize > 0:
		return StateQueued
	case printerState != "":
		return printerState
	default:
		return StateUnknown
	}
}

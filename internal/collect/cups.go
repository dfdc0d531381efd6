package collect

import (
	"context"
	"fmt"
	"strings"

	"cupspanel"
)

// maxJobTitleRunes keeps the current-job line short enough for the panel.
const maxJobTitleRunes = 26

// CUPS queries the local print system through its command-line tools.
// Every method degrades to a sentinel value instead of failing hard; the
// returned error exists so the caller can log why.
type CUPS struct {
	run CommandRunner
}

// NewCUPS returns a CUPS collector using the given runner.
func NewCUPS(run CommandRunner) *CUPS {
	return &CUPS{run: run}
}

// QueueSize counts pending jobs. When printer is non-empty only jobs whose
// identifier starts "<printer>-" are counted. The zero count doubles as the
// sentinel when lpstat is unavailable.
func (c *CUPS) QueueSize(ctx context.Context, printer string) (int, error) {
	out, err := c.run.Output(ctx, "lpstat", "-o")
	if err != nil {
		return 0, fmt.Errorf("list jobs: %w", err)
	}
	return countJobLines(out, printer), nil
}

func countJobLines(out, printer string) int {
	var prefix string
	if printer != "" {
		prefix = printer + "-"
	}
	n := 0
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if prefix != "" && !strings.HasPrefix(line, prefix) {
			continue
		}
		n++
	}
	return n
}

// SchedulerStatus reports whether the scheduler is answering. lpstat -r is
// authoritative; the service manager is consulted when it gives no verdict.
func (c *CUPS) SchedulerStatus(ctx context.Context) (cupspanel.SchedulerStatus, error) {
	out, lpErr := c.run.Output(ctx, "lpstat", "-r")
	if s := strings.ToLower(strings.TrimSpace(out)); s != "" {
		if strings.Contains(s, "running") {
			return cupspanel.SchedulerRunning, nil
		}
		if strings.Contains(s, "not") {
			return cupspanel.SchedulerStopped, nil
		}
	}

	out, sysErr := c.run.Output(ctx, "systemctl", "is-active", "cups")
	switch strings.TrimSpace(out) {
	case "active":
		return cupspanel.SchedulerRunning, nil
	case "inactive", "failed":
		return cupspanel.SchedulerStopped, nil
	}

	if lpErr != nil {
		return cupspanel.SchedulerUnknown, fmt.Errorf("scheduler status: %w", lpErr)
	}
	if sysErr != nil {
		return cupspanel.SchedulerUnknown, fmt.Errorf("scheduler status: %w", sysErr)
	}
	return cupspanel.SchedulerUnknown, nil
}

// PrinterInfo is the parsed view of one printer plus its first queued job.
type PrinterInfo struct {
	Name       string // resolved printer name; falls back to the filter
	State      string // lowercase state phrase, "" when unparsed
	CurrentJob string // "user: title", "" when the queue is empty
}

// PrinterInfo resolves the first printer reported by lpstat -p (restricted
// to the named one when printer is non-empty) and the first job queued
// against it.
func (c *CUPS) PrinterInfo(ctx context.Context, printer string) (PrinterInfo, error) {
	info := PrinterInfo{Name: printer}

	pOut, pErr := c.run.Output(ctx, "lpstat", "-p")
	if name, state, ok := parsePrinterLine(pOut, printer); ok {
		info.Name = name
		info.State = state
	}

	jOut, jErr := c.run.Output(ctx, "lpstat", "-o")
	info.CurrentJob = parseCurrentJob(jOut, printer)

	if pErr != nil {
		return info, fmt.Errorf("printer status: %w", pErr)
	}
	if jErr != nil {
		return info, fmt.Errorf("job list: %w", jErr)
	}
	return info, nil
}

func parsePrinterLine(out, printer string) (name, state string, ok bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToLower(line), "printer ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if printer != "" && fields[1] != printer {
			continue
		}
		return fields[1], parseStatePhrase(line), true
	}
	return "", "", false
}

// parseStatePhrase pulls the state word out of forms like
// "printer office is idle.  enabled since ..." and
// "printer office status is printing office-3".
func parseStatePhrase(line string) string {
	low := strings.ToLower(line)
	for _, key := range []string{"status is", " is "} {
		i := strings.Index(low, key)
		if i < 0 {
			continue
		}
		seg := low[i+len(key):]
		if j := strings.Index(seg, "."); j >= 0 {
			seg = seg[:j]
		}
		if j := strings.Index(seg, "  "); j >= 0 {
			seg = seg[:j]
		}
		return strings.TrimSpace(seg)
	}
	return ""
}

// parseCurrentJob finds the first job line matching the printer and formats
// it as "user: title". Job lines look like
// "office-42    alice    1024   Tue 25 Aug 2026 ...  report.pdf".
func parseCurrentJob(out, printer string) string {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		jobID := fields[0]
		dash := strings.LastIndex(jobID, "-")
		if dash < 0 {
			continue
		}
		if printer != "" && jobID[:dash] != printer {
			continue
		}
		user := "?"
		if len(fields) > 1 {
			user = fields[1]
		}
		title := line
		if i := strings.Index(line, "  "); i >= 0 {
			title = strings.TrimSpace(line[i+2:])
		}
		return user + ": " + truncateRunes(title, maxJobTitleRunes)
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

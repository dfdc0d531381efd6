package collect

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes one external query and captures its stdout.
// Implementations must not impose their own timeout; cancellation comes
// only from the caller's context.
type CommandRunner interface {
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands on the local host.
type ExecRunner struct{}

// Output runs the command and returns its stdout. On a non-zero exit the
// captured stdout is still returned, because tools like systemctl is-active
// report through stdout while exiting non-zero.
func (ExecRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			msg := strings.TrimSpace(string(exitErr.Stderr))
			if msg == "" {
				return string(out), fmt.Errorf("%s: exit %d", name, exitErr.ExitCode())
			}
			return string(out), fmt.Errorf("%s: exit %d: %s", name, exitErr.ExitCode(), msg)
		}
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return string(out), nil
}

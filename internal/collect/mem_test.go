package collect

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/mem"
)

func TestMemoryUsedPercent(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	m.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: 63.2}, nil
	}
	got, err := m.UsedPercent(context.Background())
	if err != nil {
		t.Fatalf("UsedPercent: %v", err)
	}
	if got == nil || *got != 63.2 {
		t.Errorf("UsedPercent = %v, want 63.2", got)
	}

	m.virtualMemory = func(context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("proc unavailable")
	}
	got, err = m.UsedPercent(context.Background())
	if err == nil {
		t.Fatal("UsedPercent swallowed the read error")
	}
	if got != nil {
		t.Errorf("failed read returned %v, want nil", *got)
	}
}

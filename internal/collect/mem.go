package collect

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

// Memory reports physical memory pressure for the info column.
type Memory struct {
	// virtualMemory reads system memory stats; swapped in tests.
	virtualMemory func(context.Context) (*mem.VirtualMemoryStat, error)
}

// NewMemory returns a Memory collector.
func NewMemory() *Memory {
	return &Memory{virtualMemory: mem.VirtualMemoryWithContext}
}

// UsedPercent returns the used fraction of physical memory, nil when the
// gauge cannot be read.
func (m *Memory) UsedPercent(ctx context.Context) (*float64, error) {
	vm, err := m.virtualMemory(ctx)
	if err != nil {
		return nil, fmt.Errorf("memory info: %w", err)
	}
	v := vm.UsedPercent
	return &v, nil
}

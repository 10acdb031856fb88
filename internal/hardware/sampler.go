// Package hardware reads CPU and memory statistics for the bench UI.
// It wraps gopsutil so the rest of the code never touches platform details.
package hardware

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// CoreUsage is the utilization of a single logical core.
type CoreUsage struct {
	Name    string
	Percent float64
}

// MemoryInfo holds RAM usage in bytes.
type MemoryInfo struct {
	Used  uint64
	Total uint64
}

// Sampler reads CPU and memory usage. CPU percentages are deltas since the
// previous call, so the first sample after New primes the baseline and
// reports zeros.
type Sampler struct {
	cores int
}

// NewSampler counts logical cores and primes the CPU usage baseline.
func NewSampler() (*Sampler, error) {
	n, err := cpu.Counts(true)
	if err != nil {
		return nil, fmt.Errorf("counting logical cores: %w", err)
	}
	if n < 1 {
		n = 1
	}
	// Prime the per-core counters so the next sample has a delta window.
	_, _ = cpu.Percent(0, true)
	return &Sampler{cores: n}, nil
}

// LogicalCores returns the number of logical cores on this machine.
func (s *Sampler) LogicalCores() int {
	return s.cores
}

// CoreUsages returns per-core utilization since the previous call.
func (s *Sampler) CoreUsages() ([]CoreUsage, error) {
	percents, err := cpu.Percent(0, true)
	if err != nil {
		return nil, fmt.Errorf("sampling cpu usage: %w", err)
	}
	usages := make([]CoreUsage, len(percents))
	for i, p := range percents {
		usages[i] = CoreUsage{
			Name:    fmt.Sprintf("CPU %d", i),
			Percent: p,
		}
	}
	return usages, nil
}

// Memory returns current RAM usage.
func (s *Sampler) Memory() (MemoryInfo, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return MemoryInfo{}, fmt.Errorf("sampling memory: %w", err)
	}
	return MemoryInfo{Used: vm.Used, Total: vm.Total}, nil
}

// Average returns the mean utilization across the given cores.
func Average(cores []CoreUsage) float64 {
	if len(cores) == 0 {
		return 0
	}
	var acc float64
	for _, c := range cores {
		acc += c.Percent
	}
	return acc / float64(len(cores))
}

package proc

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Summary is the machine-wide line shown above the process table. Every
// field is best effort and stays zero when its source is unavailable.
type Summary struct {
	Load1, Load5, Load15 float64
	MemTotal, MemUsed    uint64
	Uptime               time.Duration
}

// ReadSummary collects load averages, memory use and uptime.
func ReadSummary(ctx context.Context) Summary {
	var s Summary

	// Load averages do not exist on every platform.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		s.Load1, s.Load5, s.Load15 = avg.Load1, avg.Load5, avg.Load15
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		s.MemTotal, s.MemUsed = vm.Total, vm.Used
	}
	if up, err := host.UptimeWithContext(ctx); err == nil {
		s.Uptime = time.Duration(up) * time.Second
	}
	return s
}

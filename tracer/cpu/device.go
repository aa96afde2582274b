package cpu

import (
	"runtime"

	cpuinfo "github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Information about the host CPU.
type DeviceInfo struct {
	Name          string
	Vendor        string
	PhysicalCores int
	LogicalCores  int
	Mhz           float64
	TotalMemory   uint64
}

// Query the host CPU. Fields that cannot be detected fall back to values
// reported by the Go runtime or are left empty.
func Device() DeviceInfo {
	info := DeviceInfo{
		Name:          "cpu",
		PhysicalCores: runtime.NumCPU(),
		LogicalCores:  runtime.NumCPU(),
	}

	if stats, err := cpuinfo.Info(); err == nil && len(stats) != 0 {
		info.Name = stats[0].ModelName
		info.Vendor = stats[0].VendorID
		info.Mhz = stats[0].Mhz
	}
	if count, err := cpuinfo.Counts(false); err == nil && count > 0 {
		info.PhysicalCores = count
	}
	if count, err := cpuinfo.Counts(true); err == nil && count > 0 {
		info.LogicalCores = count
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemory = vm.Total
	}

	return info
}

// Estimate the relative tracing speed of a single core.
func (d DeviceInfo) SpeedEstimate() uint32 {
	if d.Mhz < 1 {
		return 1
	}
	return uint32(d.Mhz)
}

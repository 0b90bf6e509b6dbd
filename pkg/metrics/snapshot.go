// Package metrics defines the host metrics snapshot and its wire encodings.
package metrics

import (
	"fmt"
	"strings"
)

// Record is a flat map of metric names to values, as consumed by exporters.
type Record = map[string]interface{}

// NetworkStats holds byte counters summed over all non-loopback interfaces.
// Values are cumulative since boot, not per-interval.
type NetworkStats struct {
	BytesSent     uint64
	BytesReceived uint64
}

// DiskStats holds bytes moved by whole-disk devices since the previous
// collection.
type DiskStats struct {
	BytesRead    uint64
	BytesWritten uint64
}

// LoadAverage holds the 1, 5 and 15 minute run-queue averages.
type LoadAverage struct {
	One     float64
	Five    float64
	Fifteen float64
}

// Snapshot is one fully formed set of host metric values.
//
// ProcessCount is the kernel's cumulative "processes" counter (forks since
// boot), not the number of processes currently alive.
type Snapshot struct {
	CPUUsagePercent float64
	MemoryUsedKB    uint64
	Network         NetworkStats
	Disk            DiskStats
	ProcessCount    uint64
	LoadAverage     LoadAverage
}

// Record flattens the snapshot using the same names as the JSON document,
// joining nested keys with an underscore.
func (s Snapshot) Record() Record {
	return Record{
		"cpu_usage_percent":      round2(s.CPUUsagePercent),
		"memory_used_kb":         s.MemoryUsedKB,
		"network_bytes_sent":     s.Network.BytesSent,
		"network_bytes_received": s.Network.BytesReceived,
		"disk_bytes_read":        s.Disk.BytesRead,
		"disk_bytes_written":     s.Disk.BytesWritten,
		"process_count":          s.ProcessCount,
		"load_average_1min":      round2(s.LoadAverage.One),
		"load_average_5min":      round2(s.LoadAverage.Five),
		"load_average_15min":     round2(s.LoadAverage.Fifteen),
	}
}

// Summary renders the snapshot as a short human readable block.
func (s Snapshot) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "CPU: %.2f%%\n", s.CPUUsagePercent)
	fmt.Fprintf(&b, "Memory: %d KB\n", s.MemoryUsedKB)
	fmt.Fprintf(&b, "Processes: %d\n", s.ProcessCount)
	fmt.Fprintf(&b, "Load: %.2f %.2f %.2f\n", s.LoadAverage.One, s.LoadAverage.Five, s.LoadAverage.Fifteen)
	fmt.Fprintf(&b, "Network - Sent: %d bytes, Received: %d bytes\n", s.Network.BytesSent, s.Network.BytesReceived)
	fmt.Fprintf(&b, "Disk - Read: %d bytes, Written: %d bytes", s.Disk.BytesRead, s.Disk.BytesWritten)
	return b.String()
}

package collecting

import (
	"regexp"
	"strings"

	"HostMonitor/pkg/probing"
)

var diskPattern = regexp.MustCompile(DiskRegex)

// IsWholeDisk reports whether a /proc/diskstats device name is a physical
// whole-disk device rather than a partition or a virtual device.
func IsWholeDisk(name string) bool {
	return diskPattern.MatchString(name)
}

// SectorTotals holds cumulative sector counters summed across whole disks.
type SectorTotals struct {
	Read    uint64
	Written uint64
}

// ParseDiskstats sums sectors read and written across whole-disk devices.
// Lines that do not parse are skipped.
func ParseDiskstats(lines []string) SectorTotals {
	var totals SectorTotals

	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3+diskStatFields {
			continue
		}

		if !IsWholeDisk(fields[2]) {
			continue
		}

		// reads, reads merged, sectors read, ms reading,
		// writes, writes merged, sectors written, ms writing
		stats, err := probing.ParseUints(fields[3 : 3+diskStatFields])
		if err != nil {
			continue
		}

		totals.Read += stats[2]
		totals.Written += stats[6]
	}

	return totals
}

package collecting

import (
	"strings"

	"github.com/cockroachdb/errors"

	"HostMonitor/pkg/probing"
)

// CPUTimes holds the cumulative tick sums of the aggregate cpu line.
type CPUTimes struct {
	Idle   uint64 // idle + iowait
	Active uint64 // user + nice + system + irq + softirq + steal
}

// Total returns all ticks accounted for.
func (t CPUTimes) Total() uint64 {
	return t.Idle + t.Active
}

// ParseCPUTimes finds the aggregate "cpu" line of /proc/stat and sums its
// first eight tick counters.
func ParseCPUTimes(lines []string) (CPUTimes, error) {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != "cpu" {
			continue
		}
		if len(fields) < 1+cpuTickFields {
			return CPUTimes{}, errors.Newf("cpu line has %d fields, want at least %d", len(fields)-1, cpuTickFields)
		}

		ticks, err := probing.ParseUints(fields[1 : 1+cpuTickFields])
		if err != nil {
			return CPUTimes{}, errors.Wrap(err, "cpu line")
		}
		user, nice, system, idle := ticks[0], ticks[1], ticks[2], ticks[3]
		iowait, irq, softirq, steal := ticks[4], ticks[5], ticks[6], ticks[7]

		return CPUTimes{
			Idle:   idle + iowait,
			Active: user + nice + system + irq + softirq + steal,
		}, nil
	}
	return CPUTimes{}, errors.New("no aggregate cpu line")
}

// ParseProcessCount returns the "processes" counter of /proc/stat: the
// number of forks since boot.
func ParseProcessCount(lines []string) (uint64, error) {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "processes" {
			return probing.ParseUint64(fields[1])
		}
	}
	return 0, errors.New("no processes line")
}

// ParseBootTime returns the "btime" value of /proc/stat in unix seconds.
func ParseBootTime(lines []string) (int64, error) {
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "btime" {
			return probing.ParseInt64(fields[1])
		}
	}
	return 0, errors.New("no btime line")
}

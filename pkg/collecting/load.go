package collecting

import (
	"strings"

	"github.com/cockroachdb/errors"

	"HostMonitor/pkg/metrics"
	"HostMonitor/pkg/probing"
)

// ParseLoadAverage reads the three leading load figures of /proc/loadavg.
func ParseLoadAverage(content string) (metrics.LoadAverage, error) {
	fields := strings.Fields(content)
	if len(fields) < 3 {
		return metrics.LoadAverage{}, errors.Newf("loadavg has %d fields, want at least 3", len(fields))
	}

	var vals [3]float64
	for i := range vals {
		v, err := probing.ParseFloat64(fields[i])
		if err != nil {
			return metrics.LoadAverage{}, errors.Wrap(err, "loadavg")
		}
		vals[i] = v
	}
	return metrics.LoadAverage{One: vals[0], Five: vals[1], Fifteen: vals[2]}, nil
}

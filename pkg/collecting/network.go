package collecting

import (
	"strings"

	"HostMonitor/pkg/metrics"
	"HostMonitor/pkg/probing"
)

// ParseNetDev sums received and transmitted bytes over every interface in
// /proc/net/dev except loopback. Lines that do not parse are skipped.
func ParseNetDev(lines []string) metrics.NetworkStats {
	var totals metrics.NetworkStats

	// Skip header lines
	for i := netDevHeaderLines; i < len(lines); i++ {
		parts := strings.SplitN(lines[i], ":", 2)
		if len(parts) != 2 {
			continue
		}

		iface := strings.TrimSpace(parts[0])
		if iface == LoopbackInterface {
			continue
		}

		fields := strings.Fields(parts[1])
		if len(fields) < 9 {
			continue
		}

		recv, err := probing.ParseUint64(fields[0])
		if err != nil {
			continue
		}
		sent, err := probing.ParseUint64(fields[8])
		if err != nil {
			continue
		}

		totals.BytesReceived += recv
		totals.BytesSent += sent
	}

	return totals
}

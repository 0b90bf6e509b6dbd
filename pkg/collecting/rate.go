package collecting

import "HostMonitor/pkg/metrics"

// counterDelta returns cur - prev, or 0 when the counter went backwards
// (counter reset or reboot).
func counterDelta(cur, prev uint64) uint64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}

// CPURate turns cumulative cpu ticks into a busy percentage over the interval
// since the previous observation.
type CPURate struct {
	prevTotal  uint64
	prevActive uint64
	primed     bool
}

// Observe records t as the new baseline and returns the busy percentage.
// The first observation returns 0. An interval with no elapsed ticks returns
// last unchanged.
func (r *CPURate) Observe(t CPUTimes, last float64) float64 {
	total := t.Total()
	if !r.primed {
		r.prevTotal, r.prevActive = total, t.Active
		r.primed = true
		return 0
	}

	dTotal := counterDelta(total, r.prevTotal)
	dActive := counterDelta(t.Active, r.prevActive)
	r.prevTotal, r.prevActive = total, t.Active

	if dTotal == 0 {
		return last
	}
	pct := float64(dActive) / float64(dTotal) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// DiskRate turns cumulative sector counters into bytes moved since the
// previous observation.
type DiskRate struct {
	prev   SectorTotals
	primed bool
}

// Observe records s as the new baseline and returns the bytes read and
// written since the previous observation. The first observation returns 0.
func (r *DiskRate) Observe(s SectorTotals) metrics.DiskStats {
	if !r.primed {
		r.prev = s
		r.primed = true
		return metrics.DiskStats{}
	}

	out := metrics.DiskStats{
		BytesRead:    counterDelta(s.Read, r.prev.Read) * SectorSize,
		BytesWritten: counterDelta(s.Written, r.prev.Written) * SectorSize,
	}
	r.prev = s
	return out
}

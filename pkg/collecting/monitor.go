package collecting

import (
	"log"
	"sync"

	"github.com/cockroachdb/errors"

	"HostMonitor/pkg/metrics"
	"HostMonitor/pkg/probing"
)

// source is one kernel file and how its lines update the next snapshot.
type source struct {
	name  string
	path  string
	apply func(m *Monitor, lines []string, next *metrics.Snapshot) error
}

// Monitor owns the counter baselines and the latest snapshot. A single mutex
// covers both, so concurrent collections never interleave and readers never
// see a partially built snapshot.
type Monitor struct {
	sources []source

	mu      sync.Mutex
	cpu     CPURate
	disk    DiskRate
	snap    metrics.Snapshot
	failing map[string]bool
}

// NewMonitor creates a monitor reading counter files under procRoot.
func NewMonitor(procRoot string) *Monitor {
	paths := NewPaths(procRoot)
	m := &Monitor{failing: make(map[string]bool)}
	m.sources = []source{
		{name: "stat", path: paths.Stat, apply: (*Monitor).applyStat},
		{name: "memory", path: paths.Meminfo, apply: (*Monitor).applyMemory},
		{name: "load", path: paths.Loadavg, apply: (*Monitor).applyLoad},
		{name: "network", path: paths.NetDev, apply: (*Monitor).applyNetwork},
		{name: "disk", path: paths.Diskstats, apply: (*Monitor).applyDisk},
	}
	return m
}

// CollectAll reads every source, updates the rate baselines and replaces the
// snapshot. A source that cannot be read or parsed leaves its metric at the
// previous value.
func (m *Monitor) CollectAll() metrics.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.snap
	for _, s := range m.sources {
		lines, err := probing.FileLines(s.path)
		if err == nil {
			err = s.apply(m, lines, &next)
		}
		m.track(s.name, err)
	}
	m.snap = next
	return next
}

// Snapshot returns the most recently collected snapshot.
func (m *Monitor) Snapshot() metrics.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}

// ToJSON encodes the most recently collected snapshot.
func (m *Monitor) ToJSON() (string, error) {
	data, err := metrics.Encode(m.Snapshot())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// track logs the first failure of a source and its recovery, not every miss.
func (m *Monitor) track(name string, err error) {
	if err != nil {
		if !m.failing[name] {
			log.Printf("collecting: %s unavailable: %v", name, err)
			m.failing[name] = true
		}
		return
	}
	if m.failing[name] {
		log.Printf("collecting: %s recovered", name)
		delete(m.failing, name)
	}
}

// applyStat takes the CPU ticks and the processes counter from the same read
// of the stat file. Each field keeps its previous value if it fails to parse.
func (m *Monitor) applyStat(lines []string, next *metrics.Snapshot) error {
	var errs error
	if times, err := ParseCPUTimes(lines); err != nil {
		errs = errors.CombineErrors(errs, err)
	} else {
		next.CPUUsagePercent = m.cpu.Observe(times, next.CPUUsagePercent)
	}
	if n, err := ParseProcessCount(lines); err != nil {
		errs = errors.CombineErrors(errs, err)
	} else {
		next.ProcessCount = n
	}
	return errs
}

func (m *Monitor) applyMemory(lines []string, next *metrics.Snapshot) error {
	used, err := ParseMemoryUsedKB(lines)
	if err != nil {
		return err
	}
	next.MemoryUsedKB = used
	return nil
}

func (m *Monitor) applyLoad(lines []string, next *metrics.Snapshot) error {
	if len(lines) == 0 {
		return errors.New("loadavg is empty")
	}
	load, err := ParseLoadAverage(lines[0])
	if err != nil {
		return err
	}
	next.LoadAverage = load
	return nil
}

func (m *Monitor) applyNetwork(lines []string, next *metrics.Snapshot) error {
	next.Network = ParseNetDev(lines)
	return nil
}

func (m *Monitor) applyDisk(lines []string, next *metrics.Snapshot) error {
	next.Disk = m.disk.Observe(ParseDiskstats(lines))
	return nil
}

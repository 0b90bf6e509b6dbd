package collecting

import "path/filepath"

const (
	// DefaultProcRoot is where the kernel exposes its counter files.
	DefaultProcRoot = "/proc"

	// SectorSize is the unit /proc/diskstats counts in, independent of the
	// device's physical sector size.
	SectorSize = 512

	// LoopbackInterface is never counted towards network totals.
	LoopbackInterface = "lo"

	// DiskRegex matches whole-disk block devices; partitions and virtual
	// devices (loop, ram, zram, dm-) do not match.
	DiskRegex = `^(sd[a-z]+|hd[a-z]+|vd[a-z]+|xvd[a-z]+|nvme\d+n\d+|mmcblk\d+)$`

	netDevHeaderLines = 2
	cpuTickFields     = 8
	diskStatFields    = 8
)

// Paths locates the kernel files read by the collectors.
type Paths struct {
	Stat      string
	Meminfo   string
	Loadavg   string
	NetDev    string
	Diskstats string
}

// NewPaths returns the counter file locations under root. An empty root
// means DefaultProcRoot.
func NewPaths(root string) Paths {
	if root == "" {
		root = DefaultProcRoot
	}
	return Paths{
		Stat:      filepath.Join(root, "stat"),
		Meminfo:   filepath.Join(root, "meminfo"),
		Loadavg:   filepath.Join(root, "loadavg"),
		NetDev:    filepath.Join(root, "net", "dev"),
		Diskstats: filepath.Join(root, "diskstats"),
	}
}

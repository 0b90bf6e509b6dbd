package collecting

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"HostMonitor/pkg/metrics"
	"HostMonitor/pkg/probing"
)

// HostInfo identifies the host and monitor instance a snapshot came from.
type HostInfo struct {
	UUID     string
	Hostname string
	Kernel   string
	BootTime int64
}

// CollectHostInfo gathers static host details. An empty id generates a new
// random instance id.
func CollectHostInfo(procRoot, id, hostname string) HostInfo {
	if id == "" {
		id = uuid.NewString()
	}
	h := HostInfo{
		UUID:     id,
		Hostname: hostname,
		Kernel:   kernelInfo(),
	}
	if lines, err := probing.FileLines(NewPaths(procRoot).Stat); err == nil {
		h.BootTime, _ = ParseBootTime(lines)
	}
	return h
}

// Record returns the host details as flat record fields.
func (h HostInfo) Record() metrics.Record {
	return metrics.Record{
		"uuid":      h.UUID,
		"hostname":  h.Hostname,
		"kernel":    h.Kernel,
		"boot_time": h.BootTime,
	}
}

func kernelInfo() string {
	var uname unix.Utsname
	if err := unix.Uname(&uname); err != nil {
		return ""
	}

	toString := func(data any) string {
		var b []byte
		switch v := data.(type) {
		case [65]int8:
			for _, c := range v {
				b = append(b, byte(c))
			}
		case [65]uint8:
			b = v[:]
		}
		return unix.ByteSliceToString(b)
	}

	return fmt.Sprintf("%s %s %s",
		toString(uname.Sysname),
		toString(uname.Release),
		toString(uname.Machine))
}

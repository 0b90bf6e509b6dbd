package collecting

import (
	"strings"

	"github.com/cockroachdb/errors"

	"HostMonitor/pkg/probing"
)

// ParseMemoryUsedKB returns MemTotal - MemAvailable from /proc/meminfo lines.
func ParseMemoryUsedKB(lines []string) (uint64, error) {
	info := probing.ParseKV(lines, ":")

	total, err := meminfoKB(info, "MemTotal")
	if err != nil {
		return 0, err
	}
	available, err := meminfoKB(info, "MemAvailable")
	if err != nil {
		return 0, err
	}

	if available > total {
		return 0, nil
	}
	return total - available, nil
}

func meminfoKB(info map[string]string, key string) (uint64, error) {
	v, ok := info[key]
	if !ok {
		return 0, errors.Newf("meminfo has no %s", key)
	}
	v = strings.TrimSuffix(v, " kB")
	kb, err := probing.ParseUint64(v)
	if err != nil {
		return 0, errors.Wrapf(err, "meminfo %s", key)
	}
	return kb, nil
}

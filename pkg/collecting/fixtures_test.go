package collecting

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMain silences collector logging.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

const netDevHeader = `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
`

// fakeProc is a writable stand-in for /proc.
type fakeProc struct {
	t    *testing.T
	root string
}

func newFakeProc(t *testing.T) *fakeProc {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "net"), 0755))
	return &fakeProc{t: t, root: root}
}

func (p *fakeProc) write(name, content string) {
	p.t.Helper()
	require.NoError(p.t, os.WriteFile(filepath.Join(p.root, name), []byte(content), 0644))
}

func (p *fakeProc) remove(name string) {
	p.t.Helper()
	require.NoError(p.t, os.Remove(filepath.Join(p.root, name)))
}

// setStat writes a /proc/stat with the given aggregate cpu ticks
// (user nice system idle iowait irq softirq steal) and processes counter.
func (p *fakeProc) setStat(ticks [8]uint64, processes uint64) {
	parts := make([]string, len(ticks))
	for i, v := range ticks {
		parts[i] = fmt.Sprint(v)
	}
	p.write("stat", fmt.Sprintf(
		"cpu  %s 0 0\ncpu0 %s 0 0\nintr 12345 0 0\nctxt 99999\nbtime 1700000000\nprocesses %d\nprocs_running 2\nprocs_blocked 0\n",
		strings.Join(parts, " "), strings.Join(parts, " "), processes))
}

func (p *fakeProc) setMeminfo(totalKB, availableKB uint64) {
	p.write("meminfo", fmt.Sprintf(
		"MemTotal:       %d kB\nMemFree:         1000 kB\nMemAvailable:   %d kB\nBuffers:          100 kB\n",
		totalKB, availableKB))
}

func (p *fakeProc) setLoadavg(content string) {
	p.write("loadavg", content)
}

func (p *fakeProc) setNetDev(recv, sent uint64) {
	p.write(filepath.Join("net", "dev"), netDevHeader+
		"    lo: 777 1 0 0 0 0 0 0 777 1 0 0 0 0 0 0\n"+
		fmt.Sprintf("  eth0: %d 20 0 0 0 0 0 0 %d 15 0 0 0 0 0 0\n", recv, sent))
}

// setDiskstats writes one whole disk, one of its partitions and a loop device.
func (p *fakeProc) setDiskstats(sectorsRead, sectorsWritten uint64) {
	p.write("diskstats",
		fmt.Sprintf("   8       0 sda 100 0 %d 10 50 0 %d 20 0 30 30\n", sectorsRead, sectorsWritten)+
			fmt.Sprintf("   8       1 sda1 100 0 %d 10 50 0 %d 20 0 30 30\n", sectorsRead, sectorsWritten)+
			"   7       0 loop0 9 0 9999 0 0 0 9999 0 0 0 0\n")
}

// populate writes a complete, consistent set of counter files.
func (p *fakeProc) populate() {
	p.setStat([8]uint64{100, 0, 50, 800, 50, 0, 0, 0}, 4242)
	p.setMeminfo(16000, 6000)
	p.setLoadavg("0.50 0.75 1.25 2/345 6789\n")
	p.setNetDev(1000, 2000)
	p.setDiskstats(1000, 2000)
}

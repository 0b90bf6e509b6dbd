package collecting

import (
	"os"
	"testing"
)

func skipWithoutProc(b *testing.B) {
	b.Helper()
	if _, err := os.Stat(NewPaths("").Stat); err != nil {
		b.Skip("no /proc on this host")
	}
}

func BenchmarkCollectAll(b *testing.B) {
	skipWithoutProc(b)
	m := NewMonitor(DefaultProcRoot)
	m.CollectAll()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.CollectAll()
	}
}

func BenchmarkToJSON(b *testing.B) {
	skipWithoutProc(b)
	m := NewMonitor(DefaultProcRoot)
	m.CollectAll()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.ToJSON(); err != nil {
			b.Fatal(err)
		}
	}
}

package metrics

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/cockroachdb/errors"
)

// fixed2 renders a float with exactly two decimal places.
type fixed2 float64

func (f fixed2) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.AppendFloat(nil, v, 'f', 2, 64), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type wireNetwork struct {
	BytesSent     uint64 `json:"bytes_sent"`
	BytesReceived uint64 `json:"bytes_received"`
}

type wireDisk struct {
	BytesRead    uint64 `json:"bytes_read"`
	BytesWritten uint64 `json:"bytes_written"`
}

type wireLoad struct {
	One     fixed2 `json:"1min"`
	Five    fixed2 `json:"5min"`
	Fifteen fixed2 `json:"15min"`
}

type wireSnapshot struct {
	CPUUsagePercent fixed2      `json:"cpu_usage_percent"`
	MemoryUsedKB    uint64      `json:"memory_used_kb"`
	Network         wireNetwork `json:"network"`
	Disk            wireDisk    `json:"disk"`
	ProcessCount    uint64      `json:"process_count"`
	LoadAverage     wireLoad    `json:"load_average"`
}

// MarshalJSON implements json.Marshaler with the fixed metrics schema.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSnapshot{
		CPUUsagePercent: fixed2(s.CPUUsagePercent),
		MemoryUsedKB:    s.MemoryUsedKB,
		Network: wireNetwork{
			BytesSent:     s.Network.BytesSent,
			BytesReceived: s.Network.BytesReceived,
		},
		Disk: wireDisk{
			BytesRead:    s.Disk.BytesRead,
			BytesWritten: s.Disk.BytesWritten,
		},
		ProcessCount: s.ProcessCount,
		LoadAverage: wireLoad{
			One:     fixed2(s.LoadAverage.One),
			Five:    fixed2(s.LoadAverage.Five),
			Fifteen: fixed2(s.LoadAverage.Fifteen),
		},
	})
}

// Encode renders the snapshot as an indented JSON document.
func Encode(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding snapshot")
	}
	return data, nil
}

package collecting

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"HostMonitor/pkg/metrics"
)

// Run collects once immediately and then every interval until ctx is done.
// onCollect, when non-nil, receives each snapshot.
func (m *Monitor) Run(ctx context.Context, interval time.Duration, onCollect func(metrics.Snapshot)) error {
	if interval <= 0 {
		return errors.Newf("collection interval must be positive, got %v", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	collect := func() {
		snap := m.CollectAll()
		if onCollect != nil {
			onCollect(snap)
		}
	}

	collect()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			collect()
		}
	}
}

package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"HostMonitor/pkg/collecting"
	"HostMonitor/pkg/exporting"
	"HostMonitor/pkg/metrics"
)

// NewSnapshotCmd creates the snapshot subcommand.
func NewSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"ss"},
		Short:   "Capture a single metrics snapshot",
		Long: `Collect a baseline, wait for the sample delay, collect again and print the
snapshot as JSON. With --output the snapshot and host details are written
to a file instead; the format follows --format or the file extension.

Example:
  hostmon snapshot
  hostmon snapshot --sample 2s -o snapshot.parquet
  hostmon snapshot -f csv -o out/snapshot.csv`,
		RunE: runSnapshot,
	}

	Cfg.AddCollectionFlags(cmd)
	Cfg.AddOutputFlags(cmd)
	Cfg.AddSystemFlags(cmd)

	return cmd
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	monitor := collecting.NewMonitor(Cfg.ProcRoot)
	monitor.CollectAll()

	if Cfg.SampleDelay > 0 {
		select {
		case <-time.After(Cfg.SampleDelay):
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}
	snap := monitor.CollectAll()

	if Cfg.OutputFile == "" {
		data, err := metrics.Encode(snap)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	format := Cfg.OutputFormat
	if !cmd.Flags().Changed("format") {
		if f, ok := exporting.GetByPath(Cfg.OutputFile); ok {
			format = f.Name()
		}
	}

	return writeSnapshotOutput(snap, format)
}

func writeSnapshotOutput(snap metrics.Snapshot, format string) error {
	host := collecting.CollectHostInfo(Cfg.ProcRoot, Cfg.UUID, Cfg.Hostname)

	record := metrics.MergeRecords(host.Record(), snap.Record(), metrics.Record{
		"timestamp": time.Now().UnixNano(),
	})

	if err := exporting.SaveRecord(Cfg.OutputFile, format, record); err != nil {
		return errors.Wrapf(err, "write %s", Cfg.OutputFile)
	}

	fmt.Fprintf(os.Stderr, "Written to: %s\n", Cfg.OutputFile)
	return nil
}

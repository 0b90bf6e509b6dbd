// Package commands provides CLI command implementations.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"HostMonitor/pkg/config"
)

// Cfg is the shared configuration instance.
var Cfg = config.New()

// NewRootCmd creates the root command with all subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hostmon",
		Short: "Host metrics monitor with a JSON HTTP endpoint",
		Long: `HostMonitor samples CPU, memory, disk, network, load and process counters
from the kernel and serves the latest snapshot as JSON.

Commands:
  serve      Run the HTTP server with periodic collection
  snapshot   Capture a single metrics snapshot`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		NewServeCmd(),
		NewSnapshotCmd(),
	)

	return root
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

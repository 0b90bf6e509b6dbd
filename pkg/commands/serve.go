package commands

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"HostMonitor/pkg/collecting"
	"HostMonitor/pkg/metrics"
	"HostMonitor/pkg/serving"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Run HTTP server exposing metrics",
		Long: `Run an HTTP server that exposes the latest host snapshot, while a background
driver collects at a fixed interval. Stops on SIGINT or SIGTERM.

Endpoints (GET only):
  /metrics   Fresh snapshot (JSON)
  /          Same as /metrics
  /health    {"status":"ok"}

Example:
  hostmon serve --port 8080 --interval 5s
  hostmon serve --config /etc/hostmon.yaml --log-stats`,
		RunE: runServe,
	}

	Cfg.AddServeFlags(cmd)
	Cfg.AddCollectionFlags(cmd)
	Cfg.AddSystemFlags(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := Cfg.LoadWithFlags(cmd.Flags()); err != nil {
		return err
	}
	Cfg.ApplyDefaults()
	if err := Cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	host := collecting.CollectHostInfo(Cfg.ProcRoot, Cfg.UUID, Cfg.Hostname)
	log.Printf("Host %s (%s), instance %s", host.Hostname, host.Kernel, host.UUID)

	monitor := collecting.NewMonitor(Cfg.ProcRoot)
	server := serving.New(monitor,
		serving.WithReadTimeout(Cfg.ReadTimeout),
		serving.WithWriteTimeout(Cfg.WriteTimeout),
		serving.WithShutdownTimeout(Cfg.ShutdownTimeout),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(Cfg.Port); err != nil {
		return err
	}
	log.Printf("Endpoints: /metrics, /, /health")
	log.Printf("Collecting every %v from %s", Cfg.Interval, Cfg.ProcRoot)

	var onCollect func(metrics.Snapshot)
	if Cfg.LogStats {
		onCollect = func(s metrics.Snapshot) {
			log.Printf("Collected:\n%s", s.Summary())
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return monitor.Run(gctx, Cfg.Interval, onCollect)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Printf("Shutting down")
		server.Stop()
		return nil
	})

	return g.Wait()
}

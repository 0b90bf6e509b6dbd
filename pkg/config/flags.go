package config

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// AddServeFlags adds HTTP server flags to a command.
func (c *Config) AddServeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.IntVarP(&c.Port, "port", "p", c.Port, "Listen port on all interfaces (0 picks a free port)")
	flags.DurationVar(&c.ReadTimeout, "read-timeout", c.ReadTimeout, "Per-connection request read timeout")
	flags.DurationVar(&c.WriteTimeout, "write-timeout", c.WriteTimeout, "Per-connection response write timeout")
	flags.DurationVar(&c.ShutdownTimeout, "shutdown-timeout", c.ShutdownTimeout, "Grace period for in-flight requests on stop")
	flags.BoolVar(&c.LogStats, "log-stats", c.LogStats, "Log a summary after every periodic collection")
	flags.StringVarP(&c.ConfigFile, "config", "c", c.ConfigFile, "YAML config file (flags override its values)")
}

// AddCollectionFlags adds common collection flags to a command.
func (c *Config) AddCollectionFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.DurationVarP(&c.Interval, "interval", "i", c.Interval, "Collection interval")
	flags.StringVar(&c.ProcRoot, "proc-root", c.ProcRoot, "Directory holding the kernel counter files")
}

// AddOutputFlags adds common output flags to a command.
func (c *Config) AddOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.OutputFormat, "format", "f", c.OutputFormat, "Output format (json, jsonl, csv, parquet)")
	flags.StringVarP(&c.OutputFile, "output", "o", c.OutputFile, "Output file (stdout if empty)")
	flags.DurationVar(&c.SampleDelay, "sample", c.SampleDelay, "Delay between the baseline and the reported collection")
}

// AddSystemFlags adds system identification flags to a command.
func (c *Config) AddSystemFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&c.UUID, "uuid", c.UUID, "Instance UUID (generated if empty)")
	flags.StringVar(&c.Hostname, "hostname", c.Hostname, "Hostname override")
}

// LoadWithFlags loads ConfigFile and then re-applies every flag the user set
// explicitly, so the command line wins over the file.
func (c *Config) LoadWithFlags(flags *pflag.FlagSet) error {
	if c.ConfigFile == "" {
		return nil
	}

	changed := make(map[string]string)
	flags.Visit(func(f *pflag.Flag) {
		changed[f.Name] = f.Value.String()
	})

	if err := c.LoadFile(c.ConfigFile); err != nil {
		return err
	}

	for name, value := range changed {
		if err := flags.Set(name, value); err != nil {
			return errors.Wrapf(err, "re-apply flag --%s", name)
		}
	}
	return nil
}

// Package config provides configuration management for the host monitor.
package config

import (
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config holds all monitor configuration options.
type Config struct {
	// Server settings
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogStats        bool          `yaml:"log_stats"`

	// Collection settings
	Interval time.Duration `yaml:"interval"`
	ProcRoot string        `yaml:"proc_root"`

	// Output settings
	OutputFormat string        `yaml:"format"`
	OutputFile   string        `yaml:"output"`
	SampleDelay  time.Duration `yaml:"sample"`

	// System identification
	UUID     string `yaml:"uuid"`
	Hostname string `yaml:"hostname"`

	// ConfigFile is the YAML file flags are layered on top of.
	ConfigFile string `yaml:"-"`
}

// Default configuration values.
const (
	DefaultPort            = 8080
	DefaultInterval        = 5 * time.Second
	DefaultProcRoot        = "/proc"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultFormat          = "json"
	DefaultSampleDelay     = time.Second

	MinInterval = 10 * time.Millisecond
)

// New creates a Config with default values.
func New() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		Port:            DefaultPort,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		Interval:        DefaultInterval,
		ProcRoot:        DefaultProcRoot,
		OutputFormat:    DefaultFormat,
		SampleDelay:     DefaultSampleDelay,
		Hostname:        hostname,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return errors.Newf("port must be between 0 and 65535, got %d", c.Port)
	}

	if c.Interval < MinInterval {
		return errors.Newf("interval must be at least %v, got %v", MinInterval, c.Interval)
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 || c.ShutdownTimeout < 0 {
		return errors.New("timeouts cannot be negative")
	}

	if c.SampleDelay < 0 {
		return errors.Newf("sample delay cannot be negative, got %v", c.SampleDelay)
	}

	if !isValidOutputFormat(c.OutputFormat) {
		return errors.Newf("invalid output format: %s (valid: json, jsonl, csv, parquet)", c.OutputFormat)
	}

	if c.ProcRoot != "" {
		info, err := os.Stat(c.ProcRoot)
		if err != nil {
			return errors.Wrap(err, "cannot access proc root")
		}
		if !info.IsDir() {
			return errors.Newf("proc root is not a directory: %s", c.ProcRoot)
		}
	}

	return nil
}

// ValidOutputFormats returns the list of supported output formats.
func ValidOutputFormats() []string {
	return []string{"json", "jsonl", "csv", "parquet"}
}

func isValidOutputFormat(format string) bool {
	for _, f := range ValidOutputFormats() {
		if f == format {
			return true
		}
	}
	return false
}

// ApplyDefaults fills in any missing values with defaults.
func (c *Config) ApplyDefaults() {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.ProcRoot == "" {
		c.ProcRoot = DefaultProcRoot
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = DefaultReadTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.OutputFormat == "" {
		c.OutputFormat = DefaultFormat
	}
	if c.Hostname == "" {
		c.Hostname, _ = os.Hostname()
	}
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
}

// LoadFile overlays values from a YAML file onto c. Keys absent from the
// file keep their current values. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrapf(err, "parse config %s", path)
	}
	return nil
}

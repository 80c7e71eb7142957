// Package config defines batch configuration and its loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"fmt"
	"runtime"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// EventCodesPath, LineupPath and PlayByPlayPath name the input tables.
	EventCodesPath string `koanf:"event_codes_path"`
	LineupPath     string `koanf:"lineup_path"`
	PlayByPlayPath string `koanf:"play_by_play_path"`

	// OutputPath is where the CSV report is written.
	OutputPath string `koanf:"output_path"`

	// SQLitePath, when set, also stores the run in a SQLite database.
	SQLitePath string `koanf:"sqlite_path"`

	// MetricsPath, when set, receives a Prometheus textfile at the end of the run.
	MetricsPath string `koanf:"metrics_path"`

	// WorkerCount sets the number of games rated in parallel.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory game queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the repeated-row filter; 0 keeps every key.
	DedupeSize int `koanf:"dedupe_size"`

	// DumpPossessions logs every possession at debug level.
	DumpPossessions bool `koanf:"dump_possessions"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      FormatText,
		EventCodesPath: "data/Event_Codes.txt",
		LineupPath:     "data/Game_Lineup.txt",
		PlayByPlayPath: "data/Play_by_Play.txt",
		OutputPath:     "ratings.csv",
		WorkerCount:    runtime.NumCPU(),
		QueueSize:      4096,
		DedupeSize:     0,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.EventCodesPath == "":
		return fmt.Errorf("%w: event_codes_path must not be empty", ErrInvalidConfig)
	case c.LineupPath == "":
		return fmt.Errorf("%w: lineup_path must not be empty", ErrInvalidConfig)
	case c.PlayByPlayPath == "":
		return fmt.Errorf("%w: play_by_play_path must not be empty", ErrInvalidConfig)
	case c.OutputPath == "":
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	case c.LogFormat != FormatText && c.LogFormat != FormatJSON:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Package config holds the run options for one invocation and the optional
// on-disk defaults file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Defaults mirror the original tool's tuning.
const (
	DefaultBottomK     = 20
	DefaultConcurrency = 8
	DefaultDelay       = 150 * time.Millisecond
	DefaultRecentDays  = 90
	DefaultUserAgent   = "edh-anti-meta/1.0"
)

// Options is the effective configuration for one run, assembled from
// defaults, the optional config file and CLI flags. It is immutable once the
// run starts.
type Options struct {
	BottomK     int
	Concurrency int
	Delay       time.Duration
	RecentDays  int
	UserAgent   string

	CSVPath   string
	ChartPath string

	OnlyPositive  bool
	IncludeErrors bool
	Verbose       bool
}

// DefaultOptions returns the built-in defaults.
func DefaultOptions() Options {
	return Options{
		BottomK:     DefaultBottomK,
		Concurrency: DefaultConcurrency,
		Delay:       DefaultDelay,
		RecentDays:  DefaultRecentDays,
		UserAgent:   DefaultUserAgent,
	}
}

// Validate rejects invalid combinations before any network activity.
func (o Options) Validate() error {
	if o.BottomK <= 0 {
		return fmt.Errorf("bottom-k must be positive: %d", o.BottomK)
	}
	if o.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1: %d", o.Concurrency)
	}
	if o.Delay < 0 {
		return fmt.Errorf("delay cannot be negative: %s", o.Delay)
	}
	if o.RecentDays < 0 {
		return fmt.Errorf("recent-days cannot be negative: %d", o.RecentDays)
	}
	return nil
}

// File is the on-disk defaults file. Every field is optional; set fields
// override the built-in defaults and are in turn overridden by CLI flags.
type File struct {
	Fetch  FetchConfig  `toml:"fetch"`
	Report ReportConfig `toml:"report"`
	Filter FilterConfig `toml:"filter"`
}

// FetchConfig contains fetch pipeline defaults.
type FetchConfig struct {
	Concurrency *int    `toml:"concurrency"` // Worker count
	Delay       *string `toml:"delay"`       // Per-worker pacing (e.g. "150ms")
	UserAgent   *string `toml:"user_agent"`  // User-Agent for outbound requests
}

// ReportConfig contains report defaults.
type ReportConfig struct {
	BottomK *int `toml:"bottom_k"` // How many least-popular to keep
}

// FilterConfig contains filter defaults.
type FilterConfig struct {
	RecentDays *int `toml:"recent_days"` // Recency window in days (0 disables)
}

// filePath returns the path to the defaults file.
func filePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".edh-anti-meta", "config.toml"), nil
}

// LoadFile reads the defaults file at path, or the default location when path
// is empty. A missing file is not an error; it yields a nil File.
func LoadFile(path string) (*File, error) {
	if path == "" {
		var err error
		path, err = filePath()
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &f, nil
}

// Apply overlays the file's set fields onto opts.
func (f *File) Apply(opts *Options) error {
	if f == nil {
		return nil
	}
	if f.Fetch.Concurrency != nil {
		opts.Concurrency = *f.Fetch.Concurrency
	}
	if f.Fetch.Delay != nil {
		d, err := time.ParseDuration(*f.Fetch.Delay)
		if err != nil {
			return fmt.Errorf("invalid delay %q in config file: %w", *f.Fetch.Delay, err)
		}
		opts.Delay = d
	}
	if f.Fetch.UserAgent != nil {
		opts.UserAgent = *f.Fetch.UserAgent
	}
	if f.Report.BottomK != nil {
		opts.BottomK = *f.Report.BottomK
	}
	if f.Filter.RecentDays != nil {
		opts.RecentDays = *f.Filter.RecentDays
	}
	return nil
}

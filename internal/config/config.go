package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "RPEEK_CONFIG"

// LogLevel wraps hclog.Level so it can be written by name in YAML.
type LogLevel hclog.Level

// UnmarshalYAML accepts debug/info/warn/error (any case) or trace/off.
func (l *LogLevel) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("log_level must be a string (trace/debug/info/warn/error/off)")
	}
	level := hclog.LevelFromString(strings.TrimSpace(s))
	if level == hclog.NoLevel {
		return fmt.Errorf("unknown log_level %q", s)
	}
	*l = LogLevel(level)
	return nil
}

func (l LogLevel) String() string {
	return hclog.Level(l).String()
}

// Config holds viewer tunables. Zero values are replaced by defaults.
type Config struct {
	// Byte rows
	RowWidth  int `yaml:"row_width"`
	HexWindow int `yaml:"hex_window"`

	// Lines
	LineWindow int `yaml:"line_window"`
	TabWidth   int `yaml:"tab_width"`

	// Scheduling and caches
	Overscan   int `yaml:"overscan"`
	CacheRows  int `yaml:"cache_rows"`
	CacheLines int `yaml:"cache_lines"`

	// Observability
	LogLevel    LogLevel `yaml:"log_level"`
	LogFile     string   `yaml:"log_file"`
	MetricsAddr string   `yaml:"metrics_addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RowWidth:   16,
		HexWindow:  4 * 1024,
		LineWindow: 64 * 1024,
		TabWidth:   4,
		Overscan:   5,
		CacheRows:  64 * 1024,
		CacheLines: 16 * 1024,
		LogLevel:   LogLevel(hclog.Info),
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path falls back to $RPEEK_CONFIG; if that is empty too, defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the scheduler relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.RowWidth <= 0 {
		errs = append(errs, fmt.Errorf("row_width must be positive, got %d", c.RowWidth))
	}
	if c.HexWindow <= 0 {
		errs = append(errs, fmt.Errorf("hex_window must be positive, got %d", c.HexWindow))
	} else if c.RowWidth > 0 && c.HexWindow%c.RowWidth != 0 {
		errs = append(errs, fmt.Errorf("hex_window (%d) must be a multiple of row_width (%d)", c.HexWindow, c.RowWidth))
	}
	if c.LineWindow <= 0 {
		errs = append(errs, fmt.Errorf("line_window must be positive, got %d", c.LineWindow))
	}
	if c.TabWidth < 0 {
		errs = append(errs, fmt.Errorf("tab_width must not be negative, got %d", c.TabWidth))
	}
	if c.Overscan < 0 {
		errs = append(errs, fmt.Errorf("overscan must not be negative, got %d", c.Overscan))
	}
	if c.CacheRows <= 0 {
		errs = append(errs, fmt.Errorf("cache_rows must be positive, got %d", c.CacheRows))
	} else if c.RowWidth > 0 && c.HexWindow > 0 && c.CacheRows < 4*c.HexWindow/c.RowWidth {
		errs = append(errs, fmt.Errorf("cache_rows (%d) must hold at least four hex windows (%d rows)",
			c.CacheRows, 4*c.HexWindow/c.RowWidth))
	}
	if c.CacheLines <= 0 {
		errs = append(errs, fmt.Errorf("cache_lines must be positive, got %d", c.CacheLines))
	}
	return errors.Join(errs...)
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rpeek.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RowWidth != 16 || cfg.HexWindow != 4096 || cfg.LineWindow != 65536 || cfg.Overscan != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if hclog.Level(cfg.LogLevel) != hclog.Info {
		t.Fatalf("default log level = %v, want info", cfg.LogLevel)
	}
}

func TestLoadOverlaysYAML(t *testing.T) {
	path := writeConfig(t, "row_width: 8\nhex_window: 1024\nlog_level: DEBUG\nmetrics_addr: 127.0.0.1:9300\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RowWidth != 8 || cfg.HexWindow != 1024 {
		t.Fatalf("overlay not applied: %+v", cfg)
	}
	if cfg.LineWindow != 65536 {
		t.Fatalf("unset field lost its default: %d", cfg.LineWindow)
	}
	if hclog.Level(cfg.LogLevel) != hclog.Debug {
		t.Fatalf("log level = %v, want debug", cfg.LogLevel)
	}
	if cfg.MetricsAddr != "127.0.0.1:9300" {
		t.Fatalf("metrics addr = %q", cfg.MetricsAddr)
	}
}

func TestLoadUsesEnvPath(t *testing.T) {
	path := writeConfig(t, "overscan: 2\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Overscan != 2 {
		t.Fatalf("overscan = %d, want 2", cfg.Overscan)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"misaligned window", "row_width: 16\nhex_window: 1000\n", "multiple of row_width"},
		{"negative overscan", "overscan: -1\n", "overscan"},
		{"zero cache", "cache_rows: -3\n", "cache_rows"},
		{"cache smaller than windows", "row_width: 16\nhex_window: 4096\ncache_rows: 8\n", "at least four hex windows"},
		{"unknown level", "log_level: loud\n", "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

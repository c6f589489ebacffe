package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LoadedFrom != "" {
		t.Fatalf("expected empty LoadedFrom for defaults, got %q", cfg.LoadedFrom)
	}
	if cfg.Display.Width != 240 || cfg.Display.Height != 240 {
		t.Fatalf("expected 240x240 default display, got %dx%d", cfg.Display.Width, cfg.Display.Height)
	}
	if cfg.Daemon.Address != "http://localhost:11987" {
		t.Fatalf("expected default daemon address, got %q", cfg.Daemon.Address)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	body := `display:
  brightness: 80
temperature:
  threshold_green: 50
daemon:
  password: "secret"
colors:
  hot_orange:
    r: 250
    g: 60
    b: 0
`
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config.yaml: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LoadedFrom != path {
		t.Fatalf("expected LoadedFrom=%s, got %s", path, cfg.LoadedFrom)
	}
	if cfg.Display.Brightness != 80 {
		t.Fatalf("expected brightness override 80, got %d", cfg.Display.Brightness)
	}
	if cfg.Temperature.ThresholdGreen != 50 {
		t.Fatalf("expected threshold_green override 50, got %v", cfg.Temperature.ThresholdGreen)
	}
	if cfg.Daemon.Password != "secret" {
		t.Fatalf("expected password override, got %q", cfg.Daemon.Password)
	}
	if got := cfg.Colors.HotOrange; got.R != 250 || got.G != 60 || got.B != 0 {
		t.Fatalf("expected hot_orange override, got %+v", got)
	}
	// Untouched sections keep their defaults.
	if cfg.Temperature.ThresholdRed != 75 {
		t.Fatalf("expected default threshold_red 75, got %v", cfg.Temperature.ThresholdRed)
	}
	if cfg.Colors.Green.G != 255 {
		t.Fatalf("expected default green bucket, got %+v", cfg.Colors.Green)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"descending thresholds", "temperature:\n  threshold_green: 80\n  threshold_orange: 65\n"},
		{"orientation", "display:\n  orientation: 45\n"},
		{"brightness", "display:\n  brightness: 150\n"},
		{"bar wider than display", "layout:\n  bar_width: 500\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected validation error for %s; got nil", tc.name)
			}
		})
	}
}

func TestIntervals(t *testing.T) {
	cfg := Default()
	if got := cfg.RefreshInterval().Seconds(); got != 2.5 {
		t.Fatalf("expected refresh interval 2.5s, got %vs", got)
	}
	if got := cfg.GPUCacheInterval().Seconds(); got != 2 {
		t.Fatalf("expected gpu cache interval 2s, got %vs", got)
	}
}

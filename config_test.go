package gfxcmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gfxcmd/driver/trace"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Driver != "gl46" || !cfg.Vsync || cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
driver = "trace"
bucket_size = 8
vsync = false
log_level = "debug"
`))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.Driver != trace.Name || cfg.BucketSize != 8 || cfg.Vsync || cfg.LogLevel != "debug" {
		t.Errorf("ParseConfig() = %+v", cfg)
	}
	// Unset keys keep their defaults.
	if cfg.Width != 1280 || cfg.IndirectBufferSize != 256 {
		t.Errorf("defaults lost: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "drivr = \"trace\"\n"},
		{"wrong type", "bucket_size = \"many\"\n"},
		{"syntax", "driver = \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc)); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ParseConfig() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*DeviceConfig)
	}{
		{"no driver", func(c *DeviceConfig) { c.Driver = "" }},
		{"unknown driver", func(c *DeviceConfig) { c.Driver = "vulkan9" }},
		{"negative bucket", func(c *DeviceConfig) { c.BucketSize = -1 }},
		{"negative width", func(c *DeviceConfig) { c.Width = -1 }},
		{"negative indirect", func(c *DeviceConfig) { c.IndirectBufferSize = -20 }},
		{"bad log level", func(c *DeviceConfig) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Driver = trace.Name
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want %v", err, ErrInvalidConfig)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gfxcmd.toml")
	if err := os.WriteFile(path, []byte("driver = \"trace\"\nwidth = 640\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Width != 640 {
		t.Errorf("Width = %d, want 640", cfg.Width)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing) error = %v, want %v", err, os.ErrNotExist)
	}
}

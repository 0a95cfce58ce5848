package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/gfxcmd"
	"github.com/gogpu/gfxcmd/driver/trace"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte("driver = \"trace\"\nwidth = 320\nheight = 200\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		path       string
		driver     string
		wantDriver string
		wantWidth  int
	}{
		{"defaults", "", "", gfxcmd.DefaultConfig().Driver, gfxcmd.DefaultConfig().Width},
		{"file", path, "", trace.Name, 320},
		{"override", path, "halgpu", "halgpu", 320},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := loadConfig(tt.path, tt.driver)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Driver != tt.wantDriver || cfg.Width != tt.wantWidth {
				t.Errorf("loadConfig() = %s %d, want %s %d", cfg.Driver, cfg.Width, tt.wantDriver, tt.wantWidth)
			}
		})
	}
}

func TestTriangle(t *testing.T) {
	if got := len(triangle()); got != 3*vertexStride {
		t.Errorf("len(triangle()) = %d, want %d", got, 3*vertexStride)
	}
}

func TestSceneFrame(t *testing.T) {
	drv := trace.New(trace.Config{})
	dev, err := gfxcmd.NewDevice(drv)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	defer dev.Close()
	if err := dev.Mode(64, 64); err != nil {
		t.Fatalf("Mode() error = %v", err)
	}

	sc, err := newScene(dev)
	if err != nil {
		t.Fatalf("newScene() error = %v", err)
	}
	cl := dev.CreateCommandList()
	for frame := 0; frame < 2; frame++ {
		if err := dev.Prepare(); err != nil {
			t.Fatalf("Prepare() error = %v", err)
		}
		sc.record(dev, cl, frame)
		if err := dev.Submit(cl); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
	}
	if got := len(drv.Draws()); got != 2 {
		t.Errorf("draws = %d, want 2", got)
	}
	if got := len(drv.Clears()); got != 2 {
		t.Errorf("clears = %d, want 2", got)
	}
}

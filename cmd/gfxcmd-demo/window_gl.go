//go:build !nogl

package main

import (
	"github.com/gogpu/gfxcmd"
	"github.com/gogpu/gfxcmd/driver/gl46"
	"github.com/gogpu/gfxcmd/platform/glfwsurface"
)

// window is the native window the demo presents to.
type window interface {
	Poll() bool
	Close() error
}

// openWindowed opens a GLFW window and a device on it. Only the gl46 driver
// presents to a window.
func openWindowed(cfg gfxcmd.DeviceConfig, win *window, opts ...gfxcmd.Option) (*gfxcmd.Device, error) {
	if cfg.Driver != gl46.Name {
		return nil, errNoWindow
	}
	s, err := glfwsurface.Open(glfwsurface.Config{
		Title:     "gfxcmd demo",
		Width:     cfg.Width,
		Height:    cfg.Height,
		Resizable: true,
		Debug:     cfg.Debug,
	})
	if err != nil {
		return nil, err
	}
	dev, err := gfxcmd.OpenDevice(cfg, append(opts, gfxcmd.WithSurface(s))...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.OnResize(func(width, height int) {
		if width > 0 && height > 0 {
			_ = dev.Mode(width, height)
		}
	})
	if w, h := s.FramebufferSize(); w > 0 && h > 0 {
		_ = dev.Mode(w, h)
	}
	*win = s
	return dev, nil
}

//go:build nogl

package main

import "github.com/gogpu/gfxcmd"

type window interface {
	Poll() bool
	Close() error
}

func openWindowed(gfxcmd.DeviceConfig, *window, ...gfxcmd.Option) (*gfxcmd.Device, error) {
	return nil, errNoWindow
}

package gfxcmd

import (
	"fmt"
	"unsafe"
)

// Surface is the window a device presents to. It owns the GPU context.
type Surface interface {
	MakeContextCurrent()
	SwapBuffers()
	SetSwapInterval(interval int)
	ProcAddress(name string) unsafe.Pointer
}

// Prepare starts a frame: the surface context is made current, the driver
// resets its per-frame state and the playback engine falls back to the
// null pipeline with no index buffer.
func (d *Device) Prepare() error {
	if d.closed {
		return ErrClosed
	}
	if d.surface != nil {
		d.surface.MakeContextCurrent()
	}
	d.drv.Prepare(d.indirect)
	return d.pb.reset()
}

// Present swaps the surface buffers.
func (d *Device) Present() error {
	if d.closed {
		return ErrClosed
	}
	if d.surface == nil {
		return ErrNoSurface
	}
	d.surface.SwapBuffers()
	return nil
}

// Vsync enables or disables waiting for vertical blank on Present.
func (d *Device) Vsync(on bool) error {
	if d.surface == nil {
		return ErrNoSurface
	}
	interval := 0
	if on {
		interval = 1
	}
	d.surface.SetSwapInterval(interval)
	d.log.Debug("gfxcmd: swap interval set", "interval", interval)
	return nil
}

// Mode resizes the default render target.
func (d *Device) Mode(width, height int) error {
	if d.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: mode %dx%d", ErrInvalidDescriptor, width, height)
	}
	d.width, d.height = width, height
	d.drv.Resize(width, height)
	d.log.Info("gfxcmd: mode set", "width", width, "height", height)
	return nil
}

// Size returns the size of the default render target set by Mode.
func (d *Device) Size() (width, height int) { return d.width, d.height }

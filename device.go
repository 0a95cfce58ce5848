package gfxcmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/gogpu/gfxcmd/driver"
	"github.com/gogpu/gfxcmd/internal/slots"
)

// minIndirectBufferSize fits one indexed draw record.
const minIndirectBufferSize = drawIndexedArgsSize

// Device owns a driver, the resources created through it and the playback
// state of the command lists submitted to it.
//
// A Device is not safe for concurrent use.
type Device struct {
	drv     driver.Driver
	info    driver.Info
	log     *slog.Logger
	onDebug func(DebugMessage)
	surface Surface

	bucketSize   int
	indirectSize int
	slots        *slots.Allocator

	buffers  pool[bufferRecord]
	textures pool[textureRecord]
	samplers pool[samplerRecord]
	targets  pool[targetRecord]
	shaders  pool[shaderRecord]

	pipelines map[*Pipeline]struct{}
	lists     map[*CommandList]struct{}
	null      *Pipeline
	pb        *playback
	indirect  driver.BufferID

	width, height int
	closed        bool
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger of the device. The package logger is used
// otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// WithSurface attaches the window surface used by Present and Vsync.
func WithSurface(s Surface) Option {
	return func(d *Device) { d.surface = s }
}

// WithDebugCallback sets the receiver of debug messages.
func WithDebugCallback(fn func(DebugMessage)) Option {
	return func(d *Device) { d.onDebug = fn }
}

// WithBucketSize overrides the number of vertex binding slots per bucket.
// By default it is the driver's maximum number of vertex bindings.
func WithBucketSize(n int) Option {
	return func(d *Device) {
		if n > 0 {
			d.bucketSize = n
		}
	}
}

// WithIndirectBufferSize sets the size of the staging indirect buffer.
// Sizes below one indexed draw record are raised to it.
func WithIndirectBufferSize(n int) Option {
	return func(d *Device) { d.indirectSize = max(n, minIndirectBufferSize) }
}

// NewDevice creates a device on drv, creates the staging indirect buffer
// and the null pipeline, and binds the null pipeline.
func NewDevice(drv driver.Driver, opts ...Option) (*Device, error) {
	if drv == nil {
		return nil, ErrNilDriver
	}
	d := &Device{
		drv:          drv,
		info:         drv.Info(),
		log:          Logger(),
		indirectSize: minIndirectBufferSize,
		slots:        slots.New(),
		pipelines:    make(map[*Pipeline]struct{}),
		lists:        make(map[*CommandList]struct{}),
	}
	d.bucketSize = d.info.MaxVertexBindings
	for _, opt := range opts {
		opt(d)
	}
	if d.bucketSize <= 0 {
		d.bucketSize = 1
	}
	d.pb = newPlayback(d)

	indirect, err := drv.CreateBuffer(driver.BufferDesc{
		Label: "indirect-" + newLabel(),
		Size:  uint64(d.indirectSize), //nolint:gosec // at least minIndirectBufferSize
		Usage: driver.UsageIndirect,
	})
	if err != nil {
		return nil, fmt.Errorf("gfxcmd: create indirect buffer: %w", err)
	}
	d.indirect = indirect

	if err := d.createNullPipeline(); err != nil {
		drv.DestroyBuffer(indirect)
		return nil, fmt.Errorf("gfxcmd: create null pipeline: %w", err)
	}
	drv.Prepare(indirect)
	if err := d.pb.reset(); err != nil {
		return nil, err
	}

	d.log.Info("gfxcmd: device created",
		"driver", d.info.Name, "renderer", d.info.Renderer,
		"version", fmt.Sprintf("%d.%d", d.info.VersionMajor, d.info.VersionMinor),
		"bucket_size", d.bucketSize)
	return d, nil
}

// OpenDevice opens the driver named by cfg.Driver and creates a device on
// it. Driver diagnostics are forwarded to the debug callback.
func OpenDevice(cfg DeviceConfig, opts ...Option) (*Device, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var d *Device
	dopts := driver.Options{
		Logger: Logger(),
		Debug:  cfg.Debug,
		Width:  cfg.Width,
		Height: cfg.Height,
		OnMessage: func(m driver.Message) {
			if d != nil {
				d.notify(DebugLevel(m.Severity), m.Text)
			}
		},
	}
	// Options that affect the driver are applied to a scratch device
	// first so the surface and logger reach the driver too.
	var probe Device
	for _, opt := range opts {
		opt(&probe)
	}
	if probe.log != nil {
		dopts.Logger = probe.log
	}
	if probe.surface != nil {
		dopts.ProcAddress = probe.surface.ProcAddress
	}

	drv, err := driver.Open(cfg.Driver, dopts)
	if err != nil {
		return nil, err
	}

	all := make([]Option, 0, len(opts)+2)
	all = append(all, WithIndirectBufferSize(cfg.IndirectBufferSize))
	if cfg.BucketSize > 0 {
		all = append(all, WithBucketSize(cfg.BucketSize))
	}
	all = append(all, opts...)
	d, err = NewDevice(drv, all...)
	if err != nil {
		return nil, errors.Join(err, drv.Close())
	}
	d.width, d.height = cfg.Width, cfg.Height
	if d.surface != nil {
		if err := d.Vsync(cfg.Vsync); err != nil {
			d.log.Warn("gfxcmd: vsync not applied", "err", err)
		}
	}
	return d, nil
}

// notify delivers a message to the debug callback.
func (d *Device) notify(level DebugLevel, text string) {
	if d.onDebug != nil {
		d.onDebug(DebugMessage{Level: level, Text: text})
	}
}

var debugLogLevels = [...]slog.Level{
	DebugTrace: slog.LevelDebug - 4,
	DebugDebug: slog.LevelDebug,
	DebugInfo:  slog.LevelInfo,
	DebugWarn:  slog.LevelWarn,
	DebugError: slog.LevelError,
}

// debugf logs a message and delivers it to the debug callback.
func (d *Device) debugf(level DebugLevel, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	lvl := slog.LevelError
	if int(level) < len(debugLogLevels) {
		lvl = debugLogLevels[level]
	}
	d.log.Log(context.Background(), lvl, "gfxcmd: "+text)
	d.notify(level, text)
}

// Driver returns the driver the device runs on.
func (d *Device) Driver() driver.Driver { return d.drv }

// BucketSize returns the number of vertex binding slots per bucket.
func (d *Device) BucketSize() int { return d.bucketSize }

// SlotsInUse returns the number of vertex binding slots held by live
// vertex buffers.
func (d *Device) SlotsInUse() int { return d.slots.InUse() }

// DeviceInfo describes the driver behind a device.
type DeviceInfo struct {
	Driver                 string
	Renderer               string
	VersionMajor           int
	VersionMinor           int
	SupportsAnisotropic    bool
	SupportsStorageBuffers bool
	MaxVertexBindings      int
	ShaderFormats          []ShaderFormat
}

// SupportsShaderFormat reports whether shaders in format f can be created.
func (i DeviceInfo) SupportsShaderFormat(f ShaderFormat) bool {
	return slices.Contains(i.ShaderFormats, f)
}

// Info returns the capabilities of the device. WGSL is available whenever
// the driver accepts SPIR-V.
func (d *Device) Info() DeviceInfo {
	info := DeviceInfo{
		Driver:                 d.info.Name,
		Renderer:               d.info.Renderer,
		VersionMajor:           d.info.VersionMajor,
		VersionMinor:           d.info.VersionMinor,
		SupportsAnisotropic:    d.info.SupportsAnisotropic,
		SupportsStorageBuffers: d.info.SupportsStorageBuffers,
		MaxVertexBindings:      d.info.MaxVertexBindings,
	}
	if d.info.SupportsSPIRV {
		info.ShaderFormats = append(info.ShaderFormats, ShaderSPIRV, ShaderWGSL)
	}
	if d.info.SupportsGLSL {
		info.ShaderFormats = append(info.ShaderFormats, ShaderGLSL)
	}
	return info
}

// Close destroys every resource still owned by the device and closes the
// driver. The device cannot be used afterwards.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	for cl := range d.lists {
		cl.release()
	}
	clear(d.lists)
	for p := range d.pipelines {
		p.release()
	}
	clear(d.pipelines)
	d.null.release()

	d.buffers.each(func(_ handle, r *bufferRecord) { d.drv.DestroyBuffer(r.storage) })
	d.textures.each(func(_ handle, r *textureRecord) { d.drv.DestroyTexture(r.native) })
	d.samplers.each(func(_ handle, r *samplerRecord) { d.drv.DestroySampler(r.native) })
	d.targets.each(func(_ handle, r *targetRecord) { d.drv.DestroyFramebuffer(r.native) })
	d.shaders.each(func(_ handle, r *shaderRecord) { d.drv.DestroyShader(r.native) })
	d.drv.DestroyBuffer(d.indirect)
	d.buffers = pool[bufferRecord]{}
	d.textures = pool[textureRecord]{}
	d.samplers = pool[samplerRecord]{}
	d.targets = pool[targetRecord]{}
	d.shaders = pool[shaderRecord]{}

	d.closed = true
	d.log.Info("gfxcmd: device closed", "driver", d.info.Name)
	return d.drv.Close()
}

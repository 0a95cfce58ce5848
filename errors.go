package gfxcmd

import "errors"

// Sentinel errors. Errors returned by gfxcmd wrap one of these; test with
// errors.Is.
var (
	// ErrNilDriver is returned by NewDevice when no driver is given.
	ErrNilDriver = errors.New("gfxcmd: nil driver")

	// ErrInvalidDescriptor is returned for resource descriptors with
	// impossible sizes or missing fields.
	ErrInvalidDescriptor = errors.New("gfxcmd: invalid descriptor")

	// ErrInvalidHandle is returned when a zero or foreign handle is used.
	ErrInvalidHandle = errors.New("gfxcmd: invalid handle")

	// ErrStaleHandle is returned by Submit when a recorded command refers to
	// a resource that was destroyed, or whose storage changed, after the
	// command was recorded.
	ErrStaleHandle = errors.New("gfxcmd: stale handle")

	// ErrUnsupportedAttribute is returned by CreatePipeline for vertex
	// attribute type and count combinations the drivers cannot format.
	ErrUnsupportedAttribute = errors.New("gfxcmd: unsupported vertex attribute")

	// ErrUnsupportedFormat is returned for pixel formats, shader formats and
	// primitive modes without a native equivalent.
	ErrUnsupportedFormat = errors.New("gfxcmd: unsupported format")

	// ErrShaderCompile is returned when a shader fails to compile or link.
	ErrShaderCompile = errors.New("gfxcmd: shader compilation failed")

	// ErrIncompleteTarget is returned when a render target cannot be
	// completed from its attachments.
	ErrIncompleteTarget = errors.New("gfxcmd: incomplete render target")

	// ErrNoSurface is returned by Present and Vsync on a device created
	// without a surface.
	ErrNoSurface = errors.New("gfxcmd: device has no surface")

	// ErrWriteOutOfRange is logged when a buffer write exceeds the buffer.
	ErrWriteOutOfRange = errors.New("gfxcmd: write exceeds buffer size")

	// ErrClosed is returned when a closed device is used.
	ErrClosed = errors.New("gfxcmd: device closed")

	// ErrInvalidConfig is returned by DeviceConfig.Validate.
	ErrInvalidConfig = errors.New("gfxcmd: invalid config")
)

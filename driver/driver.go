// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver defines the binding surface between gfxcmd and a concrete
// graphics driver.
//
// A Driver exposes the primitive operations the playback engine needs:
// resource creation, vertex-format objects, fixed-function state, resource
// binds, clears, blits and indirect draws. Implementations may execute each
// call immediately (see driver/gl46) or buffer them into deferred work (see
// driver/halgpu). Drivers register themselves by name, in the manner of
// database/sql drivers:
//
//	import _ "github.com/gogpu/gfxcmd/driver/trace"
//
//	drv, err := driver.Open("trace", driver.Options{})
//
// Native objects are identified by small typed integers. The zero value of
// every id type means "none" and is accepted wherever unbinding makes sense.
package driver

import (
	"image"
	"log/slog"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// Native object identifiers. Zero is never a valid object.
type (
	BufferID       uint64
	TextureID      uint64
	SamplerID      uint64
	FramebufferID  uint64
	ShaderID       uint64
	ProgramID      uint64
	VertexFormatID uint64
)

// BufferUsage tells the driver how a buffer will be bound.
type BufferUsage uint8

const (
	UsageData BufferUsage = iota
	UsageIndex
	UsageVertex
	UsageIndirect
)

// BufferDesc describes a buffer. Data, when non-nil, is the initial content
// and must not be longer than Size.
type BufferDesc struct {
	Label string
	Size  uint64
	Usage BufferUsage
	Data  []byte
}

// TextureKind is the dimensionality of a texture.
type TextureKind uint8

const (
	Texture2D TextureKind = iota
	TextureCube
	TextureArray
)

// TextureDesc describes a texture. Depth is the layer count for array
// textures and ignored otherwise. MipLevels of zero means one level.
type TextureDesc struct {
	Label     string
	Kind      TextureKind
	Format    gputypes.TextureFormat
	Width     uint32
	Height    uint32
	Depth     uint32
	MipLevels uint32
}

// TextureRegion selects the texels a write covers. Z is the first array
// layer for array textures and the face index (0..5) for cube textures.
type TextureRegion struct {
	X, Y, Z       uint32
	Width, Height uint32
	Depth         uint32
	Level         uint32
}

// SamplerDesc describes a sampler. Anisotropy of zero disables anisotropic
// filtering.
type SamplerDesc struct {
	Label        string
	AddressModeU gputypes.AddressMode
	AddressModeV gputypes.AddressMode
	AddressModeW gputypes.AddressMode
	MagFilter    gputypes.FilterMode
	MinFilter    gputypes.FilterMode
	MipmapFilter gputypes.FilterMode
	Anisotropy   float32
	LodMinClamp  float32
	LodMaxClamp  float32
	LodBias      float32
}

// ColorAttachment binds a texture to a color attachment point.
type ColorAttachment struct {
	Index   uint32
	Texture TextureID
}

// FramebufferDesc describes a render target.
type FramebufferDesc struct {
	Label   string
	Color   []ColorAttachment
	Depth   TextureID
	Stencil TextureID
}

// ShaderStage identifies a programmable stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// String returns the stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// ShaderDesc describes a single shader stage. Exactly one of GLSL and SPIRV
// is set.
type ShaderDesc struct {
	Label string
	Stage ShaderStage
	GLSL  string
	SPIRV []uint32
}

// ProgramDesc links shader stages into a program.
type ProgramDesc struct {
	Label   string
	Shaders []ShaderID
}

// VertexAttribute configures one attribute of a vertex-format object.
type VertexAttribute struct {
	Location uint32
	Format   gputypes.VertexFormat
	Offset   uint32
}

// ClearMask selects render-target planes.
type ClearMask uint16

const (
	ClearColor   ClearMask = 1 << 0
	ClearDepth   ClearMask = 1 << 1
	ClearStencil ClearMask = 1 << 2
)

// CullFaces selects which faces are culled.
type CullFaces uint8

const (
	CullFront CullFaces = 1 << 0
	CullBack  CullFaces = 1 << 1
)

// FillMode is the polygon rasterization mode.
type FillMode uint8

const (
	FillSolid FillMode = iota
	FillLines
	FillPoints
)

// BlendState configures color blending.
type BlendState struct {
	Enabled   bool
	Operation gputypes.BlendOperation
	SrcFactor gputypes.BlendFactor
	DstFactor gputypes.BlendFactor
}

// DepthState configures depth testing.
type DepthState struct {
	Enabled bool
	Compare gputypes.CompareFunction
}

// CullState configures face culling.
type CullState struct {
	Enabled   bool
	Faces     CullFaces
	FrontFace gputypes.FrontFace
}

// Mode returns the single-face cull mode. Culling both faces has no
// gputypes equivalent and reports CullModeNone with all=true.
func (c CullState) Mode() (mode gputypes.CullMode, all bool) {
	if !c.Enabled {
		return gputypes.CullModeNone, false
	}
	switch c.Faces {
	case CullFront:
		return gputypes.CullModeFront, false
	case CullBack:
		return gputypes.CullModeBack, false
	case CullFront | CullBack:
		return gputypes.CullModeNone, true
	default:
		return gputypes.CullModeNone, false
	}
}

// RasterState is the fixed-function state applied when a pipeline is bound.
type RasterState struct {
	Blend BlendState
	Depth DepthState
	Cull  CullState
	Fill  FillMode
}

// Info describes a driver and its capabilities.
type Info struct {
	Name                   string
	Renderer               string
	VersionMajor           int
	VersionMinor           int
	SupportsAnisotropic    bool
	SupportsStorageBuffers bool
	SupportsGLSL           bool
	SupportsSPIRV          bool
	MaxVertexBindings      int
	MaxAnisotropy          float32
}

// Severity is the level of a driver debug message.
type Severity uint8

const (
	SeverityTrace Severity = iota
	SeverityDebug
	SeverityInfo
	SeverityWarn
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityTrace:
		return "trace"
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Message is a diagnostic emitted by a driver.
type Message struct {
	Severity Severity
	Text     string
}

// Options configures a driver when it is opened. Each driver reads only the
// fields it needs.
type Options struct {
	Logger *slog.Logger

	// Debug enables driver-side validation and debug output.
	Debug bool

	// OnMessage receives driver diagnostics. May be nil.
	OnMessage func(Message)

	// ProcAddress resolves OpenGL entry points for the current context.
	ProcAddress func(name string) unsafe.Pointer

	// Provider supplies an existing GPU device to HAL based drivers.
	Provider gpucontext.DeviceProvider

	// Width and Height are the initial size of the default render target.
	Width, Height int
}

// Driver is the binding surface the playback engine runs against.
//
// A Driver is used from a single goroutine. Methods that take ids accept
// only ids returned by the same driver.
type Driver interface {
	Info() Info

	CreateBuffer(desc BufferDesc) (BufferID, error)
	DestroyBuffer(id BufferID)
	WriteBuffer(id BufferID, offset uint64, data []byte)

	CreateTexture(desc TextureDesc) (TextureID, error)
	DestroyTexture(id TextureID)
	WriteTexture(id TextureID, region TextureRegion, data []byte) error
	GenerateMipmaps(id TextureID)

	CreateSampler(desc SamplerDesc) (SamplerID, error)
	DestroySampler(id SamplerID)

	CreateFramebuffer(desc FramebufferDesc) (FramebufferID, error)
	DestroyFramebuffer(id FramebufferID)

	CreateShader(desc ShaderDesc) (ShaderID, error)
	DestroyShader(id ShaderID)
	CreateProgram(desc ProgramDesc) (ProgramID, error)
	DestroyProgram(id ProgramID)

	// Vertex-format objects hold the attribute layout and the buffer
	// attachments for one bucket of binding slots.
	CreateVertexFormat(label string) (VertexFormatID, error)
	DestroyVertexFormat(id VertexFormatID)
	// SetAttribFormat enables an attribute read as floating point.
	SetAttribFormat(vf VertexFormatID, attr VertexAttribute)
	// SetAttribIntegerFormat enables an attribute read as an integer.
	SetAttribIntegerFormat(vf VertexFormatID, attr VertexAttribute)
	SetAttribBinding(vf VertexFormatID, location, binding uint32)
	SetVertexBuffer(vf VertexFormatID, binding uint32, buf BufferID, offset uint64, stride uint32)
	SetIndexBuffer(vf VertexFormatID, buf BufferID)
	BindVertexFormat(vf VertexFormatID)

	SetRasterState(state RasterState)
	BindProgram(id ProgramID)

	BindUniformBuffer(index uint32, buf BufferID)
	BindStorageBuffer(index uint32, buf BufferID)
	BindSampler(unit uint32, id SamplerID)
	BindTexture(unit uint32, id TextureID)
	BindFramebuffer(id FramebufferID)

	SetScissor(r image.Rectangle)
	SetViewport(r image.Rectangle)
	SetClearColor(c [4]float32)
	SetClearDepth(d float32)
	Clear(mask ClearMask)
	BlitFramebuffer(src, dst FramebufferID, srcRect, dstRect image.Rectangle, mask ClearMask, linear bool)

	// DrawIndirect draws with arguments read from buf at offset:
	// four uint32 values {count, instances, first, baseInstance}.
	DrawIndirect(topology gputypes.PrimitiveTopology, buf BufferID, offset uint64)
	// DrawIndexedIndirect draws with arguments read from buf at offset:
	// {count, instances, firstIndex, baseVertex (int32), baseInstance}.
	DrawIndexedIndirect(topology gputypes.PrimitiveTopology, format gputypes.IndexFormat, buf BufferID, offset uint64)

	// Prepare resets per-frame driver state and selects buf as the
	// indirect argument buffer.
	Prepare(indirect BufferID)
	Resize(width, height int)

	Close() error
}

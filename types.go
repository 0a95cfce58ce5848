package gfxcmd

import "fmt"

// IndexType is the element type of an index buffer.
type IndexType uint8

const (
	Index16 IndexType = iota
	Index32
)

// PrimitiveMode is the primitive topology a pipeline draws.
type PrimitiveMode uint8

const (
	PrimitivePoints PrimitiveMode = iota
	PrimitiveLines
	PrimitiveLineStrip
	PrimitiveLineLoop
	PrimitiveTriangles
	PrimitiveTriangleStrip
	PrimitiveTriangleFan
)

// AttribType is the component type of a vertex attribute.
type AttribType uint8

const (
	AttribFloat32 AttribType = iota
	AttribFloat64
	AttribSint8
	AttribSint16
	AttribSint32
	AttribUint8
	AttribUint16
	AttribUint32
)

var attribTypeNames = [...]string{
	AttribFloat32: "float32",
	AttribFloat64: "float64",
	AttribSint8:   "sint8",
	AttribSint16:  "sint16",
	AttribSint32:  "sint32",
	AttribUint8:   "uint8",
	AttribUint16:  "uint16",
	AttribUint32:  "uint32",
}

// String returns the type name.
func (t AttribType) String() string {
	if int(t) < len(attribTypeNames) {
		return attribTypeNames[t]
	}
	return fmt.Sprintf("AttribType(%d)", t)
}

// IsInteger reports whether t is a signed or unsigned integer type.
func (t AttribType) IsInteger() bool {
	return t >= AttribSint8 && t <= AttribUint32
}

// BufferType selects what a buffer is bound as.
type BufferType uint8

const (
	// BufferData is bound as a uniform or storage buffer.
	BufferData BufferType = iota
	BufferIndex
	// BufferVertex buffers occupy a vertex binding slot while alive.
	BufferVertex
)

// ShaderStage identifies a programmable stage.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageFragment
)

// ShaderFormat is the encoding of shader code.
type ShaderFormat uint8

const (
	ShaderSPIRV ShaderFormat = iota
	ShaderGLSL
	ShaderWGSL
)

// String returns the format name.
func (f ShaderFormat) String() string {
	switch f {
	case ShaderSPIRV:
		return "spirv"
	case ShaderGLSL:
		return "glsl"
	case ShaderWGSL:
		return "wgsl"
	default:
		return fmt.Sprintf("ShaderFormat(%d)", f)
	}
}

// TextureType is the dimensionality of a texture.
type TextureType uint8

const (
	TextureType2D TextureType = iota
	TextureTypeCube
	TextureTypeArray
)

// PixelFormat is the texel format of a texture.
type PixelFormat uint8

const (
	FormatR8Unorm PixelFormat = iota
	FormatR8Sint
	FormatR8Uint
	FormatRG8Unorm
	FormatRG8Sint
	FormatRG8Uint
	FormatRGB8Unorm
	FormatRGB8Sint
	FormatRGB8Uint
	FormatRGBA8Unorm
	FormatRGBA8Sint
	FormatRGBA8Uint
	FormatR16Unorm
	FormatR16Sint
	FormatR16Uint
	FormatR16Float
	FormatRG16Unorm
	FormatRG16Sint
	FormatRG16Uint
	FormatRG16Float
	FormatRGB16Unorm
	FormatRGB16Sint
	FormatRGB16Uint
	FormatRGB16Float
	FormatRGBA16Unorm
	FormatRGBA16Sint
	FormatRGBA16Uint
	FormatRGBA16Float
	FormatR32Sint
	FormatR32Uint
	FormatR32Float
	FormatRG32Sint
	FormatRG32Uint
	FormatRG32Float
	FormatRGB32Sint
	FormatRGB32Uint
	FormatRGB32Float
	FormatRGBA32Sint
	FormatRGBA32Uint
	FormatRGBA32Float
	FormatD16Unorm
	FormatD32Float
	FormatS8Uint
)

// BlendEquation combines source and destination blend terms.
type BlendEquation uint8

const (
	BlendAdd BlendEquation = iota
	BlendSubtract
	BlendReverseSubtract
	BlendMin
	BlendMax
)

// BlendFunc is a blend factor.
type BlendFunc uint8

const (
	BlendZero BlendFunc = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstColor
	BlendOneMinusDstColor
	BlendDstAlpha
	BlendOneMinusDstAlpha
)

// DepthFunc is the depth comparison.
type DepthFunc uint8

const (
	DepthNever DepthFunc = iota
	DepthAlways
	DepthEqual
	DepthNotEqual
	DepthLess
	DepthLessEqual
	DepthGreater
	DepthGreaterEqual
)

// FillMode is the polygon rasterization mode.
type FillMode uint8

const (
	FillFilled FillMode = iota
	FillPoints
	FillWireframe
)

// RenderTargetMask selects render target planes for clears and copies.
type RenderTargetMask uint16

const (
	TargetColor   RenderTargetMask = 1 << 0
	TargetDepth   RenderTargetMask = 1 << 1
	TargetStencil RenderTargetMask = 1 << 2
)

// SamplerFlags configures addressing and filtering of a sampler.
type SamplerFlags uint16

const (
	SamplerClampS SamplerFlags = 1 << iota
	SamplerClampT
	SamplerClampR
	SamplerFilter
	SamplerFilterAniso
)

// CullFlags configures face culling. CullClockwise makes clockwise
// polygons front facing.
type CullFlags uint16

const (
	CullClockwise CullFlags = 1 << iota
	CullFront
	CullBack
)

// DebugLevel is the severity of a debug message.
type DebugLevel uint8

const (
	DebugTrace DebugLevel = iota
	DebugDebug
	DebugInfo
	DebugWarn
	DebugError
)

// DebugMessage is delivered to the debug callback of a device.
type DebugMessage struct {
	Level DebugLevel
	Text  string
}

// VertexAttrib describes one vertex attribute. Offset is in bytes from the
// start of the vertex.
type VertexAttrib struct {
	ID         uint32
	Type       AttribType
	Count      int
	Offset     int
	Normalized bool
}

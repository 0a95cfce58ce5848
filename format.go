package gfxcmd

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

// attribKey identifies a vertex attribute configuration.
type attribKey struct {
	typ        AttribType
	count      int
	normalized bool
}

// attribFormats maps attribute configurations to native vertex formats.
// Configurations missing from the table are rejected at pipeline creation:
// 64-bit floats, 8 and 16 bit vectors of odd length and normalized 32-bit
// integers have no native format.
var attribFormats = map[attribKey]gputypes.VertexFormat{
	{AttribFloat32, 1, false}: gputypes.VertexFormatFloat32,
	{AttribFloat32, 2, false}: gputypes.VertexFormatFloat32x2,
	{AttribFloat32, 3, false}: gputypes.VertexFormatFloat32x3,
	{AttribFloat32, 4, false}: gputypes.VertexFormatFloat32x4,

	{AttribSint32, 1, false}: gputypes.VertexFormatSint32,
	{AttribSint32, 2, false}: gputypes.VertexFormatSint32x2,
	{AttribSint32, 3, false}: gputypes.VertexFormatSint32x3,
	{AttribSint32, 4, false}: gputypes.VertexFormatSint32x4,
	{AttribUint32, 1, false}: gputypes.VertexFormatUint32,
	{AttribUint32, 2, false}: gputypes.VertexFormatUint32x2,
	{AttribUint32, 3, false}: gputypes.VertexFormatUint32x3,
	{AttribUint32, 4, false}: gputypes.VertexFormatUint32x4,

	{AttribSint8, 2, false}:  gputypes.VertexFormatSint8x2,
	{AttribSint8, 4, false}:  gputypes.VertexFormatSint8x4,
	{AttribSint8, 2, true}:   gputypes.VertexFormatSnorm8x2,
	{AttribSint8, 4, true}:   gputypes.VertexFormatSnorm8x4,
	{AttribUint8, 2, false}:  gputypes.VertexFormatUint8x2,
	{AttribUint8, 4, false}:  gputypes.VertexFormatUint8x4,
	{AttribUint8, 2, true}:   gputypes.VertexFormatUnorm8x2,
	{AttribUint8, 4, true}:   gputypes.VertexFormatUnorm8x4,
	{AttribSint16, 2, false}: gputypes.VertexFormatSint16x2,
	{AttribSint16, 4, false}: gputypes.VertexFormatSint16x4,
	{AttribSint16, 2, true}:  gputypes.VertexFormatSnorm16x2,
	{AttribSint16, 4, true}:  gputypes.VertexFormatSnorm16x4,
	{AttribUint16, 2, false}: gputypes.VertexFormatUint16x2,
	{AttribUint16, 4, false}: gputypes.VertexFormatUint16x4,
	{AttribUint16, 2, true}:  gputypes.VertexFormatUnorm16x2,
	{AttribUint16, 4, true}:  gputypes.VertexFormatUnorm16x4,
}

// attribFormat resolves the native format of a. integer reports whether the
// attribute must be formatted through the integer path: integer component
// types that are not normalized.
func attribFormat(a VertexAttrib) (format gputypes.VertexFormat, integer bool, err error) {
	normalized := a.Normalized && a.Type.IsInteger()
	f, ok := attribFormats[attribKey{a.Type, a.Count, normalized}]
	if !ok {
		return 0, false, fmt.Errorf("%w: attribute %d: %d x %s (normalized=%v)",
			ErrUnsupportedAttribute, a.ID, a.Count, a.Type, a.Normalized)
	}
	return f, a.Type.IsInteger() && !normalized, nil
}

var blendOperations = [...]gputypes.BlendOperation{
	BlendAdd:             gputypes.BlendOperationAdd,
	BlendSubtract:        gputypes.BlendOperationSubtract,
	BlendReverseSubtract: gputypes.BlendOperationReverseSubtract,
	BlendMin:             gputypes.BlendOperationMin,
	BlendMax:             gputypes.BlendOperationMax,
}

var blendFactors = [...]gputypes.BlendFactor{
	BlendZero:             gputypes.BlendFactorZero,
	BlendOne:              gputypes.BlendFactorOne,
	BlendSrcColor:         gputypes.BlendFactorSrc,
	BlendOneMinusSrcColor: gputypes.BlendFactorOneMinusSrc,
	BlendSrcAlpha:         gputypes.BlendFactorSrcAlpha,
	BlendOneMinusSrcAlpha: gputypes.BlendFactorOneMinusSrcAlpha,
	BlendDstColor:         gputypes.BlendFactorDst,
	BlendOneMinusDstColor: gputypes.BlendFactorOneMinusDst,
	BlendDstAlpha:         gputypes.BlendFactorDstAlpha,
	BlendOneMinusDstAlpha: gputypes.BlendFactorOneMinusDstAlpha,
}

var compareFunctions = [...]gputypes.CompareFunction{
	DepthNever:        gputypes.CompareFunctionNever,
	DepthAlways:       gputypes.CompareFunctionAlways,
	DepthEqual:        gputypes.CompareFunctionEqual,
	DepthNotEqual:     gputypes.CompareFunctionNotEqual,
	DepthLess:         gputypes.CompareFunctionLess,
	DepthLessEqual:    gputypes.CompareFunctionLessEqual,
	DepthGreater:      gputypes.CompareFunctionGreater,
	DepthGreaterEqual: gputypes.CompareFunctionGreaterEqual,
}

func blendState(b Blending) (driver.BlendState, error) {
	if !b.Enabled {
		return driver.BlendState{}, nil
	}
	if int(b.Equation) >= len(blendOperations) || int(b.SrcFactor) >= len(blendFactors) || int(b.DstFactor) >= len(blendFactors) {
		return driver.BlendState{}, fmt.Errorf("%w: blend %d(%d, %d)", ErrUnsupportedFormat, b.Equation, b.SrcFactor, b.DstFactor)
	}
	return driver.BlendState{
		Enabled:   true,
		Operation: blendOperations[b.Equation],
		SrcFactor: blendFactors[b.SrcFactor],
		DstFactor: blendFactors[b.DstFactor],
	}, nil
}

func depthState(d DepthTesting) (driver.DepthState, error) {
	if !d.Enabled {
		return driver.DepthState{}, nil
	}
	if int(d.Func) >= len(compareFunctions) {
		return driver.DepthState{}, fmt.Errorf("%w: depth func %d", ErrUnsupportedFormat, d.Func)
	}
	return driver.DepthState{Enabled: true, Compare: compareFunctions[d.Func]}, nil
}

func cullState(c FaceCulling) driver.CullState {
	if !c.Enabled {
		return driver.CullState{}
	}
	s := driver.CullState{Enabled: true, FrontFace: gputypes.FrontFaceCCW}
	if c.Flags&CullClockwise != 0 {
		s.FrontFace = gputypes.FrontFaceCW
	}
	if c.Flags&CullFront != 0 {
		s.Faces |= driver.CullFront
	}
	if c.Flags&CullBack != 0 {
		s.Faces |= driver.CullBack
	}
	if s.Faces == 0 {
		s.Faces = driver.CullBack
	}
	return s
}

func fillMode(m FillMode) driver.FillMode {
	switch m {
	case FillPoints:
		return driver.FillPoints
	case FillWireframe:
		return driver.FillLines
	default:
		return driver.FillSolid
	}
}

// topology maps a primitive mode to a native topology. Line loops and
// triangle fans have no native equivalent.
func topology(m PrimitiveMode) (gputypes.PrimitiveTopology, error) {
	switch m {
	case PrimitivePoints:
		return gputypes.PrimitiveTopologyPointList, nil
	case PrimitiveLines:
		return gputypes.PrimitiveTopologyLineList, nil
	case PrimitiveLineStrip:
		return gputypes.PrimitiveTopologyLineStrip, nil
	case PrimitiveTriangles:
		return gputypes.PrimitiveTopologyTriangleList, nil
	case PrimitiveTriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, nil
	default:
		return 0, fmt.Errorf("%w: primitive mode %d", ErrUnsupportedFormat, m)
	}
}

func indexFormat(t IndexType) gputypes.IndexFormat {
	if t == Index32 {
		return gputypes.IndexFormatUint32
	}
	return gputypes.IndexFormatUint16
}

var textureFormats = map[PixelFormat]gputypes.TextureFormat{
	FormatR8Unorm:     gputypes.TextureFormatR8Unorm,
	FormatR8Sint:      gputypes.TextureFormatR8Sint,
	FormatR8Uint:      gputypes.TextureFormatR8Uint,
	FormatRG8Unorm:    gputypes.TextureFormatRG8Unorm,
	FormatRG8Sint:     gputypes.TextureFormatRG8Sint,
	FormatRG8Uint:     gputypes.TextureFormatRG8Uint,
	FormatRGBA8Unorm:  gputypes.TextureFormatRGBA8Unorm,
	FormatRGBA8Sint:   gputypes.TextureFormatRGBA8Sint,
	FormatRGBA8Uint:   gputypes.TextureFormatRGBA8Uint,
	FormatR16Sint:     gputypes.TextureFormatR16Sint,
	FormatR16Uint:     gputypes.TextureFormatR16Uint,
	FormatR16Float:    gputypes.TextureFormatR16Float,
	FormatRG16Sint:    gputypes.TextureFormatRG16Sint,
	FormatRG16Uint:    gputypes.TextureFormatRG16Uint,
	FormatRG16Float:   gputypes.TextureFormatRG16Float,
	FormatRGBA16Sint:  gputypes.TextureFormatRGBA16Sint,
	FormatRGBA16Uint:  gputypes.TextureFormatRGBA16Uint,
	FormatRGBA16Float: gputypes.TextureFormatRGBA16Float,
	FormatR32Sint:     gputypes.TextureFormatR32Sint,
	FormatR32Uint:     gputypes.TextureFormatR32Uint,
	FormatR32Float:    gputypes.TextureFormatR32Float,
	FormatRG32Sint:    gputypes.TextureFormatRG32Sint,
	FormatRG32Uint:    gputypes.TextureFormatRG32Uint,
	FormatRG32Float:   gputypes.TextureFormatRG32Float,
	FormatRGBA32Sint:  gputypes.TextureFormatRGBA32Sint,
	FormatRGBA32Uint:  gputypes.TextureFormatRGBA32Uint,
	FormatRGBA32Float: gputypes.TextureFormatRGBA32Float,
	FormatD16Unorm:    gputypes.TextureFormatDepth16Unorm,
	FormatD32Float:    gputypes.TextureFormatDepth32Float,
	FormatS8Uint:      gputypes.TextureFormatStencil8,
}

// textureFormat maps a pixel format to a native texture format. Three
// channel formats and 16-bit normalized formats have no native equivalent.
func textureFormat(f PixelFormat) (gputypes.TextureFormat, error) {
	tf, ok := textureFormats[f]
	if !ok {
		return gputypes.TextureFormatUndefined, fmt.Errorf("%w: pixel format %d", ErrUnsupportedFormat, f)
	}
	return tf, nil
}

// pixelSize returns the byte size of one texel of f, or 0 when unknown.
func pixelSize(f PixelFormat) int {
	switch f {
	case FormatR8Unorm, FormatR8Sint, FormatR8Uint, FormatS8Uint:
		return 1
	case FormatRG8Unorm, FormatRG8Sint, FormatRG8Uint,
		FormatR16Unorm, FormatR16Sint, FormatR16Uint, FormatR16Float, FormatD16Unorm:
		return 2
	case FormatRGB8Unorm, FormatRGB8Sint, FormatRGB8Uint:
		return 3
	case FormatRGBA8Unorm, FormatRGBA8Sint, FormatRGBA8Uint,
		FormatRG16Unorm, FormatRG16Sint, FormatRG16Uint, FormatRG16Float,
		FormatR32Sint, FormatR32Uint, FormatR32Float, FormatD32Float:
		return 4
	case FormatRGB16Unorm, FormatRGB16Sint, FormatRGB16Uint, FormatRGB16Float:
		return 6
	case FormatRGBA16Unorm, FormatRGBA16Sint, FormatRGBA16Uint, FormatRGBA16Float,
		FormatRG32Sint, FormatRG32Uint, FormatRG32Float:
		return 8
	case FormatRGB32Sint, FormatRGB32Uint, FormatRGB32Float:
		return 12
	case FormatRGBA32Sint, FormatRGBA32Uint, FormatRGBA32Float:
		return 16
	default:
		return 0
	}
}

func samplerDesc(label string, d SamplerDesc, info driver.Info) driver.SamplerDesc {
	addr := func(flag SamplerFlags) gputypes.AddressMode {
		if d.Flags&flag != 0 {
			return gputypes.AddressModeClampToEdge
		}
		return gputypes.AddressModeRepeat
	}
	filter := gputypes.FilterModeNearest
	if d.Flags&SamplerFilter != 0 {
		filter = gputypes.FilterModeLinear
	}
	out := driver.SamplerDesc{
		Label:        label,
		AddressModeU: addr(SamplerClampS),
		AddressModeV: addr(SamplerClampT),
		AddressModeW: addr(SamplerClampR),
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: filter,
		LodMinClamp:  d.MinLod,
		LodMaxClamp:  d.MaxLod,
		LodBias:      d.LodBias,
	}
	if d.Flags&SamplerFilterAniso != 0 && info.SupportsAnisotropic {
		out.Anisotropy = min(max(d.AnisoLevel, 1), max(info.MaxAnisotropy, 1))
	}
	return out
}

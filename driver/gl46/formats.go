// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

package gl46

import (
	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

// vertexFormat is the GL description of a vertex attribute format.
type vertexFormat struct {
	size       int32
	xtype      uint32
	normalized bool
}

var vertexFormats = map[gputypes.VertexFormat]vertexFormat{
	gputypes.VertexFormatFloat32:   {1, gl.FLOAT, false},
	gputypes.VertexFormatFloat32x2: {2, gl.FLOAT, false},
	gputypes.VertexFormatFloat32x3: {3, gl.FLOAT, false},
	gputypes.VertexFormatFloat32x4: {4, gl.FLOAT, false},
	gputypes.VertexFormatSint32:    {1, gl.INT, false},
	gputypes.VertexFormatSint32x2:  {2, gl.INT, false},
	gputypes.VertexFormatSint32x3:  {3, gl.INT, false},
	gputypes.VertexFormatSint32x4:  {4, gl.INT, false},
	gputypes.VertexFormatUint32:    {1, gl.UNSIGNED_INT, false},
	gputypes.VertexFormatUint32x2:  {2, gl.UNSIGNED_INT, false},
	gputypes.VertexFormatUint32x3:  {3, gl.UNSIGNED_INT, false},
	gputypes.VertexFormatUint32x4:  {4, gl.UNSIGNED_INT, false},
	gputypes.VertexFormatSint8x2:   {2, gl.BYTE, false},
	gputypes.VertexFormatSint8x4:   {4, gl.BYTE, false},
	gputypes.VertexFormatSnorm8x2:  {2, gl.BYTE, true},
	gputypes.VertexFormatSnorm8x4:  {4, gl.BYTE, true},
	gputypes.VertexFormatUint8x2:   {2, gl.UNSIGNED_BYTE, false},
	gputypes.VertexFormatUint8x4:   {4, gl.UNSIGNED_BYTE, false},
	gputypes.VertexFormatUnorm8x2:  {2, gl.UNSIGNED_BYTE, true},
	gputypes.VertexFormatUnorm8x4:  {4, gl.UNSIGNED_BYTE, true},
	gputypes.VertexFormatSint16x2:  {2, gl.SHORT, false},
	gputypes.VertexFormatSint16x4:  {4, gl.SHORT, false},
	gputypes.VertexFormatSnorm16x2: {2, gl.SHORT, true},
	gputypes.VertexFormatSnorm16x4: {4, gl.SHORT, true},
	gputypes.VertexFormatUint16x2:  {2, gl.UNSIGNED_SHORT, false},
	gputypes.VertexFormatUint16x4:  {4, gl.UNSIGNED_SHORT, false},
	gputypes.VertexFormatUnorm16x2: {2, gl.UNSIGNED_SHORT, true},
	gputypes.VertexFormatUnorm16x4: {4, gl.UNSIGNED_SHORT, true},
}

// pixelFormat is the GL storage and transfer format of a texture format.
type pixelFormat struct {
	internal uint32
	format   uint32
	xtype    uint32
}

var pixelFormats = map[gputypes.TextureFormat]pixelFormat{
	gputypes.TextureFormatR8Unorm:      {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatR8Sint:       {gl.R8I, gl.RED_INTEGER, gl.BYTE},
	gputypes.TextureFormatR8Uint:       {gl.R8UI, gl.RED_INTEGER, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRG8Unorm:     {gl.RG8, gl.RG, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRG8Sint:      {gl.RG8I, gl.RG_INTEGER, gl.BYTE},
	gputypes.TextureFormatRG8Uint:      {gl.RG8UI, gl.RG_INTEGER, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRGBA8Unorm:   {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatRGBA8Sint:    {gl.RGBA8I, gl.RGBA_INTEGER, gl.BYTE},
	gputypes.TextureFormatRGBA8Uint:    {gl.RGBA8UI, gl.RGBA_INTEGER, gl.UNSIGNED_BYTE},
	gputypes.TextureFormatR16Sint:      {gl.R16I, gl.RED_INTEGER, gl.SHORT},
	gputypes.TextureFormatR16Uint:      {gl.R16UI, gl.RED_INTEGER, gl.UNSIGNED_SHORT},
	gputypes.TextureFormatR16Float:     {gl.R16F, gl.RED, gl.HALF_FLOAT},
	gputypes.TextureFormatRG16Sint:     {gl.RG16I, gl.RG_INTEGER, gl.SHORT},
	gputypes.TextureFormatRG16Uint:     {gl.RG16UI, gl.RG_INTEGER, gl.UNSIGNED_SHORT},
	gputypes.TextureFormatRG16Float:    {gl.RG16F, gl.RG, gl.HALF_FLOAT},
	gputypes.TextureFormatRGBA16Sint:   {gl.RGBA16I, gl.RGBA_INTEGER, gl.SHORT},
	gputypes.TextureFormatRGBA16Uint:   {gl.RGBA16UI, gl.RGBA_INTEGER, gl.UNSIGNED_SHORT},
	gputypes.TextureFormatRGBA16Float:  {gl.RGBA16F, gl.RGBA, gl.HALF_FLOAT},
	gputypes.TextureFormatR32Sint:      {gl.R32I, gl.RED_INTEGER, gl.INT},
	gputypes.TextureFormatR32Uint:      {gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT},
	gputypes.TextureFormatR32Float:     {gl.R32F, gl.RED, gl.FLOAT},
	gputypes.TextureFormatRG32Sint:     {gl.RG32I, gl.RG_INTEGER, gl.INT},
	gputypes.TextureFormatRG32Uint:     {gl.RG32UI, gl.RG_INTEGER, gl.UNSIGNED_INT},
	gputypes.TextureFormatRG32Float:    {gl.RG32F, gl.RG, gl.FLOAT},
	gputypes.TextureFormatRGBA32Sint:   {gl.RGBA32I, gl.RGBA_INTEGER, gl.INT},
	gputypes.TextureFormatRGBA32Uint:   {gl.RGBA32UI, gl.RGBA_INTEGER, gl.UNSIGNED_INT},
	gputypes.TextureFormatRGBA32Float:  {gl.RGBA32F, gl.RGBA, gl.FLOAT},
	gputypes.TextureFormatDepth16Unorm: {gl.DEPTH_COMPONENT16, gl.DEPTH_COMPONENT, gl.UNSIGNED_SHORT},
	gputypes.TextureFormatDepth32Float: {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
	gputypes.TextureFormatStencil8:     {gl.STENCIL_INDEX8, gl.STENCIL_INDEX, gl.UNSIGNED_BYTE},
}

func topology(t gputypes.PrimitiveTopology) uint32 {
	switch t {
	case gputypes.PrimitiveTopologyPointList:
		return gl.POINTS
	case gputypes.PrimitiveTopologyLineList:
		return gl.LINES
	case gputypes.PrimitiveTopologyLineStrip:
		return gl.LINE_STRIP
	case gputypes.PrimitiveTopologyTriangleStrip:
		return gl.TRIANGLE_STRIP
	default:
		return gl.TRIANGLES
	}
}

func indexType(f gputypes.IndexFormat) uint32 {
	if f == gputypes.IndexFormatUint32 {
		return gl.UNSIGNED_INT
	}
	return gl.UNSIGNED_SHORT
}

func blendEquation(op gputypes.BlendOperation) uint32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return gl.FUNC_SUBTRACT
	case gputypes.BlendOperationReverseSubtract:
		return gl.FUNC_REVERSE_SUBTRACT
	case gputypes.BlendOperationMin:
		return gl.MIN
	case gputypes.BlendOperationMax:
		return gl.MAX
	default:
		return gl.FUNC_ADD
	}
}

func blendFactor(f gputypes.BlendFactor) uint32 {
	switch f {
	case gputypes.BlendFactorZero:
		return gl.ZERO
	case gputypes.BlendFactorSrc:
		return gl.SRC_COLOR
	case gputypes.BlendFactorOneMinusSrc:
		return gl.ONE_MINUS_SRC_COLOR
	case gputypes.BlendFactorSrcAlpha:
		return gl.SRC_ALPHA
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gputypes.BlendFactorDst:
		return gl.DST_COLOR
	case gputypes.BlendFactorOneMinusDst:
		return gl.ONE_MINUS_DST_COLOR
	case gputypes.BlendFactorDstAlpha:
		return gl.DST_ALPHA
	case gputypes.BlendFactorOneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	default:
		return gl.ONE
	}
}

func depthFunc(c gputypes.CompareFunction) uint32 {
	switch c {
	case gputypes.CompareFunctionNever:
		return gl.NEVER
	case gputypes.CompareFunctionAlways:
		return gl.ALWAYS
	case gputypes.CompareFunctionEqual:
		return gl.EQUAL
	case gputypes.CompareFunctionNotEqual:
		return gl.NOTEQUAL
	case gputypes.CompareFunctionLessEqual:
		return gl.LEQUAL
	case gputypes.CompareFunctionGreater:
		return gl.GREATER
	case gputypes.CompareFunctionGreaterEqual:
		return gl.GEQUAL
	default:
		return gl.LESS
	}
}

func cullFace(f driver.CullFaces) uint32 {
	switch f {
	case driver.CullFront:
		return gl.FRONT
	case driver.CullFront | driver.CullBack:
		return gl.FRONT_AND_BACK
	default:
		return gl.BACK
	}
}

func polygonMode(m driver.FillMode) uint32 {
	switch m {
	case driver.FillLines:
		return gl.LINE
	case driver.FillPoints:
		return gl.POINT
	default:
		return gl.FILL
	}
}

func wrapMode(m gputypes.AddressMode) int32 {
	if m == gputypes.AddressModeClampToEdge {
		return gl.CLAMP_TO_EDGE
	}
	return gl.REPEAT
}

func filterMode(m gputypes.FilterMode) int32 {
	if m == gputypes.FilterModeLinear {
		return gl.LINEAR
	}
	return gl.NEAREST
}

func clearBits(mask driver.ClearMask) uint32 {
	var bits uint32
	if mask&driver.ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&driver.ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&driver.ClearStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	return bits
}

func severity(s uint32) driver.Severity {
	switch s {
	case gl.DEBUG_SEVERITY_HIGH:
		return driver.SeverityError
	case gl.DEBUG_SEVERITY_MEDIUM:
		return driver.SeverityWarn
	case gl.DEBUG_SEVERITY_LOW:
		return driver.SeverityInfo
	default:
		return driver.SeverityDebug
	}
}

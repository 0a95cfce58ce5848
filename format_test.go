package gfxcmd

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

func TestAttribFormat(t *testing.T) {
	tests := []struct {
		attrib  VertexAttrib
		want    gputypes.VertexFormat
		integer bool
	}{
		{VertexAttrib{Type: AttribFloat32, Count: 4}, gputypes.VertexFormatFloat32x4, false},
		{VertexAttrib{Type: AttribUint32, Count: 1}, gputypes.VertexFormatUint32, true},
		{VertexAttrib{Type: AttribSint8, Count: 4, Normalized: true}, gputypes.VertexFormatSnorm8x4, false},
		{VertexAttrib{Type: AttribUint16, Count: 2}, gputypes.VertexFormatUint16x2, true},
		{VertexAttrib{Type: AttribUint16, Count: 2, Normalized: true}, gputypes.VertexFormatUnorm16x2, false},
	}
	for _, tt := range tests {
		got, integer, err := attribFormat(tt.attrib)
		if err != nil {
			t.Errorf("attribFormat(%+v) error = %v", tt.attrib, err)
			continue
		}
		if got != tt.want || integer != tt.integer {
			t.Errorf("attribFormat(%+v) = %v, %v, want %v, %v", tt.attrib, got, integer, tt.want, tt.integer)
		}
	}

	if _, _, err := attribFormat(VertexAttrib{Type: AttribFloat64, Count: 1}); !errors.Is(err, ErrUnsupportedAttribute) {
		t.Errorf("attribFormat(float64) error = %v, want %v", err, ErrUnsupportedAttribute)
	}
}

func TestCullState(t *testing.T) {
	tests := []struct {
		name string
		in   FaceCulling
		want driver.CullState
	}{
		{"disabled", FaceCulling{Flags: CullFront}, driver.CullState{}},
		{"default back", FaceCulling{Enabled: true}, driver.CullState{Enabled: true, FrontFace: gputypes.FrontFaceCCW, Faces: driver.CullBack}},
		{"clockwise front", FaceCulling{Enabled: true, Flags: CullClockwise | CullFront}, driver.CullState{Enabled: true, FrontFace: gputypes.FrontFaceCW, Faces: driver.CullFront}},
		{"both", FaceCulling{Enabled: true, Flags: CullFront | CullBack}, driver.CullState{Enabled: true, FrontFace: gputypes.FrontFaceCCW, Faces: driver.CullFront | driver.CullBack}},
	}
	for _, tt := range tests {
		if got := cullState(tt.in); got != tt.want {
			t.Errorf("cullState(%s) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestTextureFormat(t *testing.T) {
	for _, f := range []PixelFormat{FormatRGB8Unorm, FormatRGB32Float, FormatR16Unorm, FormatRGBA16Unorm} {
		if _, err := textureFormat(f); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("textureFormat(%d) error = %v, want %v", f, err, ErrUnsupportedFormat)
		}
	}
	got, err := textureFormat(FormatD32Float)
	if err != nil || got != gputypes.TextureFormatDepth32Float {
		t.Errorf("textureFormat(D32Float) = %v, %v", got, err)
	}
}

func TestPixelSize(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		want int
	}{
		{FormatR8Unorm, 1},
		{FormatRG8Uint, 2},
		{FormatRGBA8Unorm, 4},
		{FormatRGBA16Float, 8},
		{FormatRGB32Float, 12},
		{FormatRGBA32Uint, 16},
		{PixelFormat(200), 0},
	}
	for _, tt := range tests {
		if got := pixelSize(tt.f); got != tt.want {
			t.Errorf("pixelSize(%d) = %d, want %d", tt.f, got, tt.want)
		}
	}
}

func TestSamplerDescWithoutAnisotropy(t *testing.T) {
	desc := DefaultSamplerDesc()
	desc.Flags = SamplerFilterAniso
	desc.AnisoLevel = 8
	got := samplerDesc("s", desc, driver.Info{})
	if got.Anisotropy != 0 {
		t.Errorf("Anisotropy = %v, want 0 on a driver without anisotropic filtering", got.Anisotropy)
	}
	if got.MinFilter != gputypes.FilterModeNearest {
		t.Errorf("MinFilter = %v, want nearest", got.MinFilter)
	}
}

func TestTopology(t *testing.T) {
	if got, err := topology(PrimitiveLines); err != nil || got != gputypes.PrimitiveTopologyLineList {
		t.Errorf("topology(lines) = %v, %v", got, err)
	}
	if _, err := topology(PrimitiveTriangleFan); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("topology(fan) error = %v, want %v", err, ErrUnsupportedFormat)
	}
}

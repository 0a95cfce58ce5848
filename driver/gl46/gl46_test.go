//go:build !nogl

package gl46

import (
	"errors"
	"testing"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

func TestOpenWithoutProcAddress(t *testing.T) {
	if _, err := Open(driver.Options{}); !errors.Is(err, ErrNoProcAddress) {
		t.Errorf("Open() error = %v, want %v", err, ErrNoProcAddress)
	}
	if !driver.IsRegistered(Name) {
		t.Errorf("driver %q not registered", Name)
	}
}

func TestCullFace(t *testing.T) {
	tests := []struct {
		faces driver.CullFaces
		want  uint32
	}{
		{driver.CullFront, gl.FRONT},
		{driver.CullBack, gl.BACK},
		{driver.CullFront | driver.CullBack, gl.FRONT_AND_BACK},
		{0, gl.BACK},
	}
	for _, tt := range tests {
		if got := cullFace(tt.faces); got != tt.want {
			t.Errorf("cullFace(%d) = %#x, want %#x", tt.faces, got, tt.want)
		}
	}
}

func TestClearBits(t *testing.T) {
	got := clearBits(driver.ClearColor | driver.ClearStencil)
	if want := uint32(gl.COLOR_BUFFER_BIT | gl.STENCIL_BUFFER_BIT); got != want {
		t.Errorf("clearBits() = %#x, want %#x", got, want)
	}
	if got := clearBits(0); got != 0 {
		t.Errorf("clearBits(0) = %#x, want 0", got)
	}
}

func TestVertexFormats(t *testing.T) {
	tests := []struct {
		format gputypes.VertexFormat
		want   vertexFormat
	}{
		{gputypes.VertexFormatFloat32x3, vertexFormat{3, gl.FLOAT, false}},
		{gputypes.VertexFormatUnorm8x4, vertexFormat{4, gl.UNSIGNED_BYTE, true}},
		{gputypes.VertexFormatSint16x2, vertexFormat{2, gl.SHORT, false}},
	}
	for _, tt := range tests {
		if got := vertexFormats[tt.format]; got != tt.want {
			t.Errorf("vertexFormats[%v] = %+v, want %+v", tt.format, got, tt.want)
		}
	}
}

func TestSeverity(t *testing.T) {
	tests := []struct {
		in   uint32
		want driver.Severity
	}{
		{gl.DEBUG_SEVERITY_HIGH, driver.SeverityError},
		{gl.DEBUG_SEVERITY_MEDIUM, driver.SeverityWarn},
		{gl.DEBUG_SEVERITY_LOW, driver.SeverityInfo},
		{gl.DEBUG_SEVERITY_NOTIFICATION, driver.SeverityDebug},
	}
	for _, tt := range tests {
		if got := severity(tt.in); got != tt.want {
			t.Errorf("severity(%#x) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

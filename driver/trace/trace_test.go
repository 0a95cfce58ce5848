package trace

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

func TestRegistered(t *testing.T) {
	if !driver.IsRegistered(Name) {
		t.Fatalf("driver %q not registered", Name)
	}
	drv, err := driver.Open(Name, driver.Options{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if got := drv.Info().Name; got != Name {
		t.Errorf("Info().Name = %q, want %q", got, Name)
	}
}

func TestInfoMaxVertexBindings(t *testing.T) {
	d := New(Config{MaxVertexBindings: 4})
	if got := d.Info().MaxVertexBindings; got != 4 {
		t.Errorf("MaxVertexBindings = %d, want 4", got)
	}
	if got := New(Config{}).Info().MaxVertexBindings; got <= 0 {
		t.Errorf("default MaxVertexBindings = %d, want > 0", got)
	}
}

func TestBufferWriteAndRead(t *testing.T) {
	d := New(Config{})
	id, err := d.CreateBuffer(driver.BufferDesc{Size: 8, Data: []byte{1, 2}})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	d.WriteBuffer(id, 4, []byte{9, 9, 9, 9})

	got, ok := d.BufferData(id)
	if !ok {
		t.Fatal("BufferData() ok = false")
	}
	want := []byte{1, 2, 0, 0, 9, 9, 9, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BufferData() = %v, want %v", got, want)
		}
	}

	d.DestroyBuffer(id)
	if d.HasBuffer(id) {
		t.Error("HasBuffer() after destroy = true")
	}
}

func TestCreateBufferDataTooLarge(t *testing.T) {
	d := New(Config{})
	_, err := d.CreateBuffer(driver.BufferDesc{Size: 1, Data: []byte{1, 2}})
	if !errors.Is(err, ErrBufferTooLarge) {
		t.Errorf("CreateBuffer() error = %v, want ErrBufferTooLarge", err)
	}
}

func TestOutOfRangeWriteReported(t *testing.T) {
	var msgs []driver.Message
	d := New(Config{OnMessage: func(m driver.Message) { msgs = append(msgs, m) }})
	id, _ := d.CreateBuffer(driver.BufferDesc{Size: 4})
	d.WriteBuffer(id, 2, []byte{1, 2, 3})
	if len(msgs) != 1 || msgs[0].Severity != driver.SeverityError {
		t.Errorf("messages = %v, want one error", msgs)
	}
}

func TestShaderCompileFailure(t *testing.T) {
	d := New(Config{})
	tests := []struct {
		name    string
		desc    driver.ShaderDesc
		wantErr bool
	}{
		{"glsl ok", driver.ShaderDesc{GLSL: "void main() {}"}, false},
		{"glsl error", driver.ShaderDesc{GLSL: "#error broken"}, true},
		{"spirv ok", driver.ShaderDesc{SPIRV: []uint32{0x07230203}}, false},
		{"empty", driver.ShaderDesc{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.CreateShader(tt.desc)
			if (err != nil) != tt.wantErr {
				t.Errorf("CreateShader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrShaderCompile) {
				t.Errorf("CreateShader() error = %v, want ErrShaderCompile", err)
			}
		})
	}
}

func TestIncompleteFramebuffer(t *testing.T) {
	d := New(Config{})
	if _, err := d.CreateFramebuffer(driver.FramebufferDesc{}); !errors.Is(err, ErrIncompleteTarget) {
		t.Errorf("CreateFramebuffer(empty) error = %v, want ErrIncompleteTarget", err)
	}
	tex, _ := d.CreateTexture(driver.TextureDesc{Width: 4, Height: 4})
	if _, err := d.CreateFramebuffer(driver.FramebufferDesc{Color: []driver.ColorAttachment{{Texture: tex}}}); err != nil {
		t.Errorf("CreateFramebuffer() error = %v", err)
	}
}

func TestWriteTextureBounds(t *testing.T) {
	d := New(Config{})
	tex, _ := d.CreateTexture(driver.TextureDesc{Width: 8, Height: 8, MipLevels: 4})

	if err := d.WriteTexture(tex, driver.TextureRegion{Width: 8, Height: 8}, nil); err != nil {
		t.Errorf("WriteTexture(level 0) error = %v", err)
	}
	if err := d.WriteTexture(tex, driver.TextureRegion{Width: 4, Height: 4, Level: 1}, nil); err != nil {
		t.Errorf("WriteTexture(level 1) error = %v", err)
	}
	err := d.WriteTexture(tex, driver.TextureRegion{Width: 8, Height: 8, Level: 1}, nil)
	if !errors.Is(err, ErrRegionOutOfBounds) {
		t.Errorf("WriteTexture(oversize) error = %v, want ErrRegionOutOfBounds", err)
	}
	if got := d.TextureWrites(tex); got != 2 {
		t.Errorf("TextureWrites() = %d, want 2", got)
	}
}

func TestVertexFormatState(t *testing.T) {
	d := New(Config{})
	vf, _ := d.CreateVertexFormat("vf")
	d.SetAttribFormat(vf, driver.VertexAttribute{Location: 0, Format: gputypes.VertexFormatFloat32x3})
	d.SetAttribIntegerFormat(vf, driver.VertexAttribute{Location: 1, Format: gputypes.VertexFormatFloat32, Offset: 12})
	d.SetAttribBinding(vf, 0, 2)
	d.SetVertexBuffer(vf, 2, 7, 0, 16)
	d.SetIndexBuffer(vf, 9)

	got, ok := d.VertexFormat(vf)
	if !ok {
		t.Fatal("VertexFormat() ok = false")
	}
	if got.Integer[0] || !got.Integer[1] {
		t.Errorf("Integer = %v, want loc 1 only", got.Integer)
	}
	if got.Bindings[0] != 2 {
		t.Errorf("Bindings[0] = %d, want 2", got.Bindings[0])
	}
	if got.Buffers[2].Buffer != 7 || got.Buffers[2].Stride != 16 {
		t.Errorf("Buffers[2] = %+v, want buffer 7 stride 16", got.Buffers[2])
	}
	if got.Index != 9 {
		t.Errorf("Index = %d, want 9", got.Index)
	}
	if d.VertexFormatsCreated() != 1 {
		t.Errorf("VertexFormatsCreated() = %d, want 1", d.VertexFormatsCreated())
	}
}

func TestDrawIndirectDecodesArguments(t *testing.T) {
	d := New(Config{})
	ind, _ := d.CreateBuffer(driver.BufferDesc{Size: 20, Usage: driver.UsageIndirect})

	args := make([]byte, 20)
	for i, v := range []uint32{6, 2, 1, 3, 4} {
		binary.LittleEndian.PutUint32(args[i*4:], v)
	}
	d.WriteBuffer(ind, 0, args)
	d.DrawIndexedIndirect(gputypes.PrimitiveTopologyTriangleList, gputypes.IndexFormatUint16, ind, 0)
	d.DrawIndirect(gputypes.PrimitiveTopologyLineList, ind, 0)

	draws := d.Draws()
	if len(draws) != 2 {
		t.Fatalf("len(Draws()) = %d, want 2", len(draws))
	}
	if !draws[0].Indexed || draws[0].Args != [5]uint32{6, 2, 1, 3, 4} {
		t.Errorf("draw 0 = %+v", draws[0])
	}
	if draws[1].Indexed || draws[1].Args != [5]uint32{6, 2, 1, 3, 0} {
		t.Errorf("draw 1 args = %v, want first four words only", draws[1].Args)
	}
	if draws[1].Count() != 6 || draws[1].Instances() != 2 {
		t.Errorf("Count/Instances = %d/%d, want 6/2", draws[1].Count(), draws[1].Instances())
	}
}

func TestCountCallsAndReset(t *testing.T) {
	d := New(Config{})
	d.BindVertexFormat(1)
	d.BindVertexFormat(2)
	d.BindProgram(3)
	if got := d.CountCalls("BindVertexFormat"); got != 2 {
		t.Errorf("CountCalls(BindVertexFormat) = %d, want 2", got)
	}
	d.ResetLog()
	if len(d.Calls()) != 0 {
		t.Errorf("Calls() after ResetLog = %v", d.Calls())
	}
	if d.State().Program != 3 {
		t.Errorf("State().Program = %d, want 3 (state survives ResetLog)", d.State().Program)
	}
}

package gfxcmd

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCreateBufferValidation(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	tests := []struct {
		name string
		desc BufferDesc
	}{
		{"zero size", BufferDesc{Size: 0}},
		{"negative size", BufferDesc{Size: -4}},
		{"data larger than size", BufferDesc{Size: 2, Data: []byte{1, 2, 3}}},
		{"unknown type", BufferDesc{Type: BufferType(9), Size: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := dev.CreateBuffer(tt.desc)
			if !errors.Is(err, ErrInvalidDescriptor) {
				t.Errorf("CreateBuffer() error = %v, want %v", err, ErrInvalidDescriptor)
			}
			if !b.IsZero() {
				t.Error("CreateBuffer() returned a non-zero handle on failure")
			}
		})
	}
}

func TestCreateBufferInitialData(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	b, err := dev.CreateBuffer(BufferDesc{Type: BufferIndex, Size: 4, Data: []byte{7, 8}})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	got, _ := drv.BufferData(dev.BufferNative(b))
	if got[0] != 7 || got[1] != 8 || len(got) != 4 {
		t.Errorf("buffer data = %v, want [7 8 0 0]", got)
	}
	if _, ok := dev.BufferSlot(b); ok {
		t.Error("index buffer holds a vertex slot")
	}
	if dev.BufferSize(b) != 4 {
		t.Errorf("BufferSize() = %d, want 4", dev.BufferSize(b))
	}
}

func TestVertexSlotsReused(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	a := mustBuffer(t, dev, BufferVertex, 16)
	b := mustBuffer(t, dev, BufferVertex, 16)
	c := mustBuffer(t, dev, BufferVertex, 16)

	slotB, _ := dev.BufferSlot(b)
	dev.DestroyBuffer(b)
	if got := dev.SlotsInUse(); got != 2 {
		t.Errorf("SlotsInUse() = %d, want 2", got)
	}
	d := mustBuffer(t, dev, BufferVertex, 16)
	if got, _ := dev.BufferSlot(d); got != slotB {
		t.Errorf("new buffer slot = %d, want reused %d", got, slotB)
	}

	seen := map[int]bool{}
	for _, buf := range []Buffer{a, c, d} {
		s, ok := dev.BufferSlot(buf)
		if !ok {
			t.Fatal("vertex buffer without slot")
		}
		if seen[s] {
			t.Errorf("slot %d held by two buffers", s)
		}
		seen[s] = true
	}
}

func TestDestroyedHandlesAreStale(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	b := mustBuffer(t, dev, BufferData, 16)
	dev.DestroyBuffer(b)
	// The entry is reused by the next buffer; the old handle stays dead.
	n := mustBuffer(t, dev, BufferData, 32)

	if dev.BufferSize(b) != 0 {
		t.Errorf("BufferSize(stale) = %d, want 0", dev.BufferSize(b))
	}
	if dev.WriteBuffer(b, 0, []byte{1}) {
		t.Error("WriteBuffer(stale) = true, want false")
	}
	if err := dev.ResizeBuffer(b, 8); !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("ResizeBuffer(stale) error = %v, want %v", err, ErrInvalidHandle)
	}
	if dev.BufferSize(n) != 32 {
		t.Errorf("BufferSize(new) = %d, want 32", dev.BufferSize(n))
	}
	dev.DestroyBuffer(b)
	if dev.BufferSize(n) != 32 {
		t.Error("destroying a stale handle destroyed the live buffer")
	}
}

func TestDeviceWriteBuffer(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	b := mustBuffer(t, dev, BufferData, 4)
	if !dev.WriteBuffer(b, 1, []byte{5, 6}) {
		t.Fatal("WriteBuffer() = false, want true")
	}
	if dev.WriteBuffer(b, 3, []byte{1, 2}) {
		t.Error("oversize WriteBuffer() = true, want false")
	}
	got, _ := drv.BufferData(dev.BufferNative(b))
	if got[1] != 5 || got[2] != 6 || got[3] != 0 {
		t.Errorf("buffer = %v, want [0 5 6 0]", got)
	}
}

func TestResizeBuffer(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	b, _ := dev.CreateBuffer(BufferDesc{Type: BufferData, Size: 4, Data: []byte{1, 2, 3, 4}})
	old := dev.BufferNative(b)

	if err := dev.ResizeBuffer(b, 0); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("ResizeBuffer(0) error = %v, want %v", err, ErrInvalidDescriptor)
	}
	if err := dev.ResizeBuffer(b, 8); err != nil {
		t.Fatalf("ResizeBuffer() error = %v", err)
	}
	if dev.BufferNative(b) == old {
		t.Error("storage unchanged by resize")
	}
	if drv.HasBuffer(old) {
		t.Error("old storage not destroyed")
	}
	got, _ := drv.BufferData(dev.BufferNative(b))
	if len(got) != 8 || got[0] != 0 {
		t.Errorf("resized data = %v, want 8 zero bytes", got)
	}
}

func TestCreateTextureValidation(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	tests := []struct {
		name string
		desc TextureDesc
		want error
	}{
		{"zero width", TextureDesc{Format: FormatR8Unorm, Height: 4}, ErrInvalidDescriptor},
		{"non-square cube", TextureDesc{Type: TextureTypeCube, Format: FormatR8Unorm, Width: 4, Height: 2}, ErrInvalidDescriptor},
		{"array without layers", TextureDesc{Type: TextureTypeArray, Format: FormatR8Unorm, Width: 4, Height: 4}, ErrInvalidDescriptor},
		{"three channels", TextureDesc{Format: FormatRGB8Unorm, Width: 4, Height: 4}, ErrUnsupportedFormat},
		{"16-bit unorm", TextureDesc{Format: FormatR16Unorm, Width: 4, Height: 4}, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := dev.CreateTexture(tt.desc); !errors.Is(err, tt.want) {
				t.Errorf("CreateTexture() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCreateTextureNative(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	tex, err := dev.CreateTexture(TextureDesc{Type: TextureTypeArray, Format: FormatRGBA16Float, Width: 8, Height: 8, Depth: 3})
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	rec, _ := dev.textures.get(tex.h)
	desc, ok := drv.TextureDesc(rec.native)
	if !ok {
		t.Fatal("texture missing in driver")
	}
	if desc.Format != gputypes.TextureFormatRGBA16Float || desc.Depth != 3 || desc.MipLevels != 1 {
		t.Errorf("native desc = %+v", desc)
	}
	info, _ := dev.TextureInfo(tex)
	if info.MipLevels != 1 {
		t.Errorf("TextureInfo().MipLevels = %d, want 1", info.MipLevels)
	}
}

func TestWriteTexture(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	tex2D, _ := dev.CreateTexture(TextureDesc{Format: FormatRGBA8Unorm, Width: 4, Height: 4})
	cube, _ := dev.CreateTexture(TextureDesc{Type: TextureTypeCube, Format: FormatR8Unorm, Width: 2, Height: 2})
	arr, _ := dev.CreateTexture(TextureDesc{Type: TextureTypeArray, Format: FormatR32Float, Width: 2, Height: 2, Depth: 4})

	tests := []struct {
		name  string
		write func() error
		want  error
	}{
		{"2d", func() error { return dev.WriteTexture2D(tex2D, 0, 0, 2, 2, FormatRGBA8Unorm, make([]byte, 16)) }, nil},
		{"2d short data", func() error { return dev.WriteTexture2D(tex2D, 0, 0, 2, 2, FormatRGBA8Unorm, make([]byte, 15)) }, ErrInvalidDescriptor},
		{"2d format mismatch", func() error { return dev.WriteTexture2D(tex2D, 0, 0, 1, 1, FormatR8Unorm, []byte{1}) }, ErrUnsupportedFormat},
		{"2d into cube", func() error { return dev.WriteTexture2D(cube, 0, 0, 1, 1, FormatR8Unorm, []byte{1}) }, ErrInvalidDescriptor},
		{"cube face", func() error { return dev.WriteTextureCube(cube, 5, 0, 0, 2, 2, FormatR8Unorm, make([]byte, 4)) }, nil},
		{"cube bad face", func() error { return dev.WriteTextureCube(cube, 6, 0, 0, 2, 2, FormatR8Unorm, make([]byte, 4)) }, ErrInvalidDescriptor},
		{"array layers", func() error { return dev.WriteTextureArray(arr, 0, 0, 1, 2, 2, 3, FormatR32Float, make([]byte, 48)) }, nil},
		{"stale", func() error { return dev.WriteTexture2D(Texture{}, 0, 0, 1, 1, FormatRGBA8Unorm, make([]byte, 4)) }, ErrInvalidHandle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.write()
			if tt.want == nil && err != nil {
				t.Errorf("write error = %v, want nil", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("write error = %v, want %v", err, tt.want)
			}
		})
	}

	rec, _ := dev.textures.get(tex2D.h)
	if got := drv.TextureWrites(rec.native); got != 1 {
		t.Errorf("TextureWrites(2d) = %d, want 1", got)
	}
}

func TestCreateSampler(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	desc := DefaultSamplerDesc()
	desc.Flags = SamplerClampS | SamplerClampT | SamplerFilter | SamplerFilterAniso
	desc.AnisoLevel = 64
	desc.LodBias = 0.5

	s, err := dev.CreateSampler(desc)
	if err != nil {
		t.Fatalf("CreateSampler() error = %v", err)
	}
	rec, _ := dev.samplers.get(s.h)
	got, _ := drv.SamplerDesc(rec.native)

	if got.AddressModeU != gputypes.AddressModeClampToEdge || got.AddressModeV != gputypes.AddressModeClampToEdge {
		t.Errorf("address U/V = %v/%v, want clamp", got.AddressModeU, got.AddressModeV)
	}
	if got.AddressModeW != gputypes.AddressModeRepeat {
		t.Errorf("address W = %v, want repeat", got.AddressModeW)
	}
	if got.MinFilter != gputypes.FilterModeLinear || got.MagFilter != gputypes.FilterModeLinear {
		t.Errorf("filters = %v/%v, want linear", got.MinFilter, got.MagFilter)
	}
	if got.Anisotropy != 16 {
		t.Errorf("Anisotropy = %v, want clamped to 16", got.Anisotropy)
	}
	if got.LodBias != 0.5 || got.LodMinClamp != -1000 || got.LodMaxClamp != 1000 {
		t.Errorf("lod = %v [%v, %v]", got.LodBias, got.LodMinClamp, got.LodMaxClamp)
	}
}

func TestCreateRenderTarget(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	color, _ := dev.CreateTexture(TextureDesc{Format: FormatRGBA8Unorm, Width: 4, Height: 4})
	depth, _ := dev.CreateTexture(TextureDesc{Format: FormatD32Float, Width: 4, Height: 4})

	rt, err := dev.CreateRenderTarget(RenderTargetDesc{
		Color: []ColorAttachment{{ID: 0, Texture: color}},
		Depth: depth,
	})
	if err != nil {
		t.Fatalf("CreateRenderTarget() error = %v", err)
	}
	if rt.IsZero() {
		t.Error("CreateRenderTarget() returned the zero handle")
	}

	if _, err := dev.CreateRenderTarget(RenderTargetDesc{}); !errors.Is(err, ErrIncompleteTarget) {
		t.Errorf("CreateRenderTarget(empty) error = %v, want %v", err, ErrIncompleteTarget)
	}
	dev.DestroyTexture(color)
	_, err = dev.CreateRenderTarget(RenderTargetDesc{Color: []ColorAttachment{{ID: 0, Texture: color}}})
	if !errors.Is(err, ErrInvalidHandle) {
		t.Errorf("CreateRenderTarget(destroyed texture) error = %v, want %v", err, ErrInvalidHandle)
	}
}

func TestCreationFailureEmitsDebugMessage(t *testing.T) {
	var msgs []DebugMessage
	dev, _ := newTestDevice(t, 4, WithDebugCallback(func(m DebugMessage) { msgs = append(msgs, m) }))

	if _, err := dev.CreateTexture(TextureDesc{Format: FormatRGB8Unorm, Width: 1, Height: 1}); err == nil {
		t.Fatal("CreateTexture() error = nil")
	}
	if len(msgs) != 1 || msgs[0].Level != DebugError {
		t.Errorf("debug messages = %v, want one error", msgs)
	}
}

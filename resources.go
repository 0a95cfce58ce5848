package gfxcmd

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/gfxcmd/driver"
)

// Resource handles. The zero value of each is "no resource"; handles become
// stale when their resource is destroyed.
type (
	Buffer       struct{ h handle }
	Texture      struct{ h handle }
	Sampler      struct{ h handle }
	RenderTarget struct{ h handle }
	Shader       struct{ h handle }
)

// IsZero reports whether b is the zero handle.
func (b Buffer) IsZero() bool { return !b.h.valid() }

// IsZero reports whether t is the zero handle.
func (t Texture) IsZero() bool { return !t.h.valid() }

// IsZero reports whether s is the zero handle.
func (s Sampler) IsZero() bool { return !s.h.valid() }

// IsZero reports whether rt is the zero handle.
func (rt RenderTarget) IsZero() bool { return !rt.h.valid() }

// IsZero reports whether s is the zero handle.
func (s Shader) IsZero() bool { return !s.h.valid() }

type bufferRecord struct {
	label   string
	typ     BufferType
	size    int
	storage driver.BufferID
	slot    int // -1 unless typ is BufferVertex
}

type textureRecord struct {
	label  string
	desc   TextureDesc
	native driver.TextureID
}

type samplerRecord struct {
	label  string
	native driver.SamplerID
}

type targetRecord struct {
	label  string
	native driver.FramebufferID
}

type shaderRecord struct {
	label  string
	stage  ShaderStage
	native driver.ShaderID
}

func newLabel() string { return uuid.NewString() }

// ==========================================================================
// Buffers
// ==========================================================================

// BufferDesc describes a buffer. Data, when set, is the initial content.
type BufferDesc struct {
	Type BufferType
	Size int
	Data []byte
}

var bufferUsages = [...]driver.BufferUsage{
	BufferData:   driver.UsageData,
	BufferIndex:  driver.UsageIndex,
	BufferVertex: driver.UsageVertex,
}

// CreateBuffer creates a buffer. Vertex buffers also acquire a binding slot
// that they hold until destroyed.
func (d *Device) CreateBuffer(desc BufferDesc) (Buffer, error) {
	if d.closed {
		return Buffer{}, ErrClosed
	}
	if desc.Size <= 0 || len(desc.Data) > desc.Size || int(desc.Type) >= len(bufferUsages) {
		return Buffer{}, fmt.Errorf("%w: buffer type %d size %d data %d", ErrInvalidDescriptor, desc.Type, desc.Size, len(desc.Data))
	}
	label := "buffer-" + newLabel()
	storage, err := d.drv.CreateBuffer(driver.BufferDesc{
		Label: label,
		Size:  uint64(desc.Size),
		Usage: bufferUsages[desc.Type],
		Data:  desc.Data,
	})
	if err != nil {
		d.debugf(DebugError, "create buffer %s: %v", label, err)
		return Buffer{}, fmt.Errorf("gfxcmd: create buffer: %w", err)
	}
	rec := bufferRecord{label: label, typ: desc.Type, size: desc.Size, storage: storage, slot: -1}
	if desc.Type == BufferVertex {
		rec.slot = d.slots.Acquire()
	}
	return Buffer{h: d.buffers.insert(rec)}, nil
}

// DestroyBuffer destroys b and returns its binding slot to the allocator.
func (d *Device) DestroyBuffer(b Buffer) {
	rec, ok := d.buffers.remove(b.h)
	if !ok {
		return
	}
	if rec.slot >= 0 {
		d.slots.Release(rec.slot)
	}
	d.pb.forgetBuffer(rec.storage)
	d.drv.DestroyBuffer(rec.storage)
}

// ResizeBuffer replaces the storage of b with a new, zeroed allocation of
// size bytes. The binding slot is kept. Command lists that recorded b
// before the resize must be re-recorded.
func (d *Device) ResizeBuffer(b Buffer, size int) error {
	rec, ok := d.buffers.get(b.h)
	if !ok {
		return ErrInvalidHandle
	}
	if size <= 0 {
		return fmt.Errorf("%w: buffer size %d", ErrInvalidDescriptor, size)
	}
	storage, err := d.drv.CreateBuffer(driver.BufferDesc{
		Label: rec.label,
		Size:  uint64(size),
		Usage: bufferUsages[rec.typ],
	})
	if err != nil {
		return fmt.Errorf("gfxcmd: resize buffer: %w", err)
	}
	d.pb.forgetBuffer(rec.storage)
	d.drv.DestroyBuffer(rec.storage)
	rec.storage = storage
	rec.size = size
	return nil
}

// WriteBuffer writes data into b at offset immediately. It returns false,
// writing nothing, when the range does not fit in the buffer.
func (d *Device) WriteBuffer(b Buffer, offset int, data []byte) bool {
	rec, ok := d.buffers.get(b.h)
	if !ok {
		return false
	}
	if !fits(offset, len(data), rec.size) {
		d.log.Warn("gfxcmd: buffer write rejected",
			"err", ErrWriteOutOfRange, "label", rec.label, "offset", offset, "size", len(data), "buffer", rec.size)
		return false
	}
	d.drv.WriteBuffer(rec.storage, uint64(offset), data) //nolint:gosec // checked by fits
	return true
}

// BufferSize returns the size of b in bytes, or 0 for an invalid handle.
func (d *Device) BufferSize(b Buffer) int {
	if rec, ok := d.buffers.get(b.h); ok {
		return rec.size
	}
	return 0
}

// BufferSlot returns the binding slot of a vertex buffer.
func (d *Device) BufferSlot(b Buffer) (int, bool) {
	rec, ok := d.buffers.get(b.h)
	if !ok || rec.slot < 0 {
		return 0, false
	}
	return rec.slot, true
}

// BufferNative returns the driver id of the storage currently behind b.
func (d *Device) BufferNative(b Buffer) driver.BufferID {
	if rec, ok := d.buffers.get(b.h); ok {
		return rec.storage
	}
	return 0
}

func (d *Device) bufferRef(b Buffer) bufferRef {
	ref := bufferRef{h: b.h, slot: -1}
	if rec, ok := d.buffers.get(b.h); ok {
		ref.storage = rec.storage
		ref.slot = rec.slot
	}
	return ref
}

// ==========================================================================
// Textures
// ==========================================================================

// TextureDesc describes a texture. Depth is the layer count of array
// textures. MipLevels of zero means a single level.
type TextureDesc struct {
	Type      TextureType
	Format    PixelFormat
	Width     int
	Height    int
	Depth     int
	MipLevels int
}

var textureKinds = [...]driver.TextureKind{
	TextureType2D:    driver.Texture2D,
	TextureTypeCube:  driver.TextureCube,
	TextureTypeArray: driver.TextureArray,
}

// CreateTexture creates a texture.
func (d *Device) CreateTexture(desc TextureDesc) (Texture, error) {
	if d.closed {
		return Texture{}, ErrClosed
	}
	if err := validateTexture(desc); err != nil {
		return Texture{}, err
	}
	format, err := textureFormat(desc.Format)
	if err != nil {
		d.debugf(DebugError, "create texture: %v", err)
		return Texture{}, err
	}
	if desc.MipLevels == 0 {
		desc.MipLevels = 1
	}
	label := "texture-" + newLabel()
	native, err := d.drv.CreateTexture(driver.TextureDesc{
		Label:     label,
		Kind:      textureKinds[desc.Type],
		Format:    format,
		Width:     uint32(desc.Width),  //nolint:gosec // validated positive
		Height:    uint32(desc.Height), //nolint:gosec // validated positive
		Depth:     uint32(desc.Depth),  //nolint:gosec // validated non-negative
		MipLevels: uint32(desc.MipLevels),
	})
	if err != nil {
		d.debugf(DebugError, "create texture %s: %v", label, err)
		return Texture{}, fmt.Errorf("gfxcmd: create texture: %w", err)
	}
	return Texture{h: d.textures.insert(textureRecord{label: label, desc: desc, native: native})}, nil
}

func validateTexture(desc TextureDesc) error {
	switch {
	case int(desc.Type) >= len(textureKinds):
		return fmt.Errorf("%w: texture type %d", ErrInvalidDescriptor, desc.Type)
	case desc.Width <= 0 || desc.Height <= 0:
		return fmt.Errorf("%w: texture size %dx%d", ErrInvalidDescriptor, desc.Width, desc.Height)
	case desc.Type == TextureTypeCube && desc.Width != desc.Height:
		return fmt.Errorf("%w: cube faces must be square, got %dx%d", ErrInvalidDescriptor, desc.Width, desc.Height)
	case desc.Type == TextureTypeArray && desc.Depth <= 0:
		return fmt.Errorf("%w: array texture needs layers, got %d", ErrInvalidDescriptor, desc.Depth)
	case desc.Depth < 0 || desc.MipLevels < 0:
		return fmt.Errorf("%w: negative depth or mip count", ErrInvalidDescriptor)
	}
	return nil
}

// DestroyTexture destroys t.
func (d *Device) DestroyTexture(t Texture) {
	if rec, ok := d.textures.remove(t.h); ok {
		d.drv.DestroyTexture(rec.native)
	}
}

// WriteTexture2D uploads a w x h block of texels at (x, y) into level 0 of
// a 2D texture. format must match the texture's format.
func (d *Device) WriteTexture2D(t Texture, x, y, w, h int, format PixelFormat, data []byte) error {
	return d.writeTexture(t, TextureType2D, 0, x, y, 0, w, h, 1, format, data)
}

// WriteTextureCube uploads a block of texels into one face (0..5) of a cube
// texture.
func (d *Device) WriteTextureCube(t Texture, face, x, y, w, h int, format PixelFormat, data []byte) error {
	if face < 0 || face > 5 {
		return fmt.Errorf("%w: cube face %d", ErrInvalidDescriptor, face)
	}
	return d.writeTexture(t, TextureTypeCube, 0, x, y, face, w, h, 1, format, data)
}

// WriteTextureArray uploads a w x h x depth block of texels starting at
// layer z of an array texture.
func (d *Device) WriteTextureArray(t Texture, x, y, z, w, h, depth int, format PixelFormat, data []byte) error {
	return d.writeTexture(t, TextureTypeArray, 0, x, y, z, w, h, depth, format, data)
}

func (d *Device) writeTexture(t Texture, typ TextureType, level, x, y, z, w, h, depth int, format PixelFormat, data []byte) error {
	rec, ok := d.textures.get(t.h)
	if !ok {
		return ErrInvalidHandle
	}
	if rec.desc.Type != typ {
		return fmt.Errorf("%w: texture %s is type %d, not %d", ErrInvalidDescriptor, rec.label, rec.desc.Type, typ)
	}
	if format != rec.desc.Format {
		return fmt.Errorf("%w: data format %d, texture format %d", ErrUnsupportedFormat, format, rec.desc.Format)
	}
	if x < 0 || y < 0 || z < 0 || w <= 0 || h <= 0 || depth <= 0 {
		return fmt.Errorf("%w: texture region %d,%d,%d %dx%dx%d", ErrInvalidDescriptor, x, y, z, w, h, depth)
	}
	if need := w * h * depth * pixelSize(format); len(data) < need {
		return fmt.Errorf("%w: %d bytes for a region needing %d", ErrInvalidDescriptor, len(data), need)
	}
	//nolint:gosec // all values validated non-negative above
	region := driver.TextureRegion{
		X: uint32(x), Y: uint32(y), Z: uint32(z),
		Width: uint32(w), Height: uint32(h), Depth: uint32(depth),
		Level: uint32(level),
	}
	if err := d.drv.WriteTexture(rec.native, region, data); err != nil {
		return fmt.Errorf("gfxcmd: write texture %s: %w", rec.label, err)
	}
	return nil
}

// TextureInfo returns the descriptor t was created with.
func (d *Device) TextureInfo(t Texture) (TextureDesc, bool) {
	rec, ok := d.textures.get(t.h)
	if !ok {
		return TextureDesc{}, false
	}
	return rec.desc, true
}

func (d *Device) textureRef(t Texture) textureRef {
	ref := textureRef{h: t.h}
	if rec, ok := d.textures.get(t.h); ok {
		ref.native = rec.native
	}
	return ref
}

// ==========================================================================
// Samplers
// ==========================================================================

// SamplerDesc describes a sampler. AnisoLevel applies only with
// SamplerFilterAniso and on drivers that support anisotropic filtering.
type SamplerDesc struct {
	Flags      SamplerFlags
	AnisoLevel float32
	MinLod     float32
	MaxLod     float32
	LodBias    float32
}

// DefaultSamplerDesc returns a repeating, nearest-filtered sampler with an
// unclamped LOD range.
func DefaultSamplerDesc() SamplerDesc {
	return SamplerDesc{MinLod: -1000, MaxLod: 1000}
}

// CreateSampler creates a sampler.
func (d *Device) CreateSampler(desc SamplerDesc) (Sampler, error) {
	if d.closed {
		return Sampler{}, ErrClosed
	}
	label := "sampler-" + newLabel()
	native, err := d.drv.CreateSampler(samplerDesc(label, desc, d.info))
	if err != nil {
		d.debugf(DebugError, "create sampler %s: %v", label, err)
		return Sampler{}, fmt.Errorf("gfxcmd: create sampler: %w", err)
	}
	return Sampler{h: d.samplers.insert(samplerRecord{label: label, native: native})}, nil
}

// DestroySampler destroys s.
func (d *Device) DestroySampler(s Sampler) {
	if rec, ok := d.samplers.remove(s.h); ok {
		d.drv.DestroySampler(rec.native)
	}
}

func (d *Device) samplerRef(s Sampler) samplerRef {
	ref := samplerRef{h: s.h}
	if rec, ok := d.samplers.get(s.h); ok {
		ref.native = rec.native
	}
	return ref
}

// ==========================================================================
// Render targets
// ==========================================================================

// ColorAttachment attaches a texture to color output ID of a render target.
type ColorAttachment struct {
	ID      uint32
	Texture Texture
}

// RenderTargetDesc describes a render target.
type RenderTargetDesc struct {
	Color   []ColorAttachment
	Depth   Texture
	Stencil Texture
}

// CreateRenderTarget creates a render target from texture attachments.
func (d *Device) CreateRenderTarget(desc RenderTargetDesc) (RenderTarget, error) {
	if d.closed {
		return RenderTarget{}, ErrClosed
	}
	label := "target-" + newLabel()
	fd := driver.FramebufferDesc{Label: label}
	for _, c := range desc.Color {
		rec, ok := d.textures.get(c.Texture.h)
		if !ok {
			return RenderTarget{}, fmt.Errorf("%w: color attachment %d", ErrInvalidHandle, c.ID)
		}
		fd.Color = append(fd.Color, driver.ColorAttachment{Index: c.ID, Texture: rec.native})
	}
	if !desc.Depth.IsZero() {
		rec, ok := d.textures.get(desc.Depth.h)
		if !ok {
			return RenderTarget{}, fmt.Errorf("%w: depth attachment", ErrInvalidHandle)
		}
		fd.Depth = rec.native
	}
	if !desc.Stencil.IsZero() {
		rec, ok := d.textures.get(desc.Stencil.h)
		if !ok {
			return RenderTarget{}, fmt.Errorf("%w: stencil attachment", ErrInvalidHandle)
		}
		fd.Stencil = rec.native
	}
	native, err := d.drv.CreateFramebuffer(fd)
	if err != nil {
		d.debugf(DebugError, "create render target %s: %v", label, err)
		return RenderTarget{}, fmt.Errorf("%w: %v", ErrIncompleteTarget, err)
	}
	return RenderTarget{h: d.targets.insert(targetRecord{label: label, native: native})}, nil
}

// DestroyRenderTarget destroys rt. Its attachments are not destroyed.
func (d *Device) DestroyRenderTarget(rt RenderTarget) {
	if rec, ok := d.targets.remove(rt.h); ok {
		d.drv.DestroyFramebuffer(rec.native)
	}
}

func (d *Device) targetRef(rt RenderTarget) targetRef {
	ref := targetRef{h: rt.h}
	if rec, ok := d.targets.get(rt.h); ok {
		ref.native = rec.native
	}
	return ref
}

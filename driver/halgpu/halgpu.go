// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package halgpu provides a deferred driver on top of a wgpu HAL device.
//
// Resources (buffers, textures, samplers and shader modules) are real HAL
// objects, and buffer and texture uploads go through the HAL queue. Bind and
// draw calls are not executed: every draw, clear and blit is appended to a
// packet list together with a snapshot of the state it was issued with.
// A HAL render-pass encoder consumes the packets after Submit returns.
//
// The driver is opened through a gpucontext.DeviceProvider that also exposes
// its HAL device and queue:
//
//	drv, err := driver.Open("halgpu", driver.Options{Provider: provider})
package halgpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"maps"
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gfxcmd/driver"
)

// Name is the name the driver registers under.
const Name = "halgpu"

// Errors returned by the driver.
var (
	ErrNoProvider     = errors.New("halgpu: no device provider")
	ErrNoHAL          = errors.New("halgpu: provider does not expose a HAL device")
	ErrGLSL           = errors.New("halgpu: GLSL shaders are not supported")
	ErrUnknownObject  = errors.New("halgpu: unknown object")
	ErrOutOfBounds    = errors.New("halgpu: region out of bounds")
	ErrNoAttachments  = errors.New("halgpu: framebuffer has no attachments")
	ErrDataTooLarge   = errors.New("halgpu: initial data exceeds buffer size")
	ErrUnknownTexture = errors.New("halgpu: unsupported texture format")
)

// Device is the subset of hal.Device the driver creates resources with.
type Device interface {
	CreateBuffer(desc *hal.BufferDescriptor) (hal.Buffer, error)
	DestroyBuffer(buffer hal.Buffer)
	CreateTexture(desc *hal.TextureDescriptor) (hal.Texture, error)
	DestroyTexture(texture hal.Texture)
	CreateSampler(desc *hal.SamplerDescriptor) (hal.Sampler, error)
	DestroySampler(sampler hal.Sampler)
	CreateShaderModule(desc *hal.ShaderModuleDescriptor) (hal.ShaderModule, error)
	DestroyShaderModule(module hal.ShaderModule)
}

// Queue is the subset of hal.Queue the driver uploads with.
type Queue interface {
	WriteBuffer(buffer hal.Buffer, offset uint64, data []byte)
	WriteTexture(dst *hal.ImageCopyTexture, data []byte, layout *hal.ImageDataLayout, size *hal.Extent3D)
}

// halProvider is implemented by device providers backed by a HAL device.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

func init() {
	driver.Register(Name, open)
}

func open(opts driver.Options) (driver.Driver, error) {
	if opts.Provider == nil {
		return nil, ErrNoProvider
	}
	hp, ok := opts.Provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	dev, ok := hp.HalDevice().(Device)
	if !ok {
		return nil, fmt.Errorf("%w: device is %T", ErrNoHAL, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(Queue)
	if !ok {
		return nil, fmt.Errorf("%w: queue is %T", ErrNoHAL, hp.HalQueue())
	}
	d := New(dev, queue, opts.Logger)
	d.onMessage = opts.OnMessage
	d.Resize(opts.Width, opts.Height)
	return d, nil
}

// PacketKind identifies the work a packet carries.
type PacketKind uint8

const (
	PacketDraw PacketKind = iota
	PacketDrawIndexed
	PacketClear
	PacketBlit
	PacketMipmaps
)

// String returns the packet kind name.
func (k PacketKind) String() string {
	switch k {
	case PacketDraw:
		return "draw"
	case PacketDrawIndexed:
		return "draw-indexed"
	case PacketClear:
		return "clear"
	case PacketBlit:
		return "blit"
	case PacketMipmaps:
		return "mipmaps"
	default:
		return "unknown"
	}
}

// VertexBinding is a vertex buffer attached to a binding point.
type VertexBinding struct {
	Binding uint32
	Buffer  hal.Buffer
	Offset  uint64
	Stride  uint32
}

// Attribute is one enabled vertex attribute.
type Attribute struct {
	driver.VertexAttribute
	Binding uint32
	Integer bool
}

// Packet is one deferred unit of work and the state it was issued with.
type Packet struct {
	Kind PacketKind

	// Draw state.
	Topology    gputypes.PrimitiveTopology
	IndexFormat gputypes.IndexFormat
	// Args holds {count, instances, first, baseVertex, baseInstance} for
	// indexed draws and {count, instances, first, baseInstance} otherwise.
	Args    [5]uint32
	Program driver.ProgramID
	Stages  []hal.ShaderModule
	// Attributes are ordered by location and Vertex by binding.
	Attributes []Attribute
	Vertex     []VertexBinding
	Index      hal.Buffer
	Raster     driver.RasterState
	Uniforms   map[uint32]hal.Buffer
	Storage    map[uint32]hal.Buffer
	Textures   map[uint32]hal.Texture
	Samplers   map[uint32]hal.Sampler

	// Target state.
	Target     driver.FramebufferID
	Scissor    image.Rectangle
	Viewport   image.Rectangle
	Clear      driver.ClearMask
	ClearColor [4]float32
	ClearDepth float32

	// Blit and mipmap operands.
	Source      driver.FramebufferID
	SourceRect  image.Rectangle
	Linear      bool
	MipmapImage hal.Texture
}

type buffer struct {
	hal    hal.Buffer
	mirror []byte
}

type texture struct {
	hal  hal.Texture
	desc driver.TextureDesc
}

type shader struct {
	module hal.ShaderModule
	stage  driver.ShaderStage
}

type vertexFormat struct {
	label   string
	attribs map[uint32]Attribute
	vertex  map[uint32]VertexBinding
	index   driver.BufferID
}

// Driver is a deferred driver over a HAL device. It is not safe for
// concurrent use.
type Driver struct {
	dev       Device
	queue     Queue
	log       *slog.Logger
	onMessage func(driver.Message)

	next         uint64
	buffers      map[driver.BufferID]*buffer
	textures     map[driver.TextureID]*texture
	samplers     map[driver.SamplerID]hal.Sampler
	framebuffers map[driver.FramebufferID]driver.FramebufferDesc
	shaders      map[driver.ShaderID]shader
	programs     map[driver.ProgramID][]driver.ShaderID
	formats      map[driver.VertexFormatID]*vertexFormat

	program    driver.ProgramID
	format     driver.VertexFormatID
	raster     driver.RasterState
	uniforms   map[uint32]driver.BufferID
	storage    map[uint32]driver.BufferID
	units      map[uint32]driver.TextureID
	sampling   map[uint32]driver.SamplerID
	target     driver.FramebufferID
	scissor    image.Rectangle
	viewport   image.Rectangle
	clearColor [4]float32
	clearDepth float32
	indirect   driver.BufferID
	size       image.Point

	packets []Packet
}

var _ driver.Driver = (*Driver)(nil)

// New creates a driver on dev and queue. A nil logger discards output.
func New(dev Device, queue Queue, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{
		dev:          dev,
		queue:        queue,
		log:          logger.With("driver", Name),
		buffers:      make(map[driver.BufferID]*buffer),
		textures:     make(map[driver.TextureID]*texture),
		samplers:     make(map[driver.SamplerID]hal.Sampler),
		framebuffers: make(map[driver.FramebufferID]driver.FramebufferDesc),
		shaders:      make(map[driver.ShaderID]shader),
		programs:     make(map[driver.ProgramID][]driver.ShaderID),
		formats:      make(map[driver.VertexFormatID]*vertexFormat),
		uniforms:     make(map[uint32]driver.BufferID),
		storage:      make(map[uint32]driver.BufferID),
		units:        make(map[uint32]driver.TextureID),
		sampling:     make(map[uint32]driver.SamplerID),
		clearDepth:   1,
	}
}

func (d *Driver) id() uint64 {
	d.next++
	return d.next
}

func (d *Driver) message(sev driver.Severity, format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	d.log.Debug("driver message", "severity", sev, "text", text)
	if d.onMessage != nil {
		d.onMessage(driver.Message{Severity: sev, Text: text})
	}
}

// Info implements driver.Driver.
func (d *Driver) Info() driver.Info {
	return driver.Info{
		Name:                   Name,
		Renderer:               "wgpu-hal",
		VersionMajor:           1,
		SupportsStorageBuffers: true,
		SupportsSPIRV:          true,
		MaxVertexBindings:      int(gputypes.DefaultLimits().MaxVertexBuffers),
	}
}

func bufferUsage(u driver.BufferUsage) gputypes.BufferUsage {
	usage := gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc
	switch u {
	case driver.UsageVertex:
		usage |= gputypes.BufferUsageVertex
	case driver.UsageIndex:
		usage |= gputypes.BufferUsageIndex
	case driver.UsageIndirect:
		usage |= gputypes.BufferUsageIndirect
	default:
		usage |= gputypes.BufferUsageUniform | gputypes.BufferUsageStorage
	}
	return usage
}

// CreateBuffer implements driver.Driver. Buffers keep a host mirror of
// their contents so indirect arguments can be resolved at record time.
func (d *Driver) CreateBuffer(desc driver.BufferDesc) (driver.BufferID, error) {
	if uint64(len(desc.Data)) > desc.Size {
		return 0, ErrDataTooLarge
	}
	hb, err := d.dev.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label,
		Size:  desc.Size,
		Usage: bufferUsage(desc.Usage),
	})
	if err != nil {
		return 0, fmt.Errorf("halgpu: create buffer %q: %w", desc.Label, err)
	}
	b := &buffer{hal: hb, mirror: make([]byte, desc.Size)}
	if len(desc.Data) > 0 {
		copy(b.mirror, desc.Data)
		d.queue.WriteBuffer(hb, 0, desc.Data)
	}
	id := driver.BufferID(d.id())
	d.buffers[id] = b
	return id, nil
}

// DestroyBuffer implements driver.Driver.
func (d *Driver) DestroyBuffer(id driver.BufferID) {
	b, ok := d.buffers[id]
	if !ok {
		return
	}
	d.dev.DestroyBuffer(b.hal)
	delete(d.buffers, id)
}

// WriteBuffer implements driver.Driver.
func (d *Driver) WriteBuffer(id driver.BufferID, offset uint64, data []byte) {
	b, ok := d.buffers[id]
	if !ok {
		d.message(driver.SeverityError, "write to unknown buffer %d", id)
		return
	}
	if offset+uint64(len(data)) > uint64(len(b.mirror)) {
		d.message(driver.SeverityError, "write of %d bytes at %d overflows buffer %d", len(data), offset, id)
		return
	}
	copy(b.mirror[offset:], data)
	d.queue.WriteBuffer(b.hal, offset, data)
}

// BufferHAL returns the HAL buffer behind id.
func (d *Driver) BufferHAL(id driver.BufferID) (hal.Buffer, bool) {
	b, ok := d.buffers[id]
	if !ok {
		return nil, false
	}
	return b.hal, true
}

func (d *Driver) halBuffer(id driver.BufferID) hal.Buffer {
	if b, ok := d.buffers[id]; ok {
		return b.hal
	}
	return nil
}

// CreateTexture implements driver.Driver. Cube textures are six-layer 2D
// textures.
func (d *Driver) CreateTexture(desc driver.TextureDesc) (driver.TextureID, error) {
	if _, ok := pixelSizes[desc.Format]; !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownTexture, desc.Format)
	}
	layers := uint32(1)
	switch desc.Kind {
	case driver.TextureCube:
		layers = 6
	case driver.TextureArray:
		layers = max(desc.Depth, 1)
	}
	levels := max(desc.MipLevels, 1)
	usage := gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc | gputypes.TextureUsageTextureBinding |
		gputypes.TextureUsageRenderAttachment
	ht, err := d.dev.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: layers,
		},
		MipLevelCount: levels,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         usage,
	})
	if err != nil {
		return 0, fmt.Errorf("halgpu: create texture %q: %w", desc.Label, err)
	}
	id := driver.TextureID(d.id())
	d.textures[id] = &texture{hal: ht, desc: desc}
	return id, nil
}

// DestroyTexture implements driver.Driver.
func (d *Driver) DestroyTexture(id driver.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		return
	}
	d.dev.DestroyTexture(t.hal)
	delete(d.textures, id)
}

// WriteTexture implements driver.Driver.
func (d *Driver) WriteTexture(id driver.TextureID, region driver.TextureRegion, data []byte) error {
	t, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownObject, id)
	}
	w := max(t.desc.Width>>region.Level, 1)
	h := max(t.desc.Height>>region.Level, 1)
	if region.Level >= max(t.desc.MipLevels, 1) || region.X+region.Width > w || region.Y+region.Height > h {
		return fmt.Errorf("%w: %+v", ErrOutOfBounds, region)
	}
	depth := max(region.Depth, 1)
	bpp := pixelSizes[t.desc.Format]
	if want := int(region.Width * region.Height * depth * bpp); len(data) != want {
		return fmt.Errorf("%w: %d bytes, want %d", ErrOutOfBounds, len(data), want)
	}
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  t.hal,
			MipLevel: region.Level,
			Origin:   hal.Origin3D{X: region.X, Y: region.Y, Z: region.Z},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			BytesPerRow:  region.Width * bpp,
			RowsPerImage: region.Height,
		},
		&hal.Extent3D{Width: region.Width, Height: region.Height, DepthOrArrayLayers: depth},
	)
	return nil
}

// GenerateMipmaps implements driver.Driver. Mipmap generation runs as a
// packet on the encoder.
func (d *Driver) GenerateMipmaps(id driver.TextureID) {
	t, ok := d.textures[id]
	if !ok {
		return
	}
	d.packets = append(d.packets, Packet{Kind: PacketMipmaps, MipmapImage: t.hal})
}

// CreateSampler implements driver.Driver. Anisotropy and LOD clamps are not
// forwarded.
func (d *Driver) CreateSampler(desc driver.SamplerDesc) (driver.SamplerID, error) {
	hs, err := d.dev.CreateSampler(&hal.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: desc.AddressModeW,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: desc.MipmapFilter,
	})
	if err != nil {
		return 0, fmt.Errorf("halgpu: create sampler %q: %w", desc.Label, err)
	}
	id := driver.SamplerID(d.id())
	d.samplers[id] = hs
	return id, nil
}

// DestroySampler implements driver.Driver.
func (d *Driver) DestroySampler(id driver.SamplerID) {
	s, ok := d.samplers[id]
	if !ok {
		return
	}
	d.dev.DestroySampler(s)
	delete(d.samplers, id)
}

// CreateFramebuffer implements driver.Driver.
func (d *Driver) CreateFramebuffer(desc driver.FramebufferDesc) (driver.FramebufferID, error) {
	if len(desc.Color) == 0 && desc.Depth == 0 && desc.Stencil == 0 {
		return 0, ErrNoAttachments
	}
	for _, c := range desc.Color {
		if _, ok := d.textures[c.Texture]; !ok {
			return 0, fmt.Errorf("%w: color texture %d", ErrUnknownObject, c.Texture)
		}
	}
	desc.Color = append([]driver.ColorAttachment(nil), desc.Color...)
	id := driver.FramebufferID(d.id())
	d.framebuffers[id] = desc
	return id, nil
}

// DestroyFramebuffer implements driver.Driver.
func (d *Driver) DestroyFramebuffer(id driver.FramebufferID) {
	delete(d.framebuffers, id)
	if d.target == id {
		d.target = 0
	}
}

// CreateShader implements driver.Driver.
func (d *Driver) CreateShader(desc driver.ShaderDesc) (driver.ShaderID, error) {
	if desc.SPIRV == nil {
		return 0, ErrGLSL
	}
	module, err := d.dev.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label,
		Source: hal.ShaderSource{SPIRV: desc.SPIRV},
	})
	if err != nil {
		d.message(driver.SeverityError, "%s shader %q: %v", desc.Stage, desc.Label, err)
		return 0, fmt.Errorf("halgpu: create shader %q: %w", desc.Label, err)
	}
	id := driver.ShaderID(d.id())
	d.shaders[id] = shader{module: module, stage: desc.Stage}
	return id, nil
}

// DestroyShader implements driver.Driver.
func (d *Driver) DestroyShader(id driver.ShaderID) {
	s, ok := d.shaders[id]
	if !ok {
		return
	}
	d.dev.DestroyShaderModule(s.module)
	delete(d.shaders, id)
}

// CreateProgram implements driver.Driver. Programs are resolved to shader
// modules when a draw is recorded.
func (d *Driver) CreateProgram(desc driver.ProgramDesc) (driver.ProgramID, error) {
	for _, s := range desc.Shaders {
		if _, ok := d.shaders[s]; !ok {
			return 0, fmt.Errorf("%w: shader %d", ErrUnknownObject, s)
		}
	}
	id := driver.ProgramID(d.id())
	d.programs[id] = append([]driver.ShaderID(nil), desc.Shaders...)
	return id, nil
}

// DestroyProgram implements driver.Driver.
func (d *Driver) DestroyProgram(id driver.ProgramID) {
	delete(d.programs, id)
	if d.program == id {
		d.program = 0
	}
}

// CreateVertexFormat implements driver.Driver.
func (d *Driver) CreateVertexFormat(label string) (driver.VertexFormatID, error) {
	id := driver.VertexFormatID(d.id())
	d.formats[id] = &vertexFormat{
		label:   label,
		attribs: make(map[uint32]Attribute),
		vertex:  make(map[uint32]VertexBinding),
	}
	return id, nil
}

// DestroyVertexFormat implements driver.Driver.
func (d *Driver) DestroyVertexFormat(id driver.VertexFormatID) {
	delete(d.formats, id)
	if d.format == id {
		d.format = 0
	}
}

func (d *Driver) vertexFormat(op string, id driver.VertexFormatID) *vertexFormat {
	vf, ok := d.formats[id]
	if !ok {
		d.message(driver.SeverityError, "%s: unknown vertex format %d", op, id)
	}
	return vf
}

func (d *Driver) setAttrib(op string, id driver.VertexFormatID, attr driver.VertexAttribute, integer bool) {
	vf := d.vertexFormat(op, id)
	if vf == nil {
		return
	}
	a := vf.attribs[attr.Location]
	a.VertexAttribute = attr
	a.Integer = integer
	vf.attribs[attr.Location] = a
}

// SetAttribFormat implements driver.Driver.
func (d *Driver) SetAttribFormat(id driver.VertexFormatID, attr driver.VertexAttribute) {
	d.setAttrib("SetAttribFormat", id, attr, false)
}

// SetAttribIntegerFormat implements driver.Driver.
func (d *Driver) SetAttribIntegerFormat(id driver.VertexFormatID, attr driver.VertexAttribute) {
	d.setAttrib("SetAttribIntegerFormat", id, attr, true)
}

// SetAttribBinding implements driver.Driver.
func (d *Driver) SetAttribBinding(id driver.VertexFormatID, location, binding uint32) {
	vf := d.vertexFormat("SetAttribBinding", id)
	if vf == nil {
		return
	}
	a := vf.attribs[location]
	a.Location = location
	a.Binding = binding
	vf.attribs[location] = a
}

// SetVertexBuffer implements driver.Driver. A zero buf detaches the binding.
func (d *Driver) SetVertexBuffer(id driver.VertexFormatID, binding uint32, buf driver.BufferID, offset uint64, stride uint32) {
	vf := d.vertexFormat("SetVertexBuffer", id)
	if vf == nil {
		return
	}
	if buf == 0 {
		delete(vf.vertex, binding)
		return
	}
	vf.vertex[binding] = VertexBinding{Binding: binding, Buffer: d.halBuffer(buf), Offset: offset, Stride: stride}
}

// SetIndexBuffer implements driver.Driver.
func (d *Driver) SetIndexBuffer(id driver.VertexFormatID, buf driver.BufferID) {
	if vf := d.vertexFormat("SetIndexBuffer", id); vf != nil {
		vf.index = buf
	}
}

// BindVertexFormat implements driver.Driver.
func (d *Driver) BindVertexFormat(id driver.VertexFormatID) { d.format = id }

// SetRasterState implements driver.Driver.
func (d *Driver) SetRasterState(state driver.RasterState) { d.raster = state }

// BindProgram implements driver.Driver.
func (d *Driver) BindProgram(id driver.ProgramID) { d.program = id }

func bindSlot[T comparable](m map[uint32]T, index uint32, v T) {
	var zero T
	if v == zero {
		delete(m, index)
		return
	}
	m[index] = v
}

// BindUniformBuffer implements driver.Driver.
func (d *Driver) BindUniformBuffer(index uint32, buf driver.BufferID) {
	bindSlot(d.uniforms, index, buf)
}

// BindStorageBuffer implements driver.Driver.
func (d *Driver) BindStorageBuffer(index uint32, buf driver.BufferID) {
	bindSlot(d.storage, index, buf)
}

// BindSampler implements driver.Driver.
func (d *Driver) BindSampler(unit uint32, id driver.SamplerID) { bindSlot(d.sampling, unit, id) }

// BindTexture implements driver.Driver.
func (d *Driver) BindTexture(unit uint32, id driver.TextureID) { bindSlot(d.units, unit, id) }

// BindFramebuffer implements driver.Driver.
func (d *Driver) BindFramebuffer(id driver.FramebufferID) { d.target = id }

// SetScissor implements driver.Driver. An empty rectangle disables the
// scissor test.
func (d *Driver) SetScissor(r image.Rectangle) { d.scissor = r }

// SetViewport implements driver.Driver.
func (d *Driver) SetViewport(r image.Rectangle) { d.viewport = r }

// SetClearColor implements driver.Driver.
func (d *Driver) SetClearColor(c [4]float32) { d.clearColor = c }

// SetClearDepth implements driver.Driver.
func (d *Driver) SetClearDepth(v float32) { d.clearDepth = v }

func (d *Driver) targetPacket(kind PacketKind) Packet {
	return Packet{
		Kind:       kind,
		Target:     d.target,
		Scissor:    d.scissor,
		Viewport:   d.viewport,
		ClearColor: d.clearColor,
		ClearDepth: d.clearDepth,
	}
}

// Clear implements driver.Driver.
func (d *Driver) Clear(mask driver.ClearMask) {
	p := d.targetPacket(PacketClear)
	p.Clear = mask
	d.packets = append(d.packets, p)
}

// BlitFramebuffer implements driver.Driver.
func (d *Driver) BlitFramebuffer(src, dst driver.FramebufferID, srcRect, dstRect image.Rectangle, mask driver.ClearMask, linear bool) {
	p := d.targetPacket(PacketBlit)
	p.Source = src
	p.SourceRect = srcRect
	p.Target = dst
	p.Viewport = dstRect
	p.Clear = mask
	p.Linear = linear
	d.packets = append(d.packets, p)
}

func (d *Driver) readArgs(buf driver.BufferID, offset uint64, n int) ([5]uint32, bool) {
	var args [5]uint32
	b, ok := d.buffers[buf]
	if !ok || offset+uint64(n*4) > uint64(len(b.mirror)) {
		return args, false
	}
	for i := 0; i < n; i++ {
		args[i] = binary.LittleEndian.Uint32(b.mirror[offset+uint64(i*4):])
	}
	return args, true
}

func resolve[K comparable, V any](ids map[uint32]K, lookup func(K) (V, bool)) map[uint32]V {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[uint32]V, len(ids))
	for slot, id := range ids {
		if v, ok := lookup(id); ok {
			out[slot] = v
		}
	}
	return out
}

func (d *Driver) drawPacket(kind PacketKind, topology gputypes.PrimitiveTopology) Packet {
	p := d.targetPacket(kind)
	p.Topology = topology
	p.Program = d.program
	p.Raster = d.raster
	for _, s := range d.programs[d.program] {
		if sh, ok := d.shaders[s]; ok {
			p.Stages = append(p.Stages, sh.module)
		}
	}
	if vf, ok := d.formats[d.format]; ok {
		for _, loc := range slices.Sorted(maps.Keys(vf.attribs)) {
			p.Attributes = append(p.Attributes, vf.attribs[loc])
		}
		for _, b := range slices.Sorted(maps.Keys(vf.vertex)) {
			p.Vertex = append(p.Vertex, vf.vertex[b])
		}
		p.Index = d.halBuffer(vf.index)
	}
	p.Uniforms = resolve(d.uniforms, d.BufferHAL)
	p.Storage = resolve(d.storage, d.BufferHAL)
	p.Textures = resolve(d.units, func(id driver.TextureID) (hal.Texture, bool) {
		t, ok := d.textures[id]
		if !ok {
			return nil, false
		}
		return t.hal, true
	})
	p.Samplers = resolve(d.sampling, func(id driver.SamplerID) (hal.Sampler, bool) {
		s, ok := d.samplers[id]
		return s, ok
	})
	return p
}

// DrawIndirect implements driver.Driver. The arguments are read from the
// host mirror of buf.
func (d *Driver) DrawIndirect(topology gputypes.PrimitiveTopology, buf driver.BufferID, offset uint64) {
	args, ok := d.readArgs(buf, offset, 4)
	if !ok {
		d.message(driver.SeverityError, "indirect draw at %d outside buffer %d", offset, buf)
		return
	}
	p := d.drawPacket(PacketDraw, topology)
	p.Args = args
	d.packets = append(d.packets, p)
}

// DrawIndexedIndirect implements driver.Driver.
func (d *Driver) DrawIndexedIndirect(topology gputypes.PrimitiveTopology, format gputypes.IndexFormat, buf driver.BufferID, offset uint64) {
	args, ok := d.readArgs(buf, offset, 5)
	if !ok {
		d.message(driver.SeverityError, "indexed indirect draw at %d outside buffer %d", offset, buf)
		return
	}
	p := d.drawPacket(PacketDrawIndexed, topology)
	p.IndexFormat = format
	p.Args = args
	d.packets = append(d.packets, p)
}

// Prepare implements driver.Driver. Packets of the previous frame are
// dropped.
func (d *Driver) Prepare(indirect driver.BufferID) {
	d.indirect = indirect
	d.program = 0
	d.format = 0
	d.packets = d.packets[:0]
}

// Resize implements driver.Driver.
func (d *Driver) Resize(width, height int) {
	d.size = image.Pt(width, height)
	d.viewport = image.Rect(0, 0, width, height)
}

// Size returns the size of the default render target.
func (d *Driver) Size() image.Point { return d.size }

// Indirect returns the indirect argument buffer selected by Prepare.
func (d *Driver) Indirect() driver.BufferID { return d.indirect }

// Packets returns the packets recorded since the last Prepare.
func (d *Driver) Packets() []Packet { return append([]Packet(nil), d.packets...) }

// TakePackets returns the recorded packets and clears the list.
func (d *Driver) TakePackets() []Packet {
	p := d.packets
	d.packets = nil
	return p
}

// Close implements driver.Driver. All HAL resources still alive are
// destroyed.
func (d *Driver) Close() error {
	for id := range d.shaders {
		d.DestroyShader(id)
	}
	for id := range d.samplers {
		d.DestroySampler(id)
	}
	for id := range d.textures {
		d.DestroyTexture(id)
	}
	for id := range d.buffers {
		d.DestroyBuffer(id)
	}
	d.packets = nil
	return nil
}

var pixelSizes = map[gputypes.TextureFormat]uint32{
	gputypes.TextureFormatR8Unorm:      1,
	gputypes.TextureFormatR8Sint:       1,
	gputypes.TextureFormatR8Uint:       1,
	gputypes.TextureFormatStencil8:     1,
	gputypes.TextureFormatRG8Unorm:     2,
	gputypes.TextureFormatRG8Sint:      2,
	gputypes.TextureFormatRG8Uint:      2,
	gputypes.TextureFormatR16Sint:      2,
	gputypes.TextureFormatR16Uint:      2,
	gputypes.TextureFormatR16Float:     2,
	gputypes.TextureFormatDepth16Unorm: 2,
	gputypes.TextureFormatRGBA8Unorm:   4,
	gputypes.TextureFormatRGBA8Sint:    4,
	gputypes.TextureFormatRGBA8Uint:    4,
	gputypes.TextureFormatBGRA8Unorm:   4,
	gputypes.TextureFormatRG16Sint:     4,
	gputypes.TextureFormatRG16Uint:     4,
	gputypes.TextureFormatRG16Float:    4,
	gputypes.TextureFormatR32Sint:      4,
	gputypes.TextureFormatR32Uint:      4,
	gputypes.TextureFormatR32Float:     4,
	gputypes.TextureFormatDepth32Float: 4,
	gputypes.TextureFormatRGBA16Sint:   8,
	gputypes.TextureFormatRGBA16Uint:   8,
	gputypes.TextureFormatRGBA16Float:  8,
	gputypes.TextureFormatRG32Sint:     8,
	gputypes.TextureFormatRG32Uint:     8,
	gputypes.TextureFormatRG32Float:    8,
	gputypes.TextureFormatRGBA32Sint:   16,
	gputypes.TextureFormatRGBA32Uint:   16,
	gputypes.TextureFormatRGBA32Float:  16,
}

// Package trace provides a headless driver that records every call and
// tracks the resulting driver state.
//
// The trace driver performs no rendering. It keeps buffer contents in host
// memory, resolves indirect draw arguments from them, and exposes the bound
// state, the per-object vertex-format configuration and the issued draws for
// inspection. It backs the test suites and the demo when no window is
// available.
package trace

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

// Name is the name the driver registers under.
const Name = "trace"

// Errors returned by resource creation.
var (
	ErrShaderCompile     = errors.New("trace: shader compilation failed")
	ErrIncompleteTarget  = errors.New("trace: framebuffer has no attachments")
	ErrBufferTooLarge    = errors.New("trace: initial data exceeds buffer size")
	ErrUnknownObject     = errors.New("trace: unknown object")
	ErrRegionOutOfBounds = errors.New("trace: texture region out of bounds")
)

func init() {
	driver.Register(Name, func(opts driver.Options) (driver.Driver, error) {
		return New(Config{Logger: opts.Logger, OnMessage: opts.OnMessage}), nil
	})
}

// Config configures a trace driver.
type Config struct {
	// MaxVertexBindings is reported through Info. Zero selects the
	// gputypes default limit.
	MaxVertexBindings int
	Logger            *slog.Logger
	OnMessage         func(driver.Message)
}

// Attachment is a vertex buffer attached to a binding point.
type Attachment struct {
	Buffer driver.BufferID
	Offset uint64
	Stride uint32
}

// VertexFormat is the traced state of one vertex-format object.
type VertexFormat struct {
	Label    string
	Attribs  map[uint32]driver.VertexAttribute
	Integer  map[uint32]bool
	Bindings map[uint32]uint32 // attribute location -> binding point
	Buffers  map[uint32]Attachment
	Index    driver.BufferID
}

func (vf *VertexFormat) clone() VertexFormat {
	c := VertexFormat{
		Label:    vf.Label,
		Attribs:  make(map[uint32]driver.VertexAttribute, len(vf.Attribs)),
		Integer:  make(map[uint32]bool, len(vf.Integer)),
		Bindings: make(map[uint32]uint32, len(vf.Bindings)),
		Buffers:  make(map[uint32]Attachment, len(vf.Buffers)),
		Index:    vf.Index,
	}
	for k, v := range vf.Attribs {
		c.Attribs[k] = v
	}
	for k, v := range vf.Integer {
		c.Integer[k] = v
	}
	for k, v := range vf.Bindings {
		c.Bindings[k] = v
	}
	for k, v := range vf.Buffers {
		c.Buffers[k] = v
	}
	return c
}

// State is the bound fixed-function and resource state.
type State struct {
	Raster       driver.RasterState
	Program      driver.ProgramID
	VertexFormat driver.VertexFormatID
	Framebuffer  driver.FramebufferID
	Indirect     driver.BufferID
	Uniforms     map[uint32]driver.BufferID
	Storage      map[uint32]driver.BufferID
	Samplers     map[uint32]driver.SamplerID
	Textures     map[uint32]driver.TextureID
	Scissor      image.Rectangle
	Viewport     image.Rectangle
	ClearColor   [4]float32
	ClearDepth   float32
}

// Draw is one issued draw with the state it ran against.
type Draw struct {
	Indexed      bool
	Topology     gputypes.PrimitiveTopology
	IndexFormat  gputypes.IndexFormat
	Args         [5]uint32
	Program      driver.ProgramID
	Raster       driver.RasterState
	VertexFormat driver.VertexFormatID
	Layout       VertexFormat
}

// Count returns the vertex or index count of the draw.
func (d Draw) Count() uint32 { return d.Args[0] }

// Instances returns the instance count of the draw.
func (d Draw) Instances() uint32 { return d.Args[1] }

// Blit is one framebuffer copy.
type Blit struct {
	Src, Dst         driver.FramebufferID
	SrcRect, DstRect image.Rectangle
	Mask             driver.ClearMask
	Linear           bool
}

type buffer struct {
	desc driver.BufferDesc
	data []byte
}

type texture struct {
	desc   driver.TextureDesc
	writes int
	mips   int
}

// Driver is the trace driver. It is not safe for concurrent use.
type Driver struct {
	cfg    Config
	log    *slog.Logger
	nextID uint64

	buffers       map[driver.BufferID]*buffer
	textures      map[driver.TextureID]*texture
	samplers      map[driver.SamplerID]driver.SamplerDesc
	framebuffers  map[driver.FramebufferID]driver.FramebufferDesc
	shaders       map[driver.ShaderID]driver.ShaderDesc
	programs      map[driver.ProgramID]driver.ProgramDesc
	vertexFormats map[driver.VertexFormatID]*VertexFormat

	state   State
	calls   []string
	draws   []Draw
	clears  []driver.ClearMask
	blits   []Blit
	size    image.Point
	created int
	closed  bool
}

var _ driver.Driver = (*Driver)(nil)

// New returns a trace driver.
func New(cfg Config) *Driver {
	if cfg.MaxVertexBindings <= 0 {
		cfg.MaxVertexBindings = int(gputypes.DefaultLimits().MaxVertexBuffers)
	}
	l := cfg.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d := &Driver{
		cfg:           cfg,
		log:           l,
		buffers:       make(map[driver.BufferID]*buffer),
		textures:      make(map[driver.TextureID]*texture),
		samplers:      make(map[driver.SamplerID]driver.SamplerDesc),
		framebuffers:  make(map[driver.FramebufferID]driver.FramebufferDesc),
		shaders:       make(map[driver.ShaderID]driver.ShaderDesc),
		programs:      make(map[driver.ProgramID]driver.ProgramDesc),
		vertexFormats: make(map[driver.VertexFormatID]*VertexFormat),
	}
	d.resetBindings()
	return d
}

func (d *Driver) resetBindings() {
	d.state.Uniforms = make(map[uint32]driver.BufferID)
	d.state.Storage = make(map[uint32]driver.BufferID)
	d.state.Samplers = make(map[uint32]driver.SamplerID)
	d.state.Textures = make(map[uint32]driver.TextureID)
}

func (d *Driver) id() uint64 {
	d.nextID++
	return d.nextID
}

func (d *Driver) call(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

func (d *Driver) message(sev driver.Severity, format string, args ...any) {
	if d.cfg.OnMessage != nil {
		d.cfg.OnMessage(driver.Message{Severity: sev, Text: fmt.Sprintf(format, args...)})
	}
}

// Info implements driver.Driver.
func (d *Driver) Info() driver.Info {
	return driver.Info{
		Name:                   Name,
		Renderer:               "headless",
		VersionMajor:           1,
		SupportsAnisotropic:    true,
		SupportsStorageBuffers: true,
		SupportsGLSL:           true,
		SupportsSPIRV:          true,
		MaxVertexBindings:      d.cfg.MaxVertexBindings,
		MaxAnisotropy:          16,
	}
}

// --- buffers ---

// CreateBuffer implements driver.Driver.
func (d *Driver) CreateBuffer(desc driver.BufferDesc) (driver.BufferID, error) {
	if uint64(len(desc.Data)) > desc.Size {
		return 0, fmt.Errorf("%w: %d > %d", ErrBufferTooLarge, len(desc.Data), desc.Size)
	}
	id := driver.BufferID(d.id())
	b := &buffer{desc: desc, data: make([]byte, desc.Size)}
	copy(b.data, desc.Data)
	b.desc.Data = nil
	d.buffers[id] = b
	d.call("CreateBuffer(%d, size=%d)", id, desc.Size)
	return id, nil
}

// DestroyBuffer implements driver.Driver.
func (d *Driver) DestroyBuffer(id driver.BufferID) {
	delete(d.buffers, id)
	d.call("DestroyBuffer(%d)", id)
}

// WriteBuffer implements driver.Driver.
func (d *Driver) WriteBuffer(id driver.BufferID, offset uint64, data []byte) {
	d.call("WriteBuffer(%d, off=%d, len=%d)", id, offset, len(data))
	b, ok := d.buffers[id]
	if !ok {
		d.message(driver.SeverityError, "WriteBuffer: unknown buffer %d", id)
		return
	}
	if offset+uint64(len(data)) > uint64(len(b.data)) {
		d.message(driver.SeverityError, "WriteBuffer: range %d+%d exceeds %d", offset, len(data), len(b.data))
		return
	}
	copy(b.data[offset:], data)
}

// BufferData returns a copy of the host shadow of buffer id.
func (d *Driver) BufferData(id driver.BufferID) ([]byte, bool) {
	b, ok := d.buffers[id]
	if !ok {
		return nil, false
	}
	return append([]byte(nil), b.data...), true
}

// HasBuffer reports whether id names a live buffer.
func (d *Driver) HasBuffer(id driver.BufferID) bool {
	_, ok := d.buffers[id]
	return ok
}

// --- textures, samplers, framebuffers ---

// CreateTexture implements driver.Driver.
func (d *Driver) CreateTexture(desc driver.TextureDesc) (driver.TextureID, error) {
	id := driver.TextureID(d.id())
	d.textures[id] = &texture{desc: desc}
	d.call("CreateTexture(%d, %dx%dx%d)", id, desc.Width, desc.Height, desc.Depth)
	return id, nil
}

// DestroyTexture implements driver.Driver.
func (d *Driver) DestroyTexture(id driver.TextureID) {
	delete(d.textures, id)
	d.call("DestroyTexture(%d)", id)
}

// WriteTexture implements driver.Driver.
func (d *Driver) WriteTexture(id driver.TextureID, region driver.TextureRegion, data []byte) error {
	d.call("WriteTexture(%d, level=%d, %dx%d)", id, region.Level, region.Width, region.Height)
	t, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("%w: texture %d", ErrUnknownObject, id)
	}
	w := max(t.desc.Width>>region.Level, 1)
	h := max(t.desc.Height>>region.Level, 1)
	if region.X+region.Width > w || region.Y+region.Height > h {
		return fmt.Errorf("%w: %dx%d at (%d,%d) in %dx%d", ErrRegionOutOfBounds,
			region.Width, region.Height, region.X, region.Y, w, h)
	}
	t.writes++
	return nil
}

// GenerateMipmaps implements driver.Driver.
func (d *Driver) GenerateMipmaps(id driver.TextureID) {
	d.call("GenerateMipmaps(%d)", id)
	if t, ok := d.textures[id]; ok {
		t.mips++
	}
}

// TextureWrites returns how many writes texture id received.
func (d *Driver) TextureWrites(id driver.TextureID) int {
	if t, ok := d.textures[id]; ok {
		return t.writes
	}
	return 0
}

// MipmapGenerations returns how often mipmaps were generated for texture id.
func (d *Driver) MipmapGenerations(id driver.TextureID) int {
	if t, ok := d.textures[id]; ok {
		return t.mips
	}
	return 0
}

// TextureDesc returns the descriptor texture id was created with.
func (d *Driver) TextureDesc(id driver.TextureID) (driver.TextureDesc, bool) {
	t, ok := d.textures[id]
	if !ok {
		return driver.TextureDesc{}, false
	}
	return t.desc, true
}

// CreateSampler implements driver.Driver.
func (d *Driver) CreateSampler(desc driver.SamplerDesc) (driver.SamplerID, error) {
	id := driver.SamplerID(d.id())
	d.samplers[id] = desc
	d.call("CreateSampler(%d)", id)
	return id, nil
}

// DestroySampler implements driver.Driver.
func (d *Driver) DestroySampler(id driver.SamplerID) {
	delete(d.samplers, id)
	d.call("DestroySampler(%d)", id)
}

// SamplerDesc returns the descriptor sampler id was created with.
func (d *Driver) SamplerDesc(id driver.SamplerID) (driver.SamplerDesc, bool) {
	s, ok := d.samplers[id]
	return s, ok
}

// CreateFramebuffer implements driver.Driver.
func (d *Driver) CreateFramebuffer(desc driver.FramebufferDesc) (driver.FramebufferID, error) {
	if len(desc.Color) == 0 && desc.Depth == 0 && desc.Stencil == 0 {
		d.message(driver.SeverityError, "framebuffer %q is incomplete", desc.Label)
		return 0, ErrIncompleteTarget
	}
	for _, c := range desc.Color {
		if _, ok := d.textures[c.Texture]; !ok {
			return 0, fmt.Errorf("%w: color texture %d", ErrUnknownObject, c.Texture)
		}
	}
	id := driver.FramebufferID(d.id())
	d.framebuffers[id] = desc
	d.call("CreateFramebuffer(%d)", id)
	return id, nil
}

// DestroyFramebuffer implements driver.Driver.
func (d *Driver) DestroyFramebuffer(id driver.FramebufferID) {
	delete(d.framebuffers, id)
	d.call("DestroyFramebuffer(%d)", id)
}

// --- shaders ---

// CreateShader implements driver.Driver. GLSL sources containing an
// "#error" directive and empty SPIR-V modules fail to compile.
func (d *Driver) CreateShader(desc driver.ShaderDesc) (driver.ShaderID, error) {
	switch {
	case desc.GLSL != "" && strings.Contains(desc.GLSL, "#error"):
		d.message(driver.SeverityError, "%s shader %q: #error directive", desc.Stage, desc.Label)
		return 0, fmt.Errorf("%w: %s", ErrShaderCompile, desc.Label)
	case desc.GLSL == "" && len(desc.SPIRV) == 0:
		return 0, fmt.Errorf("%w: %s: empty source", ErrShaderCompile, desc.Label)
	}
	id := driver.ShaderID(d.id())
	d.shaders[id] = desc
	d.call("CreateShader(%d, %s)", id, desc.Stage)
	return id, nil
}

// DestroyShader implements driver.Driver.
func (d *Driver) DestroyShader(id driver.ShaderID) {
	delete(d.shaders, id)
	d.call("DestroyShader(%d)", id)
}

// ShaderDesc returns the descriptor shader id was created with.
func (d *Driver) ShaderDesc(id driver.ShaderID) (driver.ShaderDesc, bool) {
	s, ok := d.shaders[id]
	return s, ok
}

// CreateProgram implements driver.Driver.
func (d *Driver) CreateProgram(desc driver.ProgramDesc) (driver.ProgramID, error) {
	for _, s := range desc.Shaders {
		if _, ok := d.shaders[s]; !ok {
			return 0, fmt.Errorf("%w: shader %d", ErrUnknownObject, s)
		}
	}
	id := driver.ProgramID(d.id())
	d.programs[id] = desc
	d.call("CreateProgram(%d, stages=%d)", id, len(desc.Shaders))
	return id, nil
}

// DestroyProgram implements driver.Driver.
func (d *Driver) DestroyProgram(id driver.ProgramID) {
	delete(d.programs, id)
	d.call("DestroyProgram(%d)", id)
}

// --- vertex formats ---

// CreateVertexFormat implements driver.Driver.
func (d *Driver) CreateVertexFormat(label string) (driver.VertexFormatID, error) {
	id := driver.VertexFormatID(d.id())
	d.vertexFormats[id] = &VertexFormat{
		Label:    label,
		Attribs:  make(map[uint32]driver.VertexAttribute),
		Integer:  make(map[uint32]bool),
		Bindings: make(map[uint32]uint32),
		Buffers:  make(map[uint32]Attachment),
	}
	d.created++
	d.call("CreateVertexFormat(%d, %q)", id, label)
	return id, nil
}

// DestroyVertexFormat implements driver.Driver.
func (d *Driver) DestroyVertexFormat(id driver.VertexFormatID) {
	delete(d.vertexFormats, id)
	if d.state.VertexFormat == id {
		d.state.VertexFormat = 0
	}
	d.call("DestroyVertexFormat(%d)", id)
}

func (d *Driver) vertexFormat(op string, id driver.VertexFormatID) *VertexFormat {
	vf, ok := d.vertexFormats[id]
	if !ok {
		d.message(driver.SeverityError, "%s: unknown vertex format %d", op, id)
	}
	return vf
}

// SetAttribFormat implements driver.Driver.
func (d *Driver) SetAttribFormat(id driver.VertexFormatID, attr driver.VertexAttribute) {
	d.call("SetAttribFormat(%d, loc=%d, fmt=%v, off=%d)", id, attr.Location, attr.Format, attr.Offset)
	if vf := d.vertexFormat("SetAttribFormat", id); vf != nil {
		vf.Attribs[attr.Location] = attr
		vf.Integer[attr.Location] = false
	}
}

// SetAttribIntegerFormat implements driver.Driver.
func (d *Driver) SetAttribIntegerFormat(id driver.VertexFormatID, attr driver.VertexAttribute) {
	d.call("SetAttribIntegerFormat(%d, loc=%d, fmt=%v, off=%d)", id, attr.Location, attr.Format, attr.Offset)
	if vf := d.vertexFormat("SetAttribIntegerFormat", id); vf != nil {
		vf.Attribs[attr.Location] = attr
		vf.Integer[attr.Location] = true
	}
}

// SetAttribBinding implements driver.Driver.
func (d *Driver) SetAttribBinding(id driver.VertexFormatID, location, binding uint32) {
	d.call("SetAttribBinding(%d, loc=%d, binding=%d)", id, location, binding)
	if vf := d.vertexFormat("SetAttribBinding", id); vf != nil {
		vf.Bindings[location] = binding
	}
}

// SetVertexBuffer implements driver.Driver.
func (d *Driver) SetVertexBuffer(id driver.VertexFormatID, binding uint32, buf driver.BufferID, offset uint64, stride uint32) {
	d.call("SetVertexBuffer(%d, binding=%d, buf=%d, stride=%d)", id, binding, buf, stride)
	if vf := d.vertexFormat("SetVertexBuffer", id); vf != nil {
		vf.Buffers[binding] = Attachment{Buffer: buf, Offset: offset, Stride: stride}
	}
}

// SetIndexBuffer implements driver.Driver.
func (d *Driver) SetIndexBuffer(id driver.VertexFormatID, buf driver.BufferID) {
	d.call("SetIndexBuffer(%d, buf=%d)", id, buf)
	if vf := d.vertexFormat("SetIndexBuffer", id); vf != nil {
		vf.Index = buf
	}
}

// BindVertexFormat implements driver.Driver.
func (d *Driver) BindVertexFormat(id driver.VertexFormatID) {
	d.call("BindVertexFormat(%d)", id)
	d.state.VertexFormat = id
}

// VertexFormat returns a copy of the traced state of vertex-format object id.
func (d *Driver) VertexFormat(id driver.VertexFormatID) (VertexFormat, bool) {
	vf, ok := d.vertexFormats[id]
	if !ok {
		return VertexFormat{}, false
	}
	return vf.clone(), true
}

// VertexFormatsCreated returns how many vertex-format objects were created
// over the driver's lifetime.
func (d *Driver) VertexFormatsCreated() int { return d.created }

// LiveVertexFormats returns the number of vertex-format objects not yet
// destroyed.
func (d *Driver) LiveVertexFormats() int { return len(d.vertexFormats) }

// --- state and binds ---

// SetRasterState implements driver.Driver.
func (d *Driver) SetRasterState(state driver.RasterState) {
	d.call("SetRasterState(blend=%v, depth=%v, cull=%v, fill=%d)",
		state.Blend.Enabled, state.Depth.Enabled, state.Cull.Enabled, state.Fill)
	d.state.Raster = state
}

// BindProgram implements driver.Driver.
func (d *Driver) BindProgram(id driver.ProgramID) {
	d.call("BindProgram(%d)", id)
	d.state.Program = id
}

// BindUniformBuffer implements driver.Driver.
func (d *Driver) BindUniformBuffer(index uint32, buf driver.BufferID) {
	d.call("BindUniformBuffer(%d, %d)", index, buf)
	d.state.Uniforms[index] = buf
}

// BindStorageBuffer implements driver.Driver.
func (d *Driver) BindStorageBuffer(index uint32, buf driver.BufferID) {
	d.call("BindStorageBuffer(%d, %d)", index, buf)
	d.state.Storage[index] = buf
}

// BindSampler implements driver.Driver.
func (d *Driver) BindSampler(unit uint32, id driver.SamplerID) {
	d.call("BindSampler(%d, %d)", unit, id)
	d.state.Samplers[unit] = id
}

// BindTexture implements driver.Driver.
func (d *Driver) BindTexture(unit uint32, id driver.TextureID) {
	d.call("BindTexture(%d, %d)", unit, id)
	d.state.Textures[unit] = id
}

// BindFramebuffer implements driver.Driver.
func (d *Driver) BindFramebuffer(id driver.FramebufferID) {
	d.call("BindFramebuffer(%d)", id)
	d.state.Framebuffer = id
}

// SetScissor implements driver.Driver.
func (d *Driver) SetScissor(r image.Rectangle) {
	d.call("SetScissor(%v)", r)
	d.state.Scissor = r
}

// SetViewport implements driver.Driver.
func (d *Driver) SetViewport(r image.Rectangle) {
	d.call("SetViewport(%v)", r)
	d.state.Viewport = r
}

// SetClearColor implements driver.Driver.
func (d *Driver) SetClearColor(c [4]float32) {
	d.call("SetClearColor(%v)", c)
	d.state.ClearColor = c
}

// SetClearDepth implements driver.Driver.
func (d *Driver) SetClearDepth(v float32) {
	d.call("SetClearDepth(%v)", v)
	d.state.ClearDepth = v
}

// Clear implements driver.Driver.
func (d *Driver) Clear(mask driver.ClearMask) {
	d.call("Clear(%d)", mask)
	d.clears = append(d.clears, mask)
}

// BlitFramebuffer implements driver.Driver.
func (d *Driver) BlitFramebuffer(src, dst driver.FramebufferID, srcRect, dstRect image.Rectangle, mask driver.ClearMask, linear bool) {
	d.call("BlitFramebuffer(%d -> %d)", src, dst)
	d.blits = append(d.blits, Blit{Src: src, Dst: dst, SrcRect: srcRect, DstRect: dstRect, Mask: mask, Linear: linear})
}

// --- draws ---

func (d *Driver) readArgs(buf driver.BufferID, offset uint64, n int) ([5]uint32, bool) {
	var args [5]uint32
	b, ok := d.buffers[buf]
	if !ok || offset+uint64(n*4) > uint64(len(b.data)) {
		d.message(driver.SeverityError, "indirect buffer %d too small", buf)
		return args, false
	}
	for i := 0; i < n; i++ {
		args[i] = binary.LittleEndian.Uint32(b.data[offset+uint64(i*4):])
	}
	return args, true
}

func (d *Driver) recordDraw(dr Draw) {
	dr.Program = d.state.Program
	dr.Raster = d.state.Raster
	dr.VertexFormat = d.state.VertexFormat
	if vf, ok := d.vertexFormats[d.state.VertexFormat]; ok {
		dr.Layout = vf.clone()
	}
	d.draws = append(d.draws, dr)
}

// DrawIndirect implements driver.Driver.
func (d *Driver) DrawIndirect(topology gputypes.PrimitiveTopology, buf driver.BufferID, offset uint64) {
	d.call("DrawIndirect(%v, buf=%d)", topology, buf)
	args, ok := d.readArgs(buf, offset, 4)
	if !ok {
		return
	}
	d.recordDraw(Draw{Topology: topology, Args: args})
}

// DrawIndexedIndirect implements driver.Driver.
func (d *Driver) DrawIndexedIndirect(topology gputypes.PrimitiveTopology, format gputypes.IndexFormat, buf driver.BufferID, offset uint64) {
	d.call("DrawIndexedIndirect(%v, %v, buf=%d)", topology, format, buf)
	args, ok := d.readArgs(buf, offset, 5)
	if !ok {
		return
	}
	d.recordDraw(Draw{Indexed: true, Topology: topology, IndexFormat: format, Args: args})
}

// Prepare implements driver.Driver.
func (d *Driver) Prepare(indirect driver.BufferID) {
	d.call("Prepare(%d)", indirect)
	d.state.Program = 0
	d.state.Indirect = indirect
}

// Resize implements driver.Driver.
func (d *Driver) Resize(width, height int) {
	d.call("Resize(%d, %d)", width, height)
	d.size = image.Pt(width, height)
}

// Size returns the size last passed to Resize.
func (d *Driver) Size() image.Point { return d.size }

// Close implements driver.Driver.
func (d *Driver) Close() error {
	d.call("Close()")
	d.closed = true
	d.log.Debug("trace: closed", "calls", len(d.calls), "draws", len(d.draws))
	return nil
}

// Closed reports whether Close was called.
func (d *Driver) Closed() bool { return d.closed }

// --- inspection ---

// State returns the current bound state. Maps are shared with the driver.
func (d *Driver) State() State { return d.state }

// Calls returns the call log.
func (d *Driver) Calls() []string { return append([]string(nil), d.calls...) }

// CountCalls returns how many logged calls start with prefix.
func (d *Driver) CountCalls(prefix string) int {
	n := 0
	for _, c := range d.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Draws returns the issued draws.
func (d *Driver) Draws() []Draw { return append([]Draw(nil), d.draws...) }

// Clears returns the masks passed to Clear.
func (d *Driver) Clears() []driver.ClearMask { return append([]driver.ClearMask(nil), d.clears...) }

// Blits returns the framebuffer copies.
func (d *Driver) Blits() []Blit { return append([]Blit(nil), d.blits...) }

// ResetLog clears the call log, draws, clears and blits. Object state is
// kept.
func (d *Driver) ResetLog() {
	d.calls = nil
	d.draws = nil
	d.clears = nil
	d.blits = nil
}

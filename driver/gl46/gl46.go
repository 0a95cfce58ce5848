// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogl

// Package gl46 is an immediate driver on OpenGL 4.6 with direct state
// access. Every driver call executes a GL command on the current context.
//
// A vertex-format object is a vertex array object, a program is a program
// pipeline object and every shader stage is a separable program. Draws read
// their arguments from the indirect buffer bound by Prepare.
//
// The package registers itself as "gl46". Build with the nogl tag to leave
// it out.
package gl46

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

// Name is the registered driver name.
const Name = "gl46"

var (
	// ErrNoProcAddress is returned when the driver is opened without a way
	// to resolve GL entry points.
	ErrNoProcAddress = errors.New("gl46: no ProcAddress in options")

	// ErrUnsupportedFormat is returned for texture formats GL cannot store.
	ErrUnsupportedFormat = errors.New("gl46: unsupported texture format")

	// ErrCompile is returned when a shader stage fails to compile or link.
	ErrCompile = errors.New("gl46: shader compilation failed")

	// ErrIncompleteFramebuffer is returned when a framebuffer is not complete.
	ErrIncompleteFramebuffer = errors.New("gl46: incomplete framebuffer")
)

func init() {
	driver.Register(Name, func(opts driver.Options) (driver.Driver, error) {
		return Open(opts)
	})
}

type texture struct {
	target uint32
	format pixelFormat
}

type shader struct {
	prog     uint32
	stageBit uint32
}

// Driver is the OpenGL 4.6 driver. It must be used from the goroutine that
// owns the GL context.
type Driver struct {
	opts     driver.Options
	log      *slog.Logger
	info     driver.Info
	textures map[driver.TextureID]texture
	shaders  map[driver.ShaderID]shader
	indirect uint32
	debug    bool
}

var _ driver.Driver = (*Driver)(nil)

// Open loads the GL entry points through opts.ProcAddress and returns a
// driver for the current context.
func Open(opts driver.Options) (*Driver, error) {
	if opts.ProcAddress == nil {
		return nil, ErrNoProcAddress
	}
	if err := gl.InitWithProcAddrFunc(opts.ProcAddress); err != nil {
		return nil, fmt.Errorf("gl46: load entry points: %w", err)
	}
	l := opts.Logger
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d := &Driver{
		opts:     opts,
		log:      l,
		textures: make(map[driver.TextureID]texture),
		shaders:  make(map[driver.ShaderID]shader),
	}
	d.info = d.queryInfo()

	if opts.OnMessage != nil || opts.Debug {
		gl.Enable(gl.DEBUG_OUTPUT)
		gl.Enable(gl.DEBUG_OUTPUT_SYNCHRONOUS)
		gl.DebugMessageCallback(d.onDebugMessage, nil)
		d.debug = true
	}
	if opts.Width > 0 && opts.Height > 0 {
		d.Resize(opts.Width, opts.Height)
	}
	d.log.Info("gl46: driver opened", "renderer", d.info.Renderer,
		"version", fmt.Sprintf("%d.%d", d.info.VersionMajor, d.info.VersionMinor),
		"bindings", d.info.MaxVertexBindings)
	return d, nil
}

func (d *Driver) queryInfo() driver.Info {
	var major, minor, bindings int32
	var aniso float32
	gl.GetIntegerv(gl.MAJOR_VERSION, &major)
	gl.GetIntegerv(gl.MINOR_VERSION, &minor)
	gl.GetIntegerv(gl.MAX_VERTEX_ATTRIB_BINDINGS, &bindings)
	gl.GetFloatv(gl.MAX_TEXTURE_MAX_ANISOTROPY, &aniso)
	return driver.Info{
		Name:                   Name,
		Renderer:               gl.GoStr(gl.GetString(gl.RENDERER)),
		VersionMajor:           int(major),
		VersionMinor:           int(minor),
		SupportsAnisotropic:    aniso >= 1,
		SupportsStorageBuffers: true,
		SupportsGLSL:           true,
		SupportsSPIRV:          true,
		MaxVertexBindings:      int(bindings),
		MaxAnisotropy:          aniso,
	}
}

func (d *Driver) onDebugMessage(_, _, _ uint32, sev uint32, _ int32, message string, _ unsafe.Pointer) {
	s := severity(sev)
	if d.opts.OnMessage != nil {
		d.opts.OnMessage(driver.Message{Severity: s, Text: message})
		return
	}
	d.log.Debug("gl46: debug output", "severity", s, "message", message)
}

// label names a GL object for debuggers when debug output is on.
func (d *Driver) label(identifier, name uint32, label string) {
	if !d.debug || label == "" {
		return
	}
	gl.ObjectLabel(identifier, name, -1, gl.Str(label+"\x00"))
}

// Info implements driver.Driver.
func (d *Driver) Info() driver.Info { return d.info }

// --- buffers ---

// CreateBuffer implements driver.Driver.
func (d *Driver) CreateBuffer(desc driver.BufferDesc) (driver.BufferID, error) {
	if uint64(len(desc.Data)) > desc.Size {
		return 0, fmt.Errorf("gl46: initial data %d bytes exceeds size %d", len(desc.Data), desc.Size)
	}
	var buf uint32
	gl.CreateBuffers(1, &buf)
	// Storage is allocated first so short initial data leaves the tail zeroed.
	gl.NamedBufferData(buf, int(desc.Size), nil, gl.DYNAMIC_DRAW) //nolint:gosec // buffer sizes fit in int
	if len(desc.Data) > 0 {
		gl.NamedBufferSubData(buf, 0, len(desc.Data), gl.Ptr(desc.Data))
	}
	d.label(gl.BUFFER, buf, desc.Label)
	return driver.BufferID(buf), nil
}

// DestroyBuffer implements driver.Driver.
func (d *Driver) DestroyBuffer(id driver.BufferID) {
	buf := uint32(id) //nolint:gosec // ids come from GL names
	gl.DeleteBuffers(1, &buf)
}

// WriteBuffer implements driver.Driver.
func (d *Driver) WriteBuffer(id driver.BufferID, offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.NamedBufferSubData(uint32(id), int(offset), len(data), gl.Ptr(data)) //nolint:gosec // ids come from GL names
}

// --- textures ---

// CreateTexture implements driver.Driver.
func (d *Driver) CreateTexture(desc driver.TextureDesc) (driver.TextureID, error) {
	pf, ok := pixelFormats[desc.Format]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnsupportedFormat, desc.Format)
	}
	levels := int32(max(desc.MipLevels, 1))       //nolint:gosec // small
	w, h := int32(desc.Width), int32(desc.Height) //nolint:gosec // validated by the device

	var t texture
	t.format = pf
	var tex uint32
	switch desc.Kind {
	case driver.TextureCube:
		t.target = gl.TEXTURE_CUBE_MAP
		gl.CreateTextures(t.target, 1, &tex)
		gl.TextureStorage2D(tex, levels, pf.internal, w, h)
	case driver.TextureArray:
		t.target = gl.TEXTURE_2D_ARRAY
		gl.CreateTextures(t.target, 1, &tex)
		gl.TextureStorage3D(tex, levels, pf.internal, w, h, int32(desc.Depth)) //nolint:gosec // validated by the device
	default:
		t.target = gl.TEXTURE_2D
		gl.CreateTextures(t.target, 1, &tex)
		gl.TextureStorage2D(tex, levels, pf.internal, w, h)
	}
	d.label(gl.TEXTURE, tex, desc.Label)
	id := driver.TextureID(tex)
	d.textures[id] = t
	return id, nil
}

// DestroyTexture implements driver.Driver.
func (d *Driver) DestroyTexture(id driver.TextureID) {
	delete(d.textures, id)
	tex := uint32(id) //nolint:gosec // ids come from GL names
	gl.DeleteTextures(1, &tex)
}

// WriteTexture implements driver.Driver.
func (d *Driver) WriteTexture(id driver.TextureID, r driver.TextureRegion, data []byte) error {
	t, ok := d.textures[id]
	if !ok {
		return fmt.Errorf("gl46: unknown texture %d", id)
	}
	tex := uint32(id) //nolint:gosec // ids come from GL names
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	//nolint:gosec // region values are validated by the device
	if t.target == gl.TEXTURE_2D {
		gl.TextureSubImage2D(tex, int32(r.Level), int32(r.X), int32(r.Y), int32(r.Width), int32(r.Height),
			t.format.format, t.format.xtype, gl.Ptr(data))
	} else {
		gl.TextureSubImage3D(tex, int32(r.Level), int32(r.X), int32(r.Y), int32(r.Z),
			int32(r.Width), int32(r.Height), int32(max(r.Depth, 1)),
			t.format.format, t.format.xtype, gl.Ptr(data))
	}
	return nil
}

// GenerateMipmaps implements driver.Driver.
func (d *Driver) GenerateMipmaps(id driver.TextureID) {
	gl.GenerateTextureMipmap(uint32(id)) //nolint:gosec // ids come from GL names
}

// --- samplers ---

// CreateSampler implements driver.Driver.
func (d *Driver) CreateSampler(desc driver.SamplerDesc) (driver.SamplerID, error) {
	var s uint32
	gl.CreateSamplers(1, &s)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, wrapMode(desc.AddressModeU))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, wrapMode(desc.AddressModeV))
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_R, wrapMode(desc.AddressModeW))
	gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, filterMode(desc.MinFilter))
	gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, filterMode(desc.MagFilter))
	if desc.Anisotropy > 0 {
		gl.SamplerParameterf(s, gl.TEXTURE_MAX_ANISOTROPY, desc.Anisotropy)
	}
	gl.SamplerParameterf(s, gl.TEXTURE_MIN_LOD, desc.LodMinClamp)
	gl.SamplerParameterf(s, gl.TEXTURE_MAX_LOD, desc.LodMaxClamp)
	gl.SamplerParameterf(s, gl.TEXTURE_LOD_BIAS, desc.LodBias)
	d.label(gl.SAMPLER, s, desc.Label)
	return driver.SamplerID(s), nil
}

// DestroySampler implements driver.Driver.
func (d *Driver) DestroySampler(id driver.SamplerID) {
	s := uint32(id) //nolint:gosec // ids come from GL names
	gl.DeleteSamplers(1, &s)
}

// --- framebuffers ---

// CreateFramebuffer implements driver.Driver.
func (d *Driver) CreateFramebuffer(desc driver.FramebufferDesc) (driver.FramebufferID, error) {
	var fb uint32
	gl.CreateFramebuffers(1, &fb)
	if desc.Depth != 0 {
		gl.NamedFramebufferTexture(fb, gl.DEPTH_ATTACHMENT, uint32(desc.Depth), 0) //nolint:gosec // GL name
	}
	if desc.Stencil != 0 {
		gl.NamedFramebufferTexture(fb, gl.STENCIL_ATTACHMENT, uint32(desc.Stencil), 0) //nolint:gosec // GL name
	}
	for _, c := range desc.Color {
		gl.NamedFramebufferTexture(fb, gl.COLOR_ATTACHMENT0+c.Index, uint32(c.Texture), 0) //nolint:gosec // GL name
	}
	if status := gl.CheckNamedFramebufferStatus(fb, gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fb)
		return 0, fmt.Errorf("%w: status %#x", ErrIncompleteFramebuffer, status)
	}
	d.label(gl.FRAMEBUFFER, fb, desc.Label)
	return driver.FramebufferID(fb), nil
}

// DestroyFramebuffer implements driver.Driver.
func (d *Driver) DestroyFramebuffer(id driver.FramebufferID) {
	fb := uint32(id) //nolint:gosec // ids come from GL names
	gl.DeleteFramebuffers(1, &fb)
}

// --- shaders and programs ---

// CreateShader implements driver.Driver. Each stage becomes a separable
// program.
func (d *Driver) CreateShader(desc driver.ShaderDesc) (driver.ShaderID, error) {
	kind, bit := uint32(gl.VERTEX_SHADER), uint32(gl.VERTEX_SHADER_BIT)
	if desc.Stage == driver.StageFragment {
		kind, bit = gl.FRAGMENT_SHADER, gl.FRAGMENT_SHADER_BIT
	}

	sh := gl.CreateShader(kind)
	defer gl.DeleteShader(sh)
	if len(desc.SPIRV) > 0 {
		gl.ShaderBinary(1, &sh, gl.SHADER_BINARY_FORMAT_SPIR_V, gl.Ptr(desc.SPIRV), int32(len(desc.SPIRV)*4)) //nolint:gosec // module size
		entry, free := gl.Strs("main\x00")
		gl.SpecializeShader(sh, *entry, 0, nil, nil)
		free()
	} else {
		src, free := gl.Strs(desc.GLSL + "\x00")
		gl.ShaderSource(sh, 1, src, nil)
		free()
		gl.CompileShader(sh)
	}

	var status int32
	gl.GetShaderiv(sh, gl.COMPILE_STATUS, &status)
	if infoLog := shaderLog(sh); infoLog != "" {
		d.message(status == gl.FALSE, "%s %s: %s", desc.Stage, desc.Label, infoLog)
	}
	if status == gl.FALSE {
		return 0, fmt.Errorf("%w: %s stage %s", ErrCompile, desc.Stage, desc.Label)
	}

	prog := gl.CreateProgram()
	gl.ProgramParameteri(prog, gl.PROGRAM_SEPARABLE, gl.TRUE)
	gl.AttachShader(prog, sh)
	gl.LinkProgram(prog)
	gl.DetachShader(prog, sh)

	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if infoLog := programLog(prog); infoLog != "" {
		d.message(status == gl.FALSE, "%s %s link: %s", desc.Stage, desc.Label, infoLog)
	}
	if status == gl.FALSE {
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("%w: link %s", ErrCompile, desc.Label)
	}
	d.label(gl.PROGRAM, prog, desc.Label)
	id := driver.ShaderID(prog)
	d.shaders[id] = shader{prog: prog, stageBit: bit}
	return id, nil
}

func (d *Driver) message(failed bool, format string, args ...any) {
	if d.opts.OnMessage == nil {
		return
	}
	sev := driver.SeverityWarn
	if failed {
		sev = driver.SeverityError
	}
	d.opts.OnMessage(driver.Message{Severity: sev, Text: fmt.Sprintf(format, args...)})
}

func shaderLog(sh uint32) string {
	var n int32
	gl.GetShaderiv(sh, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetShaderInfoLog(sh, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

func programLog(prog uint32) string {
	var n int32
	gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
	if n <= 1 {
		return ""
	}
	buf := make([]byte, n)
	gl.GetProgramInfoLog(prog, n, nil, &buf[0])
	return strings.TrimRight(string(buf), "\x00\n")
}

// DestroyShader implements driver.Driver.
func (d *Driver) DestroyShader(id driver.ShaderID) {
	if s, ok := d.shaders[id]; ok {
		delete(d.shaders, id)
		gl.DeleteProgram(s.prog)
	}
}

// CreateProgram implements driver.Driver. The program is a program
// pipeline using each shader for its stage.
func (d *Driver) CreateProgram(desc driver.ProgramDesc) (driver.ProgramID, error) {
	var pp uint32
	gl.CreateProgramPipelines(1, &pp)
	for _, id := range desc.Shaders {
		s, ok := d.shaders[id]
		if !ok {
			gl.DeleteProgramPipelines(1, &pp)
			return 0, fmt.Errorf("gl46: unknown shader %d", id)
		}
		gl.UseProgramStages(pp, s.stageBit, s.prog)
	}
	d.label(gl.PROGRAM_PIPELINE, pp, desc.Label)
	return driver.ProgramID(pp), nil
}

// DestroyProgram implements driver.Driver.
func (d *Driver) DestroyProgram(id driver.ProgramID) {
	pp := uint32(id) //nolint:gosec // ids come from GL names
	gl.DeleteProgramPipelines(1, &pp)
}

// --- vertex formats ---

// CreateVertexFormat implements driver.Driver.
func (d *Driver) CreateVertexFormat(label string) (driver.VertexFormatID, error) {
	var vao uint32
	gl.CreateVertexArrays(1, &vao)
	d.label(gl.VERTEX_ARRAY, vao, label)
	return driver.VertexFormatID(vao), nil
}

// DestroyVertexFormat implements driver.Driver.
func (d *Driver) DestroyVertexFormat(id driver.VertexFormatID) {
	vao := uint32(id) //nolint:gosec // ids come from GL names
	gl.DeleteVertexArrays(1, &vao)
}

// SetAttribFormat implements driver.Driver.
func (d *Driver) SetAttribFormat(id driver.VertexFormatID, attr driver.VertexAttribute) {
	vf, ok := vertexFormats[attr.Format]
	if !ok {
		d.log.Warn("gl46: unknown vertex format", "format", attr.Format, "location", attr.Location)
		return
	}
	vao := uint32(id) //nolint:gosec // ids come from GL names
	gl.EnableVertexArrayAttrib(vao, attr.Location)
	gl.VertexArrayAttribFormat(vao, attr.Location, vf.size, vf.xtype, vf.normalized, attr.Offset)
}

// SetAttribIntegerFormat implements driver.Driver.
func (d *Driver) SetAttribIntegerFormat(id driver.VertexFormatID, attr driver.VertexAttribute) {
	vf, ok := vertexFormats[attr.Format]
	if !ok {
		d.log.Warn("gl46: unknown vertex format", "format", attr.Format, "location", attr.Location)
		return
	}
	vao := uint32(id) //nolint:gosec // ids come from GL names
	gl.EnableVertexArrayAttrib(vao, attr.Location)
	gl.VertexArrayAttribIFormat(vao, attr.Location, vf.size, vf.xtype, attr.Offset)
}

// SetAttribBinding implements driver.Driver.
func (d *Driver) SetAttribBinding(id driver.VertexFormatID, location, binding uint32) {
	gl.VertexArrayAttribBinding(uint32(id), location, binding) //nolint:gosec // ids come from GL names
}

// SetVertexBuffer implements driver.Driver.
func (d *Driver) SetVertexBuffer(id driver.VertexFormatID, binding uint32, buf driver.BufferID, offset uint64, stride uint32) {
	//nolint:gosec // ids come from GL names; offsets and strides are small
	gl.VertexArrayVertexBuffer(uint32(id), binding, uint32(buf), int(offset), int32(stride))
}

// SetIndexBuffer implements driver.Driver.
func (d *Driver) SetIndexBuffer(id driver.VertexFormatID, buf driver.BufferID) {
	gl.VertexArrayElementBuffer(uint32(id), uint32(buf)) //nolint:gosec // ids come from GL names
}

// BindVertexFormat implements driver.Driver.
func (d *Driver) BindVertexFormat(id driver.VertexFormatID) {
	gl.BindVertexArray(uint32(id)) //nolint:gosec // ids come from GL names
}

// --- state and binds ---

func enable(capability uint32, on bool) {
	if on {
		gl.Enable(capability)
	} else {
		gl.Disable(capability)
	}
}

// SetRasterState implements driver.Driver.
func (d *Driver) SetRasterState(s driver.RasterState) {
	enable(gl.BLEND, s.Blend.Enabled)
	if s.Blend.Enabled {
		gl.BlendEquation(blendEquation(s.Blend.Operation))
		gl.BlendFunc(blendFactor(s.Blend.SrcFactor), blendFactor(s.Blend.DstFactor))
	}
	enable(gl.DEPTH_TEST, s.Depth.Enabled)
	if s.Depth.Enabled {
		gl.DepthFunc(depthFunc(s.Depth.Compare))
	}
	enable(gl.CULL_FACE, s.Cull.Enabled)
	if s.Cull.Enabled {
		front := uint32(gl.CCW)
		if s.Cull.FrontFace == gputypes.FrontFaceCW {
			front = gl.CW
		}
		gl.FrontFace(front)
		gl.CullFace(cullFace(s.Cull.Faces))
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, polygonMode(s.Fill))
}

// BindProgram implements driver.Driver.
func (d *Driver) BindProgram(id driver.ProgramID) {
	gl.BindProgramPipeline(uint32(id)) //nolint:gosec // ids come from GL names
}

// BindUniformBuffer implements driver.Driver.
func (d *Driver) BindUniformBuffer(index uint32, buf driver.BufferID) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, index, uint32(buf)) //nolint:gosec // ids come from GL names
}

// BindStorageBuffer implements driver.Driver.
func (d *Driver) BindStorageBuffer(index uint32, buf driver.BufferID) {
	gl.BindBufferBase(gl.SHADER_STORAGE_BUFFER, index, uint32(buf)) //nolint:gosec // ids come from GL names
}

// BindSampler implements driver.Driver.
func (d *Driver) BindSampler(unit uint32, id driver.SamplerID) {
	gl.BindSampler(unit, uint32(id)) //nolint:gosec // ids come from GL names
}

// BindTexture implements driver.Driver.
func (d *Driver) BindTexture(unit uint32, id driver.TextureID) {
	gl.BindTextureUnit(unit, uint32(id)) //nolint:gosec // ids come from GL names
}

// BindFramebuffer implements driver.Driver.
func (d *Driver) BindFramebuffer(id driver.FramebufferID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(id)) //nolint:gosec // ids come from GL names
}

// SetScissor implements driver.Driver. An empty rectangle disables the
// scissor test.
func (d *Driver) SetScissor(r image.Rectangle) {
	if r.Empty() {
		gl.Disable(gl.SCISSOR_TEST)
		return
	}
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy())) //nolint:gosec // screen coordinates
}

// SetViewport implements driver.Driver.
func (d *Driver) SetViewport(r image.Rectangle) {
	gl.Viewport(int32(r.Min.X), int32(r.Min.Y), int32(r.Dx()), int32(r.Dy())) //nolint:gosec // screen coordinates
}

// SetClearColor implements driver.Driver.
func (d *Driver) SetClearColor(c [4]float32) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

// SetClearDepth implements driver.Driver.
func (d *Driver) SetClearDepth(v float32) {
	gl.ClearDepthf(v)
}

// Clear implements driver.Driver.
func (d *Driver) Clear(mask driver.ClearMask) {
	gl.Clear(clearBits(mask))
}

// BlitFramebuffer implements driver.Driver.
func (d *Driver) BlitFramebuffer(src, dst driver.FramebufferID, sr, dr image.Rectangle, mask driver.ClearMask, linear bool) {
	filter := uint32(gl.NEAREST)
	if linear {
		filter = gl.LINEAR
	}
	//nolint:gosec // ids come from GL names; rectangles are screen coordinates
	gl.BlitNamedFramebuffer(uint32(src), uint32(dst),
		int32(sr.Min.X), int32(sr.Min.Y), int32(sr.Max.X), int32(sr.Max.Y),
		int32(dr.Min.X), int32(dr.Min.Y), int32(dr.Max.X), int32(dr.Max.Y),
		clearBits(mask), filter)
}

// --- draws ---

func (d *Driver) bindIndirect(buf driver.BufferID) {
	if b := uint32(buf); b != d.indirect { //nolint:gosec // ids come from GL names
		gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, b)
		d.indirect = b
	}
}

// DrawIndirect implements driver.Driver.
func (d *Driver) DrawIndirect(t gputypes.PrimitiveTopology, buf driver.BufferID, offset uint64) {
	d.bindIndirect(buf)
	gl.DrawArraysIndirect(topology(t), gl.PtrOffset(int(offset))) //nolint:gosec // small offsets
}

// DrawIndexedIndirect implements driver.Driver.
func (d *Driver) DrawIndexedIndirect(t gputypes.PrimitiveTopology, f gputypes.IndexFormat, buf driver.BufferID, offset uint64) {
	d.bindIndirect(buf)
	gl.DrawElementsIndirect(topology(t), indexType(f), gl.PtrOffset(int(offset))) //nolint:gosec // small offsets
}

// Prepare implements driver.Driver. Overlay tools may leave a program
// bound between frames, so it is cleared here.
func (d *Driver) Prepare(indirect driver.BufferID) {
	gl.UseProgram(0)
	d.indirect = uint32(indirect) //nolint:gosec // ids come from GL names
	gl.BindBuffer(gl.DRAW_INDIRECT_BUFFER, d.indirect)
}

// Resize implements driver.Driver.
func (d *Driver) Resize(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height)) //nolint:gosec // window sizes
}

// Close implements driver.Driver.
func (d *Driver) Close() error {
	if d.debug {
		gl.Disable(gl.DEBUG_OUTPUT)
	}
	for id := range d.shaders {
		d.DestroyShader(id)
	}
	d.log.Debug("gl46: driver closed")
	return nil
}

package gfxcmd

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/gfxcmd/driver"
)

// Blending configures color blending of a pipeline.
type Blending struct {
	Enabled   bool
	Equation  BlendEquation
	SrcFactor BlendFunc
	DstFactor BlendFunc
}

// DepthTesting configures the depth test of a pipeline.
type DepthTesting struct {
	Enabled bool
	Func    DepthFunc
}

// FaceCulling configures face culling of a pipeline. With neither CullFront
// nor CullBack set, back faces are culled.
type FaceCulling struct {
	Enabled bool
	Flags   CullFlags
}

// PipelineDesc describes a pipeline.
type PipelineDesc struct {
	Blending     Blending
	DepthTesting DepthTesting
	FaceCulling  FaceCulling
	IndexType    IndexType
	Primitive    PrimitiveMode
	Fill         FillMode
	VertexStride int
	Attribs      []VertexAttrib
	Shaders      []Shader
}

// pipelineState is the part of a pipeline that bind commands copy.
type pipelineState struct {
	raster   driver.RasterState
	program  driver.ProgramID
	topology gputypes.PrimitiveTopology
	index    gputypes.IndexFormat
	stride   uint32
}

type pipelineAttrib struct {
	attr    driver.VertexAttribute
	integer bool
}

// Pipeline bundles raster state, a linked program and a vertex attribute
// layout. It owns one vertex-format object per bucket of binding slots;
// bucket 0 is created with the pipeline, later buckets on first use.
type Pipeline struct {
	dev       *Device
	label     string
	state     pipelineState
	attribs   []pipelineAttrib
	buckets   []driver.VertexFormatID // indexed by bucket, 0 when not created
	null      bool
	destroyed bool
}

// CreatePipeline builds a pipeline. Attribute configurations without a
// native vertex format are rejected with ErrUnsupportedAttribute.
func (d *Device) CreatePipeline(desc PipelineDesc) (*Pipeline, error) {
	if d.closed {
		return nil, ErrClosed
	}
	p, err := d.newPipeline(desc, "pipeline-"+newLabel())
	if err != nil {
		d.debugf(DebugError, "create pipeline: %v", err)
		return nil, err
	}
	d.pipelines[p] = struct{}{}
	d.log.Debug("gfxcmd: pipeline created", "label", p.label, "attribs", len(p.attribs), "stride", desc.VertexStride)
	return p, nil
}

func (d *Device) newPipeline(desc PipelineDesc, label string) (*Pipeline, error) {
	if desc.VertexStride < 0 {
		return nil, fmt.Errorf("%w: negative vertex stride %d", ErrInvalidDescriptor, desc.VertexStride)
	}
	blend, err := blendState(desc.Blending)
	if err != nil {
		return nil, err
	}
	depth, err := depthState(desc.DepthTesting)
	if err != nil {
		return nil, err
	}
	topo, err := topology(desc.Primitive)
	if err != nil {
		return nil, err
	}

	attribs := make([]pipelineAttrib, 0, len(desc.Attribs))
	for _, a := range desc.Attribs {
		if a.Offset < 0 {
			return nil, fmt.Errorf("%w: attribute %d: negative offset", ErrUnsupportedAttribute, a.ID)
		}
		f, integer, err := attribFormat(a)
		if err != nil {
			return nil, err
		}
		attribs = append(attribs, pipelineAttrib{
			attr:    driver.VertexAttribute{Location: a.ID, Format: f, Offset: uint32(a.Offset)}, //nolint:gosec // checked non-negative
			integer: integer,
		})
	}

	p := &Pipeline{
		dev:   d,
		label: label,
		state: pipelineState{
			raster: driver.RasterState{
				Blend: blend,
				Depth: depth,
				Cull:  cullState(desc.FaceCulling),
				Fill:  fillMode(desc.Fill),
			},
			topology: topo,
			index:    indexFormat(desc.IndexType),
			stride:   uint32(desc.VertexStride), //nolint:gosec // checked non-negative
		},
		attribs: attribs,
	}

	if len(desc.Shaders) > 0 {
		ids := make([]driver.ShaderID, 0, len(desc.Shaders))
		for _, s := range desc.Shaders {
			rec, ok := d.shaders.get(s.h)
			if !ok {
				return nil, fmt.Errorf("%w: shader", ErrInvalidHandle)
			}
			ids = append(ids, rec.native)
		}
		prog, err := d.drv.CreateProgram(driver.ProgramDesc{Label: label, Shaders: ids})
		if err != nil {
			return nil, fmt.Errorf("%w: link %s: %v", ErrShaderCompile, label, err)
		}
		p.state.program = prog
	}

	if _, err := p.BucketFormat(0); err != nil {
		if p.state.program != 0 {
			d.drv.DestroyProgram(p.state.program)
		}
		return nil, err
	}
	return p, nil
}

// BucketFormat returns the vertex-format object for bucket b, creating and
// configuring it on first use. Creating an object does not attach any
// buffers to it.
func (p *Pipeline) BucketFormat(b int) (driver.VertexFormatID, error) {
	if p.destroyed {
		return 0, fmt.Errorf("%w: pipeline %s destroyed", ErrStaleHandle, p.label)
	}
	if b < 0 {
		return 0, fmt.Errorf("%w: bucket %d", ErrInvalidHandle, b)
	}
	if b < len(p.buckets) && p.buckets[b] != 0 {
		return p.buckets[b], nil
	}

	drv := p.dev.drv
	vf, err := drv.CreateVertexFormat(fmt.Sprintf("%s/bucket-%d", p.label, b))
	if err != nil {
		return 0, fmt.Errorf("gfxcmd: create vertex format for bucket %d: %w", b, err)
	}
	for _, a := range p.attribs {
		if a.integer {
			drv.SetAttribIntegerFormat(vf, a.attr)
		} else {
			drv.SetAttribFormat(vf, a.attr)
		}
	}
	for len(p.buckets) <= b {
		p.buckets = append(p.buckets, 0)
	}
	p.buckets[b] = vf
	p.dev.log.Debug("gfxcmd: vertex format created", "pipeline", p.label, "bucket", b)
	return vf, nil
}

// Buckets returns the number of vertex-format objects the pipeline owns.
func (p *Pipeline) Buckets() int {
	n := 0
	for _, vf := range p.buckets {
		if vf != 0 {
			n++
		}
	}
	return n
}

// HasBucket reports whether the vertex-format object for bucket b exists.
func (p *Pipeline) HasBucket(b int) bool {
	return b >= 0 && b < len(p.buckets) && p.buckets[b] != 0
}

// Label returns the debug label of the pipeline.
func (p *Pipeline) Label() string { return p.label }

// IsNull reports whether p is the device's null pipeline.
func (p *Pipeline) IsNull() bool { return p.null }

// Topology returns the native primitive topology.
func (p *Pipeline) Topology() gputypes.PrimitiveTopology { return p.state.topology }

// IndexFormat returns the native index format.
func (p *Pipeline) IndexFormat() gputypes.IndexFormat { return p.state.index }

// RasterState returns the fixed-function state applied on bind.
func (p *Pipeline) RasterState() driver.RasterState { return p.state.raster }

// snapshot copies the bind-relevant state and the bucket table.
func (p *Pipeline) snapshot() pipelineRef {
	return pipelineRef{
		live:    p,
		state:   p.state,
		buckets: append([]driver.VertexFormatID(nil), p.buckets...),
	}
}

func (p *Pipeline) release() {
	if p.destroyed {
		return
	}
	drv := p.dev.drv
	for _, vf := range p.buckets {
		if vf != 0 {
			drv.DestroyVertexFormat(vf)
			p.dev.pb.forgetVertexFormat(vf)
		}
	}
	if p.state.program != 0 {
		drv.DestroyProgram(p.state.program)
	}
	p.buckets = nil
	p.destroyed = true
}

// DestroyPipeline releases the program and every vertex-format object of p.
// The null pipeline cannot be destroyed.
func (d *Device) DestroyPipeline(p *Pipeline) {
	if p == nil || p.null || p.dev != d {
		return
	}
	if _, ok := d.pipelines[p]; !ok {
		return
	}
	delete(d.pipelines, p)
	p.release()
	if d.pb.pipeline.live == p {
		if err := d.pb.bindPipeline(d.null.snapshot()); err != nil {
			d.log.Warn("gfxcmd: rebinding null pipeline failed", "err", err)
		}
	}
}

// NullPipeline returns the device's null pipeline: blending, depth testing
// and culling disabled, no program, 16-bit indices, line strips drawn as
// lines. It is bound whenever no pipeline is.
func (d *Device) NullPipeline() *Pipeline { return d.null }

func (d *Device) createNullPipeline() error {
	p, err := d.newPipeline(PipelineDesc{
		IndexType: Index16,
		Primitive: PrimitiveLineStrip,
		Fill:      FillWireframe,
	}, "null-pipeline")
	if err != nil {
		return err
	}
	p.null = true
	d.null = p
	return nil
}

// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gfxcmd

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gfxcmd/driver"
	"github.com/gogpu/gfxcmd/internal/slots"
)

// Draw argument records written to the indirect buffer.
const (
	drawArgsSize        = 16 // {count, instances, first, baseInstance}
	drawIndexedArgsSize = 20 // {count, instances, firstIndex, baseVertex, baseInstance}
)

// formatShadow is what the engine knows about one vertex-format object.
type formatShadow struct {
	attached map[uint32]driver.BufferID // binding -> storage
	selected int64                      // binding the attributes read from, -1 if none
}

// playback replays command lists against the driver. It owns the shadow of
// the bound driver state so redundant vertex binds can be skipped.
type playback struct {
	dev      *Device
	pipeline pipelineRef
	index    driver.BufferID
	vf       driver.VertexFormatID
	formats  map[driver.VertexFormatID]*formatShadow
	args     [drawIndexedArgsSize]byte
}

func newPlayback(d *Device) *playback {
	return &playback{
		dev:     d,
		formats: make(map[driver.VertexFormatID]*formatShadow),
	}
}

// reset forgets the bound index buffer and applies the null pipeline.
func (pb *playback) reset() error {
	pb.index = 0
	pb.vf = 0
	return pb.bindPipeline(pb.dev.null.snapshot())
}

// Submit replays the current recording of cl. Playback stops at the first
// command that refers to a destroyed or resized resource and returns an
// error wrapping ErrStaleHandle.
func (d *Device) Submit(cl *CommandList) error {
	if d.closed {
		return ErrClosed
	}
	if cl == nil || cl.destroyed || cl.dev != d {
		return fmt.Errorf("%w: command list", ErrInvalidHandle)
	}
	for i, c := range cl.cmds[:cl.cursor] {
		if err := d.pb.execute(c); err != nil {
			err = fmt.Errorf("gfxcmd: command %d (%s): %w", i, c.Type(), err)
			d.log.Warn("gfxcmd: playback stopped", "err", err, "commands", cl.cursor)
			d.notify(DebugError, err.Error())
			return err
		}
	}
	d.log.Debug("gfxcmd: submitted", "commands", cl.cursor)
	return nil
}

func (pb *playback) execute(c Command) error {
	drv := pb.dev.drv
	switch c := c.(type) {
	case SetScissorCommand:
		drv.SetScissor(c.Rect)
	case SetViewportCommand:
		drv.SetViewport(c.Rect)
	case SetClearColorCommand:
		drv.SetClearColor(c.Color)
	case SetClearDepthCommand:
		drv.SetClearDepth(c.Depth)
	case ClearCommand:
		drv.Clear(driver.ClearMask(c.Mask))

	case BindPipelineCommand:
		if c.pipeline.live.destroyed {
			return fmt.Errorf("%w: pipeline %s destroyed", ErrStaleHandle, c.pipeline.live.label)
		}
		return pb.bindPipeline(c.pipeline)
	case BindStorageBufferCommand:
		storage, err := pb.buffer(c.buffer)
		if err != nil {
			return err
		}
		drv.BindStorageBuffer(c.Index, storage)
	case BindUniformBufferCommand:
		storage, err := pb.buffer(c.buffer)
		if err != nil {
			return err
		}
		drv.BindUniformBuffer(c.Index, storage)
	case BindIndexBufferCommand:
		storage, err := pb.buffer(c.buffer)
		if err != nil {
			return err
		}
		pb.index = storage
		if pb.vf != 0 {
			drv.SetIndexBuffer(pb.vf, storage)
		}
	case BindVertexBufferCommand:
		return pb.bindVertexBuffer(c.buffer)
	case BindSamplerCommand:
		if !pb.liveSampler(c.sampler) {
			return fmt.Errorf("%w: sampler", ErrStaleHandle)
		}
		drv.BindSampler(c.Unit, c.sampler.native)
	case BindTextureCommand:
		if !pb.liveTexture(c.texture) {
			return fmt.Errorf("%w: texture", ErrStaleHandle)
		}
		drv.BindTexture(c.Unit, c.texture.native)
	case BindRenderTargetCommand:
		if !pb.liveTarget(c.target) {
			return fmt.Errorf("%w: render target", ErrStaleHandle)
		}
		drv.BindFramebuffer(c.target.native)

	case WriteBufferCommand:
		storage, err := pb.buffer(c.buffer)
		if err != nil {
			return err
		}
		if storage != 0 {
			drv.WriteBuffer(storage, uint64(c.Offset), c.Data) //nolint:gosec // checked at record time
		}
	case CopyRenderTargetCommand:
		if !pb.liveTarget(c.src) || !pb.liveTarget(c.dst) {
			return fmt.Errorf("%w: render target", ErrStaleHandle)
		}
		drv.BlitFramebuffer(c.src.native, c.dst.native, c.SrcRect, c.DstRect, driver.ClearMask(c.Mask), c.Filter)

	case DrawCommand:
		a := pb.args[:drawArgsSize]
		binary.LittleEndian.PutUint32(a[0:], c.Vertices)
		binary.LittleEndian.PutUint32(a[4:], c.Instances)
		binary.LittleEndian.PutUint32(a[8:], c.BaseVertex)
		binary.LittleEndian.PutUint32(a[12:], c.BaseInstance)
		drv.WriteBuffer(pb.dev.indirect, 0, a)
		drv.DrawIndirect(pb.pipeline.state.topology, pb.dev.indirect, 0)
	case DrawIndexedCommand:
		a := pb.args[:drawIndexedArgsSize]
		binary.LittleEndian.PutUint32(a[0:], c.Indices)
		binary.LittleEndian.PutUint32(a[4:], c.Instances)
		binary.LittleEndian.PutUint32(a[8:], c.BaseIndex)
		binary.LittleEndian.PutUint32(a[12:], uint32(c.BaseVertex)) //nolint:gosec // two's complement is the wire format
		binary.LittleEndian.PutUint32(a[16:], c.BaseInstance)
		drv.WriteBuffer(pb.dev.indirect, 0, a)
		drv.DrawIndexedIndirect(pb.pipeline.state.topology, pb.pipeline.state.index, pb.dev.indirect, 0)

	default:
		return fmt.Errorf("gfxcmd: unknown command %T", c)
	}
	return nil
}

// bindPipeline applies a pipeline in full. Pipeline switches are not
// diffed against the previous pipeline.
func (pb *playback) bindPipeline(ref pipelineRef) error {
	ref.buckets = append([]driver.VertexFormatID(nil), ref.buckets...)
	pb.pipeline = ref

	drv := pb.dev.drv
	drv.SetRasterState(ref.state.raster)
	drv.BindProgram(ref.state.program)

	vf, err := pb.bucket(0)
	if err != nil {
		return err
	}
	drv.BindVertexFormat(vf)
	pb.vf = vf
	drv.SetIndexBuffer(vf, pb.index)
	return nil
}

// bucket resolves the bound pipeline's vertex-format object for bucket b,
// creating it through the live pipeline when the recorded table lacks it.
func (pb *playback) bucket(b int) (driver.VertexFormatID, error) {
	ref := &pb.pipeline
	if b < len(ref.buckets) && ref.buckets[b] != 0 {
		return ref.buckets[b], nil
	}
	vf, err := ref.live.BucketFormat(b)
	if err != nil {
		return 0, err
	}
	for len(ref.buckets) <= b {
		ref.buckets = append(ref.buckets, 0)
	}
	ref.buckets[b] = vf
	return vf, nil
}

func (pb *playback) shadow(vf driver.VertexFormatID) *formatShadow {
	s, ok := pb.formats[vf]
	if !ok {
		s = &formatShadow{attached: make(map[uint32]driver.BufferID), selected: -1}
		pb.formats[vf] = s
	}
	return s
}

// bindVertexBuffer routes a vertex buffer through its slot: the bucket
// selects the vertex-format object, the binding selects the attachment
// point inside it. The object is rebound only when it changes, and the
// attachment and attribute bindings only when the buffer at that point
// changes.
func (pb *playback) bindVertexBuffer(ref bufferRef) error {
	if !ref.h.valid() {
		return nil
	}
	storage, err := pb.buffer(ref)
	if err != nil {
		return err
	}
	if ref.slot < 0 {
		pb.dev.log.Debug("gfxcmd: vertex bind of a non-vertex buffer ignored")
		return nil
	}
	if pb.pipeline.live.destroyed {
		return fmt.Errorf("%w: pipeline %s destroyed", ErrStaleHandle, pb.pipeline.live.label)
	}

	size := pb.dev.bucketSize
	vf, err := pb.bucket(slots.Bucket(ref.slot, size))
	if err != nil {
		return err
	}
	binding := uint32(slots.Binding(ref.slot, size)) //nolint:gosec // slot is non-negative

	drv := pb.dev.drv
	if vf != pb.vf {
		drv.BindVertexFormat(vf)
		pb.vf = vf
		drv.SetIndexBuffer(vf, pb.index)
	}

	s := pb.shadow(vf)
	changed := s.attached[binding] != storage
	if changed {
		drv.SetVertexBuffer(vf, binding, storage, 0, pb.pipeline.state.stride)
		s.attached[binding] = storage
	}
	if changed || s.selected != int64(binding) {
		for _, a := range pb.pipeline.live.attribs {
			drv.SetAttribBinding(vf, a.attr.Location, binding)
		}
		s.selected = int64(binding)
	}
	return nil
}

// buffer validates a recorded buffer reference. The zero handle resolves to
// no buffer.
func (pb *playback) buffer(ref bufferRef) (driver.BufferID, error) {
	if !ref.h.valid() {
		return 0, nil
	}
	rec, ok := pb.dev.buffers.get(ref.h)
	if !ok {
		return 0, fmt.Errorf("%w: buffer destroyed", ErrStaleHandle)
	}
	if rec.storage != ref.storage {
		return 0, fmt.Errorf("%w: buffer %s was resized after recording", ErrStaleHandle, rec.label)
	}
	return ref.storage, nil
}

// liveSampler reports whether a recorded reference still names the same
// native object. The zero handle is always live; the same holds for the
// texture and render target variants.
func (pb *playback) liveSampler(ref samplerRef) bool {
	if !ref.h.valid() {
		return true
	}
	rec, ok := pb.dev.samplers.get(ref.h)
	return ok && rec.native == ref.native
}

func (pb *playback) liveTexture(ref textureRef) bool {
	if !ref.h.valid() {
		return true
	}
	rec, ok := pb.dev.textures.get(ref.h)
	return ok && rec.native == ref.native
}

func (pb *playback) liveTarget(ref targetRef) bool {
	if !ref.h.valid() {
		return true
	}
	rec, ok := pb.dev.targets.get(ref.h)
	return ok && rec.native == ref.native
}

// forgetBuffer drops shadow state that refers to storage, which is about to
// be destroyed.
func (pb *playback) forgetBuffer(storage driver.BufferID) {
	if pb.index == storage {
		pb.index = 0
	}
	for _, s := range pb.formats {
		for binding, b := range s.attached {
			if b == storage {
				delete(s.attached, binding)
				if s.selected == int64(binding) {
					s.selected = -1
				}
			}
		}
	}
}

// forgetVertexFormat drops shadow state of a destroyed vertex-format object.
func (pb *playback) forgetVertexFormat(vf driver.VertexFormatID) {
	delete(pb.formats, vf)
	if pb.vf == vf {
		pb.vf = 0
	}
}

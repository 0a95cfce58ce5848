package gfxcmd

import (
	"bytes"
	"image"
)

// CommandList records a replayable sequence of commands.
//
// Recording starts at index 0 after every StartRecording and overwrites the
// entries of the previous recording in place; the backing storage grows only
// when a recording is longer than any before it. Entries past the cursor are
// leftovers and are never replayed.
//
// Recording methods never fail and never touch the driver. Bind commands
// copy the native identity of the resources they reference, so a recorded
// list is unaffected by later changes to the live objects. A resource that
// is destroyed or resized after recording is reported by Submit.
type CommandList struct {
	dev       *Device
	cmds      []Command
	cursor    int
	owned     int // bytes of write payloads held by live entries
	destroyed bool
}

// CreateCommandList returns an empty command list.
func (d *Device) CreateCommandList() *CommandList {
	cl := &CommandList{dev: d}
	d.lists[cl] = struct{}{}
	return cl
}

// DestroyCommandList releases the payloads owned by cl. Recording into a
// destroyed list does nothing.
func (d *Device) DestroyCommandList(cl *CommandList) {
	if cl == nil || cl.dev != d {
		return
	}
	delete(d.lists, cl)
	cl.release()
}

// StartRecording rewinds cl so the next commands overwrite it from index 0.
func (d *Device) StartRecording(cl *CommandList) {
	if cl == nil || cl.destroyed {
		return
	}
	cl.cursor = 0
}

func (cl *CommandList) release() {
	for i := range cl.cmds {
		cl.releaseAt(i)
		cl.cmds[i] = nil
	}
	cl.cmds = nil
	cl.cursor = 0
	cl.destroyed = true
}

// releaseAt drops the payload owned by the entry at i.
func (cl *CommandList) releaseAt(i int) {
	if w, ok := cl.cmds[i].(WriteBufferCommand); ok {
		cl.owned -= len(w.Data)
		w.Data = nil
		cl.cmds[i] = w
	}
}

func (cl *CommandList) record(c Command) {
	if cl.destroyed {
		return
	}
	if cl.cursor < len(cl.cmds) {
		cl.releaseAt(cl.cursor)
		cl.cmds[cl.cursor] = c
	} else {
		cl.cmds = append(cl.cmds, c)
	}
	cl.cursor++
}

// Len returns the number of commands in the current recording.
func (cl *CommandList) Len() int { return cl.cursor }

// Cap returns the number of entries in the backing storage.
func (cl *CommandList) Cap() int { return len(cl.cmds) }

// OwnedBytes returns the size of the write payloads the list holds.
func (cl *CommandList) OwnedBytes() int { return cl.owned }

// Commands returns a copy of the commands of the current recording. Write
// payloads are copied too; changing them does not affect playback.
func (cl *CommandList) Commands() []Command {
	out := append([]Command(nil), cl.cmds[:cl.cursor]...)
	for i, c := range out {
		if w, ok := c.(WriteBufferCommand); ok {
			w.Data = bytes.Clone(w.Data)
			out[i] = w
		}
	}
	return out
}

// sizedRect returns the rectangle at (x, y) with the given size. A negative
// width or height yields an empty rectangle.
func sizedRect(x, y, width, height int) image.Rectangle {
	return image.Rectangle{
		Min: image.Pt(x, y),
		Max: image.Pt(x+max(width, 0), y+max(height, 0)),
	}
}

// SetScissor records a scissor rectangle.
func (cl *CommandList) SetScissor(x, y, width, height int) {
	cl.record(SetScissorCommand{Rect: sizedRect(x, y, width, height)})
}

// SetViewport records a viewport rectangle.
func (cl *CommandList) SetViewport(x, y, width, height int) {
	cl.record(SetViewportCommand{Rect: sizedRect(x, y, width, height)})
}

// SetClearColor3f records an opaque clear color.
func (cl *CommandList) SetClearColor3f(r, g, b float32) {
	cl.record(SetClearColorCommand{Color: [4]float32{r, g, b, 1}})
}

// SetClearColor4f records a clear color.
func (cl *CommandList) SetClearColor4f(r, g, b, a float32) {
	cl.record(SetClearColorCommand{Color: [4]float32{r, g, b, a}})
}

// SetClearDepth records the clear depth.
func (cl *CommandList) SetClearDepth(depth float32) {
	cl.record(SetClearDepthCommand{Depth: depth})
}

// Clear records a clear of the selected planes.
func (cl *CommandList) Clear(mask RenderTargetMask) {
	cl.record(ClearCommand{Mask: mask})
}

// BindPipeline records a pipeline bind. A nil pipeline binds the null
// pipeline.
func (cl *CommandList) BindPipeline(p *Pipeline) {
	if p == nil {
		p = cl.dev.null
	}
	cl.record(BindPipelineCommand{pipeline: p.snapshot()})
}

// BindStorageBuffer records a storage buffer bind. The zero Buffer unbinds
// the index.
func (cl *CommandList) BindStorageBuffer(b Buffer, index uint32) {
	cl.record(BindStorageBufferCommand{buffer: cl.dev.bufferRef(b), Index: index})
}

// BindUniformBuffer records a uniform buffer bind. The zero Buffer unbinds
// the index.
func (cl *CommandList) BindUniformBuffer(b Buffer, index uint32) {
	cl.record(BindUniformBufferCommand{buffer: cl.dev.bufferRef(b), Index: index})
}

// BindIndexBuffer records an index buffer bind.
func (cl *CommandList) BindIndexBuffer(b Buffer) {
	cl.record(BindIndexBufferCommand{buffer: cl.dev.bufferRef(b)})
}

// BindVertexBuffer records a vertex buffer bind.
func (cl *CommandList) BindVertexBuffer(b Buffer) {
	cl.record(BindVertexBufferCommand{buffer: cl.dev.bufferRef(b)})
}

// BindSampler records a sampler bind. The zero Sampler unbinds the unit.
func (cl *CommandList) BindSampler(s Sampler, unit uint32) {
	cl.record(BindSamplerCommand{sampler: cl.dev.samplerRef(s), Unit: unit})
}

// BindTexture records a texture bind. The zero Texture unbinds the unit.
func (cl *CommandList) BindTexture(t Texture, unit uint32) {
	cl.record(BindTextureCommand{texture: cl.dev.textureRef(t), Unit: unit})
}

// BindRenderTarget records a render target bind. The zero RenderTarget
// selects the default target.
func (cl *CommandList) BindRenderTarget(rt RenderTarget) {
	cl.record(BindRenderTargetCommand{target: cl.dev.targetRef(rt)})
}

// WriteBuffer records a write of data into b at offset. The bytes are copied
// into storage owned by the list, so data may be reused as soon as the call
// returns. Writes that do not fit in b are rejected: nothing is recorded and
// WriteBuffer returns false.
func (cl *CommandList) WriteBuffer(b Buffer, offset int, data []byte) bool {
	if cl.destroyed {
		return false
	}
	rec, ok := cl.dev.buffers.get(b.h)
	if !ok {
		cl.dev.log.Warn("gfxcmd: write to unknown buffer rejected")
		return false
	}
	if !fits(offset, len(data), rec.size) {
		cl.dev.log.Warn("gfxcmd: buffer write rejected",
			"err", ErrWriteOutOfRange, "label", rec.label, "offset", offset, "size", len(data), "buffer", rec.size)
		return false
	}
	payload := make([]byte, len(data))
	copy(payload, data)
	cl.record(WriteBufferCommand{buffer: cl.dev.bufferRef(b), Offset: offset, Data: payload})
	if !cl.destroyed {
		cl.owned += len(payload)
	}
	return true
}

// CopyRenderTarget records a blit from src to dst. The zero RenderTarget
// names the default target.
func (cl *CommandList) CopyRenderTarget(src, dst RenderTarget, srcRect, dstRect image.Rectangle, mask RenderTargetMask, filter bool) {
	cl.record(CopyRenderTargetCommand{
		src:     cl.dev.targetRef(src),
		dst:     cl.dev.targetRef(dst),
		SrcRect: srcRect,
		DstRect: dstRect,
		Mask:    mask,
		Filter:  filter,
	})
}

// Draw records a non-indexed draw.
func (cl *CommandList) Draw(vertices, instances, baseVertex, baseInstance uint32) {
	cl.record(DrawCommand{
		Vertices:     vertices,
		Instances:    instances,
		BaseVertex:   baseVertex,
		BaseInstance: baseInstance,
	})
}

// DrawIndexed records an indexed draw.
func (cl *CommandList) DrawIndexed(indices, instances, baseIndex uint32, baseVertex int32, baseInstance uint32) {
	cl.record(DrawIndexedCommand{
		Indices:      indices,
		Instances:    instances,
		BaseIndex:    baseIndex,
		BaseVertex:   baseVertex,
		BaseInstance: baseInstance,
	})
}

// fits reports whether a write of n bytes at offset lies inside a buffer of
// the given size.
func fits(offset, n, size int) bool {
	return offset >= 0 && n >= 0 && offset <= size && n <= size-offset
}

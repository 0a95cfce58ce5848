package gfxcmd

import (
	"image"

	"github.com/gogpu/gfxcmd/driver"
)

// CommandType identifies the kind of a recorded command.
type CommandType uint8

const (
	// Fixed-function state
	CmdSetScissor    CommandType = iota // Set the scissor rectangle
	CmdSetViewport                      // Set the viewport rectangle
	CmdSetClearColor                    // Set the clear color
	CmdSetClearDepth                    // Set the clear depth
	CmdClear                            // Clear render target planes

	// Binds
	CmdBindPipeline      // Bind a pipeline (or the null pipeline)
	CmdBindStorageBuffer // Bind a storage buffer to an index
	CmdBindUniformBuffer // Bind a uniform buffer to an index
	CmdBindIndexBuffer   // Bind the index buffer
	CmdBindVertexBuffer  // Bind a vertex buffer through its slot
	CmdBindSampler       // Bind a sampler to a unit
	CmdBindTexture       // Bind a texture to a unit
	CmdBindRenderTarget  // Bind a render target (or the default one)

	// Transfers
	CmdWriteBuffer      // Write an owned payload into a buffer
	CmdCopyRenderTarget // Blit between render targets

	// Draws
	CmdDraw        // Non-indexed indirect draw
	CmdDrawIndexed // Indexed indirect draw
)

var commandTypeNames = [...]string{
	CmdSetScissor:        "SetScissor",
	CmdSetViewport:       "SetViewport",
	CmdSetClearColor:     "SetClearColor",
	CmdSetClearDepth:     "SetClearDepth",
	CmdClear:             "Clear",
	CmdBindPipeline:      "BindPipeline",
	CmdBindStorageBuffer: "BindStorageBuffer",
	CmdBindUniformBuffer: "BindUniformBuffer",
	CmdBindIndexBuffer:   "BindIndexBuffer",
	CmdBindVertexBuffer:  "BindVertexBuffer",
	CmdBindSampler:       "BindSampler",
	CmdBindTexture:       "BindTexture",
	CmdBindRenderTarget:  "BindRenderTarget",
	CmdWriteBuffer:       "WriteBuffer",
	CmdCopyRenderTarget:  "CopyRenderTarget",
	CmdDraw:              "Draw",
	CmdDrawIndexed:       "DrawIndexed",
}

// String returns the name of the command type.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded operation.
type Command interface {
	Type() CommandType
}

// --------------------------------------------------------------------------
// Snapshots
// --------------------------------------------------------------------------

// bufferRef is the recorded identity of a buffer: the client handle for
// validation plus the native storage and slot at record time.
type bufferRef struct {
	h       handle
	storage driver.BufferID
	slot    int
}

type textureRef struct {
	h      handle
	native driver.TextureID
}

type samplerRef struct {
	h      handle
	native driver.SamplerID
}

type targetRef struct {
	h      handle
	native driver.FramebufferID
}

// pipelineRef is the recorded copy of a pipeline: its state and bucket
// table by value, plus the live object for lazily created buckets.
type pipelineRef struct {
	live    *Pipeline
	state   pipelineState
	buckets []driver.VertexFormatID
}

// --------------------------------------------------------------------------
// Fixed-function state
// --------------------------------------------------------------------------

// SetScissorCommand sets the scissor rectangle.
type SetScissorCommand struct{ Rect image.Rectangle }

func (SetScissorCommand) Type() CommandType { return CmdSetScissor }

// SetViewportCommand sets the viewport rectangle.
type SetViewportCommand struct{ Rect image.Rectangle }

func (SetViewportCommand) Type() CommandType { return CmdSetViewport }

// SetClearColorCommand sets the color used by Clear.
type SetClearColorCommand struct{ Color [4]float32 }

func (SetClearColorCommand) Type() CommandType { return CmdSetClearColor }

// SetClearDepthCommand sets the depth used by Clear.
type SetClearDepthCommand struct{ Depth float32 }

func (SetClearDepthCommand) Type() CommandType { return CmdSetClearDepth }

// ClearCommand clears the selected planes of the bound render target.
type ClearCommand struct{ Mask RenderTargetMask }

func (ClearCommand) Type() CommandType { return CmdClear }

// --------------------------------------------------------------------------
// Binds
// --------------------------------------------------------------------------

// BindPipelineCommand binds a pipeline snapshot. A nil pipeline binds the
// null pipeline.
type BindPipelineCommand struct{ pipeline pipelineRef }

func (BindPipelineCommand) Type() CommandType { return CmdBindPipeline }

// BindStorageBufferCommand binds a buffer as a storage buffer.
type BindStorageBufferCommand struct {
	buffer bufferRef
	Index  uint32
}

func (BindStorageBufferCommand) Type() CommandType { return CmdBindStorageBuffer }

// BindUniformBufferCommand binds a buffer as a uniform buffer.
type BindUniformBufferCommand struct {
	buffer bufferRef
	Index  uint32
}

func (BindUniformBufferCommand) Type() CommandType { return CmdBindUniformBuffer }

// BindIndexBufferCommand binds the index buffer.
type BindIndexBufferCommand struct{ buffer bufferRef }

func (BindIndexBufferCommand) Type() CommandType { return CmdBindIndexBuffer }

// BindVertexBufferCommand binds a vertex buffer through its slot.
type BindVertexBufferCommand struct{ buffer bufferRef }

func (BindVertexBufferCommand) Type() CommandType { return CmdBindVertexBuffer }

// Slot returns the binding slot the buffer occupied at record time.
func (c BindVertexBufferCommand) Slot() int { return c.buffer.slot }

// BindSamplerCommand binds a sampler to a unit.
type BindSamplerCommand struct {
	sampler samplerRef
	Unit    uint32
}

func (BindSamplerCommand) Type() CommandType { return CmdBindSampler }

// BindTextureCommand binds a texture to a unit.
type BindTextureCommand struct {
	texture textureRef
	Unit    uint32
}

func (BindTextureCommand) Type() CommandType { return CmdBindTexture }

// BindRenderTargetCommand binds a render target. The zero RenderTarget
// selects the default target.
type BindRenderTargetCommand struct{ target targetRef }

func (BindRenderTargetCommand) Type() CommandType { return CmdBindRenderTarget }

// --------------------------------------------------------------------------
// Transfers
// --------------------------------------------------------------------------

// WriteBufferCommand writes Data into a buffer at Offset. Data is owned by
// the command list that recorded it.
type WriteBufferCommand struct {
	buffer bufferRef
	Offset int
	Data   []byte
}

func (WriteBufferCommand) Type() CommandType { return CmdWriteBuffer }

// CopyRenderTargetCommand blits a rectangle between render targets.
type CopyRenderTargetCommand struct {
	src, dst targetRef
	SrcRect  image.Rectangle
	DstRect  image.Rectangle
	Mask     RenderTargetMask
	Filter   bool
}

func (CopyRenderTargetCommand) Type() CommandType { return CmdCopyRenderTarget }

// --------------------------------------------------------------------------
// Draws
// --------------------------------------------------------------------------

// DrawCommand draws non-indexed primitives.
type DrawCommand struct {
	Vertices     uint32
	Instances    uint32
	BaseVertex   uint32
	BaseInstance uint32
}

func (DrawCommand) Type() CommandType { return CmdDraw }

// DrawIndexedCommand draws indexed primitives.
type DrawIndexedCommand struct {
	Indices      uint32
	Instances    uint32
	BaseIndex    uint32
	BaseVertex   int32
	BaseInstance uint32
}

func (DrawIndexedCommand) Type() CommandType { return CmdDrawIndexed }

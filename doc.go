// Package gfxcmd records GPU work into replayable command lists and plays
// it back against a pluggable driver.
//
// # Overview
//
// gfxcmd sits between an application and a graphics driver. Resources are
// created through a [Device]; draw work is recorded into a [CommandList]
// and replayed with [Device.Submit]. The driver underneath may execute each
// call immediately (driver/gl46) or batch it into deferred work
// (driver/halgpu); driver/trace records calls without rendering.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/gfxcmd"
//		_ "github.com/gogpu/gfxcmd/driver/trace"
//	)
//
//	cfg := gfxcmd.DefaultConfig()
//	cfg.Driver = "trace"
//	dev, err := gfxcmd.OpenDevice(cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Close()
//
//	vb, _ := dev.CreateBuffer(gfxcmd.BufferDesc{Type: gfxcmd.BufferVertex, Size: 1024})
//	p, _ := dev.CreatePipeline(gfxcmd.PipelineDesc{
//		Primitive:    gfxcmd.PrimitiveTriangles,
//		VertexStride: 16,
//		Attribs: []gfxcmd.VertexAttrib{
//			{ID: 0, Type: gfxcmd.AttribFloat32, Count: 4},
//		},
//	})
//
//	cl := dev.CreateCommandList()
//	dev.StartRecording(cl)
//	cl.BindPipeline(p)
//	cl.BindVertexBuffer(vb)
//	cl.Draw(3, 1, 0, 0)
//	err = dev.Submit(cl)
//
// # Vertex binding slots
//
// Every vertex buffer holds a binding slot while it is alive. Slots are
// grouped into buckets of BucketSize slots, BucketSize being the number of
// vertex buffers the driver can bind at once. A pipeline owns one
// vertex-format object per bucket: the object for bucket 0 is created with
// the pipeline, the others when a buffer of that bucket is first bound.
// Binding a vertex buffer selects the object of its bucket and attaches the
// buffer at slot % BucketSize.
//
// # Recording and playback
//
// Recording never fails and never calls the driver. Commands copy the
// native identity of what they reference, so re-recording is the way to
// pick up a resized buffer. [Device.Submit] reports commands whose
// resources were destroyed or resized after recording with an error
// wrapping [ErrStaleHandle].
//
// Playback keeps a shadow of the bound pipeline, index buffer,
// vertex-format object and vertex buffer attachments, and skips vertex
// binds that would not change driver state. Pipeline binds are always
// applied in full.
//
// # Logging
//
// gfxcmd is silent by default. Use [SetLogger] or [WithLogger] to route
// its records to a slog handler, for example [NewConsoleLogger].
package gfxcmd

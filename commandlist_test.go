package gfxcmd

import (
	"bytes"
	"image"
	"testing"
)

func TestCommandListRecordingOverwrites(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	cl := dev.CreateCommandList()

	record := func(n int) {
		dev.StartRecording(cl)
		for i := 0; i < n; i++ {
			cl.Draw(uint32(i), 1, 0, 0) //nolint:gosec // small test values
		}
	}

	tests := []struct {
		n       int
		wantLen int
		wantCap int
	}{
		{5, 5, 5},
		{3, 3, 5},
		{7, 7, 7},
		{0, 0, 7},
	}
	for _, tt := range tests {
		record(tt.n)
		if got := cl.Len(); got != tt.wantLen {
			t.Errorf("after %d commands Len() = %d, want %d", tt.n, got, tt.wantLen)
		}
		if got := cl.Cap(); got != tt.wantCap {
			t.Errorf("after %d commands Cap() = %d, want %d", tt.n, got, tt.wantCap)
		}
	}
}

func TestCommandListReplaysOnlyCurrentRecording(t *testing.T) {
	dev, drv := newTestDevice(t, 4)
	cl := dev.CreateCommandList()

	dev.StartRecording(cl)
	for i := 0; i < 4; i++ {
		cl.Draw(3, 1, 0, 0)
	}
	dev.StartRecording(cl)
	cl.Draw(9, 1, 0, 0)
	mustSubmit(t, dev, cl)

	draws := drv.Draws()
	if len(draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(draws))
	}
	if draws[0].Count() != 9 {
		t.Errorf("draw count = %d, want 9", draws[0].Count())
	}
}

func TestCommandListRecordingIsIdempotent(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	p := mustPipeline(t, dev, testPipelineDesc())
	vb := mustBuffer(t, dev, BufferVertex, 48)
	cl := dev.CreateCommandList()

	record := func() []Command {
		dev.StartRecording(cl)
		cl.BindPipeline(p)
		cl.BindVertexBuffer(vb)
		cl.SetClearColor4f(1, 0, 0, 1)
		cl.Draw(3, 1, 0, 0)
		return cl.Commands()
	}
	first := record()
	second := record()
	if len(first) != len(second) {
		t.Fatalf("recordings have %d and %d commands", len(first), len(second))
	}
	for i := range first {
		if first[i].Type() != second[i].Type() {
			t.Errorf("command %d: %s then %s", i, first[i].Type(), second[i].Type())
		}
	}
	if c, ok := second[1].(BindVertexBufferCommand); !ok || c.Slot() != 0 {
		t.Errorf("command 1 = %#v, want vertex bind of slot 0", second[1])
	}
}

func TestCommandListOwnedBytes(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	b := mustBuffer(t, dev, BufferData, 64)
	cl := dev.CreateCommandList()

	dev.StartRecording(cl)
	cl.WriteBuffer(b, 0, make([]byte, 10))
	cl.WriteBuffer(b, 10, make([]byte, 6))
	if got := cl.OwnedBytes(); got != 16 {
		t.Fatalf("OwnedBytes() = %d, want 16", got)
	}

	// Overwriting the first entry releases its payload.
	dev.StartRecording(cl)
	cl.Draw(1, 1, 0, 0)
	if got := cl.OwnedBytes(); got != 6 {
		t.Errorf("OwnedBytes() after overwrite = %d, want 6", got)
	}
	cl.WriteBuffer(b, 0, make([]byte, 4))
	if got := cl.OwnedBytes(); got != 4 {
		t.Errorf("OwnedBytes() after second overwrite = %d, want 4", got)
	}

	dev.DestroyCommandList(cl)
	if got := cl.OwnedBytes(); got != 0 {
		t.Errorf("OwnedBytes() after destroy = %d, want 0", got)
	}
}

func TestCommandListWriteBufferBounds(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	b := mustBuffer(t, dev, BufferData, 16)
	cl := dev.CreateCommandList()
	dev.StartRecording(cl)

	tests := []struct {
		name   string
		offset int
		n      int
		want   bool
	}{
		{"whole buffer", 0, 16, true},
		{"ends at size", 12, 4, true},
		{"empty at end", 16, 0, true},
		{"one past", 12, 5, false},
		{"offset past", 17, 0, false},
		{"negative offset", -1, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := cl.Len()
			got := cl.WriteBuffer(b, tt.offset, make([]byte, tt.n))
			if got != tt.want {
				t.Errorf("WriteBuffer(%d, %d bytes) = %v, want %v", tt.offset, tt.n, got, tt.want)
			}
			grew := cl.Len() - before
			if tt.want && grew != 1 || !tt.want && grew != 0 {
				t.Errorf("Len() grew by %d", grew)
			}
		})
	}

	if cl.WriteBuffer(Buffer{}, 0, []byte{1}) {
		t.Error("WriteBuffer(zero handle) = true, want false")
	}
}

func TestCommandListSnapshotsPayload(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	b := mustBuffer(t, dev, BufferData, 4)
	cl := dev.CreateCommandList()
	dev.StartRecording(cl)

	data := []byte{1, 2, 3, 4}
	cl.WriteBuffer(b, 0, data)
	copy(data, []byte{9, 9, 9, 9})

	w, ok := cl.Commands()[0].(WriteBufferCommand)
	if !ok {
		t.Fatalf("command 0 = %T, want WriteBufferCommand", cl.Commands()[0])
	}
	if !bytes.Equal(w.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("payload = %v, want [1 2 3 4]", w.Data)
	}
}

func TestCommandListCommandsCopiesPayload(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	b := mustBuffer(t, dev, BufferData, 4)
	cl := dev.CreateCommandList()
	dev.StartRecording(cl)
	cl.WriteBuffer(b, 0, []byte{1, 2, 3, 4})

	w := cl.Commands()[0].(WriteBufferCommand)
	copy(w.Data, []byte{9, 9, 9, 9})

	w = cl.Commands()[0].(WriteBufferCommand)
	if !bytes.Equal(w.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("payload after caller write = %v, want [1 2 3 4]", w.Data)
	}
}

func TestCommandListRectangles(t *testing.T) {
	tests := []struct {
		name                string
		x, y, width, height int
		want                image.Rectangle
	}{
		{"positive", 10, 10, 5, 4, image.Rect(10, 10, 15, 14)},
		{"negative width", 10, 10, -5, 4, image.Rect(10, 10, 10, 14)},
		{"negative height", 10, 10, 5, -4, image.Rect(10, 10, 15, 10)},
		{"zero", 3, 2, 0, 0, image.Rect(3, 2, 3, 2)},
	}
	dev, _ := newTestDevice(t, 4)
	cl := dev.CreateCommandList()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev.StartRecording(cl)
			cl.SetScissor(tt.x, tt.y, tt.width, tt.height)
			cl.SetViewport(tt.x, tt.y, tt.width, tt.height)
			cmds := cl.Commands()
			if got := cmds[0].(SetScissorCommand).Rect; got != tt.want {
				t.Errorf("scissor = %v, want %v", got, tt.want)
			}
			if got := cmds[1].(SetViewportCommand).Rect; got != tt.want {
				t.Errorf("viewport = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCommandListDestroyed(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	cl := dev.CreateCommandList()
	dev.DestroyCommandList(cl)

	dev.StartRecording(cl)
	cl.Draw(3, 1, 0, 0)
	cl.SetScissor(0, 0, 1, 1)
	if got := cl.Len(); got != 0 {
		t.Errorf("Len() of destroyed list = %d, want 0", got)
	}
}

func TestCommandListSnapshotsPipelineBuckets(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	p := mustPipeline(t, dev, testPipelineDesc())
	cl := dev.CreateCommandList()
	dev.StartRecording(cl)
	cl.BindPipeline(p)

	if _, err := p.BucketFormat(1); err != nil {
		t.Fatalf("BucketFormat(1) error = %v", err)
	}
	c := cl.Commands()[0].(BindPipelineCommand)
	if got := len(c.pipeline.buckets); got != 1 {
		t.Errorf("recorded bucket table has %d entries, want 1", got)
	}
}

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		typ  CommandType
		want string
	}{
		{CmdSetScissor, "SetScissor"},
		{CmdBindVertexBuffer, "BindVertexBuffer"},
		{CmdDrawIndexed, "DrawIndexed"},
		{CommandType(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestFits(t *testing.T) {
	tests := []struct {
		offset, n, size int
		want            bool
	}{
		{0, 0, 0, true},
		{0, 1, 0, false},
		{4, 4, 8, true},
		{4, 5, 8, false},
		{8, 0, 8, true},
		{-1, 0, 8, false},
		{0, -1, 8, false},
	}
	for _, tt := range tests {
		if got := fits(tt.offset, tt.n, tt.size); got != tt.want {
			t.Errorf("fits(%d, %d, %d) = %v, want %v", tt.offset, tt.n, tt.size, got, tt.want)
		}
	}
}

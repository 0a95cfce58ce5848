package gfxcmd

import (
	"errors"
	"image"
	"strings"
	"testing"
	"unsafe"

	"github.com/gogpu/gfxcmd/driver"
	"github.com/gogpu/gfxcmd/driver/trace"
)

// newTestDevice returns a device on a trace driver that reports
// bucketSize vertex bindings.
func newTestDevice(t *testing.T, bucketSize int, opts ...Option) (*Device, *trace.Driver) {
	t.Helper()
	drv := trace.New(trace.Config{MaxVertexBindings: bucketSize})
	dev, err := NewDevice(drv, opts...)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	t.Cleanup(func() { _ = dev.Close() })
	return dev, drv
}

type fakeSurface struct {
	current  int
	swaps    int
	interval int
}

func (s *fakeSurface) MakeContextCurrent()               { s.current++ }
func (s *fakeSurface) SwapBuffers()                      { s.swaps++ }
func (s *fakeSurface) SetSwapInterval(interval int)      { s.interval = interval }
func (s *fakeSurface) ProcAddress(string) unsafe.Pointer { return nil }

func TestNewDeviceNilDriver(t *testing.T) {
	if _, err := NewDevice(nil); !errors.Is(err, ErrNilDriver) {
		t.Errorf("NewDevice(nil) error = %v, want %v", err, ErrNilDriver)
	}
}

func TestNewDeviceBindsNullPipeline(t *testing.T) {
	dev, drv := newTestDevice(t, 4)

	null := dev.NullPipeline()
	if null == nil || !null.IsNull() {
		t.Fatal("NullPipeline() is not the null pipeline")
	}
	if got := drv.State().VertexFormat; got != null.buckets[0] {
		t.Errorf("bound vertex format = %d, want null bucket 0 (%d)", got, null.buckets[0])
	}
	if got := drv.State().Indirect; got != dev.indirect {
		t.Errorf("indirect buffer = %d, want %d", got, dev.indirect)
	}
	if got := dev.BucketSize(); got != 4 {
		t.Errorf("BucketSize() = %d, want 4", got)
	}
}

func TestDeviceBucketSizeOption(t *testing.T) {
	dev, _ := newTestDevice(t, 16, WithBucketSize(2))
	if got := dev.BucketSize(); got != 2 {
		t.Errorf("BucketSize() = %d, want 2", got)
	}
}

func TestDeviceIndirectBufferMinimum(t *testing.T) {
	dev, drv := newTestDevice(t, 4, WithIndirectBufferSize(1))
	data, ok := drv.BufferData(dev.indirect)
	if !ok {
		t.Fatal("indirect buffer not created")
	}
	if len(data) < drawIndexedArgsSize {
		t.Errorf("indirect buffer size = %d, want >= %d", len(data), drawIndexedArgsSize)
	}
}

func TestDeviceInfo(t *testing.T) {
	dev, _ := newTestDevice(t, 8)
	info := dev.Info()

	if info.Driver != trace.Name {
		t.Errorf("Info().Driver = %q, want %q", info.Driver, trace.Name)
	}
	if info.MaxVertexBindings != 8 {
		t.Errorf("Info().MaxVertexBindings = %d, want 8", info.MaxVertexBindings)
	}
	for _, f := range []ShaderFormat{ShaderSPIRV, ShaderGLSL, ShaderWGSL} {
		if !info.SupportsShaderFormat(f) {
			t.Errorf("SupportsShaderFormat(%s) = false, want true", f)
		}
	}
	if info.SupportsShaderFormat(ShaderFormat(42)) {
		t.Error("SupportsShaderFormat(42) = true, want false")
	}
}

func TestDeviceClose(t *testing.T) {
	drv := trace.New(trace.Config{MaxVertexBindings: 4})
	dev, err := NewDevice(drv)
	if err != nil {
		t.Fatalf("NewDevice() error = %v", err)
	}
	b, err := dev.CreateBuffer(BufferDesc{Type: BufferVertex, Size: 64})
	if err != nil {
		t.Fatalf("CreateBuffer() error = %v", err)
	}
	native := dev.BufferNative(b)
	if _, err := dev.CreatePipeline(PipelineDesc{Primitive: PrimitiveTriangles}); err != nil {
		t.Fatalf("CreatePipeline() error = %v", err)
	}

	if err := dev.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !drv.Closed() {
		t.Error("driver not closed")
	}
	if drv.HasBuffer(native) {
		t.Error("buffer storage survived Close")
	}
	if got := drv.LiveVertexFormats(); got != 0 {
		t.Errorf("LiveVertexFormats() = %d, want 0", got)
	}
	if err := dev.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if _, err := dev.CreateBuffer(BufferDesc{Size: 4}); !errors.Is(err, ErrClosed) {
		t.Errorf("CreateBuffer() after Close error = %v, want %v", err, ErrClosed)
	}
	if err := dev.Submit(dev.CreateCommandList()); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit() after Close error = %v, want %v", err, ErrClosed)
	}
	// Handles from before Close are dead.
	dev.DestroyBuffer(b)
}

func TestDeviceFrameAPI(t *testing.T) {
	s := &fakeSurface{}
	dev, drv := newTestDevice(t, 4, WithSurface(s))

	if err := dev.Vsync(true); err != nil {
		t.Fatalf("Vsync(true) error = %v", err)
	}
	if s.interval != 1 {
		t.Errorf("swap interval = %d, want 1", s.interval)
	}
	if err := dev.Vsync(false); err != nil {
		t.Fatalf("Vsync(false) error = %v", err)
	}
	if s.interval != 0 {
		t.Errorf("swap interval = %d, want 0", s.interval)
	}

	if err := dev.Prepare(); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if s.current != 1 {
		t.Errorf("MakeContextCurrent calls = %d, want 1", s.current)
	}
	if err := dev.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if s.swaps != 1 {
		t.Errorf("SwapBuffers calls = %d, want 1", s.swaps)
	}

	if err := dev.Mode(640, 480); err != nil {
		t.Fatalf("Mode() error = %v", err)
	}
	if got := drv.Size(); got != image.Pt(640, 480) {
		t.Errorf("driver size = %v, want (640,480)", got)
	}
	if w, h := dev.Size(); w != 640 || h != 480 {
		t.Errorf("Size() = %d,%d, want 640,480", w, h)
	}
	if err := dev.Mode(0, 480); !errors.Is(err, ErrInvalidDescriptor) {
		t.Errorf("Mode(0, 480) error = %v, want %v", err, ErrInvalidDescriptor)
	}
}

func TestDeviceWithoutSurface(t *testing.T) {
	dev, _ := newTestDevice(t, 4)
	if err := dev.Present(); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Present() error = %v, want %v", err, ErrNoSurface)
	}
	if err := dev.Vsync(true); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Vsync() error = %v, want %v", err, ErrNoSurface)
	}
	if err := dev.Prepare(); err != nil {
		t.Errorf("Prepare() error = %v", err)
	}
}

func TestOpenDevice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = trace.Name
	cfg.BucketSize = 3
	cfg.Width, cfg.Height = 320, 200
	s := &fakeSurface{interval: -1}

	dev, err := OpenDevice(cfg, WithSurface(s))
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	defer dev.Close()

	if got := dev.BucketSize(); got != 3 {
		t.Errorf("BucketSize() = %d, want 3", got)
	}
	if w, h := dev.Size(); w != 320 || h != 200 {
		t.Errorf("Size() = %d,%d, want 320,200", w, h)
	}
	if s.interval != 1 {
		t.Errorf("swap interval = %d, want 1 (vsync on by default)", s.interval)
	}
	if got := dev.Driver().Info().Name; got != trace.Name {
		t.Errorf("driver = %q, want %q", got, trace.Name)
	}
}

func TestOpenDeviceUnknownDriver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = "no-such-driver"
	_, err := OpenDevice(cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("OpenDevice() error = %v, want %v", err, ErrInvalidConfig)
	}
	if !errors.Is(err, driver.ErrUnknownDriver) {
		t.Errorf("OpenDevice() error = %v, want %v", err, driver.ErrUnknownDriver)
	}
}

func TestOpenDeviceForwardsDriverMessages(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Driver = trace.Name
	var msgs []DebugMessage
	dev, err := OpenDevice(cfg, WithDebugCallback(func(m DebugMessage) { msgs = append(msgs, m) }))
	if err != nil {
		t.Fatalf("OpenDevice() error = %v", err)
	}
	defer dev.Close()

	_, err = dev.CreateShader(ShaderDesc{Stage: StageVertex, Format: ShaderGLSL, Source: "#error broken\n"})
	if !errors.Is(err, ErrShaderCompile) {
		t.Fatalf("CreateShader() error = %v, want %v", err, ErrShaderCompile)
	}

	var fromDriver bool
	for _, m := range msgs {
		if m.Level == DebugError && strings.Contains(m.Text, "#error directive") {
			fromDriver = true
		}
	}
	if !fromDriver {
		t.Errorf("debug messages = %v, want the driver's compile error", msgs)
	}
}

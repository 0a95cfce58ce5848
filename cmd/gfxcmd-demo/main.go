// Command gfxcmd-demo records a frame into a command list and plays it back.
//
// The driver comes from a TOML config file. When the configured driver
// cannot be opened the demo falls back to the headless trace driver, renders
// one frame and logs the driver calls it produced.
//
//	gfxcmd-demo -config demo.toml -frames 120
package main

import (
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/gogpu/gfxcmd"
	_ "github.com/gogpu/gfxcmd/driver/halgpu"
	"github.com/gogpu/gfxcmd/driver/trace"
	"github.com/gogpu/gfxcmd/shaderwatch"
)

var errNoWindow = errors.New("driver does not present to a window")

func init() {
	// GLFW and OpenGL calls must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		driverName = flag.String("driver", "", "driver override")
		frames     = flag.Int("frames", 60, "frames to render")
	)
	flag.Parse()

	if err := run(*configPath, *driverName, *frames); err != nil {
		fmt.Fprintln(os.Stderr, "gfxcmd-demo:", err)
		os.Exit(1)
	}
}

func loadConfig(path, driverName string) (gfxcmd.DeviceConfig, error) {
	cfg := gfxcmd.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = gfxcmd.LoadConfig(path); err != nil {
			return cfg, err
		}
	}
	if driverName != "" {
		cfg.Driver = driverName
	}
	return cfg, nil
}

func run(configPath, driverName string, frames int) error {
	cfg, err := loadConfig(configPath, driverName)
	if err != nil {
		return err
	}
	log := gfxcmd.NewConsoleLogger(os.Stderr, gfxcmd.ParseLevel(cfg.LogLevel))
	gfxcmd.SetLogger(log)

	onDebug := gfxcmd.WithDebugCallback(func(m gfxcmd.DebugMessage) {
		log.Debug("driver message", "level", m.Level, "text", m.Text)
	})

	var win window
	dev, err := openWindowed(cfg, &win, onDebug)
	if errors.Is(err, errNoWindow) {
		dev, err = gfxcmd.OpenDevice(cfg, onDebug)
	}
	if err != nil {
		log.Warn("driver unavailable, using trace", "driver", cfg.Driver, "err", err)
		cfg.Driver = trace.Name
		dev, err = gfxcmd.OpenDevice(cfg, onDebug)
		if err != nil {
			return err
		}
		frames = 1
	}
	defer func() {
		if err := dev.Close(); err != nil {
			log.Error("close device", "err", err)
		}
		if win != nil {
			_ = win.Close()
		}
	}()

	info := dev.Info()
	log.Info("device ready", "driver", info.Name, "renderer", info.Renderer,
		"glsl", info.SupportsShaderFormat(gfxcmd.ShaderGLSL),
		"spirv", info.SupportsShaderFormat(gfxcmd.ShaderSPIRV))

	sc, err := newScene(dev)
	if err != nil {
		return err
	}

	var watch *shaderwatch.Watcher
	reload := shaderwatch.NewReloader(dev)
	if cfg.ShaderDir != "" {
		if watch, err = shaderwatch.New(cfg.ShaderDir, log); err != nil {
			return err
		}
		defer watch.Close()
	}

	cl := dev.CreateCommandList()
	defer dev.DestroyCommandList(cl)

	for frame := 0; frame < frames; frame++ {
		if win != nil && !win.Poll() {
			break
		}
		if watch != nil {
			drainReloads(log, watch, reload)
		}
		if err := dev.Prepare(); err != nil {
			return err
		}
		sc.record(dev, cl, frame)
		if err := dev.Submit(cl); err != nil {
			return err
		}
		if win != nil {
			if err := dev.Present(); err != nil {
				return err
			}
		}
	}

	if drv, ok := dev.Driver().(*trace.Driver); ok {
		for _, call := range drv.Calls() {
			log.Info("trace", "call", call)
		}
	}
	return nil
}

func drainReloads(log *slog.Logger, w *shaderwatch.Watcher, r *shaderwatch.Reloader) {
	for {
		select {
		case ev := <-w.Events():
			if _, err := r.Apply(ev); err != nil {
				log.Warn("shader reload failed", "err", err)
				continue
			}
			log.Info("shader reloaded", "path", ev.Path)
		case err := <-w.Errors():
			log.Warn("shader watch", "err", err)
		default:
			return
		}
	}
}

// scene holds the resources the demo frame draws with.
type scene struct {
	pipeline *gfxcmd.Pipeline
	vertices gfxcmd.Buffer
	uniforms gfxcmd.Buffer
	texture  gfxcmd.Texture
	sampler  gfxcmd.Sampler
}

// vertex is {x, y, z float32, r, g, b, a uint8}.
const vertexStride = 16

func triangle() []byte {
	pos := [3][3]float32{{-0.5, -0.5, 0}, {0.5, -0.5, 0}, {0, 0.5, 0}}
	col := [3][4]uint8{{255, 0, 0, 255}, {0, 255, 0, 255}, {0, 0, 255, 255}}
	buf := make([]byte, 0, 3*vertexStride)
	for i := range pos {
		for _, f := range pos[i] {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
		buf = append(buf, col[i][:]...)
	}
	return buf
}

func checkerboard(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/8+y/8)%2 == 0 {
				img.Set(x, y, color.NRGBA{R: 230, G: 230, B: 230, A: 255})
			} else {
				img.Set(x, y, color.NRGBA{R: 40, G: 40, B: 40, A: 255})
			}
		}
	}
	return img
}

func newScene(dev *gfxcmd.Device) (*scene, error) {
	var (
		sc  scene
		err error
	)
	sc.pipeline, err = dev.CreatePipeline(gfxcmd.PipelineDesc{
		Primitive:    gfxcmd.PrimitiveTriangles,
		IndexType:    gfxcmd.Index16,
		VertexStride: vertexStride,
		Attribs: []gfxcmd.VertexAttrib{
			{ID: 0, Type: gfxcmd.AttribFloat32, Count: 3},
			{ID: 1, Type: gfxcmd.AttribUint8, Count: 4, Offset: 12, Normalized: true},
		},
	})
	if err != nil {
		return nil, err
	}
	if sc.vertices, err = dev.CreateBuffer(gfxcmd.BufferDesc{Type: gfxcmd.BufferVertex, Size: 3 * vertexStride, Data: triangle()}); err != nil {
		return nil, err
	}
	if sc.uniforms, err = dev.CreateBuffer(gfxcmd.BufferDesc{Type: gfxcmd.BufferData, Size: 16}); err != nil {
		return nil, err
	}
	if sc.texture, err = dev.UploadImage(checkerboard(64), gfxcmd.ImageOptions{Mipmaps: true}); err != nil {
		return nil, err
	}
	sd := gfxcmd.DefaultSamplerDesc()
	sd.Flags |= gfxcmd.SamplerFilter | gfxcmd.SamplerClampS | gfxcmd.SamplerClampT
	if sc.sampler, err = dev.CreateSampler(sd); err != nil {
		return nil, err
	}
	return &sc, nil
}

func (sc *scene) record(dev *gfxcmd.Device, cl *gfxcmd.CommandList, frame int) {
	w, h := dev.Size()
	t := float32(frame) / 60

	tint := make([]byte, 0, 16)
	for _, f := range [4]float32{1, 1, 1, 0.5 + 0.5*float32(math.Sin(float64(t)))} {
		tint = binary.LittleEndian.AppendUint32(tint, math.Float32bits(f))
	}

	dev.StartRecording(cl)
	cl.SetViewport(0, 0, w, h)
	cl.SetClearColor3f(0.1, 0.1, 0.15)
	cl.SetClearDepth(1)
	cl.Clear(gfxcmd.TargetColor | gfxcmd.TargetDepth)
	cl.WriteBuffer(sc.uniforms, 0, tint)
	cl.BindPipeline(sc.pipeline)
	cl.BindVertexBuffer(sc.vertices)
	cl.BindUniformBuffer(sc.uniforms, 0)
	cl.BindTexture(sc.texture, 0)
	cl.BindSampler(sc.sampler, 0)
	cl.Draw(3, 1, 0, 0)
}

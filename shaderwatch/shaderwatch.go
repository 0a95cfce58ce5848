// Package shaderwatch reloads shader sources when they change on disk.
//
// File names select the stage and the encoding: "name.vert.glsl",
// "name.frag.wgsl" and "name.vert.spv" are recognized, as are the bare GLSL
// suffixes ".vert" and ".frag". Other files are ignored.
package shaderwatch

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/gfxcmd"
)

// Errors returned by the package.
var (
	ErrNotShader = errors.New("shaderwatch: not a shader file")
	ErrClosed    = errors.New("shaderwatch: watcher closed")
)

// Classify derives the stage and encoding of a shader file from its name.
func Classify(path string) (gfxcmd.ShaderStage, gfxcmd.ShaderFormat, bool) {
	name := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(name)

	format := gfxcmd.ShaderGLSL
	switch ext {
	case ".vert":
		return gfxcmd.StageVertex, gfxcmd.ShaderGLSL, true
	case ".frag":
		return gfxcmd.StageFragment, gfxcmd.ShaderGLSL, true
	case ".glsl":
	case ".wgsl":
		format = gfxcmd.ShaderWGSL
	case ".spv":
		format = gfxcmd.ShaderSPIRV
	default:
		return 0, 0, false
	}
	switch filepath.Ext(strings.TrimSuffix(name, ext)) {
	case ".vert":
		return gfxcmd.StageVertex, format, true
	case ".frag":
		return gfxcmd.StageFragment, format, true
	}
	return 0, 0, false
}

// Load reads a shader file into a descriptor.
func Load(path string) (gfxcmd.ShaderDesc, error) {
	stage, format, ok := Classify(path)
	if !ok {
		return gfxcmd.ShaderDesc{}, fmt.Errorf("%w: %s", ErrNotShader, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return gfxcmd.ShaderDesc{}, fmt.Errorf("shaderwatch: %w", err)
	}
	desc := gfxcmd.ShaderDesc{Stage: stage, Format: format}
	if format == gfxcmd.ShaderSPIRV {
		desc.Code = data
	} else {
		desc.Source = string(data)
	}
	return desc, nil
}

// Event reports a changed shader file.
type Event struct {
	Path string
	Desc gfxcmd.ShaderDesc
}

// Watcher watches one directory for shader changes.
type Watcher struct {
	fs     *fsnotify.Watcher
	log    *slog.Logger
	events chan Event
	errors chan error
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New starts watching dir. A nil logger selects gfxcmd.Logger().
func New(dir string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = gfxcmd.Logger()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shaderwatch: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("shaderwatch: watch %s: %w", dir, err)
	}
	w := &Watcher{
		fs:     fsw,
		log:    logger.With("dir", dir),
		events: make(chan Event),
		errors: make(chan error),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	w.log.Info("shaderwatch: watching")
	return w, nil
}

// Events returns the channel of changed shaders. It is closed by Close.
func (w *Watcher) Events() <-chan Event { return w.events }

// Errors returns the channel of watch and load errors. It is closed by
// Close.
func (w *Watcher) Errors() <-chan error { return w.errors }

func (w *Watcher) run() {
	defer w.wg.Done()
	defer close(w.errors)
	defer close(w.events)

	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, _, ok := Classify(e.Name); !ok {
				continue
			}
			desc, err := Load(e.Name)
			if err != nil {
				w.log.Warn("shaderwatch: load failed", "path", e.Name, "err", err)
				if !w.send(nil, err) {
					return
				}
				continue
			}
			w.log.Debug("shaderwatch: changed", "path", e.Name, "op", e.Op.String())
			if !w.send(&Event{Path: e.Name, Desc: desc}, nil) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Error("shaderwatch: watch error", "err", err)
			if !w.send(nil, err) {
				return
			}
		case <-w.done:
			return
		}
	}
}

// send delivers an event or an error, or gives up when the watcher closes.
func (w *Watcher) send(ev *Event, err error) bool {
	if ev != nil {
		select {
		case w.events <- *ev:
			return true
		case <-w.done:
			return false
		}
	}
	select {
	case w.errors <- err:
		return true
	case <-w.done:
		return false
	}
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := ErrClosed
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

// Reloader replaces shaders on a device as their files change. Pipelines
// linked from the old shader keep working; new pipelines pick up the
// replacement from Shader.
type Reloader struct {
	dev     *gfxcmd.Device
	shaders map[string]gfxcmd.Shader
}

// NewReloader returns a reloader for dev.
func NewReloader(dev *gfxcmd.Device) *Reloader {
	return &Reloader{dev: dev, shaders: make(map[string]gfxcmd.Shader)}
}

// Apply compiles the shader of ev. On success the previous shader of the
// same path is destroyed; on failure it stays current.
func (r *Reloader) Apply(ev Event) (gfxcmd.Shader, error) {
	s, err := r.dev.CreateShader(ev.Desc)
	if err != nil {
		return r.shaders[ev.Path], fmt.Errorf("shaderwatch: reload %s: %w", ev.Path, err)
	}
	if old, ok := r.shaders[ev.Path]; ok {
		r.dev.DestroyShader(old)
	}
	r.shaders[ev.Path] = s
	return s, nil
}

// Shader returns the current shader compiled from path.
func (r *Reloader) Shader(path string) (gfxcmd.Shader, bool) {
	s, ok := r.shaders[path]
	return s, ok
}

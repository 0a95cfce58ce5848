//go:build !nogl

// Package glfwsurface opens a GLFW window with an OpenGL 4.6 core context
// and exposes it as a gfxcmd surface.
//
// GLFW must be driven from the main OS thread. Call runtime.LockOSThread in
// an init function of package main before calling Open.
package glfwsurface

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// ErrClosed is returned when a closed window is used.
var ErrClosed = errors.New("glfwsurface: window closed")

// Config configures the window.
type Config struct {
	Title         string
	Width, Height int
	Resizable     bool
	// Debug requests an OpenGL debug context.
	Debug bool
	// Samples is the MSAA sample count of the default framebuffer.
	Samples int
}

func (c *Config) defaults() {
	if c.Title == "" {
		c.Title = "gfxcmd"
	}
	if c.Width <= 0 {
		c.Width = 1280
	}
	if c.Height <= 0 {
		c.Height = 720
	}
}

// Surface is a GLFW window that owns an OpenGL context.
type Surface struct {
	win    *glfw.Window
	resize func(width, height int)
}

// Open initializes GLFW and creates the window. The context is current on
// return.
func Open(cfg Config) (*Surface, error) {
	cfg.defaults()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfwsurface: init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))
	glfw.WindowHint(glfw.OpenGLDebugContext, boolHint(cfg.Debug))
	glfw.WindowHint(glfw.Samples, cfg.Samples)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glfwsurface: create window: %w", err)
	}
	s := &Surface{win: win}
	win.MakeContextCurrent()
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		if s.resize != nil {
			s.resize(width, height)
		}
	})
	return s, nil
}

func boolHint(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// MakeContextCurrent makes the window's context current on the calling
// thread.
func (s *Surface) MakeContextCurrent() {
	if s.win != nil {
		s.win.MakeContextCurrent()
	}
}

// SwapBuffers presents the back buffer.
func (s *Surface) SwapBuffers() {
	if s.win != nil {
		s.win.SwapBuffers()
	}
}

// SetSwapInterval sets the number of vertical blanks to wait for in
// SwapBuffers. The context must be current.
func (s *Surface) SetSwapInterval(interval int) { glfw.SwapInterval(interval) }

// ProcAddress resolves an OpenGL entry point of the current context.
func (s *Surface) ProcAddress(name string) unsafe.Pointer { return glfw.GetProcAddress(name) }

// FramebufferSize returns the size of the default framebuffer in pixels.
func (s *Surface) FramebufferSize() (width, height int) {
	if s.win == nil {
		return 0, 0
	}
	return s.win.GetFramebufferSize()
}

// OnResize registers fn to be called with the new framebuffer size.
func (s *Surface) OnResize(fn func(width, height int)) { s.resize = fn }

// Poll processes pending window events and reports whether the window
// should stay open.
func (s *Surface) Poll() bool {
	if s.win == nil {
		return false
	}
	glfw.PollEvents()
	return !s.win.ShouldClose()
}

// Close destroys the window and terminates GLFW.
func (s *Surface) Close() error {
	if s.win == nil {
		return ErrClosed
	}
	s.win.Destroy()
	s.win = nil
	glfw.Terminate()
	return nil
}

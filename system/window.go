// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package system

import (
	"fmt"
	"image"
	"log/slog"

	"cogentcore.org/gltut/events"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Options are the options for [NewWindow].
type Options struct {
	// Size is the window size in screen coordinates.
	Size image.Point

	// Title is the window title.
	Title string

	// Resizable allows the user to resize the window.
	Resizable bool

	// GLMajor and GLMinor are the requested OpenGL core
	// profile version.
	GLMajor, GLMinor int

	// VSync synchronizes buffer swaps with the display refresh.
	VSync bool
}

// Window is a glfw window with a current OpenGL context. Key input
// is delivered as [events.Key] on its event queue.
type Window struct {
	Glw   *glfw.Window
	queue *events.Queue
}

// NewWindow creates a new window with an OpenGL core profile,
// forward compatible context of the requested version, and makes
// the context current.
func NewWindow(opts Options) (*Window, error) {
	if opts.Size.X <= 0 || opts.Size.Y <= 0 {
		return nil, fmt.Errorf("system.NewWindow: invalid size %v", opts.Size)
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ContextVersionMajor, opts.GLMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, opts.GLMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfwBool(opts.Resizable))

	glw, err := glfw.CreateWindow(opts.Size.X, opts.Size.Y, opts.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("system.NewWindow: creating glfw window: %w", err)
	}
	glw.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}
	w := &Window{Glw: glw, queue: events.NewQueue()}
	glw.SetKeyCallback(w.KeyEvent)
	slog.Debug("system window", "title", opts.Title, "size", opts.Size, "gl", fmt.Sprintf("%d.%d", opts.GLMajor, opts.GLMinor))
	return w, nil
}

func glfwBool(b bool) int {
	if b {
		return glfw.True
	}
	return glfw.False
}

// Events returns the queue that window events are sent to.
func (w *Window) Events() *events.Queue {
	return w.queue
}

// ShouldClose reports whether the window has been asked to close.
func (w *Window) ShouldClose() bool {
	return w.Glw.ShouldClose()
}

// SetShouldClose sets whether the window should close.
func (w *Window) SetShouldClose(close bool) {
	w.Glw.SetShouldClose(close)
}

// PollEvents processes pending window system events, which calls
// the input callbacks.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

// SwapBuffers presents the rendered frame.
func (w *Window) SwapBuffers() {
	w.Glw.SwapBuffers()
}

// FramebufferSize returns the size of the framebuffer in pixels,
// which differs from the window size on high DPI displays.
func (w *Window) FramebufferSize() image.Point {
	x, y := w.Glw.GetFramebufferSize()
	return image.Pt(x, y)
}

// Destroy destroys the window and its context.
func (w *Window) Destroy() {
	if w.Glw == nil {
		return
	}
	w.Glw.Destroy()
	w.Glw = nil
}

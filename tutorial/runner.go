// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tutorial runs a tutorial stage in a render loop, or checks
// stages against the software driver without a window.
package tutorial

import (
	"image"
	"log/slog"
	"time"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/events"
	"cogentcore.org/gltut/events/key"
	"cogentcore.org/gltut/stages"
)

// Surface is the window that the loop renders into.
// It is implemented by [system.Window].
type Surface interface {
	ShouldClose() bool
	SetShouldClose(close bool)
	PollEvents()
	SwapBuffers()
	FramebufferSize() image.Point
	Events() *events.Queue
}

// fpsInterval is how often the frame rate is logged.
const fpsInterval = 10 * time.Second

// Runner runs the render loop of one stage in a [Surface].
type Runner struct {
	// Surface is the window rendered into.
	Surface Surface

	// Env is the environment the stage is initialized with.
	Env *stages.Env

	// Stage is the running stage. It is replaced on a successful rebuild.
	Stage stages.Stage

	// MaxFrames stops the loop after that many frames; 0 runs until
	// the surface is closed.
	MaxFrames int

	// Now returns the current time; it defaults to [time.Now].
	Now func() time.Time

	// Frames is the number of frames rendered so far.
	Frames int

	started   bool
	start     time.Time
	size      image.Point
	fpsStart  time.Time
	fpsFrames int
}

// NewRunner returns a new runner for the given uninitialized stage.
func NewRunner(sf Surface, env *stages.Env, st stages.Stage) *Runner {
	return &Runner{Surface: sf, Env: env, Stage: st, MaxFrames: env.Config.Render.Frames, Now: time.Now}
}

// Start sets the viewport to the framebuffer and initializes the
// stage. It is called by [Runner.Run] if needed.
func (r *Runner) Start() error {
	if r.Now == nil {
		r.Now = time.Now
	}
	r.resize()
	if err := r.Stage.Init(r.Env); err != nil {
		return err
	}
	if err := r.Env.Ctx.CheckError("init " + r.Stage.Name()); err != nil {
		return err
	}
	r.started = true
	r.start = r.Now()
	r.fpsStart = r.start
	slog.Info("tutorial start", "stage", r.Stage.Name(), "size", r.size)
	return nil
}

// Run renders frames until the surface is closed or [Runner.MaxFrames]
// is reached, and then releases the stage.
func (r *Runner) Run() error {
	defer r.Release()
	if !r.started {
		if err := r.Start(); err != nil {
			return err
		}
	}
	for !r.Surface.ShouldClose() {
		if r.MaxFrames > 0 && r.Frames >= r.MaxFrames {
			break
		}
		if err := r.Frame(); err != nil {
			return err
		}
	}
	slog.Info("tutorial stop", "stage", r.Stage.Name(), "frames", r.Frames)
	return nil
}

// Frame renders one frame: it handles pending events, updates and
// draws the stage, logs any driver errors, and swaps buffers.
// Nothing is drawn once the surface has been asked to close.
func (r *Runner) Frame() error {
	r.Surface.PollEvents()
	rebuild := r.handleEvents()
	if r.Surface.ShouldClose() {
		return nil
	}
	if rebuild {
		r.Rebuild()
	}
	r.resize()

	r.Stage.Update(float32(r.Now().Sub(r.start).Seconds()))
	if err := r.Stage.Draw(); err != nil {
		return err
	}
	r.Env.Ctx.CheckError("draw " + r.Stage.Name())
	r.Surface.SwapBuffers()
	r.Frames++
	r.logFPS()
	return nil
}

// handleEvents drains the event queue and reports whether the
// stage should be rebuilt.
func (r *Runner) handleEvents() bool {
	rebuild := false
	for _, ev := range r.Surface.Events().Drain() {
		switch ev := ev.(type) {
		case *events.Key:
			switch {
			case ev.Pressed(key.CodeEscape), ev.Pressed(key.CodeQ):
				r.Surface.SetShouldClose(true)
			case ev.Pressed(key.CodeR):
				rebuild = true
			}
		case *events.Shader:
			slog.Info("tutorial shader changed", "file", ev.Name)
			rebuild = true
		}
	}
	return rebuild
}

// Rebuild replaces the stage with a newly initialized one of the same
// name, which reloads its shaders and assets. If that fails the error
// is logged and the current stage keeps running.
func (r *Runner) Rebuild() {
	name := r.Stage.Name()
	st, err := stages.New(name)
	if errors.Log(err) != nil {
		return
	}
	if err := st.Init(r.Env); err != nil {
		st.Release()
		slog.Error("tutorial rebuild failed, keeping the current stage", "stage", name, "err", err)
		return
	}
	r.Stage.Release()
	r.Stage = st
	slog.Info("tutorial rebuilt", "stage", name)
}

// resize updates the viewport when the framebuffer size changes.
func (r *Runner) resize() {
	sz := r.Surface.FramebufferSize()
	if sz == r.size {
		return
	}
	r.size = sz
	r.Env.Size = sz
	r.Env.Ctx.Viewport(0, 0, sz.X, sz.Y)
	if rs, ok := r.Stage.(stages.Resizer); ok && r.started {
		rs.Resize(sz)
	}
	slog.Debug("tutorial resize", "size", sz)
}

func (r *Runner) logFPS() {
	r.fpsFrames++
	now := r.Now()
	dur := now.Sub(r.fpsStart)
	if dur < fpsInterval {
		return
	}
	fps := float64(r.fpsFrames) / dur.Seconds()
	slog.Debug("tutorial", "fps", int(fps+0.5))
	r.fpsFrames = 0
	r.fpsStart = now
}

// Release releases the stage. It is safe to call more than once.
func (r *Runner) Release() {
	if r.Stage != nil {
		r.Stage.Release()
	}
	r.Env.Ctx.Release()
}

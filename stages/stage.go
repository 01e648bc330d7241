// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stages contains the tutorial stages, each of which sets up
// a small shader program and vertex data and draws one shape, from a
// plain context check up to a textured rotating cube.
package stages

import (
	"image"

	"cogentcore.org/gltut/config"
	"cogentcore.org/gltut/gpu"
)

// Stage is one tutorial stage.
//
// Init creates all of the GPU resources of the stage, Update is
// called once per frame with the seconds elapsed since the render
// loop started, Draw renders the frame, and Release deletes every
// resource that Init created. Release is also called after a failed
// Init, and must be safe to call more than once.
type Stage interface {
	Name() string
	Init(env *Env) error
	Update(t float32)
	Draw() error
	Release()
}

// Resizer is implemented by stages that depend on the framebuffer size.
type Resizer interface {
	Resize(size image.Point)
}

// Env is the environment a [Stage] is initialized in.
type Env struct {
	// Ctx is the graphics context to create resources in.
	Ctx *gpu.Context

	// Config is the tool configuration.
	Config *config.Config

	// Shaders loads the shader sources.
	Shaders *Shaders

	// Size is the framebuffer size in pixels.
	Size image.Point
}

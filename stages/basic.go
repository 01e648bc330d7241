// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stages

import (
	"fmt"
	"log/slog"

	"cogentcore.org/gltut/gpu"
	"github.com/chewxy/math32"
)

func init() {
	Register(Info{Name: "context", Order: 0, Doc: "creates the context and one buffer, and clears the window", New: func() Stage { return &contextStage{} }})
	Register(Info{Name: "triangle", Order: 1, Doc: "a white triangle", New: func() Stage { return &triangle{mesh: mesh{name: "triangle"}} }})
	Register(Info{Name: "uniform", Order: 2, Doc: "a triangle colored by a time-varying uniform", New: func() Stage { return &uniformTriangle{mesh: mesh{name: "uniform"}} }})
	Register(Info{Name: "colored", Order: 3, Doc: "a triangle with per-vertex colors", New: func() Stage { return &colored{mesh: mesh{name: "colored"}} }})
	Register(Info{Name: "elements", Order: 4, Doc: "a rectangle drawn from an element buffer", New: func() Stage { return &elements{mesh: mesh{name: "elements"}} }})
}

// contextStage checks that the context works by creating one
// buffer object, and then only clears the window each frame.
type contextStage struct {
	env *Env
	buf *gpu.Buffer
}

func (st *contextStage) Name() string { return "context" }

func (st *contextStage) Init(env *Env) error {
	st.env = env
	cc := env.Config.Render.ClearColor
	env.Ctx.ClearColor(cc[0], cc[1], cc[2], cc[3])
	buf, err := env.Ctx.NewVertexBuffer([]float32{0, 0, 0}, gpu.StaticDraw)
	if err != nil {
		return fmt.Errorf("stages.context: creating a buffer: %w", err)
	}
	st.buf = buf
	slog.Info("stages context", "version", env.Ctx.Version(), "buffer", buf.Handle())
	// on a fresh context the first buffer name is 1
	if buf.Handle() != 1 {
		slog.Debug("stages context: first buffer is not 1, the context already has buffers", "buffer", buf.Handle())
	}
	return nil
}

func (st *contextStage) Update(t float32) {}

func (st *contextStage) Draw() error {
	st.env.Ctx.Clear(gpu.ColorBuffer)
	return nil
}

func (st *contextStage) Release() {
	if st.buf != nil {
		st.buf.Delete()
		st.buf = nil
	}
}

type triangle struct {
	mesh
}

func (st *triangle) Init(env *Env) error {
	verts := []float32{
		0.0, 0.5,
		0.5, -0.5,
		-0.5, -0.5,
	}
	return st.build(env, "triangle", verts, []attrib{{"position", 2}}, nil)
}

// uniformTriangle is a triangle whose red channel pulses with time.
type uniformTriangle struct {
	mesh
	color *gpu.Uniform
	red   float32
}

func (st *uniformTriangle) Init(env *Env) error {
	verts := []float32{
		0.0, 0.5,
		0.5, -0.5,
		-0.5, -0.5,
	}
	if err := st.build(env, "uniform", verts, []attrib{{"position", 2}}, nil); err != nil {
		return err
	}
	var err error
	st.color, err = st.prog.Uniform("triangleColor")
	return err
}

func (st *uniformTriangle) Update(t float32) {
	st.red = (math32.Sin(t*4) + 1) / 2
}

func (st *uniformTriangle) Draw() error {
	if err := st.bind(); err != nil {
		return err
	}
	if err := st.color.Set3f(st.red, 0, 0); err != nil {
		return err
	}
	return st.env.Ctx.DrawArrays(gpu.Triangles, 0, st.count)
}

type colored struct {
	mesh
}

func (st *colored) Init(env *Env) error {
	verts := []float32{
		0.0, 0.5, 1.0, 0.0, 0.0, // top: red
		0.5, -0.5, 0.0, 1.0, 0.0, // right: green
		-0.5, -0.5, 0.0, 0.0, 1.0, // left: blue
	}
	return st.build(env, "colored", verts, []attrib{{"position", 2}, {"color", 3}}, nil)
}

type elements struct {
	mesh
}

func (st *elements) Init(env *Env) error {
	verts := []float32{
		-0.5, 0.5, 1.0, 0.0, 0.0, // top left
		0.5, 0.5, 0.0, 1.0, 0.0, // top right
		0.5, -0.5, 0.0, 0.0, 1.0, // bottom right
		-0.5, -0.5, 1.0, 1.0, 1.0, // bottom left
	}
	indices := []uint32{
		0, 1, 2,
		2, 3, 0,
	}
	return st.build(env, "colored", verts, []attrib{{"position", 2}, {"color", 3}}, indices)
}

// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stages

import (
	"fmt"
	"log/slog"

	"cogentcore.org/gltut/base/iox/imagex"
	"cogentcore.org/gltut/gpu"
)

// attrib is one vertex attribute in an interleaved vertex layout.
type attrib struct {
	name string
	size int
}

// mesh holds the GPU resources of a stage that draws one shape
// with one program, and implements the common parts of [Stage].
type mesh struct {
	name  string
	env   *Env
	prog  *gpu.Program
	vao   *gpu.VertexArray
	vbo   *gpu.Buffer
	ebo   *gpu.Buffer
	texs  []*gpu.Texture
	count int
	clear gpu.ClearBits
}

func (m *mesh) Name() string { return m.name }

func (m *mesh) Update(t float32) {}

// build compiles the named shaders and uploads the interleaved
// vertices, laid out as described by layout, and the indices if
// there are any. The number of vertices (or indices) drawn is
// derived from the data.
func (m *mesh) build(env *Env, shader string, verts []float32, layout []attrib, indices []uint32) error {
	m.env = env
	m.clear = gpu.ColorBuffer
	ctx := env.Ctx
	cc := env.Config.Render.ClearColor
	ctx.ClearColor(cc[0], cc[1], cc[2], cc[3])

	var err error
	m.prog, err = env.Shaders.Build(ctx, shader)
	if err != nil {
		return err
	}
	m.vao, err = ctx.NewVertexArray()
	if err != nil {
		return err
	}
	m.vbo, err = ctx.NewVertexBuffer(verts, gpu.StaticDraw)
	if err != nil {
		return err
	}
	stride := 0
	for _, a := range layout {
		stride += a.size
	}
	if len(verts)%stride != 0 {
		return fmt.Errorf("stages.%s: %d floats is not a multiple of the vertex size %d", m.name, len(verts), stride)
	}
	m.count = len(verts) / stride
	off := 0
	for _, a := range layout {
		at, err := m.prog.Attrib(a.name)
		if err != nil {
			return err
		}
		m.vao.SetAttrib(at, a.size, stride, off)
		off += a.size
	}
	if len(indices) > 0 {
		m.ebo, err = ctx.NewIndexBuffer(indices, gpu.StaticDraw)
		if err != nil {
			return err
		}
		m.count = len(indices)
	}
	return nil
}

// loadTextures loads the configured textures onto consecutive
// texture units and sets the given sampler uniforms to them.
func (m *mesh) loadTextures(samplers ...string) error {
	paths, err := m.env.Config.TexturePaths()
	if err != nil {
		return err
	}
	if len(paths) < len(samplers) {
		return fmt.Errorf("stages.%s: needs %d textures, have %d", m.name, len(samplers), len(paths))
	}
	if err := m.prog.Use(); err != nil {
		return err
	}
	for i, sampler := range samplers {
		img, err := imagex.OpenTexture(paths[i])
		if err != nil {
			return fmt.Errorf("stages.%s: loading texture: %w", m.name, err)
		}
		tx, err := m.env.Ctx.NewTexture(i, img)
		if err != nil {
			return err
		}
		m.texs = append(m.texs, tx)
		un, err := m.prog.Uniform(sampler)
		if err != nil {
			return err
		}
		if err := un.Set1i(int32(tx.Unit())); err != nil {
			return err
		}
		slog.Debug("stages texture", "stage", m.name, "file", paths[i], "unit", tx.Unit(), "size", tx.Size())
	}
	return nil
}

// bind clears the framebuffer and binds all of the resources.
func (m *mesh) bind() error {
	m.env.Ctx.Clear(m.clear)
	if err := m.prog.Use(); err != nil {
		return err
	}
	m.vao.Bind()
	for _, tx := range m.texs {
		tx.Bind()
	}
	return nil
}

func (m *mesh) Draw() error {
	if err := m.bind(); err != nil {
		return err
	}
	if m.ebo != nil {
		return m.env.Ctx.DrawElements(gpu.Triangles, 0, m.count)
	}
	return m.env.Ctx.DrawArrays(gpu.Triangles, 0, m.count)
}

// Release deletes all of the resources in reverse order of creation.
func (m *mesh) Release() {
	for i := len(m.texs) - 1; i >= 0; i-- {
		m.texs[i].Delete()
	}
	m.texs = nil
	if m.ebo != nil {
		m.ebo.Delete()
		m.ebo = nil
	}
	if m.vbo != nil {
		m.vbo.Delete()
		m.vbo = nil
	}
	if m.vao != nil {
		m.vao.Delete()
		m.vao = nil
	}
	if m.prog != nil {
		m.prog.Delete()
		m.prog = nil
	}
}

// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stages

import (
	"image"

	"cogentcore.org/gltut/gpu"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func init() {
	Register(Info{Name: "textured", Order: 5, Doc: "a rectangle mixing two textures", New: func() Stage { return &textured{mesh: mesh{name: "textured"}} }})
	Register(Info{Name: "cube", Order: 6, Doc: "a textured cube rotating in perspective", New: func() Stage { return &cube{mesh: mesh{name: "cube"}} }})
}

// samplers are the sampler uniforms of the textured shaders,
// in texture unit order.
var samplers = []string{"texKitten", "texPuppy"}

// textured is a rectangle mixing two textures. Textures are
// uploaded bottom row first, so t=1 is the top of the image.
type textured struct {
	mesh
}

func (st *textured) Init(env *Env) error {
	verts := []float32{
		//  position     color          texcoord
		-0.5, 0.5, 1.0, 0.0, 0.0, 0.0, 1.0, // top left
		0.5, 0.5, 0.0, 1.0, 0.0, 1.0, 1.0, // top right
		0.5, -0.5, 0.0, 0.0, 1.0, 1.0, 0.0, // bottom right
		-0.5, -0.5, 1.0, 1.0, 1.0, 0.0, 0.0, // bottom left
	}
	indices := []uint32{
		0, 1, 2,
		2, 3, 0,
	}
	layout := []attrib{{"position", 2}, {"color", 3}, {"texcoord", 2}}
	if err := st.build(env, "textured", verts, layout, indices); err != nil {
		return err
	}
	return st.loadTextures(samplers...)
}

// cube is a textured cube rotating about the z axis, viewed from
// above one corner with a perspective projection.
type cube struct {
	mesh
	model, view, proj *gpu.Uniform
	rotation          mgl32.Mat4
	projection        mgl32.Mat4
}

// Viewing parameters of the cube.
var (
	cubeEye    = mgl32.Vec3{1.2, 1.2, 1.2}
	cubeCenter = mgl32.Vec3{0, 0, 0}
	cubeUp     = mgl32.Vec3{0, 0, 1}
)

const (
	cubeFovY = 45
	cubeNear = 1
	cubeFar  = 10

	// cubeSpeed is the rotation speed in degrees per second.
	cubeSpeed = 180
)

func (st *cube) Init(env *Env) error {
	layout := []attrib{{"position", 3}, {"color", 3}, {"texcoord", 2}}
	if err := st.build(env, "cube", cubeVertices(), layout, nil); err != nil {
		return err
	}
	st.clear = gpu.ColorBuffer | gpu.DepthBuffer
	env.Ctx.Enable(gpu.DepthTest)
	if err := st.loadTextures(samplers...); err != nil {
		return err
	}
	var err error
	if st.model, err = st.prog.Uniform("model"); err != nil {
		return err
	}
	if st.view, err = st.prog.Uniform("view"); err != nil {
		return err
	}
	if st.proj, err = st.prog.Uniform("proj"); err != nil {
		return err
	}
	st.rotation = mgl32.Ident4()
	st.Resize(env.Size)
	return nil
}

// Resize updates the projection for the given framebuffer size.
func (st *cube) Resize(size image.Point) {
	aspect := st.env.Config.ProjectionAspect(size)
	st.projection = mgl32.Perspective(mgl32.DegToRad(cubeFovY), aspect, cubeNear, cubeFar)
}

func (st *cube) Update(t float32) {
	angle := math32.Mod(t*cubeSpeed, 360)
	st.rotation = mgl32.HomogRotate3D(mgl32.DegToRad(angle), mgl32.Vec3{0, 0, 1})
}

func (st *cube) Draw() error {
	if err := st.bind(); err != nil {
		return err
	}
	if err := st.model.SetMat4(st.rotation); err != nil {
		return err
	}
	if err := st.view.SetMat4(mgl32.LookAtV(cubeEye, cubeCenter, cubeUp)); err != nil {
		return err
	}
	if err := st.proj.SetMat4(st.projection); err != nil {
		return err
	}
	return st.env.Ctx.DrawArrays(gpu.Triangles, 0, st.count)
}

// cubeVertices returns the 36 vertices of the six faces of a unit
// cube as position, color, texcoord, with two triangles per face.
func cubeVertices() []float32 {
	// corners of a face square in its own plane, in triangle order
	quad := [6][2]float32{{-1, -1}, {1, -1}, {1, 1}, {1, 1}, {-1, 1}, {-1, -1}}
	// each face: the fixed axis, its sign, and the two in-plane axes
	faces := []struct {
		axis, u, v int
		sign       float32
	}{
		{2, 0, 1, -1}, {2, 0, 1, 1},
		{0, 1, 2, -1}, {0, 1, 2, 1},
		{1, 0, 2, -1}, {1, 0, 2, 1},
	}
	verts := make([]float32, 0, 36*8)
	for _, f := range faces {
		for _, q := range quad {
			var p [3]float32
			p[f.axis] = 0.5 * f.sign
			p[f.u] = 0.5 * q[0]
			p[f.v] = 0.5 * q[1]
			verts = append(verts, p[0], p[1], p[2], 1, 1, 1, (q[0]+1)/2, (q[1]+1)/2)
		}
	}
	return verts
}

// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu_test

import (
	"image"
	"image/color"
	"testing"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/gpu"
	"cogentcore.org/gltut/gpu/softgl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext(t *testing.T) {
	drv := softgl.New()
	drv.InitError = errors.New("no context")
	_, err := gpu.NewContext(drv)
	assert.ErrorContains(t, err, "no context")

	ctx, _ := newContext(t)
	assert.Equal(t, softgl.DefaultVersion, ctx.Version())
	assert.Nil(t, ctx.Active())
}

func TestParseVersion(t *testing.T) {
	tests := map[string]string{
		"4.6.0 NVIDIA 535.54":            "4.6.0",
		"3.3 (Core Profile) Mesa 23.2.1": "3.3.0",
		"4.1 ATI-4.14.1":                 "4.1.0",
		" 3.2.1":                         "3.2.1",
	}
	for in, want := range tests {
		v, err := gpu.ParseVersion(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.String(), in)
	}
	_, err := gpu.ParseVersion("OpenGL ES")
	assert.Error(t, err)
}

func TestRequireVersion(t *testing.T) {
	ctx, drv := newContext(t)
	assert.NoError(t, ctx.RequireVersion(""))
	assert.NoError(t, ctx.RequireVersion("3.3"))
	assert.NoError(t, ctx.RequireVersion("3.2"))
	assert.Error(t, ctx.RequireVersion("4.1"))
	assert.Error(t, ctx.RequireVersion("not a version"))

	drv.VersionString = "2.1 Mesa"
	assert.ErrorContains(t, ctx.RequireVersion("3.3"), "older")
}

func TestCheckError(t *testing.T) {
	ctx, drv := newContext(t)
	assert.NoError(t, ctx.CheckError("nothing"))

	drv.Uniform1f(0, 1)
	drv.DeleteBuffer(42)
	err := ctx.CheckError("bad calls")
	var de *gpu.DriverError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "bad calls", de.Op)
	assert.Equal(t, []gpu.ErrorCodes{gpu.InvalidOperation, gpu.InvalidValue}, de.Codes)
	assert.Contains(t, err.Error(), "INVALID_OPERATION, INVALID_VALUE")
	assert.NoError(t, ctx.CheckError("drained"))
}

func TestDrawArrays(t *testing.T) {
	ctx, drv := newContext(t)
	pr, err := ctx.BuildProgram("tri", "in vec2 position;\nvoid main(){ gl_Position = vec4(position, 0.0, 1.0); }",
		"out vec4 outColor;\nvoid main(){ outColor = vec4(1.0); }", "outColor")
	require.NoError(t, err)

	assert.ErrorIs(t, ctx.DrawArrays(gpu.Triangles, 0, 3), gpu.ErrProgramNotActive)

	va, err := ctx.NewVertexArray()
	require.NoError(t, err)
	vb, err := ctx.NewVertexBuffer([]float32{0, 0.5, 0.5, -0.5, -0.5, -0.5}, gpu.StaticDraw)
	require.NoError(t, err)
	assert.Equal(t, 24, vb.Size())
	pos, err := pr.Attrib("position")
	require.NoError(t, err)
	va.SetAttrib(pos, 2, 0, 0)

	require.NoError(t, pr.Use())
	ctx.ClearColor(0, 0, 0, 1)
	ctx.Clear(gpu.ColorBuffer)
	require.NoError(t, ctx.DrawArrays(gpu.Triangles, 0, 3))
	require.NoError(t, ctx.CheckError("draw"))
	require.Len(t, drv.Draws, 1)
	d := drv.Draws[0]
	assert.Equal(t, gpu.Triangles, d.Mode)
	assert.Equal(t, int32(3), d.Count)
	assert.False(t, d.Indexed)
	assert.Equal(t, pr.Handle(), d.Program)
	assert.Equal(t, va.Handle(), d.VertexArray)
	assert.Equal(t, 1, drv.Clears)
	assert.Equal(t, [4]float32{0, 0, 0, 1}, drv.ClearColorValue())

	va.Delete()
	vb.Delete()
	pr.Delete()
	va.Delete()
	assert.Equal(t, softgl.Counts{}, drv.Live())
	assert.NoError(t, ctx.CheckError("release"))
}

func TestDrawElements(t *testing.T) {
	ctx, drv := newContext(t)
	pr, err := ctx.BuildProgram("rect", "in vec2 position;\nvoid main(){ gl_Position = vec4(position, 0.0, 1.0); }",
		"out vec4 outColor;\nvoid main(){ outColor = vec4(1.0); }", "outColor")
	require.NoError(t, err)
	defer pr.Delete()

	va, err := ctx.NewVertexArray()
	require.NoError(t, err)
	defer va.Delete()
	vb, err := ctx.NewVertexBuffer([]float32{-0.5, 0.5, 0.5, 0.5, 0.5, -0.5, -0.5, -0.5}, gpu.StaticDraw)
	require.NoError(t, err)
	defer vb.Delete()
	eb, err := ctx.NewIndexBuffer([]uint32{0, 1, 2, 2, 3, 0}, gpu.StaticDraw)
	require.NoError(t, err)
	defer eb.Delete()
	assert.Equal(t, []byte{2, 0, 0, 0}, drv.BufferContents(eb.Handle())[8:12])
	va.SetAttrib(errors.Must1(pr.Attrib("position")), 2, 0, 0)

	require.NoError(t, pr.Use())
	require.NoError(t, ctx.DrawElements(gpu.Triangles, 0, 6))
	require.NoError(t, ctx.DrawElements(gpu.Triangles, 3, 3))
	require.NoError(t, ctx.DrawElements(gpu.Triangles, 1, 3))
	require.NoError(t, ctx.CheckError("draw"))
	require.Len(t, drv.Draws, 3)
	assert.True(t, drv.Draws[1].Indexed)
	assert.Equal(t, int32(3), drv.Draws[1].First)
	assert.Equal(t, int32(1), drv.Draws[2].First)
	assert.Equal(t, int32(3), drv.Draws[2].Count)

	// past the end of the element buffer
	require.NoError(t, ctx.DrawElements(gpu.Triangles, 3, 6))
	assert.Error(t, ctx.CheckError("overrun"))
	assert.Len(t, drv.Draws, 3)

	_, err = ctx.NewIndexBuffer(nil, gpu.StaticDraw)
	assert.Error(t, err)
}

func TestTexture(t *testing.T) {
	ctx, drv := newContext(t)
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{255, 0, 0, 255})
	tx, err := ctx.NewTexture(1, img)
	require.NoError(t, err)
	assert.Equal(t, 1, tx.Unit())
	assert.Equal(t, image.Pt(4, 2), tx.Size())
	w, h := drv.TextureSize(tx.Handle())
	assert.Equal(t, int32(4), w)
	assert.Equal(t, int32(2), h)
	assert.NoError(t, ctx.CheckError("texture"))

	// sub image with a larger stride
	sub := img.SubImage(image.Rect(1, 0, 3, 2)).(*image.RGBA)
	tx2, err := ctx.NewTexture(0, sub)
	require.NoError(t, err)
	w, h = drv.TextureSize(tx2.Handle())
	assert.Equal(t, int32(2), w)
	assert.Equal(t, int32(2), h)
	assert.NoError(t, ctx.CheckError("sub texture"))

	_, err = ctx.NewTexture(0, nil)
	assert.Error(t, err)
	_, err = ctx.NewTexture(0, image.NewRGBA(image.Rectangle{}))
	assert.Error(t, err)
	_, err = ctx.NewTexture(-1, img)
	assert.Error(t, err)

	tx.Delete()
	tx2.Delete()
	tx.Delete()
	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestContextState(t *testing.T) {
	ctx, drv := newContext(t)
	ctx.Viewport(0, 0, 300, 200)
	assert.Equal(t, [4]int32{0, 0, 300, 200}, drv.ViewportRect())
	ctx.Enable(gpu.DepthTest)
	assert.True(t, drv.IsEnabled(gpu.DepthTest))
	assert.False(t, drv.IsEnabled(gpu.Blend))

	pr, err := ctx.BuildProgram("p", "void main(){gl_Position=vec4(0,0,0,1);}", "void main(){}", "")
	require.NoError(t, err)
	require.NoError(t, pr.Use())
	ctx.Release()
	assert.Nil(t, ctx.Active())
	assert.Zero(t, drv.CurrentProgram())
	pr.Delete()
	assert.NoError(t, ctx.CheckError("state"))
}

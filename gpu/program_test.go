// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu_test

import (
	"testing"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/gpu"
	"cogentcore.org/gltut/gpu/softgl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vertSrc = `#version 150 core

in vec2 position;
in vec3 color;
in vec2 texcoord;

out vec3 Color;
out vec2 Texcoord;

uniform mat4 model;
uniform mat4 view;
uniform mat4 proj;

void main()
{
    Color = color;
    Texcoord = texcoord;
    gl_Position = proj * view * model * vec4(position, 0.0, 1.0);
}
`

const fragSrc = `#version 150 core

in vec3 Color;
in vec2 Texcoord;

out vec4 outColor;

uniform sampler2D tex;
uniform float alpha;
uniform vec3 tint;

void main()
{
    vec4 c = texture(tex, Texcoord) * vec4(Color * tint, 1.0);
    outColor = vec4(c.rgb, alpha);
}
`

func newContext(t *testing.T) (*gpu.Context, *softgl.Driver) {
	t.Helper()
	drv := softgl.New()
	ctx, err := gpu.NewContext(drv)
	require.NoError(t, err)
	return ctx, drv
}

func buildProgram(t *testing.T, ctx *gpu.Context) *gpu.Program {
	t.Helper()
	pr, err := ctx.BuildProgram("test", vertSrc, fragSrc, "outColor")
	require.NoError(t, err)
	return pr
}

func TestCompile(t *testing.T) {
	ctx, drv := newContext(t)
	sh, err := ctx.NewShader(gpu.VertexShader, "test.vert", vertSrc)
	require.NoError(t, err)
	assert.NotZero(t, sh.Handle())
	assert.Equal(t, "test.vert", sh.Name())
	assert.Equal(t, gpu.VertexShader, sh.Type())
	assert.Equal(t, vertSrc, sh.Source())
	assert.Equal(t, 1, drv.Live().Shaders)

	sh.Delete()
	sh.Delete()
	assert.Zero(t, sh.Handle())
	assert.Equal(t, 0, drv.Live().Shaders)
	assert.NoError(t, ctx.CheckError("delete"))
}

func TestCompileMalformed(t *testing.T) {
	malformed := map[string]string{
		"empty":             "",
		"prose":             "this is not a shader",
		"no main":           "#version 150 core\nin vec2 position;\n",
		"missing semi":      "void main(){gl_Position=vec4(0,0,0,1)}",
		"unclosed brace":    "void main(){gl_Position=vec4(0,0,0,1);",
		"unclosed paren":    "void main({gl_Position=vec4(0,0,0,1);}",
		"unmatched close":   "void main()}{",
		"unknown type":      "in vex2 position;\nvoid main(){}",
		"bad version":       "#version 999\nvoid main(){}",
		"late version":      "in vec2 p;\n#version 150\nvoid main(){}",
		"bad character":     "void main(){ @gl_Position = vec4(1.0); }",
		"two identifiers":   "void main(){ gl_Position foo = vec4(1.0); }",
		"number then name":  "void main(){ float x = 1.0 y; }",
		"open comment":      "void main(){} /* never closed",
		"varying in 150":    "#version 150\nvarying vec3 c;\nvoid main(){}",
		"redeclaration":     "in vec2 p;\nin vec3 p;\nvoid main(){}",
		"main returns":      "int main(){ return 0; }",
		"trailing garbage":  "void main(){} vec4 x",
		"empty rhs":         "void main(){ gl_Position = ; }",
		"dangling operator": "void main(){ vec4(1.0) +; }",
		"unknown function":  "void main(){ gl_Position = nosuchfn(1.0); }",
		"undeclared name":   "void main(){ gl_Position = vec4(zzz); }",
		"double operator":   "void main(){ gl_Position = vec4(1.0) * * 2.0; }",
		"initializer type":  "void main(){ float x = vec4(1.0); }",
	}
	for name, src := range malformed {
		t.Run(name, func(t *testing.T) {
			ctx, drv := newContext(t)
			sh, err := ctx.NewShader(gpu.VertexShader, name, src)
			assert.Nil(t, sh)
			var ce *gpu.CompileError
			require.True(t, errors.As(err, &ce), "error %v", err)
			assert.NotEmpty(t, ce.Log)
			assert.Equal(t, name, ce.Name)
			assert.Equal(t, gpu.VertexShader, ce.Type)
			assert.Equal(t, 0, drv.Live().Shaders)
		})
	}
}

func TestLink(t *testing.T) {
	ctx, drv := newContext(t)
	pr := buildProgram(t, ctx)
	defer pr.Delete()

	assert.True(t, pr.Linked())
	assert.NotZero(t, pr.Handle())
	assert.Equal(t, []string{"color", "position", "texcoord"}, pr.AttribNames())
	assert.Equal(t, []string{"alpha", "model", "proj", "tex", "tint", "view"}, pr.UniformNames())

	for _, nm := range pr.AttribNames() {
		a, err := pr.Attrib(nm)
		require.NoError(t, err)
		assert.Equal(t, nm, a.Name)
	}
	pos, err := pr.Attrib("position")
	require.NoError(t, err)
	assert.Equal(t, gpu.Float32Vector2, pos.Type)

	for _, nm := range pr.UniformNames() {
		u, err := pr.Uniform(nm)
		require.NoError(t, err)
		assert.Equal(t, nm, u.Name())
		assert.Same(t, pr, u.Program())
	}
	model, err := pr.Uniform("model")
	require.NoError(t, err)
	assert.Equal(t, gpu.Float32Matrix4, model.Type())
	again, err := pr.Uniform("model")
	require.NoError(t, err)
	assert.Same(t, model, again)

	// shaders are released after linking but kept in order
	shs := pr.Shaders()
	require.Len(t, shs, 2)
	assert.Equal(t, gpu.VertexShader, shs[0].Type())
	assert.Equal(t, gpu.FragmentShader, shs[1].Type())
	assert.Zero(t, shs[0].Handle())
	assert.Equal(t, 0, drv.Live().Shaders)
	assert.Equal(t, 1, drv.Live().Programs)
	assert.NoError(t, ctx.CheckError("link"))
}

func TestEndToEnd(t *testing.T) {
	ctx, drv := newContext(t)
	pr, err := ctx.BuildProgram("min", "void main(){gl_Position=vec4(0,0,0,1);}", "void main(){}", "")
	require.NoError(t, err)
	assert.True(t, pr.Linked())
	assert.Empty(t, pr.AttribNames())
	assert.Empty(t, pr.UniformNames())
	require.NoError(t, pr.Use())
	assert.Equal(t, pr.Handle(), drv.CurrentProgram())
	pr.Delete()
	assert.Equal(t, softgl.Counts{}, drv.Live())
	assert.NoError(t, ctx.CheckError("end to end"))
}

func TestLinkErrors(t *testing.T) {
	ctx, drv := newContext(t)

	assert.Error(t, ctx.NewProgram("empty").Link())

	// fragment input with no matching vertex output
	_, err := ctx.BuildProgram("mismatch", "void main(){gl_Position=vec4(1.0);}",
		"in vec3 Color;\nout vec4 outColor;\nvoid main(){ outColor = vec4(Color, 1.0); }", "outColor")
	var le *gpu.LinkError
	require.True(t, errors.As(err, &le), "error %v", err)
	assert.Equal(t, "mismatch", le.Program)
	assert.Contains(t, le.Log, "Color")

	// no vertex shader
	fs, err := ctx.NewShader(gpu.FragmentShader, "only.frag", "void main(){}")
	require.NoError(t, err)
	pr := ctx.NewProgram("fragonly")
	require.NoError(t, pr.AddShader(fs))
	err = pr.Link()
	require.True(t, errors.As(err, &le))
	assert.False(t, pr.Linked())
	pr.Delete()

	// invalid source in the pair
	_, err = ctx.BuildProgram("badfrag", "void main(){gl_Position=vec4(1.0);}", "void main(){", "")
	var ce *gpu.CompileError
	assert.True(t, errors.As(err, &ce))

	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestAddShader(t *testing.T) {
	ctx, _ := newContext(t)
	vs1, err := ctx.NewShader(gpu.VertexShader, "a.vert", "void main(){}")
	require.NoError(t, err)
	vs2, err := ctx.NewShader(gpu.VertexShader, "b.vert", "void main(){}")
	require.NoError(t, err)
	pr := ctx.NewProgram("dup")
	require.NoError(t, pr.AddShader(vs1))
	assert.Error(t, pr.AddShader(vs2))
	require.NoError(t, pr.Link())
	assert.Error(t, pr.AddShader(vs2))
	vs2.Delete()

	// linking again is a no-op
	assert.NoError(t, pr.Link())

	// a deleted shader cannot be linked
	vs3, err := ctx.NewShader(gpu.VertexShader, "c.vert", "void main(){}")
	require.NoError(t, err)
	vs3.Delete()
	pr2 := ctx.NewProgram("released")
	require.NoError(t, pr2.AddShader(vs3))
	assert.ErrorIs(t, pr2.Link(), gpu.ErrReleased)
}

func TestLinkProgram(t *testing.T) {
	ctx, drv := newContext(t)
	vs1 := errors.Must1(ctx.NewShader(gpu.VertexShader, "a.vert", "void main(){gl_Position=vec4(1.0);}"))
	vs2 := errors.Must1(ctx.NewShader(gpu.VertexShader, "b.vert", "void main(){}"))
	pr, err := ctx.LinkProgram("twovert", "", vs1, vs2)
	assert.Nil(t, pr)
	assert.ErrorContains(t, err, "already has a")
	assert.Zero(t, vs1.Handle())
	assert.Zero(t, vs2.Handle())
	assert.Equal(t, softgl.Counts{}, drv.Live())

	vs := errors.Must1(ctx.NewShader(gpu.VertexShader, "p.vert", "void main(){gl_Position=vec4(1.0);}"))
	fs := errors.Must1(ctx.NewShader(gpu.FragmentShader, "p.frag", "out vec4 outColor;\nvoid main(){ outColor = vec4(1.0); }"))
	pr, err = ctx.LinkProgram("pair", "outColor", vs, fs)
	require.NoError(t, err)
	assert.True(t, pr.Linked())
	assert.Equal(t, 0, drv.Live().Shaders)
	pr.Delete()
	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestNotFound(t *testing.T) {
	ctx, _ := newContext(t)
	pr := buildProgram(t, ctx)
	defer pr.Delete()

	_, err := pr.Uniform("modle")
	assert.ErrorIs(t, err, gpu.ErrNotFound)
	var nf *gpu.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "uniform", nf.Kind)
	assert.Equal(t, "model", nf.Suggestion)
	assert.Contains(t, err.Error(), `did you mean "model"`)

	_, err = pr.Attrib("nothing_like_it")
	assert.ErrorIs(t, err, gpu.ErrNotFound)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "attribute", nf.Kind)
	assert.Empty(t, nf.Suggestion)

	unlinked := ctx.NewProgram("unlinked")
	_, err = unlinked.Uniform("model")
	assert.ErrorIs(t, err, gpu.ErrNotLinked)
	_, err = unlinked.Attrib("position")
	assert.ErrorIs(t, err, gpu.ErrNotLinked)
	assert.ErrorIs(t, unlinked.Use(), gpu.ErrNotLinked)
}

func TestInactiveDeclarations(t *testing.T) {
	ctx, _ := newContext(t)
	pr, err := ctx.BuildProgram("unused",
		"in vec2 position;\nin vec3 unused;\nuniform float scale;\nvoid main(){ gl_Position = vec4(position * scale, 0.0, 1.0); }",
		"uniform vec3 never;\nout vec4 outColor;\nvoid main(){ outColor = vec4(1.0); }", "outColor")
	require.NoError(t, err)
	defer pr.Delete()
	assert.Equal(t, []string{"position"}, pr.AttribNames())
	assert.Equal(t, []string{"scale"}, pr.UniformNames())
	_, err = pr.Uniform("never")
	assert.ErrorIs(t, err, gpu.ErrNotFound)
}

func TestUniformNoCrossTalk(t *testing.T) {
	ctx, drv := newContext(t)
	pr := buildProgram(t, ctx)
	defer pr.Delete()
	require.NoError(t, pr.Use())

	model := errors.Must1(pr.Uniform("model"))
	view := errors.Must1(pr.Uniform("view"))
	proj := errors.Must1(pr.Uniform("proj"))
	alpha := errors.Must1(pr.Uniform("alpha"))
	tint := errors.Must1(pr.Uniform("tint"))
	tex := errors.Must1(pr.Uniform("tex"))

	require.NoError(t, model.SetMat4(mgl32.Ident4()))
	require.NoError(t, view.SetMat4(mgl32.Translate3D(1, 2, 3)))
	require.NoError(t, alpha.Set1f(0.5))
	require.NoError(t, tint.Set3f(1, 0, 0))
	require.NoError(t, tex.Set1i(2))

	before := map[string]softgl.Value{}
	for _, nm := range pr.UniformNames() {
		if v, ok := drv.UniformValue(pr.Handle(), nm); ok {
			before[nm] = v
		}
	}
	_, ok := drv.UniformValue(pr.Handle(), "proj")
	assert.False(t, ok)

	rot := mgl32.HomogRotate3DZ(mgl32.DegToRad(90))
	require.NoError(t, proj.SetMat4(rot))
	for nm, v := range before {
		after, ok := drv.UniformValue(pr.Handle(), nm)
		require.True(t, ok, nm)
		assert.Equal(t, v, after, nm)
	}
	pv, ok := drv.UniformValue(pr.Handle(), "proj")
	require.True(t, ok)
	assert.Equal(t, rot[:], pv.Floats)

	require.NoError(t, tint.SetVec3(mgl32.Vec3{0, 1, 0}))
	tv, _ := drv.UniformValue(pr.Handle(), "tint")
	assert.Equal(t, []float32{0, 1, 0}, tv.Floats)
	av, _ := drv.UniformValue(pr.Handle(), "alpha")
	assert.Equal(t, []float32{0.5}, av.Floats)
	assert.NoError(t, ctx.CheckError("uniforms"))
}

func TestUniformChecks(t *testing.T) {
	ctx, _ := newContext(t)
	pr := buildProgram(t, ctx)
	alpha := errors.Must1(pr.Uniform("alpha"))
	model := errors.Must1(pr.Uniform("model"))

	assert.ErrorIs(t, alpha.Set1f(1), gpu.ErrProgramNotActive)

	other, err := ctx.BuildProgram("other", "void main(){gl_Position=vec4(1.0);}", "void main(){}", "")
	require.NoError(t, err)
	require.NoError(t, other.Use())
	assert.False(t, pr.Active())
	assert.ErrorIs(t, model.SetMat4(mgl32.Ident4()), gpu.ErrProgramNotActive)

	require.NoError(t, pr.Use())
	assert.True(t, pr.Active())
	assert.Same(t, pr, ctx.Active())

	var te *gpu.TypeError
	require.True(t, errors.As(alpha.Set1i(1), &te))
	assert.Equal(t, gpu.Float32, te.Declared)
	assert.Equal(t, "int", te.Upload)
	assert.True(t, errors.As(alpha.Set3f(1, 2, 3), &te))
	assert.True(t, errors.As(model.Set1f(1), &te))
	assert.NoError(t, alpha.Set1f(1))

	pr.Delete()
	assert.Nil(t, ctx.Active())
	assert.ErrorIs(t, alpha.Set1f(1), gpu.ErrNotLinked)
	other.Delete()
	assert.NoError(t, ctx.CheckError("checks"))
}

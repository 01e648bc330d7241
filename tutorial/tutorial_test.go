// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tutorial

import (
	"bytes"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/base/iox/imagex"
	"cogentcore.org/gltut/config"
	"cogentcore.org/gltut/events"
	"cogentcore.org/gltut/events/key"
	"cogentcore.org/gltut/gpu"
	"cogentcore.org/gltut/gpu/softgl"
	"cogentcore.org/gltut/stages"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSurface is a [Surface] without a window. onPoll is called
// with the 1-based poll count on every PollEvents.
type fakeSurface struct {
	queue  *events.Queue
	size   image.Point
	closed bool
	polls  int
	swaps  int
	onPoll func(n int)
}

func newFakeSurface() *fakeSurface {
	return &fakeSurface{queue: events.NewQueue(), size: image.Pt(300, 300)}
}

func (f *fakeSurface) ShouldClose() bool            { return f.closed }
func (f *fakeSurface) SetShouldClose(close bool)    { f.closed = close }
func (f *fakeSurface) SwapBuffers()                 { f.swaps++ }
func (f *fakeSurface) FramebufferSize() image.Point { return f.size }
func (f *fakeSurface) Events() *events.Queue        { return f.queue }

func (f *fakeSurface) PollEvents() {
	f.polls++
	if f.onPoll != nil {
		f.onPoll(f.polls)
	}
}

// fakeClock returns a clock that advances by step on every call.
func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"sample.png", "sample2.png"} {
		require.NoError(t, imagex.Save(image.NewRGBA(image.Rect(0, 0, 2, 2)), filepath.Join(dir, name)))
	}
	cfg := config.Default()
	cfg.Assets.DataDir = dir
	return cfg
}

func newTestRunner(t *testing.T, stage string) (*Runner, *fakeSurface, *softgl.Driver) {
	t.Helper()
	cfg := testConfig(t)
	drv := softgl.New()
	ctx := errors.Must1(gpu.NewContext(drv))
	env := &stages.Env{Ctx: ctx, Config: cfg, Shaders: stages.NewShaders("")}
	sf := newFakeSurface()
	r := NewRunner(sf, env, errors.Must1(stages.New(stage)))
	return r, sf, drv
}

func TestRunMaxFrames(t *testing.T) {
	r, sf, drv := newTestRunner(t, "triangle")
	r.MaxFrames = 5
	require.NoError(t, r.Run())
	assert.Equal(t, 5, r.Frames)
	assert.Equal(t, 5, sf.swaps)
	assert.Len(t, drv.Draws, 5)
	assert.Equal(t, [4]int32{0, 0, 300, 300}, drv.ViewportRect())
	assert.Equal(t, image.Pt(300, 300), r.Env.Size)
	assert.Equal(t, softgl.Counts{}, drv.Live())
	assert.Equal(t, uint32(0), drv.CurrentProgram())
}

func TestMaxFramesFromConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Render.Frames = 7
	ctx := errors.Must1(gpu.NewContext(softgl.New()))
	r := NewRunner(newFakeSurface(), &stages.Env{Ctx: ctx, Config: cfg, Shaders: stages.NewShaders("")}, errors.Must1(stages.New("context")))
	assert.Equal(t, 7, r.MaxFrames)
	require.NoError(t, r.Run())
	assert.Equal(t, 7, r.Frames)
}

func TestEscapeCloses(t *testing.T) {
	r, sf, drv := newTestRunner(t, "colored")
	sf.onPoll = func(n int) {
		switch n {
		case 2:
			ev := events.NewKey(events.KeyDown, key.CodeEscape, 0)
			ev.Repeat = true
			sf.queue.Send(ev)
		case 3:
			sf.queue.Send(events.NewKey(events.KeyDown, key.CodeEscape, 0))
		}
	}
	require.NoError(t, r.Run())
	assert.True(t, sf.closed)
	assert.Equal(t, 2, sf.swaps)
	assert.Equal(t, 3, sf.polls)
	assert.Equal(t, 2, r.Frames)
	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestOtherKeysIgnored(t *testing.T) {
	r, sf, _ := newTestRunner(t, "triangle")
	r.MaxFrames = 3
	sf.onPoll = func(n int) {
		sf.queue.Send(events.NewKey(events.KeyDown, key.CodeSpacebar, 0))
		sf.queue.Send(events.NewKey(events.KeyUp, key.CodeEscape, 0))
	}
	require.NoError(t, r.Run())
	assert.False(t, sf.closed)
	assert.Equal(t, 3, r.Frames)
}

func TestRebuild(t *testing.T) {
	dir := t.TempDir()
	r, sf, drv := newTestRunner(t, "triangle")
	r.Env.Shaders = stages.NewShaders(dir)
	r.MaxFrames = 4
	var first, second stages.Stage
	sf.onPoll = func(n int) {
		switch n {
		case 2:
			first = r.Stage
			sf.queue.Send(events.NewKey(events.KeyDown, key.CodeR, 0))
		case 3:
			second = r.Stage
			require.NoError(t, os.WriteFile(filepath.Join(dir, "triangle.vert"), []byte("#version 150 core\nin vec2 position\nvoid main() {}\n"), 0666))
			sf.queue.Send(&events.Shader{Name: "triangle.vert"})
		}
	}
	require.NoError(t, r.Run())
	assert.Equal(t, 4, r.Frames)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)
	assert.Same(t, second, r.Stage)

	// the R rebuild draws with a new program, the failed one keeps it
	require.Len(t, drv.Draws, 4)
	assert.NotEqual(t, drv.Draws[0].Program, drv.Draws[1].Program)
	assert.Equal(t, drv.Draws[1].Program, drv.Draws[2].Program)
	assert.Equal(t, drv.Draws[2].Program, drv.Draws[3].Program)
	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestRebuildUniformStage(t *testing.T) {
	r, sf, drv := newTestRunner(t, "uniform")
	r.Now = fakeClock(100 * time.Millisecond)
	sf.onPoll = func(n int) {
		if n == 2 {
			sf.queue.Send(events.NewKey(events.KeyDown, key.CodeR, 0))
		}
	}
	require.NoError(t, r.Start())
	defer r.Release()
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Frame())
	}
	require.Len(t, drv.Draws, 3)
	last := drv.Draws[len(drv.Draws)-1]
	v, ok := drv.UniformValue(last.Program, "triangleColor")
	require.True(t, ok)
	// Start reads the clock once, then every frame reads it twice
	tm := float32(0.5)
	assert.InDelta(t, (math32.Sin(tm*4)+1)/2, v.Floats[0], 1e-5)
}

func TestResize(t *testing.T) {
	r, sf, drv := newTestRunner(t, "cube")
	r.MaxFrames = 2
	sf.onPoll = func(n int) {
		if n == 2 {
			sf.size = image.Pt(600, 300)
		}
	}
	require.NoError(t, r.Run())
	assert.Equal(t, [4]int32{0, 0, 600, 300}, drv.ViewportRect())
	assert.Equal(t, image.Pt(600, 300), r.Env.Size)
	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestResizeProjection(t *testing.T) {
	r, sf, drv := newTestRunner(t, "cube")
	require.NoError(t, r.Start())
	defer r.Release()
	sf.size = image.Pt(600, 300)
	require.NoError(t, r.Frame())
	last := drv.Draws[len(drv.Draws)-1]
	proj, ok := drv.UniformValue(last.Program, "proj")
	require.True(t, ok)
	want := mgl32.Perspective(mgl32.DegToRad(45), 2, 1, 10)
	assert.Equal(t, want[:], proj.Floats)
}

func TestStartError(t *testing.T) {
	r, sf, drv := newTestRunner(t, "textured")
	r.Env.Config.Assets.DataDir = t.TempDir()
	err := r.Run()
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, sf.swaps)
	assert.Equal(t, softgl.Counts{}, drv.Live())
}

func TestFPSLogging(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	r, _, _ := newTestRunner(t, "context")
	r.Now = fakeClock(time.Second)
	r.MaxFrames = 8
	require.NoError(t, r.Run())
	assert.Contains(t, buf.String(), "fps=")
}

func TestCheck(t *testing.T) {
	cfg := testConfig(t)
	assert.NoError(t, Check(cfg))
	assert.NoError(t, Check(cfg, "cube", "triangle"))

	err := Check(cfg, "triangle", "tirangle")
	assert.ErrorContains(t, err, "tirangle")
	assert.ErrorContains(t, err, `did you mean "triangle"`)

	cfg.Assets.DataDir = t.TempDir()
	err = Check(cfg)
	require.Error(t, err)
	assert.ErrorContains(t, err, "textured:")
	assert.ErrorContains(t, err, "cube:")
	assert.NotContains(t, err.Error(), "triangle:")
}

func TestCheckShaderDir(t *testing.T) {
	cfg := testConfig(t)
	dir := t.TempDir()
	cfg.Assets.ShaderDir = dir
	require.NoError(t, os.WriteFile(filepath.Join(dir, "colored.frag"), []byte("#version 150 core\nin vec3 Colour;\nout vec4 outColor;\nvoid main() { outColor = vec4(Colour, 1.0); }\n"), 0666))
	err := Check(cfg, "colored", "elements", "triangle")
	var le *gpu.LinkError
	require.True(t, errors.As(err, &le), "error %v", err)
	assert.ErrorContains(t, err, "colored:")
	assert.ErrorContains(t, err, "elements:")
	assert.NotContains(t, err.Error(), "triangle:")
}

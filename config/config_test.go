// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	fn := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(fn, []byte(content), 0666))
	return fn
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, image.Pt(300, 300), cfg.WindowSize())
	assert.Equal(t, "open.gl tutorial", cfg.Window.Title)
	assert.False(t, cfg.Window.Resizable)
	assert.Equal(t, 3, cfg.GL.Major)
	assert.Equal(t, 3, cfg.GL.Minor)
}

func TestOpenTOML(t *testing.T) {
	fn := writeFile(t, "gltut.toml", `
stage = "cube"

[window]
width = 800
height = 600

[render]
aspect = 1.3333
clear-color = [0.1, 0.2, 0.3, 1.0]

[assets]
textures = ["a.png"]
`)
	cfg := Default()
	require.NoError(t, Open(cfg, fn))
	assert.Equal(t, "cube", cfg.Stage)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, "open.gl tutorial", cfg.Window.Title)
	assert.InDelta(t, 1.3333, cfg.Render.Aspect, 1e-6)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, cfg.Render.ClearColor)
	assert.Equal(t, []string{"a.png"}, cfg.Assets.Textures)
	assert.Equal(t, "data", cfg.Assets.DataDir)
}

func TestOpenYAML(t *testing.T) {
	fn := writeFile(t, "gltut.yml", `
stage: textured
gl:
  major: 4
  minor: 1
  min-version: "4.1"
log:
  verbose: true
`)
	cfg := Default()
	require.NoError(t, Open(cfg, fn))
	assert.Equal(t, "textured", cfg.Stage)
	assert.Equal(t, GL{Major: 4, Minor: 1, MinVersion: "4.1"}, cfg.GL)
	assert.True(t, cfg.Log.Verbose)
	assert.Equal(t, 300, cfg.Window.Width)
}

func TestOpenErrors(t *testing.T) {
	cfg := Default()
	assert.Error(t, Open(cfg, writeFile(t, "gltut.json", "{}")))
	assert.Error(t, Open(cfg, writeFile(t, "bad.toml", "stage = ")))
	assert.Error(t, Open(cfg, writeFile(t, "unknown.toml", "colour = 1")))
	assert.Error(t, Open(cfg, writeFile(t, "unknown.yaml", "colour: 1")))
	assert.Error(t, Open(cfg, filepath.Join(t.TempDir(), "missing.toml")))
}

func TestValidate(t *testing.T) {
	bad := []func(c *Config){
		func(c *Config) { c.Stage = "" },
		func(c *Config) { c.Window.Width = 0 },
		func(c *Config) { c.GL.Major, c.GL.Minor = 3, 1 },
		func(c *Config) { c.GL.Major = 2 },
		func(c *Config) { c.Render.Aspect = -1 },
		func(c *Config) { c.Render.Frames = -1 },
		func(c *Config) { c.Log.Quiet, c.Log.Verbose = true, true },
	}
	for i, f := range bad {
		cfg := Default()
		f(cfg)
		assert.Error(t, cfg.Validate(), "case %d", i)
	}
}

func TestClone(t *testing.T) {
	cfg := Default()
	cp := cfg.Clone()
	assert.Equal(t, cfg.Stage, cp.Stage)
	assert.Equal(t, cfg.Window, cp.Window)
	assert.Equal(t, cfg.GL, cp.GL)
	assert.Equal(t, cfg.Render, cp.Render)
	assert.Equal(t, cfg.Assets.Textures, cp.Assets.Textures)
	cp.Assets.Textures[0] = "other.png"
	cp.Window.Width = 10
	assert.Equal(t, "sample.png", cfg.Assets.Textures[0])
	assert.Equal(t, 300, cfg.Window.Width)
}

func TestProjectionAspect(t *testing.T) {
	cfg := Default()
	assert.Equal(t, float32(1), cfg.ProjectionAspect(image.Pt(300, 300)))
	assert.Equal(t, float32(2), cfg.ProjectionAspect(image.Pt(600, 300)))
	assert.Equal(t, float32(1), cfg.ProjectionAspect(image.Point{}))
	cfg.Render.Aspect = 800.0 / 600.0
	assert.Equal(t, float32(800.0/600.0), cfg.ProjectionAspect(image.Pt(300, 300)))
}

func TestPaths(t *testing.T) {
	cfg := Default()
	paths, err := cfg.TexturePaths()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("data", "sample.png"), filepath.Join("data", "sample2.png")}, paths)

	home, err := homedir.Dir()
	require.NoError(t, err)
	cfg.Assets.DataDir = "~/assets"
	p, err := cfg.DataPath("x.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "assets", "x.png"), p)

	abs := filepath.Join(t.TempDir(), "y.png")
	p, err = cfg.DataPath(abs)
	require.NoError(t, err)
	assert.Equal(t, abs, p)

	dir, err := cfg.ShaderDir()
	require.NoError(t, err)
	assert.Empty(t, dir)
}

// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config contains the configuration struct
// for the gltut tool, and opening it from TOML or YAML files.
package config

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"cogentcore.org/gltut/base/fsx"
	"cogentcore.org/gltut/base/iox/tomlx"
	"cogentcore.org/gltut/base/iox/yamlx"
	"github.com/jinzhu/copier"
)

// Config is the main config struct that contains all of the
// configuration options for the gltut tool.
type Config struct {

	// other config files to open before this one, so that
	// settings in this file override the included ones
	Includes []string `toml:"includes" yaml:"includes"`

	// the name of the tutorial stage to run
	Stage string `toml:"stage" yaml:"stage"`

	// the window options
	Window Window `toml:"window" yaml:"window"`

	// the OpenGL context options
	GL GL `toml:"gl" yaml:"gl"`

	// the render loop options
	Render Render `toml:"render" yaml:"render"`

	// the locations of textures and shaders
	Assets Assets `toml:"assets" yaml:"assets"`

	// the logging options
	Log Log `toml:"log" yaml:"log"`
}

type Window struct {

	// the window width in screen coordinates
	Width int `toml:"width" yaml:"width"`

	// the window height in screen coordinates
	Height int `toml:"height" yaml:"height"`

	// the window title
	Title string `toml:"title" yaml:"title"`

	// whether the user can resize the window
	Resizable bool `toml:"resizable" yaml:"resizable"`
}

type GL struct {

	// the requested OpenGL core profile major version
	Major int `toml:"major" yaml:"major"`

	// the requested OpenGL core profile minor version
	Minor int `toml:"minor" yaml:"minor"`

	// the minimum driver version to accept, e.g. "3.3";
	// empty accepts any version
	MinVersion string `toml:"min-version" yaml:"min-version"`
}

type Render struct {

	// the aspect ratio of the perspective projection;
	// 0 uses the aspect ratio of the framebuffer
	Aspect float32 `toml:"aspect" yaml:"aspect"`

	// the RGBA color the framebuffer is cleared to
	ClearColor [4]float32 `toml:"clear-color" yaml:"clear-color"`

	// stop after this many frames; 0 runs until the window closes
	Frames int `toml:"frames" yaml:"frames"`

	// synchronize buffer swaps with the display refresh
	VSync bool `toml:"vsync" yaml:"vsync"`
}

type Assets struct {

	// the directory that texture paths are relative to;
	// a leading ~ is expanded to the home directory
	DataDir string `toml:"data-dir" yaml:"data-dir"`

	// the texture files of the textured stages, in unit order
	Textures []string `toml:"textures" yaml:"textures"`

	// a directory of shader files that override the built-in ones
	ShaderDir string `toml:"shader-dir" yaml:"shader-dir"`

	// rebuild the stage when a file in ShaderDir changes
	WatchShaders bool `toml:"watch-shaders" yaml:"watch-shaders"`
}

type Log struct {

	// log debug messages
	VeryVerbose bool `toml:"very-verbose" yaml:"very-verbose"`

	// log info messages
	Verbose bool `toml:"verbose" yaml:"verbose"`

	// only log errors
	Quiet bool `toml:"quiet" yaml:"quiet"`
}

// Default returns the default configuration, which opens a
// 300x300 non-resizable window with an OpenGL 3.3 core context.
func Default() *Config {
	return &Config{
		Stage: "context",
		Window: Window{
			Width:  300,
			Height: 300,
			Title:  "open.gl tutorial",
		},
		GL: GL{
			Major:      3,
			Minor:      3,
			MinVersion: "3.3",
		},
		Render: Render{
			ClearColor: [4]float32{0, 0, 0, 1},
		},
		Assets: Assets{
			DataDir:  "data",
			Textures: []string{"sample.png", "sample2.png"},
		},
	}
}

// Open reads the config from the given file, in TOML for .toml
// files and YAML for .yaml and .yml files. Values not present in
// the file are left unchanged, and unknown keys are an error.
func Open(cfg *Config, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		return tomlx.Open(cfg, filename)
	case ".yaml", ".yml":
		return yamlx.Open(cfg, filename)
	}
	return fmt.Errorf("config.Open: unsupported config file type %q", filename)
}

// Clone returns a deep copy of the config.
func (cfg *Config) Clone() *Config {
	cp := &Config{}
	if err := copier.CopyWithOption(cp, cfg, copier.Option{DeepCopy: true}); err != nil {
		panic(err)
	}
	return cp
}

// Validate returns an error if the config has invalid values.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Stage == "":
		return fmt.Errorf("config: no stage given")
	case cfg.Window.Width <= 0 || cfg.Window.Height <= 0:
		return fmt.Errorf("config: invalid window size %dx%d", cfg.Window.Width, cfg.Window.Height)
	case cfg.GL.Major < 3 || (cfg.GL.Major == 3 && cfg.GL.Minor < 2):
		return fmt.Errorf("config: OpenGL %d.%d has no core profile; need 3.2 or later", cfg.GL.Major, cfg.GL.Minor)
	case cfg.Render.Aspect < 0:
		return fmt.Errorf("config: negative aspect ratio %g", cfg.Render.Aspect)
	case cfg.Render.Frames < 0:
		return fmt.Errorf("config: negative frame count %d", cfg.Render.Frames)
	case cfg.Log.Quiet && (cfg.Log.Verbose || cfg.Log.VeryVerbose):
		return fmt.Errorf("config: quiet cannot be combined with verbose logging")
	}
	return nil
}

// WindowSize returns the window size as a point.
func (cfg *Config) WindowSize() image.Point {
	return image.Pt(cfg.Window.Width, cfg.Window.Height)
}

// ProjectionAspect returns the aspect ratio to use for a
// perspective projection onto a framebuffer of the given size:
// [Render.Aspect] if set, else the framebuffer aspect.
func (cfg *Config) ProjectionAspect(fb image.Point) float32 {
	if cfg.Render.Aspect > 0 {
		return cfg.Render.Aspect
	}
	if fb.X <= 0 || fb.Y <= 0 {
		return 1
	}
	return float32(fb.X) / float32(fb.Y)
}

// DataPath returns the path of the given file in [Assets.DataDir],
// with a leading ~ expanded. Absolute paths are returned cleaned.
func (cfg *Config) DataPath(file string) (string, error) {
	if filepath.IsAbs(file) || strings.HasPrefix(file, "~") {
		return fsx.ExpandPath(file)
	}
	dir, err := fsx.ExpandPath(cfg.Assets.DataDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, file), nil
}

// TexturePaths returns the paths of all [Assets.Textures].
func (cfg *Config) TexturePaths() ([]string, error) {
	paths := make([]string, len(cfg.Assets.Textures))
	for i, tx := range cfg.Assets.Textures {
		p, err := cfg.DataPath(tx)
		if err != nil {
			return nil, err
		}
		paths[i] = p
	}
	return paths, nil
}

// ShaderDir returns [Assets.ShaderDir] with a leading ~ expanded.
func (cfg *Config) ShaderDir() (string, error) {
	return fsx.ExpandPath(cfg.Assets.ShaderDir)
}

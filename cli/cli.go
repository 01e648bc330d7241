// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli builds the gltut configuration from the command line,
// the GLTUT_FLAGS environment variable and config files.
//
// The precedence, from lowest to highest, is: [config.Default],
// files included by the config file, the config file given with
// --config, GLTUT_FLAGS, then the command line arguments.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"cogentcore.org/gltut/config"
	"github.com/mattn/go-shellwords"
	"github.com/spf13/pflag"
)

// EnvVar is the environment variable holding extra arguments,
// which are parsed before the command line arguments.
const EnvVar = "GLTUT_FLAGS"

// ErrHelp is returned by [Parse] when help was requested
// and the usage has been printed.
var ErrHelp = pflag.ErrHelp

// Actions are the one-shot actions requested on the command line,
// which run instead of opening a window.
type Actions struct {

	// list the available stages
	List bool

	// run the stages against the software driver
	Check bool

	// Stages are the stages named on the command line, which
	// can be more than one with Check.
	Stages []string
}

// Parse returns the config built from the given command line
// arguments (without the program name) and the value of [EnvVar].
// A single positional argument selects the stage. Usage is written
// to out when help is requested or parsing fails.
func Parse(args []string, env string, out io.Writer) (*config.Config, Actions, error) {
	var acts Actions
	envArgs, err := shellwords.Parse(env)
	if err != nil {
		return nil, acts, fmt.Errorf("cli: parsing %s: %w", EnvVar, err)
	}
	all := append(envArgs, args...)

	cfg := config.Default()
	file, err := configFile(all)
	if err != nil {
		return nil, acts, err
	}
	if file != "" {
		if err := openWithIncludes(cfg, file); err != nil {
			return nil, acts, err
		}
	}

	fs := pflag.NewFlagSet("gltut", pflag.ContinueOnError)
	fs.SetOutput(out)
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(out, "Usage: gltut [flags] [stage]\n       gltut --check [flags] [stage...]\n\nExtra flags can be given in $%s.\n\nFlags:\n", EnvVar)
		fs.PrintDefaults()
	}
	addFlags(fs, cfg, &acts)
	if err := fs.Parse(all); err != nil {
		return nil, acts, err
	}
	if gl := fs.Lookup("gl"); gl.Changed {
		if cfg.GL.Major, cfg.GL.Minor, err = parseGLVersion(gl.Value.String()); err != nil {
			return nil, acts, err
		}
	}
	stageFlag := fs.Lookup("stage").Changed
	if stageFlag {
		acts.Stages = []string{cfg.Stage}
	}
	switch {
	case fs.NArg() == 0:
	case acts.Check:
		if !stageFlag {
			cfg.Stage = fs.Arg(0)
		}
		acts.Stages = append(acts.Stages, fs.Args()...)
	case stageFlag:
		return nil, acts, fmt.Errorf("cli: stage given both by --stage %q and as argument %q", cfg.Stage, fs.Arg(0))
	case fs.NArg() == 1:
		cfg.Stage = fs.Arg(0)
		acts.Stages = fs.Args()
	default:
		return nil, acts, fmt.Errorf("cli: expected at most one stage argument, got %q", fs.Args())
	}
	if err := cfg.Validate(); err != nil {
		return nil, acts, err
	}
	return cfg, acts, nil
}

// configFile returns the value of the --config flag, ignoring all
// other flags, so that the file can be opened before they are applied.
func configFile(args []string) (string, error) {
	fs := pflag.NewFlagSet("gltut", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	file := fs.StringP("config", "c", "", "")
	fs.BoolP("help", "h", false, "")
	if err := fs.Parse(args); err != nil {
		return "", fmt.Errorf("cli: %w", err)
	}
	return *file, nil
}

func addFlags(fs *pflag.FlagSet, cfg *config.Config, acts *Actions) {
	fs.StringP("config", "c", "", "the TOML or YAML config file to open")
	fs.StringVarP(&cfg.Stage, "stage", "s", cfg.Stage, "the tutorial stage to run")
	fs.IntVar(&cfg.Window.Width, "width", cfg.Window.Width, "the window width")
	fs.IntVar(&cfg.Window.Height, "height", cfg.Window.Height, "the window height")
	fs.StringVar(&cfg.Window.Title, "title", cfg.Window.Title, "the window title")
	fs.BoolVar(&cfg.Window.Resizable, "resizable", cfg.Window.Resizable, "allow resizing the window")
	fs.String("gl", fmt.Sprintf("%d.%d", cfg.GL.Major, cfg.GL.Minor), "the OpenGL core profile version to request")
	fs.StringVar(&cfg.GL.MinVersion, "min-gl", cfg.GL.MinVersion, "the minimum OpenGL driver version to accept")
	fs.Float32Var(&cfg.Render.Aspect, "aspect", cfg.Render.Aspect, "the projection aspect ratio (0 uses the framebuffer aspect)")
	fs.IntVar(&cfg.Render.Frames, "frames", cfg.Render.Frames, "stop after this many frames (0 runs until closed)")
	fs.BoolVar(&cfg.Render.VSync, "vsync", cfg.Render.VSync, "synchronize with the display refresh")
	fs.StringVar(&cfg.Assets.DataDir, "data", cfg.Assets.DataDir, "the directory of the texture files")
	fs.StringSliceVar(&cfg.Assets.Textures, "textures", cfg.Assets.Textures, "the texture files, in unit order")
	fs.StringVar(&cfg.Assets.ShaderDir, "shaders", cfg.Assets.ShaderDir, "a directory of shader files overriding the built-in ones")
	fs.BoolVar(&cfg.Assets.WatchShaders, "watch", cfg.Assets.WatchShaders, "rebuild the stage when a shader file changes")
	fs.BoolVar(&acts.List, "list", false, "list the available stages and exit")
	fs.BoolVar(&acts.Check, "check", false, "run the stages against the software driver and exit")
	fs.BoolVarP(&cfg.Log.Verbose, "verbose", "v", cfg.Log.Verbose, "log info messages")
	fs.BoolVar(&cfg.Log.VeryVerbose, "vv", cfg.Log.VeryVerbose, "log debug messages")
	fs.BoolVarP(&cfg.Log.Quiet, "quiet", "q", cfg.Log.Quiet, "only log errors")
}

// parseGLVersion parses a "major.minor" OpenGL version.
func parseGLVersion(s string) (major, minor int, err error) {
	mj, mn, ok := strings.Cut(s, ".")
	if ok {
		major, err = strconv.Atoi(mj)
		if err == nil {
			minor, err = strconv.Atoi(mn)
		}
	}
	if !ok || err != nil {
		return 0, 0, fmt.Errorf("cli: invalid OpenGL version %q, want major.minor", s)
	}
	return major, minor, nil
}

// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gltut runs the stages of the open.gl tutorial in a window.
//
//	gltut [flags] [stage]
//
// Use --list to see the stages, and --check to run them against the
// software driver without a window.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/base/fsx"
	"cogentcore.org/gltut/base/logx"
	"cogentcore.org/gltut/cli"
	"cogentcore.org/gltut/config"
	"cogentcore.org/gltut/gpu"
	"cogentcore.org/gltut/gpu/gldriver"
	"cogentcore.org/gltut/stages"
	"cogentcore.org/gltut/system"
	"cogentcore.org/gltut/tutorial"
)

func init() {
	// must lock main thread for glfw and OpenGL!
	runtime.LockOSThread()
}

func main() {
	cfg, acts, err := cli.Parse(os.Args[1:], os.Getenv(cli.EnvVar), os.Stderr)
	if errors.Is(err, cli.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logx.UserLevel = logx.LevelFromFlags(cfg.Log.VeryVerbose, cfg.Log.Verbose, cfg.Log.Quiet)
	logx.SetDefaultLogger()

	switch {
	case acts.List:
		list(os.Stdout)
		return
	case acts.Check:
		err = tutorial.Check(cfg, acts.Stages...)
	default:
		slog.Info("open.gl tutorial begin", "stage", cfg.Stage)
		err = run(cfg)
		slog.Info("open.gl tutorial end", "stage", cfg.Stage)
	}
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

// list prints the stages in tutorial order.
func list(w io.Writer) {
	for _, info := range stages.Infos() {
		fmt.Fprintf(w, "%-10s %s\n", info.Name, info.Doc)
	}
}

// run opens the window and runs the selected stage until it is closed.
func run(cfg *config.Config) error {
	st, err := stages.New(cfg.Stage)
	if err != nil {
		return err
	}
	if err := system.Init(); err != nil {
		return err
	}
	defer system.Terminate()

	win, err := system.NewWindow(system.Options{
		Size:      cfg.WindowSize(),
		Title:     cfg.Window.Title,
		Resizable: cfg.Window.Resizable,
		GLMajor:   cfg.GL.Major,
		GLMinor:   cfg.GL.Minor,
		VSync:     cfg.Render.VSync,
	})
	if err != nil {
		return err
	}
	defer win.Destroy()

	ctx, err := gpu.NewContext(gldriver.New())
	if err != nil {
		return err
	}
	if err := ctx.RequireVersion(cfg.GL.MinVersion); err != nil {
		return err
	}

	dir, err := cfg.ShaderDir()
	if err != nil {
		return err
	}
	if cfg.Assets.WatchShaders {
		if !fsx.DirExists(dir) {
			return fmt.Errorf("gltut: watching shaders needs an existing shader directory, have %q", dir)
		}
		w, err := stages.Watch(dir, win.Events())
		if err != nil {
			return err
		}
		defer func() { errors.Log(w.Close()) }()
	}

	env := &stages.Env{Ctx: ctx, Config: cfg, Shaders: stages.NewShaders(dir)}
	return tutorial.NewRunner(win, env, st).Run()
}

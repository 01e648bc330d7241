// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tutorial

import (
	"fmt"
	"log/slog"

	"cogentcore.org/gltut/base/errors"
	"cogentcore.org/gltut/config"
	"cogentcore.org/gltut/gpu"
	"cogentcore.org/gltut/gpu/softgl"
	"cogentcore.org/gltut/stages"
)

// checkFrames is the number of frames drawn by [Check] per stage.
const checkFrames = 3

// Check initializes, draws and releases each of the named stages
// (all of them if none are named) on the software driver, without a
// window. This validates the shaders and assets of the configuration.
// Each stage gets its own driver, and must leave no live objects.
func Check(cfg *config.Config, names ...string) error {
	if len(names) == 0 {
		names = stages.Names()
	}
	dir, err := cfg.ShaderDir()
	if err != nil {
		return err
	}
	shaders := stages.NewShaders(dir)
	var errs []error
	for _, name := range names {
		err := checkStage(cfg, shaders, name)
		if err != nil {
			slog.Error("tutorial check failed", "stage", name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		slog.Info("tutorial check ok", "stage", name)
	}
	return errors.Join(errs...)
}

func checkStage(cfg *config.Config, shaders *stages.Shaders, name string) error {
	st, err := stages.New(name)
	if err != nil {
		return err
	}
	drv := softgl.New()
	ctx, err := gpu.NewContext(drv)
	if err != nil {
		return err
	}
	env := &stages.Env{Ctx: ctx, Config: cfg, Shaders: shaders, Size: cfg.WindowSize()}
	ctx.Viewport(0, 0, env.Size.X, env.Size.Y)
	err = st.Init(env)
	if err == nil {
		for i := 0; i < checkFrames; i++ {
			st.Update(float32(i) / 60)
			if err = st.Draw(); err != nil {
				break
			}
		}
	}
	if err == nil {
		err = ctx.CheckError("check " + name)
	}
	st.Release()
	ctx.Release()
	if err != nil {
		return err
	}
	if live := drv.Live(); live != (softgl.Counts{}) {
		return fmt.Errorf("objects still live after release: %+v", live)
	}
	return nil
}

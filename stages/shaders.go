// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stages

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"cogentcore.org/gltut/base/fsx"
	"cogentcore.org/gltut/gpu"
)

//go:embed shaders/*.vert shaders/*.frag
var embedded embed.FS

// Shaders loads shader sources by file name, from an optional
// override directory first and then from the built-in sources.
type Shaders struct {
	dir  string
	fsys fs.FS
}

// NewShaders returns a new loader that looks in dir before the
// built-in sources. An empty dir uses only the built-in sources.
func NewShaders(dir string) *Shaders {
	sh := &Shaders{dir: dir}
	if dir != "" {
		sh.fsys = os.DirFS(dir)
	}
	return sh
}

// Dir returns the override directory, which may be empty.
func (sh *Shaders) Dir() string {
	return sh.dir
}

// Source returns the source of the named shader file, e.g. "triangle.vert".
func (sh *Shaders) Source(name string) (string, error) {
	if sh.fsys != nil {
		has, err := fsx.FileExistsFS(sh.fsys, name)
		if err != nil {
			return "", err
		}
		if has {
			b, err := fs.ReadFile(sh.fsys, name)
			if err != nil {
				return "", err
			}
			slog.Debug("stages shader override", "file", name, "dir", sh.dir)
			return string(b), nil
		}
	}
	b, err := fs.ReadFile(fsx.Sub(embedded, "shaders"), name)
	if err != nil {
		return "", fmt.Errorf("stages: no shader %q: %w", name, err)
	}
	return string(b), nil
}

// Build compiles and links the program of the given name from the
// name.vert and name.frag shaders, with outColor as the fragment output.
func (sh *Shaders) Build(ctx *gpu.Context, name string) (*gpu.Program, error) {
	vs, err := sh.Source(name + ".vert")
	if err != nil {
		return nil, err
	}
	fsrc, err := sh.Source(name + ".frag")
	if err != nil {
		return nil, err
	}
	return ctx.BuildProgram(name, vs, fsrc, "outColor")
}

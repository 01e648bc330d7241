// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"log/slog"
	"strings"
)

// Shader manages a single compiled shader object.
type Shader struct {
	ctx    *Context
	handle uint32
	name   string
	typ    ShaderTypes
	src    string
}

// NewShader compiles the given source code as a shader of the given
// type and name. On failure the driver object is deleted and a
// [*CompileError] with the driver's info log is returned.
// The source does not need to be null terminated.
func (c *Context) NewShader(typ ShaderTypes, name, src string) (*Shader, error) {
	handle := c.drv.CreateShader(typ)
	if err := mustNotZero("shader", handle); err != nil {
		return nil, err
	}
	c.drv.ShaderSource(handle, src)
	c.drv.CompileShader(handle)

	if !c.drv.ShaderCompiled(handle) {
		msg := strings.TrimRight(c.drv.ShaderInfoLog(handle), "\x00\n ")
		if msg == "" {
			msg = "unknown compile error (empty info log)"
		}
		c.drv.DeleteShader(handle)
		err := &CompileError{Name: name, Type: typ, Log: msg}
		slog.Error("gpu shader compile", "shader", name, "type", typ, "log", msg)
		return nil, err
	}
	return &Shader{ctx: c, handle: handle, name: name, typ: typ, src: src}, nil
}

// Name returns the name of this shader
func (sh *Shader) Name() string {
	return sh.name
}

// Type returns the type of the shader
func (sh *Shader) Type() ShaderTypes {
	return sh.typ
}

// Handle returns the driver handle for this shader, which is 0
// once the shader has been deleted (including after linking).
func (sh *Shader) Handle() uint32 {
	return sh.handle
}

// Source returns the source code the shader was compiled from.
func (sh *Shader) Source() string {
	return strings.TrimRight(sh.src, "\x00")
}

// Delete deletes the shader object. It is safe to call more than once.
func (sh *Shader) Delete() {
	if sh.handle == 0 {
		return
	}
	sh.ctx.drv.DeleteShader(sh.handle)
	sh.handle = 0
}

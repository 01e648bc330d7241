// Copyright 2019 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "github.com/go-gl/mathgl/mgl32"

// Uniform is a typed handle to one active uniform variable of a
// linked [Program]. It stays valid as long as the program lives.
// Values can only be uploaded while the owning program is the
// active program of its context, and must match the declared type.
type Uniform struct {
	prog *Program
	name string
	loc  int32
	typ  Types
	size int32
}

// Name returns name of the uniform
func (un *Uniform) Name() string {
	return un.name
}

// Type returns the declared type of the uniform
func (un *Uniform) Type() Types {
	return un.typ
}

// Location returns the driver location of the uniform.
func (un *Uniform) Location() int32 {
	return un.loc
}

// Program returns the program that owns the uniform.
func (un *Uniform) Program() *Program {
	return un.prog
}

// check returns an error if a value described by upload cannot be
// uploaded now to a uniform of declared type, as reported by ok.
func (un *Uniform) check(ok bool, upload string) error {
	if !un.prog.linked {
		return ErrNotLinked
	}
	if un.prog.ctx.active != un.prog {
		return ErrProgramNotActive
	}
	if !ok {
		return &TypeError{Uniform: un.name, Declared: un.typ, Upload: upload}
	}
	return nil
}

// Set1i uploads an integer value; valid for int, uint, bool and
// sampler uniforms (where it selects the texture unit).
func (un *Uniform) Set1i(v int32) error {
	if err := un.check(un.typ.IsIntegral(), "int"); err != nil {
		return err
	}
	un.prog.ctx.drv.Uniform1i(un.loc, v)
	return nil
}

// Set1f uploads a float value.
func (un *Uniform) Set1f(v float32) error {
	if err := un.check(un.typ == Float32, "float"); err != nil {
		return err
	}
	un.prog.ctx.drv.Uniform1f(un.loc, v)
	return nil
}

// Set3f uploads a vec3 value.
func (un *Uniform) Set3f(x, y, z float32) error {
	if err := un.check(un.typ == Float32Vector3, "vec3"); err != nil {
		return err
	}
	un.prog.ctx.drv.Uniform3f(un.loc, x, y, z)
	return nil
}

// SetVec3 uploads a vec3 value.
func (un *Uniform) SetVec3(v mgl32.Vec3) error {
	return un.Set3f(v[0], v[1], v[2])
}

// SetMat4 uploads a mat4 value, in the column-major order that
// mgl32 stores it in.
func (un *Uniform) SetMat4(m mgl32.Mat4) error {
	if err := un.check(un.typ == Float32Matrix4, "mat4"); err != nil {
		return err
	}
	mv := [16]float32(m)
	un.prog.ctx.drv.UniformMatrix4fv(un.loc, &mv)
	return nil
}

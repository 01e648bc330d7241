// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gldriver implements [gpu.Driver] on top of OpenGL 3.3 core,
// using the go-gl bindings. The OpenGL context must be current on
// the calling thread for every call.
package gldriver

import (
	"strings"

	"cogentcore.org/gltut/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
)

// Driver is the OpenGL [gpu.Driver].
type Driver struct{}

// New returns a new OpenGL driver. [Driver.Init] must be called
// (through gpu.NewContext) after the context has been made current.
func New() *Driver {
	return &Driver{}
}

// cString returns the string with a null terminator, as OpenGL needs.
func cString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func (d *Driver) Init() error {
	return gl.Init()
}

func (d *Driver) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (d *Driver) GetError() gpu.ErrorCodes {
	return gpu.ErrorCodes(gl.GetError())
}

////////////////////////////////////////////////////////
//  Shaders

func (d *Driver) CreateShader(typ gpu.ShaderTypes) uint32 {
	switch typ {
	case gpu.VertexShader:
		return gl.CreateShader(gl.VERTEX_SHADER)
	case gpu.FragmentShader:
		return gl.CreateShader(gl.FRAGMENT_SHADER)
	}
	return 0
}

func (d *Driver) ShaderSource(shader uint32, src string) {
	csources, free := gl.Strs(cString(src))
	gl.ShaderSource(shader, 1, csources, nil)
	free()
}

func (d *Driver) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (d *Driver) ShaderCompiled(shader uint32) bool {
	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	return status != gl.FALSE
}

func (d *Driver) ShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

func (d *Driver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

////////////////////////////////////////////////////////
//  Programs

func (d *Driver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *Driver) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *Driver) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (d *Driver) BindFragDataLocation(program uint32, color uint32, name string) {
	gl.BindFragDataLocation(program, color, gl.Str(cString(name)))
}

func (d *Driver) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (d *Driver) ProgramLinked(program uint32) bool {
	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	return status != gl.FALSE
}

func (d *Driver) ProgramInfoLog(program uint32) string {
	var lgLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &lgLength)
	if lgLength == 0 {
		return ""
	}
	lg := strings.Repeat("\x00", int(lgLength+1))
	gl.GetProgramInfoLog(program, lgLength, nil, gl.Str(lg))
	return strings.TrimRight(lg, "\x00")
}

// activeVars reads the active attribute or uniform table of a program.
func activeVars(program uint32, count, maxLen uint32, get func(program, index uint32, bufSize int32, length, size *int32, xtype *uint32, name *uint8)) []gpu.VarInfo {
	var n, ln int32
	gl.GetProgramiv(program, count, &n)
	gl.GetProgramiv(program, maxLen, &ln)
	vars := make([]gpu.VarInfo, 0, n)
	for i := uint32(0); i < uint32(n); i++ {
		buf := strings.Repeat("\x00", int(ln+1))
		var length, size int32
		var xtype uint32
		get(program, i, ln+1, &length, &size, &xtype, gl.Str(buf))
		name := strings.TrimSuffix(buf[:length], "[0]")
		if strings.HasPrefix(name, "gl_") {
			continue
		}
		vars = append(vars, gpu.VarInfo{Name: name, Type: glType(xtype), Size: size})
	}
	return vars
}

func (d *Driver) ActiveAttribs(program uint32) []gpu.VarInfo {
	return activeVars(program, gl.ACTIVE_ATTRIBUTES, gl.ACTIVE_ATTRIBUTE_MAX_LENGTH, gl.GetActiveAttrib)
}

func (d *Driver) ActiveUniforms(program uint32) []gpu.VarInfo {
	return activeVars(program, gl.ACTIVE_UNIFORMS, gl.ACTIVE_UNIFORM_MAX_LENGTH, gl.GetActiveUniform)
}

func (d *Driver) AttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(cString(name)))
}

func (d *Driver) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(cString(name)))
}

func (d *Driver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Driver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Driver) Uniform1i(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (d *Driver) Uniform1f(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (d *Driver) Uniform3f(loc int32, v0, v1, v2 float32) {
	gl.Uniform3f(loc, v0, v1, v2)
}

func (d *Driver) UniformMatrix4fv(loc int32, m *[16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

////////////////////////////////////////////////////////
//  Buffers and vertex arrays

func (d *Driver) GenBuffer() uint32 {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return buf
}

func (d *Driver) BindBuffer(target gpu.BufferTargets, buf uint32) {
	gl.BindBuffer(glTargets[target], buf)
}

func (d *Driver) BufferData(target gpu.BufferTargets, data []byte, usage gpu.BufferUsages) {
	if len(data) == 0 {
		gl.BufferData(glTargets[target], 0, nil, glUsages[usage])
		return
	}
	gl.BufferData(glTargets[target], len(data), gl.Ptr(&data[0]), glUsages[usage])
}

func (d *Driver) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

func (d *Driver) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (d *Driver) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *Driver) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *Driver) VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, gl.FLOAT, normalized, stride, gl.PtrOffset(offset))
}

func (d *Driver) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

////////////////////////////////////////////////////////
//  Textures

func (d *Driver) GenTexture() uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	return tex
}

func (d *Driver) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

func (d *Driver) BindTexture(tex uint32) {
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *Driver) TexImage2D(width, height int32, rgba []byte) {
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}

func (d *Driver) TexParameter(param gpu.TextureParams, value gpu.TextureValues) {
	gl.TexParameteri(gl.TEXTURE_2D, glTexParams[param], glTexValues[value])
}

func (d *Driver) GenerateMipmap() {
	gl.GenerateMipmap(gl.TEXTURE_2D)
}

func (d *Driver) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

////////////////////////////////////////////////////////
//  State and drawing

func (d *Driver) Enable(capability gpu.Capabilities) {
	gl.Enable(glCapabilities[capability])
}

func (d *Driver) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *Driver) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *Driver) Clear(mask gpu.ClearBits) {
	var bits uint32
	if mask&gpu.ColorBuffer != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&gpu.DepthBuffer != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&gpu.StencilBuffer != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *Driver) DrawArrays(mode gpu.DrawModes, first, count int32) {
	gl.DrawArrays(glModes[mode], first, count)
}

func (d *Driver) DrawElements(mode gpu.DrawModes, count int32, offset int) {
	gl.DrawElements(glModes[mode], count, gl.UNSIGNED_INT, gl.PtrOffset(offset))
}

var _ gpu.Driver = (*Driver)(nil)

// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

// Driver is the thin layer over the graphics API that a [Context]
// issues all of its calls through. Object handles are the raw
// driver ids, with 0 meaning "no object". Calls are only valid on
// the thread that owns the graphics context.
//
// The gldriver package implements it on top of OpenGL, and the
// softgl package provides an in-memory implementation for tests
// and for checking shaders without a GPU.
type Driver interface {
	// Init loads the API entry points for the current context.
	Init() error

	// Version returns the driver version string, e.g. "3.3.0 NVIDIA 535.54".
	Version() string

	// GetError returns and clears the oldest pending error flag.
	GetError() ErrorCodes

	CreateShader(typ ShaderTypes) uint32
	ShaderSource(shader uint32, src string)
	CompileShader(shader uint32)
	ShaderCompiled(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	BindFragDataLocation(program uint32, color uint32, name string)
	LinkProgram(program uint32)
	ProgramLinked(program uint32) bool
	ProgramInfoLog(program uint32) string
	ActiveAttribs(program uint32) []VarInfo
	ActiveUniforms(program uint32) []VarInfo
	AttribLocation(program uint32, name string) int32
	UniformLocation(program uint32, name string) int32
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Uniform calls apply to the program set with UseProgram.
	// A location of -1 is silently ignored.
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v0, v1, v2 float32)
	UniformMatrix4fv(location int32, m *[16]float32)

	GenBuffer() uint32
	BindBuffer(target BufferTargets, buffer uint32)
	BufferData(target BufferTargets, data []byte, usage BufferUsages)
	DeleteBuffer(buffer uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	EnableVertexAttribArray(index uint32)

	// VertexAttribPointer describes float attribute data in the bound
	// array buffer; stride and offset are in bytes.
	VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset int)
	DeleteVertexArray(vao uint32)

	GenTexture() uint32
	ActiveTexture(unit uint32)
	BindTexture(texture uint32)
	TexImage2D(width, height int32, rgba []byte)
	TexParameter(param TextureParams, value TextureValues)
	GenerateMipmap()
	DeleteTexture(texture uint32)

	Enable(capability Capabilities)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearBits)
	DrawArrays(mode DrawModes, first, count int32)

	// DrawElements draws count uint32 indices from the bound
	// element array buffer, starting at byte offset.
	DrawElements(mode DrawModes, count int32, offset int)
}

// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import "fmt"

// ShaderTypes is the pipeline stage of a [Shader].
type ShaderTypes int32

const (
	UnknownShader ShaderTypes = iota
	VertexShader
	FragmentShader
)

func (st ShaderTypes) String() string {
	switch st {
	case VertexShader:
		return "VertexShader"
	case FragmentShader:
		return "FragmentShader"
	}
	return fmt.Sprintf("ShaderTypes(%d)", int32(st))
}

// See: https://www.khronos.org/opengl/wiki/Data_Type_(GLSL)

// Types is a list of the GLSL data types that attributes and
// uniforms can be declared with.
type Types int32

const (
	UndefinedType Types = iota
	Bool32
	Int32
	Uint32
	Float32
	Float32Vector2
	Float32Vector3
	Float32Vector4
	Float32Matrix2
	Float32Matrix3
	Float32Matrix4
	Sampler2D
)

var typeNames = [...]string{
	"UndefinedType", "Bool32", "Int32", "Uint32", "Float32",
	"Float32Vector2", "Float32Vector3", "Float32Vector4",
	"Float32Matrix2", "Float32Matrix3", "Float32Matrix4", "Sampler2D",
}

func (tp Types) String() string {
	if tp < 0 || int(tp) >= len(typeNames) {
		return fmt.Sprintf("Types(%d)", int32(tp))
	}
	return typeNames[tp]
}

// GLSLTypes maps GLSL type names to [Types].
var GLSLTypes = map[string]Types{
	"bool":      Bool32,
	"int":       Int32,
	"uint":      Uint32,
	"float":     Float32,
	"vec2":      Float32Vector2,
	"vec3":      Float32Vector3,
	"vec4":      Float32Vector4,
	"mat2":      Float32Matrix2,
	"mat3":      Float32Matrix3,
	"mat4":      Float32Matrix4,
	"sampler2D": Sampler2D,
}

// IsIntegral reports whether values of this type are uploaded
// with integer uniform calls (Set1i).
func (tp Types) IsIntegral() bool {
	switch tp {
	case Bool32, Int32, Uint32, Sampler2D:
		return true
	}
	return false
}

// VarInfo describes one active attribute or uniform of a linked program.
type VarInfo struct {
	// Name is the variable name, without any "[0]" array suffix.
	Name string

	// Type is the declared type.
	Type Types

	// Size is the array length, 1 for non-arrays.
	Size int32
}

// BufferTargets are the binding points for a [Buffer].
type BufferTargets int32

const (
	ArrayBuffer BufferTargets = iota
	ElementArrayBuffer
)

// BufferUsages are the expected usage patterns of buffer data.
type BufferUsages int32

const (
	StaticDraw BufferUsages = iota
	DynamicDraw
	StreamDraw
)

// DrawModes are the primitive types for draw calls.
type DrawModes int32

const (
	Triangles DrawModes = iota
	TriangleStrip
	TriangleFan
	Lines
	Points
)

// Capabilities are the server-side capabilities toggled with [Context.Enable].
type Capabilities int32

const (
	DepthTest Capabilities = iota
	Blend
	CullFace
)

// ClearBits select the buffers cleared by [Context.Clear].
type ClearBits int32

const (
	ColorBuffer ClearBits = 1 << iota
	DepthBuffer
	StencilBuffer
)

// TextureParams are the texture parameters set by [Context.NewTexture].
type TextureParams int32

const (
	TextureWrapS TextureParams = iota
	TextureWrapT
	TextureMinFilter
	TextureMagFilter
)

// TextureValues are the values for [TextureParams].
type TextureValues int32

const (
	ClampToEdge TextureValues = iota
	Repeat
	Nearest
	Linear
	LinearMipmapLinear
)

// ErrorCodes are the error flags reported by [Driver.GetError].
// The values are the OpenGL ones so that they read the same in logs.
type ErrorCodes uint32

const (
	NoError                     ErrorCodes = 0
	InvalidEnum                 ErrorCodes = 0x0500
	InvalidValue                ErrorCodes = 0x0501
	InvalidOperation            ErrorCodes = 0x0502
	OutOfMemory                 ErrorCodes = 0x0505
	InvalidFramebufferOperation ErrorCodes = 0x0506
)

func (ec ErrorCodes) String() string {
	switch ec {
	case NoError:
		return "NO_ERROR"
	case InvalidEnum:
		return "INVALID_ENUM"
	case InvalidValue:
		return "INVALID_VALUE"
	case InvalidOperation:
		return "INVALID_OPERATION"
	case OutOfMemory:
		return "OUT_OF_MEMORY"
	case InvalidFramebufferOperation:
		return "INVALID_FRAMEBUFFER_OPERATION"
	}
	return fmt.Sprintf("ErrorCodes(0x%04x)", uint32(ec))
}

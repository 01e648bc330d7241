// Copyright (c) 2019, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gldriver

import (
	"cogentcore.org/gltut/gpu"
	"github.com/go-gl/gl/v3.3-core/gl"
)

var glTargets = map[gpu.BufferTargets]uint32{
	gpu.ArrayBuffer:        gl.ARRAY_BUFFER,
	gpu.ElementArrayBuffer: gl.ELEMENT_ARRAY_BUFFER,
}

var glUsages = map[gpu.BufferUsages]uint32{
	gpu.StaticDraw:  gl.STATIC_DRAW,
	gpu.DynamicDraw: gl.DYNAMIC_DRAW,
	gpu.StreamDraw:  gl.STREAM_DRAW,
}

var glModes = map[gpu.DrawModes]uint32{
	gpu.Triangles:     gl.TRIANGLES,
	gpu.TriangleStrip: gl.TRIANGLE_STRIP,
	gpu.TriangleFan:   gl.TRIANGLE_FAN,
	gpu.Lines:         gl.LINES,
	gpu.Points:        gl.POINTS,
}

var glCapabilities = map[gpu.Capabilities]uint32{
	gpu.DepthTest: gl.DEPTH_TEST,
	gpu.Blend:     gl.BLEND,
	gpu.CullFace:  gl.CULL_FACE,
}

var glTexParams = map[gpu.TextureParams]uint32{
	gpu.TextureWrapS:     gl.TEXTURE_WRAP_S,
	gpu.TextureWrapT:     gl.TEXTURE_WRAP_T,
	gpu.TextureMinFilter: gl.TEXTURE_MIN_FILTER,
	gpu.TextureMagFilter: gl.TEXTURE_MAG_FILTER,
}

var glTexValues = map[gpu.TextureValues]int32{
	gpu.ClampToEdge:        gl.CLAMP_TO_EDGE,
	gpu.Repeat:             gl.REPEAT,
	gpu.Nearest:            gl.NEAREST,
	gpu.Linear:             gl.LINEAR,
	gpu.LinearMipmapLinear: gl.LINEAR_MIPMAP_LINEAR,
}

// glType returns the [gpu.Types] of an OpenGL active variable type.
func glType(xtype uint32) gpu.Types {
	switch xtype {
	case gl.BOOL:
		return gpu.Bool32
	case gl.INT:
		return gpu.Int32
	case gl.UNSIGNED_INT:
		return gpu.Uint32
	case gl.FLOAT:
		return gpu.Float32
	case gl.FLOAT_VEC2:
		return gpu.Float32Vector2
	case gl.FLOAT_VEC3:
		return gpu.Float32Vector3
	case gl.FLOAT_VEC4:
		return gpu.Float32Vector4
	case gl.FLOAT_MAT2:
		return gpu.Float32Matrix2
	case gl.FLOAT_MAT3:
		return gpu.Float32Matrix3
	case gl.FLOAT_MAT4:
		return gpu.Float32Matrix4
	case gl.SAMPLER_2D:
		return gpu.Sampler2D
	}
	return gpu.UndefinedType
}

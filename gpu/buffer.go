// Copyright (c) 2024, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"unsafe"
)

// Buffer is a GPU buffer holding vertex or index data.
type Buffer struct {
	ctx    *Context
	handle uint32
	target BufferTargets
	size   int
}

// NewVertexBuffer uploads the given float data to a new array buffer.
func (c *Context) NewVertexBuffer(data []float32, usage BufferUsages) (*Buffer, error) {
	return c.newBuffer(ArrayBuffer, sliceBytes(data), usage)
}

// NewIndexBuffer uploads the given indexes to a new element array
// buffer. The buffer is bound to the currently bound vertex array,
// so that must be bound first.
func (c *Context) NewIndexBuffer(data []uint32, usage BufferUsages) (*Buffer, error) {
	return c.newBuffer(ElementArrayBuffer, sliceBytes(data), usage)
}

func (c *Context) newBuffer(target BufferTargets, data []byte, usage BufferUsages) (*Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("gpu: cannot create an empty buffer")
	}
	handle := c.drv.GenBuffer()
	if err := mustNotZero("buffer", handle); err != nil {
		return nil, err
	}
	c.drv.BindBuffer(target, handle)
	c.drv.BufferData(target, data, usage)
	return &Buffer{ctx: c, handle: handle, target: target, size: len(data)}, nil
}

// sliceBytes returns the raw bytes of the given slice without copying.
func sliceBytes[T float32 | uint32](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*int(unsafe.Sizeof(data[0])))
}

// Handle returns the driver handle of the buffer.
func (bf *Buffer) Handle() uint32 {
	return bf.handle
}

// Size returns the size of the buffer data in bytes.
func (bf *Buffer) Size() int {
	return bf.size
}

// Bind binds the buffer to its target.
func (bf *Buffer) Bind() {
	bf.ctx.drv.BindBuffer(bf.target, bf.handle)
}

// Delete deletes the buffer. It is safe to call more than once.
func (bf *Buffer) Delete() {
	if bf.handle == 0 {
		return
	}
	bf.ctx.drv.DeleteBuffer(bf.handle)
	bf.handle = 0
}

// VertexArray records the vertex attribute layout and the
// element buffer binding of a draw.
type VertexArray struct {
	ctx    *Context
	handle uint32
}

// NewVertexArray creates a new vertex array and binds it.
func (c *Context) NewVertexArray() (*VertexArray, error) {
	handle := c.drv.GenVertexArray()
	if err := mustNotZero("vertex array", handle); err != nil {
		return nil, err
	}
	c.drv.BindVertexArray(handle)
	return &VertexArray{ctx: c, handle: handle}, nil
}

// Handle returns the driver handle of the vertex array.
func (va *VertexArray) Handle() uint32 {
	return va.handle
}

// Bind binds the vertex array.
func (va *VertexArray) Bind() {
	va.ctx.drv.BindVertexArray(va.handle)
}

// SetAttrib enables the given attribute and describes its data in
// the currently bound array buffer: size float components per vertex,
// with stride and offset counted in floats.
func (va *VertexArray) SetAttrib(a Attrib, size, stride, offset int) {
	const fsz = int(unsafe.Sizeof(float32(0)))
	va.ctx.drv.EnableVertexAttribArray(a.Location)
	va.ctx.drv.VertexAttribPointer(a.Location, int32(size), false, int32(stride*fsz), offset*fsz)
}

// Delete deletes the vertex array. It is safe to call more than once.
func (va *VertexArray) Delete() {
	if va.handle == 0 {
		return
	}
	va.ctx.drv.DeleteVertexArray(va.handle)
	va.handle = 0
}

// Copyright (c) 2022, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gpu

import (
	"fmt"
	"image"
)

// Texture is a 2D RGBA texture bound to a fixed texture unit.
type Texture struct {
	ctx    *Context
	handle uint32
	unit   int
	size   image.Point
}

// NewTexture uploads the given image to a new texture on the given
// texture unit, with clamp-to-edge wrapping, linear filtering and
// mipmaps. The image rows are uploaded in order, so the first row
// becomes texture coordinate t=0.
func (c *Context) NewTexture(unit int, img *image.RGBA) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("gpu: nil texture image")
	}
	sz := img.Rect.Size()
	if sz.X <= 0 || sz.Y <= 0 {
		return nil, fmt.Errorf("gpu: empty texture image %v", sz)
	}
	if unit < 0 {
		return nil, fmt.Errorf("gpu: invalid texture unit %d", unit)
	}
	handle := c.drv.GenTexture()
	if err := mustNotZero("texture", handle); err != nil {
		return nil, err
	}
	tx := &Texture{ctx: c, handle: handle, unit: unit, size: sz}
	tx.Bind()
	pix := img.Pix
	if img.Stride != sz.X*4 {
		pix = make([]byte, 0, sz.X*sz.Y*4)
		for y := 0; y < sz.Y; y++ {
			off := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
			pix = append(pix, img.Pix[off:off+sz.X*4]...)
		}
	}
	c.drv.TexImage2D(int32(sz.X), int32(sz.Y), pix)
	c.drv.TexParameter(TextureWrapS, ClampToEdge)
	c.drv.TexParameter(TextureWrapT, ClampToEdge)
	c.drv.TexParameter(TextureMinFilter, LinearMipmapLinear)
	c.drv.TexParameter(TextureMagFilter, Linear)
	c.drv.GenerateMipmap()
	return tx, nil
}

// Handle returns the driver handle of the texture.
func (tx *Texture) Handle() uint32 {
	return tx.handle
}

// Unit returns the texture unit the texture binds to, which is the
// value to upload to its sampler uniform.
func (tx *Texture) Unit() int {
	return tx.unit
}

// Size returns the texture size in pixels.
func (tx *Texture) Size() image.Point {
	return tx.size
}

// Bind activates the texture unit and binds the texture to it.
func (tx *Texture) Bind() {
	tx.ctx.drv.ActiveTexture(uint32(tx.unit))
	tx.ctx.drv.BindTexture(tx.handle)
}

// Delete deletes the texture. It is safe to call more than once.
func (tx *Texture) Delete() {
	if tx.handle == 0 {
		return
	}
	tx.ctx.drv.DeleteTexture(tx.handle)
	tx.handle = 0
}

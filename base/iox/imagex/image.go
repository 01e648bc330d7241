// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package imagex

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
)

// CloneAsRGBA returns an RGBA copy of the supplied image,
// with its bounds translated to start at the origin.
func CloneAsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	bounds := src.Bounds()
	img := image.NewRGBA(image.Rectangle{Max: bounds.Size()})
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)
	return img
}

// AsRGBA returns the image as an RGBA: if it already is one
// starting at the origin, then it returns that image directly.
// Otherwise it returns a clone.
func AsRGBA(src image.Image) *image.RGBA {
	if src == nil {
		return nil
	}
	if rgba, ok := src.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	return CloneAsRGBA(src)
}

// FlipVertical returns an RGBA copy of the image with its rows in
// reverse order, which is the row order OpenGL expects for texture
// uploads (first row at the bottom).
func FlipVertical(src image.Image) *image.RGBA {
	return transform.FlipV(src)
}

// Copyright (c) 2023, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package imagex opens, decodes and prepares images for use as
// GPU textures.
package imagex

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Formats are the supported image encoding / decoding formats
type Formats int32

// The supported image encoding formats
const (
	None Formats = iota
	PNG
	JPEG
	GIF
	TIFF
	BMP
	WebP
)

var formatNames = [...]string{"none", "png", "jpeg", "gif", "tiff", "bmp", "webp"}

func (f Formats) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Formats(%d)", int32(f))
	}
	return formatNames[f]
}

// headerSize is the number of leading bytes needed for content sniffing.
const headerSize = 262

// FormatError is returned when a file is not an image in one of the
// supported [Formats].
type FormatError struct {
	// Filename is the file that was read, if known.
	Filename string

	// Detected is the MIME type that was detected, or "unknown".
	Detected string
}

func (e *FormatError) Error() string {
	name := e.Filename
	if name == "" {
		name = "image data"
	}
	return fmt.Sprintf("imagex: %s is not a supported image (detected %s)", name, e.Detected)
}

// ExtToFormat returns a Format based on a filename extension,
// which can start with a . or not
func ExtToFormat(ext string) (Formats, error) {
	if len(ext) == 0 {
		return None, errors.New("ExtToFormat: ext is empty")
	}
	if ext[0] == '.' {
		ext = ext[1:]
	}
	ext = strings.ToLower(ext)
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	case "webp":
		return WebP, nil
	}
	return None, fmt.Errorf("ExtToFormat: extension %q not recognized", ext)
}

// Open opens an image from the given filename.
// The format is detected from the file contents, not the
// extension, and is returned using the Formats enum.
// png, jpeg, gif, tiff, bmp, and webp are supported.
func Open(filename string) (image.Image, Formats, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, None, err
	}
	defer file.Close()
	im, f, err := Read(file)
	var ferr *FormatError
	if errors.As(err, &ferr) {
		ferr.Filename = filename
	}
	return im, f, err
}

// Read reads an image from the given reader.
// The leading bytes are sniffed with [filetype] so that non-image
// data produces a [FormatError] instead of a decoder error.
func Read(r io.Reader) (image.Image, Formats, error) {
	br := bufio.NewReaderSize(r, headerSize*2)
	head, err := br.Peek(headerSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, None, err
	}
	kind, _ := filetype.Match(head)
	f, ferr := ExtToFormat(kind.Extension)
	if kind == filetype.Unknown || ferr != nil {
		detected := kind.MIME.Value
		if detected == "" {
			detected = "unknown"
		}
		return nil, None, &FormatError{Detected: detected}
	}
	im, _, err := image.Decode(br)
	if err != nil {
		return nil, f, fmt.Errorf("imagex: decoding %s: %w", f, err)
	}
	return im, f, nil
}

// OpenTexture opens the given image file and returns it as an RGBA
// image in OpenGL row order (see [FlipVertical]).
func OpenTexture(filename string) (*image.RGBA, error) {
	im, _, err := Open(filename)
	if err != nil {
		return nil, err
	}
	return FlipVertical(im), nil
}

// Save saves the image to the given filename,
// with the format inferred from the filename.
// png, jpeg, gif, tiff, and bmp are supported.
func Save(im image.Image, filename string) error {
	ext := filepath.Ext(filename)
	f, err := ExtToFormat(ext)
	if err != nil {
		return err
	}
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()
	bw := bufio.NewWriter(file)
	if err := Write(im, bw, f); err != nil {
		return err
	}
	return bw.Flush()
}

// Write writes the image to the given writer using the given format.
// png, jpeg, gif, tiff, and bmp are supported.
func Write(im image.Image, w io.Writer, f Formats) error {
	switch f {
	case PNG:
		return png.Encode(w, im)
	case JPEG:
		return jpeg.Encode(w, im, &jpeg.Options{Quality: 90})
	case GIF:
		return gif.Encode(w, im, nil)
	case TIFF:
		return tiff.Encode(w, im, nil)
	case BMP:
		return bmp.Encode(w, im)
	default:
		return fmt.Errorf("imagex.Write: format %q not valid", f)
	}
}

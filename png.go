// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"errors"
	"image/png"
	"io"
)

// Errors returned by the encoders.
var (
	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// maxPixels limits the side of the rendered image.
const maxPixels = 32767 * 8

// check validates the rendering parameters of c.
func (c *Code) check() error {
	if !c.isValid() {
		return ErrArgs
	}
	if c.Scale*(c.Size+c.Border*2) > maxPixels {
		return ErrLargeImage
	}
	return nil
}

// PNG returns a PNG image displaying the code, or nil if c cannot be
// rendered.
func (c *Code) PNG() []byte {
	var buf bytes.Buffer
	if err := c.EncodePNG(&buf); err != nil {
		return nil
	}
	return buf.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
// The image is 1-bit paletted.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	if err := c.check(); err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, c.Image())
}

// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details.
package coding // import "github.com/qrkit/qr/coding"

import "github.com/qrkit/qr/gf256"

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version Version // QR code version
	Level   Level   // error correction level
	Mask    Mask    // mask pattern
}

// Black reports whether the pixel at x, y is black.  Pixels outside
// the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		get(c.Bitmap, c.Stride, x, y)
}

// Encoder encodes a QR code.
type Encoder struct {
	p    *Plan
	b    *Bits
	mask Mask
}

func newEncoder(p *Plan) *Encoder {
	return &Encoder{p: p, b: NewBits(p.Version), mask: AutoMask}
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	return newEncoder(p), nil
}

// SetMask forces the mask pattern used by Code.  AutoMask restores
// selection by penalty.
func (e *Encoder) SetMask(m Mask) error {
	if m != AutoMask && !m.IsValid() {
		return &InvalidParameterError{"mask", int(m)}
	}
	e.mask = m
	return nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		if err := t.Encode(e.b, class); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards text written to e.
func (e *Encoder) Reset() { e.b.Reset() }

// xor xors a and b into dst.  a and b may not be shorter than dst.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

// Code returns a QR code containing data written to e.  Text written
// to e is kept, so Code may be called again.
func (e *Encoder) Code() (*Code, error) {
	p := e.p
	if n := e.b.Bits(); n > p.DataBits {
		return nil, &DataTooLongError{n, p.Level, p.Version}
	}
	b := e.b.clone()
	b.AddCheckBytes(p.Version, p.Level)
	bits := b.Permute(p.Version, p.Level)
	// Now we have the checksum bytes and the data bytes.
	// Construct the bitmap consisting of data and checksum bits.
	data := make([]byte, p.Size*p.Stride)
	p.Serialise(bits, data)

	c := &Code{
		Bitmap:  make([]byte, len(data)),
		Size:    p.Size,
		Stride:  p.Stride,
		Version: p.Version,
		Level:   p.Level,
		Mask:    e.mask,
	}
	if e.mask != AutoMask {
		xor(c.Bitmap, data, p.Pattern[e.mask])
		return c, nil
	}

	// Apply masks to the bitmap to construct the actual codes.
	// Choose the code with the smallest penalty, the first on ties.
	best := make([]byte, len(data)) // best bitmap so far
	pen := -1
	for m, v := range p.Pattern {
		// set bitmap to data bits xor plan bits
		xor(c.Bitmap, data, v)
		if t := c.Penalties().Total(); pen < 0 || t < pen {
			best, pen, c.Bitmap = c.Bitmap, t, best
			c.Mask = Mask(m)
		}
	}
	c.Bitmap = best
	return c, nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with p's version and level.
func (p *Plan) Encode(text ...Segment) (*Code, error) {
	return newEncoder(p).Encode(text...)
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}

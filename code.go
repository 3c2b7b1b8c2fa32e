// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"image"
	"image/color"
	"strings"

	"github.com/qrkit/qr/coding"
)

// A Code is a square pixel grid.
// It implements image.Image and direct PNG encoding.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version coding.Version // QR code version
	Level   Level          // error correction level
	Mask    coding.Mask    // mask pattern
	Mode    coding.Mode    // mode of the encoded text

	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Palette *[2]color.Color // background and foreground colours or nil
	Reverse bool            // swap background and foreground
}

// Black reports whether the pixel at x, y is black.  Pixels outside
// the code are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x/8]&(1<<uint(7-x&7)) != 0
}

// Matrix returns the code as rows of pixels, true for black.
func (c *Code) Matrix() [][]bool {
	m := make([][]bool, c.Size)
	row := make([]bool, c.Size*c.Size)
	for y := range m {
		m[y], row = row[:c.Size:c.Size], row[c.Size:]
		for x := range m[y] {
			m[y][x] = c.Black(x, y)
		}
	}
	return m
}

func (c *Code) isValid() bool {
	return c.Scale >= 1 && c.Border >= 0 && c.Size > 0
}

// String returns the code with its quiet zone as lines of Unicode
// half blocks, two pixels per character.  White pixels are drawn
// with the glyph, black ones are left blank, which suits a terminal
// with light text on a dark background.  Reverse swaps the colours.
func (c *Code) String() string {
	bord := max(c.Border, 0)
	end := c.Size + bord
	var b strings.Builder
	b.Grow((end + bord) * (end + bord + 1) * 3 / 2)
	for y := -bord; y < end; y += 2 {
		for x := -bord; x < end; x++ {
			n := 0
			if c.Black(x, y) != c.Reverse {
				n = 2
			}
			if y+1 >= end || c.Black(x, y+1) != c.Reverse {
				n++
			}
			b.WriteString([4]string{"█", "▀", "▄", " "}[n])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// palette returns the background and foreground colours, swapped if
// c.Reverse is set.
func (c *Code) palette() color.Palette {
	pal := color.Palette{color.Gray{0xff}, color.Gray{0}}
	if c.Palette != nil {
		pal = color.Palette{c.Palette[0], c.Palette[1]}
	}
	if c.Reverse {
		pal[0], pal[1] = pal[1], pal[0]
	}
	return pal
}

// Image returns an image displaying the code with c.Scale image pixels
// per QR pixel and a quiet zone of c.Border QR pixels.  Scale values
// below 1 are treated as 1 and negative borders as 0.
func (c *Code) Image() image.Image {
	cc := *c
	cc.Scale = max(cc.Scale, 1)
	cc.Border = max(cc.Border, 0)
	return &codeImage{&cc, cc.palette()}
}

// codeImage implements image.PalettedImage for Code.
type codeImage struct {
	*Code
	pal color.Palette
}

func (c *codeImage) Bounds() image.Rectangle {
	d := (c.Size + 2*c.Border) * c.Scale
	return image.Rect(0, 0, d, d)
}

func (c *codeImage) ColorModel() color.Model {
	return c.pal
}

func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if x < 0 || y < 0 {
		return 0
	}
	if c.Black(x/c.Scale-c.Border, y/c.Scale-c.Border) {
		return 1
	}
	return 0
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

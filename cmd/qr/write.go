// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/qrkit/qr"
)

// outputName returns the name of the i'th output file, or fn+ext if
// i is negative.
func outputName(fn, ext string, i int) string {
	if i >= 0 {
		return fmt.Sprintf("%s-%02d%s", fn, i+1, ext)
	}
	return fn + ext
}

func write(i int, c *qr.Code) {
	open := g.fn != ""
	w := os.Stdout
	fn := outputName(g.fn, g.fext, i)
	if open {
		if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
			log.Fatalln(err)
		}
		var err error
		if w, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	c.Border = g.border
	err := encoders[g.format](c, w)
	if open && err == nil {
		err = w.Close()
	}
	if err != nil {
		log.Fatalln(err)
	}
	if open {
		log.Printf("%s: version %v-%v, mask %d, %v mode",
			fn, c.Version, c.Level, c.Mask, c.Mode)
	}
}

// psColour returns c as PostScript setrgbcolor operands.
func psColour(c color.Color) string {
	r, gr, b, _ := c.RGBA()
	return fmt.Sprintf("%.3g %.3g %.3g",
		float64(r)/0xffff, float64(gr)/0xffff, float64(b)/0xffff)
}

func eps(c *qr.Code, ww io.Writer) error {
	const midx, midy = 306, 396
	w := bufio.NewWriter(ww)
	siz := c.Size
	scale := c.Scale
	bord := c.Border
	if scale < 1 || bord < 0 {
		return qr.ErrArgs
	}
	xorig := (midx*2 - (siz+2*bord)*scale) / 2
	yorig := (midy*2 - (siz+2*bord)*scale) / 2
	fmt.Fprintf(w, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: qr https://github.com/qrkit/qr
%%%%Title: QR Code
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(siz*scale)/2, midy+float64((siz-1)*scale)/2-1,
		scale)
	if c.Palette != nil || c.Reverse {
		pal := [2]color.Color{color.White, color.Black}
		if c.Palette != nil {
			pal = *c.Palette
		}
		if c.Reverse {
			pal[0], pal[1] = pal[1], pal[0]
		}
		// The background is a single line as wide as the image.
		fmt.Fprintf(w, `gsave
newpath %d %d moveto
%d dup neg scale
%s setrgbcolor
1 0 rlineto stroke
grestore
%s setrgbcolor
`,
			-bord, siz/2, siz+2*bord, psColour(pal[0]), psColour(pal[1]))
	}
	fmt.Fprintln(w, "newpath 0 0 moveto")
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			s := x
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			b := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(w, "%d %d p ", x-b, b-s)
		}
		fmt.Fprintln(w, "r")
	}
	w.WriteString("stroke grestore\nend\n%%Trailer\n")
	return w.Flush()
}

// ascii writes c as text, two characters per pixel, with "#" for
// black pixels.
func ascii(c *qr.Code, w io.Writer) error {
	siz := c.Size
	bord := max(c.Border, 0)
	pix := siz + 2*bord
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			var p byte = ' '
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err := w.Write(b)
	return err
}

// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"io"
	"strconv"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported.
func (c *Code) EncodePBM(w io.Writer) error {
	if err := c.check(); err != nil {
		return err
	}
	b := bufio.NewWriter(w)
	scale, bord := c.Scale, c.Border
	length := scale * (c.Size + bord*2)
	ls := strconv.Itoa(length)
	if _, err := b.WriteString("P4\n" + ls + " " + ls + "\n"); err != nil {
		return err
	}
	// In PBM 1 is black.  Padding bits at the end of a row are ignored.
	row := make([]byte, (length+7)/8)
	for y := -bord; y < c.Size+bord; y++ {
		pbmRow(row, c, y)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}

// pbmRow fills row with QR pixel row y of c, scaled and bordered.
func pbmRow(row []byte, c *Code, y int) {
	clear(row)
	x := -c.Border
	for i := 0; x < c.Size+c.Border; x++ {
		black := c.Black(x, y) != c.Reverse
		for end := i + c.Scale; i < end; i++ {
			if black {
				row[i>>3] |= 0x80 >> (i & 7)
			}
		}
	}
}

// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"math/bits"
	"sync"
)

// A Mask is a QR mask pattern number.
type Mask int

// AutoMask selects the mask pattern with the lowest penalty.
const AutoMask Mask = -1

// IsValid reports whether m is a mask pattern number.
func (m Mask) IsValid() bool { return 0 <= m && m < 8 }

// Mask patterns, i is the row and j the column.  Data pixels are
// inverted where the function returns true.
//
//	0: ▄▀▄▀▄▀▄▀▄▀▄▀  1: ▄▄▄▄▄▄▄▄▄▄▄▄  2:  ██ ██ ██ ██  3: ▄█▀▄█▀▄█▀▄█▀
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     ▀▄█▀▄█▀▄█▀▄█
//	   ▄▀▄▀▄▀▄▀▄▀▄▀     ▄▄▄▄▄▄▄▄▄▄▄▄      ██ ██ ██ ██     █▀▄█▀▄█▀▄█▀▄
//
//	4:    ███   ███  5:  ▄▄▄▄▄ ▄▄▄▄▄  6:    ▄▄▄   ▄▄▄  7: ▄█▄▀ ▀▄█▄▀ ▀
//	   ███   ███         █▀▄▀█ █▀▄▀█      ▄▀▄ █ ▄▀▄ █     ▄▀█▀▄ ▄▀█▀▄
//	      ███   ███      ██▄██ ██▄██      █▄▄▀  █▄▄▀      ▄  ▀██▄  ▀██
var maskFunc = [8]func(i, j int) bool{
	func(i, j int) bool { return (i+j)%2 == 0 },
	func(i, j int) bool { return i%2 == 0 },
	func(i, j int) bool { return j%3 == 0 },
	func(i, j int) bool { return (i+j)%3 == 0 },
	func(i, j int) bool { return (i/2+j/3)%2 == 0 },
	func(i, j int) bool { return i*j%2+i*j%3 == 0 },
	func(i, j int) bool { return (i*j%2+i*j%3)%2 == 0 },
	func(i, j int) bool { return ((i+j)%2+i*j%3)%2 == 0 },
}

// Format and version information BCH codes.
const (
	formatPoly  = 0x537  // x^10 + x^8 + x^5 + x^4 + x^2 + x + 1
	formatMask  = 0x5412 // XORed with format information
	versionPoly = 0x1f25 // x^12 + x^11 + x^10 + x^9 + x^8 + x^5 + x^2 + 1
)

// bch returns v followed by the remainder of v·x^n divided by poly,
// poly being of degree n.
func bch(v, poly uint32, n int) uint32 {
	rem := v
	for i := 0; i < n; i++ {
		rem = rem<<1 ^ (rem>>(n-1)&1)*poly
	}
	return v<<n | rem
}

// FormatBits returns the 15 bit format information for the given level
// and mask: 2 level bits and 3 mask bits, BCH(15,5) protected and
// XORed with 0x5412.
func FormatBits(l Level, m Mask) uint16 {
	return uint16(bch(l.formatBits()<<3|uint32(m), formatPoly, 10) ^
		formatMask)
}

// VersionBits returns the 18 bit version information for v, BCH(18,6)
// protected.  Only versions 7 and above carry version information.
func VersionBits(v Version) uint32 {
	return bch(uint32(v), versionPoly, 12)
}

// ParseFormat decodes the 15 bit format information fb, correcting up
// to 3 bit errors.  The boolean is false if fb is more than 3 bits
// away from any valid format.
func ParseFormat(fb uint16) (Level, Mask, bool) {
	best, dist := 0, 16
	for i := 0; i < 32; i++ {
		l, m := Level(i>>3), Mask(i&7)
		if d := bits.OnesCount16(fb ^ FormatBits(l, m)); d < dist {
			best, dist = i, d
		}
	}
	if dist > 3 {
		return 0, 0, false
	}
	return Level(best >> 3), Mask(best & 7), true
}

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of pixels on a side
	Stride   int // number of bytes per bitmap row

	Map     []byte    // pixel map: 0 is data or checksum, 1 is other
	Pattern [8][]byte // function patterns, format and mask by mask number
}

// NewPlan returns a Plan for a QR code with the given version and level.
// The Plan may be modified by the caller.
func NewPlan(version Version, level Level) (*Plan, error) {
	pp, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	p := *pp
	n := len(pp.Map)
	bitmap := make([]byte, n*(len(p.Pattern)+1))
	p.Map, bitmap = bitmap[:n], bitmap[n:]
	copy(p.Map, pp.Map)
	for i := range p.Pattern {
		p.Pattern[i], bitmap = bitmap[:n], bitmap[n:]
		copy(p.Pattern[i], pp.Pattern[i])
	}
	return &p, nil
}

// Plans shared by encoders.  A Plan is created the first time a
// combination of version and level is used.  Each plan holds 9
// bitmaps, from 369 bytes for version 1 to 36 KB for version 40.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version][level], creating it if needed.
// The Plan must not be modified.
func makePlan(version Version, level Level) (*Plan, error) {
	if !version.IsValid() {
		return nil, &InvalidParameterError{"version", int(version)}
	}
	if !level.IsValid() {
		return nil, &InvalidParameterError{"level", int(level)}
	}
	p := &plans[version][level]
	p.once.Do(func() {
		pp := vplan(version, level)
		for mask := range pp.Pattern {
			fplan(Mask(mask), pp)
			mplan(Mask(mask), pp)
		}
		p.p = pp
	})
	return p.p, nil
}

func get(b []byte, stride, x, y int) bool {
	return b[y*stride+x>>3]&(0x80>>(x&7)) != 0
}

func set(b []byte, stride, x, y int, v bool) {
	if v {
		b[y*stride+x>>3] |= 0x80 >> (x & 7)
	} else {
		b[y*stride+x>>3] &^= 0x80 >> (x & 7)
	}
}

// plan is a Plan under construction.  Pixels drawn by reserve are
// marked in the map and coloured in Pattern[0].
type plan struct{ *Plan }

func (p plan) reserve(x, y int, black bool) {
	set(p.Map, p.Stride, x, y, true)
	set(p.Pattern[0], p.Stride, x, y, black)
}

// box draws a square of radius r centred at x, y.  Pixels are black at
// distances for which black returns true.  Pixels outside the code are
// skipped.
func (p plan) box(x, y, r int, black func(d int) bool) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			xx, yy := x+dx, y+dy
			if 0 <= xx && xx < p.Size && 0 <= yy && yy < p.Size {
				p.reserve(xx, yy, black(max(abs(dx), abs(dy))))
			}
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// vplan creates a Plan for the given version with function patterns
// drawn into each Pattern.
func vplan(v Version, l Level) *Plan {
	siz := v.Size()
	stride := (siz + 7) >> 3
	n := stride * siz
	bitmap := make([]byte, n*(1+len(Plan{}.Pattern)))
	p := plan{&Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBits(l),
		Size:     siz,
		Stride:   stride,
	}}
	p.Map, bitmap = bitmap[:n], bitmap[n:]
	for i := range p.Pattern {
		p.Pattern[i], bitmap = bitmap[:n], bitmap[n:]
	}

	// Timing markers (overwritten by boxes).
	for i := 0; i < siz; i++ {
		p.reserve(6, i, i%2 == 0)
		p.reserve(i, 6, i%2 == 0)
	}

	// Position boxes with separators, clipped at the edges.
	finder := func(d int) bool { return d != 2 && d != 4 }
	p.box(3, 3, 4, finder)
	p.box(siz-4, 3, 4, finder)
	p.box(3, siz-4, 4, finder)

	// Alignment boxes, except where they would overlap position boxes.
	if c := v.AlignmentCenters(); c != nil {
		last := c[len(c)-1]
		for _, y := range c {
			for _, x := range c {
				if x == 6 && y == 6 || x == 6 && y == last ||
					x == last && y == 6 {
					continue
				}
				p.box(x, y, 2, func(d int) bool { return d != 1 })
			}
		}
	}

	// Format information areas, filled in by fplan.
	for i := 0; i < 9; i++ {
		if i != 6 {
			p.reserve(8, i, false)
			p.reserve(i, 8, false)
		}
	}
	for i := 0; i < 8; i++ {
		p.reserve(siz-1-i, 8, false)
		p.reserve(8, siz-1-i, false)
	}

	// Version information: 6x3 pixels at (0, siz-11),
	// 3x6 at (siz-11, 0).
	if v >= 7 {
		vb := VersionBits(v)
		for i := 0; i < 18; i++ {
			a, b := siz-11+i%3, i/3
			black := vb>>i&1 != 0
			p.reserve(a, b, black)
			p.reserve(b, a, black)
		}
	}

	// One lonely black pixel.
	p.reserve(8, siz-8, true)

	for _, b := range p.Pattern[1:] {
		copy(b, p.Pattern[0])
	}
	return p.Plan
}

// fplan sets the format bits for mask in Pattern[mask].
func fplan(mask Mask, p *Plan) {
	b, stride, siz := p.Pattern[mask], p.Stride, p.Size
	fb := FormatBits(p.Level, mask)
	for i := 0; i < 15; i++ {
		if fb>>i&1 == 0 {
			continue
		}
		// around the top left position box
		switch {
		case i < 6:
			set(b, stride, 8, i, true)
		case i < 8:
			set(b, stride, 8, i+1, true)
		case i == 8:
			set(b, stride, 7, 8, true)
		default:
			set(b, stride, 14-i, 8, true)
		}
		// split between the other two
		if i < 8 {
			set(b, stride, siz-1-i, 8, true)
		} else {
			set(b, stride, 8, siz-15+i, true)
		}
	}
}

// mplan applies mask to the data area of Pattern[mask].
func mplan(mask Mask, p *Plan) {
	b, f := p.Pattern[mask], maskFunc[mask]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !get(p.Map, p.Stride, x, y) && f(y, x) {
				set(b, p.Stride, x, y, true)
			}
		}
	}
}

// Serialise writes bits from s to the bitmap in zigzag scan order:
// pairs of columns from right to left, alternately upwards and
// downwards, skipping the vertical timing strip and pixels marked in
// the map.  Pixels past the end of s are left white.
func (p *Plan) Serialise(s BitStream, bitmap []byte) {
	siz, stride := p.Size, p.Stride
	up := true
	for right := siz - 1; right >= 1; right -= 2 {
		if right == 6 {
			right = 5
		}
		for n := 0; n < siz; n++ {
			y := n
			if up {
				y = siz - 1 - n
			}
			for x := right; x >= right-1; x-- {
				if !get(p.Map, stride, x, y) && s.Next() != 0 {
					set(bitmap, stride, x, y, true)
				}
			}
		}
		up = !up
	}
}

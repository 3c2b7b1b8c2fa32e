// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/qrkit/qr/gf256"

// Bits is a bit buffer written most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version.
func NewBits(v Version) *Bits {
	return &Bits{b: make([]byte, 0, v.Bytes())}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written to b.
func (b *Bits) Bits() int {
	return b.nbit
}

// Bytes returns the contents of b.  It panics if b does not end on a
// byte boundary.
func (b *Bits) Bytes() []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

func (b *Bits) clone() *Bits {
	c := make([]byte, len(b.b), cap(b.b))
	copy(c, b.b)
	return &Bits{b: c, nbit: b.nbit}
}

// Add adds n zero bytes to b and returns the added slice.
func (b *Bits) Add(n int) []byte {
	if b.nbit%8 != 0 {
		panic("qr: fractional byte")
	}
	start := len(b.b)
	b.b = append(b.b, make([]byte, n)...)
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write writes the nbit low order bits of v to b, nbit <= 32.
func (b *Bits) Write(v uint32, nbit int) {
	if nbit == 0 {
		return
	}
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// Pad adds up to 4 terminator bits to b, zero fills it to a byte
// boundary and pads it to n bits with alternating 0xec and 0x11.
// n must be a multiple of 8.
func (b *Bits) Pad(n int) {
	if b.nbit > n {
		panic("qr: too much data")
	}
	b.Write(0, min(4, n-b.nbit))
	b.Write(0, -b.nbit&7)
	for pad := uint32(0xec); b.nbit < n; pad ^= 0xec ^ 0x11 {
		b.Write(pad, 8)
	}
}

// AddCheckBytes adds terminator, padding and error correction bytes to
// b for the given QR version and level.  Blocks are laid out one after
// another, data first, short blocks before long ones.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nd := v.DataBytes(l)
	b.Pad(nd * 8)
	nblock, check := v.Blocks(l)
	dat := b.Bytes()
	db := nd / nblock
	short := nblock - nd%nblock
	rs := gf256.NewRSEncoder(Field, check)
	for i := 0; i < nblock; i++ {
		if i == short {
			db++
		}
		rs.ECC(dat[:db], b.Add(check))
		dat = dat[db:]
	}
	if len(b.b) != v.Bytes() {
		panic("qr: internal error")
	}
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  Blocks one byte longer than the rest come last.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	short := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= short {
			extra[i-short] = src[0]
			src = src[1:]
		}
	}
}

// Permute returns a BitStream reading data and error correction bits
// in b with blocks interleaved for the given QR code version and level.
func (b *Bits) Permute(v Version, l Level) BitStream {
	src := b.Bytes()
	if len(src) != v.Bytes() {
		panic("qr: wrong data length")
	}
	nblock, _ := v.Blocks(l)
	if nblock == 1 {
		return NewBitStream(src)
	}
	dst := make([]byte, len(src))
	nd := v.DataBytes(l)
	interleave(dst[:nd], src[:nd], nblock)
	interleave(dst[nd:], src[nd:], nblock)
	return NewBitStream(dst)
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Next returns the next bit from s as 0 or 1.
// Past end of buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}

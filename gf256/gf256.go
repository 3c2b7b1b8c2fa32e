// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and a Reed-Solomon encoder over it.
package gf256 // import "github.com/qrkit/qr/gf256"

import (
	"strconv"
	"sync"
)

// A Field represents an instance of GF(256) defined by a specific
// polynomial.  A Field is safe for concurrent use.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte // exp[i+255] == exp[i]

	gen [256]struct { // generator polynomials by degree
		once sync.Once
		p    []byte
	}
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The Reed-Solomon encoding in QR codes uses
// polynomial 0x11d with generator 2.
//
// The choice of generator α only matters for the Exp and Log
// operations.  NewField panics if poly is not a primitive polynomial
// of degree 8 or α does not generate the multiplicative group.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 || reducible(poly) {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}
	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	return &f
}

// nbit returns the number of significant bits in p.
func nbit(p int) uint {
	n := uint(0)
	for ; p > 0; p >>= 1 {
		n++
	}
	return n
}

// polyDiv divides the polynomial p by q and returns the remainder.
func polyDiv(p, q int) int {
	np := nbit(p)
	nq := nbit(q)
	for ; np >= nq; np-- {
		if p&(1<<(np-1)) != 0 {
			p ^= q << (np - nq)
		}
	}
	return p
}

// mul returns the product x*y mod poly, a GF(256) multiplication.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// reducible reports whether p is reducible.
func reducible(p int) bool {
	// Multiplying n-bit * n-bit produces (2n-1)-bit,
	// so if p is reducible, one of its factors must be
	// of np/2+1 bits or fewer.
	np := nbit(p)
	for q := 2; q < 1<<(np/2+1); q++ {
		if polyDiv(p, q) == 0 {
			return true
		}
	}
	return false
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y byte) byte {
	return x ^ y
}

// Exp returns the base-α exponential of e in the field.
// If e < 0, Exp returns 0.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return 0
	}
	return f.exp[e%255]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[255-f.log[x]]
}

// Mul returns the product of x and y in the field.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// Div returns x divided by y in the field.  Div panics if y == 0.
func (f *Field) Div(x, y byte) byte {
	if y == 0 {
		panic("gf256: division by zero")
	}
	if x == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+255-int(f.log[y])]
}

// generator returns the Reed-Solomon generator polynomial of degree d,
// (x - α⁰)(x - α¹)...(x - α^(d-1)), coefficients in decreasing order of
// power.  It is computed on first use and must not be modified.
func (f *Field) generator(d int) []byte {
	g := &f.gen[d]
	g.once.Do(func() {
		p := make([]byte, 1, d+1)
		p[0] = 1
		for i := 0; i < d; i++ {
			// p *= x + αⁱ
			r := f.Exp(i)
			p = append(p, 0)
			for j := len(p) - 1; j > 0; j-- {
				p[j] ^= f.Mul(p[j-1], r)
			}
		}
		g.p = p
	})
	return g.p
}

// An RSEncoder implements Reed-Solomon encoding over a given field
// using a given number of error correction bytes.  An RSEncoder is
// immutable and safe for concurrent use.
type RSEncoder struct {
	f   *Field
	c   int
	gen []byte
}

// NewRSEncoder returns a new Reed-Solomon encoder over the given field
// and number of error correction bytes.  NewRSEncoder panics unless
// 0 <= c < 256.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	if c < 0 || c > 255 {
		panic("gf256: invalid number of check bytes: " + strconv.Itoa(c))
	}
	return &RSEncoder{f: f, c: c, gen: f.generator(c)}
}

// Check returns the number of error correction bytes rs computes.
func (rs *RSEncoder) Check() int { return rs.c }

// ECC writes to check the error correction bytes for data: the
// remainder of data·x^c divided by the generator polynomial, highest
// power first.  check must be at least c bytes long.
func (rs *RSEncoder) ECC(data []byte, check []byte) {
	c := rs.c
	if len(check) < c {
		panic("gf256: invalid check byte length")
	}
	if c == 0 {
		return
	}
	p := make([]byte, len(data)+c)
	copy(p, data)
	f, gen := rs.f, rs.gen[1:]
	for i := range data {
		k := p[i]
		if k == 0 {
			continue
		}
		q := p[i+1 : i+1+c]
		for j, g := range gen {
			q[j] ^= f.Mul(k, g)
		}
	}
	copy(check, p[len(data):])
}

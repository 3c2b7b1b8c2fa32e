// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// Penalty points.
//
//   - Runs: for non-overlapping runs of n pixels of the same colour
//     in a row or column, n >= 5 -> n-2
//   - Boxes: for possibly overlapping 2x2 boxes of the same colour -> 3
//   - Finders: for possibly overlapping finder-like patterns in a row or
//     column -> 40.  The pattern is 1011101 with 0000 before or after
//     it; pixels outside the code count as white.
//   - Balance: for n% of black pixels -> 10*(ceiling(abs(n-50)/5)-1)
//
// https://www.nayuki.io/page/creating-a-qr-code-step-by-step
const (
	MinRun    = 5  // Runs:     minimum run length
	RunPDelta = -2 // Runs:     add to run length
	BoxPP     = 3  // Boxes:    points per box
	FindPP    = 40 // Finders:  points per pattern
	BalPP     = 10 // Balance:  points per 5% step

	// finder patterns in a 12 pixel window
	findB = 0b0000_1011101_0 // quiet zone before
	findA = 0b0_1011101_0000 // quiet zone after
)

// Penalties holds the mask penalty of a code by rule.
type Penalties struct {
	Runs    int
	Boxes   int
	Finders int
	Balance int
}

// Total returns the sum of the penalties.
func (p Penalties) Total() int {
	return p.Runs + p.Boxes + p.Finders + p.Balance
}

// line adds the run and finder penalties of line to p.
func (p *Penalties) line(line []bool) {
	r := 0
	for i, v := range line {
		if i > 0 && v == line[i-1] {
			r++
			continue
		}
		if r >= MinRun {
			p.Runs += r + RunPDelta
		}
		r = 1
	}
	if r >= MinRun {
		p.Runs += r + RunPDelta
	}

	// slide over the line with 4 white pixels on either side
	var pat uint16
	for i := 0; i < len(line)+8; i++ {
		pat = pat << 1 & 0xfff
		if x := i - 4; 0 <= x && x < len(line) && line[x] {
			pat |= 1
		}
		if i >= 11 && (pat == findB || pat == findA) {
			p.Finders += FindPP
		}
	}
}

// Penalties returns the penalty points for c, used for choosing the
// mask.  Lower is better.
func (c *Code) Penalties() Penalties {
	var p Penalties
	siz := c.Size
	line := make([]bool, siz)
	black := 0
	for y := 0; y < siz; y++ {
		for x := range line {
			line[x] = c.Black(x, y)
			if line[x] {
				black++
			}
		}
		p.line(line)
	}
	for x := 0; x < siz; x++ {
		for y := range line {
			line[y] = c.Black(x, y)
		}
		p.line(line)
	}
	for y := 1; y < siz; y++ {
		for x := 1; x < siz; x++ {
			b := c.Black(x, y)
			if c.Black(x-1, y) == b && c.Black(x, y-1) == b &&
				c.Black(x-1, y-1) == b {
				p.Boxes += BoxPP
			}
		}
	}
	// k is the number of full 5% steps away from 50%.
	if sq := siz * siz; sq > 0 {
		k := (abs(black*20-sq*10)+sq-1)/sq - 1
		p.Balance = max(k, 0) * BalPP
	}
	return p
}

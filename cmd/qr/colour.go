// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pborman/getopt/v2"
	"golang.org/x/image/colornames"
)

type rgba struct {
	R, G, B, A uint8
}

func (c *rgba) String() string {
	switch {
	case *c == (rgba{0x00, 0x00, 0x00, 0xff}):
		return "black"
	case *c == (rgba{0xff, 0xff, 0xff, 0xff}):
		return "white"
	case c.A == 0xff:
		return fmt.Sprintf("%02x%02x%02x", c.R, c.G, c.B)
	default:
		return fmt.Sprintf("%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
}

// Set parses s as an SVG colour name or as 3, 4, 6 or 8 hex digits
// (RGB, RGBA, RRGGBB, RRGGBBAA), optionally preceded by "#".
func (c *rgba) Set(s string, _ getopt.Option) error {
	g.colSet = true
	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if v, ok := colornames.Map[name]; ok {
		*c = rgba(v)
		return nil
	}
	hex := strings.TrimPrefix(s, "#")
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fmt.Errorf("%q: bad colour spec", s)
	}
	switch len(hex) {
	case 3:
		n = n<<4 | 0xf
		fallthrough
	case 4:
		var nn uint64
		for i := 0; i < 4; i++ {
			nn = nn<<8 | n>>12&0xf*0x11
			n <<= 4
		}
		n = nn
	case 6:
		n = n<<8 | 0xff
	case 8:
	default:
		return fmt.Errorf("%q: bad colour spec", s)
	}
	c.R, c.G, c.B, c.A = uint8(n>>24), uint8(n>>16), uint8(n>>8), uint8(n)
	return nil
}

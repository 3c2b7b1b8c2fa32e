// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.
const (
	Numeric      Mode = iota // numeric mode, digits 0-9
	Alphanumeric             // alphanumeric mode, 0-9 A-Z SP $%*+-./:
	Byte                     // byte mode, any data
	Latin1                   // byte mode, UTF-8 text encoded as ISO 8859-1
)

// modeEncoder implements a QR segment encoding.
//
// The encoder calls Encode3, Encode2 and Encode1 repeatedly as long as
// N source bytes are available, in descending order of N.  If all are
// nil, each byte is encoded as 8 bits.
type modeEncoder struct {
	name      string // name for error reporting
	indicator uint32 // 4 bit mode indicator

	// countLength lists lengths of the character count field in the
	// three QR version size classes.
	countLength [3]int

	// encodedLength returns the encoded data length in bits of a
	// valid string of the given length in bytes.
	encodedLength func(n int) int

	// valid reports whether the string is valid for the mode.
	valid func(string) bool

	// transform returns the string in the form written to the
	// code.  If nil, the original string is used.
	transform func(string) (string, bool)

	encode3 func([3]byte) (uint32, int)
	encode2 func([2]byte) (uint32, int)
	encode1 func(byte) (uint32, int)
}

// alphabet lists the alphanumeric mode characters by value.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"

// alpha maps bytes to alphanumeric values, -1 if not in alphabet.
var alpha [256]int8

func init() {
	for i := range alpha {
		alpha[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		alpha[alphabet[i]] = int8(i)
	}
}

// IsDigit reports whether c is encodable in numeric mode.
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsAlpha reports whether c is encodable in alphanumeric mode.
func IsAlpha(c byte) bool { return alpha[c] >= 0 }

func all(s string, f func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !f(s[i]) {
			return false
		}
	}
	return true
}

func isLatin1(s string) bool {
	for _, r := range s {
		// invalid UTF-8 decodes as utf8.RuneError
		if r > 0xff {
			return false
		}
	}
	return true
}

var modes = [...]modeEncoder{
	Numeric: {
		name:          "numeric",
		indicator:     1,
		countLength:   [3]int{10, 12, 14},
		encodedLength: func(n int) int { return (10*n + 2) / 3 },
		valid:         func(s string) bool { return all(s, IsDigit) },
		encode3: func(b [3]byte) (uint32, int) {
			return uint32(b[0]-'0')*100 + uint32(b[1]-'0')*10 +
				uint32(b[2]-'0'), 10
		},
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(b[0]-'0')*10 + uint32(b[1]-'0'), 7
		},
		encode1: func(b byte) (uint32, int) {
			return uint32(b - '0'), 4
		},
	},
	Alphanumeric: {
		name:          "alphanumeric",
		indicator:     2,
		countLength:   [3]int{9, 11, 13},
		encodedLength: func(n int) int { return (11*n + 1) / 2 },
		valid:         func(s string) bool { return all(s, IsAlpha) },
		encode2: func(b [2]byte) (uint32, int) {
			return uint32(alpha[b[0]])*45 + uint32(alpha[b[1]]), 11
		},
		encode1: func(b byte) (uint32, int) {
			return uint32(alpha[b]), 6
		},
	},
	Byte: {
		name:          "byte",
		indicator:     4,
		countLength:   [3]int{8, 16, 16},
		encodedLength: func(n int) int { return 8 * n },
	},
	Latin1: {
		name:          "latin-1",
		indicator:     4,
		countLength:   [3]int{8, 16, 16},
		encodedLength: func(n int) int { return 8 * n },
		valid:         isLatin1,
		transform: func(s string) (string, bool) {
			t, err := charmap.ISO8859_1.NewEncoder().String(s)
			return t, err == nil
		},
	},
}

func (mode Mode) encoder() *modeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if m := mode.encoder(); m != nil {
		return m.name
	}
	return strconv.Itoa(int(mode))
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	m := seg.Mode.encoder()
	return m != nil && (m.valid == nil || m.valid(seg.Text))
}

// count returns the number of characters in the encoded string.
func (seg Segment) count() int {
	if seg.Mode == Latin1 {
		return utf8.RuneCountInString(seg.Text)
	}
	return len(seg.Text)
}

// EncodedLength returns the encoded length in bits of seg in the
// given QR version size class, including the header.  EncodedLength
// returns 0 if and only if mode is invalid.  The segment is not
// validated.
func (seg Segment) EncodedLength(class int) int {
	m := seg.Mode.encoder()
	if m == nil {
		return 0
	}
	return 4 + m.countLength[class] + m.encodedLength(seg.count())
}

// Encode writes seg encoded for the given QR version size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	m := seg.Mode.encoder()
	if m == nil {
		return &InvalidParameterError{"mode", int(seg.Mode)}
	}
	s := seg.Text
	if m.valid != nil && !m.valid(s) {
		return &EncodingError{seg.Mode, seg.Text}
	}
	if m.transform != nil {
		var ok bool
		if s, ok = m.transform(s); !ok {
			return &EncodingError{seg.Mode, seg.Text}
		}
	}
	// header
	b.Write(m.indicator, 4)
	b.Write(uint32(len(s)), m.countLength[class])
	// data
	if m.encode3 != nil {
		for ; len(s) >= 3; s = s[3:] {
			b.Write(m.encode3([3]byte{s[0], s[1], s[2]}))
		}
	}
	if m.encode2 != nil {
		for ; len(s) >= 2; s = s[2:] {
			b.Write(m.encode2([2]byte{s[0], s[1]}))
		}
	}
	if m.encode1 != nil {
		for ; len(s) >= 1; s = s[1:] {
			b.Write(m.encode1(s[0]))
		}
	}
	for ; s != ""; s = s[1:] {
		b.Write(uint32(s[0]), 8)
	}
	return nil
}

// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "strconv"

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions number from 1 to 40: the larger the version,
// the more information the code can store.
type Version int

// Code versions.
const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string {
	return strconv.Itoa(int(v))
}

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool {
	return MinVersion <= v && v <= MaxVersion
}

// QR version size classes.  The size class determines the length of
// the character count field.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

var sizeClass = [3]struct{ min, max Version }{
	{1, 9}, {10, 26}, {27, 40},
}

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Size returns the number of pixels on a side of a QR code of
// version v.
func (v Version) Size() int {
	return int(v)*4 + 17
}

// Bytes returns the total number of data and error correction bytes
// (codewords) in a QR code of version v.
func (v Version) Bytes() int {
	return vtab[v].bytes
}

// DataBytes returns the number of data bytes that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int {
	return v.DataBytes(l) * 8
}

// Blocks returns the number of error correction blocks and the number
// of error correction bytes per block for the given version and level.
func (v Version) Blocks(l Level) (nblock, check int) {
	lev := vtab[v].level[l]
	return lev.nblock, lev.check
}

// AlignmentCenters returns the row and column coordinates of the
// centres of alignment boxes.  Boxes are drawn at every combination
// of the coordinates except the three overlapping position boxes.
// Version 1 has no alignment boxes and AlignmentCenters returns nil.
func (v Version) AlignmentCenters() []int {
	vt := &vtab[v]
	if vt.apos == 0 {
		return nil
	}
	if vt.astride == 0 {
		return []int{6, vt.apos}
	}
	c := []int{6}
	for x := vt.apos; x <= v.Size()-7; x += vt.astride {
		c = append(c, x)
	}
	return c
}

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 7% of codewords can be restored
	M              // 15% of codewords can be restored
	Q              // 25% of codewords can be restored
	H              // 30% of codewords can be restored
)

func (l Level) String() string {
	if l.IsValid() {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is a QR error correction level.
func (l Level) IsValid() bool {
	return L <= l && l <= H
}

// formatBits returns the two bit level indicator used in the format
// information: L=01, M=00, Q=11, H=10.
func (l Level) formatBits() uint32 {
	return uint32(l ^ 1)
}

// Fit returns the smallest version not less than min that can hold
// text at the given level.  The encoded length of segments depends on
// the size class, hence text is measured once per class.
func Fit(level Level, min Version, text ...Segment) (Version, error) {
	if !level.IsValid() {
		return 0, &InvalidParameterError{"level", int(level)}
	}
	if !min.IsValid() {
		return 0, &InvalidParameterError{"version", int(min)}
	}
	bits := 0
	for class := min.SizeClass(); class < len(sizeClass); class++ {
		bits = 0
		for _, t := range text {
			bits += t.EncodedLength(class)
		}
		lo, hi := max(min, sizeClass[class].min), sizeClass[class].max
		if hi.DataBits(level) < bits {
			continue
		}
		// Find the first version in [lo, hi] that fits.
		for lo < hi {
			if mid := (lo + hi) / 2; mid.DataBits(level) < bits {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo, nil
	}
	return 0, &DataTooLongError{Bits: bits, Level: level, MinVersion: min}
}

// A version describes metadata associated with a version.
type version struct {
	apos    int      // position of the second alignment box centre, 0 if none
	astride int      // distance between further alignment box centres
	bytes   int      // total data and error correction bytes
	level   [4]level // block structure by error correction level
}

type level struct {
	nblock int // number of blocks
	check  int // error correction bytes per block
}

// Version table, from ISO/IEC 18004:2006 tables 1, 9 and E.1.
var vtab = [MaxVersion + 1]version{
	{},
	{0, 0, 26, [4]level{{1, 7}, {1, 10}, {1, 13}, {1, 17}}},              // 1
	{18, 0, 44, [4]level{{1, 10}, {1, 16}, {1, 22}, {1, 28}}},            // 2
	{22, 0, 70, [4]level{{1, 15}, {1, 26}, {2, 18}, {2, 22}}},            // 3
	{26, 0, 100, [4]level{{1, 20}, {2, 18}, {2, 26}, {4, 16}}},           // 4
	{30, 0, 134, [4]level{{1, 26}, {2, 24}, {4, 18}, {4, 22}}},           // 5
	{34, 0, 172, [4]level{{2, 18}, {4, 16}, {4, 24}, {4, 28}}},           // 6
	{22, 16, 196, [4]level{{2, 20}, {4, 18}, {6, 18}, {5, 26}}},          // 7
	{24, 18, 242, [4]level{{2, 24}, {4, 22}, {6, 22}, {6, 26}}},          // 8
	{26, 20, 292, [4]level{{2, 30}, {5, 22}, {8, 20}, {8, 24}}},          // 9
	{28, 22, 346, [4]level{{4, 18}, {5, 26}, {8, 24}, {8, 28}}},          // 10
	{30, 24, 404, [4]level{{4, 20}, {5, 30}, {8, 28}, {11, 24}}},         // 11
	{32, 26, 466, [4]level{{4, 24}, {8, 22}, {10, 26}, {11, 28}}},        // 12
	{34, 28, 532, [4]level{{4, 26}, {9, 22}, {12, 24}, {16, 22}}},        // 13
	{26, 20, 581, [4]level{{4, 30}, {9, 24}, {16, 20}, {16, 24}}},        // 14
	{26, 22, 655, [4]level{{6, 22}, {10, 24}, {12, 30}, {18, 24}}},       // 15
	{26, 24, 733, [4]level{{6, 24}, {10, 28}, {17, 24}, {16, 30}}},       // 16
	{30, 24, 815, [4]level{{6, 28}, {11, 28}, {16, 28}, {19, 28}}},       // 17
	{30, 26, 901, [4]level{{6, 30}, {13, 26}, {18, 28}, {21, 28}}},       // 18
	{30, 28, 991, [4]level{{7, 28}, {14, 26}, {21, 26}, {25, 26}}},       // 19
	{34, 28, 1085, [4]level{{8, 28}, {16, 26}, {20, 30}, {25, 28}}},      // 20
	{28, 22, 1156, [4]level{{8, 28}, {17, 26}, {23, 28}, {25, 30}}},      // 21
	{26, 24, 1258, [4]level{{9, 28}, {17, 28}, {23, 30}, {34, 24}}},      // 22
	{30, 24, 1364, [4]level{{9, 30}, {18, 28}, {25, 30}, {30, 30}}},      // 23
	{28, 26, 1474, [4]level{{10, 30}, {20, 28}, {27, 30}, {32, 30}}},     // 24
	{32, 26, 1588, [4]level{{12, 26}, {21, 28}, {29, 30}, {35, 30}}},     // 25
	{30, 28, 1706, [4]level{{12, 28}, {23, 28}, {34, 28}, {37, 30}}},     // 26
	{34, 28, 1828, [4]level{{12, 30}, {25, 28}, {34, 30}, {40, 30}}},     // 27
	{26, 24, 1921, [4]level{{13, 30}, {26, 28}, {35, 30}, {42, 30}}},     // 28
	{30, 24, 2051, [4]level{{14, 30}, {28, 28}, {38, 30}, {45, 30}}},     // 29
	{26, 26, 2185, [4]level{{15, 30}, {29, 28}, {40, 30}, {48, 30}}},     // 30
	{30, 26, 2323, [4]level{{16, 30}, {31, 28}, {43, 30}, {51, 30}}},     // 31
	{34, 26, 2465, [4]level{{17, 30}, {33, 28}, {45, 30}, {54, 30}}},     // 32
	{30, 28, 2611, [4]level{{18, 30}, {35, 28}, {48, 30}, {57, 30}}},     // 33
	{34, 28, 2761, [4]level{{19, 30}, {37, 28}, {51, 30}, {60, 30}}},     // 34
	{30, 24, 2876, [4]level{{19, 30}, {38, 28}, {53, 30}, {63, 30}}},     // 35
	{24, 26, 3034, [4]level{{20, 30}, {40, 28}, {56, 30}, {66, 30}}},     // 36
	{28, 26, 3196, [4]level{{21, 30}, {43, 28}, {59, 30}, {70, 30}}},     // 37
	{32, 26, 3362, [4]level{{22, 30}, {45, 28}, {62, 30}, {74, 30}}},     // 38
	{26, 28, 3532, [4]level{{24, 30}, {47, 28}, {65, 30}, {77, 30}}},     // 39
	{30, 28, 3706, [4]level{{25, 30}, {49, 28}, {68, 30}, {81, 30}}},     // 40
}

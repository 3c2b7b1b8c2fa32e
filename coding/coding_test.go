// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	rsc "rsc.io/qr/coding"
)

func TestBitsWrite(t *testing.T) {
	var b Bits
	b.Write(1, 4)
	b.Write(0x5, 3)
	b.Write(0x1ff, 9)
	b.Write(0, 0)
	b.Write(0xdeadbeef, 32)
	assert.Equal(t, 48, b.Bits())
	assert.Equal(t, []byte{0x1b, 0xff, 0xde, 0xad, 0xbe, 0xef}, b.Bytes())
}

func TestPad(t *testing.T) {
	for _, tt := range []struct {
		nbit, n int
		want  []byte
	}{
		{0, 32, []byte{0, 0xec, 0x11, 0xec}},
		{4, 16, []byte{0xf0, 0xec}},
		{6, 8, []byte{0xfc}},
		{13, 16, []byte{0xff, 0xf8}},
		{16, 16, []byte{0xff, 0xff}},
		{10, 40, []byte{0xff, 0xc0, 0xec, 0x11, 0xec}},
	} {
		var b Bits
		for i := 0; i < tt.nbit; i++ {
			b.Write(1, 1)
		}
		b.Pad(tt.n)
		assert.Equal(t, tt.want, b.Bytes(), "%d bits padded to %d", tt.nbit, tt.n)
	}
}

func TestHelloWorld(t *testing.T) {
	b := NewBits(1)
	require.NoError(t, Segment{"HELLO WORLD", Alphanumeric}.Encode(b, Class0))
	assert.Equal(t, 74, b.Bits())
	b.AddCheckBytes(1, M)
	assert.Equal(t, []byte{
		32, 91, 11, 120, 209, 114, 220, 77, 67, 64, 236, 17, 236, 17, 236, 17,
		196, 35, 39, 119, 235, 215, 231, 226, 93, 23,
	}, b.Bytes())
}

func TestSegmentEncode(t *testing.T) {
	for _, tt := range []struct {
		seg   Segment
		class int
		want  []byte
		nbit  int
	}{
		// 0001 0000001000 0000001100 0101011001 1000011
		{Segment{"01234567", Numeric}, Class0, []byte{
			0x10, 0x20, 0x0c, 0x56, 0x61, 0x80}, 41},
		// 0001 000000000001 0111
		{Segment{"7", Numeric}, Class1, []byte{0x10, 0x01, 0x70}, 20},
		// 0010 000000011 00111001110 101001
		{Segment{"AC-", Alphanumeric}, Class0, []byte{
			0x20, 0x19, 0xce, 0xa4}, 30},
		// 0100 0000000000000010 01100001 01100010
		{Segment{"ab", Byte}, Class2, []byte{
			0x40, 0x00, 0x26, 0x16, 0x20}, 36},
		// 0100 00000001 11101001
		{Segment{"é", Latin1}, Class0, []byte{0x40, 0x1e, 0x90}, 20},
		{Segment{"é", Byte}, Class0, []byte{0x40, 0x2c, 0x3a, 0x90}, 28},
		{Segment{"", Numeric}, Class0, []byte{0x10, 0x00}, 14},
	} {
		var b Bits
		require.NoError(t, tt.seg.Encode(&b, tt.class), "%v", tt.seg)
		assert.Equal(t, tt.nbit, b.Bits(), "%v", tt.seg)
		assert.Equal(t, tt.nbit, tt.seg.EncodedLength(tt.class), "%v", tt.seg)
		assert.Equal(t, tt.want, b.b, "%v", tt.seg)
	}
}

func TestSegmentErrors(t *testing.T) {
	for _, seg := range []Segment{
		{"12a", Numeric},
		{"hello", Alphanumeric},
		{"€", Latin1},
		{"\xff", Latin1},
	} {
		var b Bits
		err := seg.Encode(&b, Class0)
		var ee *EncodingError
		require.True(t, errors.As(err, &ee), "%v: %v", seg, err)
		assert.Equal(t, seg.Mode, ee.Mode)
		assert.Equal(t, seg.Text, ee.Text)
		assert.False(t, seg.IsValid())
	}
	var ipe *InvalidParameterError
	err := Segment{"x", Mode(9)}.Encode(new(Bits), Class0)
	assert.True(t, errors.As(err, &ipe))
	assert.Zero(t, Segment{"x", Mode(9)}.EncodedLength(Class0))
}

func TestSizeClass(t *testing.T) {
	for v, want := range map[Version]int{
		1: Class0, 9: Class0, 10: Class1, 26: Class1, 27: Class2, 40: Class2,
	} {
		assert.Equal(t, want, v.SizeClass(), "version %d", v)
	}
	assert.Equal(t, 21, Version(1).Size())
	assert.Equal(t, 177, Version(40).Size())
}

func TestFit(t *testing.T) {
	digits := func(n int) Segment {
		return Segment{strings.Repeat("7", n), Numeric}
	}
	for _, tt := range []struct {
		seg   Segment
		level Level
		min   Version
		want  Version
	}{
		{digits(41), L, 1, 1},
		{digits(42), L, 1, 2},
		{digits(7089), L, 1, 40},
		{Segment{"HELLO WORLD", Alphanumeric}, Q, 1, 1},
		{Segment{"HELLO WORLD", Alphanumeric}, Q, 5, 5},
		{Segment{"HELLO WORLD", Alphanumeric}, H, 1, 2},
		{digits(0), H, 1, 1},
		// 2953 bytes need 16 bit count field
		{Segment{strings.Repeat("x", 2953), Byte}, L, 1, 40},
		{Segment{strings.Repeat("x", 230), Byte}, L, 1, 9},
		{Segment{strings.Repeat("x", 231), Byte}, L, 1, 10},
	} {
		v, err := Fit(tt.level, tt.min, tt.seg)
		require.NoError(t, err, "%d %s", len(tt.seg.Text), tt.seg.Mode)
		assert.Equal(t, tt.want, v, "%d %s", len(tt.seg.Text), tt.seg.Mode)
	}

	_, err := Fit(L, 1, digits(7090))
	var tl *DataTooLongError
	require.True(t, errors.As(err, &tl))
	assert.Equal(t, 4+14+(10*7090+2)/3, tl.Bits)
	assert.Equal(t, L, tl.Level)
	assert.Equal(t, Version(1), tl.MinVersion)

	var ipe *InvalidParameterError
	_, err = Fit(Level(4), 1)
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, "level", ipe.Name)
	_, err = Fit(L, 41)
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, "version", ipe.Name)
	_, err = Fit(L, 0)
	assert.Error(t, err)
}

func TestFormatBits(t *testing.T) {
	assert.EqualValues(t, 0x77c4, FormatBits(L, 0))
	assert.EqualValues(t, 0x5412, FormatBits(M, 0))
	assert.EqualValues(t, 0x355f, FormatBits(Q, 0))
	assert.EqualValues(t, 0x2183, FormatBits(Q, 5))
	assert.EqualValues(t, 0x083b, FormatBits(H, 7))
	for i := 0; i < 32; i++ {
		l, m := Level(i>>3), Mask(i&7)
		fb := FormatBits(l, m)
		for _, flip := range []uint16{0, 1, 0x4001, 0x1110} {
			pl, pm, ok := ParseFormat(fb ^ flip)
			require.True(t, ok)
			assert.Equal(t, l, pl)
			assert.Equal(t, m, pm)
		}
	}
	_, _, ok := ParseFormat(FormatBits(L, 0) ^ 0x000f)
	assert.False(t, ok)
}

func TestVersionBits(t *testing.T) {
	assert.EqualValues(t, 0x07c94, VersionBits(7))
	assert.EqualValues(t, 0x0a4d3, VersionBits(10))
	assert.EqualValues(t, 0x28c69, VersionBits(40))
}

// readFormat returns both copies of the format information in c.
func readFormat(c *Code) (uint16, uint16) {
	var a, b uint16
	bit := func(x, y int) uint16 {
		if c.Black(x, y) {
			return 1
		}
		return 0
	}
	for i := 0; i < 15; i++ {
		switch {
		case i < 6:
			a |= bit(8, i) << i
		case i < 8:
			a |= bit(8, i+1) << i
		case i == 8:
			a |= bit(7, 8) << i
		default:
			a |= bit(14-i, 8) << i
		}
		if i < 8 {
			b |= bit(c.Size-1-i, 8) << i
		} else {
			b |= bit(8, c.Size-15+i) << i
		}
	}
	return a, b
}

func TestFormatInfo(t *testing.T) {
	for _, v := range []Version{1, 7, 22} {
		for l := L; l <= H; l++ {
			c, err := Encode(v, l, Segment{"0123456789", Numeric})
			require.NoError(t, err)
			a, b := readFormat(c)
			assert.Equal(t, a, b, "version %d level %s", v, l)
			assert.Equal(t, FormatBits(l, c.Mask), a)
			pl, pm, ok := ParseFormat(a)
			assert.True(t, ok)
			assert.Equal(t, l, pl)
			assert.Equal(t, c.Mask, pm)
			assert.True(t, c.Black(8, c.Size-8), "dark module")
		}
	}
}

func TestVersionInfo(t *testing.T) {
	for _, v := range []Version{7, 21, 40} {
		c, err := Encode(v, M, Segment{"VERSION", Alphanumeric})
		require.NoError(t, err)
		var a, b uint32
		for i := 0; i < 18; i++ {
			x, y := c.Size-11+i%3, i/3
			if c.Black(x, y) {
				a |= 1 << i
			}
			if c.Black(y, x) {
				b |= 1 << i
			}
		}
		assert.Equal(t, VersionBits(v), a, "version %d", v)
		assert.Equal(t, a, b, "version %d", v)
	}
}

// rawModules returns the number of data and error correction modules,
// remainder modules included, in a code of version v.
func rawModules(v int) int {
	n := (16*v+128)*v + 64
	if v >= 2 {
		na := v/7 + 2
		n -= (25*na-10)*na - 55
		if v >= 7 {
			n -= 36
		}
	}
	return n
}

func TestPlanMap(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		p, err := NewPlan(v, L)
		require.NoError(t, err)
		free := 0
		for y := 0; y < p.Size; y++ {
			for x := 0; x < p.Size; x++ {
				if !get(p.Map, p.Stride, x, y) {
					free++
				}
			}
		}
		assert.Equal(t, rawModules(int(v)), free, "version %d", v)
		assert.Equal(t, v.Bytes(), free/8, "version %d", v)
	}
}

func TestNewPlanErrors(t *testing.T) {
	var ipe *InvalidParameterError
	_, err := NewPlan(0, L)
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, InvalidParameterError{"version", 0}, *ipe)
	_, err = NewPlan(1, Level(-1))
	require.True(t, errors.As(err, &ipe))
	assert.Equal(t, InvalidParameterError{"level", -1}, *ipe)
}

func TestNewPlanCopy(t *testing.T) {
	p, err := NewPlan(3, Q)
	require.NoError(t, err)
	p.Map[0] = 0
	p.Pattern[0][0] = 0
	pp, err := makePlan(3, Q)
	require.NoError(t, err)
	assert.NotZero(t, pp.Map[0])
	assert.NotZero(t, pp.Pattern[0][0])
}

func TestPermute(t *testing.T) {
	// 5-Q: 2 blocks of 15 and 2 of 16 data bytes, 18 check bytes each
	var b Bits
	buf := b.Add(Version(5).Bytes())
	for i := range buf {
		buf[i] = byte(i)
	}
	s := b.Permute(5, Q)
	out := s.Bytes()
	assert.Equal(t, []byte{0, 15, 30, 46, 1, 16, 31, 47}, out[:8])
	assert.Equal(t, []byte{14, 29, 44, 60, 45, 61}, out[56:62])
	assert.Equal(t, []byte{62, 80, 98, 116, 63}, out[62:67])
	assert.Equal(t, []byte{133}, out[133:])
}

func TestBitStream(t *testing.T) {
	s := NewBitStream([]byte{0xa5})
	var got []byte
	for i := 0; i < 10; i++ {
		got = append(got, s.Next())
	}
	assert.Equal(t, []byte{1, 0, 1, 0, 0, 1, 0, 1, 0, 0}, got)
}

// payload returns text filling most of the capacity of version v at
// level l in the given mode.
func payload(v Version, l Level, mode Mode) string {
	class := v.SizeClass()
	zeros := strings.Repeat("0", v.Bytes()*3)
	n := 0
	for (Segment{zeros[:n+1], mode}).EncodedLength(class) <= v.DataBits(l)-5 {
		n++
	}
	const digits = "31415926535897932384626433832795028841971693993751"
	var sb strings.Builder
	for i := 0; i < n; i++ {
		c := digits[i%len(digits)]
		if mode == Byte {
			c += byte(i % 64)
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func TestReferenceEncoder(t *testing.T) {
	for _, v := range []Version{1, 2, 5, 7, 10, 14, 27, 40} {
		for l := L; l <= H; l++ {
			for _, mode := range []Mode{Numeric, Byte} {
				text := payload(v, l, mode)
				var ref rsc.Encoding = rsc.Num(text)
				if mode == Byte {
					ref = rsc.String(text)
				}
				e, err := NewEncoder(v, l)
				require.NoError(t, err)
				require.NoError(t, e.Write(Segment{text, mode}))
				for m := Mask(0); m < 8; m++ {
					require.NoError(t, e.SetMask(m))
					c, err := e.Code()
					require.NoError(t, err)
					assert.Equal(t, m, c.Mask)
					p, err := rsc.NewPlan(rsc.Version(v), rsc.Level(l), rsc.Mask(m))
					require.NoError(t, err)
					rc, err := p.Encode(ref)
					require.NoError(t, err)
					require.Equal(t, rc.Size, c.Size)
					for y := 0; y < c.Size; y++ {
						for x := 0; x < c.Size; x++ {
							require.Equal(t, rc.Black(x, y), c.Black(x, y),
								"%d-%s mask %d %s (%d, %d)", v, l, m, mode, x, y)
						}
					}
				}
			}
		}
	}
}

func TestMaskSelection(t *testing.T) {
	e, err := NewEncoder(1, M)
	require.NoError(t, err)
	require.NoError(t, e.Write(Segment{"https://example.com/", Byte}))
	_, err = e.Code()
	var de *DataTooLongError
	require.True(t, errors.As(err, &de), "%v", err)
	assert.Equal(t, 4+8+160, de.Bits)

	for _, v := range []Version{2, 4, 9} {
		e, err := NewEncoder(v, M)
		require.NoError(t, err)
		require.NoError(t, e.Write(Segment{"https://example.com/", Byte}))
		c, err := e.Code()
		require.NoError(t, err)
		best := c.Penalties().Total()
		for m := Mask(0); m < 8; m++ {
			require.NoError(t, e.SetMask(m))
			cm, err := e.Code()
			require.NoError(t, err)
			p := cm.Penalties().Total()
			assert.LessOrEqual(t, best, p, "version %d mask %d", v, m)
			if m < c.Mask {
				assert.Less(t, best, p, "earlier mask %d ties", m)
			}
			if m == c.Mask {
				assert.Equal(t, c.Bitmap, cm.Bitmap)
			}
		}
	}
	e, err = NewEncoder(1, L)
	require.NoError(t, err)
	var ipe *InvalidParameterError
	require.True(t, errors.As(e.SetMask(8), &ipe))
	assert.Equal(t, "mask", ipe.Name)
	assert.NoError(t, e.SetMask(AutoMask))
}

func TestPenalties(t *testing.T) {
	white := &Code{Size: 5, Stride: 1, Bitmap: make([]byte, 5)}
	assert.Equal(t, Penalties{Runs: 30, Boxes: 48, Balance: 90}, white.Penalties())
	assert.Equal(t, 168, white.Penalties().Total())

	rows := &Code{Size: 7, Stride: 1, Bitmap: []byte{
		0xba, 0xba, 0xba, 0xba, 0xba, 0xba, 0xba,
	}}
	assert.Equal(t, Penalties{Runs: 35, Boxes: 36, Finders: 560, Balance: 40},
		rows.Penalties())
	assert.Equal(t, 671, rows.Penalties().Total())
}

func TestEncoderReuse(t *testing.T) {
	e, err := NewEncoder(2, H)
	require.NoError(t, err)
	require.NoError(t, e.Write(Segment{"12345", Numeric}))
	c1, err := e.Code()
	require.NoError(t, err)
	c2, err := e.Code()
	require.NoError(t, err)
	assert.Equal(t, c1, c2)

	e.Reset()
	require.NoError(t, e.Write(Segment{strings.Repeat("9", 100), Numeric}))
	_, err = e.Code()
	var tl *DataTooLongError
	require.True(t, errors.As(err, &tl))
	assert.Equal(t, Version(2), tl.MinVersion)
	assert.Equal(t, H, tl.Level)
}

func TestConcurrentPlans(t *testing.T) {
	var wg sync.WaitGroup
	codes := make([]*Code, 8)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i], _ = Encode(12, Q, Segment{"CONCURRENT", Alphanumeric})
		}(i)
	}
	wg.Wait()
	require.NotNil(t, codes[0])
	for _, c := range codes[1:] {
		assert.Equal(t, codes[0], c)
	}
}

func BenchmarkEncode(b *testing.B) {
	text := payload(40, L, Byte)
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		if _, err := Encode(40, L, Segment{text, Byte}); err != nil {
			b.Fatal(err)
		}
	}
}

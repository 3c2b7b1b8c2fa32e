// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode chooses the most compact of numeric, alphanumeric and byte
modes for the whole text, the smallest version that holds it at the
requested error correction level and the mask pattern with the lowest
penalty.  The resulting Code is a grid of modules that can be rendered
as an image, PNG, PBM or text.
*/
package qr // import "github.com/qrkit/qr"

import "github.com/qrkit/qr/coding"

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level = coding.Level

const (
	L = coding.L // 7% of codewords can be restored
	M = coding.M // 15% of codewords can be restored
	Q = coding.Q // 25% of codewords can be restored
	H = coding.H // 30% of codewords can be restored
)

// Errors returned by Encode.
type (
	DataTooLongError      = coding.DataTooLongError
	EncodingError         = coding.EncodingError
	InvalidParameterError = coding.InvalidParameterError
)

type options struct {
	minVersion coding.Version
	mask       coding.Mask
	latin1     bool
}

// An Option configures Encode.
type Option func(*options)

// WithMinVersion sets the smallest version Encode may choose.
func WithMinVersion(v coding.Version) Option {
	return func(o *options) { o.minVersion = v }
}

// WithMask forces the mask pattern instead of choosing the one with
// the lowest penalty.
func WithMask(m coding.Mask) Option {
	return func(o *options) { o.mask = m }
}

// WithLatin1 makes Encode convert text that requires byte mode from
// UTF-8 to ISO 8859-1.
func WithLatin1() Option {
	return func(o *options) { o.latin1 = true }
}

// Classify returns the most compact mode able to represent every byte
// of text: Numeric, Alphanumeric or Byte.  Empty text is Numeric.
func Classify(text string) coding.Mode {
	mode := coding.Numeric
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case coding.IsDigit(c):
		case coding.IsAlpha(c):
			mode = coding.Alphanumeric
		default:
			return coding.Byte
		}
	}
	return mode
}

// Encode returns an encoding of text at the given error correction
// level.
func Encode(text string, level Level, opts ...Option) (*Code, error) {
	o := options{minVersion: coding.MinVersion, mask: coding.AutoMask}
	for _, opt := range opts {
		opt(&o)
	}
	if o.mask != coding.AutoMask && !o.mask.IsValid() {
		return nil, &InvalidParameterError{Name: "mask", Value: int(o.mask)}
	}
	seg := coding.Segment{Text: text, Mode: Classify(text)}
	if seg.Mode == coding.Byte && o.latin1 {
		seg.Mode = coding.Latin1
	}
	v, err := coding.Fit(level, o.minVersion, seg)
	if err != nil {
		return nil, err
	}
	e, err := coding.NewEncoder(v, level)
	if err != nil {
		return nil, err
	}
	if err := e.SetMask(o.mask); err != nil {
		return nil, err
	}
	cc, err := e.Encode(seg)
	if err != nil {
		return nil, err
	}
	return &Code{
		Bitmap:  cc.Bitmap,
		Size:    cc.Size,
		Stride:  cc.Stride,
		Version: cc.Version,
		Level:   cc.Level,
		Mask:    cc.Mask,
		Mode:    seg.Mode,
		Scale:   8,
		Border:  4,
	}, nil
}

// EncodeBytes is like Encode for binary data.
func EncodeBytes(data []byte, level Level, opts ...Option) (*Code, error) {
	return Encode(string(data), level, opts...)
}

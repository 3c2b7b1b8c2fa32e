// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// DataTooLongError is returned when the encoded data does not fit in
// the largest code allowed.
type DataTooLongError struct {
	Bits       int     // encoded length in bits
	Level      Level   // error correction level
	MinVersion Version // smallest version tried
}

func (e *DataTooLongError) Error() string {
	return fmt.Sprintf("qr: %d bits of data too long for level %s "+
		"from version %s", e.Bits, e.Level, e.MinVersion)
}

// EncodingError is returned when text is not representable in the
// requested mode.
type EncodingError struct {
	Mode Mode
	Text string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("qr: non-%s string %#q", e.Mode, e.Text)
}

// InvalidParameterError is returned for an out of range level,
// version, mask or mode.
type InvalidParameterError struct {
	Name  string
	Value int
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("qr: invalid %s %d", e.Name, e.Value)
}

// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package varint decodes and encodes the 32-bit variable-length integers
// used to tag packet payloads.
//
// A varint is a series of bytes, each contributing its low 7 bits to the
// value. The first byte holds the least-significant group. A byte with its
// high bit set is followed by another byte. A 32-bit value fits in MaxLen
// bytes, and longer encodings are rejected.
package varint

import (
	"io"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
)

// MaxLen is the maximum number of bytes that a 32-bit varint may occupy.
const MaxLen = 5

// ErrTooLong is returned when input continues past MaxLen bytes without a
// terminating byte.
var ErrTooLong = errors.New("varint too long")

// Len returns the number of bytes in the varint at the beginning of b.
//
// If b ends before the varint terminates, Len returns io.ErrUnexpectedEOF.
// If b continues past MaxLen bytes without a terminating byte, Len returns
// ErrTooLong.
func Len(b []byte) (int, error) {
	for i := 0; i < MaxLen; i++ {
		if i >= len(b) {
			return 0, io.ErrUnexpectedEOF
		}
		if (b[i] & 0x80) == 0 {
			return i + 1, nil
		}
	}

	// MaxLen continuation bytes: only a byte beyond them makes this too long.
	if len(b) > MaxLen {
		return 0, ErrTooLong
	}
	return 0, io.ErrUnexpectedEOF
}

// Decode decodes the varint at the beginning of b, returning its value and
// the number of bytes that it consumed.
//
// Decode never reads past the terminating byte. Bits beyond the 32nd are
// discarded.
func Decode(b []byte) (uint32, int, error) {
	n, err := Len(b)
	if err != nil {
		return 0, 0, err
	}

	// b[:n] is a complete varint, so the proto decoder must consume all of it.
	v, amt := proto.DecodeVarint(b[:n])
	if amt != n {
		panic("incompatible proto varint encoding")
	}
	return uint32(v), n, nil
}

// Append appends the varint encoding of v to b.
func Append(b []byte, v uint32) []byte {
	return append(b, proto.EncodeVarint(uint64(v))...)
}

// Size returns the number of bytes needed to encode v.
func Size(v uint32) int { return proto.SizeVarint(uint64(v)) }

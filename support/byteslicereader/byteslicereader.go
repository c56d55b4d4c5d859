// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package byteslicereader offers R, a cursor over a fully-materialized byte
// buffer with zero-copy read options.
//
// Standard io.Reader methods require that data be copied into a target
// buffer. The zero-copy options, NextExact and Since, return slices of R's
// underlying Buffer instead. Holding such a slice means that the Buffer
// must not be modified or reused while the slice is in use.
//
// R tracks its absolute offset within the Buffer, so that callers decoding
// framed data can report where a frame began.
package byteslicereader

import (
	"io"
)

// R is a cursor over Buffer.
//
// The zero value is an empty reader. R can be copied, creating a snapshot of
// its current position.
type R struct {
	// Buffer is the backing buffer for this reader.
	Buffer []byte

	// pos is the R's position within Buffer.
	pos int
}

var _ io.Reader = (*R)(nil)

// New returns an R positioned at the beginning of buf.
func New(buf []byte) *R { return &R{Buffer: buf} }

func (r *R) remainingSlice() []byte {
	if r.pos >= len(r.Buffer) {
		return nil
	}
	return r.Buffer[r.pos:]
}

// Remaining returns the number of bytes remaining in the reader, from the
// current position.
func (r *R) Remaining() int { return len(r.remainingSlice()) }

// Offset returns the reader's current position within Buffer.
func (r *R) Offset() int { return r.pos }

// Read implements io.Reader.
//
// Note that using Read causes data to be copied.
func (r *R) Read(b []byte) (amt int, err error) {
	remaining := r.remainingSlice()
	if len(remaining) == 0 && len(b) > 0 {
		return 0, io.EOF
	}

	amt = copy(b, remaining)
	r.pos += amt
	return
}

// NextExact returns exactly the next n bytes in r, advancing r.
//
// If fewer than n bytes remain, NextExact returns io.ErrUnexpectedEOF and
// does not advance.
func (r *R) NextExact(n int) ([]byte, error) {
	if n < 0 || n > r.Remaining() {
		return nil, io.ErrUnexpectedEOF
	}

	v := r.Buffer[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// Since returns the bytes between offset and the current position.
//
// It is used to recover the exact encoding of a frame that has just been
// read.
func (r *R) Since(offset int) []byte {
	if offset < 0 || offset > r.pos {
		panic("offset out of range")
	}
	return r.Buffer[offset:r.pos]
}

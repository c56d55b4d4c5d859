// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package recordstream

import (
	"fmt"
	"io"

	"github.com/danjacques/replayfilter/support/byteslicereader"

	"github.com/pkg/errors"
)

// HeaderError describes a record header whose length is out of range.
//
// A HeaderError halts a stream without failing it.
type HeaderError struct {
	// Offset is the offset of the offending header within the stream.
	Offset int
	// Header is the offending header.
	Header Header
	// Discarded is the number of stream bytes, starting at Offset, that were
	// dropped because of the halt.
	Discarded int
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("invalid record length %d at offset %d (%d bytes discarded)",
		e.Header.Length, e.Offset, e.Discarded)
}

// Reader reads records from a fully-materialized stream buffer.
type Reader struct {
	r byteslicereader.R

	// done is true once the stream has ended, normally or otherwise.
	done bool
	// err is the sticky error that ended the stream, if any.
	err error

	// halt is the header that halted the stream, if any.
	halt *HeaderError
	// trailing is the number of bytes in a short fragment at the end of the
	// stream.
	trailing int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{
		r: byteslicereader.R{Buffer: data},
	}
}

// ReadRecord reads the next record from the stream into rec.
//
// At the end of the stream, ReadRecord returns io.EOF. This includes streams
// that end in a short fragment and streams halted by an out-of-range header;
// Halt and TrailingBytes describe how the stream ended.
//
// If a record's payload is truncated, ReadRecord returns an error whose
// Cause is io.ErrUnexpectedEOF. All errors are sticky.
func (rr *Reader) ReadRecord(rec *Record) error {
	if rr.done {
		return rr.endErr()
	}

	offset := rr.r.Offset()
	if rr.r.Remaining() < HeaderSize {
		rr.trailing = rr.r.Remaining()
		return rr.finish(nil)
	}

	var hdr Header
	if err := hdr.LoadContentFrom(&rr.r); err != nil {
		return rr.finish(errors.Wrapf(err, "reading record header at offset %d", offset))
	}

	if !hdr.ValidLength() {
		rr.halt = &HeaderError{
			Offset:    offset,
			Header:    hdr,
			Discarded: len(rr.r.Buffer) - offset,
		}
		return rr.finish(nil)
	}

	payload, err := rr.r.NextExact(int(hdr.Length))
	if err != nil {
		return rr.finish(errors.Wrapf(err, "record at offset %d declares %d payload bytes, %d remain",
			offset, hdr.Length, rr.r.Remaining()))
	}

	*rec = Record{
		Offset:  offset,
		Header:  hdr,
		Payload: payload,
		Tag:     DecodeTag(payload),
		Raw:     rr.r.Since(offset),
	}
	return nil
}

func (rr *Reader) finish(err error) error {
	rr.done, rr.err = true, err
	return rr.endErr()
}

func (rr *Reader) endErr() error {
	if rr.err != nil {
		return rr.err
	}
	return io.EOF
}

// Offset returns the offset of the next unread byte in the stream.
func (rr *Reader) Offset() int { return rr.r.Offset() }

// Halt returns the HeaderError that halted the stream, or nil if the stream
// was not halted.
func (rr *Reader) Halt() *HeaderError { return rr.halt }

// TrailingBytes returns the size of the short fragment that ended the
// stream. It is zero if the stream ended on a record boundary.
func (rr *Reader) TrailingBytes() int { return rr.trailing }

// Scan calls fn for each record in data.
//
// Scan returns the Reader that it used, so that the caller can inspect how
// the stream ended. If fn returns an error, scanning stops and that error is
// returned.
func Scan(data []byte, fn func(*Record) error) (*Reader, error) {
	rr := NewReader(data)
	var rec Record
	for {
		switch err := rr.ReadRecord(&rec); err {
		case nil:
			if err := fn(&rec); err != nil {
				return rr, err
			}

		case io.EOF:
			return rr, nil

		default:
			return rr, err
		}
	}
}

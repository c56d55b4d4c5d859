// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package recordstream

import (
	"io"

	"github.com/danjacques/replayfilter/support/varint"

	"github.com/pkg/errors"
)

// Writer writes records to an underlying stream.
type Writer struct {
	w io.Writer

	numRecords int64
	numBytes   int64

	// tagBuf is a reusable buffer for encoding packet tags.
	tagBuf []byte
}

// NewWriter returns a Writer that writes records to w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// WriteRecord writes a record with the specified timestamp and payload.
//
// The payload length must be in [1, MaxLength].
func (sw *Writer) WriteRecord(timestamp int32, payload []byte) error {
	hdr := Header{
		Timestamp: timestamp,
		Length:    int32(len(payload)),
	}
	if len(payload) > MaxLength || !hdr.ValidLength() {
		return errors.Errorf("invalid payload length %d", len(payload))
	}

	if err := hdr.WriteContentTo(sw.w); err != nil {
		return errors.Wrap(err, "writing record header")
	}
	if _, err := sw.w.Write(payload); err != nil {
		return errors.Wrap(err, "writing record payload")
	}

	sw.numRecords++
	sw.numBytes += int64(HeaderSize + len(payload))
	return nil
}

// CopyRecord writes rec exactly as it was read, using its Raw encoding.
func (sw *Writer) CopyRecord(rec *Record) error {
	if _, err := sw.w.Write(rec.Raw); err != nil {
		return errors.Wrapf(err, "copying record at offset %d", rec.Offset)
	}

	sw.numRecords++
	sw.numBytes += int64(len(rec.Raw))
	return nil
}

// WritePacket writes a record whose payload is tag, varint-encoded, followed
// by body.
func (sw *Writer) WritePacket(timestamp int32, tag uint32, body []byte) error {
	sw.tagBuf = varint.Append(sw.tagBuf[:0], tag)
	sw.tagBuf = append(sw.tagBuf, body...)
	return sw.WriteRecord(timestamp, sw.tagBuf)
}

// NumRecords returns the number of records written so far.
func (sw *Writer) NumRecords() int64 { return sw.numRecords }

// NumBytes returns the number of bytes written so far.
func (sw *Writer) NumBytes() int64 { return sw.numBytes }

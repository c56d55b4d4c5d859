// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package recordstream

import (
	"fmt"
	"io"
	"sort"

	"github.com/danjacques/replayfilter/support/varint"

	"github.com/lunixbochs/struc"
)

const (
	// HeaderSize is the size of an encoded record Header.
	HeaderSize = 8

	// MaxLength is the largest valid record payload length.
	MaxLength = 10000000

	// FallbackTagValue is the value reported for records whose tag could not
	// be decoded.
	FallbackTagValue = 0xFFFF
)

// Header is the fixed-size header that precedes each record payload.
type Header struct {
	// Timestamp is the record's offset from the start of the capture, in
	// milliseconds. Any value is accepted.
	Timestamp int32 `struc:"int32,big"`
	// Length is the number of payload bytes that follow the header.
	Length int32 `struc:"int32,big"`
}

// ValidLength returns true if the header's Length is in [1, MaxLength].
func (h *Header) ValidLength() bool { return h.Length > 0 && h.Length <= MaxLength }

// LoadContentFrom loads the header from r.
func (h *Header) LoadContentFrom(r io.Reader) error { return struc.Unpack(r, h) }

// WriteContentTo writes the header's big-endian encoding to w.
func (h *Header) WriteContentTo(w io.Writer) error { return struc.Pack(w, h) }

// Tag is the decoded packet tag at the start of a record payload.
//
// The zero value is an unknown tag.
type Tag struct {
	// Value is the tag's value. It is only meaningful if Known is true.
	Value uint32
	// Known is true if the tag was successfully decoded.
	Known bool
}

// KnownTag returns a known Tag with the specified value.
func KnownTag(v uint32) Tag { return Tag{Value: v, Known: true} }

// DecodeTag decodes the varint tag at the start of payload.
//
// If the payload does not begin with a valid varint, DecodeTag returns an
// unknown Tag.
func DecodeTag(payload []byte) Tag {
	v, _, err := varint.Decode(payload)
	if err != nil {
		return Tag{}
	}
	return KnownTag(v)
}

// ReportValue returns the tag's value, or FallbackTagValue if the tag is
// unknown.
func (t Tag) ReportValue() uint32 {
	if !t.Known {
		return FallbackTagValue
	}
	return t.Value
}

func (t Tag) String() string {
	if !t.Known {
		return "unknown"
	}
	return fmt.Sprintf("0x%02X", t.Value)
}

// Record is a single record read from a stream.
//
// Payload and Raw reference the stream's buffer and are only valid as long
// as that buffer is.
type Record struct {
	// Offset is the offset of the record's header within the stream.
	Offset int
	// Header is the record's decoded header.
	Header Header
	// Payload is the record's payload.
	Payload []byte
	// Tag is the payload's decoded tag.
	Tag Tag

	// Raw is the exact encoding of the record (header and payload) as it
	// appeared in the stream.
	Raw []byte
}

// Set is a set of tag values to filter.
type Set map[uint32]struct{}

// NewSet creates a Set from codes. Duplicate codes are collapsed.
func NewSet(codes ...uint32) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains returns true if t is a known tag whose value is in s.
//
// Unknown tags are never contained, even if FallbackTagValue is in s.
func (s Set) Contains(t Tag) bool {
	if !t.Known {
		return false
	}
	_, ok := s[t.Value]
	return ok
}

// Codes returns the codes in s, in ascending order.
func (s Set) Codes() []uint32 {
	codes := make([]uint32, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

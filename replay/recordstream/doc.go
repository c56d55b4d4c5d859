// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package recordstream reads, filters, and writes recorded packet streams.
//
// A record stream is a series of back-to-back records with no stream-level
// header or footer:
//
//	[int32 BE timestamp][int32 BE length][length bytes of payload]
//
// The timestamp is a millisecond offset from the start of the capture. The
// length must be in [1, MaxLength]. A payload begins with a varint packet
// tag; the rest of the payload is opaque.
//
// Stream walking is lenient at the edges and strict in the middle:
//
//	- A fragment shorter than a record header at the end of the stream ends
//	  the stream normally.
//	- A header with an out-of-range length halts the stream. The remaining
//	  bytes are dropped and the halt is reported as a HeaderError alongside
//	  the records read so far, not as a failure.
//	- A payload that is shorter than its header's length is a failure
//	  (io.ErrUnexpectedEOF), since the buffer has been truncated.
//	- A payload whose tag cannot be decoded yields an unknown Tag. Unknown
//	  tags never match a Set, so such records are always kept. This can keep
//	  genuinely corrupt records in the output; callers can observe how many
//	  there were through Result.Unknown.
package recordstream

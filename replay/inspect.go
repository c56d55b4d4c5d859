// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"time"

	"github.com/danjacques/replayfilter/replay/metadata"
	"github.com/danjacques/replayfilter/replay/recordstream"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// EntryInfo describes a single archive entry.
type EntryInfo struct {
	Name             string
	Method           uint16
	CompressedSize   uint64
	UncompressedSize uint64
	Modified         time.Time
}

// Inspection describes the contents of a replay archive.
type Inspection struct {
	// Entries lists the archive's entries in order.
	Entries []EntryInfo

	// Metadata is the parsed metadata entry, or nil if the archive has none
	// or it could not be parsed.
	Metadata *metadata.Metadata
	// MetadataError, if not nil, is why the metadata entry could not be
	// parsed. It does not prevent the rest of the inspection.
	MetadataError error

	// Histogram tallies the stream entry's records, or is nil if the archive
	// has no stream entry.
	Histogram *recordstream.Histogram
	// StreamBytes is the decompressed size of the stream entry.
	StreamBytes int
	// TrailingBytes is the size of a short fragment at the end of the stream.
	TrailingBytes int
	// Halt, if not nil, is the out-of-range header that stopped the stream.
	Halt *recordstream.HeaderError
}

// Inspect describes the archive zr without modifying it.
//
// streamEntry names the record stream entry. If it is empty,
// DefaultStreamEntry is used.
func Inspect(zr *zip.Reader, streamEntry string) (*Inspection, error) {
	if streamEntry == "" {
		streamEntry = DefaultStreamEntry
	}

	var insp Inspection
	for _, f := range zr.File {
		insp.Entries = append(insp.Entries, EntryInfo{
			Name:             f.Name,
			Method:           f.Method,
			CompressedSize:   f.CompressedSize64,
			UncompressedSize: f.UncompressedSize64,
			Modified:         f.Modified,
		})
	}

	if f := FindEntry(zr, MetadataEntry); f != nil {
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}
		if insp.Metadata, err = metadata.Parse(data); err != nil {
			insp.MetadataError = errors.Wrapf(err, "entry %q", f.Name)
		}
	}

	if f := FindEntry(zr, streamEntry); f != nil {
		data, err := readEntry(f)
		if err != nil {
			return nil, err
		}

		h, rr, err := recordstream.BuildHistogram(data)
		if err != nil {
			return nil, errors.Wrapf(err, "scanning entry %q", f.Name)
		}
		insp.Histogram = h
		insp.StreamBytes = len(data)
		insp.TrailingBytes = rr.TrailingBytes()
		insp.Halt = rr.Halt()
	}

	return &insp, nil
}

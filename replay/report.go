// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"sort"

	"github.com/danjacques/replayfilter/replay/recordstream"
)

// StreamReport summarizes the filtering of a single stream entry.
type StreamReport struct {
	// Name is the name of the archive entry.
	Name string

	InputBytes  int
	OutputBytes int
	Kept        int
	Removed     int
	Unknown     int

	// TrailingBytes is the size of a dropped short fragment at the end of the
	// stream.
	TrailingBytes int
	// Halt, if not nil, is the out-of-range header that stopped the stream.
	Halt *recordstream.HeaderError
}

// Report summarizes an archive rewrite.
type Report struct {
	// Removed maps packet codes to the number of records removed with that
	// code, summed across all stream entries.
	Removed map[uint32]int

	// Streams has one entry per rewritten stream entry, in archive order.
	Streams []StreamReport
	// Copied is the number of entries copied without modification.
	Copied int
}

func (rep *Report) addStream(name string, res *recordstream.Result) {
	if rep.Removed == nil {
		rep.Removed = make(map[uint32]int, len(res.Removed))
	}
	for code, n := range res.Removed {
		rep.Removed[code] += n
	}

	rep.Streams = append(rep.Streams, StreamReport{
		Name:          name,
		InputBytes:    res.InputBytes,
		OutputBytes:   len(res.Output),
		Kept:          res.Kept,
		Removed:       res.NumRemoved(),
		Unknown:       res.Unknown,
		TrailingBytes: res.TrailingBytes,
		Halt:          res.Halt,
	})
}

// Empty returns true if no record was removed.
func (rep *Report) Empty() bool { return len(rep.Removed) == 0 }

// StreamFound returns true if at least one stream entry was rewritten.
func (rep *Report) StreamFound() bool { return len(rep.Streams) > 0 }

// Codes returns the codes that removed at least one record, in ascending
// order.
func (rep *Report) Codes() []uint32 {
	codes := make([]uint32, 0, len(rep.Removed))
	for c := range rep.Removed {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package recordstream

import (
	"bytes"

	"github.com/danjacques/replayfilter/support/logging"
)

// Result is the outcome of filtering a stream.
type Result struct {
	// Output is the filtered stream.
	Output []byte

	// Removed maps each filtered tag value to the number of records that were
	// removed with that tag. It is never nil.
	Removed map[uint32]int
	// Kept is the number of records copied to Output.
	Kept int
	// Unknown is the number of records whose tag could not be decoded. These
	// records are always kept.
	Unknown int

	// InputBytes is the size of the input stream.
	InputBytes int
	// TrailingBytes is the size of a short fragment at the end of the input
	// that was dropped.
	TrailingBytes int
	// Halt, if not nil, is the out-of-range header that stopped the stream.
	Halt *HeaderError
}

// NumRemoved returns the total number of removed records.
func (res *Result) NumRemoved() int {
	total := 0
	for _, n := range res.Removed {
		total += n
	}
	return total
}

// FilterConfig configures stream filtering.
type FilterConfig struct {
	// Logger, if not nil, receives per-record debug logs and a warning when a
	// stream is halted.
	Logger logging.L
}

// Filter removes every record whose tag is in set from data.
//
// Records that are not removed are copied to the output verbatim, header
// and payload, in their original order. No record is partially emitted.
//
// If data is truncated in the middle of a record payload, Filter returns an
// error whose Cause is io.ErrUnexpectedEOF and no Result.
func (cfg *FilterConfig) Filter(data []byte, set Set) (*Result, error) {
	log := logging.Must(cfg.Logger)

	res := Result{
		Removed:    make(map[uint32]int),
		InputBytes: len(data),
	}
	out := bytes.NewBuffer(make([]byte, 0, len(data)))
	sw := NewWriter(out)

	rr, err := Scan(data, func(rec *Record) error {
		if !rec.Tag.Known {
			res.Unknown++
		}

		if set.Contains(rec.Tag) {
			res.Removed[rec.Tag.Value]++
			log.Debugf("Filtering packet ID %s at offset %d, timestamp: %d, length: %d",
				rec.Tag, rec.Offset, rec.Header.Timestamp, rec.Header.Length)
			return nil
		}

		if err := sw.CopyRecord(rec); err != nil {
			return err
		}
		log.Debugf("Processed packet ID %s at offset %d, timestamp: %d, length: %d",
			rec.Tag, rec.Offset, rec.Header.Timestamp, rec.Header.Length)
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Output = out.Bytes()
	res.Kept = int(sw.NumRecords())
	log.Debugf("Kept %d record(s), %d of %d byte(s).", res.Kept, sw.NumBytes(), len(data))

	res.Halt = rr.Halt()
	res.TrailingBytes = rr.TrailingBytes()
	if res.Halt != nil {
		log.Warnf("Stream halted: %s", res.Halt)
	}
	return &res, nil
}

// Filter filters data using a default FilterConfig.
func Filter(data []byte, set Set) (*Result, error) {
	var cfg FilterConfig
	return cfg.Filter(data, set)
}

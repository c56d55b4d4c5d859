// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package recordstream

import (
	"sort"
)

// HistogramEntry holds the totals for a single tag.
type HistogramEntry struct {
	Tag     Tag
	Records int
	Bytes   int64
}

// Histogram tallies the records of a stream by tag.
type Histogram struct {
	// Records is the total number of records.
	Records int
	// MaxTimestamp is the largest record timestamp observed.
	MaxTimestamp int32

	entries map[Tag]*HistogramEntry
}

// Add adds rec to the histogram.
func (h *Histogram) Add(rec *Record) {
	if h.entries == nil {
		h.entries = make(map[Tag]*HistogramEntry)
	}

	e := h.entries[rec.Tag]
	if e == nil {
		e = &HistogramEntry{Tag: rec.Tag}
		h.entries[rec.Tag] = e
	}
	e.Records++
	e.Bytes += int64(len(rec.Raw))

	if h.Records == 0 || rec.Header.Timestamp > h.MaxTimestamp {
		h.MaxTimestamp = rec.Header.Timestamp
	}
	h.Records++
}

// Entries returns the histogram's entries, most frequent first. Ties are
// ordered by tag, with unknown tags last.
func (h *Histogram) Entries() []HistogramEntry {
	entries := make([]HistogramEntry, 0, len(h.entries))
	for _, e := range h.entries {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		switch {
		case a.Records != b.Records:
			return a.Records > b.Records
		case a.Tag.Known != b.Tag.Known:
			return a.Tag.Known
		default:
			return a.Tag.Value < b.Tag.Value
		}
	})
	return entries
}

// BuildHistogram scans data and tallies its records.
//
// The returned Reader describes how the stream ended.
func BuildHistogram(data []byte) (*Histogram, *Reader, error) {
	var h Histogram
	rr, err := Scan(data, func(rec *Record) error {
		h.Add(rec)
		return nil
	})
	if err != nil {
		return nil, rr, err
	}
	return &h, rr, nil
}

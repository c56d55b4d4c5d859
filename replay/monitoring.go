// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"github.com/danjacques/replayfilter/packetcode"
	"github.com/danjacques/replayfilter/replay/recordstream"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	filterRecordsKept = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replayfilter_records_kept",
		Help: "Count of records copied to filtered streams.",
	})

	filterRecordsRemoved = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replayfilter_records_removed",
		Help: "Count of records removed from filtered streams, by packet code.",
	}, []string{"code"})

	filterRecordsUnknownTag = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replayfilter_records_unknown_tag",
		Help: "Count of records whose packet tag could not be decoded.",
	})

	filterStreamHalts = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replayfilter_stream_halts",
		Help: "Count of streams halted by an out-of-range record length.",
	})

	filterStreamBytes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "replayfilter_stream_bytes",
		Help: "Count of stream bytes read and written by the filter.",
	}, []string{"direction"})

	archiveEntriesCopied = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "replayfilter_archive_entries_copied",
		Help: "Count of archive entries copied without modification.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		// Streams
		filterRecordsKept,
		filterRecordsRemoved,
		filterRecordsUnknownTag,
		filterStreamHalts,
		filterStreamBytes,

		// Archives
		archiveEntriesCopied,
	)
}

func observeFilterResult(res *recordstream.Result) {
	filterRecordsKept.Add(float64(res.Kept))
	for code, n := range res.Removed {
		filterRecordsRemoved.WithLabelValues(packetcode.Format(code)).Add(float64(n))
	}
	filterRecordsUnknownTag.Add(float64(res.Unknown))
	if res.Halt != nil {
		filterStreamHalts.Inc()
	}
	filterStreamBytes.WithLabelValues("in").Add(float64(res.InputBytes))
	filterStreamBytes.WithLabelValues("out").Add(float64(len(res.Output)))
}

// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package dataio contains io helpers shared by stream writers.
package dataio

import (
	"io"
)

// CountingWriter is an io.Writer that counts the bytes written through it.
type CountingWriter struct {
	// W is the underlying Writer.
	W io.Writer
	// Count is the number of bytes successfully written to W.
	Count int64
}

func (cw *CountingWriter) Write(p []byte) (int, error) {
	amt, err := cw.W.Write(p)
	cw.Count += int64(amt)
	return amt, err
}

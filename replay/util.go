// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"bufio"
	"compress/gzip"
	"io"

	"github.com/danjacques/replayfilter/support/dataio"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	// Large buffer size (4MB), good for reading and writing raw streams.
	rawStreamLargeBufferSize = 1024 * 1024 * 4
)

// OpenArchive opens a replay archive from r.
//
// The returned Reader can read entries compressed with Zstandard in addition
// to the standard zip methods.
func OpenArchive(r io.ReaderAt, size int64) (*zip.Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, errors.Wrap(err, "opening archive")
	}
	zr.RegisterDecompressor(zstd.ZipMethodWinZip, zstd.ZipDecompressor())
	return zr, nil
}

func newArchiveWriter(w io.Writer) *zip.Writer {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())
	return zw
}

// readEntry reads the full, decompressed contents of f.
func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening entry %q", f.Name)
	}
	defer func() {
		_ = rc.Close()
	}()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "reading entry %q", f.Name)
	}
	return data, nil
}

// newRawStreamReader returns a Reader over the record stream held in the raw
// stream file base, undoing its compression.
func newRawStreamReader(base io.Reader, comp Compression) (io.Reader, error) {
	br := bufio.NewReaderSize(base, rawStreamLargeBufferSize)

	switch comp {
	case CompressionSnappy:
		return snappy.NewReader(br), nil

	case CompressionGzip:
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, errors.Wrap(err, "creating gzip reader")
		}
		return gz, nil

	case CompressionNone:
		return br, nil

	default:
		return nil, errors.Errorf("unknown compression: %s", comp)
	}
}

// rawStreamWriter writes a raw record stream file, applying compression.
type rawStreamWriter struct {
	io.Writer

	// counter counts the bytes written to the base Writer.
	counter *dataio.CountingWriter

	bw      *bufio.Writer
	snappyW *snappy.Writer
	gzipW   *gzip.Writer
}

func newRawStreamWriter(base io.Writer) *rawStreamWriter {
	w := rawStreamWriter{
		counter: &dataio.CountingWriter{W: base},
	}
	w.bw = bufio.NewWriterSize(w.counter, rawStreamLargeBufferSize)
	w.Writer = w.bw
	return &w
}

func (w *rawStreamWriter) beginCompression(comp Compression, level int) error {
	switch comp {
	case CompressionSnappy:
		w.snappyW = snappy.NewBufferedWriter(w.bw)
		w.Writer = w.snappyW

	case CompressionGzip:
		if level < 0 {
			level = gzip.DefaultCompression
		}

		gw, err := gzip.NewWriterLevel(w.bw, level)
		if err != nil {
			return errors.Wrap(err, "creating gzip writer")
		}
		w.gzipW = gw
		w.Writer = w.gzipW

	case CompressionNone:
		w.Writer = w.bw

	default:
		return errors.Errorf("unknown compression: %s", comp)
	}
	return nil
}

// Close flushes all compression layers. It does not close the base Writer.
func (w *rawStreamWriter) Close() (err error) {
	if w.snappyW != nil {
		if err = w.snappyW.Close(); err != nil {
			return
		}
	}
	if w.gzipW != nil {
		if err = w.gzipW.Close(); err != nil {
			return
		}
	}
	return w.bw.Flush()
}

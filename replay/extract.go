// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

// ErrNoStream is returned when an archive has no stream entry.
var ErrNoStream = errors.New("archive has no stream entry")

// FindEntry returns the first entry in zr named name, or nil if there is no
// such entry.
func FindEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// ReadStream returns the decompressed record stream held in zr's entry
// name. If name is empty, DefaultStreamEntry is used.
//
// If there is no such entry, ReadStream returns ErrNoStream.
func ReadStream(zr *zip.Reader, name string) ([]byte, error) {
	if name == "" {
		name = DefaultStreamEntry
	}
	f := FindEntry(zr, name)
	if f == nil {
		return nil, errors.Wrapf(ErrNoStream, "%q", name)
	}
	return readEntry(f)
}

// StreamFileConfig configures reading and writing raw stream files, which
// hold a record stream outside of an archive.
type StreamFileConfig struct {
	// Compression is the compression applied to the stream file.
	Compression Compression
	// CompressionLevel is the gzip compression level. Negative values use
	// the default level.
	CompressionLevel int
}

// WriteStreamFile writes data to w as a raw stream file, returning the
// number of bytes written to w.
func (cfg *StreamFileConfig) WriteStreamFile(w io.Writer, data []byte) (int64, error) {
	sw := newRawStreamWriter(w)
	if err := sw.beginCompression(cfg.Compression, cfg.CompressionLevel); err != nil {
		return 0, err
	}
	if _, err := sw.Write(data); err != nil {
		return sw.counter.Count, errors.Wrap(err, "writing stream")
	}
	if err := sw.Close(); err != nil {
		return sw.counter.Count, errors.Wrap(err, "flushing stream")
	}
	return sw.counter.Count, nil
}

// ReadStreamFile reads a raw stream file from r, returning the
// decompressed record stream.
func (cfg *StreamFileConfig) ReadStreamFile(r io.Reader) ([]byte, error) {
	sr, err := newRawStreamReader(r, cfg.Compression)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(sr)
	if err != nil {
		return nil, errors.Wrap(err, "reading stream")
	}
	return data, nil
}

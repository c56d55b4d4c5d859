// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"io"
	"os"
	"path/filepath"

	"github.com/danjacques/replayfilter/replay/recordstream"
	"github.com/danjacques/replayfilter/support/fmtutil"
	"github.com/danjacques/replayfilter/support/logging"
	"github.com/danjacques/replayfilter/support/stagingdir"

	"github.com/klauspost/compress/zip"
	"github.com/pkg/errors"
)

const (
	// DefaultStreamEntry is the name of the archive entry that holds the
	// record stream.
	DefaultStreamEntry = "recording.tmcpr"

	// MetadataEntry is the name of the archive entry that holds the replay's
	// JSON metadata.
	MetadataEntry = "metaData.json"

	// haltPeekSize is the number of bytes at a halted header that are logged.
	haltPeekSize = 16
)

// Rewriter rewrites replay archives, filtering records out of their stream
// entry.
//
// The zero value is a valid Rewriter.
type Rewriter struct {
	// StreamEntry is the name of the entry holding the record stream. If
	// empty, DefaultStreamEntry is used.
	StreamEntry string

	// Method is the compression method used to write the filtered stream
	// entry. Other entries keep their original compression.
	Method Method

	// Logger, if not nil, is used to log rewrite progress.
	Logger logging.L
}

func (rw *Rewriter) streamEntry() string {
	if rw.StreamEntry != "" {
		return rw.StreamEntry
	}
	return DefaultStreamEntry
}

// Rewrite reads the archive zr and writes a rewritten archive to w.
//
// Entries are written in their original order. Each entry named
// StreamEntry is replaced by its filtered stream; every other entry is
// copied unchanged, including its compressed bytes.
//
// If Rewrite returns an error, the data written to w is not a valid archive
// and should be discarded.
func (rw *Rewriter) Rewrite(zr *zip.Reader, w io.Writer, set recordstream.Set) (*Report, error) {
	log := logging.Must(rw.Logger)
	method, err := rw.Method.zipMethod()
	if err != nil {
		return nil, err
	}

	zw := newArchiveWriter(w)
	var rep Report
	for _, f := range zr.File {
		if f.Name != rw.streamEntry() {
			log.Debugf("Copying entry %q (%d bytes).", f.Name, f.UncompressedSize64)
			if err := zw.Copy(f); err != nil {
				return nil, errors.Wrapf(err, "copying entry %q", f.Name)
			}
			archiveEntriesCopied.Inc()
			rep.Copied++
			continue
		}

		res, err := rw.filterEntry(log, f, set)
		if err != nil {
			return nil, err
		}

		fh := zip.FileHeader{
			Name:          f.Name,
			Comment:       f.Comment,
			Method:        method,
			Modified:      f.Modified,
			ExternalAttrs: f.ExternalAttrs,
		}
		ew, err := zw.CreateHeader(&fh)
		if err != nil {
			return nil, errors.Wrapf(err, "creating entry %q", f.Name)
		}
		if _, err := ew.Write(res.Output); err != nil {
			return nil, errors.Wrapf(err, "writing entry %q", f.Name)
		}

		observeFilterResult(res)
		rep.addStream(f.Name, res)
	}

	// Write the central directory.
	if err := zw.Close(); err != nil {
		return nil, errors.Wrap(err, "finalizing archive")
	}
	return &rep, nil
}

func (rw *Rewriter) filterEntry(log logging.L, f *zip.File, set recordstream.Set) (*recordstream.Result, error) {
	data, err := readEntry(f)
	if err != nil {
		return nil, err
	}

	log.Infof("Filtering stream entry %q (%s).", f.Name, fmtutil.Size(len(data)))
	res, err := filterStream(log, f.Name, data, set)
	if err != nil {
		return nil, errors.Wrapf(err, "filtering entry %q", f.Name)
	}
	return res, nil
}

// FilterStream filters a record stream that is not held in an archive, such
// as one read from a raw stream file. name identifies the stream in logs.
func (rw *Rewriter) FilterStream(name string, data []byte, set recordstream.Set) (*recordstream.Result, error) {
	res, err := filterStream(logging.Must(rw.Logger), name, data, set)
	if err != nil {
		return nil, errors.Wrapf(err, "filtering %q", name)
	}
	observeFilterResult(res)
	return res, nil
}

func filterStream(log logging.L, name string, data []byte, set recordstream.Set) (*recordstream.Result, error) {
	cfg := recordstream.FilterConfig{
		Logger: log,
	}
	res, err := cfg.Filter(data, set)
	if err != nil {
		return nil, err
	}

	if h := res.Halt; h != nil {
		end := h.Offset + haltPeekSize
		if end > len(data) {
			end = len(data)
		}
		log.Debugf("Stream %q: discarded bytes at offset %d begin with %s.",
			name, h.Offset, fmtutil.HexSlice(data[h.Offset:end]))
	}
	if res.TrailingBytes > 0 {
		log.Warnf("Stream %q: dropped a %d-byte fragment at the end of the stream.", name, res.TrailingBytes)
	}
	return res, nil
}

// RewriteFile rewrites the archive at in into out.
//
// The output is built in a staging directory next to out and moved into
// place only if the rewrite succeeds, so a failed rewrite never leaves a
// partial archive at out. in and out may be the same path.
func (rw *Rewriter) RewriteFile(in, out string, set recordstream.Set) (*Report, error) {
	inFile, err := os.Open(in)
	if err != nil {
		return nil, errors.Wrap(err, "opening input")
	}
	defer func() {
		if inFile != nil {
			_ = inFile.Close()
		}
	}()

	st, err := inFile.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "stat input")
	}
	zr, err := OpenArchive(inFile, st.Size())
	if err != nil {
		return nil, err
	}

	sd, err := stagingdir.ForDestination(out)
	if err != nil {
		return nil, errors.Wrap(err, "creating staging directory")
	}
	defer func() {
		_ = sd.Destroy()
	}()

	name := filepath.Base(out)
	outFile, err := sd.Create(name)
	if err != nil {
		return nil, errors.Wrap(err, "creating output")
	}
	rep, err := rw.Rewrite(zr, outFile, set)
	if closeErr := outFile.Close(); err == nil && closeErr != nil {
		err = errors.Wrap(closeErr, "closing output")
	}
	if err != nil {
		return nil, err
	}

	// Release the input before replacing it, in case in == out.
	closeErr := inFile.Close()
	inFile = nil
	if closeErr != nil {
		return nil, errors.Wrap(closeErr, "closing input")
	}

	if err := sd.Commit(name, out); err != nil {
		return nil, errors.Wrap(err, "committing output")
	}
	return rep, nil
}

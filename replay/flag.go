// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package replay

import (
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Method is the archive compression method used for a rewritten stream
// entry.
//
// The zero value is MethodDeflate, which every replay reader supports.
type Method int

const (
	// MethodDeflate compresses with DEFLATE.
	MethodDeflate Method = iota
	// MethodStore stores the entry uncompressed.
	MethodStore
	// MethodZstd compresses with Zstandard (zip method 93).
	MethodZstd
)

var methodNames = map[Method]string{
	MethodDeflate: "deflate",
	MethodStore:   "store",
	MethodZstd:    "zstd",
}

func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m Method) zipMethod() (uint16, error) {
	switch m {
	case MethodDeflate:
		return zip.Deflate, nil
	case MethodStore:
		return zip.Store, nil
	case MethodZstd:
		return zstd.ZipMethodWinZip, nil
	default:
		return 0, errors.Errorf("unknown method: %d", m)
	}
}

// MethodFlag is a pflag.Value implementation that stores a Method.
type MethodFlag Method

var _ pflag.Value = (*MethodFlag)(nil)

func (mf *MethodFlag) String() string { return Method(*mf).String() }

// Set implements pflag.Value.
func (mf *MethodFlag) Set(v string) error {
	for m, name := range methodNames {
		if strings.EqualFold(v, name) {
			*mf = MethodFlag(m)
			return nil
		}
	}
	return errors.Errorf("unknown method: %q", v)
}

// Type implements pflag.Value.
func (mf *MethodFlag) Type() string { return "replay.Method" }

// Value returns the method held by this flag.
func (mf MethodFlag) Value() Method { return Method(mf) }

// MethodFlagValues returns the list of possible values for a MethodFlag.
func MethodFlagValues() string {
	return joinNames(len(methodNames), func(i int) (string, bool) {
		name, ok := methodNames[Method(i)]
		return name, ok
	})
}

// Compression is the compression applied to an extracted raw stream file.
type Compression int

const (
	// CompressionNone writes the stream as-is.
	CompressionNone Compression = iota
	// CompressionSnappy uses the snappy framing format.
	CompressionSnappy
	// CompressionGzip uses gzip.
	CompressionGzip
)

var compressionNames = map[Compression]string{
	CompressionNone:   "NONE",
	CompressionSnappy: "SNAPPY",
	CompressionGzip:   "GZIP",
}

func (c Compression) String() string {
	if name, ok := compressionNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// CompressionFlag is a pflag.Value implementation that stores a compression
// value.
type CompressionFlag Compression

var _ pflag.Value = (*CompressionFlag)(nil)

func (cf *CompressionFlag) String() string { return Compression(*cf).String() }

// Set implements pflag.Value.
func (cf *CompressionFlag) Set(v string) error {
	for c, name := range compressionNames {
		if strings.EqualFold(v, name) {
			*cf = CompressionFlag(c)
			return nil
		}
	}
	return errors.Errorf("unknown compression type: %q", v)
}

// Type implements pflag.Value.
func (cf *CompressionFlag) Type() string { return "replay.Compression" }

// Value returns the compression value held by this flag.
func (cf CompressionFlag) Value() Compression { return Compression(cf) }

// CompressionFlagValues returns the list of possible values for a
// CompressionFlag.
func CompressionFlagValues() string {
	return joinNames(len(compressionNames), func(i int) (string, bool) {
		name, ok := compressionNames[Compression(i)]
		return name, ok
	})
}

// joinNames joins the names of an enumeration whose values are contiguous
// from zero, in enumeration order.
func joinNames(count int, name func(int) (string, bool)) string {
	opts := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if n, ok := name(i); ok {
			opts = append(opts, n)
		}
	}
	return strings.Join(opts, ", ")
}

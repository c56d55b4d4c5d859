// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package metadata reads the JSON metadata entry stored alongside a replay's
// record stream.
//
// Metadata is only ever read. Archive rewrites copy the metadata entry
// without modification.
package metadata

import (
	"time"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"
)

// Metadata is the subset of a replay's metadata that is reported to users.
//
// Fields that are absent from the source document are left at their zero
// value.
type Metadata struct {
	Singleplayer bool
	ServerName   string
	// Duration is the length of the recording.
	Duration time.Duration
	// Date is when the recording started.
	Date time.Time

	MCVersion         string
	FileFormat        string
	FileFormatVersion int
	Protocol          int
	Generator         string

	// Players is the number of player UUIDs listed in the metadata.
	Players int
}

// Parse parses a metadata document.
func Parse(data []byte) (*Metadata, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "parsing metadata")
	}
	if v.Type() != fastjson.TypeObject {
		return nil, errors.Errorf("metadata is a JSON %s, not an object", v.Type())
	}

	md := Metadata{
		Singleplayer:      v.GetBool("singleplayer"),
		ServerName:        string(v.GetStringBytes("serverName")),
		Duration:          time.Duration(v.GetInt64("duration")) * time.Millisecond,
		MCVersion:         string(v.GetStringBytes("mcversion")),
		FileFormat:        string(v.GetStringBytes("fileFormat")),
		FileFormatVersion: v.GetInt("fileFormatVersion"),
		Protocol:          v.GetInt("protocol"),
		Generator:         string(v.GetStringBytes("generator")),
		Players:           len(v.GetArray("players")),
	}
	if ms := v.GetInt64("date"); ms != 0 {
		md.Date = time.Unix(0, ms*int64(time.Millisecond)).UTC()
	}
	return &md, nil
}

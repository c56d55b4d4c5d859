// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package fmtutil contains formatting helpers for logs and reports.
package fmtutil

import (
	"bytes"
	"fmt"
)

// HexSlice is a byte slice that renders as a sequence of hex bytes, instead
// of the default decimal bytes.
//
// Output as: "[4]byte{0x10, 0x20, 0x30, 0x40}"
//
// It can be used for easy lazy hex dumping.
type HexSlice []byte

func (hs HexSlice) String() string {
	var sb bytes.Buffer
	sb.Grow((6 * len(hs)) + 16) // 16 is more than we need for static content.
	fmt.Fprintf(&sb, "[%d]byte{", len(hs))
	for i, b := range hs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "0x%02X", b)
	}
	sb.WriteString("}")
	return sb.String()
}

// Size is a byte count that renders in binary units ("1.5 MiB").
type Size int64

func (s Size) String() string {
	const unit = 1024
	if s < unit && s > -unit {
		return fmt.Sprintf("%d B", int64(s))
	}

	v, exp := float64(s), 0
	for v >= unit*unit || v <= -unit*unit {
		v /= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", v/unit, "KMGTPE"[exp])
}

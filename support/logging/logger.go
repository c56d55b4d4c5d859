// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package logging defines the logger interface accepted by the filtering
// packages.
//
// Core packages never print. Record codecs and archive rewriters log through
// an L supplied by the caller, defaulting to Nop. The command-line tool
// supplies a console logger built by Config.New.
package logging

import (
	"go.uber.org/zap"
)

// L accepts logging data.
//
// zap.SugaredLogger satisfies L, as does any logger with the same leveled
// print methods.
type L interface {
	// Error reports a failure that ends the current operation.
	Error(args ...interface{})
	// Warn reports data that was dropped or skipped, such as a halted stream.
	Warn(args ...interface{})
	// Info reports progress of an archive or stream.
	Info(args ...interface{})
	// Debug reports per-record detail.
	Debug(args ...interface{})

	Errorf(fmt string, args ...interface{})
	Warnf(fmt string, args ...interface{})
	Infof(fmt string, args ...interface{})
	Debugf(fmt string, args ...interface{})
}

// Nop is an L that discards everything logged to it.
var Nop L = zap.NewNop().Sugar()

// Must returns l, or Nop if l is nil.
func Must(l L) L {
	if l != nil {
		return l
	}
	return Nop
}

// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ L = (*zap.SugaredLogger)(nil)

// Config configures a console logger.
type Config struct {
	// Output is where log lines are written.
	Output io.Writer
	// Verbose enables debug-level logging.
	Verbose bool
}

// New builds a zap-backed L that writes human-readable lines to
// cfg.Output.
//
// The returned function flushes any buffered entries and should be called
// before exit.
func (cfg *Config) New() (L, func()) {
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(cfg.Output),
		level)

	logger := zap.New(core)
	return logger.Sugar(), func() { _ = logger.Sync() }
}

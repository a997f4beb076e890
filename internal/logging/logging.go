// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package logging constructs the server's structured loggers. One
// process-wide zap.Logger is built at startup from the configured level and
// passed explicitly to every component that logs (no package-level global);
// a second, file-backed logger is dedicated to the panic log and is passed
// explicitly in the same way, mirroring the teacher corpus's preference for
// explicit dependency wiring over hidden singletons.
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide logger at the given severity threshold
// ("debug", "info", "warn", "error"; unrecognized values fall back to
// "info"). Output is JSON-encoded to stderr, leaving stdout free for the
// LSP transport.
func New(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// PanicLogger is a file-backed, append-only logger dedicated to recording
// CPU-pool worker panics. Rotation is explicitly out of scope (spec.md §6).
type PanicLogger struct {
	logger *zap.Logger
}

// NewPanicLogger opens (creating if absent) an append-only JSON log file at
// path and returns a logger scoped to it.
func NewPanicLogger(path string) (*PanicLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("opening panic log %s: %w", path, err)
	}
	return &PanicLogger{logger: logger}, nil
}

// Record appends one worker-panic entry: the recovered value, the worker's
// location label (e.g. a goroutine/task identifier), and a best-effort
// payload description of the work item that was in flight.
func (p *PanicLogger) Record(recovered any, location string, payload string) {
	p.logger.Error("worker panic",
		zap.Time("occurred_at", time.Now()),
		zap.String("location", location),
		zap.Any("recovered", recovered),
		zap.String("payload", payload),
		zap.Stack("stack"),
	)
}

// Sync flushes any buffered log entries.
func (p *PanicLogger) Sync() error {
	return p.logger.Sync()
}

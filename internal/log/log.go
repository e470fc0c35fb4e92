// Copyright 2026 The unityasset Authors.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package log provides the small leveled-logger contract used throughout
// the decoder. Parsing never fails loudly on recoverable problems (a bad
// bundle node, an object that fails to interpret); instead it logs at Warn
// and keeps going. Callers that don't care can pass a nil Logger and get a
// discard logger.
package log

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level is a log severity.
type Level int8

// Severity levels, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal interface a caller-supplied logger must satisfy.
type Logger interface {
	Log(level Level, msg string)
}

// NewStdLogger returns a Logger that writes timestamped lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

type stdLogger struct {
	w io.Writer
}

func (s *stdLogger) Log(level Level, msg string) {
	fmt.Fprintf(s.w, "%s [%s] %s\n", time.Now().UTC().Format(time.RFC3339), level, msg)
}

// discardLogger drops everything; used when no Logger is configured.
type discardLogger struct{}

func (discardLogger) Log(Level, string) {}

// NewFilter wraps base so that only records at or above min are emitted.
func NewFilter(base Logger, min Level) Logger {
	return &filter{base: base, min: min}
}

type filter struct {
	base Logger
	min  Level
}

func (f *filter) Log(level Level, msg string) {
	if level < f.min {
		return
	}
	f.base.Log(level, msg)
}

// Helper adds printf-style convenience methods on top of a Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger, or a discard logger if logger is nil.
func NewHelper(logger Logger) *Helper {
	if logger == nil {
		logger = discardLogger{}
	}
	return &Helper{logger: logger}
}

// Debugf logs at LevelDebug.
func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

// Infof logs at LevelInfo.
func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

// Warnf logs at LevelWarn.
func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

// Errorf logs at LevelError.
func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}

// Warn logs msg at LevelWarn.
func (h *Helper) Warn(msg string) {
	h.logger.Log(LevelWarn, msg)
}

// DefaultStderr is the Logger used when a caller passes no Options.Logger:
// warnings and errors to stderr, filtering out debug/info noise.
func DefaultStderr() Logger {
	return NewFilter(NewStdLogger(os.Stderr), LevelWarn)
}

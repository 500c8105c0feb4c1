// Copyright 2026 The gosmali Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package logutil provides the small leveled-logging facade the dex package
// logs through. The retrieval pack's teacher (saferwall/pe) logs through
// github.com/saferwall/pe/log, a Kratos-shaped Logger/Helper/Filter API; that
// package itself isn't fetchable from this module, so this package
// reproduces its surface (Logger, Helper, NewFilter, FilterLevel,
// Debugf/Infof/Warnf/Errorf) rather than collapsing to log.Printf calls.
package logutil

import (
	"fmt"
	"io"
	"log"
	"sync"
)

// Level is a log severity, ordered low to high.
type Level int

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

// Logger is the minimal leveled-logging sink every component logs through.
type Logger interface {
	Log(level Level, msg string)
}

// stdLogger writes every record as a single line to an underlying
// *log.Logger, the way the teacher's default logger writes to stdout.
type stdLogger struct {
	mu  sync.Mutex
	std *log.Logger
}

// NewStdLogger builds a Logger that writes to w using the standard library's
// log.Logger.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.std.Printf("[%s] %s", level, msg)
}

// filter wraps a Logger and drops records below a minimum level.
type filter struct {
	next Logger
	min  Level
}

// FilterOption configures a filter built by NewFilter.
type FilterOption func(*filter)

// FilterLevel sets the minimum level a record must meet to pass through.
func FilterLevel(min Level) FilterOption {
	return func(f *filter) { f.min = min }
}

// NewFilter wraps next, applying every opt.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filter{next: next, min: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filter) Log(level Level, msg string) {
	if level < f.min {
		return
	}
	f.next.Log(level, msg)
}

// Helper adds printf-style convenience methods over a Logger, the way the
// teacher's log.Helper wraps a log.Logger.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}

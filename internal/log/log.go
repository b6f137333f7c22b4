// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides the structured logger used across cellwalk's
// suspension points (table discovery, column enrichment, query
// submission, insert) and by the CLI.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Logger is the logging surface every component in cellwalk depends on.
// Components never reach for slog directly so the output format can be
// swapped without touching call sites.
type Logger interface {
	DebugContext(ctx context.Context, msg string, keysAndValues ...any)
	InfoContext(ctx context.Context, msg string, keysAndValues ...any)
	WarnContext(ctx context.Context, msg string, keysAndValues ...any)
	ErrorContext(ctx context.Context, msg string, keysAndValues ...any)
}

const (
	Debug = "DEBUG"
	Info  = "INFO"
	Warn  = "WARN"
	Error = "ERROR"
)

// SeverityToLevel returns the slog.Level for a severity string.
func SeverityToLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case Debug:
		return slog.LevelDebug, nil
	case Info:
		return slog.LevelInfo, nil
	case Warn:
		return slog.LevelWarn, nil
	case Error:
		return slog.LevelError, nil
	default:
		return slog.Level(-5), fmt.Errorf("invalid log level: %q", s)
	}
}

// NewLogger creates a Logger in the requested format ("standard" or
// "json") at the given level, splitting info/debug to out and warn/error
// to err.
func NewLogger(format, level string, out, err io.Writer) (Logger, error) {
	switch strings.ToLower(format) {
	case "", "standard":
		return newHandlerLogger(out, err, level, false)
	case "json":
		return newHandlerLogger(out, err, level, true)
	default:
		return nil, fmt.Errorf("logging format invalid: %s", format)
	}
}

// handlerLogger routes debug/info to outLogger and warn/error to errLogger,
// the split the teacher's StdLogger/StructuredLogger both implement.
type handlerLogger struct {
	outLogger *slog.Logger
	errLogger *slog.Logger
}

func newHandlerLogger(outW, errW io.Writer, level string, asJSON bool) (Logger, error) {
	slogLevel, err := SeverityToLevel(level)
	if err != nil {
		return nil, err
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slogLevel)
	opts := &slog.HandlerOptions{Level: programLevel}

	newHandler := func(w io.Writer) slog.Handler {
		if asJSON {
			return slog.NewJSONHandler(w, opts)
		}
		return slog.NewTextHandler(w, opts)
	}

	return &handlerLogger{
		outLogger: slog.New(newHandler(outW)),
		errLogger: slog.New(newHandler(errW)),
	}, nil
}

func (l *handlerLogger) DebugContext(ctx context.Context, msg string, kv ...any) {
	l.outLogger.DebugContext(ctx, msg, kv...)
}

func (l *handlerLogger) InfoContext(ctx context.Context, msg string, kv ...any) {
	l.outLogger.InfoContext(ctx, msg, kv...)
}

func (l *handlerLogger) WarnContext(ctx context.Context, msg string, kv ...any) {
	l.errLogger.WarnContext(ctx, msg, kv...)
}

func (l *handlerLogger) ErrorContext(ctx context.Context, msg string, kv ...any) {
	l.errLogger.ErrorContext(ctx, msg, kv...)
}

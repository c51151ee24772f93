// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides a context-carried logging fluent API:
// ctx.Info().Log("message") rather than a global logger. There is no
// pluggable style or broadcast fan-out — this module has no CLI/report
// surface, so one Handler at a time is enough.
package log

import (
	"context"
	"fmt"
	"os"
)

// Message is a single emitted log record.
type Message struct {
	Severity Severity
	Text     string
}

// Handler receives emitted messages.
type Handler func(Message)

var activeHandler Handler = func(m Message) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", m.Severity.Short(), m.Text)
}

// Short returns a single-character abbreviation of the severity.
func (s Severity) Short() string {
	switch s {
	case Debug:
		return "D"
	case Info:
		return "I"
	case Warning:
		return "W"
	case Error:
		return "E"
	}
	return "?"
}

// SetHandler replaces the active message handler.
func SetHandler(h Handler) { activeHandler = h }

type ctxKey struct{}

// Context is a context.Context wrapper exposing the fluent logging API.
type Context struct {
	context.Context
}

// Wrap adapts a context.Context into a log.Context.
func Wrap(ctx context.Context) Context { return Context{ctx} }

// Logger emits messages at a fixed severity.
type Logger struct {
	ctx      context.Context
	severity Severity
}

// At returns a Logger bound to the given severity.
func (c Context) At(s Severity) Logger { return Logger{c.Context, s} }

// Debug is shorthand for c.At(Debug).
func (c Context) Debug() Logger { return c.At(Debug) }

// Info is shorthand for c.At(Info).
func (c Context) Info() Logger { return c.At(Info) }

// Warning is shorthand for c.At(Warning).
func (c Context) Warning() Logger { return c.At(Warning) }

// Error is shorthand for c.At(Error).
func (c Context) Error() Logger { return c.At(Error) }

// Log emits msg at the logger's severity.
func (l Logger) Log(msg string) { activeHandler(Message{l.severity, msg}) }

// Logf formats and emits a message at the logger's severity.
func (l Logger) Logf(format string, args ...interface{}) {
	activeHandler(Message{l.severity, fmt.Sprintf(format, args...)})
}

// Err wraps cause with msg, logging it at Error severity and returning it.
func (l Logger) Err(cause error, msg string) error {
	e := &wrapped{cause, msg}
	activeHandler(Message{Error, e.Error()})
	return e
}

// Errf wraps cause with a formatted message, logging and returning it.
func (l Logger) Errf(cause error, format string, args ...interface{}) error {
	return l.Err(cause, fmt.Sprintf(format, args...))
}

type wrapped struct {
	cause error
	msg   string
}

func (e *wrapped) Cause() error { return e.cause }
func (e *wrapped) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

// D logs a debug-level message against ctx.
func D(ctx context.Context, format string, args ...interface{}) { Wrap(ctx).Debug().Logf(format, args...) }

// I logs an info-level message against ctx.
func I(ctx context.Context, format string, args ...interface{}) { Wrap(ctx).Info().Logf(format, args...) }

// W logs a warning-level message against ctx.
func W(ctx context.Context, format string, args ...interface{}) {
	Wrap(ctx).Warning().Logf(format, args...)
}

// E logs an error-level message against ctx.
func E(ctx context.Context, format string, args ...interface{}) { Wrap(ctx).Error().Logf(format, args...) }

// Err creates a new error wrapping cause with msg, logged at Error severity.
func Err(ctx context.Context, cause error, msg string) error {
	return Wrap(ctx).Error().Err(cause, msg)
}

// Errf creates a new error wrapping cause with a formatted message.
func Errf(ctx context.Context, cause error, format string, args ...interface{}) error {
	return Wrap(ctx).Error().Errf(cause, format, args...)
}

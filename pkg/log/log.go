// Copyright 2025 walteh LLC
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

package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/filedeck/pkg/format"
)

// 🎨 Display configuration
const (
	rowIndent   = 2  // spaces to indent file rows
	idWidth     = 8  // short id prefix
	nameWidth   = 30 // Base width for filename
	extWidth    = 6  // Width for extension
	sizeWidth   = 9  // Width for formatted size
	modifiedLen = len(format.ModifiedLayout)
)

// 🎯 Row is one file line in the list display
type Row struct {
	ID         string // Stable identifier
	Name       string // File name
	Extension  string // Lowercase extension without dot
	Size       string // Formatted size, e.g. "1.5 MB"
	Modified   string // Formatted last write time
	IsSelected bool   // Part of the ordered selection
	IsActive   bool   // Currently shown in the detail view
	IsCached   bool   // Content present in the cache
}

// 🏃 RunOperation describes a simulated run for logging
type RunOperation struct {
	Name  string // File being run
	Steps int    // Progress steps
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *RunOperation
	started    time.Time
}

// 🏭 New creates a new logger. Console lines go to console; the zerolog
// mirror writes to stderr at level.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
	})).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

func shortID(id string) string {
	if len(id) > idWidth {
		return id[:idWidth]
	}
	return id
}

// 📝 formatRow formats a file row for display
func (l *Logger) formatRow(row Row) string {
	active := " "
	if row.IsActive {
		active = color.New(color.FgMagenta).Sprint("▶")
	}

	check := color.New(color.Faint).Sprint("☐")
	if row.IsSelected {
		check = color.New(color.FgGreen).Sprint("☑")
	}

	cached := " "
	if row.IsCached {
		cached = color.New(color.FgCyan).Sprint("●")
	}

	return fmt.Sprintf("%s%s %s %s %s %s %s %s %s",
		fmt.Sprintf("%*s", rowIndent, ""),
		active,
		check,
		cached,
		color.New(color.Faint).Sprint(fmt.Sprintf("%-*s", idWidth, shortID(row.ID))),
		fmt.Sprintf("%-*s", nameWidth, row.Name),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", extWidth, row.Extension)),
		fmt.Sprintf("%*s", sizeWidth, row.Size),
		fmt.Sprintf("%-*s", modifiedLen, row.Modified))
}

// 📝 LogFileRow prints one file row
func (l *Logger) LogFileRow(ctx context.Context, row Row) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatRow(row))

	l.zlog.Debug().
		Str("id", row.ID).
		Str("file", row.Name).
		Str("size", row.Size).
		Bool("is_selected", row.IsSelected).
		Bool("is_active", row.IsActive).
		Bool("is_cached", row.IsCached).
		Msg("file row")
}

// 📝 StartRun starts a new run operation
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &op
	l.started = time.Now()

	fmt.Fprintf(l.console, "[running %s]\n",
		color.New(color.FgCyan).Sprint(op.Name))

	l.zlog.Info().
		Str("file", op.Name).
		Int("steps", op.Steps).
		Msg("starting run")
}

// 📝 EndRun ends the current run operation
func (l *Logger) EndRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	l.zlog.Info().
		Str("file", l.currentRun.Name).
		Dur("elapsed", time.Since(l.started)).
		Msg("run complete")

	l.currentRun = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("filedeck")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

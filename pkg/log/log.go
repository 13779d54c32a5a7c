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

// Package log is the user-facing console logger: per-file run headers,
// one line per completed stage, and the end-of-run summary. Structured
// logging stays on zerolog; this package only owns the pretty output.
package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	stageIndent = 4  // spaces to indent stage entries
	stageWidth  = 25 // base width for stage name
	countWidth  = 6  // width for change counts
)

// 🎯 StageOperation is one completed stage for console display.
type StageOperation struct {
	Stage       string // stage name
	Applied     int    // changes written to the buffer
	Skipped     int    // occurrences left alone
	Removed     int    // lines or elements removed
	Interactive bool   // whether the stage prompted the user
}

// 📦 FileRun is one input file being processed.
type FileRun struct {
	Path   string // input path
	Output string // output path
	Format string // txt/html/xhtml
}

// 🎯 Logger pairs pretty console output with structured zerolog events.
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentRun *FileRun
	stages     []StageOperation
}

// 🏭 New creates a new logger.
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
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

// 📝 formatStageOperation formats one stage line for display.
func (l *Logger) formatStageOperation(op StageOperation) string {
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Applied > 0 || op.Removed > 0:
		symbol = '✓'
		symbolColor = color.FgGreen
	case op.Interactive:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	counts := fmt.Sprintf("%*d applied %*d skipped",
		countWidth, op.Applied, countWidth, op.Skipped)
	if op.Removed > 0 {
		counts += fmt.Sprintf(" %*d removed", countWidth, op.Removed)
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", stageIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", stageWidth, op.Stage),
		color.New(color.Faint).Sprint(counts))
}

// 📝 LogStage logs one completed stage.
func (l *Logger) LogStage(ctx context.Context, op StageOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stages = append(l.stages, op)
	fmt.Fprintln(l.console, l.formatStageOperation(op))

	l.zlog.Info().
		Str("stage", op.Stage).
		Int("applied", op.Applied).
		Int("skipped", op.Skipped).
		Int("removed", op.Removed).
		Bool("interactive", op.Interactive).
		Msg("stage complete")
}

// 📝 StartFileRun prints the header for one input file.
func (l *Logger) StartFileRun(ctx context.Context, run FileRun) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentRun = &run
	l.stages = nil

	fmt.Fprintf(l.console, "[processing %s]\n",
		color.New(color.FgCyan).Sprint(run.Path))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(run.Format),
		color.New(color.Faint).Sprint("→"),
		color.New(color.FgYellow).Sprint(run.Output))

	l.zlog.Info().
		Str("path", run.Path).
		Str("output", run.Output).
		Str("format", run.Format).
		Msg("starting file run")
}

// 📝 EndFileRun closes the current file run.
func (l *Logger) EndFileRun(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentRun == nil {
		return
	}

	l.zlog.Info().
		Str("path", l.currentRun.Path).
		Int("stages", len(l.stages)).
		Msg("file run complete")

	l.currentRun = nil
	l.stages = nil
}

// 📝 Summary prints the end-of-run processing summary block.
func (l *Logger) Summary(summary string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "\n%s\n%s\n",
		color.New(color.Bold).Sprint("processing summary"),
		summary)
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
	nameText := color.New(color.Bold, color.FgCyan).Sprint("bookmend")
	fmt.Fprintf(l.console, "\n%s %s\n\n", nameText, color.New(color.Faint).Sprint("• "+msg))
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

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

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
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_run",
			op: func(t *testing.T, logger *Logger) {
				logger.StartFileRun(context.Background(), FileRun{
					Path:   "moby-dick.txt",
					Output: "moby-dick.fixed.txt",
					Format: "txt",
				})
			},
			wantLogs: []string{
				"[processing moby-dick.txt]",
				"◆ txt → moby-dick.fixed.txt",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("processing book text")
			},
			wantLogs: []string{
				"bookmend • processing book text",
			},
		},
		{
			name: "log_summary",
			op: func(t *testing.T, logger *Logger) {
				logger.Summary("1. replaced 3 patterns")
			},
			wantLogs: []string{
				"processing summary",
				"1. replaced 3 patterns",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestStageOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name       string
		op         StageOperation
		wantSymbol string
		wantParts  []string
	}{
		{
			name: "stage_with_changes",
			op: StageOperation{
				Stage:   "automatic_replacements",
				Applied: 2,
			},
			wantSymbol: "✓",
			wantParts:  []string{"automatic_replacements", "2 applied", "0 skipped"},
		},
		{
			name: "stage_with_removals",
			op: StageOperation{
				Stage:   "remove_pagination",
				Removed: 4,
			},
			wantSymbol: "✓",
			wantParts:  []string{"remove_pagination", "4 removed"},
		},
		{
			name: "interactive_stage_all_skipped",
			op: StageOperation{
				Stage:       "all_caps",
				Skipped:     3,
				Interactive: true,
			},
			wantSymbol: "•",
			wantParts:  []string{"all_caps", "0 applied", "3 skipped"},
		},
		{
			name: "idle_stage",
			op: StageOperation{
				Stage: "insert_periods",
			},
			wantSymbol: "-",
			wantParts:  []string{"insert_periods", "0 applied", "0 skipped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Log operation
			logger.LogStage(context.Background(), tt.op)

			// Check output
			output := strings.TrimSpace(buf.String())
			assert.True(t, strings.HasPrefix(output, tt.wantSymbol), "symbol should lead the line: %q", output)
			for _, part := range tt.wantParts {
				assert.Contains(t, output, part)
			}
		})
	}
}

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

// Package audit collects the ordered record of everything the pipeline did
// to the text: applied decisions, automatic replacements, conversions,
// removed pagination elements, and rejected candidates. The trail is
// run-scoped; sinks receive records append-only as they happen.
package audit

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// 🎬 Action classifies what a record describes.
type Action string

const (
	ActionApplied   Action = "applied"   // text was mutated
	ActionSkipped   Action = "skipped"   // candidate surfaced but left alone
	ActionRejected  Action = "rejected"  // candidate failed validation
	ActionIgnored   Action = "ignored"   // candidate matched an ignore set
	ActionRemoved   Action = "removed"   // content was stripped from the text
	ActionPersisted Action = "persisted" // a permanent set was updated
)

// 📋 Record is one entry in the trail. Span offsets refer to the buffer
// revision the record was produced against; they are audit data, not
// live positions.
type Record struct {
	Stage    string    // stage that produced the record
	Action   Action    // what happened
	Start    int       // span start at time of action
	End      int       // span end at time of action
	Original string    // text before the action
	Result   string    // text after the action (empty for removals)
	Reason   string    // why, for rejections and ignores
	Context  string    // surrounding text, for conversions and removals
	At       time.Time // when the record was produced
}

// 🕳️ Sink receives records in order. Implementations must not reorder or
// drop entries.
type Sink interface {
	Write(rec Record)
}

// 📜 Trail is the in-memory decision log for one run. It keeps every
// record in order and forwards each one to the attached sinks.
type Trail struct {
	mu    sync.Mutex
	recs  []Record
	sinks []Sink
}

// 🏭 NewTrail creates an empty trail forwarding to the given sinks.
func NewTrail(sinks ...Sink) *Trail {
	return &Trail{sinks: sinks}
}

// 📝 Add appends a record, stamping it if the caller left At zero.
func (t *Trail) Add(rec Record) {
	if rec.At.IsZero() {
		rec.At = time.Now()
	}
	t.mu.Lock()
	t.recs = append(t.recs, rec)
	sinks := t.sinks
	t.mu.Unlock()
	for _, s := range sinks {
		s.Write(rec)
	}
}

// 📖 Records returns a copy of the trail so far.
func (t *Trail) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(t.recs))
	copy(out, t.recs)
	return out
}

// 🔍 ByStage returns the records produced by one stage, in order.
func (t *Trail) ByStage(stage string) []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Record
	for _, r := range t.recs {
		if r.Stage == stage {
			out = append(out, r)
		}
	}
	return out
}

// 📊 Summary returns a numbered, ordered description of the applied and
// removed entries, one per line.
func (t *Trail) Summary() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.recs) == 0 {
		return "no processing steps completed"
	}
	out := ""
	n := 0
	for _, r := range t.recs {
		if r.Action != ActionApplied && r.Action != ActionRemoved {
			continue
		}
		n++
		out += fmt.Sprintf("%d. %s: %s %q", n, r.Stage, r.Action, r.Original)
		if r.Result != "" {
			out += fmt.Sprintf(" -> %q", r.Result)
		}
		out += "\n"
	}
	if n == 0 {
		return "no changes made"
	}
	return out
}

// ✍️ WriterSink writes records as append-only text lines, one per record.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// 🏭 NewWriterSink wraps an io.Writer as a sink.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Write(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("%s [%s] %s span=(%d,%d) original=%q", rec.At.Format(time.RFC3339), rec.Stage, rec.Action, rec.Start, rec.End, rec.Original)
	if rec.Result != "" {
		line += fmt.Sprintf(" result=%q", rec.Result)
	}
	if rec.Reason != "" {
		line += fmt.Sprintf(" reason=%q", rec.Reason)
	}
	if rec.Context != "" {
		line += fmt.Sprintf(" context=%q", rec.Context)
	}
	fmt.Fprintln(s.w, line)
}

// 🪵 ZerologSink mirrors every record into a structured logger at debug
// level, so --debug runs carry the full trail.
type ZerologSink struct {
	logger *zerolog.Logger
}

// 🏭 NewZerologSink wraps a zerolog logger as a sink.
func NewZerologSink(logger *zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

func (s *ZerologSink) Write(rec Record) {
	s.logger.Debug().
		Str("stage", rec.Stage).
		Str("action", string(rec.Action)).
		Int("start", rec.Start).
		Int("end", rec.End).
		Str("original", rec.Original).
		Str("result", rec.Result).
		Str("reason", rec.Reason).
		Msg("audit record")
}

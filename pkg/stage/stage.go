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

// Package stage implements the pipeline stages that rewrite the text
// buffer: the automatic single-pass transforms and the interactive
// stages that pause for one decision at a time. Every stage derives its
// matches from the current buffer contents; spans are never carried
// across a mutation.
package stage

import (
	"context"

	"github.com/walteh/bookmend/pkg/audit"
	"github.com/walteh/bookmend/pkg/buffer"
	"github.com/walteh/bookmend/pkg/caps"
	"github.com/walteh/bookmend/pkg/config"
)

// Stage name constants. These are the identifiers config files use to
// enable and order stages.
const (
	NameReplacements = "automatic_replacements"
	NamePeriods      = "insert_periods"
	NamePagination   = "remove_pagination"
	NameRoman        = "roman_numerals"
	NameLowercase    = "convert_lowercase"
	NameBlankLines   = "remove_blank_lines"
	NameChoices      = "interactive_choices"
	NameAllCaps      = "all_caps"
	NameNumbered     = "numbered_line_edit"
)

// 📍 Match is a located candidate span in the current text. It is
// transient: valid only against the revision it was computed from, and
// recomputed rather than adjusted after any mutation.
type Match struct {
	Start int
	End   int
	Text  string
	Rev   buffer.Revision

	// Word is the choice-list key for word-choice matches.
	Word string
	// Line is the zero-based line index for numbered-line matches.
	Line int
}

// 🎬 DecisionKind enumerates the ways an interactive match resolves.
type DecisionKind int

const (
	// DecisionApply mutates the buffer with the chosen text.
	DecisionApply DecisionKind = iota
	// DecisionSkip leaves this occurrence alone.
	DecisionSkip
	// DecisionIgnoreForever adds the sequence to the persistent ignore
	// set without touching the buffer.
	DecisionIgnoreForever
	// DecisionAutoForever adds the sequence to the persistent
	// auto-resolve set and applies it everywhere now.
	DecisionAutoForever
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionApply:
		return "apply"
	case DecisionSkip:
		return "skip"
	case DecisionIgnoreForever:
		return "ignore-forever"
	case DecisionAutoForever:
		return "auto-forever"
	default:
		return "unknown"
	}
}

// ✅ Decision is the resolution a caller supplies for one Match.
type Decision struct {
	Kind DecisionKind
	// Text is the chosen replacement for DecisionApply.
	Text string
}

// 💬 Interaction is one pending decision exposed to the presenter: the
// match, its option set (nil for free-form edits), and a short prompt.
type Interaction struct {
	Stage   string
	Match   Match
	Options []string
	Prompt  string
	// FreeForm marks matches resolved by typing a replacement rather
	// than picking an option.
	FreeForm bool
}

// 🎭 Presenter is the external collaborator that renders a pending
// interaction and returns exactly one decision. The pipeline suspends
// on Present and resumes when it returns.
type Presenter interface {
	Present(ctx context.Context, inter Interaction) (Decision, error)
	Notify(ctx context.Context, stageName, message string)
}

// 📦 ProcessingContext aggregates everything a run mutates: the buffer,
// the live rule sets, and the audit trail. It is created once per run
// and owned by the orchestrator; stages receive it by reference.
type ProcessingContext struct {
	Buffer *buffer.Buffer
	Config *config.Config
	Trail  *audit.Trail

	// InputPath drives file-type specific behavior (pagination).
	InputPath string

	// live sets, seeded from Config and mutated by permanent decisions
	CapsIgnore    map[string]bool
	CapsAutoLower map[string]bool
	RomanIgnore   map[string]bool

	// Dirty is set when a permanent decision changed the sets and the
	// configuration should be persisted.
	Dirty bool
}

// 🏭 NewProcessingContext seeds a context from configuration and the
// initial text.
func NewProcessingContext(cfg *config.Config, text, inputPath string, trail *audit.Trail) *ProcessingContext {
	if trail == nil {
		trail = audit.NewTrail()
	}
	return &ProcessingContext{
		Buffer:        buffer.New(text),
		Config:        cfg,
		Trail:         trail,
		InputPath:     inputPath,
		CapsIgnore:    toSet(cfg.CapsIgnore),
		CapsAutoLower: toSet(cfg.CapsAutoLower),
		RomanIgnore:   toSet(cfg.RomanIgnore),
	}
}

func toSet(in []string) map[string]bool {
	out := make(map[string]bool, len(in))
	for _, s := range in {
		out[s] = true
	}
	return out
}

// AddCapsIgnore records a permanent ignore decision in the live set and
// the config, and marks the context for persistence.
func (p *ProcessingContext) AddCapsIgnore(seq string) {
	p.CapsIgnore[seq] = true
	p.Config.AddCapsIgnore(seq)
	p.Dirty = true
}

// AddCapsAutoLower records a permanent auto-lowercase decision.
func (p *ProcessingContext) AddCapsAutoLower(seq string) {
	p.CapsAutoLower[seq] = true
	p.Config.AddCapsAutoLower(seq)
	p.Dirty = true
}

// Classifier builds an all-caps classifier over the live sets.
func (p *ProcessingContext) Classifier() *caps.Classifier {
	return caps.NewClassifier(caps.Options{
		IgnoreSet:       p.CapsIgnore,
		AutoLowerSet:    p.CapsAutoLower,
		PreserveInitial: p.Config.PreserveInitial,
	})
}

// ⚙️ Automatic is a deterministic single-pass transform: current text
// in, new text and audit records out. No user interaction.
type Automatic interface {
	Name() string
	Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error)
}

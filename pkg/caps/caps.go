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

// Package caps detects runs of consecutive fully-uppercase words and
// classifies each run against the ignore and auto-lowercase sets. The
// interactive resolution of pending runs lives in pkg/stage; this
// package owns detection and the lowercasing rules.
package caps

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/walteh/bookmend/pkg/audit"
)

// StageName identifies the classifier in audit records.
const StageName = "all_caps"

// capsWord is one fully-uppercase word of two or more letters. Single
// uppercase letters are not candidates, so initials never get flagged.
// Internal apostrophes, hyphens and ampersands are allowed.
const capsWord = `[A-Z](?:[A-Z'’&\-]*[A-Z])`

// capsRun matches a maximal sequence of capsWords separated by spaces.
var capsRun = regexp.MustCompile(`\b` + capsWord + `(?:[ \t]+` + capsWord + `)*\b`)

// 🏷️ Verdict is the classification of one run.
type Verdict int

const (
	// Pending runs need a user decision.
	Pending Verdict = iota
	// Ignored runs match the persistent ignore set and are skipped
	// without prompting.
	Ignored
	// AutoLower runs match the persistent auto-lowercase set and are
	// lowercased without prompting.
	AutoLower
)

func (v Verdict) String() string {
	switch v {
	case Ignored:
		return "ignored"
	case AutoLower:
		return "auto-lower"
	default:
		return "pending"
	}
}

// 📍 Run is one detected all-caps sequence in the current text.
type Run struct {
	Start int
	End   int
	Text  string
}

// 🔧 Options configures the classifier.
type Options struct {
	// IgnoreSet holds exact sequences that never prompt.
	IgnoreSet map[string]bool

	// AutoLowerSet holds exact sequences with a standing lowercase
	// decision.
	AutoLowerSet map[string]bool

	// PreserveInitial keeps the first letter uppercase when lowering,
	// for sequences that open a sentence.
	PreserveInitial bool
}

// 🔍 Classifier detects and classifies all-caps runs.
type Classifier struct {
	ignore          map[string]bool
	auto            map[string]bool
	preserveInitial bool
}

// 🏭 NewClassifier creates a classifier with the given options.
func NewClassifier(opts Options) *Classifier {
	ignore := opts.IgnoreSet
	if ignore == nil {
		ignore = map[string]bool{}
	}
	auto := opts.AutoLowerSet
	if auto == nil {
		auto = map[string]bool{}
	}
	return &Classifier{ignore: ignore, auto: auto, preserveInitial: opts.PreserveInitial}
}

// 🔍 FindRuns scans the current text and returns every maximal all-caps
// run in order. The result is derived only from the given text; calling
// it again on the same text yields the same runs.
func (c *Classifier) FindRuns(text string) []Run {
	var runs []Run
	for _, span := range capsRun.FindAllStringIndex(text, -1) {
		runs = append(runs, Run{Start: span[0], End: span[1], Text: text[span[0]:span[1]]})
	}
	return runs
}

// 🏷️ Classify judges one run against the persistent sets.
func (c *Classifier) Classify(run Run) Verdict {
	if c.ignore[run.Text] {
		return Ignored
	}
	if c.auto[run.Text] {
		return AutoLower
	}
	return Pending
}

// 🔡 Lowercase lowers a sequence per the configured policy.
func (c *Classifier) Lowercase(seq string) string {
	lower := strings.ToLower(seq)
	if c.preserveInitial && len(lower) > 0 {
		r := []rune(lower)
		r[0] = unicode.ToUpper(r[0])
		return string(r)
	}
	return lower
}

// 🔄 BulkLowercase lowers every whole-word occurrence of seq in text.
// One decision resolves all repeats in a single pass; a later re-scan
// will not re-find the sequence because the text already changed.
func (c *Classifier) BulkLowercase(text, seq string) string {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(seq) + `\b`)
	return pattern.ReplaceAllLiteralString(text, c.Lowercase(seq))
}

// ⚙️ ApplyAutoResolve lowers every sequence with a standing decision
// before interactive prompting begins. Sequences are applied in sorted
// order so the pre-pass is deterministic.
func (c *Classifier) ApplyAutoResolve(text string) (string, []audit.Record) {
	seqs := make([]string, 0, len(c.auto))
	for seq := range c.auto {
		seqs = append(seqs, seq)
	}
	sort.Strings(seqs)

	var records []audit.Record
	for _, seq := range seqs {
		pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(seq) + `\b`)
		count := len(pattern.FindAllStringIndex(text, -1))
		if count == 0 {
			continue
		}
		text = pattern.ReplaceAllLiteralString(text, c.Lowercase(seq))
		records = append(records, audit.Record{
			Stage:    StageName,
			Action:   audit.ActionApplied,
			Original: seq,
			Result:   c.Lowercase(seq),
			Reason:   "auto-lowercase set",
		})
	}
	return text, records
}

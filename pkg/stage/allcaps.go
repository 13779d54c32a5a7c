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

package stage

import (
	"context"
	"fmt"

	"github.com/walteh/bookmend/pkg/audit"
	"github.com/walteh/bookmend/pkg/caps"
	"gitlab.com/tozd/go/errors"
)

// Option labels presented for a pending all-caps run.
var capsOptions = []string{
	"Lowercase",
	"Keep uppercase",
	"Ignore permanently",
	"Always lowercase",
}

// 🔠 AllCapsResolve prompts once per distinct pending all-caps run. A
// lowercase decision resolves every occurrence of the sequence in one
// bulk pass; "keep" suppresses the sequence for the rest of this run
// only; the permanent decisions also update the live rule sets.
type AllCapsResolve struct {
	searchFrom  int
	prePassDone bool

	// decided holds sequences resolved this pass, so repeats of a kept
	// sequence do not re-prompt.
	decided map[string]bool

	// ignoredLogged keeps the audit trail to one record per ignored
	// sequence even though Next re-walks the whole text.
	ignoredLogged map[string]bool
}

// 🏭 NewAllCapsResolve creates a source with empty session state.
func NewAllCapsResolve() *AllCapsResolve {
	return &AllCapsResolve{
		decided:       map[string]bool{},
		ignoredLogged: map[string]bool{},
	}
}

func (*AllCapsResolve) Name() string { return NameAllCaps }

func (s *AllCapsResolve) Next(ctx context.Context, pctx *ProcessingContext) (*Interaction, bool, error) {
	cls := pctx.Classifier()

	// standing auto-lowercase decisions resolve up front, before the
	// first prompt
	if !s.prePassDone {
		s.prePassDone = true
		text, records := cls.ApplyAutoResolve(pctx.Buffer.Read())
		if len(records) > 0 {
			pctx.Buffer.SetText(text)
			for _, rec := range records {
				pctx.Trail.Add(rec)
			}
		}
	}

scan:
	for {
		text := pctx.Buffer.Read()
		for _, run := range cls.FindRuns(text) {
			if run.Start < s.searchFrom {
				continue
			}
			if s.decided[run.Text] {
				continue
			}

			switch cls.Classify(run) {
			case caps.Ignored:
				if !s.ignoredLogged[run.Text] {
					s.ignoredLogged[run.Text] = true
					pctx.Trail.Add(audit.Record{
						Stage:    NameAllCaps,
						Action:   audit.ActionIgnored,
						Start:    run.Start,
						End:      run.End,
						Original: run.Text,
						Reason:   "in persistent ignore set",
					})
				}
				continue

			case caps.AutoLower:
				// a permanent decision made earlier this pass can apply
				// to sequences first seen now
				pctx.Buffer.SetText(cls.BulkLowercase(text, run.Text))
				pctx.Trail.Add(audit.Record{
					Stage:    NameAllCaps,
					Action:   audit.ActionApplied,
					Original: run.Text,
					Result:   cls.Lowercase(run.Text),
					Reason:   "auto-lowercase set",
				})
				continue scan

			default:
				return &Interaction{
					Stage: NameAllCaps,
					Match: Match{
						Start: run.Start,
						End:   run.End,
						Text:  run.Text,
						Rev:   pctx.Buffer.Revision(),
					},
					Options: capsOptions,
					Prompt:  fmt.Sprintf("all-caps sequence %q", run.Text),
				}, true, nil
			}
		}
		return nil, false, nil
	}
}

func (s *AllCapsResolve) Resolve(ctx context.Context, pctx *ProcessingContext, m Match, d Decision) error {
	cls := pctx.Classifier()
	seq := m.Text

	switch d.Kind {
	case DecisionApply:
		pctx.Buffer.SetText(cls.BulkLowercase(pctx.Buffer.Read(), seq))
		s.decided[seq] = true
		pctx.Trail.Add(audit.Record{
			Stage:    NameAllCaps,
			Action:   audit.ActionApplied,
			Start:    m.Start,
			End:      m.End,
			Original: seq,
			Result:   cls.Lowercase(seq),
			Reason:   "lowercased all occurrences",
		})
		return nil

	case DecisionSkip:
		s.decided[seq] = true
		s.searchFrom = m.End
		pctx.Trail.Add(audit.Record{
			Stage:    NameAllCaps,
			Action:   audit.ActionSkipped,
			Start:    m.Start,
			End:      m.End,
			Original: seq,
			Reason:   "kept uppercase for this run",
		})
		return nil

	case DecisionIgnoreForever:
		pctx.AddCapsIgnore(seq)
		s.decided[seq] = true
		s.searchFrom = m.End
		pctx.Trail.Add(audit.Record{
			Stage:    NameAllCaps,
			Action:   audit.ActionPersisted,
			Start:    m.Start,
			End:      m.End,
			Original: seq,
			Reason:   "added to ignore set",
		})
		return nil

	case DecisionAutoForever:
		pctx.AddCapsAutoLower(seq)
		s.decided[seq] = true
		pctx.Buffer.SetText(cls.BulkLowercase(pctx.Buffer.Read(), seq))
		pctx.Trail.Add(audit.Record{
			Stage:    NameAllCaps,
			Action:   audit.ActionPersisted,
			Start:    m.Start,
			End:      m.End,
			Original: seq,
			Result:   cls.Lowercase(seq),
			Reason:   "added to auto-lowercase set",
		})
		return nil

	default:
		return errors.Errorf("unsupported decision kind %s for all-caps run", d.Kind)
	}
}

func (*AllCapsResolve) Finish(ctx context.Context, pctx *ProcessingContext) error { return nil }

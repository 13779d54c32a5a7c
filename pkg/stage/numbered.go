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
	"regexp"
	"sort"
	"strings"

	"github.com/walteh/bookmend/pkg/audit"
)

// digitRun flags lines carrying three or more consecutive digits, the
// signature of page numbers and OCR artifacts embedded in prose.
var digitRun = regexp.MustCompile(`\d{3,}`)

// ✏️ NumberedLines offers a free-form edit for every line containing a
// long digit run. Edits are collected during the pass and written to the
// buffer only in Finish, so line indices stay stable while the user
// works through them.
type NumberedLines struct {
	cursor  int
	edits   map[int]string
	skipped map[int]bool
}

// 🏭 NewNumberedLines creates a source positioned at the first line.
func NewNumberedLines() *NumberedLines {
	return &NumberedLines{
		edits:   map[int]string{},
		skipped: map[int]bool{},
	}
}

func (*NumberedLines) Name() string { return NameNumbered }

func (s *NumberedLines) Next(ctx context.Context, pctx *ProcessingContext) (*Interaction, bool, error) {
	text := pctx.Buffer.Read()
	lines := strings.Split(text, "\n")

	offset := 0
	for i, line := range lines {
		start := offset
		offset += len(line) + 1

		if i < s.cursor {
			continue
		}
		if _, edited := s.edits[i]; edited || s.skipped[i] {
			continue
		}
		if !digitRun.MatchString(line) {
			continue
		}

		return &Interaction{
			Stage: NameNumbered,
			Match: Match{
				Start: start,
				End:   start + len(line),
				Text:  line,
				Rev:   pctx.Buffer.Revision(),
				Line:  i,
			},
			Prompt:   fmt.Sprintf("edit line %d", i+1),
			FreeForm: true,
		}, true, nil
	}
	return nil, false, nil
}

func (s *NumberedLines) Resolve(ctx context.Context, pctx *ProcessingContext, m Match, d Decision) error {
	s.cursor = m.Line + 1

	if d.Kind != DecisionApply {
		s.skipped[m.Line] = true
		pctx.Trail.Add(audit.Record{
			Stage:    NameNumbered,
			Action:   audit.ActionSkipped,
			Start:    m.Start,
			End:      m.End,
			Original: m.Text,
		})
		return nil
	}

	edited := strings.TrimSpace(d.Text)
	if edited == strings.TrimSpace(m.Text) {
		// an unchanged submission is a skip
		s.skipped[m.Line] = true
		pctx.Trail.Add(audit.Record{
			Stage:    NameNumbered,
			Action:   audit.ActionSkipped,
			Start:    m.Start,
			End:      m.End,
			Original: m.Text,
			Reason:   "edit left line unchanged",
		})
		return nil
	}

	s.edits[m.Line] = edited
	return nil
}

// Finish writes the collected edits back in one pass.
func (s *NumberedLines) Finish(ctx context.Context, pctx *ProcessingContext) error {
	if len(s.edits) == 0 {
		return nil
	}

	lines := strings.Split(pctx.Buffer.Read(), "\n")
	idxs := make([]int, 0, len(s.edits))
	for i := range s.edits {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)

	for _, i := range idxs {
		if i >= len(lines) {
			continue
		}
		pctx.Trail.Add(audit.Record{
			Stage:    NameNumbered,
			Action:   audit.ActionApplied,
			Original: lines[i],
			Result:   s.edits[i],
		})
		lines[i] = s.edits[i]
	}

	pctx.Buffer.SetText(strings.Join(lines, "\n"))
	return nil
}

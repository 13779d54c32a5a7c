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
	"strings"

	"github.com/walteh/bookmend/pkg/audit"
	"gitlab.com/tozd/go/errors"
)

// 🔤 WordChoices walks the configured choice words in order and prompts
// once per occurrence. Occurrences are matched case-insensitively on
// word boundaries. The cursor only ever moves forward: applying a
// replacement resumes after the inserted text, so a replacement that
// still matches the word never re-prompts.
type WordChoices struct {
	wordIdx    int
	searchFrom int
}

// 🏭 NewWordChoices creates a source positioned before the first word.
func NewWordChoices() *WordChoices {
	return &WordChoices{}
}

func (*WordChoices) Name() string { return NameChoices }

func (s *WordChoices) Next(ctx context.Context, pctx *ProcessingContext) (*Interaction, bool, error) {
	for s.wordIdx < len(pctx.Config.Choices) {
		rule := pctx.Config.Choices[s.wordIdx]
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(rule.Word) + `\b`)
		if err != nil {
			return nil, false, errors.Errorf("compiling choice word %q: %w", rule.Word, err)
		}

		text := pctx.Buffer.Read()
		for _, span := range re.FindAllStringIndex(text, -1) {
			if span[0] < s.searchFrom {
				continue
			}
			m := Match{
				Start: span[0],
				End:   span[1],
				Text:  text[span[0]:span[1]],
				Rev:   pctx.Buffer.Revision(),
				Word:  rule.Word,
			}
			return &Interaction{
				Stage:   NameChoices,
				Match:   m,
				Options: rule.Options,
				Prompt:  fmt.Sprintf("replace %q with", m.Text),
			}, true, nil
		}

		s.wordIdx++
		s.searchFrom = 0
	}
	return nil, false, nil
}

func (s *WordChoices) Resolve(ctx context.Context, pctx *ProcessingContext, m Match, d Decision) error {
	switch d.Kind {
	case DecisionApply:
		// choosing the text already in place is a skip, not a rewrite
		if strings.EqualFold(d.Text, m.Text) {
			s.searchFrom = m.End
			pctx.Trail.Add(audit.Record{
				Stage:    NameChoices,
				Action:   audit.ActionSkipped,
				Start:    m.Start,
				End:      m.End,
				Original: m.Text,
				Reason:   "chosen option matches existing text",
			})
			return nil
		}
		if _, err := pctx.Buffer.Replace(m.Start, m.End, d.Text); err != nil {
			return errors.Errorf("replacing choice occurrence: %w", err)
		}
		s.searchFrom = m.Start + len(d.Text)
		pctx.Trail.Add(audit.Record{
			Stage:    NameChoices,
			Action:   audit.ActionApplied,
			Start:    m.Start,
			End:      m.End,
			Original: m.Text,
			Result:   d.Text,
		})
		return nil

	default:
		s.searchFrom = m.End
		pctx.Trail.Add(audit.Record{
			Stage:    NameChoices,
			Action:   audit.ActionSkipped,
			Start:    m.Start,
			End:      m.End,
			Original: m.Text,
		})
		return nil
	}
}

func (*WordChoices) Finish(ctx context.Context, pctx *ProcessingContext) error { return nil }

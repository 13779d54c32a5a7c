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
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/walteh/bookmend/pkg/audit"
	"github.com/walteh/bookmend/pkg/roman"
)

// alphabeticPattern detects patterns that are plain words, which get
// word-boundary anchoring instead of raw regex treatment.
var alphabeticPattern = regexp.MustCompile(`^[A-Za-z]+$`)

// 🔄 Replacements applies the configured pattern -> replacement pairs in
// order. Alphabetic patterns are word-boundary matched; everything else
// is compiled as written. A pattern that fails to compile is reported
// and skipped, never fatal.
type Replacements struct{}

func (Replacements) Name() string { return NameReplacements }

func (Replacements) Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error) {
	logger := zerolog.Ctx(ctx)
	var records []audit.Record

	for _, rule := range pctx.Config.Replacements {
		src := rule.Pattern
		if alphabeticPattern.MatchString(src) {
			src = `\b` + src + `\b`
		}
		re, err := regexp.Compile(src)
		if err != nil {
			logger.Warn().Str("pattern", rule.Pattern).Err(err).Msg("skipping invalid replacement pattern")
			records = append(records, audit.Record{
				Stage:    NameReplacements,
				Action:   audit.ActionRejected,
				Original: rule.Pattern,
				Reason:   "invalid pattern: " + err.Error(),
			})
			continue
		}

		count := len(re.FindAllStringIndex(text, -1))
		if count == 0 {
			continue
		}
		text = re.ReplaceAllString(text, rule.Replacement)
		records = append(records, audit.Record{
			Stage:    NameReplacements,
			Action:   audit.ActionApplied,
			Original: rule.Pattern,
			Result:   rule.Replacement,
		})
	}

	return text, records, nil
}

// ⏺️ Periods appends a trailing period to every whole-word occurrence
// of each configured abbreviation that does not already carry one.
type Periods struct{}

func (Periods) Name() string { return NamePeriods }

func (Periods) Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error) {
	var records []audit.Record

	for _, abbr := range pctx.Config.Abbreviations {
		if abbr == "" {
			continue
		}
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(abbr) + `\b`)
		if err != nil {
			continue
		}

		var sb strings.Builder
		last := 0
		inserted := 0
		for _, span := range re.FindAllStringIndex(text, -1) {
			end := span[1]
			// already terminated
			if end < len(text) && text[end] == '.' {
				continue
			}
			sb.WriteString(text[last:end])
			sb.WriteString(".")
			last = end
			inserted++
		}
		sb.WriteString(text[last:])
		text = sb.String()

		if inserted > 0 {
			records = append(records, audit.Record{
				Stage:    NamePeriods,
				Action:   audit.ActionApplied,
				Original: abbr,
				Result:   abbr + ".",
			})
		}
	}

	return text, records, nil
}

// 🔢 RomanNumerals wraps the context-aware converter as an automatic
// stage.
type RomanNumerals struct{}

func (RomanNumerals) Name() string { return NameRoman }

func (RomanNumerals) Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error) {
	conv := roman.NewConverter(roman.Options{IgnoreSet: pctx.RomanIgnore})
	newText, records := conv.Convert(text)
	return newText, records, nil
}

// 🔡 Lowercase lowers the whole text except the configured preserve
// list, which is restored to its canonical casing afterwards.
type Lowercase struct{}

func (Lowercase) Name() string { return NameLowercase }

func (Lowercase) Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error) {
	lowered := strings.ToLower(text)

	for _, word := range pctx.Config.LowercasePreserve {
		if word == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
		if err != nil {
			continue
		}
		lowered = re.ReplaceAllLiteralString(lowered, word)
	}

	records := []audit.Record{{
		Stage:    NameLowercase,
		Action:   audit.ActionApplied,
		Original: "entire text",
		Result:   "lowercased",
	}}
	return lowered, records, nil
}

// 📄 BlankLines collapses runs of blank lines to at most one and trims
// trailing whitespace from every line.
type BlankLines struct{}

func (BlankLines) Name() string { return NameBlankLines }

func (BlankLines) Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error) {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	removed := 0
	blankPending := false

	for _, line := range lines {
		trimmed := strings.TrimRight(line, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if blankPending || len(out) == 0 {
				removed++
				continue
			}
			blankPending = true
			continue
		}
		if blankPending {
			out = append(out, "")
			blankPending = false
		}
		out = append(out, trimmed)
	}

	var records []audit.Record
	if removed > 0 {
		records = append(records, audit.Record{
			Stage:    NameBlankLines,
			Action:   audit.ActionRemoved,
			Original: "blank lines",
			Reason:   "collapsed to single separators",
		})
	}
	return strings.Join(out, "\n"), records, nil
}

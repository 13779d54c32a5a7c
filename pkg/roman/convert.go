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

package roman

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/walteh/bookmend/pkg/audit"
)

// StageName identifies this converter in audit records.
const StageName = "roman_numerals"

// contextWindow is how many characters of surrounding text each
// conversion record carries.
const contextWindow = 10

// 🔧 Options configures the scanner.
type Options struct {
	// IgnoreSet holds uppercase tokens that are never converted even
	// when they parse as numerals (e.g. a character named "DI").
	IgnoreSet map[string]bool

	// NumberingKeywords are the words that mark a following lone "I" as
	// a numeral rather than the pronoun. Defaults are used when empty.
	NumberingKeywords []string
}

// defaultNumberingKeywords covers the usual front-matter labels.
var defaultNumberingKeywords = []string{
	"chapter", "book", "part", "section", "volume", "act", "scene",
}

// 🔍 Converter scans text for Roman numeral tokens and rewrites the
// valid, unprotected ones as Arabic digits.
type Converter struct {
	ignore   map[string]bool
	keywords map[string]bool
}

// 🏭 NewConverter creates a converter with the given options.
func NewConverter(opts Options) *Converter {
	keywords := opts.NumberingKeywords
	if len(keywords) == 0 {
		keywords = defaultNumberingKeywords
	}
	kw := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		kw[strings.ToLower(k)] = true
	}
	ignore := opts.IgnoreSet
	if ignore == nil {
		ignore = map[string]bool{}
	}
	return &Converter{ignore: ignore, keywords: kw}
}

// candidateToken matches runs of uppercase numeral symbols bounded by
// word boundaries. Single symbols other than "I" are candidates on their
// own; "I" is included and then subjected to the pronoun rule.
var candidateToken = regexp.MustCompile(`\b(?:[VXLCDM]|[MDCLXVI]{2,}|I)\b`)

// dottedAbbreviation matches letter groups joined by periods ("I.D.",
// "Ph.D.", "U.S.A."). Spans it covers are masked before the numeral scan.
var dottedAbbreviation = regexp.MustCompile(`\b[A-Za-z]+(?:\.[A-Za-z]+)+\.?`)

// guardChars are the symbols that, adjacent to a token, mark it as part
// of an identifier or abbreviation rather than a standalone numeral.
const guardChars = "&.-+:;/\\"

// candidate is one token under consideration, with enough surrounding
// state for the exclusion rules to judge it.
type candidate struct {
	text   string // the full input text
	start  int
	end    int
	token  string
	masked bool // inside a dotted-abbreviation span
}

// 🛡️ exclusionRule names one protected context. Rules are checked in
// order; the first that applies wins and its reason goes to the audit
// trail.
type exclusionRule struct {
	reason  string
	applies func(conv *Converter, c candidate) bool
}

// The protection policy as an auditable table. A bare "I" defaults to
// the pronoun reading unless a numbering keyword precedes it; that
// default is deliberate and must stay documented, not drift silently.
var exclusionRules = []exclusionRule{
	{
		reason: "inside dotted abbreviation",
		applies: func(conv *Converter, c candidate) bool {
			return c.masked
		},
	},
	{
		reason: "adjacent to symbol",
		applies: func(conv *Converter, c candidate) bool {
			if c.start > 0 && strings.IndexByte(guardChars, c.text[c.start-1]) >= 0 {
				return true
			}
			if c.end < len(c.text) && strings.IndexByte(guardChars, c.text[c.end]) >= 0 {
				return true
			}
			return false
		},
	},
	{
		reason: "in roman ignore set",
		applies: func(conv *Converter, c candidate) bool {
			return conv.ignore[strings.ToUpper(c.token)]
		},
	},
	{
		reason: "first-person pronoun",
		applies: func(conv *Converter, c candidate) bool {
			if strings.ToUpper(c.token) != "I" {
				return false
			}
			return !conv.keywords[precedingWord(c.text, c.start)]
		},
	},
}

// precedingWord returns the lowercased word immediately before pos,
// skipping a single run of spaces.
func precedingWord(text string, pos int) string {
	i := pos
	for i > 0 && (text[i-1] == ' ' || text[i-1] == '\t') {
		i--
	}
	j := i
	for j > 0 && isLetter(text[j-1]) {
		j--
	}
	return strings.ToLower(text[j:i])
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// 🔄 Convert rewrites every accepted numeral token in text and returns
// the new text. Each accepted conversion and each rejected candidate is
// reported as an audit record, in scan order.
func (conv *Converter) Convert(text string) (string, []audit.Record) {
	var records []audit.Record

	// pre-mask dotted abbreviations so their letters are never candidates
	maskedSpans := dottedAbbreviation.FindAllStringIndex(text, -1)
	inMask := func(start, end int) bool {
		for _, span := range maskedSpans {
			if start >= span[0] && end <= span[1] {
				return true
			}
		}
		return false
	}

	var sb strings.Builder
	last := 0

	for _, span := range candidateToken.FindAllStringIndex(text, -1) {
		start, end := span[0], span[1]
		token := text[start:end]
		c := candidate{text: text, start: start, end: end, token: token, masked: inMask(start, end)}

		if reason, excluded := conv.excluded(c); excluded {
			records = append(records, audit.Record{
				Stage:    StageName,
				Action:   audit.ActionIgnored,
				Start:    start,
				End:      end,
				Original: token,
				Reason:   reason,
			})
			continue
		}

		value, err := ToArabic(token)
		if err != nil {
			// malformed tokens are not matches, not errors
			records = append(records, audit.Record{
				Stage:    StageName,
				Action:   audit.ActionRejected,
				Start:    start,
				End:      end,
				Original: token,
				Reason:   "malformed numeral",
			})
			continue
		}

		replacement := strconv.Itoa(value)
		sb.WriteString(text[last:start])
		sb.WriteString(replacement)
		last = end

		records = append(records, audit.Record{
			Stage:    StageName,
			Action:   audit.ActionApplied,
			Start:    start,
			End:      end,
			Original: token,
			Result:   replacement,
			Context:  surrounding(text, start, end),
		})
	}
	sb.WriteString(text[last:])

	return sb.String(), records
}

// excluded runs the protection table against one candidate.
func (conv *Converter) excluded(c candidate) (string, bool) {
	for _, rule := range exclusionRules {
		if rule.applies(conv, c) {
			return rule.reason, true
		}
	}
	return "", false
}

// surrounding clips a context window around [start, end).
func surrounding(text string, start, end int) string {
	lo := start - contextWindow
	if lo < 0 {
		lo = 0
	}
	hi := end + contextWindow
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

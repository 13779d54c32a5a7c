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
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"github.com/rs/zerolog"
	"github.com/walteh/bookmend/pkg/audit"
)

// XPath signatures for pagination elements in XHTML sources: anything
// tagged with a page-number class or id, and paragraphs whose whole
// content is digits.
var (
	pageNumberClass = xpath.MustCompile(`//*[contains(translate(@class, 'PAGENUMBR', 'pagenumbr'), 'page-number')]`)
	pageNumberID    = xpath.MustCompile(`//*[contains(translate(@id, 'PAGENUMBR', 'pagenumbr'), 'page-number')]`)
	digitOnlyPara   = xpath.MustCompile(`//p[normalize-space(.) != '' and translate(normalize-space(.), '0123456789', '') = '']`)
)

// 🗑️ Pagination strips page-number artifacts. Plain text input loses
// digit-only lines; XHTML/HTML input loses elements matching the
// pagination signatures. Every removal is logged with its content so
// the pass is auditable.
type Pagination struct{}

func (Pagination) Name() string { return NamePagination }

func (p Pagination) Apply(ctx context.Context, text string, pctx *ProcessingContext) (string, []audit.Record, error) {
	path := strings.ToLower(pctx.InputPath)
	switch {
	case strings.HasSuffix(path, ".html"), strings.HasSuffix(path, ".xhtml"):
		return p.applyMarkup(ctx, text)
	default:
		return p.applyPlain(ctx, text)
	}
}

// applyPlain removes lines that contain nothing but digits.
func (Pagination) applyPlain(ctx context.Context, text string) (string, []audit.Record, error) {
	var records []audit.Record
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && isDigits(trimmed) {
			records = append(records, audit.Record{
				Stage:    NamePagination,
				Action:   audit.ActionRemoved,
				Original: line,
				Context:  lineContext(lines, i),
			})
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n"), records, nil
}

// applyMarkup parses the document and removes elements matching the
// pagination signatures. A document that fails to parse passes through
// untouched; a malformed source is not this stage's problem.
func (Pagination) applyMarkup(ctx context.Context, text string) (string, []audit.Record, error) {
	logger := zerolog.Ctx(ctx)

	doc, err := xmlquery.Parse(strings.NewReader(text))
	if err != nil {
		logger.Warn().Err(err).Msg("pagination: input does not parse as markup, leaving unchanged")
		return text, nil, nil
	}

	var records []audit.Record
	seen := map[*xmlquery.Node]bool{}
	for _, expr := range []*xpath.Expr{pageNumberClass, pageNumberID, digitOnlyPara} {
		for _, node := range xmlquery.QuerySelectorAll(doc, expr) {
			if seen[node] {
				continue
			}
			seen[node] = true
			records = append(records, audit.Record{
				Stage:    NamePagination,
				Action:   audit.ActionRemoved,
				Original: node.OutputXML(true),
			})
			xmlquery.RemoveFromTree(node)
		}
	}

	out := doc.OutputXML(false)

	// element removal leaves empty lines behind
	lines := strings.Split(out, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), records, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// lineContext returns the removed line with one line of context on each
// side for the audit trail.
func lineContext(lines []string, i int) string {
	lo := i - 1
	if lo < 0 {
		lo = 0
	}
	hi := i + 2
	if hi > len(lines) {
		hi = len(lines)
	}
	return strings.Join(lines[lo:hi], "\n")
}

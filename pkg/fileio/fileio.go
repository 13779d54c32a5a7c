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

// Package fileio loads and saves the texts the pipeline works on. HTML
// and XHTML inputs can be reduced to plain prose before processing;
// everything else is read as-is.
package fileio

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrInputUnavailable marks a missing or unreadable input file. This is
// fatal for the run; callers test with errors.Is.
var ErrInputUnavailable = errors.Base("input file unavailable")

// 📖 Load reads an input file. When extract is true and the file is
// HTML/XHTML, markup is stripped down to prose paragraphs; otherwise
// the raw contents are returned.
func Load(ctx context.Context, path string, extract bool) (string, error) {
	logger := zerolog.Ctx(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w: %w", path, ErrInputUnavailable, err)
	}
	text := string(data)

	if extract && isMarkupPath(path) {
		plain, err := ExtractText(text)
		if err != nil {
			logger.Warn().Str("path", path).Err(err).Msg("markup extraction failed, using raw contents")
			return text, nil
		}
		return plain, nil
	}
	return text, nil
}

// 💾 Save writes the processed text next to or over the input, per the
// caller's choice of path.
func Save(ctx context.Context, path, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return errors.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func isMarkupPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".xhtml", ".htm":
		return true
	default:
		return false
	}
}

// Block-level elements that force a paragraph break in the extracted
// text.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true,
	atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Li: true, atom.Blockquote: true, atom.Tr: true,
}

// Elements whose text content is never prose.
var skipAtoms = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Head: true,
}

// 📄 ExtractText reduces an HTML document to plain text, one line per
// block element, with script/style/head content dropped.
func ExtractText(source string) (string, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return "", errors.Errorf("parsing markup: %w", err)
	}

	var sb strings.Builder
	walk(doc, &sb)

	// the walk leaves stray blank lines where nested blocks met
	lines := strings.Split(sb.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(out) > 0 && out[len(out)-1] != "" {
				out = append(out, "")
			}
			continue
		}
		out = append(out, trimmed)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n"), nil
}

func walk(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode && skipAtoms[n.DataAtom] {
		return
	}
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		return
	}

	isBlock := n.Type == html.ElementNode && blockAtoms[n.DataAtom]
	if isBlock {
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, sb)
	}
	if isBlock {
		sb.WriteString("\n")
	}
}

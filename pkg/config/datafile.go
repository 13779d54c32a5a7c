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

package config

import (
	"context"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Section markers of the legacy sectioned data file. Rule files written
// by earlier tooling keep working through this parser.
const (
	choiceSection    = "# CHOICE"
	replaceSection   = "# REPLACE"
	periodsSection   = "# PERIODS"
	capIgnoreSection = "# CAP_IGNORE"
	upperToLower     = "# UPPER_TO_LOWER"
	romanIgnore      = "# ROMAN_IGNORE"
	defaultDir       = "# DEFAULT_FILE_DIR"
)

var sectionMarkers = map[string]bool{
	choiceSection:    true,
	replaceSection:   true,
	periodsSection:   true,
	capIgnoreSection: true,
	upperToLower:     true,
	romanIgnore:      true,
	defaultDir:       true,
}

// 🔧 DataFileParser implements the Parser interface for the legacy
// sectioned .data.txt format.
type DataFileParser struct{}

func init() {
	Register(&DataFileParser{})
}

func (p *DataFileParser) CanParse(filename string) bool {
	return strings.HasSuffix(filename, ".txt")
}

func (p *DataFileParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg := &Config{}
	section := ""

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		// legacy files sometimes start lines with a BOM or zero-width
		// characters
		line = strings.TrimLeft(line, "\ufeff\u200b\u00a0")

		if sectionMarkers[line] {
			section = line
			continue
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch section {
		case choiceSection:
			word, options, ok := splitArrow(line)
			if !ok {
				return nil, errors.Errorf("malformed choice line %q", line)
			}
			var opts []string
			for _, o := range strings.Split(options, ";") {
				opts = append(opts, strings.TrimSpace(o))
			}
			cfg.Choices = append(cfg.Choices, ChoiceRule{Word: word, Options: opts})

		case replaceSection:
			from, to, ok := splitArrow(line)
			if !ok {
				return nil, errors.Errorf("malformed replacement line %q", line)
			}
			cfg.Replacements = append(cfg.Replacements, ReplacementRule{Pattern: from, Replacement: to})

		case periodsSection:
			cfg.Abbreviations = append(cfg.Abbreviations, line)

		case capIgnoreSection:
			cfg.CapsIgnore = append(cfg.CapsIgnore, line)

		case upperToLower:
			cfg.CapsAutoLower = append(cfg.CapsAutoLower, line)

		case romanIgnore:
			cfg.RomanIgnore = append(cfg.RomanIgnore, strings.ToUpper(line))

		case defaultDir:
			if cfg.DefaultDir == "" {
				cfg.DefaultDir = line
			}

		default:
			return nil, errors.Errorf("content %q outside any section", line)
		}
	}

	return cfg, nil
}

// splitArrow splits "left -> right" lines.
func splitArrow(line string) (string, string, bool) {
	parts := strings.SplitN(line, "->", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// marshalDataFile renders a config back into the sectioned format,
// keeping every section the legacy tooling understands.
func marshalDataFile(cfg *Config) []byte {
	var sb strings.Builder

	writeSection := func(marker string, lines []string) {
		if len(lines) == 0 {
			return
		}
		sb.WriteString(marker + "\n")
		for _, l := range lines {
			sb.WriteString(l + "\n")
		}
		sb.WriteString("\n")
	}

	var choices []string
	for _, c := range cfg.Choices {
		choices = append(choices, c.Word+" -> "+strings.Join(c.Options, "; "))
	}
	writeSection(choiceSection, choices)

	var replacements []string
	for _, r := range cfg.Replacements {
		replacements = append(replacements, r.Pattern+" -> "+r.Replacement)
	}
	writeSection(replaceSection, replacements)

	writeSection(periodsSection, cfg.Abbreviations)
	writeSection(capIgnoreSection, sortedCopy(cfg.CapsIgnore))
	writeSection(upperToLower, sortedCopy(cfg.CapsAutoLower))
	writeSection(romanIgnore, sortedCopy(cfg.RomanIgnore))
	if cfg.DefaultDir != "" {
		writeSection(defaultDir, []string{cfg.DefaultDir})
	}

	return []byte(sb.String())
}

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

// Package config loads and persists the rule sets that drive a
// processing run: replacement rules, abbreviations, word choices, and
// the permanent ignore / auto-lowercase sets. Formats are pluggable
// behind the Parser interface; YAML, HCL, TOML and the legacy sectioned
// data file are registered by default.
package config

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🔄 ReplacementRule is one ordered pattern -> replacement pair. The
// pattern is treated as a regular expression; purely alphabetic patterns
// are wrapped in word boundaries before compiling.
type ReplacementRule struct {
	Pattern     string `json:"pattern" yaml:"pattern" toml:"pattern" hcl:"pattern"`
	Replacement string `json:"replacement" yaml:"replacement" toml:"replacement" hcl:"replacement"`

	// FileFilterGlob optionally scopes the rule to matching input files
	// in batch runs. Empty means every file.
	FileFilterGlob string `json:"file_filter_glob,omitempty" yaml:"file_filter_glob,omitempty" toml:"file_filter_glob,omitempty" hcl:"file_filter_glob,optional"`
}

// 🔀 ChoiceRule lists the replacement options for one word. The key is
// case-sensitive; matching against the text is case-insensitive.
type ChoiceRule struct {
	Word    string   `json:"word" yaml:"word" toml:"word" hcl:"word,label"`
	Options []string `json:"options" yaml:"options" toml:"options" hcl:"options"`
}

// 📚 Config is the persistent seed of a ProcessingContext.
type Config struct {
	// Stages is the enabled stage order. Empty means DefaultStageOrder.
	Stages []string `json:"stages,omitempty" yaml:"stages,omitempty" toml:"stages,omitempty" hcl:"stages,optional"`

	Replacements []ReplacementRule `json:"replacements,omitempty" yaml:"replacements,omitempty" toml:"replacements,omitempty" hcl:"replace,block"`
	Choices      []ChoiceRule      `json:"choices,omitempty" yaml:"choices,omitempty" toml:"choices,omitempty" hcl:"choice,block"`

	// Abbreviations get a trailing period appended where missing
	// ("Mr" -> "Mr.").
	Abbreviations []string `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty" toml:"abbreviations,omitempty" hcl:"abbreviations,optional"`

	// CapsIgnore are all-caps sequences that never prompt.
	CapsIgnore []string `json:"caps_ignore,omitempty" yaml:"caps_ignore,omitempty" toml:"caps_ignore,omitempty" hcl:"caps_ignore,optional"`

	// CapsAutoLower are all-caps sequences with a standing lowercase
	// decision.
	CapsAutoLower []string `json:"caps_auto_lower,omitempty" yaml:"caps_auto_lower,omitempty" toml:"caps_auto_lower,omitempty" hcl:"caps_auto_lower,optional"`

	// RomanIgnore are tokens the numeral converter must leave alone.
	RomanIgnore []string `json:"roman_ignore,omitempty" yaml:"roman_ignore,omitempty" toml:"roman_ignore,omitempty" hcl:"roman_ignore,optional"`

	// LowercasePreserve are proper nouns exempt from the whole-text
	// lowercase stage.
	LowercasePreserve []string `json:"lowercase_preserve,omitempty" yaml:"lowercase_preserve,omitempty" toml:"lowercase_preserve,omitempty" hcl:"lowercase_preserve,optional"`

	// PreserveInitial keeps sentence-initial capitals when lowering
	// all-caps sequences.
	PreserveInitial bool `json:"preserve_initial,omitempty" yaml:"preserve_initial,omitempty" toml:"preserve_initial,omitempty" hcl:"preserve_initial,optional"`

	// DefaultDir is where the CLI resolves relative input paths.
	DefaultDir string `json:"default_dir,omitempty" yaml:"default_dir,omitempty" toml:"default_dir,omitempty" hcl:"default_dir,optional"`
}

// DefaultStageOrder is the fixed pipeline order: automatic stages first,
// interactive stages after. Pagination strip runs before roman
// conversion so isolated page numbers never feed the numeral scanner.
var DefaultStageOrder = []string{
	"automatic_replacements",
	"insert_periods",
	"remove_pagination",
	"roman_numerals",
	"remove_blank_lines",
	"interactive_choices",
	"all_caps",
	"numbered_line_edit",
}

// knownStages also covers stages that are valid but off by default.
var knownStages = map[string]bool{
	"automatic_replacements": true,
	"insert_periods":         true,
	"remove_pagination":      true,
	"roman_numerals":         true,
	"convert_lowercase":      true,
	"remove_blank_lines":     true,
	"interactive_choices":    true,
	"all_caps":               true,
	"numbered_line_edit":     true,
}

// 🎯 Load loads the configuration from a file
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(ctx); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate checks the configuration and applies defaults. Invalid
// replacement patterns are reported and skipped at stage build, never
// fatal here.
func (cfg *Config) Validate(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	if len(cfg.Stages) == 0 {
		cfg.Stages = append([]string(nil), DefaultStageOrder...)
	}
	for _, s := range cfg.Stages {
		if !knownStages[s] {
			return errors.Errorf("unknown stage %q", s)
		}
	}

	for _, ch := range cfg.Choices {
		if ch.Word == "" {
			return errors.Errorf("choice rule with empty word")
		}
		if len(ch.Options) == 0 {
			return errors.Errorf("choice rule %q has no options", ch.Word)
		}
	}

	for _, r := range cfg.Replacements {
		if r.Pattern == "" {
			return errors.Errorf("replacement rule with empty pattern")
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			logger.Warn().Str("pattern", r.Pattern).Err(err).Msg("invalid replacement pattern, rule will be skipped")
		}
	}

	if cfg.DefaultDir != "" {
		cfg.DefaultDir = filepath.Clean(cfg.DefaultDir)
	}

	return nil
}

// StageEnabled reports whether a stage name appears in the enabled order.
func (cfg *Config) StageEnabled(name string) bool {
	for _, s := range cfg.Stages {
		if s == name {
			return true
		}
	}
	return false
}

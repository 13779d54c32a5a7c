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
	"bytes"
	"context"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// 💾 Persist writes the configuration back to disk so permanent
// decisions (ignore / auto-lowercase additions) outlive the run. The
// format follows the file extension; HCL cannot be round-tripped, so an
// HCL source persists to a ".lock.yaml" sidecar instead.
func Persist(ctx context.Context, path string, cfg *Config) error {
	logger := zerolog.Ctx(ctx)

	var data []byte
	var err error
	target := path

	switch {
	case strings.HasSuffix(path, ".yaml"), strings.HasSuffix(path, ".yml"):
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return errors.Errorf("marshaling YAML: %w", err)
		}

	case strings.HasSuffix(path, ".toml"):
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return errors.Errorf("marshaling TOML: %w", err)
		}
		data = buf.Bytes()

	case strings.HasSuffix(path, ".hcl"):
		target = strings.TrimSuffix(path, ".hcl") + ".lock.yaml"
		data, err = yaml.Marshal(cfg)
		if err != nil {
			return errors.Errorf("marshaling YAML sidecar: %w", err)
		}
		logger.Debug().Str("sidecar", target).Msg("hcl config persists to yaml sidecar")

	case strings.HasSuffix(path, ".txt"):
		data = marshalDataFile(cfg)

	default:
		return errors.Errorf("no writer for config file: %s", path)
	}

	if err := os.WriteFile(target, data, 0o644); err != nil {
		return errors.Errorf("writing config file: %w", err)
	}

	logger.Debug().Str("path", target).Msg("configuration persisted")
	return nil
}

// sortedCopy returns a sorted copy so persisted sets are stable between
// runs.
func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

// AddCapsIgnore records a permanent ignore decision, keeping entries
// unique.
func (cfg *Config) AddCapsIgnore(seq string) {
	for _, s := range cfg.CapsIgnore {
		if s == seq {
			return
		}
	}
	cfg.CapsIgnore = append(cfg.CapsIgnore, seq)
}

// AddCapsAutoLower records a permanent auto-lowercase decision, keeping
// entries unique.
func (cfg *Config) AddCapsAutoLower(seq string) {
	for _, s := range cfg.CapsAutoLower {
		if s == seq {
			return
		}
	}
	cfg.CapsAutoLower = append(cfg.CapsAutoLower, seq)
}

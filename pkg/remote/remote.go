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

// Package remote defines the provider interfaces for fetching book
// texts from hosted repositories, with a registry keyed by provider
// name.
package remote

import (
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

var registry = map[string]Provider{}

// Register adds a provider under its name. Called from provider init
// functions.
func Register(p Provider) {
	registry[p.Name()] = p
}

// GetProvider looks up a registered provider by name.
func GetProvider(name string) (Provider, error) {
	p, ok := registry[name]
	if !ok {
		options := []string{}
		for k := range registry {
			options = append(options, k)
		}
		return nil, errors.Errorf("provider %s not found, options: %s", name, strings.Join(options, ", "))
	}
	return p, nil
}

// 🔌 Provider is the entry point for one hosting service.
type Provider interface {
	// Name returns the provider key (e.g. "github").
	Name() string
	// GetRepository opens a repository by "owner/name".
	GetRepository(ctx context.Context, name string) (Repository, error)
}

// 📚 Repository is a remote repository holding text files.
type Repository interface {
	// Name returns the repository name (e.g. "owner/repo").
	Name() string
	// GetTextFile fetches one file at the given ref. Empty ref means the
	// default branch.
	GetTextFile(ctx context.Context, ref, path string) (RawTextFile, error)
	// ListTextFiles lists file paths under dir at the given ref.
	ListTextFiles(ctx context.Context, ref, dir string) ([]string, error)
}

// 📄 RawTextFile is one downloadable text file.
type RawTextFile interface {
	// Path returns the file's path within the repository.
	Path() string
	// RawTextPermalink returns a permanent link to the raw content.
	RawTextPermalink() string
	// GetContent returns a reader for the file content.
	GetContent(ctx context.Context) (io.ReadCloser, error)
}

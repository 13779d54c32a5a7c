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

// Package github implements the remote provider against the GitHub
// API. Anonymous access works for public repositories; GITHUB_TOKEN is
// picked up when set.
package github

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"github.com/walteh/bookmend/pkg/remote"
	"gitlab.com/tozd/go/errors"
)

func init() {
	remote.Register(NewProvider())
}

// 🎯 Provider implements remote.Provider for GitHub.
type Provider struct {
	client *github.Client
}

// 🏭 NewProvider creates a GitHub provider. Public-domain book repos
// are readable anonymously, so a missing token is not an error.
func NewProvider() *Provider {
	client := github.NewClient(nil)
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		client = client.WithAuthToken(token)
	}
	return &Provider{client: client}
}

func (p *Provider) Name() string { return "github" }

func (p *Provider) GetRepository(ctx context.Context, name string) (remote.Repository, error) {
	parts := strings.Split(name, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("invalid repository format %q, want owner/repo", name)
	}
	return &Repository{client: p.client, owner: parts[0], repo: parts[1]}, nil
}

// 📚 Repository wraps one GitHub repository.
type Repository struct {
	client *github.Client
	owner  string
	repo   string
}

func (r *Repository) Name() string {
	return r.owner + "/" + r.repo
}

func (r *Repository) GetTextFile(ctx context.Context, ref, path string) (remote.RawTextFile, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("repo", r.Name()).Str("ref", ref).Str("path", path).Msg("fetching file")

	content, _, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, path, &github.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		return nil, errors.Errorf("getting file content: %w", err)
	}
	if content == nil {
		return nil, errors.Errorf("path %s is a directory, not a file", path)
	}

	data, err := content.GetContent()
	if err != nil {
		return nil, errors.Errorf("decoding content: %w", err)
	}

	return &textFile{
		path:      path,
		permalink: fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", r.owner, r.repo, refOrHead(ref), path),
		data:      data,
	}, nil
}

func (r *Repository) ListTextFiles(ctx context.Context, ref, dir string) ([]string, error) {
	tree, _, err := r.client.Git.GetTree(ctx, r.owner, r.repo, refOrHead(ref), true)
	if err != nil {
		return nil, errors.Errorf("getting repository tree: %w", err)
	}

	var files []string
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}
		path := entry.GetPath()
		if dir != "" && !strings.HasPrefix(path, dir) {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

func refOrHead(ref string) string {
	if ref == "" {
		return "HEAD"
	}
	return ref
}

// 📄 textFile holds already-decoded content from the contents API.
type textFile struct {
	path      string
	permalink string
	data      string
}

func (f *textFile) Path() string             { return f.path }
func (f *textFile) RawTextPermalink() string { return f.permalink }

func (f *textFile) GetContent(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(f.data)), nil
}

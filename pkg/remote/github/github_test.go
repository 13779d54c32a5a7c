package github_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/bookmend/pkg/remote"
	"github.com/walteh/bookmend/pkg/remote/github"
)

func TestGetRepository_NameValidation(t *testing.T) {
	tests := []struct {
		name    string
		repo    string
		wantErr bool
	}{
		{name: "valid", repo: "gutenberg/moby-dick"},
		{name: "missing_owner", repo: "/repo", wantErr: true},
		{name: "missing_repo", repo: "owner/", wantErr: true},
		{name: "no_slash", repo: "justaname", wantErr: true},
		{name: "too_many_parts", repo: "a/b/c", wantErr: true},
	}

	p := github.NewProvider()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, err := p.GetRepository(context.Background(), tt.repo)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.repo, repo.Name())
		})
	}
}

func TestProviderIsRegistered(t *testing.T) {
	p, err := remote.GetProvider("github")
	require.NoError(t, err)
	assert.Equal(t, "github", p.Name())
}

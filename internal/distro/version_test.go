package distro

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	commit string
	err    error
	gotURL string
}

func (s *stubResolver) ResolveCommit(_ context.Context, repoURL, _ string) (string, error) {
	s.gotURL = repoURL
	return s.commit, s.err
}

func TestExtractStackVersion(t *testing.T) {
	const sha = "0123456789abcdef0123456789abcdef01234567"

	tests := []struct {
		name     string
		content  string
		resolver *stubResolver
		want     StackVersion
		wantErr  error
		wantRepo string
	}{
		{
			name:     "main resolved to commit",
			content:  "RUN uv pip install git+https://github.com/acme/llama-stack.git@main",
			resolver: &stubResolver{commit: sha},
			want:     StackVersion{Version: sha, Owner: "acme"},
			wantRepo: "https://github.com/acme/llama-stack.git",
		},
		{
			name:     "main unresolved falls back",
			content:  "RUN uv pip install git+https://github.com/acme/llama-stack.git@main",
			resolver: &stubResolver{err: errors.New("offline")},
			want:     StackVersion{Version: "main", Owner: "acme"},
		},
		{
			name:    "pip pin",
			content: "RUN uv pip install llama-stack==0.3.5",
			want:    StackVersion{Version: "0.3.5", Owner: DefaultRepoOwner},
		},
		{
			name:    "pip pin with rc and rhai",
			content: "RUN uv pip install llama-stack==0.4.0rc1+rhai2 other==1.0",
			want:    StackVersion{Version: "0.4.0rc1+rhai2", Owner: DefaultRepoOwner},
		},
		{
			name:    "git tag",
			content: "RUN uv pip install --no-deps git+https://github.com/opendatahub-io/llama-stack.git@v0.4.0+rhai0",
			want:    StackVersion{Version: "0.4.0+rhai0", Owner: "opendatahub-io"},
		},
		{
			name:    "not found",
			content: "FROM ubi9\n",
			wantErr: ErrVersionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resolver CommitResolver
			if tt.resolver != nil {
				resolver = tt.resolver
			}
			got, err := ExtractStackVersion(context.Background(), tt.content, resolver)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantRepo != "" {
				assert.Equal(t, tt.wantRepo, tt.resolver.gotURL)
			}
		})
	}
}

func TestExtractStackVersion_MainWithoutResolver(t *testing.T) {
	got, err := ExtractStackVersion(context.Background(),
		"git+https://github.com/acme/llama-stack.git@main", nil)
	require.NoError(t, err)
	assert.Equal(t, StackVersion{Version: "main", Owner: "acme"}, got)
}

func TestIsCommitHash(t *testing.T) {
	assert.True(t, IsCommitHash("abc1234"))
	assert.True(t, IsCommitHash("ABCDEF0123"))
	assert.False(t, IsCommitHash("abc123"))
	assert.False(t, IsCommitHash("0.3.5"))
	assert.False(t, IsCommitHash("main"))
	assert.False(t, IsCommitHash("0123456789abcdef0123456789abcdef012345678"))
}

func TestStackVersion_Link(t *testing.T) {
	sha := "deadbeefcafe"
	assert.Equal(t,
		VersionLink{Display: "deadbee", URL: "https://github.com/acme/llama-stack/commit/deadbeefcafe"},
		StackVersion{Version: sha, Owner: "acme"}.Link())
	assert.Equal(t,
		VersionLink{Display: "main", URL: "https://github.com/acme/llama-stack/tree/main"},
		StackVersion{Version: "main", Owner: "acme"}.Link())
	assert.Equal(t,
		VersionLink{Display: "0.3.5", URL: "https://github.com/opendatahub-io/llama-stack/releases/tag/v0.3.5"},
		StackVersion{Version: "0.3.5", Owner: "opendatahub-io"}.Link())
}

func TestParseLsRemote(t *testing.T) {
	hash, err := parseLsRemote("4f1c2e\trefs/heads/main\n")
	require.NoError(t, err)
	assert.Equal(t, "4f1c2e", hash)

	_, err = parseLsRemote("\n")
	assert.Error(t, err)
}

// Package distro generates the distribution README from the image inputs.
//
// The README lists the llama-stack version shipped in the image and one row
// per configured provider. It is derived from three files under
// distribution/:
//   - Containerfile: which llama-stack version or git ref is installed
//   - run.yaml: the providers the server activates and how they are enabled
//   - build.yaml: which providers are installed as external packages
//
// The generated file is checked in. Check mode regenerates it in memory and
// fails when the checked-in copy is stale, which is what the pre-commit hook
// runs.
package distro

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/tsingmao/stackdist/internal/logger"
)

const (
	// DefaultRepoOwner is the GitHub owner assumed for pinned pip installs.
	DefaultRepoOwner = "opendatahub-io"

	// MainRef is reported when a main-branch install cannot be resolved to a commit.
	MainRef = "main"

	// lsRemoteTimeout bounds the git ls-remote call.
	lsRemoteTimeout = 10 * time.Second
)

// ErrVersionNotFound is returned when the Containerfile pins no llama-stack version.
var ErrVersionNotFound = errors.New("could not find llama-stack version in Containerfile")

var (
	mainInstallPattern = regexp.MustCompile(`git\+https://github\.com/([^/]+)/llama-stack\.git@main`)
	pipPinPattern      = regexp.MustCompile(`llama-stack==([0-9]+\.[0-9]+\.[0-9]+(?:rc[0-9]+)?(?:\+rhai[0-9]+)?)`)
	gitTagPattern      = regexp.MustCompile(`git\+https://github\.com/([^/]+)/llama-stack\.git@v?([0-9]+\.[0-9]+\.[0-9]+(?:rc[0-9]+)?(?:\+rhai[0-9]+)?)`)
)

// CommitResolver resolves the head commit of a branch in a remote repository.
type CommitResolver interface {
	ResolveCommit(ctx context.Context, repoURL, branch string) (string, error)
}

// GitResolver resolves commits with `git ls-remote`.
type GitResolver struct {
	// Git is the git binary. Empty means "git" on PATH.
	Git string
}

// ResolveCommit returns the full commit hash of branch in repoURL.
func (g GitResolver) ResolveCommit(ctx context.Context, repoURL, branch string) (string, error) {
	bin := g.Git
	if bin == "" {
		bin = "git"
	}

	ctx, cancel := context.WithTimeout(ctx, lsRemoteTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, bin, "ls-remote", repoURL, branch).Output()
	if err != nil {
		return "", fmt.Errorf("git ls-remote %s %s: %w", repoURL, branch, err)
	}
	return parseLsRemote(string(out))
}

// parseLsRemote extracts the hash from "<hash>\trefs/heads/<branch>" output.
func parseLsRemote(out string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty ls-remote output")
	}
	return fields[0], nil
}

// StackVersion is the llama-stack version installed by the Containerfile.
type StackVersion struct {
	// Version is a release version, a commit hash or "main".
	Version string

	// Owner is the GitHub owner of the llama-stack fork.
	Owner string
}

// ExtractStackVersion finds the llama-stack version in Containerfile content.
//
// The lookup order is:
//  1. a git install of the main branch, resolved to its head commit (or
//     "main" when resolution fails)
//  2. a pinned pip requirement (llama-stack==X.Y.Z), owned by DefaultRepoOwner
//  3. a git install of a version tag
//
// Parameters:
//   - ctx: bounds the commit resolution
//   - content: Containerfile content
//   - resolver: used only for main-branch installs; may be nil
//
// Returns:
//   - The version and fork owner
//   - ErrVersionNotFound if nothing matches
func ExtractStackVersion(ctx context.Context, content string, resolver CommitResolver) (StackVersion, error) {
	if m := mainInstallPattern.FindStringSubmatch(content); m != nil {
		owner := m[1]
		if resolver != nil {
			repoURL := fmt.Sprintf("https://github.com/%s/llama-stack.git", owner)
			commit, err := resolver.ResolveCommit(ctx, repoURL, MainRef)
			if err == nil && commit != "" {
				return StackVersion{Version: commit, Owner: owner}, nil
			}
			logger.Warn("Could not resolve commit hash from main: %v", err)
		}
		return StackVersion{Version: MainRef, Owner: owner}, nil
	}

	if m := pipPinPattern.FindStringSubmatch(content); m != nil {
		return StackVersion{Version: m[1], Owner: DefaultRepoOwner}, nil
	}

	if m := gitTagPattern.FindStringSubmatch(content); m != nil {
		return StackVersion{Version: m[2], Owner: m[1]}, nil
	}

	return StackVersion{}, ErrVersionNotFound
}

// VersionLink is how a StackVersion is rendered in the README.
type VersionLink struct {
	Display string
	URL     string
}

// IsCommitHash reports whether v looks like a 7 to 40 character hex hash.
func IsCommitHash(v string) bool {
	if len(v) < 7 || len(v) > 40 {
		return false
	}
	for _, c := range strings.ToLower(v) {
		if !strings.ContainsRune("0123456789abcdef", c) {
			return false
		}
	}
	return true
}

// Link returns the display text and GitHub URL for the version.
//
// Commit hashes link to the commit and display the short hash, "main" links
// to the branch tree, anything else to the v-prefixed release tag.
func (s StackVersion) Link() VersionLink {
	base := fmt.Sprintf("https://github.com/%s/llama-stack", s.Owner)
	switch {
	case IsCommitHash(s.Version):
		return VersionLink{Display: s.Version[:7], URL: base + "/commit/" + s.Version}
	case s.Version == MainRef:
		return VersionLink{Display: s.Version, URL: base + "/tree/main"}
	default:
		return VersionLink{Display: s.Version, URL: base + "/releases/tag/v" + s.Version}
	}
}

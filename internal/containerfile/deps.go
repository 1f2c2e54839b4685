// Package containerfile generates distribution/Containerfile.
//
// The Containerfile is rendered from distribution/Containerfile.in. Its
// dependency section comes from `llama stack list-deps`, whose output is one
// pip invocation per line; each line is normalized into a `RUN uv pip install`
// instruction and the instructions are grouped so that builds are
// reproducible:
//
//  1. pinned upgrades for packages the distribution patches
//  2. standard installs
//  3. installs from an alternate index (torch wheels)
//  4. --no-deps installs
//  5. --no-cache installs
package containerfile

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/google/shlex"
)

// PinnedDependencies are upgraded before anything else so that patched
// packages resolve to known versions.
var PinnedDependencies = []string{
	"'kfp-kubernetes==2.14.6'",
	"'pyarrow>=21.0.0'",
	"'botocore==1.35.88'",
	"'boto3==1.35.88'",
	"'aiobotocore==2.16.1'",
	"'ibm-cos-sdk-core==2.14.2'",
	"'ibm-cos-sdk==2.14.2'",
}

const (
	installPrefix = "RUN uv pip install"
	continuation  = " \\\n    "
)

// namespaceExtraPattern matches "pkg.extra==1.0" so it can be rewritten to
// the extras form "pkg[extra]==1.0". Only a segment directly before a
// version operator matches, never a dot inside a version number.
var namespaceExtraPattern = regexp.MustCompile(`\.([a-zA-Z_][a-zA-Z0-9_]*)(==|>=|<=|>|<|~=|!=)`)

type installKind int

const (
	kindStandard installKind = iota
	kindIndex
	kindNoDeps
	kindNoCache
)

// installLine is one parsed list-deps line.
type installLine struct {
	flags    []string
	packages []string
	kind     installKind
}

// parseLine splits a list-deps line into flags and normalized packages.
func parseLine(line string) (installLine, error) {
	parts, err := shlex.Split(escapeHashes(line))
	if err != nil {
		return installLine{}, fmt.Errorf("failed to split %q: %w", line, err)
	}

	var (
		out      installLine
		packages []string
		hasIndex bool
	)
	for i := 0; i < len(parts); i++ {
		switch p := parts[i]; {
		case (p == "--extra-index-url" || p == "--index-url") && i+1 < len(parts):
			out.flags = append(out.flags, p, parts[i+1])
			hasIndex = true
			i++
		case p == "--no-deps" || p == "--no-cache":
			out.flags = append(out.flags, p)
		default:
			packages = append(packages, p)
		}
	}

	out.packages = normalizePackages(packages)

	switch {
	case hasIndex:
		out.kind = kindIndex
	case slices.Contains(out.flags, "--no-deps"):
		out.kind = kindNoDeps
	case slices.Contains(out.flags, "--no-cache"):
		out.kind = kindNoCache
	default:
		out.kind = kindStandard
	}
	return out, nil
}

// escapeHashes backslash-escapes every '#' that starts an unquoted word.
// shlex treats such a word as the start of a comment and drops the rest of
// the line; list-deps output has no comments, so the word is kept literally.
func escapeHashes(line string) string {
	var (
		b     strings.Builder
		quote byte
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
		case c == '\\' && i+1 < len(line):
			b.WriteByte(c)
			i++
			c = line[i]
		case quote == '"':
			if c == '"' {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#' && (i == 0 || strings.IndexByte(" \t\r\n", line[i-1]) >= 0):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// normalizePackages dedupes and sorts packages, quotes version ranges so the
// shell does not treat them as redirections, adds the milvus-lite extra to
// pymilvus and rewrites namespace extras.
func normalizePackages(packages []string) []string {
	pkgs := sortedUnique(packages)
	for i, p := range pkgs {
		if strings.ContainsAny(p, "<>") {
			p = "'" + p + "'"
		}
		if strings.Contains(p, "pymilvus") && !strings.Contains(p, "[milvus-lite]") {
			p = strings.ReplaceAll(p, "pymilvus", "pymilvus[milvus-lite]")
		}
		pkgs[i] = namespaceExtraPattern.ReplaceAllString(p, "[${1}]${2}")
	}
	return sortedUnique(pkgs)
}

// render formats the line as a RUN instruction.
func (l installLine) render() string {
	if l.kind == kindStandard {
		return installPrefix + continuation + strings.Join(l.packages, continuation)
	}
	parts := append([]string{installPrefix}, l.flags...)
	parts = append(parts, l.packages...)
	return strings.Join(parts, " ")
}

// ParseDependencies converts `llama stack list-deps` output into the
// Containerfile dependency section.
//
// Parameters:
//   - output: list-deps stdout, one install per line
//
// Returns:
//   - The RUN instructions separated by newlines, pinned upgrades first
//   - Error if a line cannot be shell-split
func ParseDependencies(output string) (string, error) {
	groups := make(map[installKind][]string)
	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parsed, err := parseLine(line)
		if err != nil {
			return "", err
		}
		groups[parsed.kind] = append(groups[parsed.kind], parsed.render())
	}

	var all []string
	if len(PinnedDependencies) > 0 {
		all = append(all, installPrefix+" --upgrade"+continuation+strings.Join(PinnedDependencies, continuation))
	}
	for _, kind := range []installKind{kindStandard, kindIndex, kindNoDeps, kindNoCache} {
		cmds := groups[kind]
		sort.Strings(cmds)
		all = append(all, cmds...)
	}
	return strings.Join(all, "\n"), nil
}

func sortedUnique(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

package containerfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
)

// SourceRepo is the llama-stack fork installed from source.
const SourceRepo = "git+https://github.com/opendatahub-io/llama-stack.git"

// ErrVersionMismatch is returned when the installed llama-stack differs from
// the version the Containerfile is generated for.
var ErrVersionMismatch = errors.New("llama-stack version mismatch")

// IsInstallFromSource reports whether version must be installed from git:
// commit SHAs carry no dots, and +rhai builds only exist in the fork.
func IsInstallFromSource(version string) bool {
	return !strings.Contains(version, ".") || strings.Contains(version, "+rhai")
}

// SourceInstall returns the RUN instruction installing version from git, or
// "" when version is a released package.
func SourceInstall(version string) string {
	if !IsInstallFromSource(version) {
		return ""
	}
	return fmt.Sprintf("RUN uv pip install --no-cache --no-deps %s@%s", SourceRepo, version)
}

// Builder regenerates the Containerfile.
type Builder struct {
	Layout  config.Layout
	Version string
	Runner  Runner
}

// NewBuilder returns a Builder using the real toolchain.
func NewBuilder(layout config.Layout, version string) *Builder {
	return &Builder{Layout: layout, Version: version, Runner: ExecRunner{}}
}

// InstallFromSource installs the configured llama-stack ref with uv so that
// `llama stack list-deps` reflects it.
func (b *Builder) InstallFromSource(ctx context.Context) error {
	logger.Info("Installing llama-stack from source: %s", b.Version)
	out, err := b.Runner.Output(ctx, b.Layout.Root, "uv", "pip", "install", SourceRepo+"@"+b.Version)
	if err != nil {
		return fmt.Errorf("error installing llama-stack: %w", err)
	}
	if s := strings.TrimSpace(string(out)); s != "" {
		logger.Debug("%s", s)
	}
	return nil
}

// CheckVersion compares `llama stack --version` with the configured version.
//
// Returns:
//   - nil when they match or the installed version cannot be queried
//   - ErrVersionMismatch otherwise
func (b *Builder) CheckVersion(ctx context.Context) error {
	out, err := b.Runner.Output(ctx, b.Layout.Root, "llama", "stack", "--version")
	if err != nil {
		logger.Warn("Could not check llama-stack version: %v", err)
		logger.Warn("Continuing without version validation...")
		return nil
	}
	installed := strings.TrimSpace(string(out))
	if installed != b.Version {
		return fmt.Errorf("%w: expected %s, installed %s. If you just bumped LLAMA_STACK_VERSION, "+
			"update the version in .pre-commit-config.yaml too", ErrVersionMismatch, b.Version, installed)
	}
	return nil
}

// Dependencies runs `llama stack list-deps` and formats the result.
func (b *Builder) Dependencies(ctx context.Context) (string, error) {
	// The command runs from the repository root, so the path stays relative.
	cfgPath := filepath.Join(config.DistributionDir, filepath.Base(b.Layout.ConfigYAML()))
	out, err := b.Runner.Output(ctx, b.Layout.Root, "llama", "stack", "list-deps", cfgPath)
	if err != nil {
		return "", fmt.Errorf("error listing dependencies: %w", err)
	}
	return ParseDependencies(string(out))
}

// Build runs the whole pipeline and writes distribution/Containerfile.
//
// Steps:
//  1. require uv and install llama-stack from source
//  2. require the llama CLI
//  3. check the installed version, unless installing from source
//  4. list and format dependencies
//  5. render the template to the Containerfile
func (b *Builder) Build(ctx context.Context) error {
	if err := Require(b.Runner, "uv", ""); err != nil {
		return err
	}
	if err := b.InstallFromSource(ctx); err != nil {
		return err
	}
	if err := Require(b.Runner, "llama", "llama-stack-client"); err != nil {
		return err
	}

	if !IsInstallFromSource(b.Version) {
		logger.Info("Checking llama-stack version...")
		if err := b.CheckVersion(ctx); err != nil {
			return err
		}
	}

	logger.Info("Getting dependencies...")
	deps, err := b.Dependencies(ctx)
	if err != nil {
		return err
	}

	tmplPath := b.Layout.ContainerfileTemplate()
	tmpl, err := os.ReadFile(tmplPath)
	if err != nil {
		return fmt.Errorf("template file %s not found: %w", tmplPath, err)
	}

	logger.Info("Generating Containerfile...")
	content, err := Render(string(tmpl), deps, SourceInstall(b.Version))
	if err != nil {
		return err
	}

	out := b.Layout.Containerfile()
	if err := os.WriteFile(out, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	logger.Info("Successfully generated %s", out)
	return nil
}

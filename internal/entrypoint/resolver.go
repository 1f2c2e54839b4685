// Package entrypoint implements the container entrypoint of the distribution
// image.
//
// On start the entrypoint decides which run configuration the wrapped server
// is launched with, then hands control to the launcher. Selection is strict
// first-match-wins:
//
//  1. RUN_CONFIG_PATH, when set and the file exists
//  2. DISTRO_NAME, when set
//  3. the run configuration baked into the image
//
// Nothing here validates the chosen configuration. A bad distribution name or
// a missing default file is reported by the launched server itself.
package entrypoint

import (
	"os"

	"github.com/tsingmao/stackdist/internal/config"
)

// Source identifies which tier produced a Selection.
type Source string

const (
	// SourceExplicit means RUN_CONFIG_PATH named an existing file.
	SourceExplicit Source = "explicit"

	// SourceDistribution means DISTRO_NAME was used.
	SourceDistribution Source = "distribution"

	// SourceDefault means neither variable applied.
	SourceDefault Source = "default"
)

// Selection is the run configuration reference handed to the launcher.
type Selection struct {
	// Reference is a file path or a distribution name.
	Reference string

	// Source records which tier Reference came from.
	Source Source
}

// Resolver picks the run configuration for a process start.
//
// A Resolver holds no state between calls; the same inputs always produce
// the same Selection.
type Resolver struct {
	// DefaultPath is returned when no other tier applies.
	DefaultPath string

	// exists reports whether a path is present on the filesystem.
	exists func(path string) bool
}

// NewResolver returns a Resolver falling back to config.DefaultRunConfigPath.
func NewResolver() *Resolver {
	return &Resolver{
		DefaultPath: config.DefaultRunConfigPath,
		exists:      pathExists,
	}
}

// Resolve applies the selection order to an explicit path and a
// distribution name. Empty strings mean "not set".
//
// Parameters:
//   - explicitPath: value of RUN_CONFIG_PATH
//   - distroName: value of DISTRO_NAME
//
// Returns:
//   - The Selection; Resolve cannot fail
func (r *Resolver) Resolve(explicitPath, distroName string) Selection {
	if explicitPath != "" && r.exists(explicitPath) {
		return Selection{Reference: explicitPath, Source: SourceExplicit}
	}
	if distroName != "" {
		return Selection{Reference: distroName, Source: SourceDistribution}
	}
	return Selection{Reference: r.DefaultPath, Source: SourceDefault}
}

// ResolveConfig is Resolve over an EntrypointConfig.
func (r *Resolver) ResolveConfig(cfg *config.EntrypointConfig) Selection {
	return r.Resolve(cfg.RunConfigPath, cfg.DistroName)
}

func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

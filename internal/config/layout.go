package config

import "path/filepath"

const (
	// DistributionDir is the repository directory holding the image inputs.
	DistributionDir = "distribution"
)

// Layout locates the distribution files inside a repository checkout.
//
// All paths are derived from Root so tools can be run from any directory
// with --root.
type Layout struct {
	// Root is the repository root.
	Root string
}

// NewLayout returns a Layout rooted at root. An empty root means the
// current directory.
func NewLayout(root string) Layout {
	if root == "" {
		root = "."
	}
	return Layout{Root: root}
}

func (l Layout) dist(name string) string {
	return filepath.Join(l.Root, DistributionDir, name)
}

// RunYAML returns the path of the distribution run configuration.
func (l Layout) RunYAML() string { return l.dist("run.yaml") }

// BuildYAML returns the path of the distribution build specification.
func (l Layout) BuildYAML() string { return l.dist("build.yaml") }

// ConfigYAML returns the path passed to `llama stack list-deps`.
func (l Layout) ConfigYAML() string { return l.dist("config.yaml") }

// Containerfile returns the path of the generated Containerfile.
func (l Layout) Containerfile() string { return l.dist("Containerfile") }

// ContainerfileTemplate returns the path of the Containerfile template.
func (l Layout) ContainerfileTemplate() string { return l.dist("Containerfile.in") }

// Readme returns the path of the generated distribution README.
func (l Layout) Readme() string { return l.dist("README.md") }

// Inputs returns the files the README is generated from.
func (l Layout) Inputs() []string {
	return []string{l.RunYAML(), l.BuildYAML(), l.Containerfile()}
}

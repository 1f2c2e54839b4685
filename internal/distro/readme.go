package distro

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
)

var (
	// ErrNoProviders is returned when run.yaml has an empty providers section.
	ErrNoProviders = errors.New("no providers found in run.yaml")

	// ErrReadmeOutOfDate is returned by Check when the README must be regenerated.
	ErrReadmeOutOfDate = errors.New("distribution README is out of date")
)

const readmeHeader = `<!-- This file is automatically generated by stackdist docs - do not update manually -->

# Open Data Hub Llama Stack Distribution Image

This image contains the official Open Data Hub Llama Stack distribution, with all the packages and configuration needed to run a Llama Stack server in a containerized environment.

The image is currently shipping with the Open Data Hub version of Llama Stack version [%s](%s)

You can see an overview of the APIs and Providers the image ships with in the table below.

`

// Generator renders distribution/README.md.
type Generator struct {
	Layout   config.Layout
	Resolver CommitResolver
}

// NewGenerator returns a Generator for the repository at layout, resolving
// main-branch installs with git.
func NewGenerator(layout config.Layout) *Generator {
	return &Generator{Layout: layout, Resolver: GitResolver{}}
}

// Generate renders the README content.
//
// Returns:
//   - The README bytes
//   - Error if an input file is missing or malformed, the Containerfile pins
//     no version, or run.yaml lists no providers
func (g *Generator) Generate(ctx context.Context) ([]byte, error) {
	runPath := g.Layout.RunYAML()
	if _, err := os.Stat(runPath); err != nil {
		return nil, fmt.Errorf("run configuration not found: %w", err)
	}

	containerfile, err := os.ReadFile(g.Layout.Containerfile())
	if err != nil {
		return nil, fmt.Errorf("failed to read Containerfile: %w", err)
	}
	version, err := ExtractStackVersion(ctx, string(containerfile), g.Resolver)
	if err != nil {
		return nil, err
	}
	link := version.Link()
	logger.Debug("llama-stack version %s (%s)", link.Display, link.URL)

	providers, err := LoadRunProviders(runPath)
	if err != nil {
		return nil, err
	}
	external, err := LoadExternalProviders(g.Layout.BuildYAML())
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, readmeHeader, link.Display, link.URL)
	buf.WriteString(RenderTable(BuildRows(providers, external)))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// Write regenerates the README on disk.
func (g *Generator) Write(ctx context.Context) error {
	content, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	path := g.Layout.Readme()
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.Info("Successfully generated %s", path)
	return nil
}

// Check compares the README on disk with a fresh rendering.
//
// Returns:
//   - nil when they match
//   - ErrReadmeOutOfDate when they differ or the README is missing
//   - any generation error
func (g *Generator) Check(ctx context.Context) error {
	content, err := g.Generate(ctx)
	if err != nil {
		return err
	}
	current, err := os.ReadFile(g.Layout.Readme())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrReadmeOutOfDate
		}
		return fmt.Errorf("failed to read README: %w", err)
	}
	if !bytes.Equal(current, content) {
		return ErrReadmeOutOfDate
	}
	return nil
}

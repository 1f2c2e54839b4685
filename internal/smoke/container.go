package smoke

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=container.go -destination=../mock/container_mock.go -package=mock

// ContainerSpec describes the container started for a smoke run.
type ContainerSpec struct {
	// Name is the container name.
	Name string

	// Image is the distribution image under test.
	Image string

	// Env holds KEY=VALUE pairs.
	Env []string

	// HostPort is bound to the server port inside the container.
	HostPort int

	// Labels mark the container as created by a smoke run.
	Labels map[string]string
}

// ContainerState is the subset of the inspected container state the runner
// needs.
type ContainerState struct {
	Running  bool
	Status   string
	ExitCode int
	Error    string
}

// Describe formats an exited container's state for error messages.
func (s ContainerState) Describe() string {
	if s.Error != "" {
		return fmt.Sprintf("container %s with code %d: %s", s.Status, s.ExitCode, s.Error)
	}
	return fmt.Sprintf("container %s with code %d", s.Status, s.ExitCode)
}

// ContainerAPI is the container engine surface a smoke run uses.
type ContainerAPI interface {
	// Create creates a stopped container and returns its id.
	Create(ctx context.Context, spec ContainerSpec) (string, error)

	// Start starts a created container.
	Start(ctx context.Context, id string) error

	// State inspects a container.
	State(ctx context.Context, id string) (ContainerState, error)

	// Logs returns the last tail lines of combined stdout and stderr.
	Logs(ctx context.Context, id string, tail string) (string, error)

	// Stop stops a container, killing it after timeout seconds.
	Stop(ctx context.Context, id string, timeout int) error

	// Remove force-removes a container and its anonymous volumes.
	Remove(ctx context.Context, id string) error

	// RemoveStale removes exited containers left by earlier smoke runs.
	RemoveStale(ctx context.Context) (int, error)
}

package smoke

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"

	"github.com/tsingmao/stackdist/internal/config"
	"github.com/tsingmao/stackdist/internal/logger"
)

// LabelSmoke marks containers created by a smoke run.
const LabelSmoke = "stackdist.smoke"

// pingTimeout bounds the daemon connectivity check.
const pingTimeout = 5 * time.Second

// DockerClient implements ContainerAPI with the Docker Engine API.
type DockerClient struct {
	client *client.Client
}

// NewDockerClient connects to the daemon configured by the environment
// (DOCKER_HOST, DOCKER_TLS_VERIFY, DOCKER_CERT_PATH) and verifies it answers.
//
// Returns:
//   - A connected client; Close it when done
//   - Error if the client cannot be created or the daemon is unreachable
func NewDockerClient(ctx context.Context) (*DockerClient, error) {
	cli, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if _, err := cli.Ping(pingCtx); err != nil {
		cli.Close()
		return nil, fmt.Errorf("Docker daemon is not accessible: %w", err)
	}
	return &DockerClient{client: cli}, nil
}

// Close releases the underlying connection.
func (d *DockerClient) Close() error {
	return d.client.Close()
}

// Create implements ContainerAPI.
func (d *DockerClient) Create(ctx context.Context, spec ContainerSpec) (string, error) {
	port := nat.Port(fmt.Sprintf("%d/tcp", config.DefaultServerPort))
	useInit := true

	cfg := &container.Config{
		Image:        spec.Image,
		Env:          spec.Env,
		ExposedPorts: nat.PortSet{port: struct{}{}},
		Labels:       spec.Labels,
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: strconv.Itoa(spec.HostPort)}},
		},
		// Lets VLLM_URL point at an endpoint on the host.
		ExtraHosts: []string{"host.docker.internal:host-gateway"},
		Init:       &useInit,
	}

	resp, err := d.client.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create container %s: %w", spec.Name, err)
	}
	for _, w := range resp.Warnings {
		logger.Warn("Docker: %s", w)
	}
	return resp.ID, nil
}

// Start implements ContainerAPI.
func (d *DockerClient) Start(ctx context.Context, id string) error {
	if err := d.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container: %w", err)
	}
	return nil
}

// State implements ContainerAPI.
func (d *DockerClient) State(ctx context.Context, id string) (ContainerState, error) {
	inspect, err := d.client.ContainerInspect(ctx, id)
	if err != nil {
		return ContainerState{}, fmt.Errorf("failed to inspect container: %w", err)
	}
	if inspect.ContainerJSONBase == nil || inspect.State == nil {
		return ContainerState{}, fmt.Errorf("container %s has no state", id)
	}
	return ContainerState{
		Running:  inspect.State.Running,
		Status:   inspect.State.Status,
		ExitCode: inspect.State.ExitCode,
		Error:    inspect.State.Error,
	}, nil
}

// Logs implements ContainerAPI. The multiplexed stream is demultiplexed
// into a single buffer.
func (d *DockerClient) Logs(ctx context.Context, id string, tail string) (string, error) {
	rc, err := d.client.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       tail,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get container logs: %w", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if _, err := stdcopy.StdCopy(&buf, &buf, rc); err != nil {
		return buf.String(), fmt.Errorf("failed to read container logs: %w", err)
	}
	return buf.String(), nil
}

// Stop implements ContainerAPI.
func (d *DockerClient) Stop(ctx context.Context, id string, timeout int) error {
	if err := d.client.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("failed to stop container: %w", err)
	}
	return nil
}

// Remove implements ContainerAPI.
func (d *DockerClient) Remove(ctx context.Context, id string) error {
	err := d.client.ContainerRemove(ctx, id, container.RemoveOptions{
		Force:         true,
		RemoveVolumes: true,
	})
	if err != nil {
		return fmt.Errorf("failed to remove container: %w", err)
	}
	return nil
}

// RemoveStale implements ContainerAPI.
func (d *DockerClient) RemoveStale(ctx context.Context) (int, error) {
	containers, err := d.client.ContainerList(ctx, container.ListOptions{
		All: true,
		Filters: filters.NewArgs(
			filters.Arg("label", LabelSmoke+"=true"),
			filters.Arg("status", "exited"),
			filters.Arg("status", "created"),
		),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list containers: %w", err)
	}

	removed := 0
	for _, c := range containers {
		if err := d.Remove(ctx, c.ID); err != nil {
			logger.Warn("Failed to remove stale container %s: %v", c.ID[:min(len(c.ID), 12)], err)
			continue
		}
		removed++
	}
	return removed, nil
}

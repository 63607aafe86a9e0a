// Package infra holds the process-execution collaborators the portal's
// privileged endpoints delegate to.  Command construction lives here and
// only here; the handlers invoke these after the authorization gate and
// rate limiter have passed.
package infra

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Result is the human-readable outcome of an infrastructure operation.
// Status is "enabled" or "disabled" for network operations, "paused" or
// "running" for the cron toggle.
type Result struct {
	Message string
	Status  string
}

// Controller toggles and reports the webtop container's internet
// connectivity.
type Controller interface {
	Enable(ctx context.Context) (Result, error)
	Disable(ctx context.Context) (Result, error)
	Status(ctx context.Context) (Result, error)
}

// DockerController implements Controller by shelling out to the docker
// CLI: connectivity is granted by attaching the container to the internet
// network and revoked by detaching it.
type DockerController struct {
	Bin       string // docker binary path
	Network   string // internet-granting network name
	Container string // webtop container name
}

func NewDockerController(bin, network, container string) *DockerController {
	return &DockerController{Bin: bin, Network: network, Container: container}
}

const commandTimeout = 15 * time.Second

// connected inspects the network and reports whether the container is
// currently attached.
func (d *DockerController) connected(ctx context.Context) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, d.Bin, "network", "inspect", d.Network,
		"--format", "{{range .Containers}}{{.Name}} {{end}}").CombinedOutput()
	if err != nil {
		return false, fmt.Errorf("network inspect: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return strings.Contains(string(out), d.Container), nil
}

// Enable attaches the container to the internet network.  Already being
// attached is reported as success, matching the toggle's idempotent UI.
func (d *DockerController) Enable(ctx context.Context) (Result, error) {
	on, err := d.connected(ctx)
	if err != nil {
		return Result{}, err
	}
	if on {
		return Result{Message: "Internet already enabled", Status: "enabled"}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if out, err := exec.CommandContext(cctx, d.Bin, "network", "connect", d.Network, d.Container).CombinedOutput(); err != nil {
		return Result{}, fmt.Errorf("network connect: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return Result{Message: "Internet access enabled", Status: "enabled"}, nil
}

// Disable detaches the container from the internet network.
func (d *DockerController) Disable(ctx context.Context) (Result, error) {
	on, err := d.connected(ctx)
	if err != nil {
		return Result{}, err
	}
	if !on {
		return Result{Message: "Internet already disabled", Status: "disabled"}, nil
	}
	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()
	if out, err := exec.CommandContext(cctx, d.Bin, "network", "disconnect", d.Network, d.Container).CombinedOutput(); err != nil {
		return Result{}, fmt.Errorf("network disconnect: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return Result{Message: "Internet access disabled", Status: "disabled"}, nil
}

// Status reports current connectivity without changing it.
func (d *DockerController) Status(ctx context.Context) (Result, error) {
	on, err := d.connected(ctx)
	if err != nil {
		return Result{}, err
	}
	if on {
		return Result{Message: "Internet access is enabled", Status: "enabled"}, nil
	}
	return Result{Message: "Internet access is disabled", Status: "disabled"}, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container finds a local docker or podman binary and runs
// throwaway containers with it. The markitdown document converter and the
// container mode of the shell sandbox both run through here.
package container

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Invocation describes one container run.
type Invocation struct {
	// Image is the container image to run.
	Image string

	// Args follow the image name as the container command. Empty runs the
	// image's entrypoint.
	Args []string

	// Network attaches the container to the default network. When false
	// the container runs with --network none.
	Network bool

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Runtime runs containers through one container engine binary.
type Runtime interface {
	// Name returns the binary name, "docker" or "podman".
	Name() string

	// Available reports whether the binary is on PATH and its daemon
	// answers an info request.
	Available() bool

	// ImageExists returns nil when image is present locally.
	ImageExists(image string) error

	// Run starts a container for inv and waits for it to exit. A non-zero
	// exit surfaces as a wrapped *exec.ExitError.
	Run(ctx context.Context, inv Invocation) error
}

// flavor captures what differs between engines.
type flavor struct {
	bin        string
	imageCheck []string
}

// flavors are tried in order by DetectRuntime.
var flavors = []flavor{
	{bin: "docker", imageCheck: []string{"image", "inspect"}},
	{bin: "podman", imageCheck: []string{"image", "exists"}},
}

// executor is the seam between the runtime and os/exec.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) { return exec.LookPath(file) }

func (osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

type runtime struct {
	flavor
	exec executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) ImageExists(image string) error {
	args := append(append([]string(nil), r.imageCheck...), image)
	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("image %s not found in %s: %w", image, r.bin, err)
	}
	return nil
}

func (r *runtime) Run(ctx context.Context, inv Invocation) error {
	if err := r.exec.RunPiped(ctx, r.bin, runArgs(inv), inv.Stdin, inv.Stdout, inv.Stderr); err != nil {
		return fmt.Errorf("running %s in %s: %w", inv.Image, r.bin, err)
	}
	return nil
}

// runArgs builds "run --rm -i [--network none] image args...".
func runArgs(inv Invocation) []string {
	args := []string{"run", "--rm", "-i"}
	if !inv.Network {
		args = append(args, "--network", "none")
	}
	args = append(args, inv.Image)
	return append(args, inv.Args...)
}

// DetectRuntime returns the first working engine, preferring docker.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(osExecutor{})
}

func detectRuntime(e executor) (Runtime, error) {
	names := make([]string, 0, len(flavors))
	for _, f := range flavors {
		rt := &runtime{flavor: f, exec: e}
		if rt.Available() {
			return rt, nil
		}
		names = append(names, f.bin)
	}
	return nil, fmt.Errorf("no container runtime available (tried %s)", strings.Join(names, ", "))
}

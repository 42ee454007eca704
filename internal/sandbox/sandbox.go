// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sandbox is the capability boundary for running caller-supplied
// shell commands. Execution is disabled unless configured; when enabled,
// commands run either on the host or inside a throwaway container. With an
// allow-list, only the listed binaries run, as plain argv without a shell;
// without one, the whole line goes to sh -c.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/pdiddy/answer-engine/internal/container"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// ErrDisabled is returned when shell execution has not been enabled.
var ErrDisabled = errors.New("shell execution is disabled")

// Output is the outcome of a command that ran to completion.
type Output struct {
	// Combined holds stdout and stderr in the order they were written.
	Combined string

	// ExitCode is the process exit status; zero means success.
	ExitCode int
}

// runner executes one argv and writes its combined output to out.
type runner interface {
	run(ctx context.Context, argv []string, out *bytes.Buffer) error
}

// Shell runs commands according to a ShellConfig.
type Shell struct {
	cfg    types.ShellConfig
	runner runner
}

// detectRuntime is a package-level variable so tests can replace runtime
// detection.
var detectRuntime = container.DetectRuntime

// New creates a Shell for cfg. Container mode requires a working docker or
// podman runtime.
func New(cfg types.ShellConfig) (*Shell, error) {
	s := &Shell{cfg: cfg}
	switch cfg.Mode {
	case "", types.ShellDisabled:
	case types.ShellHost:
		s.runner = hostRunner{}
	case types.ShellContainer:
		if cfg.Image == "" {
			return nil, errors.New("container shell mode requires an image")
		}
		rt, err := detectRuntime()
		if err != nil {
			return nil, fmt.Errorf("container shell mode: %w", err)
		}
		s.runner = containerRunner{runtime: rt, image: cfg.Image}
	default:
		return nil, fmt.Errorf("unknown shell mode %q", cfg.Mode)
	}
	return s, nil
}

// Enabled reports whether commands can run at all.
func (s *Shell) Enabled() bool {
	return s != nil && s.runner != nil
}

// Run executes command and returns its combined output and exit status. A
// non-zero exit is reported through Output, not as an error; errors mean the
// command was refused or could not be started.
func (s *Shell) Run(ctx context.Context, command string) (Output, error) {
	if !s.Enabled() {
		return Output{}, ErrDisabled
	}
	if err := s.allow(command); err != nil {
		return Output{}, err
	}

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	var out bytes.Buffer
	err := s.runner.run(ctx, s.argv(command), &out)
	result := Output{Combined: out.String()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return result, nil
	case ctx.Err() != nil:
		return result, fmt.Errorf("command interrupted: %w", ctx.Err())
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	default:
		return result, fmt.Errorf("starting command: %w", err)
	}
}

// shellMeta are the characters sh would interpret to chain, redirect,
// substitute or quote. With an allow-list set, commands containing them are
// refused and the remaining words run as a plain argv, without a shell.
const shellMeta = ";&|<>$`\\'\"(){}\n\r"

// allow checks command against the allow-list. An empty list permits any
// command line, which then runs through sh -c.
func (s *Shell) allow(command string) error {
	if len(s.cfg.AllowedBinaries) == 0 {
		return nil
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errors.New("empty command")
	}
	if !lo.Contains(s.cfg.AllowedBinaries, fields[0]) {
		return fmt.Errorf("command %q is not in the allowed list (%s)",
			fields[0], strings.Join(s.cfg.AllowedBinaries, ", "))
	}
	if i := strings.IndexAny(command, shellMeta); i >= 0 {
		return fmt.Errorf("command contains shell metacharacter %q", command[i])
	}
	return nil
}

// argv returns the process arguments for an allowed command.
func (s *Shell) argv(command string) []string {
	if len(s.cfg.AllowedBinaries) == 0 {
		return []string{"sh", "-c", command}
	}
	return strings.Fields(command)
}

// hostRunner starts processes on the host in their own process group, so a
// cancelled command takes its children down with it.
type hostRunner struct{}

// waitDelay bounds how long Run waits for output pipes after a kill.
const waitDelay = 500 * time.Millisecond

func (hostRunner) run(ctx context.Context, argv []string, out *bytes.Buffer) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = out
	cmd.Stderr = out
	setupProcessGroup(cmd)
	cmd.Cancel = func() error { return killProcessGroup(cmd) }
	cmd.WaitDelay = waitDelay
	return cmd.Run()
}

// containerRunner runs commands inside a throwaway container.
type containerRunner struct {
	runtime container.Runtime
	image   string
}

func (c containerRunner) run(ctx context.Context, argv []string, out *bytes.Buffer) error {
	return c.runtime.Run(ctx, container.Invocation{
		Image:   c.image,
		Args:    argv,
		Network: true,
		Stdout:  out,
		Stderr:  out,
	})
}

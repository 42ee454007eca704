// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/pdiddy/answer-engine/internal/sandbox"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// CommandRunner runs a command line and reports its output and exit status.
// *sandbox.Shell satisfies it.
type CommandRunner interface {
	Run(ctx context.Context, command string) (sandbox.Output, error)
}

// ShellCommand executes the question text itself as a command line and
// returns the trimmed combined output.
type ShellCommand struct {
	Runner CommandRunner
}

// Extract implements Extractor.
func (s ShellCommand) Extract(ctx context.Context, q types.Question, _ *types.UploadedFile) types.Result {
	if s.Runner == nil {
		return types.Failure(types.KindExecutionError, sandbox.ErrDisabled.Error(), sandbox.ErrDisabled)
	}

	command := string(q)
	out, err := s.Runner.Run(ctx, command)
	if err != nil {
		return types.Failure(types.KindExecutionError, err.Error(), err)
	}
	if out.ExitCode != 0 {
		msg := fmt.Sprintf("Command '%s' returned non-zero exit status %d.", command, out.ExitCode)
		return types.Failure(types.KindExecutionError, msg, fmt.Errorf("exit status %d: %s", out.ExitCode, out.Combined))
	}
	return types.OK(strings.TrimSpace(out.Combined))
}

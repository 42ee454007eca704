// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Stub answers with a fixed message. It holds a catalogue slot for a task
// category that has no real extractor yet.
type Stub struct {
	Message string
}

// NewGitHubActionsStub returns the placeholder for workflow questions.
func NewGitHubActionsStub() Stub {
	return Stub{Message: "GitHub Actions processing is not yet implemented."}
}

// Extract implements Extractor.
func (s Stub) Extract(context.Context, types.Question, *types.UploadedFile) types.Result {
	return types.OK(s.Message)
}

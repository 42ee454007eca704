// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract implements the catalogue of answer extractors. Each
// extractor turns a question, plus an optional upload, into a Result for one
// narrow task category and knows nothing about the others.
//
// Extractors never return Go errors and never panic on bad input: every
// failure is converted into a types.Result whose Answer is the message the
// caller will read.
package extract

import (
	"context"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Extractor answers one category of question. Implementations may block on
// file, network, or subprocess I/O but must not touch shared state.
type Extractor interface {
	Extract(ctx context.Context, q types.Question, file *types.UploadedFile) types.Result
}

// Func adapts an ordinary function to the Extractor interface.
type Func func(ctx context.Context, q types.Question, file *types.UploadedFile) types.Result

// Extract calls f.
func (f Func) Extract(ctx context.Context, q types.Question, file *types.UploadedFile) types.Result {
	return f(ctx, q, file)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns uploaded documents into plain text with pluggable
// backends. The native backend parses PDFs in-process; the markitdown
// backend pipes them through a container image.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/answer-engine/internal/container"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// Converter transforms document bytes into text.
type Converter interface {
	// Convert returns the text content of data.
	Convert(ctx context.Context, data []byte) (string, error)
}

// detectRuntime is a package-level variable so tests can replace runtime
// detection.
var detectRuntime = container.DetectRuntime

// New returns the converter selected by cfg.Backend. An empty backend means
// native.
func New(cfg types.DocumentConfig) (Converter, error) {
	switch cfg.Backend {
	case "", types.BackendNative:
		return NativeConverter{}, nil
	case types.BackendMarkitdown:
		rt, err := detectRuntime()
		if err != nil {
			return nil, fmt.Errorf("markitdown backend: %w", err)
		}
		return NewMarkitdownConverter(rt)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q", cfg.Backend)
	}
}

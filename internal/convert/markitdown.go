// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/answer-engine/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts documents by piping them through the
// markitdown container image. It depends on a container.Runtime (docker or
// podman) injected at construction time.
type MarkitdownConverter struct {
	runtime container.Runtime
}

// NewMarkitdownConverter creates a converter that uses the given container
// runtime to run the markitdown image. It verifies that the markitdown image
// exists locally before returning.
func NewMarkitdownConverter(rt container.Runtime) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt}, nil
}

// Convert pipes data through the markitdown container and returns the
// resulting Markdown text.
func (m *MarkitdownConverter) Convert(ctx context.Context, data []byte) (string, error) {
	var out, stderr bytes.Buffer
	err := m.runtime.Run(ctx, container.Invocation{
		Image:  imageMarkitdown,
		Stdin:  bytes.NewReader(data),
		Stdout: &out,
		Stderr: &stderr,
	})
	if err != nil {
		return "", fmt.Errorf("converting with markitdown: %w", err)
	}

	if out.Len() == 0 {
		return "", errors.New("markitdown produced empty output")
	}

	return out.String(), nil
}

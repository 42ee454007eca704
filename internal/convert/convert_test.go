// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/answer-engine/internal/container"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// fakeRuntime implements container.Runtime for testing.
type fakeRuntime struct {
	imageErr error
	runFunc  func(inv container.Invocation) error
	lastInv  container.Invocation
}

func (f *fakeRuntime) Name() string                   { return "fake" }
func (f *fakeRuntime) Available() bool                { return true }
func (f *fakeRuntime) ImageExists(image string) error { return f.imageErr }

func (f *fakeRuntime) Run(_ context.Context, inv container.Invocation) error {
	f.lastInv = inv
	if f.runFunc != nil {
		return f.runFunc(inv)
	}
	return nil
}

func TestMarkitdownConverter(t *testing.T) {
	tests := []struct {
		name    string
		runFunc func(container.Invocation) error
		want    string
		wantErr string
	}{
		{
			name: "pipes document through container",
			runFunc: func(inv container.Invocation) error {
				data, _ := io.ReadAll(inv.Stdin)
				_, _ = inv.Stdout.Write([]byte("# converted " + string(data)))
				return nil
			},
			want: "# converted %PDF-1.4",
		},
		{
			name:    "empty output",
			runFunc: func(container.Invocation) error { return nil },
			wantErr: "empty output",
		},
		{
			name:    "container failure",
			runFunc: func(container.Invocation) error { return errors.New("exit status 1") },
			wantErr: "converting with markitdown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &fakeRuntime{runFunc: tt.runFunc}
			c, err := NewMarkitdownConverter(rt)
			require.NoError(t, err)

			got, err := c.Convert(context.Background(), []byte("%PDF-1.4"))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, imageMarkitdown, rt.lastInv.Image)
			assert.False(t, rt.lastInv.Network)
		})
	}
}

func TestNewMarkitdownConverterMissingImage(t *testing.T) {
	_, err := NewMarkitdownConverter(&fakeRuntime{imageErr: errors.New("no such image")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown image not available in fake")
}

func TestNativeConverterRejectsGarbage(t *testing.T) {
	_, err := NativeConverter{}.Convert(context.Background(), []byte("this is not a pdf"))
	require.Error(t, err)
}

func TestNew(t *testing.T) {
	orig := detectRuntime
	t.Cleanup(func() { detectRuntime = orig })

	c, err := New(types.DocumentConfig{})
	require.NoError(t, err)
	assert.IsType(t, NativeConverter{}, c)

	detectRuntime = func() (container.Runtime, error) { return &fakeRuntime{}, nil }
	c, err = New(types.DocumentConfig{Backend: types.BackendMarkitdown})
	require.NoError(t, err)
	assert.IsType(t, &MarkitdownConverter{}, c)

	detectRuntime = func() (container.Runtime, error) { return nil, errors.New("no runtime") }
	_, err = New(types.DocumentConfig{Backend: types.BackendMarkitdown})
	require.Error(t, err)

	_, err = New(types.DocumentConfig{Backend: "grobid"})
	require.Error(t, err)
}

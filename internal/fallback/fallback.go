// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fallback answers questions that no catalogue binding recognises by
// forwarding them to a generative model. The provider is chosen by
// configuration; every provider returns the model's reply verbatim.
package fallback

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Resolver produces a free-form answer for a question.
type Resolver interface {
	Resolve(ctx context.Context, q types.Question) (string, error)
}

// ResolverFunc adapts an ordinary function to the Resolver interface.
type ResolverFunc func(ctx context.Context, q types.Question) (string, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, q types.Question) (string, error) {
	return f(ctx, q)
}

// Default model per provider, used when the configuration leaves it empty.
const (
	DefaultOpenAIModel = "gpt-4o"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultClaudeModel = "claude-sonnet-4-5"
)

// New returns the resolver selected by cfg.Provider. A remote provider
// without an API key yields a resolver that fails every call, so the server
// still starts and answers catalogue questions.
func New(ctx context.Context, cfg types.FallbackConfig) (Resolver, error) {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = types.DefaultSystemPrompt
	}

	switch cfg.Provider {
	case "", types.ProviderOpenAI:
		if cfg.APIKey == "" {
			return missingKey(types.ProviderOpenAI), nil
		}
		return NewOpenAI(cfg), nil
	case types.ProviderGemini:
		if cfg.APIKey == "" {
			return missingKey(types.ProviderGemini), nil
		}
		return NewGemini(ctx, cfg)
	case types.ProviderClaude:
		if cfg.APIKey == "" {
			return missingKey(types.ProviderClaude), nil
		}
		return NewClaude(cfg, http.DefaultClient), nil
	case types.ProviderStatic:
		return Static{Reply: cfg.StaticReply}, nil
	default:
		return nil, fmt.Errorf("unknown fallback provider %q", cfg.Provider)
	}
}

func missingKey(p types.FallbackProvider) Resolver {
	return ResolverFunc(func(context.Context, types.Question) (string, error) {
		return "", fmt.Errorf("no API key configured for %s", p)
	})
}

// Static always answers with a fixed reply.
type Static struct {
	Reply string
}

// Resolve implements Resolver.
func (s Static) Resolve(context.Context, types.Question) (string, error) {
	return s.Reply, nil
}

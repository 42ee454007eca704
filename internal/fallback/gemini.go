// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fallback

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Gemini resolves questions with the Gemini API.
type Gemini struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

// NewGemini creates the resolver.
func NewGemini(ctx context.Context, cfg types.FallbackConfig) (*Gemini, error) {
	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{client: client, model: model, systemPrompt: cfg.SystemPrompt}, nil
}

// Resolve implements Resolver.
func (g *Gemini) Resolve(ctx context.Context, q types.Question) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(g.systemPrompt)},
		},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(string(q)), config)
	if err != nil {
		return "", fmt.Errorf("calling Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("Gemini returned no candidates")
	}
	return resp.Text(), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fallback

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// OpenAI resolves questions with a chat completion.
type OpenAI struct {
	client       *openai.Client
	model        string
	systemPrompt string
}

// NewOpenAI creates the resolver. BaseURL, when set, points the client at an
// OpenAI-compatible endpoint.
func NewOpenAI(cfg types.FallbackConfig) *OpenAI {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAI{
		client:       openai.NewClientWithConfig(clientConfig),
		model:        model,
		systemPrompt: cfg.SystemPrompt,
	}
}

// Resolve implements Resolver.
func (o *OpenAI) Resolve(ctx context.Context, q types.Question) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: o.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(q)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("calling OpenAI: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("OpenAI returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

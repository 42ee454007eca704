// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fallback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const claudeMaxTokens = 4096

// Claude resolves questions with the Anthropic Messages API.
type Claude struct {
	APIKey       string
	Model        string
	SystemPrompt string
	Client       *http.Client

	// Endpoint overrides claudeAPIURL when set.
	Endpoint string
}

// NewClaude creates the resolver. A BaseURL in cfg replaces the API
// endpoint.
func NewClaude(cfg types.FallbackConfig, client *http.Client) *Claude {
	model := cfg.Model
	if model == "" {
		model = DefaultClaudeModel
	}
	return &Claude{
		APIKey:       cfg.APIKey,
		Model:        model,
		SystemPrompt: cfg.SystemPrompt,
		Client:       client,
		Endpoint:     cfg.BaseURL,
	}
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system,omitempty"`
	Messages  []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Resolve implements Resolver. Text blocks of the reply are concatenated.
func (c *Claude) Resolve(ctx context.Context, q types.Question) (string, error) {
	bodyBytes, err := json.Marshal(claudeRequest{
		Model:     c.Model,
		MaxTokens: claudeMaxTokens,
		System:    c.SystemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: string(q)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = claudeAPIURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var text strings.Builder
	for _, block := range cResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if len(cResp.Content) == 0 {
		return "", errors.New("Claude API returned no content")
	}
	return text.String(), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text files.
// Each file in the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: openai-api-key, gemini-api-key, anthropic-api-key, google-sheets-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Key file names.
const (
	KeyOpenAI       = "openai-api-key"
	KeyGemini       = "gemini-api-key"
	KeyAnthropic    = "anthropic-api-key"
	KeyGoogleSheets = "google-sheets-api-key"
)

// providerKeys maps each remote fallback provider to its key file.
var providerKeys = map[types.FallbackProvider]string{
	types.ProviderOpenAI: KeyOpenAI,
	types.ProviderGemini: KeyGemini,
	types.ProviderClaude: KeyAnthropic,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged as warnings but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			zap.L().Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Apply fills API keys that cfg leaves empty from loaded secrets. Keys
// already set by the config file, flags, or environment win.
func Apply(cfg *types.Config, secrets map[string]string) {
	provider := cfg.Fallback.Provider
	if provider == "" {
		provider = types.ProviderOpenAI
	}
	if cfg.Fallback.APIKey == "" {
		if key, ok := providerKeys[provider]; ok {
			cfg.Fallback.APIKey = secrets[key]
		}
	}
	if cfg.Sheets.APIKey == "" {
		cfg.Sheets.APIKey = secrets[KeyGoogleSheets]
	}
}

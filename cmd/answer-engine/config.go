// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/internal/convert"
	"github.com/pdiddy/answer-engine/internal/dispatch"
	"github.com/pdiddy/answer-engine/internal/fallback"
	"github.com/pdiddy/answer-engine/internal/sandbox"
	"github.com/pdiddy/answer-engine/internal/secrets"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// setDefaults registers every configuration key so that environment
// variables can override keys absent from the config file.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.mode", d.Server.Mode)

	v.SetDefault("fallback.provider", string(d.Fallback.Provider))
	v.SetDefault("fallback.model", d.Fallback.Model)
	v.SetDefault("fallback.api_key", "")
	v.SetDefault("fallback.base_url", "")
	v.SetDefault("fallback.system_prompt", d.Fallback.SystemPrompt)
	v.SetDefault("fallback.static_reply", "")

	v.SetDefault("shell.mode", string(d.Shell.Mode))
	v.SetDefault("shell.allowed_binaries", d.Shell.AllowedBinaries)
	v.SetDefault("shell.image", d.Shell.Image)
	v.SetDefault("shell.timeout", d.Shell.Timeout)

	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.range", d.Sheets.Range)
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.endpoint", "")

	v.SetDefault("scrape.timeout", d.Scrape.Timeout)
	v.SetDefault("scrape.user_agent", d.Scrape.UserAgent)
	v.SetDefault("scrape.max_retries", d.Scrape.MaxRetries)
	v.SetDefault("scrape.limit", d.Scrape.Limit)
	v.SetDefault("scrape.imdb_url", d.Scrape.IMDbURL)
	v.SetDefault("scrape.hacker_news_url", d.Scrape.HackerNewsURL)

	v.SetDefault("document.backend", string(d.Document.Backend))
	v.SetDefault("document.max_chars", d.Document.MaxChars)

	v.SetDefault("archive.scratch_dir", "")
	v.SetDefault("archive.answer_column", d.Archive.AnswerColumn)
}

// loadConfig decodes the effective configuration and fills API keys from
// the secrets directory. Every key has a default registered by setDefaults.
func loadConfig(v *viper.Viper, loaded map[string]string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	secrets.Apply(&cfg, loaded)
	return cfg, nil
}

// buildDispatcher wires the configured extractors, shell sandbox, document
// converter, and fallback resolver.
func buildDispatcher(ctx context.Context, cfg types.Config, logger *zap.Logger) (*dispatch.Dispatcher, error) {
	shell, err := sandbox.New(cfg.Shell)
	if err != nil {
		return nil, fmt.Errorf("configuring shell: %w", err)
	}

	converter, err := convert.New(cfg.Document)
	if err != nil {
		return nil, fmt.Errorf("configuring document conversion: %w", err)
	}

	resolver, err := fallback.New(ctx, cfg.Fallback)
	if err != nil {
		return nil, fmt.Errorf("configuring fallback: %w", err)
	}
	if cfg.Fallback.Provider != types.ProviderStatic && cfg.Fallback.APIKey == "" {
		logger.Warn("no fallback API key configured; unmatched questions will fail",
			zap.String("provider", string(cfg.Fallback.Provider)))
	}

	catalogue, err := dispatch.DefaultCatalogue(dispatch.Deps{
		Config:    cfg,
		Shell:     shell,
		Converter: converter,
	})
	if err != nil {
		return nil, fmt.Errorf("building catalogue: %w", err)
	}

	logger.Debug("dispatcher ready",
		zap.Int("bindings", catalogue.Len()),
		zap.String("shell_mode", string(cfg.Shell.Mode)),
		zap.String("document_backend", string(cfg.Document.Backend)),
		zap.String("fallback_provider", string(cfg.Fallback.Provider)),
	)
	return dispatch.New(catalogue, resolver, logger), nil
}

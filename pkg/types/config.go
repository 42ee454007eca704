// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by extractors that make
// outbound requests.
type HTTPConfig struct {
	// Timeout is the HTTP client timeout. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with outbound requests.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429 responses (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// MaxUploadBytes bounds the size of an uploaded file.
	MaxUploadBytes int64 `json:"max_upload_bytes" yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`

	// Mode is the gin mode: debug, release, or test.
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`
}

// FallbackProvider identifies the generative backend used for questions no
// binding matches.
type FallbackProvider string

const (
	ProviderOpenAI FallbackProvider = "openai"
	ProviderGemini FallbackProvider = "gemini"
	ProviderClaude FallbackProvider = "claude"
	ProviderStatic FallbackProvider = "static"
)

// FallbackConfig holds settings for the fallback resolver.
type FallbackConfig struct {
	// Provider selects the backend: openai, gemini, claude, or static.
	Provider FallbackProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Model is the model identifier passed to the provider. Empty selects
	// the provider's default (gpt-4o for openai).
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the provider.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// SystemPrompt is sent ahead of the question.
	SystemPrompt string `json:"system_prompt" yaml:"system_prompt" mapstructure:"system_prompt"`

	// StaticReply is returned verbatim by the static provider.
	StaticReply string `json:"static_reply,omitempty" yaml:"static_reply,omitempty" mapstructure:"static_reply"`
}

// ShellMode selects where shell commands run.
type ShellMode string

const (
	ShellDisabled  ShellMode = "disabled"
	ShellHost      ShellMode = "host"
	ShellContainer ShellMode = "container"
)

// ShellConfig holds settings for the shell capability boundary.
type ShellConfig struct {
	// Mode is disabled, host, or container.
	Mode ShellMode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// AllowedBinaries lists the leading command words that may run. An empty
	// list permits any command.
	AllowedBinaries []string `json:"allowed_binaries" yaml:"allowed_binaries" mapstructure:"allowed_binaries"`

	// Image is the container image used in container mode.
	Image string `json:"image" yaml:"image" mapstructure:"image"`

	// Timeout bounds a single command. Zero means no timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// SheetsConfig holds settings for the spreadsheet extractor.
type SheetsConfig struct {
	// SpreadsheetID identifies the spreadsheet to read.
	SpreadsheetID string `json:"spreadsheet_id" yaml:"spreadsheet_id" mapstructure:"spreadsheet_id"`

	// Range is the A1 range to read (e.g. "Sheet1!A1:B10").
	Range string `json:"range" yaml:"range" mapstructure:"range"`

	// APIKey authenticates against the Sheets API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Endpoint overrides the Sheets API base URL.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
}

// ScrapeConfig holds settings for the site scrapers.
type ScrapeConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Limit is the number of entries returned (default 10).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// IMDbURL is the page scraped for the IMDb top chart.
	IMDbURL string `json:"imdb_url" yaml:"imdb_url" mapstructure:"imdb_url"`

	// HackerNewsURL is the page scraped for Hacker News stories.
	HackerNewsURL string `json:"hacker_news_url" yaml:"hacker_news_url" mapstructure:"hacker_news_url"`
}

// ConversionBackend identifies the document-to-text tool.
type ConversionBackend string

const (
	BackendNative     ConversionBackend = "native"
	BackendMarkitdown ConversionBackend = "markitdown"
)

// DocumentConfig holds settings for document text extraction.
type DocumentConfig struct {
	// Backend selects the converter: native or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// MaxChars is the length of the returned text prefix, in characters.
	MaxChars int `json:"max_chars" yaml:"max_chars" mapstructure:"max_chars"`
}

// ArchiveConfig holds settings for archive extraction.
type ArchiveConfig struct {
	// ScratchDir is the root below which uploads are unpacked. Each request
	// gets its own subdirectory, removed when the request completes.
	ScratchDir string `json:"scratch_dir" yaml:"scratch_dir" mapstructure:"scratch_dir"`

	// AnswerColumn is the CSV column whose first value is returned.
	AnswerColumn string `json:"answer_column" yaml:"answer_column" mapstructure:"answer_column"`
}

// Config groups every stage configuration.
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server" mapstructure:"server"`
	Fallback FallbackConfig `json:"fallback" yaml:"fallback" mapstructure:"fallback"`
	Shell    ShellConfig    `json:"shell" yaml:"shell" mapstructure:"shell"`
	Sheets   SheetsConfig   `json:"sheets" yaml:"sheets" mapstructure:"sheets"`
	Scrape   ScrapeConfig   `json:"scrape" yaml:"scrape" mapstructure:"scrape"`
	Document DocumentConfig `json:"document" yaml:"document" mapstructure:"document"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
}

// DefaultSystemPrompt frames fallback questions for the generative backend.
const DefaultSystemPrompt = "You are an AI tutor answering data science assignment questions."

// DefaultConfig returns the configuration used when no file, flag, or
// environment variable overrides a value.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 32 << 20,
			Mode:           "release",
		},
		Fallback: FallbackConfig{
			Provider:     ProviderOpenAI,
			SystemPrompt: DefaultSystemPrompt,
		},
		Shell: ShellConfig{
			Mode:            ShellDisabled,
			AllowedBinaries: []string{"npx", "uv"},
			Image:           "node:22-alpine",
		},
		Sheets: SheetsConfig{
			Range: "Sheet1!A1:B10",
		},
		Scrape: ScrapeConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "Mozilla/5.0",
			},
			Limit:         10,
			IMDbURL:       "https://www.imdb.com/chart/top/",
			HackerNewsURL: "https://news.ycombinator.com/",
		},
		Document: DocumentConfig{
			Backend:  BackendNative,
			MaxChars: 500,
		},
		Archive: ArchiveConfig{
			AnswerColumn: "answer",
		},
	}
}

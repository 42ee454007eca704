// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package dispatch

import (
	"github.com/pdiddy/answer-engine/internal/classify"
	"github.com/pdiddy/answer-engine/internal/convert"
	"github.com/pdiddy/answer-engine/internal/extract"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// Deps carries the configured collaborators of the default extractors.
type Deps struct {
	Config types.Config

	// Shell runs command-line questions. Nil disables them.
	Shell extract.CommandRunner

	// Converter turns uploaded PDFs into text. Nil selects the native
	// converter.
	Converter convert.Converter
}

// DefaultCatalogue builds the production binding table. Row order is the
// classification order: earlier rows win when several predicates hold.
func DefaultCatalogue(deps Deps) (*classify.Catalogue, error) {
	cfg := deps.Config
	converter := deps.Converter
	if converter == nil {
		converter = convert.NativeConverter{}
	}

	return classify.NewCatalogue(
		classify.Binding{Name: "zip-csv", Predicate: classify.AllOf("unzip", "CSV"), Extractor: extract.NewArchiveCSV(cfg.Archive)},
		classify.Binding{Name: "json-sort", Predicate: classify.Contains("Sort this JSON array"), Extractor: extract.NewJSONSorter()},
		classify.Binding{Name: "weekday-count", Predicate: classify.Contains("How many Wednesdays"), Extractor: extract.NewWednesdayCounter()},
		classify.Binding{Name: "hidden-input", Predicate: classify.Contains("hidden input"), Extractor: extract.HiddenValue{}},
		classify.Binding{Name: "sql-query", Predicate: classify.AnyOf("SQL", "SQLite"), Extractor: extract.SQLQuery{}},
		classify.Binding{Name: "shell-command", Predicate: classify.AnyOf("npx", "uv run"), Extractor: extract.ShellCommand{Runner: deps.Shell}},
		classify.Binding{Name: "pdf-text", Predicate: classify.Contains("PDF"), Extractor: extract.DocumentText{Converter: converter, MaxChars: cfg.Document.MaxChars}},
		classify.Binding{Name: "google-sheets", Predicate: classify.Contains("Google Sheets"), Extractor: extract.NewSheetValues(cfg.Sheets)},
		classify.Binding{Name: "imdb-top", Predicate: classify.Contains("IMDb"), Extractor: extract.NewIMDbTop(cfg.Scrape)},
		classify.Binding{Name: "hacker-news", Predicate: classify.Contains("Hacker News"), Extractor: extract.NewHackerNews(cfg.Scrape)},
		classify.Binding{Name: "log-file", Predicate: classify.Contains("log file"), Extractor: extract.LogLines{}},
		classify.Binding{Name: "github-actions", Predicate: classify.Contains("GitHub Actions"), Extractor: extract.NewGitHubActionsStub()},
		classify.Binding{Name: "excel-file", Predicate: classify.Contains("Excel"), Extractor: extract.ExcelFile{}},
		classify.Binding{Name: "json-file", Predicate: classify.Contains("JSON"), Extractor: extract.JSONFile{}},
	)
}

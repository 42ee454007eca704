// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/sheets/v4"

	"github.com/pdiddy/answer-engine/internal/sandbox"
	"github.com/pdiddy/answer-engine/pkg/types"
)

type fakeRunner struct {
	out     sandbox.Output
	err     error
	command string
}

func (f *fakeRunner) Run(_ context.Context, command string) (sandbox.Output, error) {
	f.command = command
	return f.out, f.err
}

func TestShellCommand(t *testing.T) {
	tests := []struct {
		name     string
		runner   *fakeRunner
		want     string
		wantKind types.ErrorKind
	}{
		{
			name:   "trimmed output",
			runner: &fakeRunner{out: sandbox.Output{Combined: "  v1.2.3\n"}},
			want:   "v1.2.3",
		},
		{
			name:     "non-zero exit",
			runner:   &fakeRunner{out: sandbox.Output{Combined: "boom", ExitCode: 2}},
			want:     "Command 'npx -y prettier --check .' returned non-zero exit status 2.",
			wantKind: types.KindExecutionError,
		},
		{
			name:     "refused",
			runner:   &fakeRunner{err: sandbox.ErrDisabled},
			want:     "shell execution is disabled",
			wantKind: types.KindExecutionError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := types.Question("npx -y prettier --check .")
			res := ShellCommand{Runner: tt.runner}.Extract(context.Background(), q, nil)
			assert.Equal(t, tt.wantKind, res.Kind)
			assert.Equal(t, tt.want, res.Answer)
			assert.Equal(t, string(q), tt.runner.command)
		})
	}
}

func TestShellCommandWithoutRunner(t *testing.T) {
	res := ShellCommand{}.Extract(context.Background(), "uv run script.py", nil)
	assert.Equal(t, types.KindExecutionError, res.Kind)
	assert.ErrorIs(t, res.Err, sandbox.ErrDisabled)
}

type fakeConverter struct {
	text string
	err  error
}

func (f fakeConverter) Convert(context.Context, []byte) (string, error) {
	return f.text, f.err
}

func TestDocumentText(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	long := strings.Repeat("é", 600)

	tests := []struct {
		name      string
		file      *types.UploadedFile
		converter fakeConverter
		want      string
		wantFail  bool
	}{
		{
			name:      "short text",
			file:      &types.UploadedFile{Name: "doc.pdf", Content: pdfBytes},
			converter: fakeConverter{text: "page one\npage two"},
			want:      "page one\npage two",
		},
		{
			name:      "truncated by characters",
			file:      &types.UploadedFile{Name: "doc.pdf", Content: pdfBytes},
			converter: fakeConverter{text: long},
			want:      strings.Repeat("é", 500),
		},
		{
			name:      "conversion failure",
			file:      &types.UploadedFile{Name: "doc.pdf", Content: pdfBytes},
			converter: fakeConverter{err: errors.New("malformed xref")},
			want:      "Invalid PDF file: malformed xref",
			wantFail:  true,
		},
		{
			name:     "wrong suffix",
			file:     &types.UploadedFile{Name: "doc.txt", Content: pdfBytes},
			want:     MsgInvalidPDF,
			wantFail: true,
		},
		{
			name:     "pdf name with other content",
			file:     &types.UploadedFile{Name: "doc.pdf", Content: []byte("just text")},
			want:     MsgInvalidPDF,
			wantFail: true,
		},
		{
			name:     "no file",
			want:     MsgInvalidPDF,
			wantFail: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DocumentText{Converter: tt.converter}
			res := d.Extract(context.Background(), "PDF", tt.file)
			if tt.wantFail {
				assert.Equal(t, types.KindInvalidInput, res.Kind)
			} else {
				require.False(t, res.Failed(), res.String())
			}
			assert.Equal(t, tt.want, res.Answer)
		})
	}
}

func TestSheetValues(t *testing.T) {
	var gotID, gotRange string
	s := NewSheetValues(types.SheetsConfig{SpreadsheetID: "configured"})
	s.fetch = func(_ context.Context, cfg types.SheetsConfig, id string) (*sheets.ValueRange, error) {
		gotID, gotRange = id, cfg.Range
		return &sheets.ValueRange{
			Range:          "Sheet1!A1:B2",
			MajorDimension: "ROWS",
			Values:         [][]interface{}{{"name", "score"}, {"Alice", "90"}},
		}, nil
	}

	res := s.Extract(context.Background(), "Read the Google Sheets data", nil)
	require.False(t, res.Failed(), res.String())
	assert.JSONEq(t, `{"majorDimension":"ROWS","range":"Sheet1!A1:B2","values":[["name","score"],["Alice","90"]]}`, res.Answer)
	assert.Equal(t, "configured", gotID)
	assert.Equal(t, "Sheet1!A1:B10", gotRange)

	res = s.Extract(context.Background(), "Google Sheets https://docs.google.com/spreadsheets/d/1AbC_d-9/edit", nil)
	require.False(t, res.Failed())
	assert.Equal(t, "1AbC_d-9", gotID)
}

func TestSheetValuesFailures(t *testing.T) {
	res := NewSheetValues(types.SheetsConfig{}).Extract(context.Background(), "Google Sheets", nil)
	assert.Equal(t, types.KindExternalService, res.Kind)
	assert.Equal(t, MsgSheetsFailed, res.Answer)

	s := NewSheetValues(types.SheetsConfig{SpreadsheetID: "x"})
	s.fetch = func(context.Context, types.SheetsConfig, string) (*sheets.ValueRange, error) {
		return nil, errors.New("googleapi: Error 403: forbidden")
	}
	res = s.Extract(context.Background(), "Google Sheets", nil)
	assert.Equal(t, types.KindExternalService, res.Kind)
	assert.Equal(t, MsgSheetsFailed, res.Answer)
}

func scrapeConfig(url string) types.ScrapeConfig {
	cfg := types.DefaultConfig().Scrape
	cfg.IMDbURL = url
	cfg.HackerNewsURL = url
	return cfg
}

func TestIMDbTop(t *testing.T) {
	var ua string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		var b strings.Builder
		b.WriteString("<table>")
		for i := 1; i <= 12; i++ {
			fmt.Fprintf(&b, `<tr><td class="titleColumn">%d. <a href="/t/%d">  Movie %d </a></td></tr>`, i, i, i)
		}
		b.WriteString("</table>")
		_, _ = w.Write([]byte(b.String()))
	}))
	defer ts.Close()

	res := NewIMDbTop(scrapeConfig(ts.URL)).Extract(context.Background(), "IMDb", nil)
	require.False(t, res.Failed(), res.String())
	assert.Equal(t, `["Movie 1", "Movie 2", "Movie 3", "Movie 4", "Movie 5", "Movie 6", "Movie 7", "Movie 8", "Movie 9", "Movie 10"]`, res.Answer)
	assert.Equal(t, "Mozilla/5.0", ua)
}

func TestHackerNews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<a class="storylink" href="a">Show HN: A thing</a><a class="storylink" href="b">Ask HN: Why?</a>`))
	}))
	defer ts.Close()

	res := NewHackerNews(scrapeConfig(ts.URL)).Extract(context.Background(), "Hacker News", nil)
	require.False(t, res.Failed(), res.String())
	assert.Equal(t, `["Show HN: A thing", "Ask HN: Why?"]`, res.Answer)
}

func TestScraperNoMatches(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>redesigned page</body></html>`))
	}))
	defer ts.Close()

	res := NewIMDbTop(scrapeConfig(ts.URL)).Extract(context.Background(), "IMDb", nil)
	require.False(t, res.Failed())
	assert.Equal(t, "[]", res.Answer)
}

func TestScraperHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	res := NewHackerNews(scrapeConfig(ts.URL)).Extract(context.Background(), "Hacker News", nil)
	assert.Equal(t, types.KindExternalService, res.Kind)
	assert.Equal(t, "Failed to fetch Hacker News data.", res.Answer)

	res = NewIMDbTop(scrapeConfig("http://127.0.0.1:1/")).Extract(context.Background(), "IMDb", nil)
	assert.Equal(t, types.KindExternalService, res.Kind)
	assert.Equal(t, "Failed to fetch IMDb data.", res.Answer)
}

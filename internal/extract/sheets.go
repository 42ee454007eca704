// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgSheetsFailed is returned for any failure to read the spreadsheet.
const MsgSheetsFailed = "Failed to fetch Google Sheets data."

// spreadsheetURL captures the document id from a spreadsheet link.
var spreadsheetURL = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// valuesFetcher reads one value range from a spreadsheet.
type valuesFetcher func(ctx context.Context, cfg types.SheetsConfig, spreadsheetID string) (*sheets.ValueRange, error)

// SheetValues reads a value range through the Google Sheets API and returns
// the API response as JSON. The spreadsheet comes from a link in the
// question when present, otherwise from configuration.
type SheetValues struct {
	cfg   types.SheetsConfig
	fetch valuesFetcher
}

// NewSheetValues creates the extractor.
func NewSheetValues(cfg types.SheetsConfig) *SheetValues {
	if cfg.Range == "" {
		cfg.Range = "Sheet1!A1:B10"
	}
	return &SheetValues{cfg: cfg, fetch: fetchValues}
}

// Extract implements Extractor.
func (s *SheetValues) Extract(ctx context.Context, q types.Question, _ *types.UploadedFile) types.Result {
	id := s.cfg.SpreadsheetID
	if m := spreadsheetURL.FindStringSubmatch(string(q)); m != nil {
		id = m[1]
	}
	if id == "" {
		return types.Failure(types.KindExternalService, MsgSheetsFailed, errors.New("no spreadsheet id configured"))
	}

	vr, err := s.fetch(ctx, s.cfg, id)
	if err != nil {
		return types.Failure(types.KindExternalService, MsgSheetsFailed, err)
	}
	out, err := json.Marshal(vr)
	if err != nil {
		return types.Failure(types.KindExternalService, MsgSheetsFailed, fmt.Errorf("encoding values: %w", err))
	}
	return types.OK(string(out))
}

func fetchValues(ctx context.Context, cfg types.SheetsConfig, spreadsheetID string) (*sheets.ValueRange, error) {
	opts := []option.ClientOption{}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	vr, err := svc.Spreadsheets.Values.Get(spreadsheetID, cfg.Range).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading %s of %s: %w", cfg.Range, spreadsheetID, err)
	}
	return vr, nil
}

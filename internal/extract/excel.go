// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// ExcelFile reads the first worksheet of an uploaded workbook and returns it
// as column-oriented JSON: {"column": {"0": value, "1": value}, ...}.
// Numeric cells become JSON numbers and empty cells become null.
type ExcelFile struct{}

// Extract implements Extractor.
func (ExcelFile) Extract(_ context.Context, _ types.Question, file *types.UploadedFile) types.Result {
	out, err := workbookJSON(file)
	if err != nil {
		return types.Failure(types.KindInvalidInput, "Invalid Excel file: "+err.Error(), err)
	}
	return types.OK(out)
}

func workbookJSON(file *types.UploadedFile) (string, error) {
	if file == nil {
		return "", errNoFile
	}
	f, err := excelize.OpenReader(bytes.NewReader(file.Content))
	if err != nil {
		return "", fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("reading sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return "", errors.New("sheet is empty")
	}

	// Trailing empty cells are dropped per row, so the header may be
	// shorter than the widest data row.
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	header := make([]string, width)
	copy(header, rows[0])
	return columnsJSON(headerNames(header), rows[1:]), nil
}

// headerNames trims header cells, names blank ones "Unnamed: i" and
// disambiguates duplicates with a ".n" suffix.
func headerNames(header []string) []string {
	seen := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

// columnsJSON writes the table column by column, keeping header order.
func columnsJSON(headers []string, rows [][]string) string {
	var b strings.Builder
	b.WriteByte('{')
	for c, name := range headers {
		if c > 0 {
			b.WriteByte(',')
		}
		writeJSONString(&b, name)
		b.WriteString(":{")
		for r, row := range rows {
			if r > 0 {
				b.WriteByte(',')
			}
			writeJSONString(&b, strconv.Itoa(r))
			b.WriteByte(':')
			cell := ""
			if c < len(row) {
				cell = strings.TrimSpace(row[c])
			}
			b.WriteString(cellJSON(cell))
		}
		b.WriteByte('}')
	}
	b.WriteByte('}')
	return b.String()
}

func cellJSON(cell string) string {
	if cell == "" {
		return "null"
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return strconv.FormatInt(n, 10)
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil && !isNonFinite(cell) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return jsonString(cell)
}

func isNonFinite(s string) bool {
	l := strings.ToLower(strings.TrimLeft(s, "+-"))
	return strings.HasPrefix(l, "inf") || l == "nan"
}

func writeJSONString(b *strings.Builder, s string) {
	b.WriteString(jsonString(s))
}

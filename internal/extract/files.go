// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// errNoFile is the cause reported when an extractor needs an upload that the
// request did not carry.
var errNoFile = errors.New("no file uploaded")

// LogLines returns the first lines of an uploaded log file as a JSON array.
type LogLines struct {
	// Limit is the number of lines returned (default 10).
	Limit int
}

// Extract implements Extractor.
func (l LogLines) Extract(_ context.Context, _ types.Question, file *types.UploadedFile) types.Result {
	lines, err := l.head(file)
	if err != nil {
		return types.Failure(types.KindInvalidInput, "Invalid log file: "+err.Error(), err)
	}
	return types.OK(pyJSONList(lines))
}

func (l LogLines) head(file *types.UploadedFile) ([]string, error) {
	if file == nil {
		return nil, errNoFile
	}
	if !utf8.Valid(file.Content) {
		return nil, errors.New("content is not valid UTF-8")
	}
	limit := l.Limit
	if limit <= 0 {
		limit = 10
	}
	lines := strings.Split(string(file.Content), "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	return lines, nil
}

// pyJSONList renders strings as a JSON array with ", " between elements,
// the layout of Python's json.dumps defaults.
func pyJSONList(items []string) string {
	parts := make([]string, len(items))
	for i, s := range items {
		parts[i] = jsonString(s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// jsonString encodes s as a JSON string literal the way Python's json.dumps
// does by default: HTML characters stay literal and everything outside
// printable ASCII is written as \uXXXX, astral runes as surrogate pairs.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return asciiEscape(strings.TrimSuffix(buf.String(), "\n"))
}

func asciiEscape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x7f {
			b.WriteRune(r)
			continue
		}
		if r > 0xffff {
			hi, low := utf16.EncodeRune(r)
			fmt.Fprintf(&b, "\\u%04x\\u%04x", hi, low)
			continue
		}
		fmt.Fprintf(&b, "\\u%04x", r)
	}
	return b.String()
}

// JSONFile validates an uploaded JSON document and returns it re-indented
// with two spaces, keeping its key order.
type JSONFile struct{}

// Extract implements Extractor.
func (JSONFile) Extract(_ context.Context, _ types.Question, file *types.UploadedFile) types.Result {
	out, err := indentJSON(file)
	if err != nil {
		return types.Failure(types.KindInvalidInput, "Invalid JSON file: "+err.Error(), err)
	}
	return types.OK(out)
}

func indentJSON(file *types.UploadedFile) (string, error) {
	if file == nil {
		return "", errNoFile
	}
	content := bytes.TrimSpace(file.Content)
	if len(content) == 0 {
		return "", errors.New("file is empty")
	}
	if !json.Valid(content) {
		// Decode again only to obtain a descriptive syntax error.
		var v any
		if err := json.Unmarshal(content, &v); err != nil {
			return "", err
		}
		return "", errors.New("malformed JSON")
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, content, "", "  "); err != nil {
		return "", fmt.Errorf("indenting: %w", err)
	}
	return buf.String(), nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/answer-engine/internal/convert"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgInvalidPDF is returned when the upload is missing or is not a PDF.
const MsgInvalidPDF = "Invalid PDF file."

const mimePDF = "application/pdf"

// DocumentText converts an uploaded PDF to text and returns its opening
// characters.
type DocumentText struct {
	Converter convert.Converter

	// MaxChars is the number of characters returned (default 500).
	MaxChars int
}

// Extract implements Extractor.
func (d DocumentText) Extract(ctx context.Context, _ types.Question, file *types.UploadedFile) types.Result {
	if !file.HasSuffix(".pdf") {
		return types.Failure(types.KindInvalidInput, MsgInvalidPDF, errors.New("no .pdf upload"))
	}
	if mt := file.MIME(); mt != mimePDF {
		return types.Failure(types.KindInvalidInput, MsgInvalidPDF, fmt.Errorf("content is %s, not %s", mt, mimePDF))
	}
	if d.Converter == nil {
		return types.Failure(types.KindInvalidInput, MsgInvalidPDF, errors.New("no document converter configured"))
	}

	text, err := d.Converter.Convert(ctx, file.Content)
	if err != nil {
		return types.Failure(types.KindInvalidInput, "Invalid PDF file: "+err.Error(), err)
	}
	return types.OK(prefix(text, d.limit()))
}

func (d DocumentText) limit() int {
	if d.MaxChars <= 0 {
		return 500
	}
	return d.MaxChars
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

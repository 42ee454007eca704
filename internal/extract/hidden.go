// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"regexp"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// HiddenValueNotFound is the sentinel answer returned when the markup has no
// quoted value attribute. It is a negative answer, not a failure.
const HiddenValueNotFound = "No hidden value found."

var valueAttr = regexp.MustCompile(`value="([a-zA-Z0-9]+)"`)

// HiddenValue extracts the first alphanumeric value="..." attribute from
// markup embedded in the question.
type HiddenValue struct{}

// Extract implements Extractor. It never fails.
func (HiddenValue) Extract(_ context.Context, q types.Question, _ *types.UploadedFile) types.Result {
	return types.OK(FindHiddenValue(string(q)))
}

// FindHiddenValue returns the captured attribute value, or
// HiddenValueNotFound.
func FindHiddenValue(text string) string {
	m := valueAttr.FindStringSubmatch(text)
	if m == nil {
		return HiddenValueNotFound
	}
	return m[1]
}

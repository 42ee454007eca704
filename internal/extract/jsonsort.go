// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgInvalidJSON is returned when no sortable array literal is found.
const MsgInvalidJSON = "Invalid JSON format."

// arrayLiteral spans from the first '[' to the last ']', across newlines.
var arrayLiteral = regexp.MustCompile(`(?s)\[.*\]`)

// DefaultSortKeys is the composite key used by the JSON sorting extractor:
// age first, name on ties.
var DefaultSortKeys = []string{"age", "name"}

// JSONSorter sorts an array of objects embedded in the question text.
type JSONSorter struct {
	// Keys is the composite sort key, most significant first.
	Keys []string
}

// NewJSONSorter returns a sorter using DefaultSortKeys.
func NewJSONSorter() *JSONSorter {
	return &JSONSorter{Keys: slices.Clone(DefaultSortKeys)}
}

// Extract implements Extractor.
func (s *JSONSorter) Extract(_ context.Context, q types.Question, _ *types.UploadedFile) types.Result {
	out, err := s.Sort(string(q))
	if err != nil {
		return types.Failure(types.KindParseError, MsgInvalidJSON, err)
	}
	return types.OK(out)
}

// sortElem keeps an element's raw bytes so that re-serialisation preserves
// the caller's key order.
type sortElem struct {
	raw  json.RawMessage
	keys []any
}

// Sort extracts the array literal from text, stable-sorts its elements by
// the composite key, and returns the compact serialisation. Sorting already
// sorted input reproduces the same bytes.
func (s *JSONSorter) Sort(text string) (string, error) {
	literal := arrayLiteral.FindString(text)
	if literal == "" {
		return "", errors.New("no array literal in question")
	}

	dec := json.NewDecoder(strings.NewReader(literal))
	dec.UseNumber()
	var raws []json.RawMessage
	if err := dec.Decode(&raws); err != nil {
		return "", fmt.Errorf("decoding array: %w", err)
	}

	elems := make([]sortElem, len(raws))
	for i, raw := range raws {
		keys, err := s.keyValues(raw)
		if err != nil {
			return "", fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = sortElem{raw: raw, keys: keys}
	}

	var cmpErr error
	sort.SliceStable(elems, func(i, j int) bool {
		c, err := compareKeys(elems[i].keys, elems[j].keys)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c < 0
	})
	if cmpErr != nil {
		return "", cmpErr
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, e := range elems {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := json.Compact(&buf, e.raw); err != nil {
			return "", fmt.Errorf("compacting element %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

func (s *JSONSorter) keyValues(raw json.RawMessage) ([]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("not an object: %w", err)
	}
	vals := make([]any, len(s.Keys))
	for i, k := range s.Keys {
		v, ok := obj[k]
		if !ok {
			return nil, fmt.Errorf("missing key %q", k)
		}
		switch v.(type) {
		case json.Number, string:
		default:
			return nil, fmt.Errorf("key %q has unsortable type %T", k, v)
		}
		vals[i] = v
	}
	return vals, nil
}

// compareKeys orders two composite keys. Numbers compare numerically and
// strings lexically; comparing a number with a string is an error.
func compareKeys(a, b []any) (int, error) {
	for i := range a {
		switch av := a[i].(type) {
		case json.Number:
			bv, ok := b[i].(json.Number)
			if !ok {
				return 0, fmt.Errorf("cannot compare number with %T", b[i])
			}
			af, err := av.Float64()
			if err != nil {
				return 0, err
			}
			bf, err := bv.Float64()
			if err != nil {
				return 0, err
			}
			if af != bf {
				if af < bf {
					return -1, nil
				}
				return 1, nil
			}
		case string:
			bv, ok := b[i].(string)
			if !ok {
				return 0, fmt.Errorf("cannot compare string with %T", b[i])
			}
			if c := strings.Compare(av, bv); c != 0 {
				return c, nil
			}
		}
	}
	return 0, nil
}

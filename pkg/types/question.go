// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the values shared by the answer-engine pipeline:
// the question and optional upload a caller submits, the tagged Result every
// extractor returns, and the configuration for each stage.
package types

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Question is the free-text question submitted by a caller. The pipeline
// never normalises it; predicates see exactly what the caller sent.
type Question string

// IsEmpty reports whether no question was supplied.
func (q Question) IsEmpty() bool {
	return q == ""
}

// UploadedFile is the optional binary attachment of a request. It lives for
// one request only and is never retained.
type UploadedFile struct {
	// Name is the client-supplied filename, including its extension.
	Name string

	// Content holds the raw uploaded bytes.
	Content []byte
}

// HasSuffix reports whether the filename ends with suffix. The comparison is
// case-sensitive, so "REPORT.PDF" does not end with ".pdf".
func (f *UploadedFile) HasSuffix(suffix string) bool {
	return f != nil && strings.HasSuffix(f.Name, suffix)
}

// Size returns the number of uploaded bytes.
func (f *UploadedFile) Size() int64 {
	if f == nil {
		return 0
	}
	return int64(len(f.Content))
}

// MIME sniffs the media type from the content's magic bytes, without any
// parameters (e.g. "application/pdf", "application/zip").
func (f *UploadedFile) MIME() string {
	if f == nil || len(f.Content) == 0 {
		return ""
	}
	mt := mimetype.Detect(f.Content).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

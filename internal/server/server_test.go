// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// fakeAnswerer records the last request and returns a canned result.
type fakeAnswerer struct {
	result   types.Result
	question types.Question
	file     *types.UploadedFile
	calls    int
}

func (f *fakeAnswerer) Answer(_ context.Context, q types.Question, file *types.UploadedFile) types.Result {
	f.calls++
	f.question, f.file = q, file
	if q == "" {
		return types.Failure(types.KindCallerError, "No question provided", nil)
	}
	return f.result
}

func newTestServer(a Answerer, cfg types.ServerConfig) *Server {
	cfg.Mode = "test"
	return NewServer(a, cfg, zap.NewNop())
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeAnswer(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp answerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Answer
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(&fakeAnswerer{}, types.ServerConfig{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestAnswerMultipart(t *testing.T) {
	a := &fakeAnswerer{result: types.OK("42")}
	srv := newTestServer(a, types.ServerConfig{})

	body, ct := multipartBody(t, map[string]string{"question": "unzip the CSV"}, "q.zip", []byte("PK\x03\x04"))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/", body)
	req.Header.Set("Content-Type", ct)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", decodeAnswer(t, w))
	assert.Equal(t, types.Question("unzip the CSV"), a.question)
	require.NotNil(t, a.file)
	assert.Equal(t, "q.zip", a.file.Name)
	assert.Equal(t, []byte("PK\x03\x04"), a.file.Content)
}

func TestAnswerURLEncoded(t *testing.T) {
	for _, path := range []string{"/api/", "/api"} {
		t.Run(path, func(t *testing.T) {
			a := &fakeAnswerer{result: types.OK("Paris")}
			srv := newTestServer(a, types.ServerConfig{})

			form := url.Values{"question": {"What is the capital of France?"}}
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			srv.Handler().ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "Paris", decodeAnswer(t, w))
			assert.Nil(t, a.file)
		})
	}
}

func TestAnswerMissingQuestion(t *testing.T) {
	tests := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{
			name: "empty form",
			req: func(*testing.T) *http.Request {
				r, _ := http.NewRequest(http.MethodPost, "/api/", strings.NewReader(""))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
		},
		{
			name: "file without question",
			req: func(t *testing.T) *http.Request {
				body, ct := multipartBody(t, nil, "doc.pdf", []byte("%PDF-1.4"))
				r, _ := http.NewRequest(http.MethodPost, "/api/", body)
				r.Header.Set("Content-Type", ct)
				return r
			},
		},
		{
			name: "question only in query string",
			req: func(*testing.T) *http.Request {
				r, _ := http.NewRequest(http.MethodPost, "/api/?question=hi", strings.NewReader(""))
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return r
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeAnswerer{}, types.ServerConfig{})
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, tt.req(t))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "No question provided", decodeAnswer(t, w))
		})
	}
}

func TestAnswerFailureIsStill200(t *testing.T) {
	a := &fakeAnswerer{result: types.Failure(types.KindParseError, "Invalid date format.", nil)}
	srv := newTestServer(a, types.ServerConfig{})

	form := url.Values{"question": {"How many Wednesdays?"}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"Invalid date format."}`, w.Body.String())
}

func TestAnswerUploadTooLarge(t *testing.T) {
	a := &fakeAnswerer{result: types.OK("unused")}
	srv := newTestServer(a, types.ServerConfig{MaxUploadBytes: 16})

	body, ct := multipartBody(t, map[string]string{"question": "Excel"}, "big.xlsx", bytes.Repeat([]byte("x"), 64))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/", body)
	req.Header.Set("Content-Type", ct)
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Upload exceeds the 16 byte limit", decodeAnswer(t, w))
	assert.Zero(t, a.calls)
}

func TestRequestIDPropagation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	srv := NewServer(&fakeAnswerer{result: types.OK("ok")}, types.ServerConfig{Mode: "test"}, zap.New(core))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "abc-123")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(headerRequestID))
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "abc-123", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}

func TestHandlerPanicReturns500(t *testing.T) {
	srv := newTestServer(panicAnswerer{}, types.ServerConfig{})

	form := url.Values{"question": {"anything"}}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeAnswer(t, w))
}

type panicAnswerer struct{}

func (panicAnswerer) Answer(context.Context, types.Question, *types.UploadedFile) types.Result {
	panic("unexpected")
}

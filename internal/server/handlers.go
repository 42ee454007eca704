// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// formOverhead is the allowance for form fields and multipart framing on
// top of the upload limit.
const formOverhead = 1 << 20

// answerResponse is the only shape the API ever returns.
type answerResponse struct {
	Answer string `json:"answer"`
}

// AppError is a request failure with the status and answer text to return.
type AppError struct {
	Status  int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func handleError(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = &AppError{Status: http.StatusInternalServerError, Message: "Internal server error", Err: err}
	}
	_ = c.Error(err)
	c.JSON(appErr.Status, answerResponse{Answer: appErr.Message})
}

// handleAnswer reads the question and optional file from form fields and
// returns the dispatcher's answer. Only a missing question is a client
// error; every other outcome is a 200 whose answer text may describe a
// failure.
func (s *Server) handleAnswer(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes+formOverhead)

	if err := s.parseForm(c.Request); err != nil {
		handleError(c, err)
		return
	}

	file, err := s.readUpload(c.Request)
	if err != nil {
		handleError(c, err)
		return
	}

	q := types.Question(c.Request.PostFormValue("question"))
	res := s.answerer.Answer(c.Request.Context(), q, file)

	status := http.StatusOK
	if res.Kind == types.KindCallerError {
		status = http.StatusBadRequest
	}
	if res.Err != nil {
		_ = c.Error(res.Err)
	}
	c.Set(resultKindKey, string(res.Kind))
	c.JSON(status, answerResponse{Answer: res.Answer})
}

func (s *Server) parseForm(r *http.Request) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(s.cfg.MaxUploadBytes)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AppError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Upload exceeds the %d byte limit", s.cfg.MaxUploadBytes),
			Err:     err,
		}
	}
	return &AppError{Status: http.StatusBadRequest, Message: "Malformed form data", Err: err}
}

// readUpload returns the "file" part, or nil when the request has none.
func (s *Server) readUpload(r *http.Request) (*types.UploadedFile, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		return nil, nil
	}
	header := r.MultipartForm.File["file"][0]
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, &AppError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Upload exceeds the %d byte limit", s.cfg.MaxUploadBytes),
		}
	}

	content, err := readPart(header)
	if err != nil {
		return nil, &AppError{Status: http.StatusBadRequest, Message: "Could not read uploaded file", Err: err}
	}
	return &types.UploadedFile{Name: header.Filename, Content: content}, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// MsgInvalidArchive is returned for any archive that does not yield an
// answer value.
const MsgInvalidArchive = "Invalid file or missing 'answer' column."

// ArchiveCSV unpacks an uploaded zip archive into a per-request scratch
// directory and returns the first value of the answer column of the first
// CSV file found at the archive root.
type ArchiveCSV struct {
	cfg types.ArchiveConfig
}

// NewArchiveCSV creates the extractor. An empty scratch directory means the
// system temp directory; an empty column means "answer".
func NewArchiveCSV(cfg types.ArchiveConfig) *ArchiveCSV {
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}
	if cfg.AnswerColumn == "" {
		cfg.AnswerColumn = "answer"
	}
	return &ArchiveCSV{cfg: cfg}
}

// Extract implements Extractor.
func (a *ArchiveCSV) Extract(_ context.Context, _ types.Question, file *types.UploadedFile) types.Result {
	if !file.HasSuffix(".zip") {
		return types.Failure(types.KindInvalidInput, MsgInvalidArchive, errors.New("no .zip upload"))
	}

	value, err := a.answerFromArchive(file.Content)
	if err != nil {
		return types.Failure(types.KindInvalidInput, MsgInvalidArchive, err)
	}
	return types.OK(value)
}

func (a *ArchiveCSV) answerFromArchive(content []byte) (string, error) {
	dir := filepath.Join(a.cfg.ScratchDir, "answer-engine-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	if err := unzip(content, dir); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing extracted files: %w", err)
	}
	csvFiles := lo.FilterMap(entries, func(e os.DirEntry, _ int) (string, bool) {
		return e.Name(), !e.IsDir() && strings.HasSuffix(e.Name(), ".csv")
	})
	if len(csvFiles) == 0 {
		return "", errors.New("archive contains no CSV file")
	}
	sort.Strings(csvFiles)

	f, err := os.Open(filepath.Join(dir, csvFiles[0]))
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", csvFiles[0], err)
	}
	defer f.Close()

	return firstColumnValue(f, a.cfg.AnswerColumn)
}

// unzip writes every regular file in the archive below dir. Entries that
// would escape dir are rejected.
func unzip(content []byte, dir string) error {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return fmt.Errorf("reading zip archive: %w", err)
	}

	root := filepath.Clean(dir) + string(os.PathSeparator)
	for _, zf := range zr.File {
		target := filepath.Join(dir, zf.Name)
		if !strings.HasPrefix(target, root) {
			return fmt.Errorf("archive entry %q escapes extraction directory", zf.Name)
		}
		if zf.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", zf.Name, err)
			}
			continue
		}
		if err := writeZipEntry(zf, target); err != nil {
			return err
		}
	}
	return nil
}

func writeZipEntry(zf *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", zf.Name, err)
	}
	rc, err := zf.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %w", zf.Name, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("creating %s: %w", zf.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("writing %s: %w", zf.Name, err)
	}
	return out.Close()
}

// firstColumnValue returns the value of column in the first data row.
func firstColumnValue(r io.Reader, column string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return "", errors.New("CSV file is empty")
		}
		return "", fmt.Errorf("reading CSV header: %w", err)
	}

	idx := lo.IndexOf(lo.Map(headers, func(h string, _ int) string {
		return strings.TrimSpace(h)
	}), column)
	if idx < 0 {
		return "", fmt.Errorf("CSV has no %q column", column)
	}

	record, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return "", errors.New("CSV has no data rows")
		}
		return "", fmt.Errorf("reading first CSV row: %w", err)
	}
	if idx >= len(record) {
		return "", fmt.Errorf("first CSV row has no %q value", column)
	}
	return strings.TrimSpace(record[idx]), nil
}

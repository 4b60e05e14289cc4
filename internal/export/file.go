package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/martkit/martkit/internal/biomart"
)

// FileSink writes results as delimited text. The delimiter follows the
// destination extension: comma for .csv, tab otherwise. A destination
// of "-" writes to stdout.
type FileSink struct {
	path string
}

// NewFileSink creates a file sink for the given path.
func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (s *FileSink) Write(ctx context.Context, name string, res *biomart.Result) error {
	out := os.Stdout
	if s.path != "-" {
		if dir := filepath.Dir(s.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating output directory: %w", err)
			}
		}
		f, err := os.Create(s.path)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if !strings.EqualFold(filepath.Ext(s.path), ".csv") {
		w.Comma = '\t'
	}

	if err := w.Write(res.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteAll(res.Rows); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (s *FileSink) Close(ctx context.Context) error { return nil }

// Package sink persists harvest output: the append-only CSV dataset
// and the append-only error log.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVSink appends rows to a UTF-8 CSV dataset. The header row is
// written exactly once, when the file is created (or found empty);
// every later append adds rows only. A restart mid-run therefore keeps
// appending to the same dataset without duplicating the header.
type CSVSink struct {
	path   string
	header []string
}

// NewCSVSink returns a sink writing to path with the given header.
func NewCSVSink(path string, header []string) (*CSVSink, error) {
	if path == "" {
		return nil, fmt.Errorf("dataset path must be set")
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset header must be set")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dataset dir %s: %w", dir, err)
		}
	}
	return &CSVSink{path: path, header: header}, nil
}

// Append writes rows to the dataset, creating it with the header first
// if needed. The file is opened per call so a crash between domains
// never holds the dataset open.
func (s *CSVSink) Append(ctx context.Context, rows [][]string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	needHeader, err := s.needsHeader()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open dataset %s: %w", s.path, err)
	}

	writer := csv.NewWriter(f)
	if needHeader {
		if err := writer.Write(s.header); err != nil {
			_ = f.Close()
			return fmt.Errorf("write dataset header: %w", err)
		}
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			_ = f.Close()
			return fmt.Errorf("write dataset row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = f.Close()
		return fmt.Errorf("flush dataset %s: %w", s.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close dataset %s: %w", s.path, err)
	}
	return nil
}

func (s *CSVSink) needsHeader() (bool, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat dataset %s: %w", s.path, err)
	}
	return info.Size() == 0, nil
}

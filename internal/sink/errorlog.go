package sink

import (
	"fmt"
	"os"
	"path/filepath"
)

// ErrorLog appends one "<domain>: <reason>" line per failure to a
// plain-text file for post-hoc inspection.
type ErrorLog struct {
	path string
}

// NewErrorLog returns an error log writing to path.
func NewErrorLog(path string) (*ErrorLog, error) {
	if path == "" {
		return nil, fmt.Errorf("error log path must be set")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create error log dir %s: %w", dir, err)
		}
	}
	return &ErrorLog{path: path}, nil
}

// Log appends one failure line. The file is opened per call so lines
// survive a later crash.
func (l *ErrorLog) Log(domain, reason string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open error log %s: %w", l.path, err)
	}
	if _, err := fmt.Fprintf(f, "%s: %s\n", domain, reason); err != nil {
		_ = f.Close()
		return fmt.Errorf("append error log %s: %w", l.path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close error log %s: %w", l.path, err)
	}
	return nil
}

package checkpoint

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// FileStore keeps the resume index in a single plain-text file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore returns a Store backed by the file at path.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

// Load reads the checkpoint file. Absence means index 0; an unreadable
// integer is treated as 0 with a warning so a damaged file cannot
// block a run.
func (s *FileStore) Load(_ context.Context) (int, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}
	index, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || index < 0 {
		s.logger.Warn("Invalid checkpoint value, starting from beginning",
			zap.String("path", s.path),
			zap.String("value", strings.TrimSpace(string(data))))
		return 0, nil
	}
	return index, nil
}

// Save overwrites the checkpoint file with index.
func (s *FileStore) Save(_ context.Context, index int) error {
	if err := os.WriteFile(s.path, []byte(strconv.Itoa(index)), 0o600); err != nil {
		return fmt.Errorf("write checkpoint %s: %w", s.path, err)
	}
	return nil
}

// Clear deletes the checkpoint file.
func (s *FileStore) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove checkpoint %s: %w", s.path, err)
	}
	return nil
}

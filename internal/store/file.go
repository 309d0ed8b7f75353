package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileSlot keeps the slot as <dir>/<name>.json. Writes replace the file atomically.
type FileSlot struct {
	dir  string
	path string
}

// NewFileSlot creates the directory if needed.
func NewFileSlot(dir, name string) (*FileSlot, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &FileSlot{dir: dir, path: filepath.Join(dir, name+".json")}, nil
}

// Path returns the file backing the slot.
func (s *FileSlot) Path() string {
	return s.path
}

func (s *FileSlot) Read(_ context.Context) ([]byte, error) {
	payload, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	return payload, nil
}

func (s *FileSlot) Write(_ context.Context, payload []byte) error {
	tmp, err := os.CreateTemp(s.dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}
	if err = os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to replace cache file: %w", err)
	}

	return nil
}

// Ping checks that the directory is still there.
func (s *FileSlot) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("cache directory unavailable: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cache path %s is not a directory", s.dir)
	}

	return nil
}

func (s *FileSlot) Close() error {
	return nil
}

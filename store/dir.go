//go:build !tinygo

package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir stores each record as one file under a directory.
type Dir struct {
	path string
}

// NewDir creates the directory if needed and returns the store.
func NewDir(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %q: %w", path, err)
	}
	return &Dir{path: path}, nil
}

func (d *Dir) file(name string) string {
	return filepath.Join(d.path, filepath.Base(name))
}

func (d *Dir) Exists(name string) bool {
	st, err := os.Stat(d.file(name))
	return err == nil && st.Mode().IsRegular()
}

func (d *Dir) Read(name string, p []byte) bool {
	body, err := os.ReadFile(d.file(name))
	if err != nil || len(body) != len(p) {
		return false
	}
	copy(p, body)
	return true
}

func (d *Dir) Write(name string, p []byte) error {
	if err := os.WriteFile(d.file(name), p, 0o600); err != nil {
		return fmt.Errorf("write record %q: %w", name, err)
	}
	return nil
}

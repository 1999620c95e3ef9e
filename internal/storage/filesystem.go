package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileSystem stores photos in a local directory that is served under
// /uploads.
type FileSystem struct {
	root string
}

func NewFileSystem(root string) (*FileSystem, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileSystem{root: root}, nil
}

func (f *FileSystem) Root() string { return f.root }

// Store writes to a temporary file and renames it into place so a failed
// upload never leaves a partial photo behind.
func (f *FileSystem) Store(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := checkName(name); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if size >= 0 && n != size {
		return fmt.Errorf("write %s: got %d bytes, want %d", name, n, size)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(f.root, name)); err != nil {
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

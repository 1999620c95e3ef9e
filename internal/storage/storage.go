// Package storage persists uploaded files under caller-chosen names.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/devcamper/devcamper-api/internal/config"
)

// Receiver stores one file. A returned error means nothing usable was stored.
type Receiver interface {
	Store(ctx context.Context, name string, r io.Reader, size int64, contentType string) error
}

// New returns the receiver selected by cfg.Upload.Backend.
func New(cfg *config.Config) (Receiver, error) {
	switch cfg.Upload.Backend {
	case "minio":
		s, err := NewMinIOStorage(cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "filesystem", "":
		fs, err := NewFileSystem(cfg.Upload.Path)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
	return nil, fmt.Errorf("unsupported upload backend %q", cfg.Upload.Backend)
}

func checkName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

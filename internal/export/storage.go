package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roadpulse/roadpulse/pkg/config"
)

// NewStorage builds the configured storage backend: local, s3, or gcs.
func NewStorage(ctx context.Context, cfg config.ExportConfig) (StorageClient, error) {
	switch cfg.Backend {
	case "", "local":
		dir := cfg.Dir
		if dir == "" {
			dir = "exports"
		}
		return NewLocalStorage(dir), nil
	case "s3":
		return NewS3Storage(ctx, S3Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
		})
	case "gcs":
		return NewGCSStorage(ctx, cfg.Bucket)
	default:
		return nil, fmt.Errorf("unknown export backend %q", cfg.Backend)
	}
}

// StorageClient abstracts blob storage for schedule export artifacts.
type StorageClient interface {
	PutExport(ctx context.Context, name string, data []byte) error
	GetExport(ctx context.Context, name string) ([]byte, error)
}

// LocalStorage implements StorageClient using the local filesystem.
// Useful for development and testing.
type LocalStorage struct {
	BaseDir string
}

// NewLocalStorage creates a LocalStorage rooted at the given directory.
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{BaseDir: baseDir}
}

func (s *LocalStorage) path(name string) string {
	return filepath.Join(s.BaseDir, name)
}

// PutExport stores an export artifact.
func (s *LocalStorage) PutExport(ctx context.Context, name string, data []byte) error {
	path := s.path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetExport retrieves an export artifact.
func (s *LocalStorage) GetExport(ctx context.Context, name string) ([]byte, error) {
	return os.ReadFile(s.path(name))
}

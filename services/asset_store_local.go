package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalAssetStore writes floor maps to the local filesystem. The directory is
// served statically by the router, so the returned URL resolves against this
// same process.
type LocalAssetStore struct {
	dir     string
	baseURL string
}

func NewLocalAssetStore(dir, baseURL string) *LocalAssetStore {
	return &LocalAssetStore{dir: dir, baseURL: baseURL}
}

func (s *LocalAssetStore) Save(ctx context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("mkdir uploads dir: %w", err)
	}
	fullpath := filepath.Join(s.dir, name)
	if err := os.WriteFile(fullpath, data, 0644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return publicMapURL(s.baseURL, name), nil
}

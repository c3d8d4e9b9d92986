package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cavidescun/314q34wefasd/internal/providers"
)

// Local writes documents to a directory and serves them under baseURL.
type Local struct {
	dir     string
	baseURL string
}

func NewLocal(dir, baseURL string) (*Local, error) {
	if dir == "" {
		dir = "data/documents"
	}
	if baseURL == "" {
		baseURL = "file://" + dir
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{dir: dir, baseURL: baseURL}, nil
}

func (s *Local) StoreFile(ctx context.Context, key string, content []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", providers.FromTransport(providerID, err)
	}
	if !validKey(key) {
		return "", providers.NewProviderError(providers.ErrorBadData, providerID, "invalid object key "+key, nil)
	}
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", providers.NewProviderError(providers.ErrorInternal, providerID, "create key dir", err)
	}
	if err := os.WriteFile(path, content, 0o640); err != nil {
		return "", providers.NewProviderError(providers.ErrorInternal, providerID, "write file", err)
	}
	return publicURL(s.baseURL, key), nil
}

func (s *Local) DeleteFile(_ context.Context, key string) error {
	if !validKey(key) {
		return providers.NewProviderError(providers.ErrorBadData, providerID, "invalid object key "+key, nil)
	}
	err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return providers.NewProviderError(providers.ErrorInternal, providerID, "remove file", err)
	}
	return nil
}

// Package storage stores homologation documents. The OSS backend is used in
// production; the local backend writes under a directory for development.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/cavidescun/314q34wefasd/internal/platform/config"
)

const providerID = "blob-storage"

// Store is implemented by every backend.
type Store interface {
	StoreFile(ctx context.Context, key string, content []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
}

// New selects the backend named by cfg.Backend.
func New(cfg config.Storage) (Store, error) {
	switch strings.ToLower(cfg.Backend) {
	case "oss":
		return NewOSS(cfg)
	case "", "local":
		return NewLocal(cfg.LocalDir, cfg.PublicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func publicURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}

func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

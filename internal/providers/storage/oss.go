package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/cavidescun/314q34wefasd/internal/platform/config"
	"github.com/cavidescun/314q34wefasd/internal/providers"
)

// bucket is the subset of *oss.Bucket used here.
type bucket interface {
	PutObject(objectKey string, reader io.Reader, options ...oss.Option) error
	DeleteObject(objectKey string, options ...oss.Option) error
}

// OSS stores documents in an Aliyun OSS bucket.
type OSS struct {
	bucket  bucket
	baseURL string
}

func NewOSS(cfg config.Storage) (*OSS, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("oss endpoint and bucket are required")
	}
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}
	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
		baseURL = fmt.Sprintf("https://%s.%s", cfg.Bucket, endpoint)
	}
	return &OSS{bucket: bkt, baseURL: baseURL}, nil
}

func (s *OSS) StoreFile(ctx context.Context, key string, content []byte, contentType string) (string, error) {
	if !validKey(key) {
		return "", providers.NewProviderError(providers.ErrorBadData, providerID, "invalid object key "+key, nil)
	}
	if contentType == "" {
		contentType = "application/pdf"
	}
	err := s.bucket.PutObject(key, bytes.NewReader(content),
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	)
	if err != nil {
		return "", classify(err, "put object "+key)
	}
	return publicURL(s.baseURL, key), nil
}

// DeleteFile treats a missing object as already deleted.
func (s *OSS) DeleteFile(ctx context.Context, key string) error {
	if err := s.bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil && !isNotFound(err) {
		return classify(err, "delete object "+key)
	}
	return nil
}

func classify(err error, msg string) error {
	var se oss.ServiceError
	if errors.As(err, &se) {
		pe := providers.FromStatus(providerID, se.StatusCode, se.Code)
		pe.Message = msg + ": " + pe.Message
		pe.Underlying = err
		return pe
	}
	pe := providers.FromTransport(providerID, err)
	pe.Message = msg + ": " + pe.Message
	return pe
}

func isNotFound(err error) bool {
	var se oss.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusNotFound || se.Code == "NoSuchKey"
	}
	return false
}

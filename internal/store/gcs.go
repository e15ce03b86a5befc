package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const gcsTimeout = 30 * time.Second

// GCSStore is a Cloud Storage-backed implementation of Store. Keys live
// under an optional object prefix.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewGCS creates a new GCSStore for bucket, storing keys under prefix.
func NewGCS(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

// Get retrieves a value by key. Returns the value and true if found,
// or nil and false if not found.
func (s *GCSStore) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), gcsTimeout)
	defer cancel()

	reader, err := s.object(key).NewReader(ctx)
	if err != nil {
		return nil, false
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set uploads value under key with a content type derived from its extension.
func (s *GCSStore) Set(key string, value []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), gcsTimeout)
	defer cancel()

	writer := s.object(key).NewWriter(ctx)
	writer.ContentType = contentType(key)

	if _, err := writer.Write(value); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}

func (s *GCSStore) Exists(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), gcsTimeout)
	defer cancel()

	_, err := s.object(key).Attrs(ctx)
	if err == nil {
		return true
	}
	if !errors.Is(err, storage.ErrObjectNotExist) {
		slog.Warn("probing object failed", "bucket", s.bucket, "object", s.objectName(key), "error", err)
	}
	return false
}

func (s *GCSStore) Location(key string) string {
	return "gs://" + s.bucket + "/" + s.objectName(key)
}

// Close closes the GCS client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.objectName(key))
}

func (s *GCSStore) objectName(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

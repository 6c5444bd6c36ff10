// Package storage keeps uploaded analysis images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("storage: object not found")

type Storage interface {
	// Put stores data and returns the key it is reachable under.
	Put(ctx context.Context, prefix, ext string, data io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

const (
	TypeLocal = "local"
	TypeS3    = "s3"
)

type Config struct {
	Type      string
	LocalPath string
	S3Bucket  string
	S3Region  string
	// S3Endpoint targets S3-compatible services; empty means AWS.
	S3Endpoint   string
	AWSAccessKey string
	AWSSecretKey string
}

func New(cfg Config) (Storage, error) {
	switch cfg.Type {
	case TypeS3:
		s, err := NewS3Storage(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case TypeLocal, "":
		s, err := NewLocalStorage(cfg.LocalPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}

// newKey builds prefix/yyyy/mm/<uuid>.<ext>.
func newKey(prefix, ext string, now time.Time) string {
	ext = strings.TrimPrefix(ext, ".")
	name := uuid.New().String()
	if ext != "" {
		name += "." + ext
	}
	return path.Join(prefix, now.UTC().Format("2006/01"), name)
}

// validKey rejects keys that could escape the storage root.
func validKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "" {
			return false
		}
	}
	return true
}

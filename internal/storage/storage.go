package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// Sentinel errors to help callers distinguish failure reasons.
var (
	ErrInvalidObject = errors.New("storage: invalid object")
	ErrInvalidKey    = errors.New("storage: invalid key")
	ErrNotFound      = errors.New("storage: object not found")
)

// Object represents the payload sent to a storage backend when uploading.
// Key is chosen by the caller and is opaque to everything above the
// backend; it is set exactly once and never reused for other content.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// DownloadResult bundles the stream returned by a storage backend and some metadata.
type DownloadResult struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
}

// Storage describes the basic operations supported by every blob backend
// we implement: store, fetch and delete by key. Metadata coordination
// lives above this interface.
type Storage interface {
	Put(ctx context.Context, obj *Object) error
	Get(ctx context.Context, key string) (*DownloadResult, error)
	Delete(ctx context.Context, key string) error
}

// ValidateObject performs a light validation of the input object before delegating to providers.
func ValidateObject(obj *Object) error {
	if obj == nil || obj.Reader == nil {
		return fmt.Errorf("%w: missing data stream", ErrInvalidObject)
	}
	if obj.Key == "" {
		return fmt.Errorf("%w: missing object key", ErrInvalidObject)
	}
	return ValidateKey(obj.Key)
}

// ValidateKey ensures we only interact with safe keys.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	clean := path.Clean(key)
	if clean == "." || clean == "/" || strings.HasPrefix(clean, "..") || strings.HasPrefix(key, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

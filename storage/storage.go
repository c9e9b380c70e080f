// Package storage persists post images behind a small interface so the blog
// can run against a local directory in development and an S3-compatible
// bucket in production.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when no blob exists under the given key.
var ErrNotFound = errors.New("storage: object not found")

// ImageStore saves and serves uploaded images. Keys are opaque; callers keep
// them on the owning record.
type ImageStore interface {
	// Save writes the blob and returns a URL clients can fetch it from.
	Save(ctx context.Context, key, contentType string, r io.Reader) (string, error)
	// Open returns the blob and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Remove deletes the blob. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

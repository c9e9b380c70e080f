package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps images in a local directory. The content type rides in a
// sidecar metadata file next to the blob.
type FSStore struct {
	dir     string
	baseURL string
}

type fsMeta struct {
	ContentType string `json:"content_type"`
}

// NewFSStore creates the directory if needed. baseURL is prepended to keys
// when building public URLs, e.g. "/uploads".
func NewFSStore(dir, baseURL string) (*FSStore, error) {
	if dir == "" {
		return nil, errors.New("storage: upload directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create upload dir: %w", err)
	}

	return &FSStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Dir returns the backing directory, for static file serving.
func (s *FSStore) Dir() string {
	return s.dir
}

func (s *FSStore) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", key, err)
	}

	meta, err := json.Marshal(fsMeta{ContentType: contentType})
	if err == nil {
		err = os.WriteFile(metaPath(path), meta, 0o644)
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("storage: write metadata for %s: %w", key, err)
	}

	return s.baseURL + "/" + key, nil
}

func (s *FSStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if err := validateKey(key); err != nil {
		return nil, "", err
	}

	path := filepath.Join(s.dir, key)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("storage: open %s: %w", key, err)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(metaPath(path)); err == nil {
		var meta fsMeta
		if json.Unmarshal(raw, &meta) == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}

	return f, contentType, nil
}

func (s *FSStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	path := filepath.Join(s.dir, key)
	os.Remove(metaPath(path))

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}

	return nil
}

func metaPath(path string) string {
	return path + ".meta"
}

// validateKey rejects anything that could escape the storage directory.
func validateKey(key string) error {
	if key == "" {
		return errors.New("storage: key is required")
	}
	if strings.Contains(key, "/") || strings.Contains(key, "\\") || strings.Contains(key, "..") {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}

var _ ImageStore = (*FSStore)(nil)

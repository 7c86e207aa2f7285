// Package blob stores uploaded story images and hands back the URL they are served from.
package blob

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/daniilsolovey/newsfeed/internal/errors"
)

// DefaultMaxSize matches the upload limit of the admin form.
const DefaultMaxSize = 5 << 20

// Store issues durable URLs for image bytes and releases them again.
type Store interface {
	// Put stores data and returns the public URL of the stored object.
	Put(ctx context.Context, filename string, data []byte) (string, error)
	// Delete releases an object previously returned by Put. URLs the store did not issue
	// are ignored.
	Delete(ctx context.Context, url string) error
	// Owns reports whether url was issued by this store.
	Owns(url string) bool
}

// DiskStore keeps images as files in a directory that the HTTP server exposes under URLPrefix.
type DiskStore struct {
	dir       string
	urlPrefix string
	maxSize   int64
	lg        *slog.Logger
}

func NewDiskStore(dir, urlPrefix string, maxSize int64, lg *slog.Logger) (*DiskStore, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create blob dir %s: %w", dir, err)
	}

	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}

	return &DiskStore{
		dir:       dir,
		urlPrefix: urlPrefix,
		maxSize:   maxSize,
		lg:        lg,
	}, nil
}

// Dir returns the directory served as static files.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Put(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if len(data) == 0 {
		return "", errors.Validation("image file is empty")
	}
	if int64(len(data)) > s.maxSize {
		return "", errors.Validationf("image exceeds %d bytes", s.maxSize)
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", errors.Validation("only image files are allowed")
	}

	ext := mt.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", errors.Upstream("failed to store image", err)
	}

	s.lg.Debug("image stored", "name", name, "size", len(data), "mime", mt.String())

	return s.urlPrefix + name, nil
}

func (s *DiskStore) Owns(url string) bool {
	_, ok := s.objectName(url)
	return ok
}

func (s *DiskStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, ok := s.objectName(url)
	if !ok {
		return nil
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return errors.Upstream("failed to delete image", err)
	}

	return nil
}

func (s *DiskStore) objectName(url string) (string, bool) {
	if !strings.HasPrefix(url, s.urlPrefix) {
		return "", false
	}

	name := strings.TrimPrefix(url, s.urlPrefix)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}

	return name, true
}

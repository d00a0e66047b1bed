package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	appdeal "github.com/nestapp/backend/internal/application/deal"
	"github.com/nestapp/backend/internal/domain/shared"
)

var _ appdeal.FileStore = (*LocalFileStore)(nil)

// LocalFileStore stores files below a root directory. Writes go to a
// temporary file first so readers never see a partial file.
type LocalFileStore struct {
	root string
}

// NewLocalFileStore creates the root directory if needed
func NewLocalFileStore(root string) (*LocalFileStore, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalFileStore{root: abs}, nil
}

// resolve maps a storage path below root and rejects escapes
func (s *LocalFileStore) resolve(path string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(path, "/")))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", shared.NewValidationError("invalid storage path %q", path)
	}
	return filepath.Join(s.root, clean), nil
}

// Put writes body to path
func (s *LocalFileStore) Put(ctx context.Context, path string, body io.Reader, _ int64, _ string) error {
	target, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), target)
}

// Get opens the file at path. A missing file returns shared.ErrNotFound.
func (s *LocalFileStore) Get(_ context.Context, path string) (io.ReadCloser, error) {
	target, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, shared.NewNotFoundError("file", path)
	}
	return f, err
}

// Root returns the absolute root directory
func (s *LocalFileStore) Root() string {
	return s.root
}

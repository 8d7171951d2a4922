package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dtroode/filecms/internal/model"
)

const (
	tempFilePrefix = ".cms-tmp-"
	filePerm       = 0o644
	dirPerm        = 0o755
)

var _ model.DocumentStore = (*Store)(nil)

// Store keeps documents as files in a single directory.
type Store struct {
	dir  string
	fsys fs.FS
}

// NewStore creates the directory if needed and returns a Store rooted at it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create documents directory: %w", err)
	}

	return &Store{dir: dir, fsys: os.DirFS(dir)}, nil
}

// List returns the names of the files in the directory, in enumeration order.
// Hidden files, including in-flight temp files, are skipped.
func (s *Store) List(_ context.Context) ([]string, error) {
	matches, err := doublestar.Glob(s.fsys, "*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if strings.HasPrefix(m, ".") {
			continue
		}
		names = append(names, m)
	}

	return names, nil
}

// Read returns the document content.
func (s *Store) Read(_ context.Context, name string) ([]byte, error) {
	path, ok := s.path(name)
	if !ok {
		return nil, model.ErrNotFound
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	return content, nil
}

// Write replaces the document content, creating the file if needed.
// The write goes through a temp file and a rename so readers never see a partial file.
func (s *Store) Write(_ context.Context, name string, content []byte) error {
	path, ok := s.path(name)
	if !ok {
		return model.ErrNotFound
	}

	return writeFileAtomic(path, content, filePerm)
}

// Create makes an empty document. The name must pass model.ValidateDocumentName.
func (s *Store) Create(_ context.Context, name string) error {
	if err := model.ValidateDocumentName(name); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return model.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create document: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close document: %w", err)
	}

	return nil
}

// Delete removes the document.
func (s *Store) Delete(_ context.Context, name string) error {
	path, ok := s.path(name)
	if !ok {
		return model.ErrNotFound
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

func (s *Store) path(name string) (string, bool) {
	if name == "" || !model.IsSafeName(name) {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

// writeFileAtomic writes data to a temp file in the same directory and renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(filename), tempFilePrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Chmod(tmpFile.Name(), perm); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), filename); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Package storage is the blob-store collaborator: it keeps uploaded
// images on disk under a media root and hands out absolute URLs for
// them. Writes are all-or-nothing: a file either lands completely or
// not at all.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Upload prefixes, one directory per media kind.
const (
	CourseImagePrefix = "course_images"
	ProfilePicPrefix  = "profile_pics"
)

// MediaStore stores uploaded files under a root directory and builds
// retrievable absolute URLs for stored paths.
type MediaStore struct {
	root    string
	baseURL string
}

// NewMediaStore creates the media root (and known prefixes) if missing.
func NewMediaStore(root, baseURL string) (*MediaStore, error) {
	for _, prefix := range []string{CourseImagePrefix, ProfilePicPrefix} {
		if err := os.MkdirAll(filepath.Join(root, prefix), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory: %w", err)
		}
	}
	return &MediaStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Root returns the media root directory, for static file serving.
func (s *MediaStore) Root() string {
	return s.root
}

// Save writes the reader's content under prefix with a generated object
// name keeping the original extension, and returns the stored relative
// path. The write goes to a temp file first and is renamed into place so
// a failed upload never leaves a partial object.
func (s *MediaStore) Save(prefix, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	objectName := uuid.New().String() + ext
	relPath := path.Join(prefix, objectName)
	finalPath := filepath.Join(s.root, prefix, objectName)

	tmp, err := os.CreateTemp(filepath.Join(s.root, prefix), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to finish upload: %w", err)
	}
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	return relPath, nil
}

// URL builds the absolute URL for a stored relative path. A nil path
// stays nil (no image uploaded).
func (s *MediaStore) URL(relPath *string) *string {
	if relPath == nil || *relPath == "" {
		return nil
	}
	u := fmt.Sprintf("%s/media/%s", s.baseURL, *relPath)
	return &u
}

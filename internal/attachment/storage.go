// Package attachment stores receipt images on local disk. Files are
// renamed to a random reference on write, so a reference leaks nothing
// about the uploader or the original filename.
package attachment

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gastaro/gastaro/internal"
)

var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var (
	ErrUnsupportedType    = internal.NewValidationError("unsupported attachment type, expected an image", internal.ErrCodeUnsupportedFileType)
	ErrAttachmentNotFound = internal.NewNotFoundError("attachment not found", internal.ErrCodeAttachmentNotFound)
)

// Storage writes and reads attachment files under a single base directory.
type Storage struct {
	baseDir string
	maxSize int64
	logger  *slog.Logger
}

func NewStorage(baseDir string, maxSize int64, logger *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}
	return &Storage{
		baseDir: baseDir,
		maxSize: maxSize,
		logger:  logger,
	}, nil
}

func (s *Storage) MaxSize() int64 {
	return s.maxSize
}

// Save streams the upload to disk and returns the generated reference.
// The content type must be a supported image type; size enforcement is
// the caller's job via http.MaxBytesReader.
func (s *Storage) Save(src io.Reader, contentType string) (string, error) {
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	ref := uuid.New().String() + ext
	path := filepath.Join(s.baseDir, ref)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create attachment file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write attachment: %w", err)
	}

	s.logger.Info("attachment stored", "ref", ref)
	return ref, nil
}

// Open returns the stored file for a reference. References are validated
// against path traversal before touching the filesystem.
func (s *Storage) Open(ref string) (*os.File, error) {
	if !validRef(ref) {
		return nil, ErrAttachmentNotFound
	}

	f, err := os.Open(filepath.Join(s.baseDir, ref))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrAttachmentNotFound
		}
		return nil, err
	}
	return f, nil
}

func (s *Storage) Delete(ref string) error {
	if !validRef(ref) {
		return ErrAttachmentNotFound
	}

	err := os.Remove(filepath.Join(s.baseDir, ref))
	if os.IsNotExist(err) {
		return ErrAttachmentNotFound
	}
	return err
}

func validRef(ref string) bool {
	if ref == "" || strings.ContainsAny(ref, "/\\") || strings.Contains(ref, "..") {
		return false
	}
	ext := filepath.Ext(ref)
	name := strings.TrimSuffix(ref, ext)
	if _, err := uuid.Parse(name); err != nil {
		return false
	}
	for _, allowed := range allowedContentTypes {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ContentTypeFor maps a stored reference back to its MIME type.
func ContentTypeFor(ref string) string {
	ext := filepath.Ext(ref)
	for ct, e := range allowedContentTypes {
		if e == ext {
			return ct
		}
	}
	return "application/octet-stream"
}

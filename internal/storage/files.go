package storage

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/eimonte/estate/internal/domain"
)

// Upload constraints for listing images.
const (
	// MaxFileSize is the per-file ceiling in bytes.
	MaxFileSize = 5 << 20
	// MaxFilesPerRequest caps the number of image files in one submission.
	MaxFilesPerRequest = 10
)

const housesSubdir = "houses"

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// FileStore persists uploaded listing images on disk and maps them to public
// URL paths. Files live under <root>/houses and are served under
// <publicPrefix>/houses.
type FileStore struct {
	root         string
	publicPrefix string
}

// NewFileStore creates the upload directory tree rooted at root and returns a
// store whose public URLs start with publicPrefix (e.g. "/uploads").
func NewFileStore(root, publicPrefix string) (*FileStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("upload root is required")
	}
	if err := os.MkdirAll(filepath.Join(root, housesSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &FileStore{
		root:         root,
		publicPrefix: strings.TrimSuffix(publicPrefix, "/"),
	}, nil
}

// Root returns the on-disk root directory of the store.
func (s *FileStore) Root() string { return s.root }

// ValidateFiles checks a request's image files against the upload constraints.
// Any violation rejects the whole request so no partial state is committed.
func (s *FileStore) ValidateFiles(files []*multipart.FileHeader) error {
	if len(files) > MaxFilesPerRequest {
		return domain.NewValidationError(
			fmt.Sprintf("too many files: maximum is %d per request", MaxFilesPerRequest), nil)
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return domain.NewValidationError(
				fmt.Sprintf("file %q too large: maximum size is 5MB", fh.Filename), nil)
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedImageExts[ext] {
			return domain.NewValidationError(
				"only image files (JPEG, PNG, GIF, WebP) are allowed", nil)
		}
		mime := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
		if mime != "" {
			if i := strings.Index(mime, ";"); i >= 0 {
				mime = strings.TrimSpace(mime[:i])
			}
		}
		if !allowedImageMIMEs[mime] {
			return domain.NewValidationError(
				"only image files (JPEG, PNG, GIF, WebP) are allowed", nil)
		}
	}
	return nil
}

// Save writes one uploaded file under the houses subdirectory with a unique
// name and returns its public URL path.
func (s *FileStore) Save(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	name := uniqueFileName(fh.Filename)
	dstPath := filepath.Join(s.root, housesSubdir, name)

	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("write file %s: %w", dstPath, err)
	}

	return s.publicPrefix + "/" + housesSubdir + "/" + name, nil
}

// Remove deletes the stored file behind a public URL path. A missing file is
// not an error: the database row is authoritative and disk may lag behind.
// Paths outside the store root are refused.
func (s *FileStore) Remove(publicURL string) error {
	rel, ok := strings.CutPrefix(publicURL, s.publicPrefix+"/")
	if !ok {
		return fmt.Errorf("path %q is outside the upload prefix", publicURL)
	}

	rel = path.Clean(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") || path.IsAbs(rel) {
		return fmt.Errorf("invalid upload path %q", publicURL)
	}

	if err := os.Remove(filepath.Join(s.root, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove file %q: %w", publicURL, err)
	}
	return nil
}

// Cleanup removes already-written files after a failed multi-step operation,
// best effort, so storage never accumulates orphans from failed creates.
func (s *FileStore) Cleanup(publicURLs []string) {
	for _, u := range publicURLs {
		_ = s.Remove(u)
	}
}

// uniqueFileName mirrors the stored naming scheme:
// images-<unix-ms>-<random><ext>.
func uniqueFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("images-%d-%09d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}

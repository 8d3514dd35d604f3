// Package storage persists uploaded receipt files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnsupportedFile is returned when a receipt fails the type allow-list.
var ErrUnsupportedFile = errors.New("only images (jpeg, jpg, png) and PDFs are allowed")

// allowedExtensions maps accepted receipt file extensions to the declared
// content types accepted for them. Extension and content type are both
// checked: neither alone is trustworthy.
var allowedExtensions = map[string][]string{
	".jpeg": {"image/jpeg"},
	".jpg":  {"image/jpeg"},
	".png":  {"image/png"},
	".pdf":  {"application/pdf"},
}

// ReceiptStore writes receipt uploads under a dedicated directory, giving
// each file a collision-resistant generated name. It never touches the
// database.
type ReceiptStore struct {
	dir string
}

// NewReceiptStore creates a store rooted at dir. The directory is created
// on first save, not here.
func NewReceiptStore(dir string) *ReceiptStore {
	return &ReceiptStore{dir: dir}
}

// Dir returns the directory receipts are stored in.
func (s *ReceiptStore) Dir() string {
	return s.dir
}

// Save validates and stores one uploaded receipt, returning the generated
// filename for persistence on the expense record.
func (s *ReceiptStore) Save(file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !typeAllowed(ext, file.Header.Get("Content-Type")) {
		return "", ErrUnsupportedFile
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory %s: %w", s.dir, err)
	}

	name := fmt.Sprintf("%d-%09d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file %s: %w", name, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write receipt file %s: %w", name, err)
	}
	return name, nil
}

// Remove deletes a stored receipt by name. A file that no longer exists
// is not an error, so removal is idempotent.
func (s *ReceiptStore) Remove(filename string) error {
	// Base strips any path components a stored name should never have.
	path := filepath.Join(s.dir, filepath.Base(filename))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove receipt file %s: %w", filename, err)
	}
	return nil
}

func typeAllowed(ext, contentType string) bool {
	types, ok := allowedExtensions[ext]
	if !ok {
		return false
	}
	for _, t := range types {
		if contentType == t {
			return true
		}
	}
	return false
}

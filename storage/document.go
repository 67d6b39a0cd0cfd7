package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxDocumentSize is the per-file upload limit (5 MiB).
const MaxDocumentSize int64 = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ValidationError reports an upload the client must fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// DocumentStore persists uploaded identity documents and returns a reference
// that is stored on the user record. size is the validated length of body.
type DocumentStore interface {
	Save(ctx context.Context, name, contentType string, body io.ReadSeeker, size int64) (string, error)
	Delete(ctx context.Context, ref string) error
}

// ValidateDocument checks the extension (case-insensitive) and size of an upload.
func ValidateDocument(filename string, size int64) error {
	name := baseName(filename)
	if name == "" {
		return &ValidationError{Message: "Document file name is required"}
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(name))] {
		return &ValidationError{Message: fmt.Sprintf("File %s not allowed. Only JPG, JPEG, PNG allowed.", name)}
	}
	if size > MaxDocumentSize {
		return &ValidationError{Message: fmt.Sprintf("File %s exceeds 5MB limit", name)}
	}
	return nil
}

// UniqueName prefixes the client file name with a random hex id so uploads never collide.
func UniqueName(filename string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + "_" + baseName(filename)
}

// baseName drops any directory part a client sent, with either separator.
func baseName(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "." || name == ".." {
		return ""
	}
	return name
}

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Mareeswari30/Smart-Banking/logger"
)

// LocalStore writes documents under a directory on disk. References are the
// relative file paths, e.g. uploads/<id>_passport.png.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(_ context.Context, name, _ string, body io.ReadSeeker, _ int64) (string, error) {
	path := filepath.Join(s.dir, baseName(name))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}

	if _, err := io.Copy(f, io.LimitReader(body, MaxDocumentSize+1)); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}

	logger.Log.WithField("path", path).Debug("Document stored on disk")
	return path, nil
}

func (s *LocalStore) Delete(_ context.Context, ref string) error {
	if err := os.Remove(ref); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

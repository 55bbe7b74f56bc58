package ratings

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"marquee/internal/fileutil"
)

// FileSlot stores the collection as a JSON file. A sibling ".lock" file
// serializes writers across processes.
type FileSlot struct {
	path string
	lock *flock.Flock
}

var (
	_ Slot   = (*FileSlot)(nil)
	_ Locker = (*FileSlot)(nil)
)

// NewFileSlot returns a slot backed by the file at path. The file is created
// on first write.
func NewFileSlot(path string) (*FileSlot, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file slot path required")
	}
	return &FileSlot{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the slot file location.
func (s *FileSlot) Path() string { return s.path }

func (s *FileSlot) Read(_ context.Context) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", s.path, err)
	}
	return data, true, nil
}

func (s *FileSlot) Write(_ context.Context, data []byte) error {
	return fileutil.WriteFileAtomic(s.path, data, 0o644)
}

func (s *FileSlot) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}

// Backup copies the current slot file to dst. A missing slot is not an error.
func (s *FileSlot) Backup(dst string) (bool, error) {
	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := fileutil.CopyFile(s.path, dst); err != nil {
		return false, fmt.Errorf("backup %s: %w", s.path, err)
	}
	return true, nil
}

func (s *FileSlot) Lock(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create slot directory: %w", err)
	}
	return acquire(ctx, s.lock)
}

func (s *FileSlot) Describe() string { return "file " + s.path }

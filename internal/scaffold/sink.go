package scaffold

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrWriteFailed is matched by errors.Is for any WriteFailedError.
var ErrWriteFailed = errors.New("write failed")

// WriteFailedError reports a destination that could not be written.
type WriteFailedError struct {
	Path string
	Err  error
}

func (e *WriteFailedError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
}

// Is matches ErrWriteFailed.
func (e *WriteFailedError) Is(target error) bool { return target == ErrWriteFailed }

func (e *WriteFailedError) Unwrap() error { return e.Err }

// Sink persists generated files.
type Sink interface {
	ReadFile(path string) ([]byte, error)
	// WriteFile replaces path with data, creating parent directories.
	WriteFile(path string, data []byte) error
	// Remove deletes path and reports whether it existed.
	Remove(path string) (bool, error)
}

// DiskSink writes to the local file system.
type DiskSink struct{}

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ReadFile reads path.
func (DiskSink) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) //nolint:gosec // G304: path comes from the configured layout
}

// WriteFile writes data to path.
func (DiskSink) WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return &WriteFailedError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, filePerm); err != nil { //nolint:gosec // G306: generated sources are world readable
		return &WriteFailedError{Path: path, Err: err}
	}
	return nil
}

// Remove deletes path if it exists.
func (DiskSink) Remove(path string) (bool, error) {
	err := os.Remove(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to delete %s: %w", path, err)
	}
}

var _ Sink = DiskSink{}

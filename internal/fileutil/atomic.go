// Package fileutil provides common file operations.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrExists is returned by AtomicWrite when the target exists and overwriting
// was not requested.
var ErrExists = errors.New("file already exists")

// AtomicWrite writes data to path using a write-rename pattern, creating the
// parent directory if needed. The target is never left partially written.
// When overwrite is false and path already exists, ErrExists is returned.
func AtomicWrite(path string, data []byte, perm os.FileMode, overwrite bool) error {
	// Fast path; commit enforces the no-overwrite rule atomically.
	if !overwrite {
		if _, err := os.Lstat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("stat target: %w", err)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Unique temp file in the same directory so the rename stays atomic.
	tmpFile, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// CreateTemp uses 0600.
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := commit(tmpPath, path, overwrite); err != nil {
		return err
	}

	success = true
	return nil
}

// commit moves the finished temp file to path. Without overwrite it hard-links
// instead of renaming, so a target created after the early check still fails
// with ErrExists rather than being replaced. The temp file is removed on success.
func commit(tmpPath, path string, overwrite bool) error {
	if overwrite {
		if err := os.Rename(tmpPath, path); err != nil {
			return fmt.Errorf("rename to final path: %w", err)
		}
		return nil
	}

	if err := os.Link(tmpPath, path); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
		return fmt.Errorf("link to final path: %w", err)
	}
	if err := os.Remove(tmpPath); err != nil {
		return fmt.Errorf("remove temp file: %w", err)
	}
	return nil
}

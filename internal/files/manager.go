package files

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// EnsureParentDir creates the directory that will hold path
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// Exists reports whether path names a regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// WriteAtomic writes to a temporary file next to path and renames it into
// place once write succeeds. On failure path is left untouched.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			slog.Debug("Failed to remove temporary file",
				slog.String("path", tmpPath),
				slog.String("error", rmErr.Error()))
		}
	}

	if err := write(tmp); err != nil {
		cleanup()
		return err
	}

	// Sync to ensure write is complete
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		cleanup()
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}

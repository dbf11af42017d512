package backup

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func checkSource(path string) error {
	fi, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceInvalid, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", ErrSourceNotFound, path)
	}
	if err := canRead(path); err != nil {
		return fmt.Errorf("%w: read access denied: %s: %w", ErrSourceInvalid, path, err)
	}
	return nil
}

// checkDestination requires a writable parent directory. An existing
// destination must be a writable regular file other than the source.
func checkDestination(src, dst string) error {
	parent := filepath.Dir(dst)
	pi, err := os.Stat(parent)
	if err != nil {
		return fmt.Errorf("%w: parent directory: %w", ErrDestinationPathInvalid, err)
	}
	if !pi.IsDir() {
		return fmt.Errorf("%w: parent is not a directory: %s", ErrDestinationPathInvalid, parent)
	}
	if err := canWriteDir(parent); err != nil {
		return fmt.Errorf("%w: write access to parent directory denied: %s: %w", ErrDestinationPathInvalid, parent, err)
	}

	fi, err := os.Stat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDestinationPathInvalid, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", ErrDestinationPathInvalid, dst)
	}
	if si, err := os.Stat(src); err == nil && os.SameFile(si, fi) {
		return fmt.Errorf("%w: destination is the source file: %s", ErrDestinationPathInvalid, dst)
	}
	if err := canWrite(dst); err != nil {
		return fmt.Errorf("%w: write access denied: %s: %w", ErrDestinationPathInvalid, dst, err)
	}
	return nil
}

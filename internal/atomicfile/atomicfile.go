// Package atomicfile writes files by renaming a fully written temp file into place.
package atomicfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

// DefaultPerm is used for files that do not exist yet.
const DefaultPerm os.FileMode = 0o600

// WriteFile writes data to path atomically (best-effort cross-platform).
//
// perm is used for the temp file. If perm is 0, WriteFile keeps the existing
// file's mode when there is one and otherwise uses DefaultPerm. Env files hold
// credentials or references to them, so new files are owner-only.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		if st, err := os.Stat(path); err == nil {
			perm = st.Mode().Perm()
		} else {
			perm = DefaultPerm
		}
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpPath := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	_ = tmp.Chmod(perm)

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, renaming over an existing file fails. Remove first (not atomic).
		// Elsewhere a failed rename leaves the existing file alone.
		if runtime.GOOS != "windows" {
			return fmt.Errorf("rename temp file: %w", err)
		}
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename temp file: %w", err)
		}
	}

	committed = true
	return nil
}

// UpdateFunc computes new file content from the current content.
// exists is false when the file is missing; current is then nil.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// Update reads path, passes its content to fn and atomically writes the result.
//
// A missing file is treated as empty. If fn returns an error nothing is written.
// There is no cross-process locking: concurrent updaters race and the last
// rename wins.
func Update(path string, fn UpdateFunc) error {
	current, exists, err := read(path)
	if err != nil {
		return err
	}

	next, err := fn(current, exists)
	if err != nil {
		return err
	}

	return WriteFile(path, next, 0)
}

func read(path string) ([]byte, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return nil, false, fmt.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}

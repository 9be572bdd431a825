package generate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Write replaces file at path with data as a whole. Data goes to a temporary
// file in the same directory first, so readers never see partial content and
// previous file stays intact on any failure.
func Write(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary file in '%s': %w", dir, err)
	}
	name := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(name)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("unable to write '%s': %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("unable to sync '%s': %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("unable to close '%s': %w", name, err)
	}
	// CreateTemp always uses 0600
	if err = os.Chmod(name, 0644); err != nil {
		return fmt.Errorf("unable to set permissions on '%s': %w", name, err)
	}
	if err = os.Rename(name, path); err != nil {
		return fmt.Errorf("unable to replace '%s': %w", path, err)
	}
	return nil
}

// ErrStale is returned by check mode when generated file does not match
// current definitions.
var ErrStale = errors.New("generated file is out of date")

// Compare returns ErrStale when file at path is absent or differs from data.
func Compare(path string, data []byte) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: '%s' does not exist", ErrStale, path)
		}
		return fmt.Errorf("unable to read '%s': %w", path, err)
	}
	if !bytes.Equal(existing, data) {
		return fmt.Errorf("%w: '%s'", ErrStale, path)
	}
	return nil
}

// Package assets ships the loader script that the transpile toolchain runs to
// print a locale module as JSON.
package assets

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LoaderName is the file name of the loader script.
const LoaderName = "loader.js"

//go:embed loader.js
var loader []byte

var (
	once       sync.Once
	loaderPath string
	loaderErr  error
)

// Loader returns the embedded loader script.
func Loader() []byte {
	return loader
}

// LoaderPath writes the embedded loader into the user cache directory the
// first time it is called and returns its path.
func LoaderPath() (string, error) {
	once.Do(func() {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		loaderPath, loaderErr = Materialize(filepath.Join(dir, "i18n-ecma"))
	})
	return loaderPath, loaderErr
}

// Materialize writes the loader into dir unless an identical copy is
// already there, and returns the file path.
func Materialize(dir string) (string, error) {
	filename := filepath.Join(dir, LoaderName)
	if existing, err := os.ReadFile(filename); err == nil && string(existing) == string(loader) {
		return filename, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := os.WriteFile(filename, loader, 0644); err != nil {
		return "", fmt.Errorf("failed to write loader: %w", err)
	}
	return filename, nil
}

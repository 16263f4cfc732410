package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ManifestName is the file that marks a project root.
const ManifestName = "mycompiler.toml"

// FindManifest returns the nearest mycompiler.toml at or above startDir.
// ok is false when the walk reaches the filesystem root without one.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve %q: %w", startDir, err)
	}
	for ; ; dir = filepath.Dir(dir) {
		path = filepath.Join(dir, ManifestName)
		info, statErr := os.Stat(path)
		switch {
		case statErr == nil && !info.IsDir():
			return path, true, nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return "", false, fmt.Errorf("stat %q: %w", path, statErr)
		}
		if filepath.Dir(dir) == dir {
			return "", false, nil
		}
	}
}

// FindProjectRoot is FindManifest reduced to the directory.
func FindProjectRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindManifest(startDir)
	if !ok {
		return "", false, err
	}
	return filepath.Dir(path), true, nil
}

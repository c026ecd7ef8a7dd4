package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the configuration file looked up from the working directory.
const ManifestName = "miriguard.toml"

// FindUp walks up from startDir and returns the first path named name.
func FindUp(startDir, name string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// FindManifest locates miriguard.toml above startDir.
func FindManifest(startDir string) (string, bool, error) {
	return FindUp(startDir, ManifestName)
}

// FindCrateRoot returns the directory containing Cargo.toml, if any.
func FindCrateRoot(startDir string) (root string, ok bool, err error) {
	path, ok, err := FindUp(startDir, "Cargo.toml")
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(path), true, nil
}

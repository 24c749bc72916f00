// Package security guards file access driven by untrusted input, such as
// the file names listed in a recording mapper.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrPathTraversal is returned when a path resolves outside its base
// directory.
var ErrPathTraversal = errors.New("path escapes base directory")

// ValidatePathWithinDirectory checks that filePath stays inside dir once
// ".." components and symlinks are resolved. Neither path has to exist;
// the deepest existing ancestor of each is used for symlink resolution.
func ValidatePathWithinDirectory(filePath, dir string) error {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve base directory: %w", err)
	}

	rel, err := filepath.Rel(canonical(absDir), canonical(absPath))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPathTraversal, filePath, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s is outside %s", ErrPathTraversal, filePath, dir)
	}
	return nil
}

// ResolveWithin joins name onto dir and validates the result. name must be
// relative.
func ResolveWithin(dir, name string) (string, error) {
	if filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %s is absolute", ErrPathTraversal, name)
	}
	path := filepath.Join(dir, name)
	if err := ValidatePathWithinDirectory(path, dir); err != nil {
		return "", err
	}
	return path, nil
}

// canonical resolves symlinks in the longest existing prefix of an
// absolute path and re-appends the missing tail.
func canonical(abs string) string {
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs
	}
	return filepath.Join(canonical(parent), filepath.Base(abs))
}

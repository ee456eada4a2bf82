// Package safeio confines all scan-side file reads to the repository root.
// Symlinks are resolved before the prefix check so a link cannot escape the
// scanned tree.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SafeFS provides read-only helpers that resolve paths relative to a fixed root.
type SafeFS struct {
	absRoot string // absolute root with symlinks resolved
}

// New locks all future operations to the given root directory.
func New(root string) (*SafeFS, error) {
	if root == "" {
		return nil, errors.New("safeio: empty root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, errors.New("safeio: root is not a directory")
	}
	return &SafeFS{absRoot: abs}, nil
}

// Root returns the absolute root directory bound to this SafeFS.
func (s *SafeFS) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// ReadFile reads a file relative to the root.
func (s *SafeFS) ReadFile(rel string) ([]byte, error) {
	p, err := s.resolve(rel)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errors.New("safeio: path is a directory")
	}
	return os.ReadFile(p)
}

func (s *SafeFS) resolve(rel string) (string, error) {
	if s == nil {
		return "", errors.New("safeio: filesystem not configured")
	}
	if rel == "" {
		return "", errors.New("safeio: empty path")
	}
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." {
		return s.absRoot, nil
	}
	if filepath.IsAbs(clean) {
		return "", errors.New("safeio: absolute paths not allowed")
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.New("safeio: path traversal not allowed")
	}
	resolved, err := filepath.EvalSymlinks(filepath.Join(s.absRoot, clean))
	if err != nil {
		return "", err
	}
	if !hasPathPrefix(resolved, s.absRoot) {
		return "", fmt.Errorf("safeio: resolved outside root (root=%s, path=%s)", s.absRoot, resolved)
	}
	return resolved, nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path, root)
}

package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for paths that escape the root directory
var ErrOutsideRoot = errors.New("path is outside the allowed directory")

// Root confines client supplied paths to one directory tree. Symlinks are
// resolved before the containment check, so a link inside the root that
// points outside of it is rejected.
type Root struct {
	dir string
}

// NewRoot creates a root for an existing directory
func NewRoot(dir string) (*Root, error) {
	if dir == "" {
		return nil, errors.New("root directory cannot be empty")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root directory: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("cannot access root directory %s: %w", dir, err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("cannot access root directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", dir)
	}

	return &Root{dir: resolved}, nil
}

// Dir returns the canonical root directory
func (r *Root) Dir() string {
	return r.dir
}

// Resolve turns path into an absolute, cleaned path inside the root.
// Relative paths are taken relative to the root and NUL bytes are dropped.
func (r *Root) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", errors.New("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if !r.Contains(abs) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}
	return abs, nil
}

// ResolveDir resolves a directory path; an empty path means the root itself.
// A path naming an existing file is rejected.
func (r *Root) ResolveDir(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return r.dir, nil
	}

	dir, err := r.Resolve(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", path)
	}
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	return dir, nil
}

// Contains reports whether an absolute path lies within the root, after
// resolving symlinks in its longest existing prefix
func (r *Root) Contains(path string) bool {
	clean := filepath.Clean(path)
	if !within(clean, r.dir) {
		return false
	}
	return within(realPath(clean), r.dir)
}

// realPath evaluates symlinks in the longest existing prefix of path and
// appends the remaining components unchanged
func realPath(path string) string {
	var rest []string
	current := path
	for {
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return path
		}
		rest = append([]string{filepath.Base(current)}, rest...)
		current = parent
	}
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/a3tai/pdf-question-extractor/internal/security"
)

// FileInfo describes a PDF found on disk
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// Search handles PDF discovery for batch runs
type Search struct {
	validator *Validator
}

// NewSearch creates a new PDF search handler with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// FindPDFs walks directory and returns the PDFs whose file name matches the
// glob pattern (every PDF when pattern is empty), sorted by path. Hidden
// directories, invalid files and entries resolving outside directory are
// skipped. A limit of 0 means no limit. Returned paths are below the
// symlink-resolved directory.
func (s *Search) FindPDFs(directory, pattern string, limit int) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}
	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
	}

	info, err := os.Stat(directory)
	switch {
	case os.IsNotExist(err):
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	case err != nil:
		return nil, fmt.Errorf("cannot access directory: %w", err)
	case !info.IsDir():
		return nil, fmt.Errorf("path is not a directory: %s", directory)
	}

	root, err := security.NewRoot(directory)
	if err != nil {
		return nil, err
	}

	var found []FileInfo
	err = filepath.WalkDir(root.Dir(), func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			if path != root.Dir() && (strings.HasPrefix(d.Name(), ".") || !root.Contains(path)) {
				return filepath.SkipDir
			}
			return nil
		}
		if limit > 0 && len(found) >= limit {
			return filepath.SkipAll
		}
		if !s.matches(d.Name(), pattern) || !root.Contains(path) {
			return nil
		}

		fi, err := d.Info()
		if err != nil || s.validator.ValidateFileInfo(path, fi) != nil {
			return nil
		}
		found = append(found, FileInfo{
			Path:         path,
			Name:         fi.Name(),
			Size:         fi.Size(),
			ModifiedTime: fi.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	return found, nil
}

func (s *Search) matches(name, pattern string) bool {
	if !isPDFName(name) {
		return false
	}
	if pattern == "" {
		return true
	}
	ok, _ := filepath.Match(pattern, name)
	return ok
}

// Paths returns the Path of each file
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths
}

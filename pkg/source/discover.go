package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns selects plain-text statute files.
var DefaultIncludePatterns = []string{"**/*.txt"}

// Matcher decides which files under a root directory are statute sources.
// Patterns use doublestar syntax and are matched against slash-separated
// paths relative to the root.
type Matcher struct {
	Include []string
	Exclude []string
}

// NewMatcher creates a Matcher, falling back to DefaultIncludePatterns when
// include is empty. All patterns are checked for validity.
func NewMatcher(include, exclude []string) (*Matcher, error) {
	if len(include) == 0 {
		include = DefaultIncludePatterns
	}
	for _, pattern := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid glob pattern %q", pattern)
		}
	}
	return &Matcher{Include: include, Exclude: exclude}, nil
}

// Match reports whether relPath is selected.
func (m *Matcher) Match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	for _, pattern := range m.Exclude {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return false
		}
	}
	for _, pattern := range m.Include {
		if matched, _ := doublestar.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}

// Discover walks root and returns the selected files as paths joined with
// root, sorted lexically.
func (m *Matcher) Discover(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if m.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// Package discovery locates the composer.json manifests of a monorepo.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches manifests exactly one directory below the root.
const DefaultPattern = "*/composer.json"

// Finder globs manifests under a packages root.
type Finder struct {
	root    string
	pattern string
}

// NewFinder creates a finder. An empty pattern means DefaultPattern.
func NewFinder(root, pattern string) *Finder {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultPattern
	}
	return &Finder{root: root, pattern: pattern}
}

// Root returns the packages root.
func (f *Finder) Root() string {
	return f.root
}

// Find returns the absolute paths of every matching regular file, sorted.
func (f *Finder) Find() ([]string, error) {
	if err := validatePattern(f.pattern); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(f.root)
	if err != nil {
		return nil, fmt.Errorf("discovery: resolve %s: %w", f.root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discovery: packages root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("discovery: packages root %s is not a directory", root)
	}
	// doublestar does not follow symlinked directories.
	matches, err := doublestar.Glob(os.DirFS(root), f.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("discovery: glob %q: %w", f.pattern, err)
	}
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Join(root, filepath.FromSlash(match)))
	}
	sort.Strings(files)
	return files, nil
}

func validatePattern(pattern string) error {
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("discovery: invalid pattern %q", pattern)
	}
	if strings.HasPrefix(pattern, "/") || filepath.IsAbs(pattern) {
		return fmt.Errorf("discovery: pattern %q must be relative to the packages root", pattern)
	}
	if slices.Contains(strings.Split(pattern, "/"), "..") {
		return fmt.Errorf("discovery: pattern %q must not reference parent directories", pattern)
	}
	return nil
}

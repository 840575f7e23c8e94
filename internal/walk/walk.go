// Package walk discovers Python source files under a target path.
package walk

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// ignoreDirs are directory names never worth descending into. Tool
// caches and environments hold generated or third-party code.
var ignoreDirs = map[string]bool{
	"__pycache__":   true,
	".git":          true,
	"venv":          true,
	".venv":         true,
	"node_modules":  true,
	".tox":          true,
	".pytest_cache": true,
	".mypy_cache":   true,
	".ruff_cache":   true,
	"dist":          true,
	"build":         true,
}

// Walker collects .py and .pyi files, skipping the standard ignore set
// and any user-supplied exclude patterns.
type Walker struct {
	excludes []glob.Glob
}

// New compiles the exclude patterns. Patterns match against both the
// path relative to the walk root (slash-separated) and the base name,
// so "tests/*" and "conftest.py" both work.
func New(excludePatterns []string) (*Walker, error) {
	w := &Walker{}
	for _, p := range excludePatterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		w.excludes = append(w.excludes, g)
	}
	return w, nil
}

// Collect returns the Python files under target, sorted. A target that
// is itself a .py or .pyi file is returned as-is.
func (w *Walker) Collect(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}
	if !info.IsDir() {
		if !isPythonFile(target) {
			return nil, fmt.Errorf("%s is not a Python file", target)
		}
		return []string{target}, nil
	}
	var files []string
	err = filepath.WalkDir(target, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(target, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == target {
				return nil
			}
			name := d.Name()
			if ignoreDirs[name] || strings.HasSuffix(name, ".egg-info") {
				return filepath.SkipDir
			}
			if w.excluded(rel, name) {
				return filepath.SkipDir
			}
			return nil
		}

		if !isPythonFile(d.Name()) {
			return nil
		}
		if w.excluded(rel, d.Name()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", target, err)
	}

	sort.Strings(files)
	return files, nil
}

// isPythonFile accepts sources and stub files.
func isPythonFile(name string) bool {
	return strings.HasSuffix(name, ".py") || strings.HasSuffix(name, ".pyi")
}

func (w *Walker) excluded(rel, name string) bool {
	for _, g := range w.excludes {
		if g.Match(rel) || g.Match(name) {
			return true
		}
	}
	return false
}

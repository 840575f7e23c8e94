// Package pipeline runs the full extraction flow: discover Python files
// under a target, parse and extract each one, and serve repeat runs from
// the cache. The CLI commands and the MCP server both sit on top of it.
package pipeline

import (
	"fmt"
	"os"

	"github.com/hargabyte/pyr/internal/cache"
	"github.com/hargabyte/pyr/internal/config"
	"github.com/hargabyte/pyr/internal/extract"
	"github.com/hargabyte/pyr/internal/parser"
	"github.com/hargabyte/pyr/internal/walk"
)

// Options configures one pipeline run.
type Options struct {
	// Targets are the files or directories to scan, in order. Empty
	// means the current directory.
	Targets []string
	// Excludes are glob patterns for files to skip.
	Excludes []string
	// EnumMarkers overrides the enum base-class names (empty = defaults).
	EnumMarkers []string
	// UseCache enables the .pyr/cache.db lookaside. It is skipped
	// silently when no .pyr directory exists for the target.
	UseCache bool
	// Verbose writes progress notes to stderr.
	Verbose bool
}

// Result is the outcome of a run.
type Result struct {
	// Files are the discovered Python files, sorted within each target
	// and deduplicated across overlapping targets.
	Files []string
	// Modules are the extracted declarations, one per file, in the
	// same order as Files.
	Modules []*extract.Module
	// CacheHits counts files served from the cache.
	CacheHits int
}

// Run executes the pipeline.
func Run(opts Options) (*Result, error) {
	logf := func(format string, args ...interface{}) {
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "pyr: "+format+"\n", args...)
		}
	}

	targets := opts.Targets
	if len(targets) == 0 {
		targets = []string{"."}
	}

	walker, err := walk.New(opts.Excludes)
	if err != nil {
		return nil, err
	}
	var files []string
	seen := make(map[string]bool)
	for _, target := range targets {
		collected, err := walker.Collect(target)
		if err != nil {
			return nil, err
		}
		for _, f := range collected {
			if seen[f] {
				continue
			}
			seen[f] = true
			files = append(files, f)
		}
	}
	logf("found %d Python files under %d targets", len(files), len(targets))

	var store *cache.Cache
	if opts.UseCache {
		if dir, err := config.FindConfigDir(targets[0]); err == nil {
			store, err = cache.Open(dir)
			if err != nil {
				logf("cache unavailable: %v", err)
				store = nil
			}
		}
	}
	if store != nil {
		defer store.Close()
	}

	p := parser.New()
	defer p.Close()
	extractor := extract.New(opts.EnumMarkers...)

	result := &Result{Files: files}
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return nil, &parser.FileReadError{Path: file, Err: err}
		}
		hash := cache.Hash(source)

		if store != nil {
			if mod, ok, err := store.Get(file, hash); err == nil && ok {
				result.Modules = append(result.Modules, mod)
				result.CacheHits++
				continue
			}
		}

		parsed, err := p.Parse(source)
		if err != nil {
			return nil, err
		}
		if parsed.HasErrors() {
			logf("%s has syntax errors, extracting what parses", file)
		}
		parsed.FilePath = file

		mod, err := extractor.Extract(parsed)
		parsed.Close()
		if err != nil {
			return nil, fmt.Errorf("extracting %s: %w", file, err)
		}
		result.Modules = append(result.Modules, mod)

		if store != nil {
			if err := store.Put(file, hash, mod); err != nil {
				logf("cache write failed for %s: %v", file, err)
			}
		}
	}

	logf("extracted %d modules (%d from cache)", len(result.Modules), result.CacheHits)
	return result, nil
}

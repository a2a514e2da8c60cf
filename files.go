package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

type pathKind int

const (
	pathIgnore pathKind = iota
	pathRust
	pathManifest
)

// classifyPath decides how a candidate path is processed: Rust sources
// get declaration grouping, Cargo manifests get dependency sorting.
func classifyPath(path string) pathKind {
	if filepath.Base(path) == "Cargo.toml" {
		return pathManifest
	}
	if filepath.Ext(path) == ".rs" {
		return pathRust
	}
	return pathIgnore
}

func collectFiles(args []string, opts Options) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if !info.IsDir() {
			// Explicitly named files bypass excludes.
			if classifyPath(arg) == pathIgnore {
				return nil, fmt.Errorf("%s is not a .rs file or Cargo.toml", arg)
			}
			files = append(files, arg)
			continue
		}

		if !opts.Recursive {
			// Non-recursive: only immediate candidates
			entries, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("reading directory %s: %w", arg, err)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				path := filepath.Join(arg, entry.Name())
				if classifyPath(path) != pathIgnore && !excluded(path, arg, opts.Exclude) {
					files = append(files, path)
				}
			}
		} else {
			// Recursive walk
			err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || classifyPath(path) == pathIgnore {
					return nil
				}
				if !excluded(path, arg, opts.Exclude) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("walking directory %s: %w", arg, err)
			}
		}
	}

	return dedupePaths(files), nil
}

// excluded matches path, made relative to base and slash-separated,
// against the configured glob patterns.
func excluded(path, base string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// dedupePaths drops repeated paths, keeping first-occurrence order so a
// file is never rewritten twice in one run.
func dedupePaths(files []string) []string {
	seen := make(map[string]bool, len(files))
	var out []string
	for _, f := range files {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// writeFileAtomic replaces path's contents via a temp file and rename so
// a crash mid-write never leaves a truncated source file.
func writeFileAtomic(path, content string, mode os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

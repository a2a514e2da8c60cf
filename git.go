package main

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// isGitRepo reports whether the working directory is inside a git work tree.
func isGitRepo() bool {
	return exec.Command("git", "rev-parse", "--git-dir").Run() == nil
}

// gitRoot returns the absolute path of the repository's top-level directory.
func gitRoot() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", fmt.Errorf("locating git root: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// changedFiles lists files changed since the previous commit, as absolute
// paths. Deleted files are excluded since there is nothing left to rewrite.
func changedFiles(root string) ([]string, error) {
	out, err := exec.Command("git", "diff", "--diff-filter=d", "--name-only", "HEAD~1").Output()
	if err != nil {
		return nil, fmt.Errorf("listing changed files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(line)))
	}
	return files, nil
}

package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// affectedPackages maps a set of Rust files to the sorted, deduplicated
// list of cargo package names that own them.
func affectedPackages(files []string, root string) ([]string, error) {
	seen := make(map[string]bool)
	var packages []string
	for _, file := range files {
		pkg, err := packageForFile(file, root)
		if err != nil {
			return nil, err
		}
		if !seen[pkg] {
			seen[pkg] = true
			packages = append(packages, pkg)
		}
	}
	sort.Strings(packages)
	return packages, nil
}

// packageForFile walks from the file's directory up to the repo root
// looking for the nearest Cargo.toml and returns its package name.
func packageForFile(file, root string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(abs)
	for {
		manifest := filepath.Join(dir, "Cargo.toml")
		if _, err := os.Stat(manifest); err == nil {
			return packageName(manifest), nil
		}
		if dir == root {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no Cargo.toml found above %s", file)
}

// packageName reads [package] name from a manifest, falling back to the
// manifest's directory name (virtual workspace roots have no [package]).
func packageName(manifest string) string {
	var doc struct {
		Package struct {
			Name string `toml:"name"`
		} `toml:"package"`
	}
	if _, err := toml.DecodeFile(manifest, &doc); err == nil && doc.Package.Name != "" {
		return doc.Package.Name
	}
	return filepath.Base(filepath.Dir(manifest))
}

func runCargoFmt(root string, packages []string, opts Options) error {
	args := []string{"fmt"}
	for _, pkg := range packages {
		args = append(args, "-p", pkg)
	}
	return runCargo(root, opts, args...)
}

func runCargoClippy(root string, packages []string, opts Options) error {
	args := []string{"clippy"}
	for _, pkg := range packages {
		args = append(args, "-p", pkg)
	}
	args = append(args, "--all-targets", "--", "-D", "warnings")
	return runCargo(root, opts, args...)
}

func runCargo(root string, opts Options, args ...string) error {
	cargoPath := opts.CargoPath
	if cargoPath == "" {
		cargoPath = "cargo"
	}

	if !opts.Quiet {
		fmt.Fprintf(os.Stderr, "running %s %s\n", cargoPath, strings.Join(args, " "))
	}

	cmd := exec.Command(cargoPath, args...)
	cmd.Dir = root
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &ToolError{Tool: "cargo " + args[0], Err: err}
	}
	return nil
}

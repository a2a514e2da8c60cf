package main

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the .rspolish.toml configuration file.
type Config struct {
	Polish ConfigPolish `toml:"polish"`
	Files  ConfigFiles  `toml:"files"`
	Tools  ConfigTools  `toml:"tools"`
}

// ConfigPolish holds switches for the rewrite phases.
type ConfigPolish struct {
	Grouping *bool `toml:"grouping"`
	Fmt      *bool `toml:"fmt"`
	Clippy   *bool `toml:"clippy"`
	Verify   *bool `toml:"verify"`
}

// ConfigFiles holds file-selection config.
type ConfigFiles struct {
	Exclude []string `toml:"exclude"`
}

// ConfigTools holds external-tool config.
type ConfigTools struct {
	Cargo string `toml:"cargo"`
	Jobs  int    `toml:"jobs"`
}

// findConfigFile walks up from the current directory to find .rspolish.toml,
// stopping at the repository root (directory containing .git).
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, ".rspolish.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		// Check if we're at a repo root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "" // reached repo root without finding config
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "" // reached filesystem root
		}
		dir = parent
	}
}

// LoadConfig reads and parses a .rspolish.toml file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MergeConfig applies config file values to opts, but only for fields not
// explicitly set via CLI flags. The setFlags map contains flag names that
// were explicitly passed on the command line.
func MergeConfig(opts *Options, cfg *Config, setFlags map[string]bool) {
	if cfg == nil {
		return
	}

	if cfg.Polish.Grouping != nil && !setFlags["no-grouping"] {
		opts.NoGrouping = !*cfg.Polish.Grouping
	}
	if cfg.Polish.Fmt != nil && !setFlags["no-fmt"] {
		opts.NoFmt = !*cfg.Polish.Fmt
	}
	if cfg.Polish.Clippy != nil && !setFlags["no-clippy"] {
		opts.NoClippy = !*cfg.Polish.Clippy
	}
	if cfg.Polish.Verify != nil && !setFlags["verify"] {
		opts.Verify = *cfg.Polish.Verify
	}

	if len(cfg.Files.Exclude) > 0 && !setFlags["exclude"] {
		opts.Exclude = cfg.Files.Exclude
	}

	if cfg.Tools.Cargo != "" && !setFlags["cargo"] {
		opts.CargoPath = cfg.Tools.Cargo
	}
	if cfg.Tools.Jobs > 0 && !setFlags["jobs"] {
		opts.Jobs = cfg.Tools.Jobs
	}
}

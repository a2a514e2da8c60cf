package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	changeColor  = color.New(color.FgYellow)
)

func successMark() string {
	return successColor.Sprint("ok")
}

func wouldChangeMark() string {
	return changeColor.Sprint("would change")
}

func main() {
	opts := Options{}
	var excludes multiFlag

	flag.BoolVar(&opts.Check, "c", false, "Exit non-zero if a file would change (for CI)")
	flag.BoolVar(&opts.Check, "check", false, "Exit non-zero if a file would change (for CI)")
	flag.BoolVar(&opts.Diff, "d", false, "Print unified diff of changes")
	flag.BoolVar(&opts.Diff, "diff", false, "Print unified diff of changes")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Report what would change without writing")
	flag.BoolVar(&opts.Stdout, "stdout", false, "Print rewritten content to stdout instead of writing")
	flag.BoolVar(&opts.Verify, "verify", false, "Check content integrity and stability before writing")
	flag.BoolVar(&opts.NoGrouping, "no-grouping", false, "Skip the declaration/manifest rewrite phase")
	flag.BoolVar(&opts.NoFmt, "no-fmt", false, "Skip cargo fmt on affected packages")
	flag.BoolVar(&opts.NoClippy, "no-clippy", false, "Skip cargo clippy on affected packages")
	flag.BoolVar(&opts.Recursive, "r", false, "Recursively process all .rs files and Cargo.toml in directories")
	flag.BoolVar(&opts.Recursive, "recursive", false, "Recursively process all .rs files and Cargo.toml in directories")
	flag.BoolVar(&opts.Verbose, "v", false, "Print declaration classification per file")
	flag.BoolVar(&opts.Verbose, "verbose", false, "Print declaration classification per file")
	flag.BoolVar(&opts.Quiet, "q", false, "Suppress progress messages")
	flag.BoolVar(&opts.Quiet, "quiet", false, "Suppress progress messages")
	flag.Var(&excludes, "exclude", "Glob patterns for paths to skip (repeatable)")
	flag.StringVar(&opts.CargoPath, "cargo", "", "Path to cargo binary")
	flag.IntVar(&opts.Jobs, "jobs", 0, "Max concurrent file workers (0 = GOMAXPROCS)")
	flag.StringVar(&opts.ConfigFile, "config", "", "Path to .rspolish.toml config file")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: rspolish [OPTIONS] [FILE|DIR]...\n\n")
		fmt.Fprintf(os.Stderr, "Regroup mod/use declarations in Rust sources and sort Cargo.toml\n")
		fmt.Fprintf(os.Stderr, "dependency tables. With no arguments, processes files changed since\n")
		fmt.Fprintf(os.Stderr, "the previous commit and runs cargo fmt/clippy on affected packages.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()
	opts.Exclude = []string(excludes)

	// Track which flags were explicitly set on the command line
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		setFlags[f.Name] = true
	})

	// Load .rspolish.toml config if available
	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = findConfigFile()
	}
	if configPath != "" {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load config %s: %v\n", configPath, err)
		} else {
			MergeConfig(&opts, cfg, setFlags)
		}
	}

	os.Exit(run(flag.Args(), opts))
}

func run(args []string, opts Options) int {
	gitMode := len(args) == 0

	var files []string
	var root string
	if gitMode {
		if !isGitRepo() {
			fmt.Fprintf(os.Stderr, "error: not in a git repository (pass files or directories explicitly)\n")
			return 4
		}
		var err error
		root, err = gitRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 4
		}
		changed, err := changedFiles(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 4
		}
		for _, f := range changed {
			if classifyPath(f) == pathIgnore || excluded(f, root, opts.Exclude) {
				continue
			}
			files = append(files, f)
		}
		files = dedupePaths(files)
		if len(files) == 0 {
			if !opts.Quiet {
				fmt.Fprintln(os.Stderr, "no files changed since the previous commit")
			}
			return 0
		}
	} else {
		var err error
		files, err = collectFiles(args, opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 4
		}
		if len(files) == 0 {
			fmt.Fprintf(os.Stderr, "error: no .rs files or Cargo.toml found\n")
			return 4
		}
	}

	exitCode := 0
	if !opts.NoGrouping {
		exitCode = processAll(files, opts)
	}

	// Toolchain phase. Check/dry-run/stdout modes never touch the working
	// tree, so running cargo over it would report stale state.
	if opts.Check || opts.DryRun || opts.Stdout {
		return exitCode
	}
	if opts.NoFmt && opts.NoClippy {
		return exitCode
	}

	var rustFiles []string
	for _, f := range files {
		if classifyPath(f) == pathRust {
			rustFiles = append(rustFiles, f)
		}
	}
	if len(rustFiles) == 0 {
		return exitCode
	}

	if root == "" {
		if !isGitRepo() {
			if !opts.Quiet {
				fmt.Fprintln(os.Stderr, "skipping cargo checks: not in a git repository")
			}
			return exitCode
		}
		var err error
		root, err = gitRoot()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return maxCode(exitCode, 4)
		}
	}

	packages, err := affectedPackages(rustFiles, root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return maxCode(exitCode, 4)
	}
	if !opts.Quiet {
		fmt.Fprintf(os.Stderr, "affected packages: %s\n", strings.Join(packages, ", "))
	}

	if !opts.NoFmt {
		if err := runCargoFmt(root, packages, opts); err != nil {
			return toolFailure(exitCode, err)
		}
	}
	if !opts.NoClippy {
		if err := runCargoClippy(root, packages, opts); err != nil {
			return toolFailure(exitCode, err)
		}
	}

	if exitCode == 0 && !opts.Quiet {
		fmt.Fprintf(os.Stderr, "%s all checks passed\n", successMark())
	}
	return exitCode
}

func toolFailure(exitCode int, err error) int {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return maxCode(exitCode, 2)
	}
	return maxCode(exitCode, 4)
}

func maxCode(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// fileResult carries one worker's exit code and buffered output so
// workers never interleave writes to the shared streams.
type fileResult struct {
	code int
	log  strings.Builder
	out  strings.Builder
}

// processAll rewrites files concurrently, then replays each result's
// output in input order so runs are reproducible.
func processAll(files []string, opts Options) int {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Indexed results: each goroutine owns one slot, no mutex needed.
	results := make([]*fileResult, len(files))

	var g errgroup.Group
	g.SetLimit(min(jobs, len(files)))
	for i, file := range files {
		g.Go(func() error {
			results[i] = processFile(file, opts)
			return nil
		})
	}
	// Workers never return errors; failures are carried in results.
	_ = g.Wait()

	exitCode := 0
	for _, res := range results {
		if res.log.Len() > 0 {
			fmt.Fprint(os.Stderr, res.log.String())
		}
		if res.out.Len() > 0 {
			fmt.Print(res.out.String())
		}
		if res.code > exitCode {
			exitCode = res.code
		}
	}
	return exitCode
}

func processFile(file string, opts Options) *fileResult {
	res := &fileResult{}

	info, err := os.Stat(file)
	if err != nil {
		fmt.Fprintf(&res.log, "error reading %s: %v\n", file, err)
		res.code = 4
		return res
	}
	fileMode := info.Mode()

	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(&res.log, "error reading %s: %v\n", file, err)
		res.code = 4
		return res
	}
	original := string(content)

	var transform func(string) string
	var label string
	if classifyPath(file) == pathManifest {
		transform = OrganizeManifest
		label = "organized"
	} else {
		transform = GroupDeclarations
		label = "grouped"
	}
	rewritten := transform(original)

	// Verbose output
	if opts.Verbose && classifyPath(file) == pathRust {
		fmt.Fprint(&res.log, VerboseReport(original))
	}

	// No changes needed
	if original == rewritten {
		if !opts.Quiet && (opts.Check || opts.DryRun) {
			fmt.Fprintf(&res.log, "%s: no changes needed\n", file)
		}
		if opts.Stdout {
			res.out.WriteString(original)
		}
		return res
	}

	// Verify (if requested)
	if opts.Verify && !opts.DryRun {
		if err := Verify(original, rewritten, transform); err != nil {
			fmt.Fprintf(&res.log, "error: %s: %v\n", file, err)
			res.code = 2
			return res
		}
	}

	// Check mode
	if opts.Check {
		fmt.Fprintf(&res.log, "%s: %s\n", file, wouldChangeMark())
		if opts.Diff {
			res.out.WriteString(DiffStrings(original, rewritten, file+" (original)", file+" (polished)"))
		}
		res.code = 1
		return res
	}

	// Dry run
	if opts.DryRun {
		fmt.Fprintf(&res.log, "%s: %s\n", file, wouldChangeMark())
		if opts.Diff {
			res.out.WriteString(DiffStrings(original, rewritten, file+" (original)", file+" (polished)"))
		}
		return res
	}

	// Stdout mode
	if opts.Stdout {
		res.out.WriteString(rewritten)
		return res
	}

	// Default: write in place
	if err := writeFileAtomic(file, rewritten, fileMode.Perm()); err != nil {
		fmt.Fprintf(&res.log, "error writing %s: %v\n", file, err)
		res.code = 4
		return res
	}
	if opts.Diff {
		res.out.WriteString(DiffStrings(original, rewritten, file+" (original)", file+" (polished)"))
	}
	if !opts.Quiet {
		fmt.Fprintf(&res.log, "%s: %s\n", file, label)
	}
	return res
}

// multiFlag implements flag.Value for repeatable string flags.
type multiFlag []string

func (f *multiFlag) String() string {
	return strings.Join(*f, ", ")
}

func (f *multiFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

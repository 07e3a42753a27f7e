package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/artagon/artagon-cli/internal/cli"
	"github.com/artagon/artagon-cli/internal/config"
	"github.com/artagon/artagon-cli/internal/history"
	"github.com/spf13/pflag"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run is the dispatcher: it parses global flags, resolves the command path
// against the registry, and maps handler outcomes to exit codes. Exit codes:
// 0 success, 1 handled runtime error, 2 usage error or unknown command path.
func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("artagon", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	// Stop global parsing at the first command token so handler flags like
	// "release run --version" are not consumed here.
	fs.SetInterspersed(false)
	dryRun := fs.Bool("dry-run", false, "echo side-effecting commands instead of executing them")
	cfgPath := fs.String("config", "", "config file (default is .artagonrc at the repo root)")
	verbose := fs.Bool("verbose", false, "echo each executed command to stderr")
	showVersion := fs.Bool("version", false, "print version information and exit")
	// Help is printed explicitly below so the command listing and flag
	// listing land on the same stream.
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printHelp(stdout, fs, *cfgPath)
			return 0
		}
		return 2
	}
	if *showVersion {
		fmt.Fprintln(stdout, versionString())
		return 0
	}

	root, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "Error: resolving working directory: %v\n", err)
		return 1
	}

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath(root)
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	ctx := cli.NewContext(root, cfg)
	ctx.DryRun = *dryRun
	ctx.Verbose = *verbose
	ctx.Stdout = stdout
	ctx.Stderr = stderr

	reg := cli.NewRegistry()
	if err := registerCommands(reg, cfg.Defaults.Language); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tokens := fs.Args()
	if len(tokens) == 0 {
		printUsage(stderr, reg)
		return 2
	}

	spec, rest, ok := reg.Find(tokens)
	if !ok {
		fmt.Fprintf(stderr, "Unknown command path: %s\n", strings.Join(tokens, " "))
		return 2
	}

	start := time.Now()
	code := exitCode(stderr, spec.Handler(ctx, rest))
	recordInvocation(cfg, root, spec.Path, rest, *dryRun, code, start)
	return code
}

// exitCode translates a handler error into the process exit status, printing
// the handled-error line for expected failures. Usage errors have already
// written their message to stderr.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, cli.ErrUsage) {
		return 2
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// recordInvocation appends the command to the audit log. Failures are
// swallowed: a broken log must never change the command's outcome.
func recordInvocation(cfg *config.Config, root, path string, args []string, dryRun bool, code int, start time.Time) {
	dbPath := cfg.HistoryPath(root)
	if dbPath == "" {
		return
	}
	_ = history.Append(dbPath, history.Entry{
		Path:      path,
		Args:      strings.Join(args, " "),
		DryRun:    dryRun,
		ExitCode:  code,
		StartedAt: start,
		Duration:  time.Since(start),
	})
}

// printHelp renders the full --help listing: commands registered for the
// configured language, then the global flags.
func printHelp(w io.Writer, fs *pflag.FlagSet, cfgPath string) {
	root, err := os.Getwd()
	if err != nil {
		root = "."
	}
	if cfgPath == "" {
		cfgPath = config.DefaultPath(root)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		cfg = config.Default()
	}
	reg := cli.NewRegistry()
	if err := registerCommands(reg, cfg.Defaults.Language); err == nil {
		printUsage(w, reg)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Flags:")
	fmt.Fprint(w, fs.FlagUsages())
}

func printUsage(w io.Writer, reg *cli.Registry) {
	fmt.Fprintln(w, "usage: artagon [--dry-run] [--verbose] [--config PATH] <command> [args]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, spec := range reg.Specs() {
		fmt.Fprintf(tw, "  %s\t%s\n", spec.Path, spec.Help)
	}
	tw.Flush()
}

func versionString() string {
	if Version == "dev" {
		return "artagon dev (built from source)"
	}
	return fmt.Sprintf("artagon %s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/artagon/artagon-cli/internal/config"
)

// Context is the shared execution context passed to every command handler
// and pipeline step. It is created once per CLI invocation and treated as
// read-only by steps; per-handler mutable state lives in handler-local
// options values instead.
type Context struct {
	// Root is the repository root commands run from.
	Root string
	// Env is a snapshot of the process environment taken at construction,
	// so commands are insulated from later environment mutations.
	Env map[string]string
	// DryRun suppresses non-read-only external invocations.
	DryRun bool
	// Verbose echoes each real invocation to Stderr.
	Verbose bool
	// Config holds values loaded from .artagonrc.
	Config *config.Config

	Stdout io.Writer
	Stderr io.Writer
}

// NewContext builds a context rooted at root with a snapshot of the current
// process environment.
func NewContext(root string, cfg *config.Config) *Context {
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return &Context{
		Root:   root,
		Env:    env,
		Config: cfg,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// RunOptions controls a single external process invocation.
type RunOptions struct {
	// Check turns a non-zero exit into a *ProcessError.
	Check bool
	// Capture collects stdout into the result instead of streaming it.
	Capture bool
	// Dir overrides the working directory (defaults to Context.Root).
	Dir string
	// ReadOnly marks the invocation as safe to execute under dry-run, for
	// commands whose output the plan depends on (e.g. the current branch).
	ReadOnly bool
}

// RunResult is the outcome of an external process invocation. Under dry-run
// suppression it is a synthetic success indistinguishable from a real one.
// Stdout and Stderr are captured separately so steps that parse stdout (the
// clean check, branch inference) are not confused by diagnostics on stderr.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Run invokes an external command respecting the context configuration.
// Under dry-run, non-read-only calls are echoed instead of executed and
// return a synthetic success so pipelines can be simulated end to end.
func (c *Context) Run(args []string, opts RunOptions) (RunResult, error) {
	if len(args) == 0 {
		return RunResult{}, fmt.Errorf("empty command")
	}
	if c.DryRun && !opts.ReadOnly {
		fmt.Fprintf(c.Stdout, "[dry-run] %s\n", strings.Join(args, " "))
		return RunResult{}, nil
	}
	if c.Verbose {
		fmt.Fprintf(c.Stderr, "+ %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Dir = opts.Dir
	if cmd.Dir == "" {
		cmd.Dir = c.Root
	}
	cmd.Env = c.envSlice()

	var outBuf, errBuf bytes.Buffer
	if opts.Capture {
		cmd.Stdout = &outBuf
		cmd.Stderr = &errBuf
	} else {
		cmd.Stdout = c.Stdout
		cmd.Stderr = c.Stderr
	}

	err := cmd.Run()
	result := RunResult{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// The command never started (e.g. binary not found).
		return result, fmt.Errorf("running %q: %w", args[0], err)
	}
	result.ExitCode = exitErr.ExitCode()
	if opts.Check {
		return result, &ProcessError{
			Args:     args,
			ExitCode: result.ExitCode,
			Output:   result.Stdout + result.Stderr,
			Err:      err,
		}
	}
	return result, nil
}

// Getenv reads a variable from the environment snapshot.
func (c *Context) Getenv(key string) string {
	return c.Env[key]
}

func (c *Context) envSlice() []string {
	env := make([]string, 0, len(c.Env))
	for k, v := range c.Env {
		env = append(env, k+"="+v)
	}
	return env
}

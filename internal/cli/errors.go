package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// ErrUsage marks argument-parsing failures. The dispatcher exits with the
// usage status (2) without printing an additional error line; handlers are
// expected to have written their usage text to the context's stderr already.
var ErrUsage = errors.New("usage error")

// ParseError maps a handler flag-set parse result onto the dispatcher's
// exit contract: --help is a clean exit (pflag has already printed the flag
// listing), any other failure is a usage error.
func ParseError(err error) error {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	return ErrUsage
}

// PreconditionError is an expected failure raised by a pipeline step (dirty
// working tree, missing version, ...). The dispatcher prints it as
// "Error: <message>" and exits 1, without a stack trace.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }

// Preconditionf builds a PreconditionError from a format string.
func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Message: fmt.Sprintf(format, args...)}
}

// ProcessError reports a non-zero exit from an invoked external tool.
type ProcessError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *ProcessError) Unwrap() error { return e.Err }

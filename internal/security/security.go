// Package security maintains dependency security baselines by delegating to
// the repository's security script.
package security

import (
	"fmt"
	"path/filepath"

	"github.com/artagon/artagon-cli/internal/cli"
)

// scriptPath is the baseline maintenance script, relative to the repo root.
const scriptPath = "scripts/security/mvn_update_security.sh"

// Register adds the security command family for a language to the registry.
func Register(reg *cli.Registry, lang string) error {
	specs := []cli.Spec{
		{
			Path:    lang + " security update",
			Help:    "Regenerate dependency security baselines.",
			Handler: handleMode("--update"),
		},
		{
			Path:    lang + " security verify",
			Help:    "Verify dependency security baselines.",
			Handler: handleMode("--verify"),
		},
	}
	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

func handleMode(flag string) cli.Handler {
	return func(ctx *cli.Context, args []string) error {
		if len(args) > 0 {
			fmt.Fprintf(ctx.Stderr, "unexpected argument: %s\n", args[0])
			return cli.ErrUsage
		}
		script := filepath.Join(ctx.Root, scriptPath)
		_, err := ctx.Run([]string{"bash", script, flag}, cli.RunOptions{Check: true})
		return err
	}
}

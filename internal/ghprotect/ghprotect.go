// Package ghprotect applies GitHub branch protection via the repository's
// protection script.
package ghprotect

import (
	"fmt"
	"path/filepath"

	"github.com/artagon/artagon-cli/internal/cli"
	"github.com/spf13/pflag"
)

// scriptPath is the branch protection script, relative to the repo root.
const scriptPath = "scripts/ci/gh_protect_main_team.sh"

// Register adds the gh command family for a language to the registry.
func Register(reg *cli.Registry, lang string) error {
	return reg.Register(cli.Spec{
		Path:    lang + " gh protect",
		Help:    "Apply branch protection to the configured repository.",
		Handler: handleProtect,
	})
}

func handleProtect(ctx *cli.Context, args []string) error {
	fs := pflag.NewFlagSet("gh protect", pflag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	branch := fs.String("branch", "main", "target branch")
	if err := fs.Parse(args); err != nil {
		return cli.ParseError(err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(ctx.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		return cli.ErrUsage
	}

	repo := ctx.Config.Defaults.Repo
	if repo == "" {
		repo = filepath.Base(ctx.Root)
	}
	command := []string{
		"bash", filepath.Join(ctx.Root, scriptPath),
		"--repo", repo,
		"--branch", *branch,
		"--force",
	}
	if owner := ctx.Config.Defaults.Owner; owner != "" {
		command = append(command, "--owner", owner)
	}
	_, err := ctx.Run(command, cli.RunOptions{Check: true})
	return err
}

// Package snapshot implements SNAPSHOT build publishing.
package snapshot

import (
	"fmt"

	"github.com/artagon/artagon-cli/internal/cli"
)

// Register adds the snapshot command family for a language to the registry.
func Register(reg *cli.Registry, lang string) error {
	return reg.Register(cli.Spec{
		Path:    lang + " snapshot publish",
		Help:    "Publish a " + lang + " SNAPSHOT build to the staging repository.",
		Handler: handlePublish,
	})
}

func handlePublish(ctx *cli.Context, args []string) error {
	if len(args) > 0 {
		fmt.Fprintf(ctx.Stderr, "unexpected argument: %s\n", args[0])
		return cli.ErrUsage
	}
	_, err := ctx.Run([]string{"mvn", "clean", "deploy", "-Possrh-deploy,artagon-oss-release"},
		cli.RunOptions{Check: true})
	return err
}

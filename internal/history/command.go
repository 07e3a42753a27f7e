package history

import (
	"fmt"
	"text/tabwriter"

	"github.com/artagon/artagon-cli/internal/cli"
	"github.com/spf13/pflag"
)

// Register adds the history command to the registry.
func Register(reg *cli.Registry) error {
	return reg.Register(cli.Spec{
		Path:    "history",
		Help:    "List recently recorded CLI invocations.",
		Handler: handleList,
	})
}

func handleList(ctx *cli.Context, args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	limit := fs.Int("limit", 20, "maximum number of entries to show")
	if err := fs.Parse(args); err != nil {
		return cli.ParseError(err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(ctx.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		return cli.ErrUsage
	}

	dbPath := ctx.Config.HistoryPath(ctx.Root)
	if dbPath == "" {
		return cli.Preconditionf("history recording is disabled")
	}
	store, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(*limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(ctx.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tCOMMAND\tARGS\tDRY\tEXIT\tTOOK")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%d\t%s\n",
			e.StartedAt.Local().Format("2006-01-02 15:04:05"),
			e.Path, e.Args, e.DryRun, e.ExitCode, e.Duration)
	}
	return w.Flush()
}

package release

import (
	"fmt"

	"github.com/artagon/artagon-cli/internal/cli"
	"github.com/spf13/pflag"
)

// Register adds the release command family for a language to the registry.
// Leaf paths are registered individually so the dispatcher's longest-prefix
// resolution picks the most specific command.
func Register(reg *cli.Registry, lang string) error {
	specs := []cli.Spec{
		{
			Path:    lang + " release",
			Help:    "Manage " + lang + " release workflows.",
			Handler: handleUsage(lang),
		},
		{
			Path:    lang + " release run",
			Help:    "Execute the full release pipeline for the current branch.",
			Handler: handleRun,
		},
		{
			Path:    lang + " release tag",
			Help:    "Create and publish a release tag.",
			Handler: handleTag,
		},
		{
			Path:    lang + " release branch cut",
			Help:    "Create a release branch from main.",
			Handler: handleBranchCut,
		},
		{
			Path:    lang + " release branch stage",
			Help:    "Validate a release branch and optionally deploy to staging.",
			Handler: handleBranchStage,
		},
	}
	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// handleUsage catches bare "release" invocations and unknown subcommands
// that fell back to the family prefix.
func handleUsage(lang string) cli.Handler {
	return func(ctx *cli.Context, args []string) error {
		if len(args) > 0 {
			fmt.Fprintf(ctx.Stderr, "unknown release subcommand: %s\n", args[0])
		}
		fmt.Fprintf(ctx.Stderr, "usage: artagon %s release <run|tag|branch cut|branch stage>\n", lang)
		return cli.ErrUsage
	}
}

func handleRun(ctx *cli.Context, args []string) error {
	fs := pflag.NewFlagSet("release run", pflag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	version := fs.String("version", "", "explicit release version (defaults to branch inference)")
	allowMismatch := fs.Bool("allow-branch-mismatch", false, "allow release version to differ from the release-* branch name")
	if err := fs.Parse(args); err != nil {
		return cli.ParseError(err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(ctx.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		return cli.ErrUsage
	}
	opts := &Options{
		Action:        ActionRun,
		Version:       *version,
		AllowMismatch: *allowMismatch,
	}
	return execute(ctx, opts)
}

func handleTag(ctx *cli.Context, args []string) error {
	fs := pflag.NewFlagSet("release tag", pflag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	if err := fs.Parse(args); err != nil {
		return cli.ParseError(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(ctx.Stderr, "usage: artagon <lang> release tag <version>")
		return cli.ErrUsage
	}
	opts := &Options{Action: ActionTag, Version: fs.Arg(0)}
	return execute(ctx, opts)
}

func handleBranchCut(ctx *cli.Context, args []string) error {
	fs := pflag.NewFlagSet("release branch cut", pflag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	if err := fs.Parse(args); err != nil {
		return cli.ParseError(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(ctx.Stderr, "usage: artagon <lang> release branch cut <version>")
		return cli.ErrUsage
	}
	opts := &Options{Action: ActionBranchCut, Version: fs.Arg(0)}
	return execute(ctx, opts)
}

func handleBranchStage(ctx *cli.Context, args []string) error {
	fs := pflag.NewFlagSet("release branch stage", pflag.ContinueOnError)
	fs.SetOutput(ctx.Stderr)
	deploy := fs.Bool("deploy", false, "deploy artifacts to staging after validation")
	allowMismatch := fs.Bool("allow-branch-mismatch", false, "allow branch naming mismatch when staging")
	if err := fs.Parse(args); err != nil {
		return cli.ParseError(err)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(ctx.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		return cli.ErrUsage
	}
	opts := &Options{
		Action:        ActionBranchStage,
		Deploy:        *deploy,
		AllowMismatch: *allowMismatch,
	}
	return execute(ctx, opts)
}

func execute(ctx *cli.Context, opts *Options) error {
	steps, err := buildSteps(opts)
	if err != nil {
		return err
	}
	return cli.Pipeline(steps...)(ctx)
}

// buildSteps assembles the ordered step list for an action. The dispatch is
// exhaustive: an action outside the closed set is an error, never a silently
// empty pipeline.
func buildSteps(opts *Options) ([]cli.Step, error) {
	steps := []cli.Step{ensureRepositoryClean()}
	if opts.Action != ActionBranchCut {
		steps = append(steps, ensureReleaseBranch(opts))
	}
	steps = append(steps, logReleasePlan(opts))

	switch opts.Action {
	case ActionRun:
		steps = append(steps,
			validateBuild(),
			updateVersionsToRelease(opts),
			updateChecksums(),
			commitRelease(opts),
			deployRelease(),
			bumpToNextSnapshot(opts),
			commitNextIteration(),
			summarizeRelease(opts),
		)
	case ActionTag:
		steps = append(steps, createReleaseTag(opts))
	case ActionBranchCut:
		steps = append(steps, createReleaseBranch(opts))
	case ActionBranchStage:
		steps = append(steps, validateBuild())
		if opts.Deploy {
			steps = append(steps, deployRelease())
		}
		steps = append(steps, summarizeStage(opts))
	default:
		return nil, fmt.Errorf("unhandled release action %d", opts.Action)
	}
	return steps, nil
}

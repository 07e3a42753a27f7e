package release

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/artagon/artagon-cli/internal/cli"
)

const (
	// EnvSkipGitClean bypasses the clean-working-tree check.
	EnvSkipGitClean = "ARTAGON_SKIP_GIT_CLEAN"
	// EnvSkipReleaseSteps stubs out all side-effecting release steps,
	// printing a skip notice instead. Intended for pipeline-shape tests.
	EnvSkipReleaseSteps = "ARTAGON_SKIP_RELEASE_STEPS"

	bomDirName    = "artagon-bom"
	parentDirName = "artagon-parent"

	deployProfiles = "-Possrh-deploy,artagon-oss-release"
)

var snapshotVersionRe = regexp.MustCompile(`<version>.*-SNAPSHOT</version>`)

func skipReleaseSteps(ctx *cli.Context) bool {
	return ctx.Getenv(EnvSkipReleaseSteps) == "1"
}

// ensureRepositoryClean fails when the working tree has uncommitted changes.
// The git query is read-only so it still runs under dry-run.
func ensureRepositoryClean() cli.Step {
	return func(ctx *cli.Context) error {
		if ctx.Getenv(EnvSkipGitClean) == "1" {
			return nil
		}
		res, err := ctx.Run([]string{"git", "status", "--porcelain"},
			cli.RunOptions{Check: true, Capture: true, ReadOnly: true})
		if err != nil {
			return err
		}
		if strings.TrimSpace(res.Stdout) != "" {
			return cli.Preconditionf("working tree is not clean; commit or stash changes")
		}
		return nil
	}
}

// ensureReleaseBranch infers the current branch, records it in opts, and
// enforces the release-* naming convention for actions that require it. The
// version is inferred from the branch name when not given explicitly.
func ensureReleaseBranch(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		res, err := ctx.Run([]string{"git", "symbolic-ref", "--short", "HEAD"},
			cli.RunOptions{Check: true, Capture: true, ReadOnly: true})
		if err != nil {
			return err
		}
		branch := strings.TrimSpace(res.Stdout)
		if branch == "" {
			return cli.Preconditionf("unable to determine current branch")
		}
		opts.Branch = branch

		switch opts.Action {
		case ActionRun, ActionTag, ActionBranchStage:
		default:
			return nil
		}

		if !strings.HasPrefix(branch, "release-") {
			if !opts.AllowMismatch {
				return cli.Preconditionf("release commands must run from a release-* branch; current: %s", branch)
			}
			return nil
		}
		branchVersion := strings.TrimPrefix(branch, "release-")
		if opts.Version == "" {
			opts.Version = branchVersion
		} else if opts.Version != branchVersion && !opts.AllowMismatch {
			return cli.Preconditionf("branch (%s) does not match version %s; use --allow-branch-mismatch to override",
				branch, opts.Version)
		}
		return nil
	}
}

func logReleasePlan(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		fmt.Fprintf(ctx.Stdout, "[PLAN] %s release action=%s, version=%s, deploy=%t\n",
			ctx.Config.Defaults.Language, opts.Action, opts.Version, opts.Deploy)
		return nil
	}
}

func validateBuild() cli.Step {
	return func(ctx *cli.Context) error {
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] validate build")
			return nil
		}
		_, err := ctx.Run([]string{"mvn", "clean", "verify"}, cli.RunOptions{Check: true})
		return err
	}
}

// setModuleVersions runs the maven versions plugin in both managed modules.
func setModuleVersions(ctx *cli.Context, version string) error {
	for _, dir := range []string{bomDirName, parentDirName} {
		moduleDir := filepath.Join(ctx.Root, dir)
		if _, err := ctx.Run([]string{"mvn", "versions:set", "-DnewVersion=" + version},
			cli.RunOptions{Check: true, Dir: moduleDir}); err != nil {
			return err
		}
		if _, err := ctx.Run([]string{"mvn", "versions:commit"},
			cli.RunOptions{Check: true, Dir: moduleDir}); err != nil {
			return err
		}
	}
	return nil
}

// rewriteFirst replaces the first match of re in the file with repl. Under
// dry-run the rewrite is echoed instead of performed, keeping simulated
// pipelines free of side effects.
func rewriteFirst(ctx *cli.Context, path string, re *regexp.Regexp, repl string) error {
	if ctx.DryRun {
		fmt.Fprintf(ctx.Stdout, "[dry-run] rewrite %s\n", path)
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	loc := re.FindIndex(data)
	if loc == nil {
		return nil
	}
	updated := append([]byte{}, data[:loc[0]]...)
	updated = append(updated, repl...)
	updated = append(updated, data[loc[1]:]...)
	if err := os.WriteFile(path, updated, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func updateVersionsToRelease(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		if opts.Version == "" {
			return cli.Preconditionf("release version is not set")
		}
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] update versions to release")
			return nil
		}
		if err := setModuleVersions(ctx, opts.Version); err != nil {
			return err
		}
		parentPOM := filepath.Join(ctx.Root, parentDirName, "pom.xml")
		return rewriteFirst(ctx, parentPOM, snapshotVersionRe, "<version>"+opts.Version+"</version>")
	}
}

func updateChecksums() cli.Step {
	return func(ctx *cli.Context) error {
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] update checksums")
			return nil
		}
		bomDir := filepath.Join(ctx.Root, bomDirName)
		if _, err := ctx.Run([]string{"mvn", "clean", "verify"},
			cli.RunOptions{Check: true, Dir: bomDir}); err != nil {
			return err
		}
		src := filepath.Join(bomDir, "security", "artagon-bom-checksums.csv")
		dest := filepath.Join(ctx.Root, parentDirName, "security", "bom-checksums.csv")
		if ctx.DryRun {
			fmt.Fprintf(ctx.Stdout, "[dry-run] copy %s -> %s\n", src, dest)
			return nil
		}
		return copyFile(src, dest)
	}
}

func copyFile(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dest), err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()
	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dest, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copying to %s: %w", dest, err)
	}
	return out.Close()
}

func commitRelease(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		if opts.Version == "" {
			return cli.Preconditionf("release version is not set")
		}
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] commit release")
			return nil
		}
		commands := [][]string{
			{"git", "add", "."},
			{"git", "commit", "-m", "Release version " + opts.Version},
			{"git", "tag", "-a", "v" + opts.Version, "-m", "Release " + opts.Version},
		}
		for _, args := range commands {
			if _, err := ctx.Run(args, cli.RunOptions{Check: true}); err != nil {
				return err
			}
		}
		return nil
	}
}

func deployRelease() cli.Step {
	return func(ctx *cli.Context) error {
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] deploy release")
			return nil
		}
		_, err := ctx.Run([]string{"mvn", "clean", "deploy", deployProfiles}, cli.RunOptions{Check: true})
		return err
	}
}

func bumpToNextSnapshot(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		if opts.Version == "" {
			return cli.Preconditionf("release version is not set")
		}
		next, err := NextSnapshot(opts.Version)
		if err != nil {
			return err
		}
		opts.NextVersion = next
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] bump to next snapshot")
			return nil
		}
		if err := setModuleVersions(ctx, next); err != nil {
			return err
		}
		parentPOM := filepath.Join(ctx.Root, parentDirName, "pom.xml")
		releaseVersionRe := regexp.MustCompile(`<version>` + regexp.QuoteMeta(opts.Version) + `</version>`)
		return rewriteFirst(ctx, parentPOM, releaseVersionRe, "<version>"+next+"</version>")
	}
}

func commitNextIteration() cli.Step {
	return func(ctx *cli.Context) error {
		if skipReleaseSteps(ctx) {
			fmt.Fprintln(ctx.Stdout, "[skip] commit next iteration")
			return nil
		}
		if _, err := ctx.Run([]string{"git", "add", "."}, cli.RunOptions{Check: true}); err != nil {
			return err
		}
		_, err := ctx.Run([]string{"git", "commit", "-m", "Prepare for next development iteration"},
			cli.RunOptions{Check: true})
		return err
	}
}

func summarizeRelease(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		version := opts.Version
		if version == "" {
			version = "<unknown>"
		}
		branch := opts.Branch
		if branch == "" {
			branch = "<release-branch>"
		}
		fmt.Fprintln(ctx.Stdout, bannerStyle.Render(fmt.Sprintf("Release %s complete!", version)))
		fmt.Fprintln(ctx.Stdout, "Next steps:")
		fmt.Fprintf(ctx.Stdout, "1. Push to remote: git push origin %s --tags\n", branch)
		fmt.Fprintf(ctx.Stdout, "2. Open a pull request from %s back to main\n", branch)
		fmt.Fprintln(ctx.Stdout, "3. Release staging repo at: https://s01.oss.sonatype.org/")
		fmt.Fprintf(ctx.Stdout, "4. Create GitHub release for tag v%s\n", version)
		if opts.NextVersion != "" {
			fmt.Fprintf(ctx.Stdout, "Next development version: %s\n", opts.NextVersion)
		}
		return nil
	}
}

func createReleaseTag(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		if opts.Version == "" {
			return cli.Preconditionf("version is required for tagging")
		}
		tag := "v" + opts.Version
		if _, err := ctx.Run([]string{"git", "tag", "-a", tag, "-m", "Release " + opts.Version},
			cli.RunOptions{Check: true}); err != nil {
			return err
		}
		_, err := ctx.Run([]string{"git", "push", "origin", tag}, cli.RunOptions{Check: true})
		return err
	}
}

func createReleaseBranch(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		if opts.Version == "" {
			return cli.Preconditionf("version required to cut release branch")
		}
		branch := "release-" + opts.Version
		commands := [][]string{
			{"git", "fetch", "origin", "main"},
			{"git", "checkout", "-b", branch, "origin/main"},
			{"git", "push", "--set-upstream", "origin", branch},
		}
		for _, args := range commands {
			if _, err := ctx.Run(args, cli.RunOptions{Check: true}); err != nil {
				return err
			}
		}
		opts.Branch = branch
		return nil
	}
}

func summarizeStage(opts *Options) cli.Step {
	return func(ctx *cli.Context) error {
		branch := opts.Branch
		if branch == "" {
			branch = "<release-branch>"
		}
		fmt.Fprintf(ctx.Stdout, "Stage validation completed for %s.\n", branch)
		if opts.Deploy {
			fmt.Fprintln(ctx.Stdout, "Artifacts deployed to OSSRH staging. Review and release when ready.")
		} else {
			fmt.Fprintln(ctx.Stdout, "Run with --deploy to publish staging artifacts once validation passes.")
		}
		return nil
	}
}

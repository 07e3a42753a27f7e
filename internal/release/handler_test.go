package release

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/artagon/artagon-cli/internal/cli"
	"github.com/artagon/artagon-cli/internal/config"
)

// setupGitRepo creates a throwaway git repository checked out on branch.
func setupGitRepo(t *testing.T, branch string) string {
	t.Helper()
	dir := t.TempDir()

	cmds := [][]string{
		{"git", "init"},
		{"git", "config", "user.email", "test@test.com"},
		{"git", "config", "user.name", "Test"},
	}
	for _, args := range cmds {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v failed: %s", args, out)
		}
	}

	readme := filepath.Join(dir, "README.md")
	os.WriteFile(readme, []byte("# Test"), 0644)
	for _, args := range [][]string{
		{"git", "add", "."},
		{"git", "commit", "-m", "Initial commit"},
		{"git", "checkout", "-B", branch},
	} {
		cmd := exec.Command(args[0], args[1:]...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("%v failed: %s", args, out)
		}
	}
	return dir
}

func newTestContext(t *testing.T, root string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	ctx := cli.NewContext(root, config.Default())
	out := &bytes.Buffer{}
	ctx.Stdout = out
	ctx.Stderr = out
	delete(ctx.Env, EnvSkipGitClean)
	delete(ctx.Env, EnvSkipReleaseSteps)
	return ctx, out
}

func TestBuildSteps_CountsPerAction(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want int
	}{
		{name: "run", opts: Options{Action: ActionRun}, want: 11},
		{name: "tag", opts: Options{Action: ActionTag}, want: 4},
		{name: "branch cut", opts: Options{Action: ActionBranchCut}, want: 3},
		{name: "branch stage", opts: Options{Action: ActionBranchStage}, want: 5},
		{name: "branch stage deploy", opts: Options{Action: ActionBranchStage, Deploy: true}, want: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, err := buildSteps(&tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if len(steps) != tt.want {
				t.Errorf("len(steps) = %d, want %d", len(steps), tt.want)
			}
		})
	}
}

func TestBuildSteps_UnknownAction(t *testing.T) {
	if _, err := buildSteps(&Options{Action: Action(42)}); err == nil {
		t.Error("expected an error for an action outside the closed set")
	}
}

func TestHandleRun_DryRun(t *testing.T) {
	root := setupGitRepo(t, "release-1.2.3")
	ctx, out := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	if err := handleRun(ctx, []string{"--version", "1.2.3"}); err != nil {
		t.Fatalf("handleRun: %v\noutput:\n%s", err, out.String())
	}

	s := out.String()
	if !strings.Contains(s, "[PLAN]") || !strings.Contains(s, "version=1.2.3") {
		t.Errorf("output missing plan line:\n%s", s)
	}
	if !strings.Contains(s, "[dry-run] mvn clean verify") {
		t.Errorf("output missing suppressed build validation:\n%s", s)
	}
	if !strings.Contains(s, "Release 1.2.3 complete!") {
		t.Errorf("output missing summary:\n%s", s)
	}
	// The simulated pipeline must leave no trace on disk.
	if _, err := os.Stat(filepath.Join(root, "artagon-parent")); !os.IsNotExist(err) {
		t.Error("dry-run created files")
	}
}

func TestHandleRun_InfersVersionFromBranch(t *testing.T) {
	root := setupGitRepo(t, "release-2.5.0")
	ctx, out := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	if err := handleRun(ctx, nil); err != nil {
		t.Fatalf("handleRun: %v", err)
	}
	if !strings.Contains(out.String(), "version=2.5.0") {
		t.Errorf("version not inferred from branch:\n%s", out.String())
	}
}

func TestHandleRun_BranchMismatch(t *testing.T) {
	root := setupGitRepo(t, "release-1.2.3")
	ctx, _ := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	err := handleRun(ctx, []string{"--version", "9.9.9"})
	var pre *cli.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("err = %v, want *PreconditionError", err)
	}
	if !strings.Contains(pre.Message, "release-1.2.3") {
		t.Errorf("message = %q, want the offending branch named", pre.Message)
	}

	// The override disables the check.
	ctx2, _ := newTestContext(t, root)
	ctx2.DryRun = true
	ctx2.Env[EnvSkipGitClean] = "1"
	if err := handleRun(ctx2, []string{"--version", "9.9.9", "--allow-branch-mismatch"}); err != nil {
		t.Errorf("with --allow-branch-mismatch: %v", err)
	}
}

func TestHandleRun_NotReleaseBranch(t *testing.T) {
	root := setupGitRepo(t, "main-work")
	ctx, _ := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	err := handleRun(ctx, []string{"--version", "1.0.0"})
	var pre *cli.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("err = %v, want *PreconditionError", err)
	}
}

func TestHandleRun_DirtyTree(t *testing.T) {
	root := setupGitRepo(t, "release-1.2.3")
	os.WriteFile(filepath.Join(root, "dirty.txt"), []byte("x"), 0644)
	ctx, _ := newTestContext(t, root)
	ctx.DryRun = true

	err := handleRun(ctx, []string{"--version", "1.2.3"})
	var pre *cli.PreconditionError
	if !errors.As(err, &pre) {
		t.Fatalf("err = %v, want *PreconditionError for a dirty tree", err)
	}
	if !strings.Contains(pre.Message, "not clean") {
		t.Errorf("message = %q", pre.Message)
	}
}

func TestHandleRun_SkipReleaseSteps(t *testing.T) {
	root := setupGitRepo(t, "release-1.2.3")
	ctx, out := newTestContext(t, root)
	ctx.Env[EnvSkipGitClean] = "1"
	ctx.Env[EnvSkipReleaseSteps] = "1"

	if err := handleRun(ctx, []string{"--version", "1.2.3"}); err != nil {
		t.Fatalf("handleRun: %v\noutput:\n%s", err, out.String())
	}
	s := out.String()
	for _, notice := range []string{
		"[skip] validate build",
		"[skip] update versions to release",
		"[skip] update checksums",
		"[skip] commit release",
		"[skip] deploy release",
		"[skip] bump to next snapshot",
		"[skip] commit next iteration",
	} {
		if !strings.Contains(s, notice) {
			t.Errorf("output missing %q:\n%s", notice, s)
		}
	}
	if !strings.Contains(s, "Next development version: 1.2.4-SNAPSHOT") {
		t.Errorf("next version not computed:\n%s", s)
	}
}

func TestHandleTag_DryRun(t *testing.T) {
	root := setupGitRepo(t, "release-1.2.3")
	ctx, out := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	if err := handleTag(ctx, []string{"1.2.3"}); err != nil {
		t.Fatalf("handleTag: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "[dry-run] git tag -a v1.2.3") {
		t.Errorf("output missing tag echo:\n%s", s)
	}
	if !strings.Contains(s, "[dry-run] git push origin v1.2.3") {
		t.Errorf("output missing push echo:\n%s", s)
	}
}

func TestHandleBranchStage_DryRun(t *testing.T) {
	root := setupGitRepo(t, "release-1.2.3")
	ctx, out := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	if err := handleBranchStage(ctx, []string{"--deploy"}); err != nil {
		t.Fatalf("handleBranchStage: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "[dry-run] mvn clean deploy") {
		t.Errorf("output missing deploy echo:\n%s", s)
	}
	if !strings.Contains(s, "Stage validation completed for release-1.2.3.") {
		t.Errorf("output missing stage summary:\n%s", s)
	}
}

func TestHandleBranchCut_DryRun(t *testing.T) {
	root := setupGitRepo(t, "main-work")
	ctx, out := newTestContext(t, root)
	ctx.DryRun = true
	ctx.Env[EnvSkipGitClean] = "1"

	if err := handleBranchCut(ctx, []string{"3.0.0"}); err != nil {
		t.Fatalf("handleBranchCut: %v", err)
	}
	if !strings.Contains(out.String(), "[dry-run] git checkout -b release-3.0.0 origin/main") {
		t.Errorf("output missing branch creation echo:\n%s", out.String())
	}
}

func TestParseErrors(t *testing.T) {
	ctx, _ := newTestContext(t, t.TempDir())

	tests := []struct {
		name    string
		handler cli.Handler
		args    []string
	}{
		{name: "run unknown flag", handler: handleRun, args: []string{"--bogus"}},
		{name: "run stray arg", handler: handleRun, args: []string{"extra"}},
		{name: "tag missing version", handler: handleTag, args: nil},
		{name: "tag too many args", handler: handleTag, args: []string{"1.0", "2.0"}},
		{name: "cut missing version", handler: handleBranchCut, args: nil},
		{name: "stage stray arg", handler: handleBranchStage, args: []string{"extra"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.handler(ctx, tt.args); !errors.Is(err, cli.ErrUsage) {
				t.Errorf("err = %v, want ErrUsage", err)
			}
		})
	}
}

func TestHelpFlagSucceeds(t *testing.T) {
	ctx, out := newTestContext(t, t.TempDir())

	// --help prints the flag listing and exits cleanly, not as a usage error.
	if err := handleRun(ctx, []string{"--help"}); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
	if !strings.Contains(out.String(), "allow-branch-mismatch") {
		t.Errorf("output = %q, want the flag listing", out.String())
	}
}

func TestHandleUsage(t *testing.T) {
	ctx, _ := newTestContext(t, t.TempDir())
	if err := handleUsage("java")(ctx, []string{"bogus"}); !errors.Is(err, cli.ErrUsage) {
		t.Errorf("err = %v, want ErrUsage", err)
	}
}

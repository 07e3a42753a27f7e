package release

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRewriteFirst_ReplacesOnlyFirstMatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	content := "<project><version>1.0.0-SNAPSHOT</version><dep><version>2.0.0-SNAPSHOT</version></dep></project>"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, _ := newTestContext(t, dir)
	if err := rewriteFirst(ctx, path, snapshotVersionRe, "<version>1.0.0</version>"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "<version>1.0.0</version>") {
		t.Errorf("first version not replaced: %s", got)
	}
	if !strings.Contains(got, "<version>2.0.0-SNAPSHOT</version>") {
		t.Errorf("second version should be untouched: %s", got)
	}
}

func TestRewriteFirst_DryRunLeavesFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pom.xml")
	content := "<version>1.0.0-SNAPSHOT</version>"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	ctx, out := newTestContext(t, dir)
	ctx.DryRun = true
	if err := rewriteFirst(ctx, path, snapshotVersionRe, "<version>1.0.0</version>"); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != content {
		t.Error("file was modified under dry-run")
	}
	if !strings.Contains(out.String(), "[dry-run] rewrite "+path) {
		t.Errorf("output = %q, want rewrite echo", out.String())
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	dest := filepath.Join(dir, "nested", "dest.csv")
	if err := os.WriteFile(src, []byte("a,b,c\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := copyFile(src, dest); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "a,b,c\n" {
		t.Errorf("dest content = %q", data)
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionRun:         "RUN",
		ActionTag:         "TAG",
		ActionBranchCut:   "BRANCH_CUT",
		ActionBranchStage: "BRANCH_STAGE",
		Action(42):        "UNKNOWN",
	}
	for action, want := range tests {
		if got := action.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", action, got, want)
		}
	}
}

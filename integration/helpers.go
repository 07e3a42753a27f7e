//go:build integration

package integration

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// binaryPath returns the path to the built CLI binary, building it on demand.
func binaryPath(t *testing.T) string {
	t.Helper()
	paths := []string{
		"../artagon",
		"./artagon",
		filepath.Join(os.Getenv("GOPATH"), "bin", "artagon"),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			abs, _ := filepath.Abs(p)
			return abs
		}
	}

	t.Log("Binary not found, building...")
	cmd := exec.Command("go", "build", "-o", "../artagon", "../cmd/artagon")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build binary: %v\n%s", err, out)
	}

	abs, _ := filepath.Abs("../artagon")
	return abs
}

// setupReleaseRepo creates a temporary git repository checked out on branch,
// with an .artagonrc configuring owner and repo.
func setupReleaseRepo(t *testing.T, branch string) string {
	t.Helper()
	dir := t.TempDir()

	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v failed: %s", args, out)
		}
	}
	git("init")
	git("config", "user.email", "test@test.com")
	git("config", "user.name", "Test")

	rc := `
[defaults]
owner = "artagon"
repo = "artagon-bom"
`
	if err := os.WriteFile(filepath.Join(dir, ".artagonrc"), []byte(rc), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	git("add", ".")
	git("commit", "-m", "Initial commit")
	// -B tolerates the repo's default branch already having this name.
	git("checkout", "-B", branch)

	return dir
}

// writeFile writes a file relative to dir.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// runArtagon executes the binary in dir, returning exit code and output.
func runArtagon(t *testing.T, dir string, env []string, args ...string) (int, string, string) {
	t.Helper()
	cmd := exec.Command(binaryPath(t), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	code := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run binary: %v", err)
		}
	}
	return code, stdout.String(), stderr.String()
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const csvHeader = "#,Tactic,Description/Hypothesis,Funnel Step,Probabiliy of Success,Business Type,Effort,Dev needed\n"

// testEnv isolates configuration in a temp dir and returns it.
func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("EXPCONV_INPUT", filepath.Join(dir, "experiments.csv"))
	t.Setenv("EXPCONV_OUTPUT", filepath.Join(dir, "experiments.json"))
	t.Setenv("EXPCONV_HISTORY_DB", filepath.Join(dir, "history.db"))
	t.Setenv("EXPCONV_OTEL_ENABLED", "false")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// run executes the command tree with args and returns stdout and stderr.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

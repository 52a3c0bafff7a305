package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

const censusSummary = `{
  "table": {"n_var": 15, "n": 32561, "n_cells_missing": 4262, "p_cells_missing": 0.0087,
            "n_duplicates": 24, "p_duplicates": 0.0007, "memory_size": 3907448,
            "record_size": 120.0, "types": {"Numeric": 6, "Categorical": 9}},
  "messages": [{"message_type": "MISSING", "column_name": "occupation"}],
  "variables": {"age": {"type": "Numeric", "mean": 38.58}}
}`

// writeFile writes content to name inside dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// writeConfig writes a configuration file with progress output disabled.
func writeConfig(t *testing.T, dir, extra string) string {
	t.Helper()
	return writeFile(t, dir, "config.yaml", "progress_bar: false\n"+extra)
}

// runCmd executes cmd with args and returns its stdout.
func runCmd(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/version"
)

// run executes the root command and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// emptyConfig keeps tests independent of any .treedist.toml above the module
func emptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "treedist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: text\n"), 0o644))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)

	out, _, err = run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "treedist ")
}

func TestCompareCommand_InlineJSON(t *testing.T) {
	out, _, err := run(t, "compare", "--inline", "A(B(D),C(E))", "A(B(D),F)", "--json", "--config", emptyConfig(t))
	require.NoError(t, err)

	var resp domain.DistanceResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.HasDistance)
	assert.Equal(t, 2.0, resp.Distance)
	assert.Len(t, resp.Results, 4)
}

func TestCompareCommand_Files(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.tree")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(a, []byte("R(x,y)"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte(`{"label":"R","children":[{"label":"x"}]}`), 0o644))

	out, _, err := run(t, "compare", a, b, "--strategy", "divide_and_conquer", "--delete", "3", "--config", emptyConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "Tree Edit Distance Report")
	assert.Contains(t, out, "Distance: 3")
}

func TestCompareCommand_Errors(t *testing.T) {
	cfg := emptyConfig(t)

	tests := []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{
			name:       "two formats",
			args:       []string{"compare", "--inline", "A", "B", "--json", "--csv", "--config", cfg},
			wantStderr: "Input Error",
		},
		{
			name:       "unknown strategy",
			args:       []string{"compare", "--inline", "A", "B", "--strategy", "greedy", "--config", cfg},
			wantStderr: "Configuration Error",
		},
		{
			name:       "negative cost",
			args:       []string{"compare", "--inline", "A", "B", "--insert", "-1", "--config", cfg},
			wantStderr: "Costs must be finite numbers >= 0",
		},
		{
			name:       "malformed tree",
			args:       []string{"compare", "--inline", "A(B", "B", "--config", cfg},
			wantStderr: "Malformed Tree",
		},
		{
			name:       "missing file",
			args:       []string{"compare", "missing-a.tree", "missing-b.tree", "--config", cfg},
			wantStderr: "Input Error",
		},
		{
			name: "every strategy stopped",
			args: []string{"compare", "--inline", "A(B(D),C(E))", "A(B(D),F)",
				"--strategy", "backtracking", "--max-branches", "1", "--config", cfg},
			wantStderr: "Resource Limit Exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, stderr, tt.wantStderr)
			assert.Contains(t, stderr, "Suggestions")
		})
	}
}

func TestBatchCommand_CSV(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"a.tree": "A(B,C)",
		"b.tree": "A(B,C)",
		"c.tree": "A(B)",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	out, _, err := run(t, "batch", dir, "--csv", "--workers", "2", "--config", emptyConfig(t))
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"source", "target", "distance", "shortcut", "error"}, records[0])
}

func TestBatchCommand_TooFewTrees(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "only.tree"), []byte("A"), 0o644))

	_, stderr, err := run(t, "batch", dir, "--config", emptyConfig(t))
	require.Error(t, err)
	assert.Contains(t, stderr, "Input Error")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".treedist.toml")

	out, _, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration file created")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[costs]")
	assert.Contains(t, string(data), "[batch]")

	_, _, err = run(t, "init", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = run(t, "init", "--config", path, "--force")
	assert.NoError(t, err)
}

func TestGetExplicitFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().Float64("insert", 1, "")
	cmd.Flags().Float64("delete", 1, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--insert", "2"}))

	flags := GetExplicitFlags(cmd)
	assert.True(t, flags["insert"])
	assert.False(t, flags["delete"])

	assert.Empty(t, GetExplicitFlags(nil))
}

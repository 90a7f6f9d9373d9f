package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/treedist/domain"
)

func writeTreedistToml(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.DefaultConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestTomlConfigLoader_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeTreedistToml(t, dir, `
[costs]
delete = 2.5

[solver]
strategies = ["branch_and_bound", "dynamic_programming"]
timeout_seconds = 0

[output]
show_script = false

[batch]
max_workers = 3
`)

	config, err := NewTomlConfigLoader().LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Costs.Delete != 2.5 {
		t.Errorf("Expected delete cost 2.5, got %v", config.Costs.Delete)
	}
	if config.Costs.Insert != domain.DefaultInsertCost {
		t.Errorf("Expected default insert cost, got %v", config.Costs.Insert)
	}
	if len(config.Solver.Strategies) != 2 {
		t.Errorf("Expected 2 strategies, got %v", config.Solver.Strategies)
	}
	// An explicit zero must override the default
	if config.Solver.TimeoutSeconds != 0 {
		t.Errorf("Expected timeout 0, got %d", config.Solver.TimeoutSeconds)
	}
	if config.Output.ShowScript {
		t.Error("Expected show_script false")
	}
	if config.Batch.MaxWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", config.Batch.MaxWorkers)
	}
	if config.Solver.MaxDepth != domain.DefaultMaxDepth {
		t.Errorf("Expected default max_depth, got %d", config.Solver.MaxDepth)
	}
}

func TestTomlConfigLoader_WalksUp(t *testing.T) {
	root := t.TempDir()
	writeTreedistToml(t, root, "[batch]\nstrategy = \"dynamic_programming\"\n")

	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	loader := NewTomlConfigLoader()
	found, err := loader.FindConfigFile(nested)
	if err != nil {
		t.Fatalf("FindConfigFile failed: %v", err)
	}
	if filepath.Dir(found) != root {
		t.Errorf("Expected config in %s, found %s", root, found)
	}

	config, err := loader.LoadConfig(nested)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Batch.Strategy != "dynamic_programming" {
		t.Errorf("Expected dynamic_programming, got %s", config.Batch.Strategy)
	}
}

func TestTomlConfigLoader_NoFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()

	loader := NewTomlConfigLoader()
	config, err := loader.LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Costs != DefaultConfig().Costs {
		t.Errorf("Expected default costs, got %+v", config.Costs)
	}

	if got := loader.GetSupportedConfigFiles(); len(got) != 1 || got[0] != ".treedist.toml" {
		t.Errorf("Unexpected supported files: %v", got)
	}
}

func TestTomlConfigLoader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax error", "[costs\ninsert = 1.0\n"},
		{"invalid value", "[solver]\nmax_depth = 0\n"},
		{"unknown strategy", "[solver]\nstrategies = [\"astar\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeTreedistToml(t, dir, tt.content)

			if _, err := NewTomlConfigLoader().LoadConfig(dir); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadConfigWithTarget_Discovery(t *testing.T) {
	dir := t.TempDir()
	writeTreedistToml(t, dir, "[output]\nformat = \"yaml\"\n")

	file := filepath.Join(dir, "a.tree")
	if err := os.WriteFile(file, []byte("A(B)"), 0644); err != nil {
		t.Fatal(err)
	}

	// A file target starts discovery at its directory
	config, err := LoadConfigWithTarget("", file)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if config.Output.Format != "yaml" {
		t.Errorf("Expected yaml format, got %s", config.Output.Format)
	}
}

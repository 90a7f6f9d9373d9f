package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Costs.Insert != domain.DefaultInsertCost {
		t.Errorf("Expected insert cost %v, got %v", domain.DefaultInsertCost, config.Costs.Insert)
	}
	if len(config.Solver.Strategies) != 4 {
		t.Errorf("Expected all 4 strategies by default, got %v", config.Solver.Strategies)
	}
	if config.Solver.MaxDepth != domain.DefaultMaxDepth {
		t.Errorf("Expected max depth %d, got %d", domain.DefaultMaxDepth, config.Solver.MaxDepth)
	}
	if config.Output.Format != "text" {
		t.Errorf("Expected text output, got %s", config.Output.Format)
	}
	if !config.Output.ShowScript {
		t.Error("Expected show_script to default to true")
	}
	if config.Batch.Strategy != string(domain.StrategyDivideAndConquer) {
		t.Errorf("Expected divide_and_conquer batch strategy, got %s", config.Batch.Strategy)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	// Defaults must not alias the domain slice
	config.Batch.Patterns[0] = "changed"
	if domain.DefaultTreePatterns[0] == "changed" {
		t.Error("DefaultConfig aliases domain.DefaultTreePatterns")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"negative insert", func(c *Config) { c.Costs.Insert = -1 }, "costs.insert"},
		{"no strategies", func(c *Config) { c.Solver.Strategies = nil }, "solver.strategies"},
		{"unknown strategy", func(c *Config) { c.Solver.Strategies = []string{"greedy"} }, "unknown strategy"},
		{"zero depth", func(c *Config) { c.Solver.MaxDepth = 0 }, "solver.max_depth"},
		{"negative branches", func(c *Config) { c.Solver.MaxBranches = -1 }, "solver.max_branches"},
		{"negative timeout", func(c *Config) { c.Solver.TimeoutSeconds = -1 }, "solver.timeout_seconds"},
		{"bad format", func(c *Config) { c.Output.Format = "html" }, "output.format"},
		{"bad batch strategy", func(c *Config) { c.Batch.Strategy = "fast" }, "batch.strategy"},
		{"negative workers", func(c *Config) { c.Batch.MaxWorkers = -2 }, "batch.max_workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "treedist.yaml")
	content := `
costs:
  insert: 2
  replace: 0.5
solver:
  strategies: [dynamic_programming]
  max_branches: 100
output:
  format: json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Costs.Insert != 2 || config.Costs.Replace != 0.5 {
		t.Errorf("Unexpected costs: %+v", config.Costs)
	}
	// Unset keys keep their defaults
	if config.Costs.Delete != domain.DefaultDeleteCost {
		t.Errorf("Expected default delete cost, got %v", config.Costs.Delete)
	}
	if len(config.Solver.Strategies) != 1 || config.Solver.Strategies[0] != "dynamic_programming" {
		t.Errorf("Unexpected strategies: %v", config.Solver.Strategies)
	}
	if config.Solver.MaxBranches != 100 {
		t.Errorf("Expected max_branches 100, got %d", config.Solver.MaxBranches)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected json format, got %s", config.Output.Format)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing explicit config file")
	}

	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("costs:\n  delete: -3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("Expected invalid configuration error, got %v", err)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")

	config := DefaultConfig()
	config.Costs.Replace = 3
	config.Output.Format = "csv"

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Costs.Replace != 3 {
		t.Errorf("Expected replace cost 3, got %v", loaded.Costs.Replace)
	}
	if loaded.Output.Format != "csv" {
		t.Errorf("Expected csv format, got %s", loaded.Output.Format)
	}
}

func TestGenerateDefaultConfigTOML(t *testing.T) {
	content, err := GenerateDefaultConfigTOML()
	if err != nil {
		t.Fatalf("GenerateDefaultConfigTOML failed: %v", err)
	}

	for _, want := range []string{"[costs]", "[solver]", "[output]", "[batch]", "insert = 1.0", `strategy = "divide_and_conquer"`} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected rendered config to contain %q", want)
		}
	}

	var parsed TreedistTomlConfig
	if err := toml.Unmarshal([]byte(content), &parsed); err != nil {
		t.Fatalf("Rendered config is not valid TOML: %v", err)
	}
	if parsed.Solver.MaxDepth == nil || *parsed.Solver.MaxDepth != domain.DefaultMaxDepth {
		t.Errorf("Unexpected max_depth in rendered config: %v", parsed.Solver.MaxDepth)
	}
}

func TestLoadDefaultConfigFromTOML(t *testing.T) {
	fromTOML, err := LoadDefaultConfigFromTOML()
	if err != nil {
		t.Fatalf("LoadDefaultConfigFromTOML failed: %v", err)
	}
	defaults := DefaultConfig()

	if fromTOML.Costs != defaults.Costs {
		t.Errorf("Costs differ: %+v vs %+v", fromTOML.Costs, defaults.Costs)
	}
	if fromTOML.Solver.MaxBranches != defaults.Solver.MaxBranches {
		t.Errorf("MaxBranches differ: %d vs %d", fromTOML.Solver.MaxBranches, defaults.Solver.MaxBranches)
	}
	if strings.Join(fromTOML.Batch.Patterns, ",") != strings.Join(defaults.Batch.Patterns, ",") {
		t.Errorf("Patterns differ: %v vs %v", fromTOML.Batch.Patterns, defaults.Batch.Patterns)
	}
	if strings.Join(fromTOML.Solver.Strategies, ",") != strings.Join(defaults.Solver.Strategies, ",") {
		t.Errorf("Strategies differ: %v vs %v", fromTOML.Solver.Strategies, defaults.Solver.Strategies)
	}
}

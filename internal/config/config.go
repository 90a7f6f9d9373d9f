package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/spf13/viper"
)

// Config represents the main configuration structure
type Config struct {
	// Costs holds the per-node edit costs
	Costs CostsConfig `mapstructure:"costs" yaml:"costs"`

	// Solver holds strategy selection and resource limits
	Solver SolverConfig `mapstructure:"solver" yaml:"solver"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" yaml:"output"`

	// Batch holds pairwise batch comparison configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch"`
}

// CostsConfig holds the cost of each edit operation
type CostsConfig struct {
	Insert  float64 `mapstructure:"insert" yaml:"insert"`
	Delete  float64 `mapstructure:"delete" yaml:"delete"`
	Replace float64 `mapstructure:"replace" yaml:"replace"`
}

// SolverConfig holds solver configuration
type SolverConfig struct {
	// Strategies to run by default: backtracking, branch_and_bound,
	// divide_and_conquer, dynamic_programming
	Strategies []string `mapstructure:"strategies" yaml:"strategies"`

	// MaxDepth is the recursion guard
	MaxDepth int `mapstructure:"max_depth" yaml:"max_depth"`

	// MaxBranches caps the search strategies, 0 means unlimited
	MaxBranches int64 `mapstructure:"max_branches" yaml:"max_branches"`

	// TimeoutSeconds is the wall-clock budget of one comparison, 0 means unlimited
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// OutputConfig holds output configuration
type OutputConfig struct {
	// Format is one of text, json, yaml, csv
	Format string `mapstructure:"format" yaml:"format"`

	// ShowScript prints the edit script of the search strategies
	ShowScript bool `mapstructure:"show_script" yaml:"show_script"`
}

// BatchConfig holds batch configuration
type BatchConfig struct {
	Strategy   string   `mapstructure:"strategy" yaml:"strategy"`
	Patterns   []string `mapstructure:"patterns" yaml:"patterns"`
	MaxWorkers int      `mapstructure:"max_workers" yaml:"max_workers"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	strategies := make([]string, 0, len(domain.AllStrategies()))
	for _, s := range domain.AllStrategies() {
		strategies = append(strategies, string(s))
	}

	return &Config{
		Costs: CostsConfig{
			Insert:  domain.DefaultInsertCost,
			Delete:  domain.DefaultDeleteCost,
			Replace: domain.DefaultReplaceCost,
		},
		Solver: SolverConfig{
			Strategies:     strategies,
			MaxDepth:       domain.DefaultMaxDepth,
			MaxBranches:    domain.DefaultMaxBranches,
			TimeoutSeconds: domain.DefaultTimeoutSeconds,
		},
		Output: OutputConfig{
			Format:     string(domain.OutputFormatText),
			ShowScript: true,
		},
		Batch: BatchConfig{
			Strategy:   string(domain.DefaultBatchStrategy),
			Patterns:   append([]string(nil), domain.DefaultTreePatterns...),
			MaxWorkers: domain.DefaultMaxWorkers,
		},
	}
}

// LoadConfig loads configuration from file or returns default config.
// An explicit path is read through viper (YAML, JSON or TOML by extension);
// without one, .treedist.toml is discovered from the working directory.
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget is LoadConfig with discovery starting at targetPath
// instead of the working directory
func LoadConfigWithTarget(configPath, targetPath string) (*Config, error) {
	if configPath == "" {
		startDir := discoveryDir(targetPath)
		return NewTomlConfigLoader().LoadConfig(startDir)
	}

	config := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(configPath)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// Unmarshal into config struct
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// discoveryDir picks the directory config discovery starts from
func discoveryDir(targetPath string) string {
	if targetPath != "" {
		if info, err := os.Stat(targetPath); err == nil {
			if info.IsDir() {
				return targetPath
			}
			return filepath.Dir(targetPath)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	costs := map[string]float64{
		"costs.insert":  c.Costs.Insert,
		"costs.delete":  c.Costs.Delete,
		"costs.replace": c.Costs.Replace,
	}
	for name, v := range costs {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s must be a finite number >= 0, got %v", name, v)
		}
	}

	if len(c.Solver.Strategies) == 0 {
		return fmt.Errorf("solver.strategies must list at least one strategy")
	}
	for _, s := range c.Solver.Strategies {
		if !isKnownStrategy(s) {
			return fmt.Errorf("solver.strategies: unknown strategy %q", s)
		}
	}
	if c.Solver.MaxDepth <= 0 {
		return fmt.Errorf("solver.max_depth must be > 0, got %d", c.Solver.MaxDepth)
	}
	if c.Solver.MaxBranches < 0 {
		return fmt.Errorf("solver.max_branches must be >= 0, got %d", c.Solver.MaxBranches)
	}
	if c.Solver.TimeoutSeconds < 0 {
		return fmt.Errorf("solver.timeout_seconds must be >= 0, got %d", c.Solver.TimeoutSeconds)
	}

	if _, err := domain.ParseOutputFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}

	if !isKnownStrategy(c.Batch.Strategy) {
		return fmt.Errorf("batch.strategy: unknown strategy %q", c.Batch.Strategy)
	}
	if c.Batch.MaxWorkers < 0 {
		return fmt.Errorf("batch.max_workers must be >= 0, got %d", c.Batch.MaxWorkers)
	}

	return nil
}

func isKnownStrategy(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range domain.AllStrategies() {
		if name == string(s) {
			return true
		}
	}
	return false
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set all config values in viper
	v.Set("costs", config.Costs)
	v.Set("solver", config.Solver)
	v.Set("output", config.Output)
	v.Set("batch", config.Batch)

	return v.WriteConfig()
}

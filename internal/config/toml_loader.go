package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/pelletier/go-toml/v2"
)

// TreedistTomlConfig represents the structure of .treedist.toml.
// Pointer fields distinguish "unset" from the zero value so a partial file
// only overrides what it names.
type TreedistTomlConfig struct {
	Costs  TomlCostsConfig  `toml:"costs"`
	Solver TomlSolverConfig `toml:"solver"`
	Output TomlOutputConfig `toml:"output"`
	Batch  TomlBatchConfig  `toml:"batch"`
}

// TomlCostsConfig represents the [costs] section
type TomlCostsConfig struct {
	Insert  *float64 `toml:"insert"`
	Delete  *float64 `toml:"delete"`
	Replace *float64 `toml:"replace"`
}

// TomlSolverConfig represents the [solver] section
type TomlSolverConfig struct {
	Strategies     []string `toml:"strategies"`
	MaxDepth       *int     `toml:"max_depth"`
	MaxBranches    *int64   `toml:"max_branches"`
	TimeoutSeconds *int     `toml:"timeout_seconds"`
}

// TomlOutputConfig represents the [output] section
type TomlOutputConfig struct {
	Format     string `toml:"format"`
	ShowScript *bool  `toml:"show_script"`
}

// TomlBatchConfig represents the [batch] section
type TomlBatchConfig struct {
	Strategy   string   `toml:"strategy"`
	Patterns   []string `toml:"patterns"`
	MaxWorkers *int     `toml:"max_workers"`
}

// TomlConfigLoader discovers and loads .treedist.toml files
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig walks up from startDir looking for .treedist.toml.
// Defaults are returned when no file is found.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath, err := l.FindConfigFile(startDir)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return l.LoadFile(configPath)
}

// LoadFile loads one TOML file on top of the defaults
func (l *TomlConfigLoader) LoadFile(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var tomlConfig TreedistTomlConfig
	if err := toml.Unmarshal(data, &tomlConfig); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", configPath, err)
	}

	config := DefaultConfig()
	l.mergeTomlConfig(config, &tomlConfig)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", configPath, err)
	}
	return config, nil
}

// FindConfigFile returns the nearest .treedist.toml at or above startDir
func (l *TomlConfigLoader) FindConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		candidate := filepath.Join(dir, domain.DefaultConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

func (l *TomlConfigLoader) mergeTomlConfig(config *Config, toml *TreedistTomlConfig) {
	// Costs
	if toml.Costs.Insert != nil {
		config.Costs.Insert = *toml.Costs.Insert
	}
	if toml.Costs.Delete != nil {
		config.Costs.Delete = *toml.Costs.Delete
	}
	if toml.Costs.Replace != nil {
		config.Costs.Replace = *toml.Costs.Replace
	}

	// Solver
	if len(toml.Solver.Strategies) > 0 {
		config.Solver.Strategies = toml.Solver.Strategies
	}
	if toml.Solver.MaxDepth != nil {
		config.Solver.MaxDepth = *toml.Solver.MaxDepth
	}
	if toml.Solver.MaxBranches != nil {
		config.Solver.MaxBranches = *toml.Solver.MaxBranches
	}
	if toml.Solver.TimeoutSeconds != nil {
		config.Solver.TimeoutSeconds = *toml.Solver.TimeoutSeconds
	}

	// Output
	if toml.Output.Format != "" {
		config.Output.Format = toml.Output.Format
	}
	if toml.Output.ShowScript != nil {
		config.Output.ShowScript = *toml.Output.ShowScript
	}

	// Batch
	if toml.Batch.Strategy != "" {
		config.Batch.Strategy = toml.Batch.Strategy
	}
	if len(toml.Batch.Patterns) > 0 {
		config.Batch.Patterns = toml.Batch.Patterns
	}
	if toml.Batch.MaxWorkers != nil {
		config.Batch.MaxWorkers = *toml.Batch.MaxWorkers
	}
}

// GetSupportedConfigFiles returns the config file names searched during discovery
func (l *TomlConfigLoader) GetSupportedConfigFiles() []string {
	return []string{domain.DefaultConfigFileName}
}

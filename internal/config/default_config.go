package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/pelletier/go-toml/v2"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds all values used to render the default config template.
// All values are sourced from the domain package to ensure a single source of truth.
type DefaultConfigValues struct {
	// Costs, rendered as TOML floats
	InsertCost  string
	DeleteCost  string
	ReplaceCost string

	// Solver
	Strategies     string
	MaxDepth       int
	MaxBranches    int64
	TimeoutSeconds int

	// Output
	OutputFormat string

	// Batch
	BatchStrategy string
	TreePatterns  string
	MaxWorkers    int
}

// newDefaultConfigValues creates a DefaultConfigValues populated from domain constants.
func newDefaultConfigValues() DefaultConfigValues {
	strategies := make([]string, 0, len(domain.AllStrategies()))
	for _, s := range domain.AllStrategies() {
		strategies = append(strategies, string(s))
	}

	return DefaultConfigValues{
		InsertCost:  tomlFloat(domain.DefaultInsertCost),
		DeleteCost:  tomlFloat(domain.DefaultDeleteCost),
		ReplaceCost: tomlFloat(domain.DefaultReplaceCost),

		Strategies:     tomlStringArray(strategies),
		MaxDepth:       domain.DefaultMaxDepth,
		MaxBranches:    domain.DefaultMaxBranches,
		TimeoutSeconds: domain.DefaultTimeoutSeconds,

		OutputFormat: string(domain.OutputFormatText),

		BatchStrategy: string(domain.DefaultBatchStrategy),
		TreePatterns:  tomlStringArray(domain.DefaultTreePatterns),
		MaxWorkers:    domain.DefaultMaxWorkers,
	}
}

// tomlFloat keeps a decimal point so the value decodes as a TOML float
func tomlFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func tomlStringArray(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// GenerateDefaultConfigTOML renders the default config template with domain values
// and returns the resulting TOML string.
func GenerateDefaultConfigTOML() (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues()); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	return buf.String(), nil
}

// LoadDefaultConfigFromTOML parses the embedded default config and returns the full Config struct
func LoadDefaultConfigFromTOML() (*Config, error) {
	configTOML, err := GenerateDefaultConfigTOML()
	if err != nil {
		return nil, err
	}

	var tomlCfg TreedistTomlConfig
	if err := toml.Unmarshal([]byte(configTOML), &tomlCfg); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	loader := &TomlConfigLoader{}
	loader.mergeTomlConfig(cfg, &tomlCfg)

	return cfg, nil
}

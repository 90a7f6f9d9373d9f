package domain

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ParseOutputFormat resolves a format name, case-insensitively
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return f, nil
	case "":
		return OutputFormatText, nil
	}
	return "", NewUnsupportedFormatError(s)
}

// Strategy names one of the edit distance solving methods
type Strategy string

const (
	StrategyBacktracking       Strategy = "backtracking"
	StrategyBranchAndBound     Strategy = "branch_and_bound"
	StrategyDivideAndConquer   Strategy = "divide_and_conquer"
	StrategyDynamicProgramming Strategy = "dynamic_programming"
)

// AllStrategies returns every strategy in presentation order
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyBacktracking,
		StrategyBranchAndBound,
		StrategyDivideAndConquer,
		StrategyDynamicProgramming,
	}
}

// Searches reports whether the strategy explores a decision tree and so
// has visited and pruned counts
func (s Strategy) Searches() bool {
	return s == StrategyBacktracking || s == StrategyBranchAndBound
}

// TreeFormat is the serialization of a tree input
type TreeFormat string

const (
	TreeFormatBracket TreeFormat = "bracket"
	TreeFormatJSON    TreeFormat = "json"
	TreeFormatYAML    TreeFormat = "yaml"
	TreeFormatPython  TreeFormat = "python"
)

// CostSettings holds the per-node cost of each edit operation
type CostSettings struct {
	Insert  float64 `json:"insert" yaml:"insert"`
	Delete  float64 `json:"delete" yaml:"delete"`
	Replace float64 `json:"replace" yaml:"replace"`
}

// DefaultCostSettings returns the unit cost model
func DefaultCostSettings() CostSettings {
	return CostSettings{
		Insert:  DefaultInsertCost,
		Delete:  DefaultDeleteCost,
		Replace: DefaultReplaceCost,
	}
}

// Validate checks that every cost is finite and non-negative
func (c CostSettings) Validate() error {
	for name, v := range map[string]float64{"insert": c.Insert, "delete": c.Delete, "replace": c.Replace} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return NewDomainError(ErrCodeInvalidConfiguration,
				fmt.Sprintf("%s cost must be a finite number >= 0, got %v", name, v), nil)
		}
	}
	return nil
}

// SolverSettings controls which strategies run and how much work they may do
type SolverSettings struct {
	Strategies  []Strategy    `json:"strategies" yaml:"strategies"`
	Costs       CostSettings  `json:"costs" yaml:"costs"`
	MaxDepth    int           `json:"max_depth" yaml:"max_depth"`
	MaxBranches int64         `json:"max_branches" yaml:"max_branches"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// DefaultSolverSettings returns all strategies with unit costs and default limits
func DefaultSolverSettings() SolverSettings {
	return SolverSettings{
		Strategies:  AllStrategies(),
		Costs:       DefaultCostSettings(),
		MaxDepth:    DefaultMaxDepth,
		MaxBranches: DefaultMaxBranches,
		Timeout:     DefaultTimeoutSeconds * time.Second,
	}
}

// Validate checks the strategy list, costs and limits
func (s SolverSettings) Validate() error {
	if len(s.Strategies) == 0 {
		return NewValidationError("at least one strategy is required")
	}
	seen := make(map[Strategy]bool, len(s.Strategies))
	for _, st := range s.Strategies {
		valid := false
		for _, known := range AllStrategies() {
			if st == known {
				valid = true
				break
			}
		}
		if !valid {
			return NewDomainError(ErrCodeInvalidConfiguration, fmt.Sprintf("unknown strategy: %s", st), nil)
		}
		if seen[st] {
			return NewValidationError(fmt.Sprintf("strategy listed twice: %s", st))
		}
		seen[st] = true
	}
	if err := s.Costs.Validate(); err != nil {
		return err
	}
	if s.MaxDepth <= 0 {
		return NewDomainError(ErrCodeInvalidConfiguration, "max_depth must be > 0", nil)
	}
	if s.MaxBranches < 0 {
		return NewDomainError(ErrCodeInvalidConfiguration, "max_branches must be >= 0", nil)
	}
	if s.Timeout < 0 {
		return NewDomainError(ErrCodeInvalidConfiguration, "timeout must be >= 0", nil)
	}
	return nil
}

// DistanceRequest asks for the edit distance between two trees
type DistanceRequest struct {
	// Source and Target are file paths, or bracket notation when Inline is set
	Source string
	Target string
	Inline bool

	Solver SolverSettings

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	ShowScript   bool

	// Configuration
	ConfigPath string
}

// Validate validates a distance request
func (req *DistanceRequest) Validate() error {
	if strings.TrimSpace(req.Source) == "" && !req.Inline {
		return NewValidationError("source tree is required")
	}
	if strings.TrimSpace(req.Target) == "" && !req.Inline {
		return NewValidationError("target tree is required")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return NewValidationError("output writer or output path is required")
	}
	if _, err := ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return err
	}
	return req.Solver.Validate()
}

// DefaultDistanceRequest returns a request with default solver settings
func DefaultDistanceRequest() *DistanceRequest {
	return &DistanceRequest{
		Solver:       DefaultSolverSettings(),
		OutputFormat: OutputFormatText,
		ShowScript:   true,
	}
}

// LoadedTree is an input tree together with the name it is reported under
type LoadedTree struct {
	Name   string
	Format TreeFormat
	Tree   *tree.Tree
}

// TreeSummary describes one input tree in a report
type TreeSummary struct {
	Name        string `json:"name" yaml:"name" csv:"name"`
	Format      string `json:"format,omitempty" yaml:"format,omitempty" csv:"format"`
	Size        int    `json:"size" yaml:"size" csv:"size"`
	Height      int    `json:"height" yaml:"height" csv:"height"`
	Leaves      int    `json:"leaves" yaml:"leaves" csv:"leaves"`
	Fingerprint string `json:"fingerprint" yaml:"fingerprint" csv:"fingerprint"`
}

// EditOperationInfo is one step of an edit script in a report.
// Node IDs are positions in the source or target tree; -1 means absent.
type EditOperationInfo struct {
	Kind        string  `json:"kind" yaml:"kind" csv:"kind"`
	SourceNode  int     `json:"source_node" yaml:"source_node" csv:"source_node"`
	TargetNode  int     `json:"target_node" yaml:"target_node" csv:"target_node"`
	SourceLabel string  `json:"source_label,omitempty" yaml:"source_label,omitempty" csv:"source_label"`
	TargetLabel string  `json:"target_label,omitempty" yaml:"target_label,omitempty" csv:"target_label"`
	Cost        float64 `json:"cost" yaml:"cost" csv:"cost"`
}

// String renders the operation the way text reports print it
func (op EditOperationInfo) String() string {
	switch op.Kind {
	case "INSERT":
		return fmt.Sprintf("INSERT '%s' (cost: %g)", op.TargetLabel, op.Cost)
	case "DELETE":
		return fmt.Sprintf("DELETE '%s' (cost: %g)", op.SourceLabel, op.Cost)
	case "REPLACE":
		return fmt.Sprintf("REPLACE '%s' -> '%s' (cost: %g)", op.SourceLabel, op.TargetLabel, op.Cost)
	default:
		return fmt.Sprintf("%s '%s' = '%s' (cost: %g)", op.Kind, op.SourceLabel, op.TargetLabel, op.Cost)
	}
}

// StrategyResult is the outcome of one strategy
type StrategyResult struct {
	Strategy   Strategy            `json:"strategy" yaml:"strategy" csv:"strategy"`
	Exact      bool                `json:"exact" yaml:"exact" csv:"exact"`
	Success    bool                `json:"success" yaml:"success" csv:"success"`
	Cost       float64             `json:"cost" yaml:"cost" csv:"cost"`
	Operations []EditOperationInfo `json:"operations,omitempty" yaml:"operations,omitempty" csv:"-"`

	// Search statistics, zero for strategies that do not search
	Visited      int64 `json:"visited,omitempty" yaml:"visited,omitempty" csv:"visited"`
	Pruned       int64 `json:"pruned,omitempty" yaml:"pruned,omitempty" csv:"pruned"`
	Improvements int64 `json:"improvements,omitempty" yaml:"improvements,omitempty" csv:"improvements"`

	DurationMs int64  `json:"duration_ms" yaml:"duration_ms" csv:"duration_ms"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty" csv:"error"`
}

// DistanceResponse is the full report of one comparison
type DistanceResponse struct {
	Source TreeSummary  `json:"source" yaml:"source"`
	Target TreeSummary  `json:"target" yaml:"target"`
	Costs  CostSettings `json:"costs" yaml:"costs"`

	// Identical is true when both fingerprints match
	Identical bool `json:"identical" yaml:"identical"`

	// Distance is the cost agreed on by the exact strategies that succeeded.
	// HasDistance is false when none of them finished.
	Distance    float64 `json:"distance" yaml:"distance"`
	HasDistance bool    `json:"has_distance" yaml:"has_distance"`

	// Bounds every distance lies within
	LowerBound float64 `json:"lower_bound" yaml:"lower_bound"`
	UpperBound float64 `json:"upper_bound" yaml:"upper_bound"`

	Results  []StrategyResult `json:"results" yaml:"results"`
	Warnings []string         `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	// Metadata
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
	DurationMs  int64  `json:"duration_ms" yaml:"duration_ms"`
}

// Result returns the result of the named strategy, or nil
func (r *DistanceResponse) Result(s Strategy) *StrategyResult {
	for i := range r.Results {
		if r.Results[i].Strategy == s {
			return &r.Results[i]
		}
	}
	return nil
}

// BatchRequest asks for the pairwise distance matrix of many trees
type BatchRequest struct {
	// Patterns are files or doublestar globs such as "trees/**/*.tree"
	Patterns []string

	// Strategy is the single strategy used for every pair
	Strategy   Strategy
	Solver     SolverSettings
	MaxWorkers int

	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string

	ConfigPath string
}

// Validate validates a batch request
func (req *BatchRequest) Validate() error {
	if len(req.Patterns) == 0 {
		return NewValidationError("at least one file pattern is required")
	}
	if req.MaxWorkers < 0 {
		return NewValidationError("max_workers must be >= 0")
	}
	if req.OutputWriter == nil && req.OutputPath == "" {
		return NewValidationError("output writer or output path is required")
	}
	if _, err := ParseOutputFormat(string(req.OutputFormat)); err != nil {
		return err
	}
	solver := req.Solver
	solver.Strategies = []Strategy{req.Strategy}
	return solver.Validate()
}

// DefaultBatchRequest returns a batch request over the default patterns
func DefaultBatchRequest() *BatchRequest {
	return &BatchRequest{
		Patterns:     append([]string(nil), DefaultTreePatterns...),
		Strategy:     DefaultBatchStrategy,
		Solver:       DefaultSolverSettings(),
		MaxWorkers:   DefaultMaxWorkers,
		OutputFormat: OutputFormatText,
	}
}

// BatchPair is the distance of one unordered pair in a batch
type BatchPair struct {
	Source   int     `json:"source" yaml:"source" csv:"source"`
	Target   int     `json:"target" yaml:"target" csv:"target"`
	Distance float64 `json:"distance" yaml:"distance" csv:"distance"`
	// Shortcut is true when identical fingerprints made solving unnecessary
	Shortcut bool   `json:"shortcut,omitempty" yaml:"shortcut,omitempty" csv:"shortcut"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty" csv:"error"`
}

// BatchResponse is the report of a batch comparison
type BatchResponse struct {
	Strategy Strategy      `json:"strategy" yaml:"strategy"`
	Costs    CostSettings  `json:"costs" yaml:"costs"`
	Trees    []TreeSummary `json:"trees" yaml:"trees"`
	Pairs    []BatchPair   `json:"pairs" yaml:"pairs"`

	// Matrix[i][j] is the distance from tree i to tree j; NaN marks a failed pair
	Matrix [][]float64 `json:"-" yaml:"-"`

	Warnings    []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	GeneratedAt string   `json:"generated_at" yaml:"generated_at"`
	Version     string   `json:"version" yaml:"version"`
	DurationMs  int64    `json:"duration_ms" yaml:"duration_ms"`
}

// DistanceService computes edit distances
type DistanceService interface {
	// Compare runs every requested strategy on source and target
	Compare(ctx context.Context, req *DistanceRequest, source, target *LoadedTree) (*DistanceResponse, error)

	// CompareAll computes the pairwise distances of trees
	CompareAll(ctx context.Context, req *BatchRequest, trees []*LoadedTree, progress ProgressManager) (*BatchResponse, error)
}

// TreeReader loads trees from files and inline notation
type TreeReader interface {
	// CollectTreeFiles expands files and doublestar globs into a sorted, de-duplicated file list
	CollectTreeFiles(patterns []string) ([]string, error)

	// ReadTree loads a tree file, choosing the format from its extension
	ReadTree(ctx context.Context, path string) (*LoadedTree, error)

	// ParseInline parses bracket notation given on the command line
	ParseInline(name, notation string) (*LoadedTree, error)
}

// DistanceOutputFormatter formats comparison reports
type DistanceOutputFormatter interface {
	// Write writes a comparison report
	Write(response *DistanceResponse, format OutputFormat, showScript bool, writer io.Writer) error

	// WriteBatch writes a batch report
	WriteBatch(response *BatchResponse, format OutputFormat, writer io.Writer) error
}

// DistanceConfigurationLoader loads solver settings from configuration files
type DistanceConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path; an empty path
	// discovers .treedist.toml and falls back to the built-in defaults
	LoadConfig(path string) (*DistanceRequest, error)

	// LoadDefaultConfig returns the built-in defaults
	LoadDefaultConfig() *DistanceRequest

	// MergeConfig overlays values set on the command line onto a loaded configuration
	MergeConfig(base *DistanceRequest, override *DistanceRequest) *DistanceRequest
}

// BatchConfigurationLoader loads batch settings from configuration files
type BatchConfigurationLoader interface {
	// LoadBatchConfig loads configuration from the specified path, or discovers it when empty
	LoadBatchConfig(path string) (*BatchRequest, error)

	// MergeBatchConfig overlays values set on the command line onto a loaded configuration
	MergeBatchConfig(base *BatchRequest, override *BatchRequest) *BatchRequest
}

package service

import (
	"strings"
	"time"

	"github.com/ludo-technologies/treedist/domain"
	"github.com/ludo-technologies/treedist/internal/config"
)

// CLI flag names. A flag overrides the configuration file only when the
// user set it explicitly.
const (
	FlagStrategy    = "strategy"
	FlagInsertCost  = "insert"
	FlagDeleteCost  = "delete"
	FlagReplaceCost = "replace"
	FlagMaxDepth    = "max-depth"
	FlagMaxBranches = "max-branches"
	FlagTimeout     = "timeout"
	FlagShowScript  = "show-script"
	FlagWorkers     = "workers"
	FlagJSON        = "json"
	FlagYAML        = "yaml"
	FlagCSV         = "csv"
)

// DistanceConfigurationLoaderImpl bridges internal/config to requests
type DistanceConfigurationLoaderImpl struct {
	flags    *config.FlagTracker
	startDir string
}

// NewDistanceConfigurationLoader creates a loader; explicitFlags lists the
// CLI flags the user set (nil when there is no CLI)
func NewDistanceConfigurationLoader(explicitFlags map[string]bool) *DistanceConfigurationLoaderImpl {
	return &DistanceConfigurationLoaderImpl{flags: config.NewFlagTrackerWithFlags(explicitFlags)}
}

// WithStartDir sets where .treedist.toml discovery begins
func (c *DistanceConfigurationLoaderImpl) WithStartDir(dir string) *DistanceConfigurationLoaderImpl {
	c.startDir = dir
	return c
}

// LoadConfig loads the file at path, or discovers .treedist.toml when path is empty
func (c *DistanceConfigurationLoaderImpl) LoadConfig(path string) (*domain.DistanceRequest, error) {
	cfg, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return c.toDistanceRequest(cfg), nil
}

// LoadDefaultConfig returns the built-in defaults
func (c *DistanceConfigurationLoaderImpl) LoadDefaultConfig() *domain.DistanceRequest {
	return c.toDistanceRequest(config.DefaultConfig())
}

// LoadBatchConfig is LoadConfig for batch requests
func (c *DistanceConfigurationLoaderImpl) LoadBatchConfig(path string) (*domain.BatchRequest, error) {
	cfg, err := c.load(path)
	if err != nil {
		return nil, err
	}
	return c.toBatchRequest(cfg), nil
}

func (c *DistanceConfigurationLoaderImpl) load(path string) (*config.Config, error) {
	cfg, err := config.LoadConfigWithTarget(path, c.startDir)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// MergeConfig overlays the request built from flags on the configured base.
// Tree sources, writers and paths always come from override.
func (c *DistanceConfigurationLoaderImpl) MergeConfig(base *domain.DistanceRequest, override *domain.DistanceRequest) *domain.DistanceRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	merged.Source = override.Source
	merged.Target = override.Target
	merged.Inline = override.Inline
	merged.OutputWriter = override.OutputWriter
	merged.OutputPath = override.OutputPath
	merged.ConfigPath = override.ConfigPath

	merged.Solver = c.mergeSolver(base.Solver, override.Solver)
	if c.formatFlagSet() {
		merged.OutputFormat = override.OutputFormat
	}
	merged.ShowScript = config.Merge(c.flags, base.ShowScript, override.ShowScript, FlagShowScript)
	return &merged
}

// MergeBatchConfig is MergeConfig for batch requests
func (c *DistanceConfigurationLoaderImpl) MergeBatchConfig(base *domain.BatchRequest, override *domain.BatchRequest) *domain.BatchRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	if len(override.Patterns) > 0 {
		merged.Patterns = override.Patterns
	}
	merged.OutputWriter = override.OutputWriter
	merged.OutputPath = override.OutputPath
	merged.ConfigPath = override.ConfigPath

	merged.Solver = c.mergeSolver(base.Solver, override.Solver)
	merged.Strategy = config.Merge(c.flags, base.Strategy, override.Strategy, FlagStrategy)
	merged.MaxWorkers = config.Merge(c.flags, base.MaxWorkers, override.MaxWorkers, FlagWorkers)
	if c.formatFlagSet() {
		merged.OutputFormat = override.OutputFormat
	}
	return &merged
}

func (c *DistanceConfigurationLoaderImpl) mergeSolver(base, override domain.SolverSettings) domain.SolverSettings {
	return domain.SolverSettings{
		Strategies: config.MergeSlice(c.flags, base.Strategies, override.Strategies, FlagStrategy),
		Costs: domain.CostSettings{
			Insert:  config.Merge(c.flags, base.Costs.Insert, override.Costs.Insert, FlagInsertCost),
			Delete:  config.Merge(c.flags, base.Costs.Delete, override.Costs.Delete, FlagDeleteCost),
			Replace: config.Merge(c.flags, base.Costs.Replace, override.Costs.Replace, FlagReplaceCost),
		},
		MaxDepth:    config.Merge(c.flags, base.MaxDepth, override.MaxDepth, FlagMaxDepth),
		MaxBranches: config.Merge(c.flags, base.MaxBranches, override.MaxBranches, FlagMaxBranches),
		Timeout:     config.Merge(c.flags, base.Timeout, override.Timeout, FlagTimeout),
	}
}

func (c *DistanceConfigurationLoaderImpl) formatFlagSet() bool {
	return c.flags.WasSet(FlagJSON) || c.flags.WasSet(FlagYAML) || c.flags.WasSet(FlagCSV)
}

func (c *DistanceConfigurationLoaderImpl) toDistanceRequest(cfg *config.Config) *domain.DistanceRequest {
	req := domain.DefaultDistanceRequest()
	req.Solver = SolverSettingsFromConfig(cfg)
	req.OutputFormat = outputFormat(cfg.Output.Format)
	req.ShowScript = cfg.Output.ShowScript
	return req
}

func (c *DistanceConfigurationLoaderImpl) toBatchRequest(cfg *config.Config) *domain.BatchRequest {
	req := domain.DefaultBatchRequest()
	req.Solver = SolverSettingsFromConfig(cfg)
	req.Strategy = domain.Strategy(normalizeStrategy(cfg.Batch.Strategy))
	req.Solver.Strategies = []domain.Strategy{req.Strategy}
	if len(cfg.Batch.Patterns) > 0 {
		req.Patterns = append([]string(nil), cfg.Batch.Patterns...)
	}
	req.MaxWorkers = cfg.Batch.MaxWorkers
	req.OutputFormat = outputFormat(cfg.Output.Format)
	return req
}

// SolverSettingsFromConfig converts the configured costs, strategies and limits
func SolverSettingsFromConfig(cfg *config.Config) domain.SolverSettings {
	strategies := make([]domain.Strategy, 0, len(cfg.Solver.Strategies))
	for _, s := range cfg.Solver.Strategies {
		strategies = append(strategies, domain.Strategy(normalizeStrategy(s)))
	}
	return domain.SolverSettings{
		Strategies: strategies,
		Costs: domain.CostSettings{
			Insert:  cfg.Costs.Insert,
			Delete:  cfg.Costs.Delete,
			Replace: cfg.Costs.Replace,
		},
		MaxDepth:    cfg.Solver.MaxDepth,
		MaxBranches: cfg.Solver.MaxBranches,
		Timeout:     time.Duration(cfg.Solver.TimeoutSeconds) * time.Second,
	}
}

func normalizeStrategy(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func outputFormat(s string) domain.OutputFormat {
	f, err := domain.ParseOutputFormat(s)
	if err != nil {
		return domain.OutputFormatText
	}
	return f
}

var (
	_ domain.DistanceConfigurationLoader = (*DistanceConfigurationLoaderImpl)(nil)
	_ domain.BatchConfigurationLoader    = (*DistanceConfigurationLoaderImpl)(nil)
)

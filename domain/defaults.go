package domain

// Default edit costs. Every operation costs one unit.
const (
	DefaultInsertCost  = 1.0
	DefaultDeleteCost  = 1.0
	DefaultReplaceCost = 1.0
)

// Solver resource limits.
const (
	// DefaultMaxDepth is the recursion guard of the recursive strategies
	DefaultMaxDepth = 4096

	// DefaultMaxBranches caps the search strategies. The exhaustive search
	// is exponential, so the CLI refuses to run unbounded by default.
	DefaultMaxBranches int64 = 5_000_000

	// DefaultTimeoutSeconds is the wall-clock budget of one comparison
	DefaultTimeoutSeconds = 30
)

// Batch defaults.
const (
	// DefaultBatchStrategy is polynomial and exact, so it scales to matrices
	DefaultBatchStrategy = StrategyDivideAndConquer

	// DefaultMaxWorkers of 0 lets the service use one worker per CPU
	DefaultMaxWorkers = 0
)

// DefaultConfigFileName is the project configuration discovered by walking up from the working directory
const DefaultConfigFileName = ".treedist.toml"

// DefaultTreePatterns are the glob patterns batch mode uses when none are given
var DefaultTreePatterns = []string{"**/*.tree", "**/*.json", "**/*.yaml", "**/*.yml"}

package ted

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// Strategy names one of the solving methods
type Strategy string

const (
	StrategyBacktracking       Strategy = "backtracking"
	StrategyBranchAndBound     Strategy = "branch_and_bound"
	StrategyDivideAndConquer   Strategy = "divide_and_conquer"
	StrategyDynamicProgramming Strategy = "dynamic_programming"
)

// Strategies returns every strategy in presentation order
func Strategies() []Strategy {
	return []Strategy{
		StrategyBacktracking,
		StrategyBranchAndBound,
		StrategyDivideAndConquer,
		StrategyDynamicProgramming,
	}
}

// ParseStrategy accepts a strategy name, case-insensitively, with dashes or
// underscores. Short aliases bt, bb, dc and dp are also accepted.
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	switch name {
	case "backtracking", "bt":
		return StrategyBacktracking, nil
	case "branch_and_bound", "bb":
		return StrategyBranchAndBound, nil
	case "divide_and_conquer", "dc":
		return StrategyDivideAndConquer, nil
	case "dynamic_programming", "dp":
		return StrategyDynamicProgramming, nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, s)
}

// Exact reports whether the strategy always returns the true distance
// under the ordered top-down mapping model
func (s Strategy) Exact() bool {
	return s != StrategyDynamicProgramming
}

// ProducesScript reports whether the strategy returns an edit script
func (s Strategy) ProducesScript() bool {
	return s == StrategyBacktracking || s == StrategyBranchAndBound
}

func (s Strategy) String() string {
	return string(s)
}

// Result is the outcome of one solve
type Result struct {
	Strategy Strategy
	Cost     float64
	// Script is nil for strategies that only compute a cost
	Script *EditScript
	// Stats is zero for strategies that do not search
	Stats Stats
}

// Solve runs the named strategy on t1 and t2.
// The dynamic programming strategy ignores opts. When a search strategy stops
// at a limit, the returned Result holds its partial Stats alongside the error.
func Solve(strategy Strategy, t1, t2 *tree.Tree, cost CostModel, opts ...Option) (*Result, error) {
	switch strategy {
	case StrategyBacktracking:
		return runSearch(t1, t2, cost, false, opts)
	case StrategyBranchAndBound:
		return runSearch(t1, t2, cost, true, opts)
	case StrategyDivideAndConquer:
		d, err := SolveDivideAndConquer(t1, t2, cost, opts...)
		if err != nil {
			return nil, err
		}
		return &Result{Strategy: strategy, Cost: d}, nil
	case StrategyDynamicProgramming:
		d, err := SolveDynamicProgramming(t1, t2, cost)
		if err != nil {
			return nil, err
		}
		return &Result{Strategy: strategy, Cost: d}, nil
	}
	return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, string(strategy))
}

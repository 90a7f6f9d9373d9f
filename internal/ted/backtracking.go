package ted

import (
	"errors"
	"fmt"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// SolveBacktracking finds the optimal edit script by exhaustive search.
//
// At every pending pair of sibling lists the search tries, in order, pairing
// the next source and target subtrees (MATCH or REPLACE of their roots
// followed by the alignment of their children), deleting the source subtree,
// and inserting the target subtree. A branch is dropped as soon as its
// accumulated cost reaches the best complete solution found so far.
//
// The search is exponential in the tree sizes; it is the reference method
// for small trees.
func SolveBacktracking(t1, t2 *tree.Tree, cost CostModel, opts ...Option) (float64, *EditScript, error) {
	res, err := runSearch(t1, t2, cost, false, opts)
	if err != nil {
		return 0, nil, err
	}
	return res.Cost, res.Script, nil
}

// runSearch drives one backtracking or branch-and-bound solve and verifies its script.
// A search stopped by a limit returns a Result without a script that carries
// the statistics gathered so far, together with ErrResourceExceeded.
func runSearch(t1, t2 *tree.Tree, cost CostModel, useBound bool, opts []Option) (*Result, error) {
	if err := cost.Validate(); err != nil {
		return nil, err
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	a, b := newSide(t1), newSide(t2)
	s := newSearcher(a, b, cost, o, useBound)
	if useBound {
		s.seed()
	}
	strategy := StrategyBacktracking
	if useBound {
		strategy = StrategyBranchAndBound
	}
	if err := s.run(); err != nil {
		if errors.Is(err, ErrResourceExceeded) {
			return &Result{Strategy: strategy, Stats: s.stats}, err
		}
		return nil, err
	}
	if !s.found {
		return nil, fmt.Errorf("%w: search finished without a solution", ErrInvariantViolation)
	}

	script := s.script()
	if err := script.Verify(a.t, b.t, cost); err != nil {
		return nil, err
	}

	return &Result{
		Strategy: strategy,
		Cost:     script.TotalCost,
		Script:   script,
		Stats:    s.stats,
	}, nil
}

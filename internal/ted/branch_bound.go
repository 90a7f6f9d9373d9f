package ted

import (
	"github.com/ludo-technologies/treedist/internal/tree"
)

// SolveBranchAndBound finds the optimal edit script with the backtracking
// decision tree plus two bounds:
//
//   - Upper bound: the trivial delete-all/insert-all script is installed as
//     the incumbent before the search starts.
//   - Lower bound: every pending sibling-list pair still has to pay for its
//     size difference, max(S1-S2,0)*delete + max(S2-S1,0)*insert. With unit
//     costs this is |size(a) - size(b)|. The bound never overestimates.
//
// A branch is dropped when accumulated + lowerBound >= incumbent. The result
// has the same cost as SolveBacktracking; only the number of visited
// branches differs.
func SolveBranchAndBound(t1, t2 *tree.Tree, cost CostModel, opts ...Option) (float64, *EditScript, error) {
	res, err := runSearch(t1, t2, cost, true, opts)
	if err != nil {
		return 0, nil, err
	}
	return res.Cost, res.Script, nil
}

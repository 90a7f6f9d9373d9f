// Package ted computes the edit distance between ordered labeled trees.
//
// Four strategies share one cost model and one mapping model (two nodes can
// be paired only when their parents are paired, and sibling order is kept):
//
//   - SolveBacktracking: exhaustive depth-first search over match, delete
//     and insert decisions, pruned against the best solution found so far.
//     Reconstructs an EditScript.
//   - SolveBranchAndBound: the same search seeded with the trivial
//     delete-all/insert-all solution and pruned with an admissible
//     size-difference lower bound. Reconstructs an EditScript.
//   - SolveDivideAndConquer: recursive decomposition where the children of
//     two paired nodes are aligned by a sequence edit distance whose
//     substitution cost is itself a tree distance. Cost only.
//   - SolveDynamicProgramming: a table over the postorder linearizations of
//     both trees in which only leaf pairs can be renamed. Fast, but it is
//     not the general forest distance: it can differ from the exact cost in
//     either direction and is only guaranteed to stay between
//     CostModel.SizeLowerBound and CostModel.TrivialBound.
//
// The three exact strategies always return the same cost. Search
// strategies are exponential and meant for small trees; use WithMaxBranches
// or WithTimeLimit to cap them. Exceeding a limit returns ErrResourceExceeded
// rather than an approximate answer.
//
// Solvers keep all search state per call and never modify their inputs, so
// independent calls may run concurrently.
//
// Basic usage:
//
//	t1 := tree.MustParse("A(B(D),C(E))")
//	t2 := tree.MustParse("A(B(D),F)")
//	cost, script, err := ted.SolveBranchAndBound(t1, t2, ted.Unit())
//	if err != nil {
//	    // Handle invalid configuration or exceeded limits
//	}
//	fmt.Println(cost) // 2
//	for _, op := range script.Operations {
//	    fmt.Println(op)
//	}
package ted

package ted

import (
	"math"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// SolveDivideAndConquer computes the exact distance by recursive decomposition.
//
// For two nodes a and b the cost is the cheaper of
//
//	rename(a, b) + align(children(a), children(b))
//	size(a)*delete + size(b)*insert
//
// where align is a sequence edit distance over the two ordered children
// lists whose substitution cost is the recursive distance of the paired
// children. Each pair of nodes is decomposed at most once, so the running
// time is O(|T1|·|T2|).
func SolveDivideAndConquer(t1, t2 *tree.Tree, cost CostModel, opts ...Option) (float64, error) {
	if err := cost.Validate(); err != nil {
		return 0, err
	}
	o, err := buildOptions(opts)
	if err != nil {
		return 0, err
	}

	s := &dcSolver{
		cost:   cost,
		a:      newSide(t1),
		b:      newSide(t2),
		budget: newBudget(o),
	}
	return s.align(s.a.roots(), s.b.roots(), 0)
}

type dcSolver struct {
	cost   CostModel
	a, b   side
	budget *budget
}

// distance returns the cost of transforming subtree x into subtree y
func (s *dcSolver) distance(x, y tree.NodeID, depth int) (float64, error) {
	if err := s.budget.enter(depth); err != nil {
		return 0, err
	}

	rename := s.cost.Rename(s.a.t.Label(x), s.b.t.Label(y))
	children, err := s.align(s.a.t.Children(x), s.b.t.Children(y), depth+1)
	if err != nil {
		return 0, err
	}
	replaceWhole := s.cost.TrivialBound(s.a.sizes[x], s.b.sizes[y])
	return math.Min(rename+children, replaceWhole), nil
}

// align returns the cost of transforming forest xs into forest ys while
// keeping sibling order. Rows are rolled, so memory is O(len(ys)).
func (s *dcSolver) align(xs, ys []tree.NodeID, depth int) (float64, error) {
	prev := make([]float64, len(ys)+1)
	cur := make([]float64, len(ys)+1)
	for j, y := range ys {
		prev[j+1] = prev[j] + float64(s.b.sizes[y])*s.cost.Insert
	}

	for _, x := range xs {
		del := float64(s.a.sizes[x]) * s.cost.Delete
		cur[0] = prev[0] + del
		for j, y := range ys {
			sub, err := s.distance(x, y, depth)
			if err != nil {
				return 0, err
			}
			ins := float64(s.b.sizes[y]) * s.cost.Insert
			cur[j+1] = math.Min(prev[j+1]+del, math.Min(cur[j]+ins, prev[j]+sub))
		}
		prev, cur = cur, prev
	}
	return prev[len(ys)], nil
}

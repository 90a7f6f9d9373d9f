package ted

import (
	"math"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// SolveDynamicProgramming fills a table over the postorder sequences of both
// trees:
//
//	dp[i][0] = i*delete, dp[0][j] = j*insert
//	dp[i][j] = min(dp[i-1][j] + delete,
//	               dp[i][j-1] + insert,
//	               dp[i-1][j-1] + rename)   only when both nodes are leaves
//
// Internal nodes are never renamed, so this is a restricted formulation and
// not the general forest distance. Its result can be above or below the
// exact cost, but always lies between CostModel.SizeLowerBound and
// CostModel.TrivialBound.
func SolveDynamicProgramming(t1, t2 *tree.Tree, cost CostModel) (float64, error) {
	if err := cost.Validate(); err != nil {
		return 0, err
	}
	if t1 == nil {
		t1 = tree.Empty()
	}
	if t2 == nil {
		t2 = tree.Empty()
	}

	post1, leaf1 := t1.Linearize()
	post2, leaf2 := t2.Linearize()
	n := len(post2)

	prev := make([]float64, n+1)
	cur := make([]float64, n+1)
	for j := 1; j <= n; j++ {
		prev[j] = float64(j) * cost.Insert
	}

	for i := 1; i <= len(post1); i++ {
		cur[0] = float64(i) * cost.Delete
		for j := 1; j <= n; j++ {
			best := math.Min(prev[j]+cost.Delete, cur[j-1]+cost.Insert)
			if leaf1[i-1] && leaf2[j-1] {
				rename := cost.Rename(t1.Label(post1[i-1]), t2.Label(post2[j-1]))
				best = math.Min(best, prev[j-1]+rename)
			}
			cur[j] = best
		}
		prev, cur = cur, prev
	}
	return prev[n], nil
}

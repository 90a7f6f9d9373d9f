package ted

import (
	"github.com/ludo-technologies/treedist/internal/tree"
)

// side is one input tree with its subtree sizes precomputed for a solve
type side struct {
	t     *tree.Tree
	sizes []int
}

func newSide(t *tree.Tree) side {
	if t == nil {
		t = tree.Empty()
	}
	return side{t: t, sizes: t.SubtreeSizes()}
}

// roots returns the top-level forest of the tree: its root, or nothing
func (s side) roots() []tree.NodeID {
	if s.t.IsEmpty() {
		return nil
	}
	return []tree.NodeID{s.t.Root()}
}

func (s side) size() int {
	if s.t.IsEmpty() {
		return 0
	}
	return s.sizes[s.t.Root()]
}

// forestSize sums the subtree sizes of a list of sibling subtrees
func (s side) forestSize(ids []tree.NodeID) int {
	n := 0
	for _, id := range ids {
		n += s.sizes[id]
	}
	return n
}

// appendDeletes appends a DELETE for every node of the subtree, in preorder
func (s side) appendDeletes(ops []EditOperation, id tree.NodeID, cost float64) []EditOperation {
	for n := range s.t.PreOrderFrom(id) {
		ops = append(ops, EditOperation{
			Kind:        OpDelete,
			Source:      n,
			Target:      tree.None,
			SourceLabel: s.t.Label(n),
			Cost:        cost,
		})
	}
	return ops
}

// appendInserts appends an INSERT for every node of the subtree, in preorder
func (s side) appendInserts(ops []EditOperation, id tree.NodeID, cost float64) []EditOperation {
	for n := range s.t.PreOrderFrom(id) {
		ops = append(ops, EditOperation{
			Kind:        OpInsert,
			Source:      tree.None,
			Target:      n,
			TargetLabel: s.t.Label(n),
			Cost:        cost,
		})
	}
	return ops
}

// pairOperation returns the MATCH or REPLACE pairing x in a with y in b
func pairOperation(a, b side, x, y tree.NodeID, cost CostModel) EditOperation {
	from, to := a.t.Label(x), b.t.Label(y)
	op := EditOperation{
		Kind:        OpMatch,
		Source:      x,
		Target:      y,
		SourceLabel: from,
		TargetLabel: to,
	}
	if from != to {
		op.Kind = OpReplace
		op.Cost = cost.Replace
	}
	return op
}

// trivialScript deletes every source node, then inserts every target node
func trivialScript(a, b side, cost CostModel) []EditOperation {
	ops := make([]EditOperation, 0, a.size()+b.size())
	for _, r := range a.roots() {
		ops = a.appendDeletes(ops, r, cost.Delete)
	}
	for _, r := range b.roots() {
		ops = b.appendInserts(ops, r, cost.Insert)
	}
	return ops
}

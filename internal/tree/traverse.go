package tree

import (
	"iter"
)

// PreOrder yields every node of the tree, parents before children
func (t *Tree) PreOrder() iter.Seq[NodeID] {
	if t.IsEmpty() {
		return func(func(NodeID) bool) {}
	}
	return t.PreOrderFrom(t.root)
}

// PreOrderFrom yields the subtree rooted at id in preorder.
// The traversal uses an explicit stack and can be restarted by ranging again.
func (t *Tree) PreOrderFrom(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !t.Contains(id) {
			return
		}
		stack := []NodeID{id}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if !yield(cur) {
				return
			}
			children := t.nodes[cur].children
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, children[i])
			}
		}
	}
}

// PostOrder yields every node of the tree, children before parents
func (t *Tree) PostOrder() iter.Seq[NodeID] {
	if t.IsEmpty() {
		return func(func(NodeID) bool) {}
	}
	return t.PostOrderFrom(t.root)
}

// PostOrderFrom yields the subtree rooted at id in postorder
func (t *Tree) PostOrderFrom(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		if !t.Contains(id) {
			return
		}
		type entry struct {
			id   NodeID
			next int // index of the next child to descend into
		}
		stack := []entry{{id: id}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := t.nodes[top.id].children
			if top.next < len(children) {
				child := children[top.next]
				top.next++
				stack = append(stack, entry{id: child})
				continue
			}
			stack = stack[:len(stack)-1]
			if !yield(top.id) {
				return
			}
		}
	}
}

// Linearize returns the postorder sequence of the tree together with a
// parallel slice marking which positions are leaves
func (t *Tree) Linearize() ([]NodeID, []bool) {
	order := make([]NodeID, 0, t.Len())
	leaves := make([]bool, 0, t.Len())
	for id := range t.PostOrder() {
		order = append(order, id)
		leaves = append(leaves, t.IsLeaf(id))
	}
	return order, leaves
}

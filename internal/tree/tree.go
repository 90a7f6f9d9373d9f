package tree

import (
	"fmt"
)

// NodeID identifies a node inside the Tree that owns it
type NodeID int

// None is the NodeID of an absent node (the parent of a root, the root of an empty tree)
const None NodeID = -1

// node is the arena record for a single tree node
type node struct {
	label    string
	parent   NodeID
	children []NodeID
}

// Tree is an immutable ordered labeled tree
type Tree struct {
	nodes []node
	root  NodeID
}

// Empty returns the empty tree
func Empty() *Tree {
	return &Tree{root: None}
}

// IsEmpty returns true if the tree has no root
func (t *Tree) IsEmpty() bool {
	return t == nil || t.root == None
}

// Root returns the root node, or None for the empty tree
func (t *Tree) Root() NodeID {
	if t == nil {
		return None
	}
	return t.root
}

// Len returns the number of nodes stored in the arena
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.nodes)
}

// Contains reports whether id addresses a node of this tree
func (t *Tree) Contains(id NodeID) bool {
	return t != nil && id >= 0 && int(id) < len(t.nodes)
}

// Label returns the label of the given node
func (t *Tree) Label(id NodeID) string {
	return t.nodes[id].label
}

// Parent returns the parent of the given node, or None for the root
func (t *Tree) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the ordered children of the given node.
// The returned slice is shared with the tree and must not be modified.
func (t *Tree) Children(id NodeID) []NodeID {
	c := t.nodes[id].children
	return c[:len(c):len(c)]
}

// IsLeaf returns true if the node has no children
func (t *Tree) IsLeaf(id NodeID) bool {
	return len(t.nodes[id].children) == 0
}

// ChildIndex returns the position of id among its siblings, or -1 for the root
func (t *Tree) ChildIndex(id NodeID) int {
	p := t.nodes[id].parent
	if p == None {
		return -1
	}
	for i, c := range t.nodes[p].children {
		if c == id {
			return i
		}
	}
	return -1
}

// Size returns the number of nodes reachable from the root
func (t *Tree) Size() int {
	if t.IsEmpty() {
		return 0
	}
	return t.SubtreeSize(t.root)
}

// SubtreeSize returns the number of nodes in the subtree rooted at id
func (t *Tree) SubtreeSize(id NodeID) int {
	size := 0
	for range t.PreOrderFrom(id) {
		size++
	}
	return size
}

// SubtreeSizes returns the subtree size of every node, indexed by NodeID.
// Sizes are computed in a single postorder pass.
func (t *Tree) SubtreeSizes() []int {
	sizes := make([]int, t.Len())
	if t.IsEmpty() {
		return sizes
	}
	for id := range t.PostOrder() {
		size := 1
		for _, c := range t.nodes[id].children {
			size += sizes[c]
		}
		sizes[id] = size
	}
	return sizes
}

// Height returns the number of edges on the longest root-to-leaf path.
// The empty tree has height -1 and a single node has height 0.
func (t *Tree) Height() int {
	if t.IsEmpty() {
		return -1
	}
	heights := make([]int, len(t.nodes))
	for id := range t.PostOrder() {
		h := 0
		for _, c := range t.nodes[id].children {
			if heights[c]+1 > h {
				h = heights[c] + 1
			}
		}
		heights[id] = h
	}
	return heights[t.root]
}

// Leaves returns the number of leaf nodes
func (t *Tree) Leaves() int {
	n := 0
	for id := range t.PreOrder() {
		if t.IsLeaf(id) {
			n++
		}
	}
	return n
}

// Equal reports whether both trees have the same shape and labels
func (t *Tree) Equal(other *Tree) bool {
	if t.IsEmpty() || other.IsEmpty() {
		return t.IsEmpty() == other.IsEmpty()
	}
	return t.subtreeEqual(t.root, other, other.root)
}

func (t *Tree) subtreeEqual(a NodeID, other *Tree, b NodeID) bool {
	type pair struct{ a, b NodeID }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		na, nb := t.nodes[p.a], other.nodes[p.b]
		if na.label != nb.label || len(na.children) != len(nb.children) {
			return false
		}
		for i := range na.children {
			stack = append(stack, pair{na.children[i], nb.children[i]})
		}
	}
	return true
}

// String returns a short description of the tree
func (t *Tree) String() string {
	if t.IsEmpty() {
		return "Tree{empty}"
	}
	return fmt.Sprintf("Tree{Root: %s, Size: %d}", t.Label(t.root), t.Size())
}

package tree

import (
	"errors"
	"fmt"
)

// ErrStructural is returned for malformed input trees: cycles, nodes with two
// parents, multiple roots, dangling edges or unparsable notation.
var ErrStructural = errors.New("malformed tree")

// Edge connects a parent to a child by their positions in the label list.
// Children are ordered by the order their edges appear.
type Edge struct {
	Parent int `json:"parent" yaml:"parent"`
	Child  int `json:"child" yaml:"child"`
}

// Build constructs a tree from labels and parent/child edges.
// It fails fast with ErrStructural instead of repairing a malformed input.
func Build(labels []string, edges []Edge) (*Tree, error) {
	if len(labels) == 0 {
		if len(edges) > 0 {
			return nil, fmt.Errorf("%w: %d edges given for an empty label list", ErrStructural, len(edges))
		}
		return Empty(), nil
	}

	t := &Tree{
		nodes: make([]node, len(labels)),
		root:  None,
	}
	for i, label := range labels {
		t.nodes[i] = node{label: label, parent: None}
	}

	for _, e := range edges {
		if e.Parent < 0 || e.Parent >= len(labels) || e.Child < 0 || e.Child >= len(labels) {
			return nil, fmt.Errorf("%w: edge %d->%d references a node outside 0..%d",
				ErrStructural, e.Parent, e.Child, len(labels)-1)
		}
		if e.Parent == e.Child {
			return nil, fmt.Errorf("%w: node %d is its own parent", ErrStructural, e.Child)
		}
		child := &t.nodes[e.Child]
		if child.parent != None {
			return nil, fmt.Errorf("%w: node %d (%q) is reachable from two parents (%d and %d)",
				ErrStructural, e.Child, child.label, child.parent, e.Parent)
		}
		child.parent = NodeID(e.Parent)
		t.nodes[e.Parent].children = append(t.nodes[e.Parent].children, NodeID(e.Child))
	}

	for i := range t.nodes {
		if t.nodes[i].parent != None {
			continue
		}
		if t.root != None {
			return nil, fmt.Errorf("%w: nodes %d and %d are both roots", ErrStructural, t.root, i)
		}
		t.root = NodeID(i)
	}
	if t.root == None {
		return nil, fmt.Errorf("%w: no root found, the edges form a cycle", ErrStructural)
	}

	// With one parent per node and a single root, any node not reachable
	// from the root sits on a cycle.
	if reached := t.Size(); reached != len(t.nodes) {
		return nil, fmt.Errorf("%w: cycle detected, %d of %d nodes unreachable from the root",
			ErrStructural, len(t.nodes)-reached, len(t.nodes))
	}

	return t, nil
}

// MustBuild is like Build but panics on error. Intended for fixtures.
func MustBuild(labels []string, edges []Edge) *Tree {
	t, err := Build(labels, edges)
	if err != nil {
		panic(err)
	}
	return t
}

// Builder constructs a tree top-down. Nodes are attached to an existing
// parent as they are added, so a Builder can never produce a cycle.
type Builder struct {
	tree  *Tree
	built bool
}

// NewBuilder creates a builder for an initially empty tree
func NewBuilder() *Builder {
	return &Builder{tree: Empty()}
}

// AddRoot adds the root node. A tree has exactly one root.
func (b *Builder) AddRoot(label string) (NodeID, error) {
	if b.built {
		return None, fmt.Errorf("builder already produced its tree")
	}
	if b.tree.root != None {
		return None, fmt.Errorf("%w: tree already has root %q", ErrStructural, b.tree.Label(b.tree.root))
	}
	id := b.add(None, label)
	b.tree.root = id
	return id, nil
}

// AddChild appends a new last child under parent
func (b *Builder) AddChild(parent NodeID, label string) (NodeID, error) {
	if b.built {
		return None, fmt.Errorf("builder already produced its tree")
	}
	if !b.tree.Contains(parent) {
		return None, fmt.Errorf("%w: parent %d does not exist", ErrStructural, parent)
	}
	return b.add(parent, label), nil
}

func (b *Builder) add(parent NodeID, label string) NodeID {
	id := NodeID(len(b.tree.nodes))
	b.tree.nodes = append(b.tree.nodes, node{label: label, parent: parent})
	if parent != None {
		b.tree.nodes[parent].children = append(b.tree.nodes[parent].children, id)
	}
	return id
}

// Tree returns the constructed tree. The builder cannot be used afterwards.
func (b *Builder) Tree() *Tree {
	b.built = true
	return b.tree
}

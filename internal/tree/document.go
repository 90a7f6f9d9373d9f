package tree

import "fmt"

// Document is the nested serialization of a tree used by JSON and YAML inputs:
//
//	label: A
//	children:
//	  - label: B
//	  - label: C
type Document struct {
	Label    string      `json:"label" yaml:"label"`
	Children []*Document `json:"children,omitempty" yaml:"children,omitempty"`
}

// FromDocument builds a tree from a nested document. A nil document is the empty tree.
// A document that contains itself or is a child of two parents is rejected
// with ErrStructural.
func FromDocument(doc *Document) (*Tree, error) {
	if doc == nil {
		return Empty(), nil
	}

	b := NewBuilder()
	root, err := b.AddRoot(doc.Label)
	if err != nil {
		return nil, err
	}

	type pending struct {
		parent NodeID
		doc    *Document
	}
	seen := map[*Document]bool{doc: true}
	queue := []pending{{parent: root, doc: doc}}
	// Breadth-first keeps sibling order because each parent's children are
	// appended in document order before any of them is expanded.
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range cur.doc.Children {
			if child == nil {
				continue
			}
			if seen[child] {
				return nil, fmt.Errorf("%w: document %q is reached twice (cycle or shared child)", ErrStructural, child.Label)
			}
			seen[child] = true
			id, err := b.AddChild(cur.parent, child.Label)
			if err != nil {
				return nil, err
			}
			queue = append(queue, pending{parent: id, doc: child})
		}
	}
	return b.Tree(), nil
}

// Document converts the tree back to its nested form. The empty tree gives nil.
func (t *Tree) Document() *Document {
	if t.IsEmpty() {
		return nil
	}
	docs := make([]*Document, t.Len())
	for id := range t.PostOrder() {
		d := &Document{Label: t.Label(id)}
		for _, c := range t.Children(id) {
			d.Children = append(d.Children, docs[c])
		}
		docs[id] = d
	}
	return docs[t.root]
}

// Package tree provides the ordered labeled tree model used by the edit
// distance solvers.
//
// A Tree owns its nodes in an arena and addresses them by NodeID. Children
// keep their left-to-right order, and the parent link is a plain index, so a
// tree is always a single rooted hierarchy without shared nodes or cycles.
// Trees are immutable once built.
//
// Trees can be constructed in several ways:
//   - Build from a label list and parent/child edges (validated)
//   - Builder for incremental, top-down construction
//   - Parse from bracket notation such as "A(B(D),C(E))"
//   - FromDocument for nested {label, children} JSON/YAML documents
//
// Basic usage:
//
//	t, err := tree.Parse("A(B(D),C(E))")
//	if err != nil {
//	    // Handle structural error
//	}
//	for id := range t.PostOrder() {
//	    fmt.Println(t.Label(id))
//	}
package tree

// Package parser turns Python source code into labeled ordered trees.
//
// Source is parsed with tree-sitter and the resulting concrete syntax tree is
// converted to a tree.Tree whose labels are grammar node types, so two
// programs can be compared with the edit distance strategies.
//
// Basic usage:
//
//	p := parser.New()
//	t, err := p.ParseTree(ctx, []byte("def hello(): pass"), parser.DefaultConvertOptions())
//	if err != nil {
//	    // Handle parsing error
//	}
//	fmt.Println(t.Bracket())
package parser

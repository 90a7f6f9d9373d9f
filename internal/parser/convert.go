package parser

import (
	"context"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// ConvertOptions controls how a syntax tree becomes a labeled tree
type ConvertOptions struct {
	// IncludeAnonymous keeps punctuation and keyword tokens such as "(" or "def"
	IncludeAnonymous bool

	// IncludeComments keeps comment nodes
	IncludeComments bool

	// LeafText appends the source text to leaf labels ("identifier:x"), so
	// renamed identifiers and changed literals count as replacements
	LeafText bool

	// MaxLeafText truncates leaf text, 0 means no limit
	MaxLeafText int
}

// DefaultConvertOptions labels named nodes by grammar type only
func DefaultConvertOptions() ConvertOptions {
	return ConvertOptions{MaxLeafText: 64}
}

// ParseTree parses source and converts it in one step
func (p *Parser) ParseTree(ctx context.Context, source []byte, opts ConvertOptions) (*tree.Tree, error) {
	result, err := p.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return ToTree(result, opts)
}

// ToTree converts a parse result into a tree.Tree. Node IDs are assigned in
// preorder. The walk uses an explicit stack so deeply nested source cannot
// overflow the goroutine stack.
func ToTree(result *ParseResult, opts ConvertOptions) (*tree.Tree, error) {
	b := tree.NewBuilder()
	if result == nil || result.RootNode == nil {
		return b.Tree(), nil
	}

	type item struct {
		node   *sitter.Node
		parent tree.NodeID
	}

	stack := []item{{node: result.RootNode, parent: tree.None}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		label := nodeLabel(it.node, result.SourceCode, opts)

		var id tree.NodeID
		var err error
		if it.parent == tree.None {
			id, err = b.AddRoot(label)
		} else {
			id, err = b.AddChild(it.parent, label)
		}
		if err != nil {
			return nil, err
		}

		children := keptChildren(it.node, opts)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, item{node: children[i], parent: id})
		}
	}

	return b.Tree(), nil
}

func keptChildren(n *sitter.Node, opts ConvertOptions) []*sitter.Node {
	count := int(n.ChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if !opts.IncludeAnonymous && !child.IsNamed() {
			continue
		}
		if !opts.IncludeComments && child.Type() == "comment" {
			continue
		}
		children = append(children, child)
	}
	return children
}

func nodeLabel(n *sitter.Node, source []byte, opts ConvertOptions) string {
	label := n.Type()
	if !opts.LeafText || !n.IsNamed() || n.ChildCount() != 0 {
		return label
	}

	text := strings.TrimSpace(n.Content(source))
	if text == "" {
		return label
	}
	if opts.MaxLeafText > 0 && len(text) > opts.MaxLeafText {
		text = truncateUTF8(text, opts.MaxLeafText)
		if text == "" {
			return label
		}
	}
	return label + ":" + text
}

// truncateUTF8 cuts s to at most n bytes without splitting a character
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

package tree

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Parse reads a tree in bracket notation: a label optionally followed by a
// parenthesized, comma-separated list of subtrees, e.g. "A(B(D),C(E))".
// Labels containing '(', ')', ',', '"' or surrounding spaces must be written
// as Go-style quoted strings. Blank input yields the empty tree.
func Parse(s string) (*Tree, error) {
	p := &bracketParser{src: s}
	p.skipSpace()
	if p.done() {
		return Empty(), nil
	}

	b := NewBuilder()
	if err := p.parseNode(b, None); err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.done() {
		return nil, p.errorf("unexpected %q after the root subtree", p.src[p.pos])
	}
	return b.Tree(), nil
}

// MustParse is like Parse but panics on error. Intended for fixtures.
func MustParse(s string) *Tree {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}

type bracketParser struct {
	src string
	pos int
}

func (p *bracketParser) done() bool { return p.pos >= len(p.src) }

func (p *bracketParser) peek() byte { return p.src[p.pos] }

func (p *bracketParser) skipSpace() {
	for !p.done() && unicode.IsSpace(rune(p.peek())) {
		p.pos++
	}
}

func (p *bracketParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: bracket notation at offset %d: %s", ErrStructural, p.pos, fmt.Sprintf(format, args...))
}

func (p *bracketParser) parseNode(b *Builder, parent NodeID) error {
	label, err := p.parseLabel()
	if err != nil {
		return err
	}

	var id NodeID
	if parent == None {
		id, err = b.AddRoot(label)
	} else {
		id, err = b.AddChild(parent, label)
	}
	if err != nil {
		return err
	}

	p.skipSpace()
	if p.done() || p.peek() != '(' {
		return nil
	}
	p.pos++ // '('

	for {
		p.skipSpace()
		if p.done() {
			return p.errorf("unterminated child list of %q", label)
		}
		if err := p.parseNode(b, id); err != nil {
			return err
		}
		p.skipSpace()
		if p.done() {
			return p.errorf("unterminated child list of %q", label)
		}
		switch p.peek() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return nil
		default:
			return p.errorf("expected ',' or ')' but found %q", p.peek())
		}
	}
}

func (p *bracketParser) parseLabel() (string, error) {
	p.skipSpace()
	if p.done() {
		return "", p.errorf("expected a label")
	}

	if p.peek() == '"' {
		rest := p.src[p.pos:]
		quoted, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return "", p.errorf("invalid quoted label: %v", err)
		}
		label, err := strconv.Unquote(quoted)
		if err != nil {
			return "", p.errorf("invalid quoted label: %v", err)
		}
		p.pos += len(quoted)
		return label, nil
	}

	start := p.pos
	for !p.done() && !isBracketDelimiter(p.peek()) {
		p.pos++
	}
	label := strings.TrimSpace(p.src[start:p.pos])
	if label == "" {
		return "", p.errorf("expected a label")
	}
	return label, nil
}

func isBracketDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == ',' || c == '"'
}

// Bracket renders the tree in the notation accepted by Parse
func (t *Tree) Bracket() string {
	if t.IsEmpty() {
		return ""
	}
	var sb strings.Builder
	t.writeBracket(&sb, t.root)
	return sb.String()
}

func (t *Tree) writeBracket(sb *strings.Builder, id NodeID) {
	sb.WriteString(quoteLabel(t.Label(id)))
	children := t.Children(id)
	if len(children) == 0 {
		return
	}
	sb.WriteByte('(')
	for i, c := range children {
		if i > 0 {
			sb.WriteByte(',')
		}
		t.writeBracket(sb, c)
	}
	sb.WriteByte(')')
}

func quoteLabel(label string) string {
	if label == "" || strings.TrimSpace(label) != label || strings.ContainsAny(label, "(),\"") {
		return strconv.Quote(label)
	}
	return label
}

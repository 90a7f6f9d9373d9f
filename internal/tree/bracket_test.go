package tree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		size    int
		bracket string
	}{
		{"single node", "A", 1, "A"},
		{"nested", "A(B(D),C(E))", 5, "A(B(D),C(E))"},
		{"whitespace", "  A ( B , C ( D ) )  ", 4, "A(B,C(D))"},
		{"multi-word label", "if stmt(cond, body)", 3, "if stmt(cond,body)"},
		{"quoted label", `A("x,y", "(z)")`, 3, `A("x,y","(z)")`},
		{"empty label", `""`, 1, `""`},
		{"blank input", "   ", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.size, tr.Size())
			assert.Equal(t, tt.bracket, tr.Bracket())
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"A(B(D),C(E))",
		`root("a b", " padded ", "quote\"d")`,
		"x(y(z(w)))",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			tr := MustParse(in)
			again, err := Parse(tr.Bracket())
			require.NoError(t, err)
			assert.True(t, tr.Equal(again))
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty child list", "A()"},
		{"unterminated", "A(B"},
		{"trailing comma", "A(B,)"},
		{"two roots", "A,B"},
		{"trailing input", "A(B)C"},
		{"bad quote", `A("unterminated)`},
		{"stray close", ")"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructural)
		})
	}
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { MustParse("A(") })
}

func TestDocument_JSON(t *testing.T) {
	input := `{"label":"A","children":[{"label":"B","children":[{"label":"D"}]},{"label":"C"}]}`

	var doc Document
	require.NoError(t, json.Unmarshal([]byte(input), &doc))

	tr, err := FromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, "A(B(D),C)", tr.Bracket())

	out, err := json.Marshal(tr.Document())
	require.NoError(t, err)
	assert.JSONEq(t, input, string(out))
}

func TestDocument_YAML(t *testing.T) {
	input := `
label: A
children:
  - label: B
  - label: C
    children:
      - label: E
      - label: F
`
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(input), &doc))

	tr, err := FromDocument(&doc)
	require.NoError(t, err)
	assert.Equal(t, "A(B,C(E,F))", tr.Bracket())
	assert.Equal(t, &doc, tr.Document())
}

func TestDocument_RejectsReusedNodes(t *testing.T) {
	cyclic := &Document{Label: "A"}
	cyclic.Children = []*Document{{Label: "B", Children: []*Document{cyclic}}}

	self := &Document{Label: "A"}
	self.Children = []*Document{self}

	shared := &Document{Label: "S"}

	tests := []struct {
		name string
		doc  *Document
	}{
		{"self loop", self},
		{"cycle", cyclic},
		{"shared child", &Document{Label: "R", Children: []*Document{shared, shared}}},
		{"shared across levels", &Document{Label: "R", Children: []*Document{
			shared,
			{Label: "T", Children: []*Document{shared}},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDocument(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructural)
		})
	}
}

func TestDocument_Empty(t *testing.T) {
	tr, err := FromDocument(nil)
	require.NoError(t, err)
	assert.True(t, tr.IsEmpty())
	assert.Nil(t, tr.Document())
}

func TestFingerprint(t *testing.T) {
	a := MustParse("A(B(D),C(E))")

	assert.Len(t, a.Fingerprint(), 64)
	assert.Equal(t, a.Fingerprint(), MustParse("A( B(D), C(E) )").Fingerprint())
	assert.Equal(t, Empty().Fingerprint(), MustParse("").Fingerprint())

	different := []string{
		"A(B(D),C(F))",
		"A(B(D,C(E)))",
		"A(C(E),B(D))",
		"A(BD,C(E))",
		"",
	}
	for _, s := range different {
		assert.NotEqual(t, a.Fingerprint(), MustParse(s).Fingerprint(), s)
	}

	// label boundaries are part of the digest
	assert.NotEqual(t, MustParse("ab(c)").Fingerprint(), MustParse("a(bc)").Fingerprint())
}

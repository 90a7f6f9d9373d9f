package ted

import (
	"testing"

	"github.com/ludo-technologies/treedist/internal/tree"
	"github.com/stretchr/testify/assert"
)

func TestOpKind_String(t *testing.T) {
	assert.Equal(t, "INSERT", OpInsert.String())
	assert.Equal(t, "DELETE", OpDelete.String())
	assert.Equal(t, "REPLACE", OpReplace.String())
	assert.Equal(t, "MATCH", OpMatch.String())
	assert.Equal(t, "UNKNOWN", OpKind(0).String())
}

func TestEditScript_NilSafe(t *testing.T) {
	var s *EditScript
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.Count(OpInsert))
	assert.ErrorIs(t, s.Verify(tree.Empty(), tree.Empty(), Unit()), ErrInvariantViolation)
}

func deleteOp(id tree.NodeID, label string) EditOperation {
	return EditOperation{Kind: OpDelete, Source: id, Target: tree.None, SourceLabel: label, Cost: 1}
}

func insertOp(id tree.NodeID, label string) EditOperation {
	return EditOperation{Kind: OpInsert, Source: tree.None, Target: id, TargetLabel: label, Cost: 1}
}

func pairOp(kind OpKind, s, t tree.NodeID, cost float64) EditOperation {
	return EditOperation{Kind: kind, Source: s, Target: t, Cost: cost}
}

func TestEditScript_Verify(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		target  string
		ops     []EditOperation
		total   float64
		wantErr bool
	}{
		{
			name:   "trivial script",
			source: "A(B)",
			target: "C",
			ops:    []EditOperation{deleteOp(0, "A"), deleteOp(1, "B"), insertOp(0, "C")},
		},
		{
			name:   "match and replace",
			source: "A(B)",
			target: "A(C)",
			ops:    []EditOperation{pairOp(OpMatch, 0, 0, 0), pairOp(OpReplace, 1, 1, 1)},
		},
		{
			name:    "source node missing",
			source:  "A(B)",
			target:  "A",
			ops:     []EditOperation{pairOp(OpMatch, 0, 0, 0)},
			wantErr: true,
		},
		{
			name:    "target node twice",
			source:  "A",
			target:  "B",
			ops:     []EditOperation{deleteOp(0, "A"), insertOp(0, "B"), insertOp(0, "B")},
			wantErr: true,
		},
		{
			name:    "unknown node",
			source:  "A",
			target:  "A",
			ops:     []EditOperation{pairOp(OpMatch, 0, 3, 0)},
			wantErr: true,
		},
		{
			name:    "match on different labels",
			source:  "A",
			target:  "B",
			ops:     []EditOperation{pairOp(OpMatch, 0, 0, 0)},
			wantErr: true,
		},
		{
			name:    "replace on equal labels",
			source:  "A",
			target:  "A",
			ops:     []EditOperation{pairOp(OpReplace, 0, 0, 1)},
			wantErr: true,
		},
		{
			name:    "mispriced operation",
			source:  "A",
			target:  "B",
			ops:     []EditOperation{pairOp(OpReplace, 0, 0, 0.5)},
			wantErr: true,
		},
		{
			name:    "children out of order",
			source:  "A(B,C)",
			target:  "A(C,B)",
			ops:     []EditOperation{pairOp(OpMatch, 0, 0, 0), pairOp(OpMatch, 1, 2, 0), pairOp(OpMatch, 2, 1, 0)},
			wantErr: true,
		},
		{
			name:    "paired under unpaired parents",
			source:  "A(B)",
			target:  "X(B)",
			ops:     []EditOperation{deleteOp(0, "A"), insertOp(0, "X"), pairOp(OpMatch, 1, 1, 0)},
			wantErr: true,
		},
		{
			name:    "root paired with non-root",
			source:  "A",
			target:  "X(A)",
			ops:     []EditOperation{insertOp(0, "X"), pairOp(OpMatch, 0, 1, 0)},
			wantErr: true,
		},
		{
			name:    "total disagrees with operations",
			source:  "A",
			target:  "B",
			ops:     []EditOperation{pairOp(OpReplace, 0, 0, 1)},
			total:   7,
			wantErr: true,
		},
		{
			name:    "unknown kind",
			source:  "A",
			target:  "",
			ops:     []EditOperation{{Kind: OpKind(9), Source: 0}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := newEditScript(tt.ops)
			if tt.total != 0 {
				script.TotalCost = tt.total
			}
			err := script.Verify(tree.MustParse(tt.source), tree.MustParse(tt.target), Unit())
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvariantViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEditScript_VerifyRejectsCostAboveTrivialBound(t *testing.T) {
	// Replace priced at 5 makes the paired script valid but more expensive than delete+insert.
	cost := CostModel{Insert: 1, Delete: 1, Replace: 5}
	script := newEditScript([]EditOperation{pairOp(OpReplace, 0, 0, 5)})

	err := script.Verify(tree.MustParse("A"), tree.MustParse("B"), cost)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

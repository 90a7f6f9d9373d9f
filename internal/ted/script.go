package ted

import (
	"fmt"
	"math"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// costTolerance absorbs floating point drift when comparing summed costs
const costTolerance = 1e-9

// OpKind is the kind of an edit operation
type OpKind int

const (
	// OpInsert inserts a target node
	OpInsert OpKind = iota + 1
	// OpDelete deletes a source node
	OpDelete
	// OpReplace pairs two nodes with different labels
	OpReplace
	// OpMatch pairs two nodes with identical labels
	OpMatch
)

// String returns the upper-case name of the kind
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "INSERT"
	case OpDelete:
		return "DELETE"
	case OpReplace:
		return "REPLACE"
	case OpMatch:
		return "MATCH"
	default:
		return "UNKNOWN"
	}
}

// EditOperation is one step of an edit script. Source is tree.None for
// inserts and Target is tree.None for deletes.
type EditOperation struct {
	Kind        OpKind
	Source      tree.NodeID
	Target      tree.NodeID
	SourceLabel string
	TargetLabel string
	Cost        float64
}

// String renders the operation the way it is printed in reports
func (op EditOperation) String() string {
	switch op.Kind {
	case OpInsert:
		return fmt.Sprintf("INSERT '%s' (cost: %g)", op.TargetLabel, op.Cost)
	case OpDelete:
		return fmt.Sprintf("DELETE '%s' (cost: %g)", op.SourceLabel, op.Cost)
	case OpReplace:
		return fmt.Sprintf("REPLACE '%s' -> '%s' (cost: %g)", op.SourceLabel, op.TargetLabel, op.Cost)
	case OpMatch:
		return fmt.Sprintf("MATCH '%s' = '%s' (cost: %g)", op.SourceLabel, op.TargetLabel, op.Cost)
	default:
		return fmt.Sprintf("UNKNOWN (cost: %g)", op.Cost)
	}
}

// EditScript is an ordered sequence of operations transforming one tree into another
type EditScript struct {
	Operations []EditOperation
	TotalCost  float64
}

func newEditScript(ops []EditOperation) *EditScript {
	s := &EditScript{Operations: ops}
	for _, op := range ops {
		s.TotalCost += op.Cost
	}
	return s
}

// Len returns the number of operations
func (s *EditScript) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Operations)
}

// Count returns how many operations of the given kind the script holds
func (s *EditScript) Count(kind OpKind) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, op := range s.Operations {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Verify checks that the script is a valid, correctly priced edit of source
// into target under cost: every source node deleted or paired exactly once,
// every target node inserted or paired exactly once, pairs respect parent
// pairing and sibling order, and the total equals the sum of operation costs
// and stays within the trivial bound. Violations wrap ErrInvariantViolation.
func (s *EditScript) Verify(source, target *tree.Tree, cost CostModel) error {
	if s == nil {
		return fmt.Errorf("%w: nil script", ErrInvariantViolation)
	}

	srcSeen := make([]bool, source.Len())
	dstSeen := make([]bool, target.Len())
	pairOf := make(map[tree.NodeID]tree.NodeID)
	sum := 0.0

	claim := func(seen []bool, id tree.NodeID, side string, op EditOperation) error {
		if id < 0 || int(id) >= len(seen) {
			return fmt.Errorf("%w: %s references unknown %s node %d", ErrInvariantViolation, op, side, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: %s node %d accounted for twice", ErrInvariantViolation, side, id)
		}
		seen[id] = true
		return nil
	}

	for _, op := range s.Operations {
		var expected float64
		switch op.Kind {
		case OpInsert:
			if err := claim(dstSeen, op.Target, "target", op); err != nil {
				return err
			}
			expected = cost.Insert
		case OpDelete:
			if err := claim(srcSeen, op.Source, "source", op); err != nil {
				return err
			}
			expected = cost.Delete
		case OpMatch, OpReplace:
			if err := claim(srcSeen, op.Source, "source", op); err != nil {
				return err
			}
			if err := claim(dstSeen, op.Target, "target", op); err != nil {
				return err
			}
			sameLabel := source.Label(op.Source) == target.Label(op.Target)
			if sameLabel != (op.Kind == OpMatch) {
				return fmt.Errorf("%w: %s does not fit labels %q and %q",
					ErrInvariantViolation, op.Kind, source.Label(op.Source), target.Label(op.Target))
			}
			expected = cost.Rename(source.Label(op.Source), target.Label(op.Target))
			pairOf[op.Source] = op.Target
		default:
			return fmt.Errorf("%w: unknown operation kind %d", ErrInvariantViolation, op.Kind)
		}
		if math.Abs(op.Cost-expected) > costTolerance {
			return fmt.Errorf("%w: %s priced %g, cost model says %g", ErrInvariantViolation, op, op.Cost, expected)
		}
		sum += op.Cost
	}

	for id, seen := range srcSeen {
		if !seen {
			return fmt.Errorf("%w: source node %d (%q) not accounted for", ErrInvariantViolation, id, source.Label(tree.NodeID(id)))
		}
	}
	for id, seen := range dstSeen {
		if !seen {
			return fmt.Errorf("%w: target node %d (%q) not accounted for", ErrInvariantViolation, id, target.Label(tree.NodeID(id)))
		}
	}

	if err := verifyMapping(source, target, pairOf); err != nil {
		return err
	}

	if math.Abs(sum-s.TotalCost) > costTolerance {
		return fmt.Errorf("%w: total cost %g differs from operation sum %g", ErrInvariantViolation, s.TotalCost, sum)
	}
	if bound := cost.TrivialBound(source.Size(), target.Size()); s.TotalCost > bound+costTolerance {
		return fmt.Errorf("%w: total cost %g exceeds trivial bound %g", ErrInvariantViolation, s.TotalCost, bound)
	}
	return nil
}

// verifyMapping checks that paired nodes have paired parents (or are both
// roots) and that paired siblings appear in the same order on both sides
func verifyMapping(source, target *tree.Tree, pairOf map[tree.NodeID]tree.NodeID) error {
	for s, t := range pairOf {
		ps, pt := source.Parent(s), target.Parent(t)
		if ps == tree.None || pt == tree.None {
			if ps != pt {
				return fmt.Errorf("%w: root paired with a non-root (%d, %d)", ErrInvariantViolation, s, t)
			}
			continue
		}
		if got, ok := pairOf[ps]; !ok || got != pt {
			return fmt.Errorf("%w: nodes %d and %d paired under unpaired parents", ErrInvariantViolation, s, t)
		}
	}

	for s := range pairOf {
		last := -1
		for _, c := range source.Children(s) {
			t, ok := pairOf[c]
			if !ok {
				continue
			}
			idx := target.ChildIndex(t)
			if idx <= last {
				return fmt.Errorf("%w: children of node %d paired out of order", ErrInvariantViolation, s)
			}
			last = idx
		}
	}
	return nil
}

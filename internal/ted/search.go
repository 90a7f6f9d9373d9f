package ted

import (
	"math"

	"github.com/ludo-technologies/treedist/internal/tree"
)

// Stats reports how much of the decision tree a search visited
type Stats struct {
	// Visited is the number of search states entered
	Visited int64
	// Pruned is the number of states abandoned by cost or bound pruning
	Pruned int64
	// Improvements is the number of times the incumbent was replaced
	Improvements int64
}

// frame is a pending alignment of the sibling lists src[i:] and dst[j:].
// Frames form an immutable stack: the frame aligning the children of a
// freshly paired node sits above the frame that continues with its siblings.
type frame struct {
	src []tree.NodeID
	i   int
	dst []tree.NodeID
	j   int

	// remaining node counts of src[i:] and dst[j:]
	remSrc int
	remDst int
	// lower bound of every frame below this one
	tailBound float64

	next *frame
}

// searcher holds the state of one backtracking or branch-and-bound solve.
// The incumbent lives here, never in package state.
type searcher struct {
	cost     CostModel
	a, b     side
	useBound bool
	budget   *budget

	path     []EditOperation
	best     []EditOperation
	bestCost float64
	found    bool

	stats Stats
}

func newSearcher(a, b side, cost CostModel, o Options, useBound bool) *searcher {
	return &searcher{
		cost:     cost,
		a:        a,
		b:        b,
		useBound: useBound,
		budget:   newBudget(o),
		bestCost: math.Inf(1),
	}
}

// frameBound is the admissible size-difference bound of a single frame
func (s *searcher) frameBound(remSrc, remDst int) float64 {
	return s.cost.SizeLowerBound(remSrc, remDst)
}

func (s *searcher) newFrame(src []tree.NodeID, dst []tree.NodeID, next *frame) *frame {
	f := &frame{
		src:    src,
		dst:    dst,
		remSrc: s.a.forestSize(src),
		remDst: s.b.forestSize(dst),
		next:   next,
	}
	if next != nil {
		f.tailBound = next.bound(s)
	}
	return f
}

// advance returns the frame with di source and dj target siblings consumed
func (s *searcher) advance(f *frame, di, dj int) *frame {
	nf := *f
	for k := 0; k < di; k++ {
		nf.remSrc -= s.a.sizes[f.src[f.i+k]]
	}
	for k := 0; k < dj; k++ {
		nf.remDst -= s.b.sizes[f.dst[f.j+k]]
	}
	nf.i += di
	nf.j += dj
	return &nf
}

// bound is the lower bound on the cost still needed to finish f and every frame below it
func (f *frame) bound(s *searcher) float64 {
	if f == nil {
		return 0
	}
	return s.frameBound(f.remSrc, f.remDst) + f.tailBound
}

// seed installs the trivial delete-all/insert-all solution as incumbent
func (s *searcher) seed() {
	s.best = trivialScript(s.a, s.b, s.cost)
	s.bestCost = s.cost.TrivialBound(s.a.size(), s.b.size())
	s.found = true
}

func (s *searcher) run() error {
	root := s.newFrame(s.a.roots(), s.b.roots(), nil)
	return s.explore(root, 0, 0)
}

func (s *searcher) record(acc float64) {
	if acc < s.bestCost || !s.found {
		s.bestCost = acc
		s.best = append(s.best[:0:0], s.path...)
		s.found = true
		s.stats.Improvements++
	}
}

// explore searches every completion of the pending frames f given the
// accumulated cost of the operations already on the path
func (s *searcher) explore(f *frame, acc float64, depth int) error {
	if err := s.budget.enter(depth); err != nil {
		return err
	}
	if err := s.budget.branch(); err != nil {
		return err
	}
	s.stats.Visited++

	if s.prune(f, acc) {
		s.stats.Pruned++
		return nil
	}

	// Drop finished frames; a finished stack is a complete solution.
	for f != nil && f.i == len(f.src) && f.j == len(f.dst) {
		f = f.next
	}
	if f == nil {
		s.record(acc)
		return nil
	}

	mark := len(s.path)
	defer func() { s.path = s.path[:mark] }()

	// One side exhausted: the rest of the frame is forced.
	if f.i == len(f.src) {
		for _, y := range f.dst[f.j:] {
			s.path = s.b.appendInserts(s.path, y, s.cost.Insert)
		}
		cost := float64(f.remDst) * s.cost.Insert
		return s.explore(f.next, acc+cost, depth+1)
	}
	if f.j == len(f.dst) {
		for _, x := range f.src[f.i:] {
			s.path = s.a.appendDeletes(s.path, x, s.cost.Delete)
		}
		cost := float64(f.remSrc) * s.cost.Delete
		return s.explore(f.next, acc+cost, depth+1)
	}

	x, y := f.src[f.i], f.dst[f.j]

	// Pair x with y, then align their children before their later siblings.
	op := pairOperation(s.a, s.b, x, y, s.cost)
	s.path = append(s.path, op)
	siblings := s.advance(f, 1, 1)
	children := s.newFrame(s.a.t.Children(x), s.b.t.Children(y), siblings)
	if err := s.explore(children, acc+op.Cost, depth+1); err != nil {
		return err
	}
	s.path = s.path[:mark]

	// Delete the whole subtree x.
	s.path = s.a.appendDeletes(s.path, x, s.cost.Delete)
	del := float64(s.a.sizes[x]) * s.cost.Delete
	if err := s.explore(s.advance(f, 1, 0), acc+del, depth+1); err != nil {
		return err
	}
	s.path = s.path[:mark]

	// Insert the whole subtree y.
	s.path = s.b.appendInserts(s.path, y, s.cost.Insert)
	ins := float64(s.b.sizes[y]) * s.cost.Insert
	return s.explore(s.advance(f, 0, 1), acc+ins, depth+1)
}

// prune reports whether no completion of f can beat the incumbent
func (s *searcher) prune(f *frame, acc float64) bool {
	if !s.found {
		return false
	}
	if s.useBound {
		return acc+f.bound(s) >= s.bestCost
	}
	return acc >= s.bestCost
}

// script returns the incumbent as an edit script
func (s *searcher) script() *EditScript {
	return newEditScript(s.best)
}

package ted

import (
	"fmt"
	"time"
)

const (
	// DefaultMaxDepth bounds the recursion depth of the recursive solvers
	DefaultMaxDepth = 4096

	// deadlineCheckMask makes the budget look at the clock every 4096 steps
	deadlineCheckMask = 4095
)

// Options controls resource limits of a solve
type Options struct {
	// MaxDepth is the deepest recursion a solver may reach
	MaxDepth int

	// MaxBranches caps the number of search states visited by the search
	// strategies. 0 means unlimited.
	MaxBranches int64

	// TimeLimit is a soft wall-clock budget. 0 means unlimited.
	TimeLimit time.Duration
}

// Option configures a solve
type Option func(*Options)

// WithMaxDepth sets the recursion depth guard
func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = depth }
}

// WithMaxBranches sets the search-state budget of the search strategies
func WithMaxBranches(n int64) Option {
	return func(o *Options) { o.MaxBranches = n }
}

// WithTimeLimit sets a soft wall-clock budget
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// DefaultOptions returns the limits used when no option is given
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth}
}

func buildOptions(opts []Option) (Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.MaxDepth <= 0 {
		return o, fmt.Errorf("%w: max depth must be > 0, got %d", ErrInvalidConfiguration, o.MaxDepth)
	}
	if o.MaxBranches < 0 {
		return o, fmt.Errorf("%w: max branches must be >= 0, got %d", ErrInvalidConfiguration, o.MaxBranches)
	}
	if o.TimeLimit < 0 {
		return o, fmt.Errorf("%w: time limit must be >= 0, got %s", ErrInvalidConfiguration, o.TimeLimit)
	}
	return o, nil
}

// budget tracks work done by a single solve against its limits
type budget struct {
	maxDepth    int
	maxBranches int64
	branches    int64

	useDeadline bool
	deadline    time.Time
	steps       int
}

func newBudget(o Options) *budget {
	b := &budget{
		maxDepth:    o.MaxDepth,
		maxBranches: o.MaxBranches,
	}
	if o.TimeLimit > 0 {
		b.useDeadline = true
		b.deadline = time.Now().Add(o.TimeLimit)
	}
	return b
}

// enter accounts for one unit of work at the given recursion depth
func (b *budget) enter(depth int) error {
	if depth > b.maxDepth {
		return fmt.Errorf("%w: recursion depth %d exceeds limit %d", ErrResourceExceeded, depth, b.maxDepth)
	}
	b.steps++
	if b.useDeadline && (b.steps&deadlineCheckMask) == 0 && time.Now().After(b.deadline) {
		return fmt.Errorf("%w: time limit reached after %d steps", ErrResourceExceeded, b.steps)
	}
	return nil
}

// branch accounts for one visited search state
func (b *budget) branch() error {
	b.branches++
	if b.maxBranches > 0 && b.branches > b.maxBranches {
		return fmt.Errorf("%w: branch budget of %d exhausted", ErrResourceExceeded, b.maxBranches)
	}
	return nil
}

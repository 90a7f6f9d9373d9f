package ted

import (
	"errors"
)

var (
	// ErrInvalidConfiguration is returned for negative or non-finite costs,
	// unknown strategies and invalid solver options.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrResourceExceeded is returned when a solve hits its depth guard,
	// branch budget or time limit. No optimal solution is reported.
	ErrResourceExceeded = errors.New("resource limit exceeded")

	// ErrInvariantViolation signals an edit script that does not account for
	// every node exactly once, or that disagrees with its own cost. It is
	// always a defect in a solver.
	ErrInvariantViolation = errors.New("edit script invariant violated")
)

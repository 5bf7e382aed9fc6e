package optim

import "errors"

var (
	// ErrInvalidConfig is wrapped by every configuration error a solver
	// returns before it starts.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInfeasible is returned when rejection sampling fails to find a point
	// satisfying the constraints within the configured number of attempts.
	ErrInfeasible = errors.New("infeasible region: generation stalled")

	// ErrNaN is returned when an objective evaluates to NaN, which has no
	// place in the fitness ordering.
	ErrNaN = errors.New("objective value is NaN")
)

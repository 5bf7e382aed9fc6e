package abc

import "context"

// Iteration is the record a colony hands its observer after each cycle.
type Iteration struct {
	// Run counts the colony's runs starting at 1.
	Run int
	// Iter counts the cycles of the current run starting at 1.
	Iter int
	// Best is the global best after this cycle.
	Best Candidate
	// Foods is a copy of the population after this cycle.
	Foods Population
	// Evals is the number of objective evaluations so far in this run.
	Evals int
	// Scout is the index of the food source abandoned this cycle, or -1.
	Scout int
}

// Observer receives one record per iteration.  A non-nil error aborts the
// run.
type Observer interface {
	Observe(ctx context.Context, it Iteration) error
}

type ObserverFunc func(ctx context.Context, it Iteration) error

func (fn ObserverFunc) Observe(ctx context.Context, it Iteration) error { return fn(ctx, it) }

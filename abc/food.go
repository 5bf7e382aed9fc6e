package abc

import (
	"math"

	"github.com/Baaaaam/optim"
	"gonum.org/v1/gonum/floats"
)

// Candidate is a food source: a feasible position with its objective value
// and the bookkeeping the foraging phases need.
type Candidate struct {
	optim.Point
	Fitness float64
	// Trials counts consecutive mutations of this food source that failed
	// to improve it.
	Trials int
	// Prob is the onlooker selection probability, in [0.1, 1].
	Prob float64
}

// Population is the fixed-size set of food sources of a colony.
type Population []Candidate

// UpdateProbs recomputes every food source's onlooker selection probability
// as 0.9*fitness/sum(fitness) + 0.1 so that no source is ever starved.  If
// the sum is zero or not finite (e.g. every objective value is +Inf while
// minimizing) all sources get the uniform share 0.9/N + 0.1.
func (pop Population) UpdateProbs() {
	fits := make([]float64, len(pop))
	for i := range pop {
		fits[i] = pop[i].Fitness
	}
	sum := floats.Sum(fits)
	if sum <= 0 || math.IsInf(sum, 0) || math.IsNaN(sum) {
		for i := range pop {
			pop[i].Prob = 0.9/float64(len(pop)) + 0.1
		}
		return
	}
	for i := range pop {
		pop[i].Prob = 0.9*(pop[i].Fitness/sum) + 0.1
	}
}

// MaxTrials returns the index of the food source with the most failed
// trials.  Ties go to the lowest index.
func (pop Population) MaxTrials() int {
	idx := 0
	for i := range pop {
		if pop[i].Trials > pop[idx].Trials {
			idx = i
		}
	}
	return idx
}

// Package pop generates feasible positions for population based solvers and
// keeps an archive of the best points a solver has visited.
package pop

import (
	"fmt"
	"math/rand/v2"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/mesh"
)

// Sample draws positions uniformly from the box [low, up) until constr
// accepts one.  The whole vector is redrawn on rejection.  If m is not nil
// every draw is snapped onto m before the feasibility check.  Sample gives up
// after maxiter draws and returns an error wrapping optim.ErrInfeasible; a
// non-positive maxiter never gives up.  The number of draws is returned in
// iter.
func Sample(rng *rand.Rand, low, up []float64, constr optim.Constrainer, m mesh.Mesh, maxiter int) (pos []float64, iter int, err error) {
	for maxiter <= 0 || iter < maxiter {
		iter++
		pos = optim.RandPos(rng, low, up)
		if m != nil {
			pos = m.Nearest(pos)
		}

		ok, err := constr.Feasible(pos)
		if err != nil {
			return nil, iter, err
		} else if ok {
			return pos, iter, nil
		}
	}
	return nil, iter, fmt.Errorf("no feasible point in %v draws: %w", iter, optim.ErrInfeasible)
}

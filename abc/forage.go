package abc

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/pop"
)

func observerErr(iter int, err error) error {
	return fmt.Errorf("abc: observer failed at iteration %v: %w", iter, err)
}

// newFood generates a feasible food source for slot i.
func (c *Colony) newFood(i int) (Candidate, error) {
	pos, _, err := pop.Sample(c.rng, c.cfg.Lower, c.cfg.Upper, c.constr, c.mesh, c.maxAttempts)
	if errors.Is(err, optim.ErrInfeasible) {
		return Candidate{}, fmt.Errorf("abc: food source %v: %w", i, err)
	} else if err != nil {
		return Candidate{}, err
	}
	return c.evaluate(pos)
}

func (c *Colony) evaluate(pos []float64) (Candidate, error) {
	val, err := c.obj.Objective(pos)
	c.neval++
	if err != nil {
		return Candidate{}, err
	} else if math.IsNaN(val) {
		return Candidate{}, fmt.Errorf("abc: evaluating %v: %w", pos, optim.ErrNaN)
	}
	return Candidate{
		Point:   optim.NewPoint(pos, val),
		Fitness: Fitness(val, c.cfg.Mode),
	}, nil
}

// randIndex returns a uniform index in [0, n).
func (c *Colony) randIndex(n int) int {
	return int(c.rng.Float64() * float64(n))
}

// mutate moves food source i along one random dimension relative to a
// random partner and keeps the mutant only if it is strictly fitter.
func (c *Colony) mutate(i int) error {
	food := c.foods[i]
	d := c.randIndex(c.cfg.Dims)
	j := c.randIndex(len(c.foods))
	for j == i {
		j = c.randIndex(len(c.foods))
	}

	xi, xj := food.At(d), c.foods[j].At(d)
	var pos []float64
	feasible := false
	for n := 0; c.maxAttempts <= 0 || n < c.maxAttempts; n++ {
		phi := (c.rng.Float64() - 0.5) * 2
		pos = food.Pos()
		pos[d] = optim.Clamp(xi+(xi-xj)*phi, c.cfg.Lower[d], c.cfg.Upper[d])
		if c.mesh != nil {
			pos = c.mesh.Nearest(pos)
		}

		ok, err := c.constr.Feasible(pos)
		if err != nil {
			return err
		} else if ok {
			feasible = true
			break
		}
	}

	if !feasible {
		// the source itself stays feasible, so a stalled mutation is just
		// another failed trial
		c.foods[i].Trials++
		c.logger.Debug("mutation stalled", slog.Int("food", i), slog.Int("dim", d), slog.Int("attempts", c.maxAttempts))
		return nil
	}

	mutant, err := c.evaluate(pos)
	if err != nil {
		return err
	}
	if mutant.Fitness > food.Fitness {
		mutant.Prob = food.Prob
		c.foods[i] = mutant
	} else {
		c.foods[i].Trials++
	}
	return nil
}

// employ sends one employed bee to every food source.
func (c *Colony) employ() error {
	for i := range c.foods {
		if err := c.mutate(i); err != nil {
			return err
		}
	}
	return nil
}

// onlook performs exactly one onlooker visit per food source using
// stochastic acceptance: the scan pointer advances cyclically and the
// pointed source is visited when a uniform draw falls below its
// probability.  Unless FullOnlookerScan is set the pointer wraps before the
// last source.
func (c *Colony) onlook() error {
	n := len(c.foods)
	wrap := n - 1
	if c.fullScan {
		wrap = n
	}

	i := 0
	for visits := 0; visits < n; {
		if c.rng.Float64() < c.foods[i].Prob {
			visits++
			if err := c.mutate(i); err != nil {
				return err
			}
		}
		i++
		if i >= wrap {
			i = 0
		}
	}
	return nil
}

func (c *Colony) better(v, than float64) bool {
	if c.modeAware && c.cfg.Mode == Maximize {
		return v > than
	}
	return v < than
}

// memorize updates the global best from the population and feeds the elite
// archive.
func (c *Colony) memorize() {
	for _, food := range c.foods {
		if c.better(food.Val, c.best.Val) {
			c.best = food
		}
		c.archive.Add(food.Point)
	}
}

// scout abandons the food source with the most failed trials if it exceeds
// the limit and returns its index, or -1 if nothing was abandoned.
func (c *Colony) scout() (int, error) {
	idx := c.foods.MaxTrials()
	trials := c.foods[idx].Trials
	if trials <= c.cfg.TrialsLimit {
		return -1, nil
	}

	food, err := c.newFood(idx)
	if err != nil {
		return -1, err
	}
	c.foods[idx] = food
	c.nscout++
	c.logger.Debug("food source abandoned",
		slog.Int("food", idx),
		slog.Int("trials", trials),
		slog.Int("iter", c.iter+1),
	)
	return idx, nil
}

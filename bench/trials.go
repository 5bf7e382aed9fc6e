package bench

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/abc"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the results of repeated runs on one function.
type Summary struct {
	Func    string
	Results []abc.Result
	// Mean and StdDev are over the best value of each run.
	Mean    float64
	StdDev  float64
	MeanPos []float64
	// Success counts runs that ended within Tol of the function's known
	// optimum.
	Success int
	Tol     float64
	Elapsed time.Duration
}

// Trials runs one colony nrun times on fn.  obj is evaluated in place of
// fn.Eval when non-nil, so callers can decorate the objective with caching
// or logging.  cfg.Dims and the bounds are taken from fn; the remaining
// fields of cfg are used as given.  Every run
// reuses the same colony, so runs are numbered 1..nrun and share one random
// stream.  If ctx is canceled, the summary of the completed runs is
// returned together with the context error.
func Trials(ctx context.Context, fn Func, obj optim.Objectiver, cfg abc.Config, nrun int, tol float64, opts ...abc.Option) (Summary, error) {
	if nrun <= 0 {
		return Summary{}, fmt.Errorf("bench: run count must be positive, got %v", nrun)
	}
	cfg.Lower, cfg.Upper = fn.Bounds()
	cfg.Dims = len(cfg.Lower)

	if obj == nil {
		obj = Objective(fn)
	}
	c, err := abc.New(obj, nil, cfg, opts...)
	if err != nil {
		return Summary{}, err
	}

	optimum := math.Inf(1)
	if cfg.Mode == abc.Maximize {
		optimum = math.Inf(-1)
	}
	for _, p := range fn.Optima() {
		if cfg.Mode == abc.Maximize {
			optimum = math.Max(optimum, p.Val)
		} else {
			optimum = math.Min(optimum, p.Val)
		}
	}

	s := Summary{Func: fn.Name(), Tol: tol}
	start := time.Now()
	for i := 0; i < nrun; i++ {
		res, err := c.Run(ctx)
		if err != nil {
			s.summarize(start)
			return s, err
		}
		s.Results = append(s.Results, res)
		if math.Abs(res.Best.Val-optimum) <= tol {
			s.Success++
		}
	}
	s.summarize(start)
	return s, nil
}

func (s *Summary) summarize(start time.Time) {
	s.Elapsed = time.Since(start)
	if len(s.Results) == 0 {
		return
	}

	vals := make([]float64, len(s.Results))
	s.MeanPos = make([]float64, s.Results[0].Best.Len())
	for i, res := range s.Results {
		vals[i] = res.Best.Val
		floats.Add(s.MeanPos, res.Best.Pos())
	}
	floats.Scale(1/float64(len(s.Results)), s.MeanPos)
	s.Mean, s.StdDev = stat.MeanStdDev(vals, nil)
	if len(vals) == 1 {
		s.StdDev = 0
	}
}

// MeanElapsed is the average wall time of one run.
func (s Summary) MeanElapsed() time.Duration {
	if len(s.Results) == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(len(s.Results))
}

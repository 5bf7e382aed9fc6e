// Package abc implements the Artificial Bee Colony optimizer (Karaboga, 2005)
// for box-bounded problems with an arbitrary feasibility predicate.
//
// A colony keeps ColonySize/2 food sources.  Every cycle the employed bees
// mutate each source along one random dimension relative to a random
// partner, the onlookers revisit sources with a probability proportional to
// their fitness, the global best is updated, and a scout abandons the most
// stagnant source once its failed trials exceed the limit.
package abc

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/mesh"
	"github.com/Baaaaam/optim/pop"
)

// ErrNotInitialized is returned by Iterate when called before Init.
var ErrNotInitialized = errors.New("abc: colony not initialized")

type state int

const (
	uninitialized state = iota
	running
	done
)

type Option func(*Colony)

// Observe registers obs to receive a record after every iteration.
func Observe(obs Observer) Option {
	return func(c *Colony) {
		c.obs = obs
	}
}

func Logger(l *slog.Logger) Option {
	return func(c *Colony) {
		c.logger = l
	}
}

// Rand replaces the colony's random source.  Config.Seed is ignored.
func Rand(rng *rand.Rand) Option {
	return func(c *Colony) {
		c.rng = rng
	}
}

// Mesh snaps every generated and mutated position onto m.  m is bounded to
// the colony's box so snapped positions never leave it.
func Mesh(m mesh.Mesh) Option {
	return func(c *Colony) {
		c.mesh = m
	}
}

// Elite keeps the n best distinct positions seen during a run.  They are
// returned in Result.Elite.
func Elite(n int) Option {
	return func(c *Colony) {
		c.nelite = n
	}
}

// ModeAwareBest makes best-tracking prefer larger objective values for
// Maximize colonies.  By default the global best is always the lowest
// objective value seen, whatever the mode.
func ModeAwareBest(c *Colony) {
	c.modeAware = true
}

// FullOnlookerScan lets the onlooker pointer cycle over every food source.
// By default it wraps before the last source, which is never scanned.
func FullOnlookerScan(c *Colony) {
	c.fullScan = true
}

// Result summarizes a run.
type Result struct {
	Best Candidate
	// Elite holds the best distinct positions of the run, best first.  It is
	// empty unless the Elite option is used.
	Elite   []optim.Point
	Run     int
	Iter    int
	Evals   int
	Scouts  int
	Elapsed time.Duration
}

// Colony is the optimization controller.  A Colony is not safe for
// concurrent use.
type Colony struct {
	cfg         Config
	obj         optim.Objectiver
	constr      optim.Constrainer
	rng         *rand.Rand
	logger      *slog.Logger
	obs         Observer
	mesh        mesh.Mesh
	nelite      int
	archive     *pop.Archive
	modeAware   bool
	fullScan    bool
	maxAttempts int

	foods  Population
	best   Candidate
	state  state
	runs   int
	iter   int
	neval  int
	nscout int
	start  time.Time
}

// New validates cfg and returns a colony ready to Run.  A nil constr
// accepts every position.
func New(obj optim.Objectiver, constr optim.Constrainer, cfg Config, opts ...Option) (*Colony, error) {
	if obj == nil {
		return nil, invalid("Objective", "must not be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if constr == nil {
		constr = optim.Feasible
	}

	cfg.Lower = append([]float64{}, cfg.Lower...)
	cfg.Upper = append([]float64{}, cfg.Upper...)
	c := &Colony{
		cfg:         cfg,
		obj:         obj,
		constr:      constr,
		maxAttempts: cfg.maxAttempts(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.rng == nil {
		c.rng = optim.NewRand(cfg.Seed)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.mesh != nil {
		c.mesh = mesh.NewBounded(c.mesh, cfg.Lower, cfg.Upper)
	}
	c.archive = pop.NewArchive(c.nelite, c.modeAware && cfg.Mode == Maximize)

	if cfg.Mode == Maximize && !c.modeAware {
		c.logger.Warn("maximize colony tracks the lowest objective value as best; use ModeAwareBest to track the highest")
	}
	return c, nil
}

func (c *Colony) Config() Config { return c.cfg }

// Best returns a snapshot of the global best.
func (c *Colony) Best() Candidate { return c.best }

// Foods returns a copy of the current population.
func (c *Colony) Foods() Population {
	return append(Population{}, c.foods...)
}

// Init discards any previous state and generates a fresh population.
func (c *Colony) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.state = uninitialized
	c.iter, c.neval, c.nscout = 0, 0, 0
	c.archive.Reset()
	c.start = time.Now()

	c.foods = make(Population, c.cfg.NFoods())
	for i := range c.foods {
		food, err := c.newFood(i)
		if err != nil {
			return err
		}
		c.foods[i] = food
	}

	c.runs++
	c.best = c.foods[0]
	c.memorize()
	c.state = running
	return nil
}

// Iterate runs one cycle: employed bees, selection probabilities, onlooker
// bees, best-tracking and scout, then notifies the observer.
func (c *Colony) Iterate(ctx context.Context) (Iteration, error) {
	if c.state == uninitialized {
		return Iteration{}, ErrNotInitialized
	}

	if err := c.employ(); err != nil {
		return Iteration{}, err
	}
	c.foods.UpdateProbs()
	if err := c.onlook(); err != nil {
		return Iteration{}, err
	}
	c.memorize()
	scout, err := c.scout()
	if err != nil {
		return Iteration{}, err
	}
	c.iter++

	rec := Iteration{
		Run:   c.runs,
		Iter:  c.iter,
		Best:  c.best,
		Evals: c.neval,
		Scout: scout,
	}
	if c.obs != nil {
		rec.Foods = c.Foods()
		if err := c.obs.Observe(ctx, rec); err != nil {
			return rec, observerErr(c.iter, err)
		}
	}
	return rec, nil
}

// Run initializes a fresh population and iterates Config.MaxIter times.
// The context is checked between iterations; on cancellation Run returns
// the best found so far along with the context's error.  Calling Run again
// starts over from a new population.
func (c *Colony) Run(ctx context.Context) (Result, error) {
	c.logger.Info("run started",
		slog.Int("run", c.runs+1),
		slog.Int("foods", c.cfg.NFoods()),
		slog.Int("maxiter", c.cfg.MaxIter),
		slog.String("mode", c.cfg.Mode.String()),
	)

	if err := c.Init(ctx); err != nil {
		return Result{}, err
	}
	for c.iter < c.cfg.MaxIter {
		if err := ctx.Err(); err != nil {
			return c.result(), err
		}
		if _, err := c.Iterate(ctx); err != nil {
			return c.result(), err
		}
	}
	c.state = done

	res := c.result()
	c.logger.Info("run finished",
		slog.Int("run", res.Run),
		slog.Float64("best", res.Best.Val),
		slog.Int("evals", res.Evals),
		slog.Int("scouts", res.Scouts),
		slog.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (c *Colony) result() Result {
	return Result{
		Best:    c.best,
		Elite:   c.archive.Points(),
		Run:     c.runs,
		Iter:    c.iter,
		Evals:   c.neval,
		Scouts:  c.nscout,
		Elapsed: time.Since(c.start),
	}
}

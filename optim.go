// Package optim holds the types shared by the solvers in this module: points
// in the search space and the objective and constraint capabilities callers
// plug into a solver.
package optim

import (
	"context"
	"crypto/sha1"
	"encoding/binary"
	"log/slog"
	"math"
)

// Point is a position in the search space along with its objective value.
// The position is copied on construction and on every read, so a Point is
// safe to keep as a snapshot.
type Point struct {
	pos []float64
	Val float64
}

func NewPoint(pos []float64, val float64) Point {
	cpos := make([]float64, len(pos))
	copy(cpos, pos)
	return Point{pos: cpos, Val: val}
}

func (p Point) At(i int) float64 { return p.pos[i] }

func (p Point) Len() int { return len(p.pos) }

func (p Point) Pos() []float64 {
	pos := make([]float64, len(p.pos))
	copy(pos, p.pos)
	return pos
}

func hashPos(pos []float64) [sha1.Size]byte {
	data := make([]byte, len(pos)*8)
	for i, v := range pos {
		binary.BigEndian.PutUint64(data[i*8:], math.Float64bits(v))
	}
	return sha1.Sum(data)
}

// Hash returns a digest of p's position suitable for use as a map key.
func (p Point) Hash() [sha1.Size]byte { return hashPos(p.pos) }

type Objectiver interface {
	// Objective evaluates the variables in v and returns the objective
	// function value.  Errors are passed back to the solver's caller
	// untouched.
	Objective(v []float64) (float64, error)
}

type Constrainer interface {
	// Feasible reports whether v satisfies the problem's constraints.
	Feasible(v []float64) (bool, error)
}

// Func adapts a plain function to the Objectiver interface.
type Func func([]float64) float64

func (fn Func) Objective(v []float64) (float64, error) { return fn(v), nil }

// ConstrFunc adapts a plain predicate to the Constrainer interface.
type ConstrFunc func([]float64) bool

func (fn ConstrFunc) Feasible(v []float64) (bool, error) { return fn(v), nil }

// Feasible is a Constrainer that accepts every point.
var Feasible Constrainer = ConstrFunc(func([]float64) bool { return true })

// CacheObjectiver memoizes objective values by position.  Repeated
// evaluations of an identical position (common once mutations start
// clamping against the bounds) hit the cache instead of obj.
type CacheObjectiver struct {
	obj   Objectiver
	cache map[[sha1.Size]byte]float64
	Hits  int
}

func NewCacheObjectiver(obj Objectiver) *CacheObjectiver {
	return &CacheObjectiver{
		obj:   obj,
		cache: map[[sha1.Size]byte]float64{},
	}
}

func (c *CacheObjectiver) Objective(v []float64) (float64, error) {
	key := hashPos(v)
	if val, ok := c.cache[key]; ok {
		c.Hits++
		return val, nil
	}

	val, err := c.obj.Objective(v)
	if err != nil {
		// failed evaluations are not cached so a retry reaches obj again
		return val, err
	}
	c.cache[key] = val
	return val, nil
}

// Len reports the number of distinct cached positions.
func (c *CacheObjectiver) Len() int { return len(c.cache) }

// ObjectiveLogger logs every evaluation of the wrapped Objectiver at debug
// level.
type ObjectiveLogger struct {
	Objectiver
	Logger *slog.Logger
	Count  int
}

func NewObjectiveLogger(obj Objectiver, logger *slog.Logger) *ObjectiveLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &ObjectiveLogger{Objectiver: obj, Logger: logger}
}

func (ol *ObjectiveLogger) Objective(v []float64) (float64, error) {
	val, err := ol.Objectiver.Objective(v)

	ol.Count++
	attrs := []slog.Attr{
		slog.Int("eval", ol.Count),
		slog.Any("pos", v),
		slog.Float64("val", val),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	ol.Logger.LogAttrs(context.Background(), slog.LevelDebug, "objective", attrs...)

	return val, err
}

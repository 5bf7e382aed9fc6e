// Package bench provides benchmark optimization functions from
// http://en.wikipedia.org/wiki/Test_functions_for_optimization and a driver
// that averages repeated colony runs on them.
package bench

import (
	"fmt"
	"math"
	"strings"

	"github.com/Baaaaam/optim"
)

var (
	sin  = math.Sin
	cos  = math.Cos
	abs  = math.Abs
	exp  = math.Exp
	sqrt = math.Sqrt
)

var AllFuncs = []Func{
	Sphere{NDim: 2},
	Sphere{NDim: 30},
	Rastrigin{NDim: 2},
	Rastrigin{NDim: 15},
	Ackley{},
	CrossTray{},
	Eggholder{},
	HolderTable{},
	Schaffer2{},
	Styblinski{NDim: 1},
	Styblinski{NDim: 10},
	Rosenbrock{NDim: 2},
	Rosenbrock{NDim: 10},
}

// Func is a benchmark objective with known box bounds and optima.
type Func interface {
	Eval(v []float64) float64
	Bounds() (low, up []float64)
	Optima() []optim.Point
	Name() string
}

func uniformBounds(ndim int, low, up float64) ([]float64, []float64) {
	lows := make([]float64, ndim)
	ups := make([]float64, ndim)
	for i := range lows {
		lows[i] = low
		ups[i] = up
	}
	return lows, ups
}

func origin(ndim int) []optim.Point {
	return []optim.Point{optim.NewPoint(make([]float64, ndim), 0)}
}

type Sphere struct {
	NDim int
}

func (fn Sphere) Name() string { return fmt.Sprintf("Sphere_%vD", fn.NDim) }

func (fn Sphere) Eval(x []float64) float64 {
	tot := 0.0
	for _, v := range x {
		tot += v * v
	}
	return tot
}

func (fn Sphere) Bounds() (low, up []float64) { return uniformBounds(fn.NDim, -5, 5) }

func (fn Sphere) Optima() []optim.Point { return origin(fn.NDim) }

// Rastrigin is highly multimodal with a regular grid of local minima:
//
//	f(x) = 10*n + sum(x_i^2 - 10*cos(2*pi*x_i)),  -5.12 <= x_i <= 5.12
type Rastrigin struct {
	NDim int
}

func (fn Rastrigin) Name() string { return fmt.Sprintf("Rastrigin_%vD", fn.NDim) }

func (fn Rastrigin) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for _, v := range x {
		tot += 10 + v*v - 10*cos(2*math.Pi*v)
	}
	return tot
}

func (fn Rastrigin) Bounds() (low, up []float64) { return uniformBounds(fn.NDim, -5.12, 5.12) }

func (fn Rastrigin) Optima() []optim.Point { return origin(fn.NDim) }

type Ackley struct{}

func (fn Ackley) Name() string { return "Ackley" }

func (fn Ackley) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -20*math.Exp(-0.2*math.Sqrt(0.5*(x*x+y*y))) -
		math.Exp(0.5*(math.Cos(2*math.Pi*x)+math.Cos(2*math.Pi*y))) +
		20 + math.E
}

func (fn Ackley) Bounds() (low, up []float64) {
	return []float64{-5, -5}, []float64{5, 5}
}

func (fn Ackley) Optima() []optim.Point {
	return []optim.Point{
		optim.NewPoint([]float64{0, 0}, 0),
	}
}

type CrossTray struct{}

func (fn CrossTray) Name() string { return "CrossTray" }

func (fn CrossTray) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -.0001 * math.Pow(abs(sin(x)*sin(y)*exp(abs(100-sqrt(x*x+y*y)/math.Pi)))+1, 0.1)
}

func (fn CrossTray) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn CrossTray) Optima() []optim.Point {
	return []optim.Point{
		optim.NewPoint([]float64{1.34941, -1.34941}, -2.06261),
		optim.NewPoint([]float64{1.34941, 1.34941}, -2.06261),
		optim.NewPoint([]float64{-1.34941, 1.34941}, -2.06261),
		optim.NewPoint([]float64{-1.34941, -1.34941}, -2.06261),
	}
}

type Eggholder struct{}

func (fn Eggholder) Name() string { return "Eggholder" }

func (fn Eggholder) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -(y+47)*sin(sqrt(abs(y+x/2+47))) - x*sin(sqrt(abs(x-(y+47))))
}

func (fn Eggholder) Bounds() (low, up []float64) {
	return []float64{-512, -512}, []float64{512, 512}
}

func (fn Eggholder) Optima() []optim.Point {
	return []optim.Point{
		optim.NewPoint([]float64{512, 404.2319}, -959.6407),
	}
}

type HolderTable struct{}

func (fn HolderTable) Name() string { return "HolderTable" }

func (fn HolderTable) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return -abs(sin(x) * cos(y) * exp(abs(1-sqrt(x*x+y*y)/math.Pi)))
}

func (fn HolderTable) Bounds() (low, up []float64) {
	return []float64{-10, -10}, []float64{10, 10}
}

func (fn HolderTable) Optima() []optim.Point {
	return []optim.Point{
		optim.NewPoint([]float64{8.05502, 9.66459}, -19.2085),
		optim.NewPoint([]float64{-8.05502, 9.66459}, -19.2085),
		optim.NewPoint([]float64{8.05502, -9.66459}, -19.2085),
		optim.NewPoint([]float64{-8.05502, -9.66459}, -19.2085),
	}
}

type Schaffer2 struct{}

func (fn Schaffer2) Name() string { return "Schaffer2" }

func (fn Schaffer2) Eval(v []float64) float64 {
	if !InsideBounds(v, fn) {
		return math.Inf(1)
	}

	x := v[0]
	y := v[1]
	return 0.5 + (math.Pow(sin(x*x-y*y), 2)-0.5)/math.Pow(1+.0001*(x*x+y*y), 2)
}

func (fn Schaffer2) Bounds() (low, up []float64) {
	return []float64{-100, -100}, []float64{100, 100}
}

func (fn Schaffer2) Optima() []optim.Point {
	return []optim.Point{
		optim.NewPoint([]float64{0, 0}, 0),
	}
}

type Styblinski struct {
	NDim int
}

func (fn Styblinski) Name() string { return fmt.Sprintf("Styblinski_%vD", fn.NDim) }

func (fn Styblinski) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for _, v := range x {
		tot += math.Pow(v, 4) - 16*math.Pow(v, 2) + 5*v
	}
	return tot / 2
}

func (fn Styblinski) Bounds() (low, up []float64) { return uniformBounds(fn.NDim, -5, 5) }

func (fn Styblinski) Optima() []optim.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = -2.903534
	}
	return []optim.Point{
		optim.NewPoint(pos, -39.16617*float64(fn.NDim)),
	}
}

type Rosenbrock struct {
	NDim int
}

func (fn Rosenbrock) Name() string { return fmt.Sprintf("Rosenbrock_%vD", fn.NDim) }

func (fn Rosenbrock) Eval(x []float64) float64 {
	if !InsideBounds(x, fn) {
		return math.Inf(1)
	}

	tot := 0.0
	for i := 0; i < fn.NDim-1; i++ {
		tot += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(x[i]-1, 2)
	}
	return tot
}

func (fn Rosenbrock) Bounds() (low, up []float64) { return uniformBounds(fn.NDim, -30, 30) }

func (fn Rosenbrock) Optima() []optim.Point {
	pos := make([]float64, fn.NDim)
	for i := range pos {
		pos[i] = 1
	}
	return []optim.Point{
		optim.NewPoint(pos, 0),
	}
}

// InsideBounds reports whether p lies within fn's box bounds.
func InsideBounds(p []float64, fn Func) bool {
	low, up := fn.Bounds()
	return optim.InsideBounds(p, low, up)
}

// Objective adapts fn to optim.Objectiver.
func Objective(fn Func) optim.Objectiver { return optim.Func(fn.Eval) }

// ByName returns the benchmark function with the given case-insensitive
// name.  ndim sets the dimension of functions that support any dimension
// and is ignored by the fixed two dimensional ones.
func ByName(name string, ndim int) (Func, error) {
	if ndim <= 0 {
		ndim = 2
	}
	switch strings.ToLower(name) {
	case "sphere":
		return Sphere{NDim: ndim}, nil
	case "rastrigin":
		return Rastrigin{NDim: ndim}, nil
	case "styblinski":
		return Styblinski{NDim: ndim}, nil
	case "rosenbrock":
		return Rosenbrock{NDim: ndim}, nil
	case "ackley":
		return Ackley{}, nil
	case "crosstray":
		return CrossTray{}, nil
	case "eggholder":
		return Eggholder{}, nil
	case "holdertable":
		return HolderTable{}, nil
	case "schaffer2":
		return Schaffer2{}, nil
	}
	return nil, fmt.Errorf("bench: unknown function %q", name)
}

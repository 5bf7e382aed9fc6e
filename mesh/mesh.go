// Package mesh projects positions onto discrete grids or into convex regions.
// A solver that is given a mesh snaps every position it generates, which
// turns a continuous search into a search over grid points (e.g.
// integer-valued design variables) or keeps it inside linear constraints.
package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Mesh is an interface for projecting arbitrary dimensional points onto some
// kind of (potentially discrete) mesh.
type Mesh interface {
	// Nearest returns the mesh point nearest to p.  p is never modified.
	Nearest(p []float64) []float64
}

// Infinite is a grid-based, linear-axis mesh that extends in all dimensions
// without bounds.  The length of Origin defines the dimensionality of the
// mesh. If Origin == nil, the dimensionality is set by the first call to
// Nearest.  If Basis == nil, a unit basis (the identity matrix) is used.  If
// Step == 0, then the mesh represents continuous space and the Nearest method
// just returns a copy of the point passed to it.
type Infinite struct {
	Origin []float64
	// Basis contains a set of column vectors defining the directions of each
	// mesh axis.
	Basis *mat.Dense
	// Step represents the discretization or grid size of the mesh.
	Step     float64
	inverter *mat.Dense
}

// Nearest returns the nearest grid point to p by rounding each dimensional
// position to the nearest grid point.  If the mesh basis is not the identity
// matrix, then p is transformed to the mesh basis before rounding and then
// retransformed back.
func (m *Infinite) Nearest(p []float64) []float64 {
	if m.Step == 0 {
		return append([]float64{}, p...)
	} else if l := len(m.Origin); l != 0 && l != len(p) {
		panic(fmt.Sprintf("origin len %v incompatible with point len %v", l, len(p)))
	}

	// set up origin and inverter matrix if necessary
	if len(m.Origin) == 0 {
		m.Origin = make([]float64, len(p))
	}
	if m.Basis != nil && m.inverter == nil {
		m.inverter = &mat.Dense{}
		if err := m.inverter.Inverse(m.Basis); err != nil {
			panic("mesh basis is singular: " + err.Error())
		}
	}

	// translate p based on origin and transform to mesh space
	newp := make([]float64, len(p))
	for i := range newp {
		newp[i] = p[i] - m.Origin[i]
	}
	v := mat.NewDense(len(newp), 1, newp)
	if m.inverter != nil {
		rot := &mat.Dense{}
		rot.Mul(m.inverter, v)
		v = rot
	}

	nearest := mat.NewDense(len(p), 1, nil)
	for i := range newp {
		nearest.Set(i, 0, math.Round(v.At(i, 0)/m.Step)*m.Step)
	}

	// transform back to standard space
	if m.Basis != nil {
		back := &mat.Dense{}
		back.Mul(m.Basis, nearest)
		nearest = back
	}
	out := mat.Col(nil, 0, nearest)
	for i := range out {
		out[i] += m.Origin[i]
	}
	return out
}

// Bounded limits an underlying mesh to a box.
type Bounded struct {
	Lower []float64
	Upper []float64
	core  Mesh
}

func NewBounded(m Mesh, lower, upper []float64) *Bounded {
	if len(lower) != len(upper) {
		panic("mesh lower and upper bound vectors have different lengths")
	}
	return &Bounded{
		Lower: lower,
		Upper: upper,
		core:  m,
	}
}

// maxBoundedIter caps the alternation between the box and the core mesh.
const maxBoundedIter = 200

// Nearest returns the nearest bounded grid point to p by sliding each
// dimensional position to the nearest value inside bounds and then rounding
// to the nearest grid point.  Grid points that round outside the box are slid
// back onto the boundary, so the result always lies within bounds.  Sliding
// and snapping alternate until the point stops moving, which keeps a
// projecting core such as Linear inside its region as well as the box.
func (m *Bounded) Nearest(p []float64) []float64 {
	x := clamp(p, m.Lower, m.Upper)
	for i := 0; i < maxBoundedIter; i++ {
		next := clamp(m.core.Nearest(x), m.Lower, m.Upper)
		if floats.Equal(next, x) {
			return next
		}
		x = next
	}
	return x
}

func clamp(p, low, up []float64) []float64 {
	out := make([]float64, len(p))
	for i := range p {
		out[i] = math.Min(up[i], math.Max(low[i], p[i]))
	}
	return out
}

// Integer rounds every dimension to the nearest integer.
type Integer struct{}

func (Integer) Nearest(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = math.Round(v)
	}
	return out
}

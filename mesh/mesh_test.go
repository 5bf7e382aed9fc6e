package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

type Problem struct {
	Step       float64
	Point, Exp []float64
}

var tests = []Problem{
	{
		Step:  1.3,
		Point: []float64{0.1, 0.1},
		Exp:   []float64{0.0, 0.0},
	},
	{
		Step:  1.3,
		Point: []float64{1.0, 1.0},
		Exp:   []float64{1.3, 1.3},
	},
	{
		Step:  1.3,
		Point: []float64{1.9, -1.9},
		Exp:   []float64{1.3, -1.3},
	},
}

func TestInfinite(t *testing.T) {
	maxulps := uint64(1)

	for i, prob := range tests {
		m := &Infinite{Step: prob.Step}
		got := m.Nearest(prob.Point)
		t.Logf("prob %v:", i)
		for j := range got {
			if diff := DiffInUlps(got[j], prob.Exp[j]); diff > maxulps {
				t.Errorf("    v[%v]=%v: got %v, expected %v", j, prob.Point[j], got[j], prob.Exp[j])
			} else {
				t.Logf("    v[%v]=%v: got %v", j, prob.Point[j], got[j])
			}
		}
	}
}

func TestInfiniteContinuous(t *testing.T) {
	m := &Infinite{}
	p := []float64{0.123, 4.56}
	got := m.Nearest(p)
	assert.Equal(t, p, got)
	got[0] = 9
	assert.Equal(t, 0.123, p[0], "Nearest must not alias its input")
}

func TestInfiniteOrigin(t *testing.T) {
	m := &Infinite{Origin: []float64{0.25, 0.25}, Step: 1}
	got := m.Nearest([]float64{1.1, -0.6})
	assert.InDeltaSlice(t, []float64{1.25, -0.75}, got, 1e-12)
}

func TestInfiniteBasis(t *testing.T) {
	// skewed axes: (1, 0) and (1, 1)
	basis := mat.NewDense(2, 2, []float64{
		1, 1,
		0, 1,
	})
	m := &Infinite{Basis: basis, Step: 0.5}
	got := m.Nearest([]float64{2.6, 1.4})
	assert.InDeltaSlice(t, []float64{2.5, 1.5}, got, 1e-12)
}

func TestBounded(t *testing.T) {
	low := []float64{-1, 0}
	up := []float64{1, 0.9}
	m := NewBounded(&Infinite{Step: 0.4}, low, up)

	got := m.Nearest([]float64{5, 0.85})
	// 1 rounds to 1.2 on the grid and 0.85 to 0.8
	assert.InDeltaSlice(t, []float64{1, 0.8}, got, 1e-12)

	got = m.Nearest([]float64{-7, -7})
	assert.InDeltaSlice(t, []float64{-1, 0}, got, 1e-12)
}

func TestInteger(t *testing.T) {
	got := Integer{}.Nearest([]float64{1.4, 1.6, -2.5})
	assert.Equal(t, []float64{1, 2, -3}, got)
}

func DiffInUlps(x, y float64) uint64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0):
		return math.MaxInt64
	case x == y:
		return 0
	default:
		xi := math.Float64bits(x)
		yi := math.Float64bits(y)
		if xi > yi {
			return xi - yi
		}
		return yi - xi
	}
}

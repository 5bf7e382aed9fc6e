package mesh

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type projtest struct {
	A    [][]float64
	b    []float64
	x0   []float64
	want []float64
}

func TestOrthoProj(t *testing.T) {
	eps := 1e-10
	tests := []projtest{
		{
			A: [][]float64{
				{2, 1},
			},
			b:    []float64{2},
			x0:   []float64{1, 2},
			want: []float64{0.20, 1.60},
		},
		{
			A: [][]float64{
				{1, 0},
				{0, 1},
			},
			b:    []float64{3, -4},
			x0:   []float64{0, 0},
			want: []float64{3, -4},
		},
	}

	n := 1000
	xmax := 10 * float64(n)

	A := [][]float64{make([]float64, n)}
	b := []float64{xmax}
	x0 := make([]float64, n)
	want := make([]float64, n)
	for i := range A[0] {
		A[0][i] = 1
		x0[i] = xmax
		want[i] = 10
	}
	tests = append(tests, projtest{A: A, b: b, x0: x0, want: want})

	for n, test := range tests {
		l := NewLinear(test.A, test.b)
		got, err := OrthoProj(test.x0, l.A, test.b)
		require.NoError(t, err, "test %v", n)
		require.Len(t, got, len(test.want))
		for i := range got {
			assert.InDelta(t, test.want[i], got[i], eps, "test %v proj[%v]", n, i)
		}
	}
}

func TestOrthoProjSingular(t *testing.T) {
	A := mat.NewDense(2, 3, []float64{1, 1, 0, 2, 2, 0})
	_, err := OrthoProj([]float64{1, 1, 1}, A, []float64{1, 2})
	assert.Error(t, err)

	_, err = OrthoProj([]float64{1, 1}, A, []float64{1, 2})
	assert.Error(t, err)
}

func TestLinearFeasible(t *testing.T) {
	l := NewLinear([][]float64{{1, 1}}, []float64{10})

	ok, err := l.Feasible([]float64{4, 6})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Feasible([]float64{4, 6.1})
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = l.Feasible([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestLinearNearest(t *testing.T) {
	half := NewLinear([][]float64{{1, 1}}, []float64{10})
	assert.Equal(t, []float64{1, 2}, half.Nearest([]float64{1, 2}))

	got := half.Nearest([]float64{8, 8})
	assert.InDeltaSlice(t, []float64{5, 5}, got, 1e-10)
	ok, _ := half.Feasible(got)
	assert.True(t, ok)

	// both constraints active lands on the corner
	box := NewLinear([][]float64{{1, 0}, {0, 1}}, []float64{1, 1})
	assert.InDeltaSlice(t, []float64{1, 1}, box.Nearest([]float64{3, 3}), 1e-10)
	assert.InDeltaSlice(t, []float64{1, 0.5}, box.Nearest([]float64{3, 0.5}), 1e-10)

	p := []float64{8, 8}
	half.Nearest(p)
	assert.Equal(t, []float64{8, 8}, p)
}

func TestLinearBounded(t *testing.T) {
	l := NewLinear([][]float64{{1, 1}}, []float64{1})
	m := NewBounded(l, []float64{0, 0}, []float64{10, 10})

	tests := []struct {
		p, want []float64
	}{
		// one clamp and projection lands at (4, -3), back in the box at (4, 0)
		{p: []float64{20, 3}, want: []float64{1, 0}},
		{p: []float64{3, 20}, want: []float64{0, 1}},
		{p: []float64{3, 3}, want: []float64{0.5, 0.5}},
		{p: []float64{-2, 0.5}, want: []float64{0, 0.5}},
		{p: []float64{0.2, 0.3}, want: []float64{0.2, 0.3}},
	}

	for i, test := range tests {
		got := m.Nearest(test.p)
		if ok, err := l.Feasible(got); err != nil || !ok {
			t.Errorf("[FAIL] test %v: Nearest(%v) = %v is outside the region", i, test.p, got)
		}
		for j := range got {
			if got[j] < 0 || got[j] > 10 {
				t.Errorf("[FAIL] test %v: Nearest(%v)[%v] = %v is outside the box", i, test.p, j, got[j])
			}
			if math.Abs(got[j]-test.want[j]) > 1e-8 {
				t.Errorf("[FAIL] test %v: Nearest(%v)[%v] = %v, want %v", i, test.p, j, got[j], test.want[j])
			}
		}
	}
}

package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// eps is the slack allowed before a linear constraint counts as violated.
const eps = 1e-10

// OrthoProj computes the orthogonal projection of x0 onto the affine subspace
// defined by Ax=b which is the intersection of affine hyperplanes that
// constitute the rows of A with associated shifts in b.  The equation is:
//
//	proj = x0 - A^T * (A * A^T)^-1 * (A*x0 - b)
//
// A is an m by n matrix where m <= n. If m == n, the returned result is the
// solution to the system A*x=b.
func OrthoProj(x0 []float64, A *mat.Dense, b []float64) ([]float64, error) {
	m, n := A.Dims()
	if len(x0) != n || len(b) != m {
		return nil, fmt.Errorf("mesh: projection of %v-dim point onto %vx%v system with %v shifts", len(x0), m, n, len(b))
	}
	bv := mat.NewVecDense(m, append([]float64(nil), b...))

	if m == n {
		var x mat.VecDense
		if err := x.SolveVec(A, bv); err != nil {
			return nil, err
		}
		return vec(&x), nil
	}

	var aat mat.Dense
	aat.Mul(A, A.T())
	var inv mat.Dense
	if err := inv.Inverse(&aat); err != nil {
		return nil, err
	}

	// B = A^T * (A*A^T)^-1
	var B mat.Dense
	B.Mul(A.T(), &inv)

	x := mat.NewVecDense(n, append([]float64(nil), x0...))
	var resid mat.VecDense
	resid.MulVec(A, x)
	resid.SubVec(&resid, bv)

	var corr mat.VecDense
	corr.MulVec(&B, &resid)

	var proj mat.VecDense
	proj.SubVec(x, &corr)
	return vec(&proj), nil
}

func vec(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}

// Linear is the convex region of points x satisfying Ax <= B.  It serves
// both as a feasibility test and, through Nearest, as a mesh that moves
// points into the region.
type Linear struct {
	A *mat.Dense
	B []float64
}

// NewLinear builds the region from the rows of a and their bounds b.
func NewLinear(a [][]float64, b []float64) *Linear {
	if len(a) != len(b) {
		panic("mesh: constraint rows and bounds differ in length")
	}
	data := []float64{}
	for _, row := range a {
		data = append(data, row...)
	}
	return &Linear{A: mat.NewDense(len(a), len(a[0]), data), B: append([]float64(nil), b...)}
}

// Feasible reports whether x satisfies every constraint.
func (l *Linear) Feasible(x []float64) (bool, error) {
	if _, n := l.A.Dims(); n != len(x) {
		return false, fmt.Errorf("mesh: %v-dim point tested against %v-dim constraints", len(x), n)
	}
	return l.mostViolated(x) < 0, nil
}

// mostViolated returns the row of the most violated constraint, or -1 if x
// violates none.
func (l *Linear) mostViolated(x []float64) int {
	var ax mat.VecDense
	ax.MulVec(l.A, mat.NewVecDense(len(x), append([]float64(nil), x...)))

	worst := eps
	worstRow := -1
	for i := 0; i < ax.Len(); i++ {
		if diff := ax.AtVec(i) - l.B[i]; diff > worst {
			worst = diff
			worstRow = i
		}
	}
	return worstRow
}

// Nearest moves p toward the region by repeatedly adding the most violated
// constraint to an active set and projecting p onto the intersection of the
// active hyperplanes.  Points already inside are returned unchanged.  The
// result is the exact nearest point for a single violated constraint and an
// approximation otherwise.
func (l *Linear) Nearest(p []float64) []float64 {
	proj := append([]float64(nil), p...)
	m, n := l.A.Dims()

	var active []int
	for len(active) < m && len(active) < n {
		row := l.mostViolated(proj)
		if row < 0 || contains(active, row) {
			break
		}
		active = append(active, row)

		A := mat.NewDense(len(active), n, nil)
		b := make([]float64, len(active))
		for i, r := range active {
			A.SetRow(i, l.A.RawRowView(r))
			b[i] = l.B[r]
		}
		next, err := OrthoProj(p, A, b)
		if err != nil {
			// dependent constraints; keep the last projection
			break
		}
		proj = next
	}
	return proj
}

func contains(rows []int, row int) bool {
	for _, r := range rows {
		if r == row {
			return true
		}
	}
	return false
}

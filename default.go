package optim

import (
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/mathext/prng"
)

// NewRand returns a Mersenne twister backed random source.  A zero seed
// seeds the generator from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	src := prng.NewMT19937()
	src.Seed(seed)
	return rand.New(src)
}

// RandPos draws a position uniformly from the box [low, up).  The number of
// dimensions is equal to len(low).
func RandPos(rng *rand.Rand, low, up []float64) []float64 {
	if len(low) != len(up) {
		panic("low and up vectors are not same length")
	}

	pos := make([]float64, len(low))
	for j := range pos {
		pos[j] = low[j] + rng.Float64()*(up[j]-low[j])
	}
	return pos
}

// Clamp slides x into [low, up].
func Clamp(x, low, up float64) float64 {
	if x < low {
		return low
	} else if x > up {
		return up
	}
	return x
}

// InsideBounds reports whether every dimension of p lies within the
// corresponding closed interval [low[i], up[i]].
func InsideBounds(p, low, up []float64) bool {
	for i := range p {
		if p[i] < low[i] || p[i] > up[i] {
			return false
		}
	}
	return true
}

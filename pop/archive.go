package pop

import (
	"crypto/sha1"

	"github.com/Baaaaam/optim"
	"github.com/petar/GoLLRB/llrb"
)

type item struct {
	optim.Point
	key float64
	seq int
}

func (p1 item) Less(than llrb.Item) bool {
	p2 := than.(item)
	if p1.key != p2.key {
		return p1.key < p2.key
	}
	return p1.seq < p2.seq
}

// Archive keeps the n best distinct points it has been offered.  Points are
// ranked by value, lowest first, or highest first when the archive is built
// with maximize set.  Points at an already archived position are ignored.
type Archive struct {
	n        int
	maximize bool
	tree     *llrb.LLRB
	seen     map[[sha1.Size]byte]struct{}
	seq      int
}

func NewArchive(n int, maximize bool) *Archive {
	return &Archive{
		n:        n,
		maximize: maximize,
		tree:     llrb.New(),
		seen:     map[[sha1.Size]byte]struct{}{},
	}
}

// Add offers p to the archive and reports whether it was kept.
func (a *Archive) Add(p optim.Point) bool {
	if a.n <= 0 {
		return false
	}
	h := p.Hash()
	if _, ok := a.seen[h]; ok {
		return false
	}

	key := p.Val
	if a.maximize {
		key = -key
	}
	it := item{Point: p, key: key, seq: a.seq}
	if a.tree.Len() == a.n && !it.Less(a.tree.Max()) {
		return false
	}

	a.seq++
	a.tree.InsertNoReplace(it)
	a.seen[h] = struct{}{}
	for a.tree.Len() > a.n {
		worst := a.tree.DeleteMax().(item)
		delete(a.seen, worst.Hash())
	}
	return true
}

func (a *Archive) Len() int { return a.tree.Len() }

// Points returns the archived points, best first.
func (a *Archive) Points() []optim.Point {
	points := make([]optim.Point, 0, a.tree.Len())
	if a.tree.Len() == 0 {
		return points
	}
	a.tree.AscendGreaterOrEqual(a.tree.Min(), func(i llrb.Item) bool {
		points = append(points, i.(item).Point)
		return true
	})
	return points
}

// Reset empties the archive.
func (a *Archive) Reset() {
	a.tree = llrb.New()
	a.seen = map[[sha1.Size]byte]struct{}{}
	a.seq = 0
}

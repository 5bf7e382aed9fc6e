package record

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/abc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	_ "modernc.org/sqlite"
)

const (
	ndim    = 3
	nfoods  = 5
	maxiter = 20
)

func runColony(t *testing.T, obs abc.Observer, runs int) []abc.Result {
	t.Helper()
	cfg := abc.Config{
		Dims:        ndim,
		ColonySize:  2 * nfoods,
		MaxIter:     maxiter,
		TrialsLimit: 5,
		Lower:       []float64{-1, -1, -1},
		Upper:       []float64{1, 1, 1},
		Seed:        3,
	}
	sphere := optim.Func(func(v []float64) float64 { return floats.Dot(v, v) })
	c, err := abc.New(sphere, nil, cfg, abc.Observe(obs))
	require.NoError(t, err)

	var results []abc.Result
	for i := 0; i < runs; i++ {
		res, err := c.Run(context.Background())
		require.NoError(t, err)
		results = append(results, res)
	}
	return results
}

func openDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	rec, err := NewDB(ctx, db, ndim)
	require.NoError(t, err)
	results := runColony(t, rec, 2)

	ids, err := RunIDs(ctx, db)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Equal(t, rec.RunID, ids[1])

	for i, id := range ids {
		vals, err := Convergence(ctx, db, id)
		require.NoError(t, err)
		require.Len(t, vals, maxiter)
		for k := 1; k < len(vals); k++ {
			assert.LessOrEqual(t, vals[k], vals[k-1])
		}
		assert.Equal(t, results[i].Best.Val, vals[len(vals)-1])
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM " + TblFoods).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2*maxiter*nfoods, count)

	var x0 float64
	err = db.QueryRow("SELECT x0 FROM "+TblBest+" WHERE id = ? AND iter = ?", ids[1], maxiter).Scan(&x0)
	require.NoError(t, err)
	assert.Equal(t, results[1].Best.At(0), x0)
}

func TestDBDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	rec, err := NewDB(ctx, openDB(t), ndim)
	require.NoError(t, err)

	it := abc.Iteration{Run: 1, Iter: 1, Best: abc.Candidate{Point: optim.NewPoint([]float64{1}, 1)}}
	assert.Error(t, rec.Observe(ctx, it))
}

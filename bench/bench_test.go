package bench_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/abc"
	"github.com/Baaaaam/optim/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptima(t *testing.T) {
	for _, fn := range bench.AllFuncs {
		for _, p := range fn.Optima() {
			assert.True(t, bench.InsideBounds(p.Pos(), fn), "%v optimum %v out of bounds", fn.Name(), p.Pos())
			assert.InDelta(t, p.Val, fn.Eval(p.Pos()), 1e-3, fn.Name())
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	fn := bench.Rastrigin{NDim: 2}
	assert.True(t, fn.Eval([]float64{6, 0}) > 1e300)
}

func TestByName(t *testing.T) {
	fn, err := bench.ByName("Rastrigin", 15)
	require.NoError(t, err)
	assert.Equal(t, "Rastrigin_15D", fn.Name())
	low, _ := fn.Bounds()
	assert.Len(t, low, 15)

	fn, err = bench.ByName("eggholder", 15)
	require.NoError(t, err)
	low, _ = fn.Bounds()
	assert.Len(t, low, 2)

	_, err = bench.ByName("nosuchfunc", 2)
	assert.Error(t, err)
}

func colonyConfig(iter int) abc.Config {
	return abc.Config{
		ColonySize:  20,
		MaxIter:     iter,
		TrialsLimit: 50,
		Seed:        7,
	}
}

func TestTrialsSphere(t *testing.T) {
	s, err := bench.Trials(context.Background(), bench.Sphere{NDim: 2}, nil, colonyConfig(300), 3, 1e-4)
	require.NoError(t, err)

	require.Len(t, s.Results, 3)
	for i, res := range s.Results {
		assert.Equal(t, i+1, res.Run)
		assert.Equal(t, 300, res.Iter)
	}
	assert.Equal(t, "Sphere_2D", s.Func)
	assert.Equal(t, 3, s.Success)
	assert.Less(t, s.Mean, 1e-4)
	assert.GreaterOrEqual(t, s.StdDev, 0.0)
	require.Len(t, s.MeanPos, 2)
	assert.InDelta(t, 0, s.MeanPos[0], 1e-2)
	assert.True(t, s.MeanElapsed() <= s.Elapsed)
}

func TestTrialsRastrigin(t *testing.T) {
	s, err := bench.Trials(context.Background(), bench.Rastrigin{NDim: 2}, nil, colonyConfig(500), 2, 1e-3)
	require.NoError(t, err)
	assert.Less(t, s.Mean, 1.0)
}

func TestTrialsObjective(t *testing.T) {
	fn := bench.Sphere{NDim: 2}
	cache := optim.NewCacheObjectiver(bench.Objective(fn))
	s, err := bench.Trials(context.Background(), fn, cache, colonyConfig(50), 2, 1e-4)
	require.NoError(t, err)

	evals := 0
	for _, res := range s.Results {
		evals += res.Evals
	}
	assert.Equal(t, evals, cache.Len()+cache.Hits)
}

func TestTrialsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := bench.Trials(ctx, bench.Sphere{NDim: 2}, nil, colonyConfig(100), 3, 1e-4)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Results)
}

func TestTrialsBadRuns(t *testing.T) {
	_, err := bench.Trials(context.Background(), bench.Sphere{NDim: 2}, nil, colonyConfig(10), 0, 1e-4)
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	data := `
func: styblinski
dims: 4
runs: 3
colony:
  max_iter: 50
  mode: max
  seed: 11
output:
  db: progress.sqlite
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := bench.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "styblinski", cfg.Func)
	assert.Equal(t, 4, cfg.Dims)
	assert.Equal(t, 3, cfg.Runs)
	assert.Equal(t, 50, cfg.Colony.MaxIter)
	assert.Equal(t, abc.Maximize, cfg.Colony.Mode)
	assert.Equal(t, uint64(11), cfg.Colony.Seed)
	assert.Equal(t, "progress.sqlite", cfg.Output.DB)

	// untouched fields keep their defaults
	def := bench.DefaultConfig()
	assert.Equal(t, def.Colony.ColonySize, cfg.Colony.ColonySize)
	assert.Equal(t, def.Colony.TrialsLimit, cfg.Colony.TrialsLimit)
	assert.Equal(t, def.Output.Stream, cfg.Output.Stream)

	fn, err := cfg.Bench()
	require.NoError(t, err)
	assert.Equal(t, "Styblinski_4D", fn.Name())
}

func TestLoadConfigBadMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte("colony:\n  mode: sideways\n"), 0o644))
	_, err := bench.LoadConfig(path)
	assert.Error(t, err)
}

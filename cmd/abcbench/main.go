// Command abcbench runs the artificial bee colony on a benchmark function
// several times and reports the convergence of each run.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/Baaaaam/optim"
	"github.com/Baaaaam/optim/abc"
	"github.com/Baaaaam/optim/bench"
	"github.com/Baaaaam/optim/record"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	_ "modernc.org/sqlite"
)

var (
	cfgpath = flag.String("config", "", "yaml benchmark config file")
	fname   = flag.String("func", "", "benchmark function (sphere, rastrigin, rosenbrock, ...)")
	dims    = flag.Int("dims", 0, "problem dimension")
	colony  = flag.Int("colony", 0, "colony size (employed plus onlooker bees)")
	maxiter = flag.Int("iter", 0, "iterations per run")
	limit   = flag.Int("limit", 0, "trials before a food source is abandoned")
	runs    = flag.Int("runs", 0, "number of runs")
	seed    = flag.Uint64("seed", 0, "random seed (0 seeds from the clock)")
	maxmode = flag.Bool("max", false, "maximize instead of minimize")
	dump    = flag.String("dump", "", "write per-run convergence to <prefix><run>.txt")
	dbname  = flag.String("db", "", "record progress to this sqlite database")
	rdsaddr = flag.String("redis", "", "stream progress to this redis address or url")
	pltname = flag.String("plot", "", "save a convergence plot to this file")
	metrics = flag.String("metrics", "", "serve prometheus metrics on this address")
	cache   = flag.Bool("cache", false, "memoize objective values by position")
	verbose = flag.Bool("v", false, "log every objective evaluation")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("abcbench failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func loadConfig() (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if *cfgpath != "" {
		var err error
		if cfg, err = bench.LoadConfig(*cfgpath); err != nil {
			return cfg, err
		}
	}

	// explicitly set flags override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "func":
			cfg.Func = *fname
		case "dims":
			cfg.Dims = *dims
		case "colony":
			cfg.Colony.ColonySize = *colony
		case "iter":
			cfg.Colony.MaxIter = *maxiter
		case "limit":
			cfg.Colony.TrialsLimit = *limit
		case "runs":
			cfg.Runs = *runs
		case "seed":
			cfg.Colony.Seed = *seed
		case "max":
			cfg.Colony.Mode = abc.Minimize
			if *maxmode {
				cfg.Colony.Mode = abc.Maximize
			}
		case "dump":
			cfg.Output.Dump = *dump
		case "db":
			cfg.Output.DB = *dbname
		case "redis":
			cfg.Output.Redis = *rdsaddr
		case "plot":
			cfg.Output.Plot = *pltname
		}
	})
	return cfg, nil
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fn, err := cfg.Bench()
	if err != nil {
		return err
	}

	var obs record.Multi
	conv := &convergence{}
	obs = append(obs, conv)

	if cfg.Output.Dump != "" {
		tf := &record.TextFiles{Prefix: cfg.Output.Dump}
		defer tf.Close()
		obs = append(obs, tf)
	}

	if cfg.Output.DB != "" {
		db, err := sql.Open("sqlite", cfg.Output.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		rec, err := record.NewDB(ctx, db, len(lowBound(fn)))
		if err != nil {
			return err
		}
		obs = append(obs, rec)
	}

	if cfg.Output.Redis != "" {
		client, err := redisClient(cfg.Output.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis %s: %w", cfg.Output.Redis, err)
		}
		obs = append(obs, record.NewStream(client, cfg.Output.Stream))
	}

	if *metrics != "" {
		m, shutdown, err := serveMetrics(*metrics, logger)
		if err != nil {
			return err
		}
		defer shutdown()
		obs = append(obs, m)
	}

	opts := []abc.Option{abc.Logger(logger), abc.Observe(obs)}
	if cfg.Elite > 0 {
		opts = append(opts, abc.Elite(cfg.Elite))
	}
	if cfg.Colony.Mode == abc.Maximize {
		opts = append(opts, abc.ModeAwareBest)
	}

	var obj optim.Objectiver = bench.Objective(fn)
	var cached *optim.CacheObjectiver
	if *cache {
		cached = optim.NewCacheObjectiver(obj)
		obj = cached
	}
	if *verbose {
		obj = optim.NewObjectiveLogger(obj, logger)
	}

	s, err := bench.Trials(ctx, fn, obj, cfg.Colony, cfg.Runs, cfg.Tol, opts...)
	report(s)
	if cached != nil {
		logger.Info("objective cache", slog.Int("positions", cached.Len()), slog.Int("hits", cached.Hits))
	}
	if errors.Is(err, context.Canceled) {
		logger.Warn("interrupted", slog.Int("runs", len(s.Results)))
	} else if err != nil {
		return err
	}

	if cfg.Output.Plot != "" && len(conv.runs) > 0 {
		if err := plotConvergence(fn.Name(), conv.runs, cfg.Output.Plot); err != nil {
			return err
		}
		logger.Info("saved plot", slog.String("path", cfg.Output.Plot))
	}
	return nil
}

func lowBound(fn bench.Func) []float64 {
	low, _ := fn.Bounds()
	return low
}

func redisClient(addr string) (*redis.Client, error) {
	if strings.Contains(addr, "://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: addr}), nil
}

func serveMetrics(addr string, logger *slog.Logger) (*record.Metrics, func(), error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	m, err := record.NewMetrics(provider.Meter("abcbench"))
	if err != nil {
		return nil, nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", slog.Any("err", err))
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
		provider.Shutdown(ctx)
	}
	return m, shutdown, nil
}

func report(s bench.Summary) {
	for _, res := range s.Results {
		fmt.Printf("RUN: %v / CONVERGENCE = %e\n", res.Run, res.Best.Val)
		for i, p := range res.Elite {
			fmt.Printf("    elite %v: %e at %v\n", i+1, p.Val, p.Pos())
		}
	}
	if len(s.Results) == 0 {
		return
	}
	fmt.Printf("MEAN VALUE: %e (stddev %e)\n", s.Mean, s.StdDev)
	fmt.Printf("MEAN POSITION: %v\n", s.MeanPos)
	fmt.Printf("SUCCESS: %v/%v within %g of the optimum\n", s.Success, len(s.Results), s.Tol)
	fmt.Printf("TOTAL RUNTIME: %v\n", s.Elapsed)
	fmt.Printf("MEAN RUNTIME: %v\n", s.MeanElapsed())
}

// convergence keeps the best value of every iteration of every run.
type convergence struct {
	runs [][]float64
}

func (c *convergence) Observe(_ context.Context, it abc.Iteration) error {
	for len(c.runs) < it.Run {
		c.runs = append(c.runs, nil)
	}
	c.runs[it.Run-1] = append(c.runs[it.Run-1], it.Best.Val)
	return nil
}

func plotConvergence(title string, runs [][]float64, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Best value"

	for i, vals := range runs {
		pts := make(plotter.XYs, len(vals))
		for k, v := range vals {
			pts[k].X = float64(k + 1)
			pts[k].Y = v
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("run %v", i+1), line)
	}
	p.Legend.Top = true

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

package record

import (
	"context"

	"github.com/Baaaaam/optim/abc"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics reports run progress as OpenTelemetry instruments:
//
//	abc.best        gauge of the global best objective value
//	abc.iterations  counter of completed iterations
//	abc.evaluations counter of objective evaluations
//	abc.scouts      counter of abandoned food sources
type Metrics struct {
	best   metric.Float64Gauge
	iters  metric.Int64Counter
	evals  metric.Int64Counter
	scouts metric.Int64Counter
	run    int
	nevals int
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error
	if m.best, err = meter.Float64Gauge("abc.best", metric.WithDescription("global best objective value")); err != nil {
		return nil, err
	}
	if m.iters, err = meter.Int64Counter("abc.iterations", metric.WithDescription("completed colony iterations")); err != nil {
		return nil, err
	}
	if m.evals, err = meter.Int64Counter("abc.evaluations", metric.WithDescription("objective evaluations")); err != nil {
		return nil, err
	}
	if m.scouts, err = meter.Int64Counter("abc.scouts", metric.WithDescription("abandoned food sources")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) Observe(ctx context.Context, it abc.Iteration) error {
	if it.Run != m.run {
		m.run, m.nevals = it.Run, 0
	}
	attrs := metric.WithAttributes(attribute.Int("run", it.Run))

	m.best.Record(ctx, it.Best.Val, attrs)
	m.iters.Add(ctx, 1, attrs)
	m.evals.Add(ctx, int64(it.Evals-m.nevals), attrs)
	m.nevals = it.Evals
	if it.Scout >= 0 {
		m.scouts.Add(ctx, 1, attrs)
	}
	return nil
}

package sim

import (
	"context"
	"sync"
	"time"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Outcome is the result of one ensemble member.
type Outcome struct {
	Config  dynamo.Config
	Sim     *Simulator
	Metrics map[string]float64
	Elapsed time.Duration
	Err     error
}

// Ensemble runs independent simulators side by side, one goroutine each.
// Members never share state; every simulator stays single-threaded.
type Ensemble struct {
	configs    []dynamo.Config
	newMetrics func() []dynamo.Metric
}

// NewEnsemble prepares one member per config. newMetrics, if non-nil, is
// called once per member so metrics are never shared between goroutines.
func NewEnsemble(configs []dynamo.Config, newMetrics func() []dynamo.Metric) *Ensemble {
	return &Ensemble{configs: configs, newMetrics: newMetrics}
}

// Run advances every member by steps frames. Per-member failures land in
// Outcome.Err; the returned error is only set when ctx is cancelled.
func (e *Ensemble) Run(ctx context.Context, steps int) ([]Outcome, error) {
	outcomes := make([]Outcome, len(e.configs))

	var wg sync.WaitGroup
	for i, cfg := range e.configs {
		wg.Add(1)
		go func(idx int, cfg dynamo.Config) {
			defer wg.Done()
			outcomes[idx] = e.runOne(ctx, cfg, steps)
		}(i, cfg)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

func (e *Ensemble) runOne(ctx context.Context, cfg dynamo.Config, steps int) Outcome {
	out := Outcome{Config: cfg, Metrics: make(map[string]float64)}

	s, err := New(cfg)
	if err != nil {
		out.Err = err
		return out
	}
	out.Sim = s

	var metrics []dynamo.Metric
	if e.newMetrics != nil {
		metrics = e.newMetrics()
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}

	start := time.Now()
	out.Err = s.Run(ctx, steps)
	out.Elapsed = time.Since(start)

	for _, m := range metrics {
		out.Metrics[m.Name()] = m.Value()
	}
	return out
}

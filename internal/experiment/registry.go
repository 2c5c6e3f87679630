package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/metrics"
)

// StabilityBound is the distance from the origin past which a frame counts
// as blown up.
const StabilityBound = 1e3

type Registry struct {
	metrics map[string]func() dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() dynamo.Metric),
	}

	r.metrics["energy"] = func() dynamo.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() dynamo.Metric { return metrics.NewEnergyDrift() }
	r.metrics["stability"] = func() dynamo.Metric { return metrics.NewStability(StabilityBound) }
	r.metrics["ground_contact"] = func() dynamo.Metric { return metrics.NewGroundContact() }
	r.metrics["height"] = func() dynamo.Metric { return metrics.NewHeight() }

	return r
}

func (r *Registry) GetMetric(name string) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []dynamo.Metric {
	out := make([]dynamo.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}

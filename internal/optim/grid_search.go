package optim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/experiment"
)

// ErrNoCandidate is returned when every grid point failed to run.
var ErrNoCandidate = errors.New("no grid point completed")

// Builder creates a ready-to-run experiment for one grid point.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// GridSearch tries every combination of parameter values and keeps the one
// with the lowest metric value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) == 0 || len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d params, %d ranges", dynamo.ErrParameterBounds, len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("%w: empty range for %s", dynamo.ErrParameterBounds, params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	n := 1
	for _, r := range g.ranges {
		n *= len(r)
	}
	return n
}

// Search runs build for every grid point. Points whose experiment fails to
// build or run, or whose metric is not finite, are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), build, metricName, &best, &bestParams)
	if err != nil {
		return bestParams, best, err
	}
	if bestParams == nil {
		return nil, best, ErrNoCandidate
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	build Builder,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		exp, err := build(current)
		if err != nil {
			log.Printf("grid %v: %v", current, err)
			return nil
		}

		result, err := exp.Run(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			log.Printf("grid %v: %v", current, err)
			return nil
		}

		val, ok := result.Metrics[metricName]
		if !ok {
			return fmt.Errorf("metric %s not recorded", metricName)
		}
		if !math.IsNaN(val) && !math.IsInf(val, 0) && val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, build, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

// ChainBuilder returns a Builder that runs base with the grid point applied
// through Simulator.SetParam and records metricName.
func ChainBuilder(base *config.Config, registry *experiment.Registry, metricName string) Builder {
	return func(params map[string]float64) (*experiment.Experiment, error) {
		m, err := registry.GetMetric(metricName)
		if err != nil {
			return nil, err
		}
		exp, err := experiment.New(base.Clone())
		if err != nil {
			return nil, err
		}
		s := exp.GetSimulator()
		for k, v := range params {
			if err := s.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		exp.Setup([]dynamo.Metric{m})
		return exp, nil
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}

package experiment

import (
	"context"
	"log"
	"sort"

	"github.com/san-kum/springsim/internal/config"
	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/sim"
)

// Experiment is a headless run: a fixed number of steps, a recording
// stride and a schedule of particle appends standing in for pointer clicks.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulator
	metrics   []dynamo.Metric
	appends   []config.AppendConfig
	recorder  *recorder
}

func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s, err := sim.New(cfg.Simulation())
	if err != nil {
		return nil, err
	}

	appends := append([]config.AppendConfig(nil), cfg.Appends...)
	sort.SliceStable(appends, func(i, j int) bool { return appends[i].Step < appends[j].Step })

	rec := &recorder{every: cfg.RecordEvery}
	s.AddObserver(rec)

	return &Experiment{cfg: cfg, simulator: s, appends: appends, recorder: rec}, nil
}

func (e *Experiment) Setup(metrics []dynamo.Metric) {
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	e.metrics = append(e.metrics, metrics...)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

type recorder struct {
	every  int
	frames []dynamo.Snapshot
}

func (r *recorder) OnStep(f dynamo.Frame) {
	if f.Step%r.every == 0 {
		r.frames = append(r.frames, f.Snapshot())
	}
}

// Run records the initial frame and every RecordEvery-th frame after it.
// On a simulation error the frames recorded so far are returned with it.
// Every call starts from the initial particles; parameters set through the
// simulator are kept.
func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	s := e.simulator
	if s.Steps() > 0 {
		if err := s.Reset(); err != nil {
			return &dynamo.Result{Metrics: make(map[string]float64)}, err
		}
	}
	rec := e.recorder
	rec.frames = []dynamo.Snapshot{s.Frame().Snapshot()}

	result := &dynamo.Result{Metrics: make(map[string]float64)}

	next := 0
	runErr := s.RunWithCallback(ctx, e.cfg.Steps, func(s *sim.Simulator) bool {
		for next < len(e.appends) && e.appends[next].Step <= s.Steps() {
			a := e.appends[next]
			next++
			if err := s.RequestAppend(dynamo.V(a.X, a.Y)); err != nil {
				result.Rejected++
				log.Printf("append rejected at step %d: %v", s.Steps(), err)
			}
		}
		return true
	})

	result.Frames = rec.frames
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, runErr
}

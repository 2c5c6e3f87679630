package sim

import (
	"context"
	"fmt"
	"iter"
	"math"
	"math/rand"

	"github.com/san-kum/springsim/internal/dynamo"
	"github.com/san-kum/springsim/internal/integrators"
	"github.com/san-kum/springsim/internal/physics"
)

// Simulator owns one mass-spring system and advances it frame by frame.
// It is not safe for concurrent use; renderers call RequestAppend from the
// same goroutine that calls Step.
type Simulator struct {
	cfg        dynamo.Config
	particles  *dynamo.Particles
	graph      *physics.Graph
	model      *physics.Potential
	ground     physics.Ground
	integrator dynamo.Integrator
	forces     []dynamo.Vec2
	metrics    []dynamo.Metric
	observers  []dynamo.Observer

	// particles that existed at the end of the previous step; only these
	// are chained by the next rebuild
	linked int

	steps     int
	t         float64
	potential float64
	kinetic   float64
	contacts  int
}

func New(cfg dynamo.Config) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	particles, err := dynamo.NewParticles(cfg.Capacity, cfg.Mass)
	if err != nil {
		return nil, err
	}

	s := &Simulator{
		cfg:       cfg,
		particles: particles,
		graph:     physics.NewGraph(cfg.Capacity, cfg.Closed),
		model: &physics.Potential{
			Stiffness:  cfg.Stiffness,
			RestLength: cfg.RestLength,
			Gravity:    cfg.Gravity,
		},
		ground:    physics.Ground{Height: cfg.GroundHeight},
		forces:    make([]dynamo.Vec2, cfg.Capacity),
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}

	field := physics.Field{Model: s.model, Graph: s.graph}
	s.integrator, err = integrators.New(cfg.Integrator, field, cfg.Capacity)
	if err != nil {
		return nil, err
	}

	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Reset re-seeds the generator and scatters InitialCount particles again.
func (s *Simulator) Reset() error {
	rng := rand.New(rand.NewSource(s.cfg.Seed))
	if err := s.particles.Init(s.cfg.InitialCount, s.cfg.Noise, rng); err != nil {
		return err
	}

	s.linked = s.particles.Active()
	s.steps, s.t, s.contacts = 0, 0, 0
	s.graph.Rebuild(s.particles, s.linked)
	s.potential = s.model.Energy(s.particles, s.graph)
	s.kinetic = s.particles.KineticEnergy()

	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// Step advances one frame: rebuild springs, evaluate the potential and its
// forces at the current positions, integrate, then clamp to the ground.
func (s *Simulator) Step() error {
	p := s.particles

	s.graph.Rebuild(p, s.linked)
	s.potential = s.model.Energy(p, s.graph)
	s.kinetic = p.KineticEnergy()
	s.model.Forces(p, s.graph, s.forces)
	s.integrator.Step(p, s.forces, s.cfg.Dt)
	s.contacts = s.ground.Resolve(p)

	s.steps++
	s.t += s.cfg.Dt
	s.linked = p.Active()

	if s.cfg.ValidateState && !p.Valid() {
		return &dynamo.SimulationError{Step: s.steps, Time: s.t, Wrapped: dynamo.ErrInvalidState}
	}

	if len(s.metrics) > 0 || len(s.observers) > 0 {
		f := s.Frame()
		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnStep(f)
		}
	}
	return nil
}

// Run advances steps frames, stopping early on error or cancellation.
func (s *Simulator) Run(ctx context.Context, steps int) error {
	return s.RunWithCallback(ctx, steps, nil)
}

// RunWithCallback calls fn before every step. Returning false from fn stops
// the run without error.
func (s *Simulator) RunWithCallback(ctx context.Context, steps int, fn func(*Simulator) bool) error {
	if steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", dynamo.ErrParameterBounds, steps)
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if fn != nil && !fn(s) {
			return nil
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// RequestAppend adds a particle at pos. The particle joins the spring chain
// one step after it is added.
func (s *Simulator) RequestAppend(pos dynamo.Vec2) error {
	return s.particles.Append(pos)
}

func (s *Simulator) ActiveCount() int { return s.particles.Active() }

func (s *Simulator) Position(i int) (dynamo.Vec2, bool) {
	if i < 0 || i >= s.particles.Active() {
		return dynamo.Vec2{}, false
	}
	return s.particles.Pos[i], true
}

// Edges yields the springs of the most recent rebuild.
func (s *Simulator) Edges() iter.Seq[physics.Edge] { return s.graph.Edges() }

// Frame returns a view of the current state. Potential and Kinetic describe
// the state the last step started from.
func (s *Simulator) Frame() dynamo.Frame {
	n := s.particles.Active()
	return dynamo.Frame{
		Step:      s.steps,
		Time:      s.t,
		Pos:       s.particles.Pos[:n],
		Vel:       s.particles.Vel[:n],
		Mass:      s.particles.Mass[:n],
		Potential: s.potential,
		Kinetic:   s.kinetic,
		Contacts:  s.contacts,
	}
}

func (s *Simulator) Particles() *dynamo.Particles { return s.particles }
func (s *Simulator) Config() dynamo.Config { return s.cfg }
func (s *Simulator) Integrator() string { return s.integrator.Name() }
func (s *Simulator) Steps() int { return s.steps }
func (s *Simulator) Time() float64 { return s.t }
func (s *Simulator) Potential() float64 { return s.potential }
func (s *Simulator) Kinetic() float64 { return s.kinetic }
func (s *Simulator) Contacts() int { return s.contacts }

// GetParams implements dynamo.Configurable
func (s *Simulator) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness":   s.model.Stiffness,
		"rest_length": s.model.RestLength,
		"gravity":     s.model.Gravity,
		"ground":      s.ground.Height,
		"dt":          s.cfg.Dt,
	}
}

// SetParam implements dynamo.Configurable
func (s *Simulator) SetParam(name string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s = %g", dynamo.ErrParameterBounds, name, value)
	}
	// the ground may sit anywhere; everything else is a magnitude
	if (value < 0 && name != "ground") || (name == "dt" && value == 0) {
		return fmt.Errorf("%w: %s = %g", dynamo.ErrParameterBounds, name, value)
	}
	switch name {
	case "stiffness":
		s.model.Stiffness = value
		s.cfg.Stiffness = value
	case "rest_length":
		s.model.RestLength = value
		s.cfg.RestLength = value
	case "gravity":
		s.model.Gravity = value
		s.cfg.Gravity = value
	case "ground":
		s.ground.Height = value
		s.cfg.GroundHeight = value
	case "dt":
		s.cfg.Dt = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

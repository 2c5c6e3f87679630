package dynamo

import (
	"fmt"
	"math"
)

// Integrator advances velocities and positions of the active particles by
// one time step. forces holds the conservative force on each active particle
// at the current positions. Implementations must not touch inactive slots.
type Integrator interface {
	Name() string
	Step(p *Particles, forces []Vec2, dt float64)
}

// ForceField evaluates forces at arbitrary positions of the active
// particles. Multi-stage integrators use it for their intermediate stages.
type ForceField interface {
	Forces(p *Particles, pos []Vec2, out []Vec2)
}

// Frame is a read-only view of the simulation after a step. Slices alias
// simulator buffers and are only valid until the next step.
type Frame struct {
	Step      int
	Time      float64
	Pos       []Vec2
	Vel       []Vec2
	Mass      []float64
	Potential float64
	Kinetic   float64
	Contacts  int
}

func (f Frame) Energy() float64 { return f.Potential + f.Kinetic }

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

const (
	// Spatial dimension of the simulation.
	Dim = 2

	// Added under the square root of every spring distance.
	DistanceEps = 1e-3
)

type Config struct {
	InitialCount  int
	Capacity      int
	Dim           int
	Mass          float64
	Dt            float64
	Stiffness     float64
	RestLength    float64
	GroundHeight  float64
	Gravity       float64
	Noise         float64
	Seed          int64
	Integrator    string
	Closed        bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		InitialCount:  5,
		Capacity:      100,
		Dim:           Dim,
		Mass:          1.0,
		Dt:            0.01,
		Stiffness:     100,
		RestLength:    0.2,
		GroundHeight:  0.01,
		Gravity:       9.8,
		Noise:         0.1,
		Seed:          1,
		Integrator:    "symplectic",
		ValidateState: true,
	}
}

// Validate rejects configurations the simulation must never start with.
func (c Config) Validate() error {
	if err := checkMass(c.Mass); err != nil {
		return err
	}
	if c.Dim != Dim {
		return fmt.Errorf("%w: dim %d", ErrDimensionMismatch, c.Dim)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrParameterBounds, c.Capacity)
	}
	if c.InitialCount < 0 {
		return fmt.Errorf("%w: initial count must not be negative, got %d", ErrParameterBounds, c.InitialCount)
	}
	if c.InitialCount > c.Capacity {
		return fmt.Errorf("%w: initial count %d, capacity %d", ErrCapacityExceeded, c.InitialCount, c.Capacity)
	}
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrParameterBounds, c.Dt)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"stiffness", c.Stiffness},
		{"rest length", c.RestLength},
		{"noise", c.Noise},
		{"gravity", c.Gravity},
		{"ground height", c.GroundHeight},
	} {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %g", ErrParameterBounds, f.name, f.value)
		}
	}
	if c.Stiffness < 0 || c.RestLength < 0 || c.Noise < 0 || c.Gravity < 0 {
		return fmt.Errorf("%w: stiffness, rest length, noise and gravity must not be negative", ErrParameterBounds)
	}
	return nil
}

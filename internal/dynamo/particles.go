package dynamo

import (
	"fmt"
	"math"
	"math/rand"
)

// Center of the initial particle cloud.
var InitCenter = Vec2{X: 0.5, Y: 0.5}

// Particles is a fixed-capacity particle store. Only the first Active()
// slots take part in physics and rendering; the rest stay allocated so that
// Append never allocates.
type Particles struct {
	Pos  []Vec2
	Vel  []Vec2
	Mass []float64

	active int
	mass   float64
}

func NewParticles(capacity int, mass float64) (*Particles, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity %d", ErrParameterBounds, capacity)
	}
	if err := checkMass(mass); err != nil {
		return nil, err
	}

	p := &Particles{
		Pos:  make([]Vec2, capacity),
		Vel:  make([]Vec2, capacity),
		Mass: make([]float64, capacity),
		mass: mass,
	}
	for i := range p.Mass {
		p.Mass[i] = mass
	}
	return p, nil
}

func checkMass(m float64) error {
	if m <= 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return fmt.Errorf("%w: got %g", ErrInvalidMass, m)
	}
	return nil
}

func (p *Particles) Active() int { return p.active }
func (p *Particles) Cap() int    { return len(p.Pos) }

// Init activates count particles scattered around InitCenter with a
// per-axis Gaussian of standard deviation noise. All velocities are zeroed
// and every slot gets the uniform mass back.
func (p *Particles) Init(count int, noise float64, rng *rand.Rand) error {
	if count < 0 || noise < 0 {
		return fmt.Errorf("%w: count %d, noise %g", ErrParameterBounds, count, noise)
	}
	if count > p.Cap() {
		return fmt.Errorf("%w: %d requested, capacity %d", ErrCapacityExceeded, count, p.Cap())
	}

	clear(p.Pos)
	clear(p.Vel)
	for i := range p.Mass {
		p.Mass[i] = p.mass
	}
	for i := 0; i < count; i++ {
		p.Pos[i] = Vec2{
			X: InitCenter.X + noise*rng.NormFloat64(),
			Y: InitCenter.Y + noise*rng.NormFloat64(),
		}
	}
	p.active = count
	return nil
}

// Append activates one more particle at pos with zero velocity.
func (p *Particles) Append(pos Vec2) error {
	if p.active == p.Cap() {
		return fmt.Errorf("%w: %d/%d particles", ErrCapacityExceeded, p.active, p.Cap())
	}
	p.Pos[p.active] = pos
	p.Vel[p.active] = Vec2{}
	p.active++
	return nil
}

func (p *Particles) SetMass(i int, m float64) error {
	if i < 0 || i >= p.Cap() {
		return fmt.Errorf("%w: index %d", ErrParameterBounds, i)
	}
	if err := checkMass(m); err != nil {
		return err
	}
	p.Mass[i] = m
	return nil
}

func (p *Particles) KineticEnergy() float64 {
	ke := 0.0
	for i := 0; i < p.active; i++ {
		v := p.Vel[i]
		ke += 0.5 * p.Mass[i] * v.Dot(v)
	}
	return ke
}

// Valid reports whether every active position and velocity is finite.
func (p *Particles) Valid() bool {
	for i := 0; i < p.active; i++ {
		if !p.Pos[i].IsFinite() || !p.Vel[i].IsFinite() {
			return false
		}
	}
	return true
}

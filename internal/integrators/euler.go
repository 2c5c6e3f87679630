package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// ForwardEuler moves positions with the old velocity, then updates the
// velocity. Gains energy on oscillating springs.
type ForwardEuler struct{}

func NewForwardEuler() *ForwardEuler {
	return &ForwardEuler{}
}

func (e *ForwardEuler) Name() string { return "euler" }

func (e *ForwardEuler) Step(p *dynamo.Particles, forces []dynamo.Vec2, dt float64) {
	for i := 0; i < p.Active(); i++ {
		p.Pos[i] = p.Pos[i].Add(p.Vel[i].Scale(dt))
		p.Vel[i] = p.Vel[i].Add(forces[i].Scale(dt / p.Mass[i]))
	}
}

// SemiImplicitEuler updates the velocity first and moves positions with the
// new velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Name() string { return "symplectic" }

func (e *SemiImplicitEuler) Step(p *dynamo.Particles, forces []dynamo.Vec2, dt float64) {
	for i := 0; i < p.Active(); i++ {
		p.Vel[i] = p.Vel[i].Add(forces[i].Scale(dt / p.Mass[i]))
		p.Pos[i] = p.Pos[i].Add(p.Vel[i].Scale(dt))
	}
}

package integrators

import "github.com/san-kum/springsim/internal/dynamo"

// RK4 is the classical fourth order Runge-Kutta scheme on (x, v). The forces
// passed to Step are the first stage; the remaining three are evaluated
// through the bound force field. Stage buffers are sized once.
type RK4 struct {
	field dynamo.ForceField

	// k*x are velocity slopes, k*v are accelerations
	k1x, k1v []dynamo.Vec2
	k2x, k2v []dynamo.Vec2
	k3x, k3v []dynamo.Vec2
	k4x, k4v []dynamo.Vec2
	scratch  []dynamo.Vec2
	force    []dynamo.Vec2
}

func NewRK4(field dynamo.ForceField, capacity int) *RK4 {
	r := &RK4{field: field}
	r.ensureScratch(capacity)
	return r
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.scratch) < n {
		r.k1x, r.k1v = make([]dynamo.Vec2, n), make([]dynamo.Vec2, n)
		r.k2x, r.k2v = make([]dynamo.Vec2, n), make([]dynamo.Vec2, n)
		r.k3x, r.k3v = make([]dynamo.Vec2, n), make([]dynamo.Vec2, n)
		r.k4x, r.k4v = make([]dynamo.Vec2, n), make([]dynamo.Vec2, n)
		r.scratch = make([]dynamo.Vec2, n)
		r.force = make([]dynamo.Vec2, n)
	}
}

func (r *RK4) Step(p *dynamo.Particles, forces []dynamo.Vec2, dt float64) {
	n := p.Active()
	r.ensureScratch(p.Cap())
	half := 0.5 * dt

	for i := 0; i < n; i++ {
		r.k1x[i] = p.Vel[i]
		r.k1v[i] = forces[i].Scale(1 / p.Mass[i])
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = p.Pos[i].Add(r.k1x[i].Scale(half))
		r.k2x[i] = p.Vel[i].Add(r.k1v[i].Scale(half))
	}
	r.field.Forces(p, r.scratch, r.force)
	for i := 0; i < n; i++ {
		r.k2v[i] = r.force[i].Scale(1 / p.Mass[i])
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = p.Pos[i].Add(r.k2x[i].Scale(half))
		r.k3x[i] = p.Vel[i].Add(r.k2v[i].Scale(half))
	}
	r.field.Forces(p, r.scratch, r.force)
	for i := 0; i < n; i++ {
		r.k3v[i] = r.force[i].Scale(1 / p.Mass[i])
	}

	for i := 0; i < n; i++ {
		r.scratch[i] = p.Pos[i].Add(r.k3x[i].Scale(dt))
		r.k4x[i] = p.Vel[i].Add(r.k3v[i].Scale(dt))
	}
	r.field.Forces(p, r.scratch, r.force)
	for i := 0; i < n; i++ {
		r.k4v[i] = r.force[i].Scale(1 / p.Mass[i])
	}

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		dx := r.k1x[i].Add(r.k2x[i].Scale(2)).Add(r.k3x[i].Scale(2)).Add(r.k4x[i])
		dv := r.k1v[i].Add(r.k2v[i].Scale(2)).Add(r.k3v[i].Scale(2)).Add(r.k4v[i])
		p.Pos[i] = p.Pos[i].Add(dx.Scale(dt6))
		p.Vel[i] = p.Vel[i].Add(dv.Scale(dt6))
	}
}

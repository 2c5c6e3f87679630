package physics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

// numericForces estimates -grad V by central differences.
func numericForces(m *Potential, p *dynamo.Particles, g *Graph, h float64) []dynamo.Vec2 {
	n := p.Active()
	pos := make([]dynamo.Vec2, p.Cap())
	copy(pos, p.Pos)
	out := make([]dynamo.Vec2, n)

	for i := 0; i < n; i++ {
		orig := pos[i]

		pos[i].X = orig.X + h
		vp := m.EnergyAt(p, g, pos)
		pos[i].X = orig.X - h
		vm := m.EnergyAt(p, g, pos)
		pos[i].X = orig.X
		out[i].X = -(vp - vm) / (2 * h)

		pos[i].Y = orig.Y + h
		vp = m.EnergyAt(p, g, pos)
		pos[i].Y = orig.Y - h
		vm = m.EnergyAt(p, g, pos)
		pos[i].Y = orig.Y
		out[i].Y = -(vp - vm) / (2 * h)
	}
	return out
}

func closeRel(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestPotential_SpringAtRest(t *testing.T) {
	m := &Potential{Stiffness: 100, RestLength: 0.2, Gravity: 0}
	// |d|_eps == RestLength exactly
	d := math.Sqrt(m.RestLength*m.RestLength - dynamo.DistanceEps)
	p := newParticles(t, 4, dynamo.V(0.5, 0.5), dynamo.V(0.5+d, 0.5))
	g := NewGraph(4, false)
	g.Rebuild(p, p.Active())

	if v := m.Energy(p, g); math.Abs(v) > 1e-12 {
		t.Errorf("expected zero potential, got %g", v)
	}

	out := make([]dynamo.Vec2, 4)
	m.Forces(p, g, out)
	for i := 0; i < 2; i++ {
		if out[i].Norm() > 1e-9 {
			t.Errorf("particle %d: expected zero force, got %v", i, out[i])
		}
	}
}

func TestPotential_Gravity(t *testing.T) {
	m := &Potential{Stiffness: 50, RestLength: 0.4, Gravity: 9.8}
	p := newParticles(t, 2, dynamo.V(0.1, 2.0))
	_ = p.SetMass(0, 3)
	g := NewGraph(2, false)
	g.Rebuild(p, p.Active())

	if v := m.Energy(p, g); math.Abs(v-3*9.8*2.0) > 1e-12 {
		t.Errorf("expected m*g*y, got %f", v)
	}

	out := make([]dynamo.Vec2, 2)
	m.Forces(p, g, out)
	if out[0].X != 0 || math.Abs(out[0].Y+3*9.8) > 1e-12 {
		t.Errorf("expected (0, -m*g), got %v", out[0])
	}
}

func TestPotential_SpringCountedOnce(t *testing.T) {
	m := &Potential{Stiffness: 10, RestLength: 0, Gravity: 0}
	p := newParticles(t, 3, dynamo.V(0, 0), dynamo.V(1, 0))
	g := NewGraph(3, false)
	g.Rebuild(p, p.Active())

	r := math.Sqrt(1 + dynamo.DistanceEps)
	want := 0.5 * 10 * r * r
	if v := m.Energy(p, g); math.Abs(v-want) > 1e-12 {
		t.Errorf("expected %f, got %f", want, v)
	}
}

func TestPotential_NewtonThirdLaw(t *testing.T) {
	m := &Potential{Stiffness: 80, RestLength: 0.3, Gravity: 0}
	p, _ := dynamo.NewParticles(8, 1)
	_ = p.Init(8, 0.2, rand.New(rand.NewSource(9)))
	g := NewGraph(8, true)
	g.Rebuild(p, p.Active())

	out := make([]dynamo.Vec2, 8)
	m.Forces(p, g, out)

	var sum dynamo.Vec2
	for _, f := range out {
		sum = sum.Add(f)
	}
	if sum.Norm() > 1e-9 {
		t.Errorf("internal spring forces should cancel, sum = %v", sum)
	}
}

func TestPotential_ForcesMatchFiniteDifference(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for trial := 0; trial < 40; trial++ {
		n := 2 + rng.Intn(9) // 2..10
		closed := trial%2 == 1
		m := &Potential{
			Stiffness:  1 + 200*rng.Float64(),
			RestLength: 0.5 * rng.Float64(),
			Gravity:    9.8,
		}

		p, _ := dynamo.NewParticles(12, 1)
		_ = p.Init(n, 0.2, rng)
		for i := 0; i < n; i++ {
			_ = p.SetMass(i, 0.5+rng.Float64())
		}
		g := NewGraph(12, closed)
		g.Rebuild(p, p.Active())

		analytic := make([]dynamo.Vec2, 12)
		m.Forces(p, g, analytic)
		numeric := numericForces(m, p, g, 1e-6)

		for i := 0; i < n; i++ {
			if !closeRel(analytic[i].X, numeric[i].X, 1e-3) || !closeRel(analytic[i].Y, numeric[i].Y, 1e-3) {
				t.Errorf("trial %d (n=%d): particle %d analytic %v, numeric %v", trial, n, i, analytic[i], numeric[i])
			}
		}
	}
}

func TestPotential_InactiveSlotsIgnored(t *testing.T) {
	m := &Potential{Stiffness: 100, RestLength: 0.2, Gravity: 9.8}
	p := newParticles(t, 4, dynamo.V(0.2, 0.5), dynamo.V(0.4, 0.5))
	p.Pos[2] = dynamo.V(100, 100)
	g := NewGraph(4, false)
	g.Rebuild(p, p.Active())

	before := m.Energy(p, g)
	p.Pos[3] = dynamo.V(-50, 7)
	if after := m.Energy(p, g); after != before {
		t.Errorf("inactive slot changed energy: %f -> %f", before, after)
	}

	out := make([]dynamo.Vec2, 4)
	out[2] = dynamo.V(42, 42)
	m.Forces(p, g, out)
	if out[2] != dynamo.V(42, 42) {
		t.Error("forces written to inactive slot")
	}
}

func TestField(t *testing.T) {
	m := &Potential{Stiffness: 30, RestLength: 0.1, Gravity: 9.8}
	p := newParticles(t, 3, dynamo.V(0.1, 0.5), dynamo.V(0.6, 0.2), dynamo.V(0.9, 0.9))
	g := NewGraph(3, false)
	g.Rebuild(p, p.Active())

	direct := make([]dynamo.Vec2, 3)
	m.Forces(p, g, direct)

	var field dynamo.ForceField = Field{Model: m, Graph: g}
	viaField := make([]dynamo.Vec2, 3)
	field.Forces(p, p.Pos, viaField)

	for i := range direct {
		if direct[i] != viaField[i] {
			t.Errorf("particle %d: %v vs %v", i, direct[i], viaField[i])
		}
	}
}

func BenchmarkPotentialForces(b *testing.B) {
	m := &Potential{Stiffness: 100, RestLength: 0.2, Gravity: 9.8}
	p, _ := dynamo.NewParticles(100, 1)
	_ = p.Init(100, 0.1, rand.New(rand.NewSource(1)))
	g := NewGraph(100, false)
	g.Rebuild(p, p.Active())
	out := make([]dynamo.Vec2, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Forces(p, g, out)
	}
}

func BenchmarkPotentialEnergy(b *testing.B) {
	m := &Potential{Stiffness: 100, RestLength: 0.2, Gravity: 9.8}
	p, _ := dynamo.NewParticles(100, 1)
	_ = p.Init(100, 0.1, rand.New(rand.NewSource(1)))
	g := NewGraph(100, false)
	g.Rebuild(p, p.Active())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Energy(p, g)
	}
}

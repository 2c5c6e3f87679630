package physics

import "github.com/san-kum/springsim/internal/dynamo"

// Potential is the energy model of the chain: Hookean springs around a
// common rest length plus uniform gravity pulling towards y = 0.
type Potential struct {
	Stiffness  float64
	RestLength float64
	Gravity    float64
}

// Energy returns the potential energy at the current positions.
func (m *Potential) Energy(p *dynamo.Particles, g *Graph) float64 {
	return m.EnergyAt(p, g, p.Pos)
}

// EnergyAt evaluates the potential with pos in place of p.Pos. The elastic
// term sweeps every ordered pair of active particles and weights it by the
// adjacency table.
func (m *Potential) EnergyAt(p *dynamo.Particles, g *Graph, pos []dynamo.Vec2) float64 {
	n := min(p.Active(), g.capacity)
	v := 0.0

	for i := 0; i < n; i++ {
		row := g.weight[i*g.capacity : i*g.capacity+n]
		for j, w := range row {
			if w == 0 {
				continue
			}
			stretch := pos[i].Sub(pos[j]).NormEps(dynamo.DistanceEps) - m.RestLength
			v += 0.5 * m.Stiffness * w * stretch * stretch
		}
	}

	for i := 0; i < n; i++ {
		v += p.Mass[i] * m.Gravity * pos[i].Y
	}
	return v
}

// Forces writes -grad V at the current positions into out[:p.Active()].
func (m *Potential) Forces(p *dynamo.Particles, g *Graph, out []dynamo.Vec2) {
	m.ForcesAt(p, g, p.Pos, out)
}

func (m *Potential) ForcesAt(p *dynamo.Particles, g *Graph, pos []dynamo.Vec2, out []dynamo.Vec2) {
	n := p.Active()
	for i := 0; i < n; i++ {
		out[i] = dynamo.Vec2{Y: -p.Mass[i] * m.Gravity}
	}

	for _, e := range g.edges {
		if e.I >= n || e.J >= n {
			continue
		}
		d := pos[e.I].Sub(pos[e.J])
		r := d.NormEps(dynamo.DistanceEps)
		f := d.Scale(m.Stiffness * (r - m.RestLength) / r)
		out[e.I] = out[e.I].Sub(f)
		out[e.J] = out[e.J].Add(f)
	}
}

// Field binds a Potential to the graph it is evaluated on.
type Field struct {
	Model *Potential
	Graph *Graph
}

func (f Field) Forces(p *dynamo.Particles, pos []dynamo.Vec2, out []dynamo.Vec2) {
	f.Model.ForcesAt(p, f.Graph, pos, out)
}

package physics

import "github.com/san-kum/springsim/internal/dynamo"

// Ground is a fully inelastic, axis-aligned floor at y = Height.
type Ground struct {
	Height float64
}

// Resolve clamps every active particle below the floor onto it and kills
// its vertical velocity. Horizontal motion is left alone. It returns the
// number of particles that were clamped.
func (g Ground) Resolve(p *dynamo.Particles) int {
	contacts := 0
	for i := 0; i < p.Active(); i++ {
		if p.Pos[i].Y < g.Height {
			p.Pos[i].Y = g.Height
			p.Vel[i].Y = 0
			contacts++
		}
	}
	return contacts
}

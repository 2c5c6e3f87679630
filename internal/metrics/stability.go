package metrics

import (
	"math"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Stability is the fraction of frames in which every particle is finite and
// within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f dynamo.Frame) {
	s.samples++
	for i, p := range f.Pos {
		if !p.IsFinite() || !f.Vel[i].IsFinite() || p.Norm() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// GroundContact is the mean number of particles clamped to the ground per
// frame.
type GroundContact struct {
	name     string
	contacts int
	samples  int
}

func NewGroundContact() *GroundContact {
	return &GroundContact{name: "ground_contact"}
}

func (g *GroundContact) Name() string { return g.name }

func (g *GroundContact) Observe(f dynamo.Frame) {
	g.contacts += f.Contacts
	g.samples++
}

func (g *GroundContact) Value() float64 {
	if g.samples == 0 {
		return 0
	}
	return float64(g.contacts) / float64(g.samples)
}

func (g *GroundContact) Reset() {
	g.contacts = 0
	g.samples = 0
}

// Height is the mean height of the active particles in the latest frame.
type Height struct {
	name  string
	value float64
}

func NewHeight() *Height {
	return &Height{name: "height"}
}

func (h *Height) Name() string { return h.name }

func (h *Height) Observe(f dynamo.Frame) {
	h.value = MeanHeight(f.Pos)
}

func (h *Height) Value() float64 { return h.value }
func (h *Height) Reset() { h.value = 0 }

// MeanHeight averages the y coordinate of pos; zero for an empty slice.
func MeanHeight(pos []dynamo.Vec2) float64 {
	if len(pos) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range pos {
		sum += p.Y
	}
	return sum / float64(len(pos))
}

package physics

import (
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TestGroundResolve(t *testing.T) {
	tests := []struct {
		name string
		vel  dynamo.Vec2
	}{
		{"falling", dynamo.V(0.3, -2)},
		{"rising", dynamo.V(-1, 5)},
		{"at rest", dynamo.V(0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newParticles(t, 2, dynamo.V(0.4, -0.05))
			p.Vel[0] = tt.vel

			n := Ground{Height: 0.01}.Resolve(p)

			if n != 1 {
				t.Errorf("expected 1 contact, got %d", n)
			}
			if p.Pos[0].Y != 0.01 {
				t.Errorf("expected y = 0.01, got %f", p.Pos[0].Y)
			}
			if p.Vel[0].Y != 0 {
				t.Errorf("expected vy = 0, got %f", p.Vel[0].Y)
			}
			if p.Pos[0].X != 0.4 || p.Vel[0].X != tt.vel.X {
				t.Error("horizontal state must be untouched")
			}
		})
	}
}

func TestGroundResolve_AboveAndInactive(t *testing.T) {
	p := newParticles(t, 3, dynamo.V(0.4, 0.5))
	p.Vel[0] = dynamo.V(0, -1)
	p.Pos[1] = dynamo.V(0, -10)

	if n := (Ground{Height: 0.01}).Resolve(p); n != 0 {
		t.Errorf("expected no contacts, got %d", n)
	}
	if p.Vel[0].Y != -1 {
		t.Error("particle above ground was modified")
	}
	if p.Pos[1].Y != -10 {
		t.Error("inactive slot was modified")
	}
}

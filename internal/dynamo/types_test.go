package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Integrator != "symplectic" {
		t.Errorf("expected symplectic default, got %s", cfg.Integrator)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero mass", func(c *Config) { c.Mass = 0 }, ErrInvalidMass},
		{"negative mass", func(c *Config) { c.Mass = -1 }, ErrInvalidMass},
		{"3d", func(c *Config) { c.Dim = 3 }, ErrDimensionMismatch},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, ErrParameterBounds},
		{"negative count", func(c *Config) { c.InitialCount = -1 }, ErrParameterBounds},
		{"count above capacity", func(c *Config) { c.InitialCount = c.Capacity + 1 }, ErrCapacityExceeded},
		{"zero dt", func(c *Config) { c.Dt = 0 }, ErrParameterBounds},
		{"NaN dt", func(c *Config) { c.Dt = math.NaN() }, ErrParameterBounds},
		{"negative stiffness", func(c *Config) { c.Stiffness = -1 }, ErrParameterBounds},
		{"negative gravity", func(c *Config) { c.Gravity = -9.8 }, ErrParameterBounds},
		{"infinite dt", func(c *Config) { c.Dt = math.Inf(1) }, ErrParameterBounds},
		{"NaN stiffness", func(c *Config) { c.Stiffness = math.NaN() }, ErrParameterBounds},
		{"infinite stiffness", func(c *Config) { c.Stiffness = math.Inf(1) }, ErrParameterBounds},
		{"NaN rest length", func(c *Config) { c.RestLength = math.NaN() }, ErrParameterBounds},
		{"NaN noise", func(c *Config) { c.Noise = math.NaN() }, ErrParameterBounds},
		{"NaN gravity", func(c *Config) { c.Gravity = math.NaN() }, ErrParameterBounds},
		{"NaN ground", func(c *Config) { c.GroundHeight = math.NaN() }, ErrParameterBounds},
		{"infinite ground", func(c *Config) { c.GroundHeight = math.Inf(-1) }, ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestConfigValidate_NegativeGround(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GroundHeight = -0.5
	if err := cfg.Validate(); err != nil {
		t.Errorf("negative ground height should be allowed, got %v", err)
	}
}

func TestVec2(t *testing.T) {
	a, b := V(3, 4), V(1, 2)

	if got := a.Add(b); got != V(4, 6) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != V(2, 2) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(2); got != V(6, 8) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot = %v", got)
	}
	if got := a.Norm(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Norm = %v", got)
	}
	if got := (Vec2{}).NormEps(DistanceEps); math.Abs(got-math.Sqrt(DistanceEps)) > 1e-12 {
		t.Errorf("NormEps of zero = %v", got)
	}
	if V(math.NaN(), 0).IsFinite() || !a.IsFinite() {
		t.Error("IsFinite wrong")
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Step: 150, Time: 1.5, Wrapped: ErrInvalidState}

	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
	want := "step 150 (t=1.5000): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

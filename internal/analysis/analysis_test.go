package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TestDominantFrequency(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		n    int
	}{
		{"5Hz power of two", 5, 512},
		{"5Hz odd length", 5, 400},
		{"2Hz", 2, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dt := 0.01
			data := make([]float64, tt.n)
			for i := range data {
				data[i] = 3 + math.Sin(2*math.Pi*tt.freq*float64(i)*dt)
			}

			got := DominantFrequency(data, dt)
			resolution := 1 / (float64(tt.n) * dt)
			if math.Abs(got-tt.freq) > resolution {
				t.Errorf("expected %.2f Hz, got %.2f", tt.freq, got)
			}
		})
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	data := []float64{4, 4, 4, 4, 4, 4, 4, 4}
	ps := PowerSpectrum(data)
	if len(ps) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(ps))
	}
	for k, v := range ps {
		if v > 1e-12 {
			t.Errorf("bin %d: expected 0, got %g", k, v)
		}
	}
	if DominantFrequency(data, 0.01) != 0 {
		t.Error("constant series has no dominant frequency")
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for no data")
	}
}

func TestLyapunovRegularChain(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.InitialCount = 2
	cfg.Gravity = 0
	cfg.Integrator = "rk4"

	lambda, err := LyapunovExponent(cfg, 1e-6, 2000, 10)
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(lambda) || math.Abs(lambda) > 0.5 {
		t.Errorf("expected near-zero exponent for a spring pair, got %f", lambda)
	}
}

func TestLyapunovBounds(t *testing.T) {
	cfg := dynamo.DefaultConfig()
	cfg.InitialCount = 0
	if _, err := LyapunovExponent(cfg, 1e-6, 10, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}

	cfg = dynamo.DefaultConfig()
	if _, err := LyapunovExponent(cfg, 0, 10, 1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestTrajectory(t *testing.T) {
	frames := []dynamo.Snapshot{
		{Pos: []dynamo.Vec2{{X: 0, Y: 1}}},
		{Pos: []dynamo.Vec2{{X: 0, Y: 0.5}, {X: 1, Y: 1}}},
		{Pos: []dynamo.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0.5}}},
	}

	if got := Trajectory(frames, 0); len(got) != 3 {
		t.Errorf("expected 3 points, got %d", len(got))
	}
	got := Trajectory(frames, 1)
	if len(got) != 2 || got[1] != (dynamo.Vec2{X: 1, Y: 0.5}) {
		t.Errorf("unexpected trajectory %v", got)
	}
}

func TestTrajectoryToASCII(t *testing.T) {
	points := []dynamo.Vec2{{X: 0, Y: 1}, {X: 1, Y: 0}}
	out := TrajectoryToASCII(points, 0, 20, 10)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d", len(lines))
	}
	if strings.Count(out, "•") != 2 {
		t.Errorf("expected 2 points in\n%s", out)
	}
	if !strings.Contains(out, "─") {
		t.Errorf("expected a ground line in\n%s", out)
	}
	if TrajectoryToASCII(nil, 0, 20, 10) != "" {
		t.Error("expected empty plot for no points")
	}
}

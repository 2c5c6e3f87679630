package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/springsim/internal/dynamo"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Integrator != "symplectic" {
		t.Errorf("expected integrator symplectic, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Chain.Particles != 5 || cfg.Chain.Capacity != 100 {
		t.Errorf("expected 5/100 particles, got %d/%d", cfg.Chain.Particles, cfg.Chain.Capacity)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSimulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Stiffness = 42
	cfg.Chain.Closed = true

	sc := cfg.Simulation()
	if sc.Stiffness != 42 || !sc.Closed {
		t.Errorf("fields not carried over: %+v", sc)
	}
	if sc.Dim != dynamo.Dim || !sc.ValidateState {
		t.Errorf("expected dim %d with validation, got %+v", dynamo.Dim, sc)
	}
}

func TestLoadSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chain.yaml")

	cfg := GetPreset("rain")
	cfg.Physics.Gravity = 3.5
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Physics.Gravity != 3.5 {
		t.Errorf("expected gravity 3.5, got %f", loaded.Physics.Gravity)
	}
	if len(loaded.Appends) != 4 {
		t.Errorf("expected 4 appends, got %d", len(loaded.Appends))
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "integrator: rk4\nphysics:\n  stiffness: 10\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Integrator != "rk4" || cfg.Physics.Stiffness != 10 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Physics.RestLength != 0.2 || cfg.Chain.Capacity != 100 {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		err  error
	}{
		{"zero mass", "chain:\n  mass: 0\n", dynamo.ErrInvalidMass},
		{"over capacity", "chain:\n  particles: 20\n  capacity: 10\n", dynamo.ErrCapacityExceeded},
		{"bad stride", "record_every: 0\n", dynamo.ErrParameterBounds},
		{"negative append", "appends:\n  - step: -1\n", dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, tt.err) {
				t.Errorf("expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("demo")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Physics.Stiffness != 50 || cfg.Physics.RestLength != 0.4 {
		t.Errorf("unexpected demo physics: %+v", cfg.Physics)
	}

	cfg.Physics.Stiffness = 1
	if Presets["demo"].Physics.Stiffness != 50 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValidate(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for _, name := range names {
		if err := Presets[name].Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

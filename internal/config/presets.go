package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"demo": {
		Integrator: "symplectic", Dt: 0.01, Steps: 2000, RecordEvery: 1, Seed: 1,
		Chain:   ChainConfig{Particles: 5, Capacity: 10, Mass: 1, Noise: 0.1},
		Physics: PhysicsConfig{Stiffness: 50, RestLength: 0.4, Gravity: 9.8, GroundHeight: 0.01},
	},
	"stiff": {
		Integrator: "rk4", Dt: 0.002, Steps: 5000, RecordEvery: 5, Seed: 1,
		Chain:   ChainConfig{Particles: 8, Capacity: 32, Mass: 1, Noise: 0.05},
		Physics: PhysicsConfig{Stiffness: 1000, RestLength: 0.1, Gravity: 9.8, GroundHeight: 0.01},
	},
	"rope": {
		Integrator: "symplectic", Dt: 0.002, Steps: 5000, RecordEvery: 5, Seed: 7,
		Chain:   ChainConfig{Particles: 30, Capacity: 100, Mass: 0.1, Noise: 0.2},
		Physics: PhysicsConfig{Stiffness: 200, RestLength: 0.03, Gravity: 9.8, GroundHeight: 0.01},
	},
	"ring": {
		Integrator: "symplectic", Dt: 0.005, Steps: 2000, RecordEvery: 2, Seed: 3,
		Chain:   ChainConfig{Particles: 12, Capacity: 24, Mass: 1, Noise: 0.1, Closed: true},
		Physics: PhysicsConfig{Stiffness: 150, RestLength: 0.1, Gravity: 9.8, GroundHeight: 0.01},
	},
	"rain": {
		Integrator: "symplectic", Dt: 0.01, Steps: 1500, RecordEvery: 1, Seed: 1,
		Chain:   ChainConfig{Particles: 3, Capacity: 10, Mass: 1, Noise: 0.1},
		Physics: PhysicsConfig{Stiffness: 80, RestLength: 0.2, Gravity: 9.8, GroundHeight: 0.01},
		Appends: []AppendConfig{
			{Step: 100, X: 0.2, Y: 0.9},
			{Step: 200, X: 0.4, Y: 0.9},
			{Step: 300, X: 0.6, Y: 0.9},
			{Step: 400, X: 0.8, Y: 0.9},
		},
	},
	"weightless": {
		Integrator: "rk4", Dt: 0.01, Steps: 2000, RecordEvery: 1, Seed: 1,
		Chain:   ChainConfig{Particles: 6, Capacity: 16, Mass: 1, Noise: 0.15},
		Physics: PhysicsConfig{Stiffness: 100, RestLength: 0.2, Gravity: 0, GroundHeight: 0.01},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

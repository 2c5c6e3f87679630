package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springsim/internal/dynamo"
)

const (
	DefaultSteps       = 1000
	DefaultRecordEvery = 1
	DefaultIntegrator  = "symplectic"
)

// Config is the on-disk form of a simulation setup. It extends
// dynamo.Config with run length, recording stride and scripted appends.
type Config struct {
	Integrator  string         `yaml:"integrator"`
	Dt          float64        `yaml:"dt"`
	Steps       int            `yaml:"steps"`
	RecordEvery int            `yaml:"record_every"`
	Seed        int64          `yaml:"seed"`
	Chain       ChainConfig    `yaml:"chain"`
	Physics     PhysicsConfig  `yaml:"physics"`
	Appends     []AppendConfig `yaml:"appends,omitempty"`
}

type ChainConfig struct {
	Particles int     `yaml:"particles"`
	Capacity  int     `yaml:"capacity"`
	Mass      float64 `yaml:"mass"`
	Noise     float64 `yaml:"noise"`
	Closed    bool    `yaml:"closed"`
}

type PhysicsConfig struct {
	Stiffness    float64 `yaml:"stiffness"`
	RestLength   float64 `yaml:"rest_length"`
	Gravity      float64 `yaml:"gravity"`
	GroundHeight float64 `yaml:"ground_height"`
}

// AppendConfig schedules a particle to be added before the given step.
type AppendConfig struct {
	Step int     `yaml:"step"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

func DefaultConfig() *Config {
	d := dynamo.DefaultConfig()
	return &Config{
		Integrator:  DefaultIntegrator,
		Dt:          d.Dt,
		Steps:       DefaultSteps,
		RecordEvery: DefaultRecordEvery,
		Seed:        d.Seed,
		Chain: ChainConfig{
			Particles: d.InitialCount,
			Capacity:  d.Capacity,
			Mass:      d.Mass,
			Noise:     d.Noise,
		},
		Physics: PhysicsConfig{
			Stiffness:    d.Stiffness,
			RestLength:   d.RestLength,
			Gravity:      d.Gravity,
			GroundHeight: d.GroundHeight,
		},
	}
}

// Load reads a YAML file on top of the defaults, so missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Simulation converts the file form into the core configuration.
func (c *Config) Simulation() dynamo.Config {
	return dynamo.Config{
		InitialCount:  c.Chain.Particles,
		Capacity:      c.Chain.Capacity,
		Dim:           dynamo.Dim,
		Mass:          c.Chain.Mass,
		Dt:            c.Dt,
		Stiffness:     c.Physics.Stiffness,
		RestLength:    c.Physics.RestLength,
		GroundHeight:  c.Physics.GroundHeight,
		Gravity:       c.Physics.Gravity,
		Noise:         c.Chain.Noise,
		Seed:          c.Seed,
		Integrator:    c.Integrator,
		Closed:        c.Chain.Closed,
		ValidateState: true,
	}
}

func (c *Config) Validate() error {
	if err := c.Simulation().Validate(); err != nil {
		return err
	}
	if c.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", dynamo.ErrParameterBounds, c.Steps)
	}
	if c.RecordEvery < 1 {
		return fmt.Errorf("%w: record_every must be at least 1, got %d", dynamo.ErrParameterBounds, c.RecordEvery)
	}
	for _, a := range c.Appends {
		if a.Step < 0 {
			return fmt.Errorf("%w: append step must not be negative, got %d", dynamo.ErrParameterBounds, a.Step)
		}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Appends = append([]AppendConfig(nil), c.Appends...)
	return &out
}

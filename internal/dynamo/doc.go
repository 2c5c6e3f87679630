// Package dynamo provides the core primitives of the mass-spring simulator.
//
// The package defines the state and contracts every other package shares:
//
//   - [Vec2]: 2D vector used for positions, velocities and forces
//   - [Particles]: fixed-capacity particle store with runtime append
//   - [Integrator]: time-stepping strategy over a particle set
//   - [ForceField]: conservative force evaluation for multi-stage integrators
//   - [Metric], [Observer]: per-frame instrumentation hooks
//   - [Config]: simulation parameters and their validation
//
// # Example
//
//	cfg := dynamo.DefaultConfig()
//	s, err := sim.New(cfg)
//	if err != nil {
//	    return err
//	}
//	_ = s.Step()
//
// # Thread Safety
//
// Particles are owned by a single simulation goroutine. Nothing in this
// package synchronizes access.
package dynamo

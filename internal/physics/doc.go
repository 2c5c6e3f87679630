// Package physics provides the mass-spring force model and constraints.
//
//   - [Graph]: spring adjacency and distance tables, rebuilt every step
//   - [Potential]: elastic plus gravitational potential and its analytic gradient
//   - [Field]: a Potential bound to a Graph, usable as a [dynamo.ForceField]
//   - [Ground]: inelastic floor constraint
//
// Springs only ever join particle i to particle i+1. With Graph.Closed the
// last active particle is also joined to particle 0.
//
// # Forces
//
// Force is the negative gradient of the potential. Distances use
// sqrt(|d|^2 + eps), so coincident particles never divide by zero:
//
//	var pot physics.Potential
//	pot.Forces(p, g, out) // out[i] = -dV/dx_i
package physics

package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Factory builds an integrator for a particle set of the given capacity.
// Single-stage integrators ignore the field.
type Factory func(field dynamo.ForceField, capacity int) dynamo.Integrator

var registry = map[string]Factory{
	"euler":      func(dynamo.ForceField, int) dynamo.Integrator { return NewForwardEuler() },
	"symplectic": func(dynamo.ForceField, int) dynamo.Integrator { return NewSemiImplicitEuler() },
	"rk4":        func(f dynamo.ForceField, n int) dynamo.Integrator { return NewRK4(f, n) },
}

func New(name string, field dynamo.ForceField, capacity int) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(field, capacity), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

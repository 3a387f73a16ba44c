package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/physics"
)

// Integrator advances a pendulum state by exactly one simulation step.
// Implementations must be pure: same inputs, same output, no side effects.
type Integrator interface {
	Name() string
	Step(p physics.Params, s physics.State) physics.State
}

var registry = map[string]func() Integrator{
	"euler": func() Integrator { return NewSemiImplicitEuler() },
	"rk4":   func() Integrator { return NewRK4() },
}

// ByName resolves an integrator from its configuration name.
func ByName(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownIntegrator, name, Names())
	}
	return fn(), nil
}

// Names lists the registered integrator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package integrators

import "github.com/san-kum/blocksim/internal/dynamo"

// Euler is the explicit forward Euler scheme. It has no step control and
// no stability check: h must be small relative to the fastest time constant.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, u float64, t float64, dt float64) dynamo.State {
	dx := sys.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

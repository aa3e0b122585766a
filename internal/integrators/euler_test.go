package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/blocksim/internal/dynamo"
)

// decay is dx/dt = -x + u.
type decay struct{}

func (d *decay) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	return dynamo.State{-x[0] + u}
}

func (d *decay) StateDim() int { return 1 }

// ramp is dx/dt = u.
type ramp struct{}

func (r *ramp) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	return dynamo.State{u}
}

func (r *ramp) StateDim() int { return 1 }

func TestEulerSingleStep(t *testing.T) {
	integ := NewEuler()
	x := dynamo.State{2.0}

	next := integ.Step(&decay{}, x, 1.0, 0, 0.1)

	if math.Abs(next[0]-1.9) > 1e-12 {
		t.Errorf("expected 1.9, got %v", next[0])
	}
	if x[0] != 2.0 {
		t.Error("Step modified the input state")
	}
}

func TestEulerRampIsExact(t *testing.T) {
	integ := NewEuler()
	x := dynamo.State{0}
	dt := 0.1

	for k := 0; k < 5; k++ {
		x = integ.Step(&ramp{}, x, 1.0, float64(k)*dt, dt)
	}

	if math.Abs(x[0]-0.5) > 1e-12 {
		t.Errorf("expected 0.5 after 5 steps, got %v", x[0])
	}
}

func TestEulerConvergence(t *testing.T) {
	tests := []struct {
		name string
		dt   float64
	}{
		{"coarse", 0.1},
		{"medium", 0.01},
		{"fine", 0.001},
	}

	prevErr := math.Inf(1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ := NewEuler()
			x := dynamo.State{0}
			steps := int(math.Round(1.0 / tt.dt))
			for k := 0; k < steps; k++ {
				x = integ.Step(&decay{}, x, 1.0, float64(k)*tt.dt, tt.dt)
			}

			err := math.Abs(x[0] - (1 - math.Exp(-1)))
			if err >= prevErr {
				t.Errorf("error did not shrink with dt=%v: %v >= %v", tt.dt, err, prevErr)
			}
			prevErr = err
		})
	}
}

package lti

import (
	"math"

	"github.com/san-kum/blocksim/internal/dynamo"
)

const (
	// MinFinalTime is the shortest accepted step-response horizon.
	MinFinalTime = 1e-3
	// DefaultSamplePeriod replaces a non-positive or non-finite Ts.
	DefaultSamplePeriod = 1e-3
	// HorizonSteps is the number of Euler steps across a discretization horizon.
	HorizonSteps = 800
)

// StepResponse integrates the unit step response of tf over [0, tFinal]
// with nPoints equally spaced samples. An improper or null tf is refused
// before any sample is computed.
func StepResponse(tf TransferFunction, tFinal float64, nPoints int) (*dynamo.Result, error) {
	if err := tf.Validate(); err != nil {
		return nil, err
	}
	if math.IsNaN(tFinal) || tFinal < MinFinalTime {
		tFinal = MinFinalTime
	}
	if nPoints < 2 {
		nPoints = 2
	}

	ss, err := Realize(tf)
	if err != nil {
		return nil, err
	}

	dt := tFinal / float64(nPoints-1)
	return sampleStep(ss, dt, nPoints), nil
}

func sampleStep(ss *StateSpace, dt float64, n int) *dynamo.Result {
	res := &dynamo.Result{
		Times:   make([]float64, n),
		Outputs: make([]float64, n),
	}
	for k := 0; k < n; k++ {
		t := float64(k) * dt
		res.Times[k] = t
		res.Outputs[k] = ss.Advance(1, t, dt)
	}
	return res
}

// Horizon sizes a simulation to about five time constants of the slowest
// stable real pole, never less than 5 s. Without stable poles the time
// constant is taken as 1 s.
func Horizon(poles []float64) float64 {
	aDom := math.Inf(1)
	for _, p := range poles {
		if a := -p; a > 0 && a < aDom {
			aDom = a
		}
	}
	if math.IsInf(aDom, 1) {
		aDom = 1
	}
	return math.Max(5/aDom, 5)
}

// Discretization pairs the continuous step response of a zero/pole system
// with its samples taken every Ts.
type Discretization struct {
	TF         TransferFunction
	Ts         float64
	Horizon    float64
	Dt         float64
	Continuous *dynamo.Result
	Sampled    *dynamo.Result
}

// DiscreteResponse builds prod(s-z)/prod(s-p), integrates its step response
// over Horizon(poles) with HorizonSteps Euler steps and samples it every ts
// by nearest continuous sample. More zeros than poles returns the
// Discretization with only TF set, together with ErrImproper.
func DiscreteResponse(zeros, poles []float64, ts float64) (*Discretization, error) {
	tf := FromRoots(zeros, poles)
	if math.IsNaN(ts) || math.IsInf(ts, 0) || ts <= 0 {
		ts = DefaultSamplePeriod
	}
	d := &Discretization{TF: tf, Ts: ts}
	if len(zeros) > len(poles) {
		return d, dynamo.ErrImproper
	}

	ss, err := Realize(tf)
	if err != nil {
		return d, err
	}

	d.Horizon = Horizon(poles)
	d.Dt = d.Horizon / HorizonSteps
	d.Continuous = sampleStep(ss, d.Dt, HorizonSteps+1)

	n := max(1, int(math.Floor(d.Horizon/ts)))
	d.Sampled = &dynamo.Result{
		Times:   make([]float64, n+1),
		Outputs: make([]float64, n+1),
	}
	last := d.Continuous.Len() - 1
	for k := 0; k <= n; k++ {
		tk := float64(k) * ts
		idx := min(int(math.Round(tk/d.Dt)), last)
		d.Sampled.Times[k] = tk
		d.Sampled.Outputs[k] = d.Continuous.Outputs[idx]
	}
	return d, nil
}

package dynamo

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is a single-input continuous-time system dx/dt = f(x, u, t).
type System interface {
	Derive(x State, u float64, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, u float64, t float64, dt float64) State
}

type Metric interface {
	Name() string
	Observe(t, y float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(t, y float64)
}

// SolverConfig tunes the fixed-point iteration used for zero-delay loops.
// Hitting MaxIter is not an error: the last iterate is used.
type SolverConfig struct {
	MaxIter   int     `yaml:"max_iter" json:"max_iter"`
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
	Relax     float64 `yaml:"relax" json:"relax"`
}

func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIter:   60,
		Tolerance: 1e-6,
		Relax:     0.5,
	}
}

// WithDefaults replaces non-positive fields with their defaults.
func (c SolverConfig) WithDefaults() SolverConfig {
	d := DefaultSolverConfig()
	if c.MaxIter <= 0 {
		c.MaxIter = d.MaxIter
	}
	if !(c.Tolerance > 0) {
		c.Tolerance = d.Tolerance
	}
	if !(c.Relax > 0) {
		c.Relax = d.Relax
	}
	return c
}

type Config struct {
	Dt       float64
	Duration float64
	Solver   SolverConfig
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 10.0,
		Solver:   DefaultSolverConfig(),
	}
}

func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	}
	return nil
}

// Steps returns N = floor(Duration/Dt), never less than 2.
func (c Config) Steps() int {
	n := int(math.Floor(c.Duration/c.Dt + 1e-9))
	if n < 2 {
		n = 2
	}
	return n
}

// SolverStats summarizes algebraic loop resolution over a whole run.
type SolverStats struct {
	Loops         int `json:"loops"`
	Resolutions   int `json:"resolutions"`
	Unconverged   int `json:"unconverged"`
	MaxIterations int `json:"max_iterations"`
}

type Result struct {
	Times    []float64
	Outputs  []float64
	Metrics  map[string]float64
	Solver   SolverStats
	Warnings []error
}

func (r *Result) Len() int { return len(r.Times) }

// Rounded returns a copy with values and times rounded to fixed decimals
// for stable serialization.
func (r *Result) Rounded(valueDecimals, timeDecimals int) *Result {
	out := &Result{
		Times:    make([]float64, len(r.Times)),
		Outputs:  make([]float64, len(r.Outputs)),
		Metrics:  r.Metrics,
		Solver:   r.Solver,
		Warnings: r.Warnings,
	}
	for i, t := range r.Times {
		out.Times[i] = Round(t, timeDecimals)
	}
	for i, y := range r.Outputs {
		out.Outputs[i] = Round(y, valueDecimals)
	}
	return out
}

func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

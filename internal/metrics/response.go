// Package metrics implements dynamo.Metric observers for scalar step
// responses.
package metrics

import (
	"math"

	"github.com/san-kum/blocksim/internal/dynamo"
)

// series keeps every observed sample for metrics that need the whole
// response.
type series struct {
	t []float64
	y []float64
}

func (s *series) Observe(t, y float64) {
	s.t = append(s.t, t)
	s.y = append(s.y, y)
}

func (s *series) Reset() {
	s.t = s.t[:0]
	s.y = s.y[:0]
}

func (s *series) final() float64 {
	if len(s.y) == 0 {
		return 0
	}
	return s.y[len(s.y)-1]
}

type FinalValue struct {
	last float64
}

func NewFinalValue() *FinalValue { return &FinalValue{} }

func (m *FinalValue) Name() string         { return "final_value" }
func (m *FinalValue) Observe(t, y float64) { m.last = y }
func (m *FinalValue) Value() float64       { return m.last }
func (m *FinalValue) Reset()               { m.last = 0 }

type Peak struct {
	peak float64
	seen bool
}

func NewPeak() *Peak { return &Peak{} }

func (m *Peak) Name() string { return "peak" }

func (m *Peak) Observe(t, y float64) {
	if !m.seen || y > m.peak {
		m.peak = y
		m.seen = true
	}
}

func (m *Peak) Value() float64 { return m.peak }

func (m *Peak) Reset() {
	m.peak = 0
	m.seen = false
}

// Overshoot is the percentage by which the peak exceeds the final value.
// It is zero when the final value is zero or never exceeded.
type Overshoot struct {
	series
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (m *Overshoot) Name() string { return "overshoot_pct" }

func (m *Overshoot) Value() float64 {
	final := m.final()
	if math.Abs(final) < 1e-12 {
		return 0
	}
	peak := 0.0
	for _, y := range m.y {
		if over := (y - final) / math.Abs(final); over > peak {
			peak = over
		}
	}
	return 100 * peak
}

// SettlingTime is the time after which the response stays within Band of
// its final value. A final value near zero uses the largest magnitude seen
// as reference, at least 1.
type SettlingTime struct {
	series
	Band float64
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{Band: band}
}

func (m *SettlingTime) Name() string { return "settling_time" }

func (m *SettlingTime) Value() float64 {
	if len(m.y) == 0 {
		return 0
	}
	final := m.final()
	ref := math.Abs(final)
	if ref <= 1e-8 {
		ref = 1
		for _, y := range m.y {
			ref = math.Max(ref, math.Abs(y))
		}
	}
	tol := m.Band * ref

	last := -1
	for i, y := range m.y {
		if math.Abs(y-final) > tol {
			last = i
		}
	}
	switch {
	case last < 0:
		return m.t[0]
	case last+1 < len(m.t):
		return m.t[last+1]
	default:
		return m.t[len(m.t)-1]
	}
}

// RiseTime is the time taken to go from 10% to 90% of the final value.
type RiseTime struct {
	series
}

func NewRiseTime() *RiseTime { return &RiseTime{} }

func (m *RiseTime) Name() string { return "rise_time" }

func (m *RiseTime) Value() float64 {
	final := m.final()
	if math.Abs(final) < 1e-12 {
		return 0
	}
	lo, hi := -1.0, -1.0
	for i, y := range m.y {
		frac := y / final
		if lo < 0 && frac >= 0.1 {
			lo = m.t[i]
		}
		if hi < 0 && frac >= 0.9 {
			hi = m.t[i]
			break
		}
	}
	if lo < 0 || hi < 0 {
		return 0
	}
	return hi - lo
}

// StepResponse returns the standard set of step-response metrics.
func StepResponse() []dynamo.Metric {
	return []dynamo.Metric{
		NewFinalValue(),
		NewPeak(),
		NewOvershoot(),
		NewSettlingTime(0.05),
		NewRiseTime(),
	}
}

// Evaluate feeds a finished result through ms and returns their values.
func Evaluate(res *dynamo.Result, ms ...dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		for i, t := range res.Times {
			m.Observe(t, res.Outputs[i])
		}
		out[m.Name()] = m.Value()
	}
	return out
}

package metrics

import (
	"math"
)

// IAE integrates |ref - y| over time with the rectangle rule, using the
// spacing between consecutive samples.
type IAE struct {
	name  string
	ref   float64
	sum   float64
	lastT float64
	lastE float64
	seen  bool
}

func NewIAE(ref float64) *IAE {
	return &IAE{
		name: "iae",
		ref:  ref,
	}
}

func (m *IAE) Name() string {
	return m.name
}

func (m *IAE) Observe(t, y float64) {
	e := math.Abs(m.ref - y)
	if m.seen {
		m.sum += m.lastE * (t - m.lastT)
	}
	m.lastT, m.lastE, m.seen = t, e, true
}

func (m *IAE) Value() float64 {
	return m.sum
}

func (m *IAE) Reset() {
	m.sum = 0
	m.lastT = 0
	m.lastE = 0
	m.seen = false
}

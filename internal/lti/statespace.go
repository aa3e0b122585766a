package lti

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/integrators"
)

// StateSpace is a controllable canonical realization
//
//	dx/dt = A x + B u
//	y     = C x + D u
//
// X is owned by the realization and starts at zero.
type StateSpace struct {
	A *mat.Dense
	B *mat.VecDense
	C *mat.VecDense
	D float64
	X dynamo.State

	integ dynamo.Integrator
}

var _ dynamo.System = (*StateSpace)(nil)

// Null is the degenerate one-state system whose output is always zero.
func Null() *StateSpace {
	return &StateSpace{
		A:     mat.NewDense(1, 1, nil),
		B:     mat.NewVecDense(1, nil),
		C:     mat.NewVecDense(1, nil),
		X:     make(dynamo.State, 1),
		integ: integrators.NewEuler(),
	}
}

// Realize converts tf into controllable canonical form. A null denominator
// yields Null() with ErrInvalidDenominator, an improper tf yields Null()
// with ErrImproper; both results are safe to simulate.
func Realize(tf TransferFunction) (*StateSpace, error) {
	den := tf.Den.Trim()
	if den.IsZero() {
		return Null(), dynamo.ErrInvalidDenominator
	}
	num := tf.Num.Trim()
	if len(num) > len(den) {
		return Null(), dynamo.ErrImproper
	}

	lead := den[0]
	den = den.Scale(1 / lead)
	num = num.Scale(1 / lead)

	order := len(den) - 1
	n := max(1, order)

	aligned := make([]float64, order+1)
	copy(aligned[order+1-len(num):], num)

	d := aligned[0]
	a := make([]float64, n)
	b := make([]float64, n)
	for i := 0; i < order; i++ {
		a[i] = den[order-i]
		b[i] = aligned[order-i]
	}

	A := mat.NewDense(n, n, nil)
	for i := 0; i < n-1; i++ {
		A.Set(i, i+1, 1)
	}
	for j := 0; j < n; j++ {
		A.Set(n-1, j, -a[j])
	}

	B := mat.NewVecDense(n, nil)
	B.SetVec(n-1, 1)

	C := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		C.SetVec(i, b[i]-d*a[i])
	}

	return &StateSpace{
		A:     A,
		B:     B,
		C:     C,
		D:     d,
		X:     make(dynamo.State, n),
		integ: integrators.NewEuler(),
	}, nil
}

func (s *StateSpace) StateDim() int {
	return len(s.X)
}

// Derive returns A x + B u.
func (s *StateSpace) Derive(x dynamo.State, u float64, t float64) dynamo.State {
	xv := mat.NewVecDense(len(x), x.Clone())
	var dx mat.VecDense
	dx.MulVec(s.A, xv)
	dx.AddScaledVec(&dx, u, s.B)
	return dynamo.State(dx.RawVector().Data)
}

// Output returns C x + D u for the current state.
func (s *StateSpace) Output(u float64) float64 {
	xv := mat.NewVecDense(len(s.X), s.X)
	return mat.Dot(s.C, xv) + s.D*u
}

// Update advances X by one integrator step of size h.
func (s *StateSpace) Update(u, t, h float64) {
	s.X = s.integ.Step(s, s.X, u, t, h)
}

// Advance reads the output at time t and then steps the state. The output
// always reflects the state at t, never t+h.
func (s *StateSpace) Advance(u, t, h float64) float64 {
	y := s.Output(u)
	s.Update(u, t, h)
	return y
}

func (s *StateSpace) Reset() {
	for i := range s.X {
		s.X[i] = 0
	}
}

func (s *StateSpace) Clone() *StateSpace {
	return &StateSpace{
		A:     mat.DenseCopyOf(s.A),
		B:     mat.VecDenseCopyOf(s.B),
		C:     mat.VecDenseCopyOf(s.C),
		D:     s.D,
		X:     s.X.Clone(),
		integ: s.integ,
	}
}

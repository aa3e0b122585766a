package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRoots(t *testing.T) {
	tests := []struct {
		name  string
		roots []float64
		want  Poly
	}{
		{"no roots", nil, Poly{1}},
		{"single", []float64{-1}, Poly{1, 1}},
		{"two stable", []float64{-1, -2}, Poly{1, 3, 2}},
		{"origin", []float64{0}, Poly{1, 0}},
		{"mixed", []float64{2, -3}, Poly{1, 1, -6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, FromRoots(tt.roots), 1e-12)
		})
	}
}

func TestFromRootsMatchesProductOfFactors(t *testing.T) {
	roots := []float64{-0.5, 1.25, -4, 3}
	want := Poly{1}
	for _, r := range roots {
		want = Multiply(want, Poly{1, -r})
	}
	assert.InDeltaSlice(t, want, FromRoots(roots), 1e-9)
}

func TestMultiply(t *testing.T) {
	got := Multiply(Poly{1, 2}, Poly{1, 3})
	assert.Equal(t, Poly{1, 5, 6}, got)

	got = Multiply(Poly{2}, Poly{1, 0, -1})
	assert.Equal(t, Poly{2, 0, -2}, got)

	assert.Empty(t, Multiply(Poly{}, Poly{1, 2}))
	assert.Len(t, Multiply(Poly{1, 2, 3}, Poly{4, 5}), 4)
}

func TestAdd(t *testing.T) {
	tests := []struct {
		name string
		a, b Poly
		want Poly
	}{
		{"trailing alignment", Poly{1, 2}, Poly{3}, Poly{1, 5}},
		{"leading cancels", Poly{1, 1}, Poly{-1, 0}, Poly{1}},
		{"all cancel", Poly{1}, Poly{-1}, Poly{0}},
		{"both empty", Poly{}, Poly{}, Poly{0}},
		{"one empty", Poly{}, Poly{2, 1}, Poly{2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Add(tt.a, tt.b))
		})
	}
}

func TestAddProperties(t *testing.T) {
	a := Poly{1, -2, 0.5}
	b := Poly{3, 4}
	c := Poly{-1, 0, 0, 7}

	assert.Equal(t, Add(a, b), Add(b, a), "Add should be commutative")
	assert.InDeltaSlice(t, Add(Add(a, b), c), Add(a, Add(b, c)), 1e-12, "Add should be associative")

	for _, p := range []Poly{Add(a, a.Scale(-1)), Add(nil, nil)} {
		require.NotEmpty(t, p)
	}
}

func TestTrimAndDegree(t *testing.T) {
	p := Poly{0, 1e-14, 2, 1}
	assert.Equal(t, Poly{2, 1}, p.Trim())
	assert.Equal(t, 1, p.Degree())
	assert.Equal(t, Poly{0, 1e-14, 2, 1}, p, "Trim must not modify the receiver")

	assert.Equal(t, 0, Poly{0, 0, 0}.Degree())
	assert.Equal(t, Poly{0}, Poly{}.Trim())
}

func TestIsZero(t *testing.T) {
	assert.True(t, Poly{}.IsZero())
	assert.True(t, Poly{0, 1e-13}.IsZero())
	assert.False(t, Poly{0, 1}.IsZero())
}

func TestEval(t *testing.T) {
	p := Poly{1, 3, 2}
	assert.InDelta(t, 0.0, p.Eval(-1), 1e-12)
	assert.InDelta(t, 6.0, p.Eval(1), 1e-12)
	assert.InDelta(t, 2.0, p.Eval(0), 1e-12)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		p    Poly
		want string
	}{
		{Poly{1, 1.5, -3}, "s^2 + 1.50s - 3.00"},
		{Poly{-1, 0, 2}, "-s^2 + 2.00"},
		{Poly{2, 1}, "2.00s + 1.00"},
		{Poly{5}, "5.00"},
		{Poly{0}, "0.00"},
		{Poly{}, "0.00"},
		{Poly{1, 0}, "s"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.String())
		})
	}
}

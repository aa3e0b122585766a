// Package poly implements real polynomial algebra on coefficient slices
// ordered from the highest power down to the constant term.
package poly

import (
	"math"
	"strconv"
	"strings"
)

// Eps is the magnitude below which a coefficient counts as zero.
const Eps = 1e-12

// Poly holds coefficients highest power first; len = degree+1.
type Poly []float64

// FromRoots builds the monic polynomial prod(s - r) by repeated convolution.
func FromRoots(roots []float64) Poly {
	c := Poly{1}
	for _, r := range roots {
		next := make(Poly, len(c)+1)
		for i, v := range c {
			next[i] += v
			next[i+1] -= r * v
		}
		c = next
	}
	return c
}

// Multiply returns the convolution of a and b.
func Multiply(a, b Poly) Poly {
	if len(a) == 0 || len(b) == 0 {
		return Poly{}
	}
	res := make(Poly, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			res[i+j] += av * bv
		}
	}
	return res
}

// Add sums a and b aligned on their constant terms and strips leading
// near-zero coefficients, keeping at least one.
func Add(a, b Poly) Poly {
	n := max(len(a), len(b))
	if n == 0 {
		return Poly{0}
	}
	res := make(Poly, n)
	for i := 0; i < n; i++ {
		if j := i - (n - len(a)); j >= 0 {
			res[i] += a[j]
		}
		if j := i - (n - len(b)); j >= 0 {
			res[i] += b[j]
		}
	}
	return res.Trim()
}

// Trim drops leading near-zero coefficients. The result is never empty.
func (p Poly) Trim() Poly {
	if len(p) == 0 {
		return Poly{0}
	}
	i := 0
	for i < len(p)-1 && math.Abs(p[i]) < Eps {
		i++
	}
	return p[i:].Clone()
}

func (p Poly) Clone() Poly {
	c := make(Poly, len(p))
	copy(c, p)
	return c
}

// Degree of the trimmed polynomial. The zero polynomial has degree 0.
func (p Poly) Degree() int {
	return len(p.Trim()) - 1
}

// IsZero reports whether p is empty or every coefficient is near zero.
func (p Poly) IsZero() bool {
	for _, c := range p {
		if math.Abs(c) >= Eps {
			return false
		}
	}
	return true
}

func (p Poly) Scale(k float64) Poly {
	res := make(Poly, len(p))
	for i, c := range p {
		res[i] = c * k
	}
	return res
}

// Eval evaluates p at s using Horner's rule.
func (p Poly) Eval(s float64) float64 {
	y := 0.0
	for _, c := range p {
		y = y*s + c
	}
	return y
}

// Format renders p in s with a fixed number of decimals, e.g.
// "2.00s^2 + 1.50s - 3.00". Unit coefficients on s terms are omitted.
func (p Poly) Format(decimals int) string {
	zero := formatFloat(0, decimals)
	if len(p) == 0 {
		return zero
	}
	order := len(p) - 1
	var b strings.Builder
	for i, c := range p {
		if math.Abs(c) < Eps {
			continue
		}
		pow := order - i
		abs := math.Abs(c)
		if b.Len() == 0 {
			if c < 0 {
				b.WriteString("-")
			}
		} else if c < 0 {
			b.WriteString(" - ")
		} else {
			b.WriteString(" + ")
		}
		if pow == 0 || abs != 1 {
			b.WriteString(formatFloat(abs, decimals))
		}
		switch {
		case pow > 1:
			b.WriteString("s^")
			b.WriteString(strconv.Itoa(pow))
		case pow == 1:
			b.WriteString("s")
		}
	}
	if b.Len() == 0 {
		return zero
	}
	return b.String()
}

func (p Poly) String() string {
	return p.Format(2)
}

func formatFloat(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

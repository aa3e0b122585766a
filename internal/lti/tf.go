// Package lti realizes single-input single-output linear time-invariant
// systems given as transfer functions and integrates their responses.
package lti

import (
	"fmt"
	"math"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/poly"
)

// TransferFunction is Num(s)/Den(s) with coefficients highest power first.
type TransferFunction struct {
	Num poly.Poly `yaml:"num" json:"num"`
	Den poly.Poly `yaml:"den" json:"den"`
}

func New(num, den []float64) TransferFunction {
	return TransferFunction{Num: poly.Poly(num).Clone(), Den: poly.Poly(den).Clone()}
}

// Gain returns the static system k/1.
func Gain(k float64) TransferFunction {
	return TransferFunction{Num: poly.Poly{k}, Den: poly.Poly{1}}
}

// FromRoots builds the monic zero/pole form prod(s-z)/prod(s-p).
func FromRoots(zeros, poles []float64) TransferFunction {
	return TransferFunction{Num: poly.FromRoots(zeros), Den: poly.FromRoots(poles)}
}

// Validate reports ErrInvalidDenominator for an empty or all-zero
// denominator and ErrImproper when the numerator degree is higher.
func (tf TransferFunction) Validate() error {
	if tf.Den.IsZero() {
		return dynamo.ErrInvalidDenominator
	}
	if !tf.IsProper() {
		return dynamo.ErrImproper
	}
	return nil
}

func (tf TransferFunction) IsProper() bool {
	return tf.Num.Degree() <= tf.Den.Degree()
}

// Order is the degree of the trimmed denominator.
func (tf TransferFunction) Order() int {
	return tf.Den.Degree()
}

// Series is the cascade a then b.
func Series(a, b TransferFunction) TransferFunction {
	return TransferFunction{
		Num: poly.Multiply(a.Num, b.Num).Trim(),
		Den: poly.Multiply(a.Den, b.Den).Trim(),
	}
}

// Parallel is the sum a + b over the common denominator.
func Parallel(a, b TransferFunction) TransferFunction {
	return TransferFunction{
		Num: poly.Add(poly.Multiply(a.Num, b.Den), poly.Multiply(b.Num, a.Den)),
		Den: poly.Multiply(a.Den, b.Den).Trim(),
	}
}

func (tf TransferFunction) Scale(k float64) TransferFunction {
	return TransferFunction{Num: tf.Num.Scale(k), Den: tf.Den.Clone()}
}

// DCGain is Num(0)/Den(0). Systems with a pole at the origin return ±Inf.
func (tf TransferFunction) DCGain() float64 {
	d := tf.Den.Eval(0)
	n := tf.Num.Eval(0)
	if math.Abs(d) < poly.Eps {
		if math.Abs(n) < poly.Eps {
			return math.NaN()
		}
		return math.Inf(int(math.Copysign(1, n)))
	}
	return n / d
}

func (tf TransferFunction) String() string {
	return fmt.Sprintf("(%s) / (%s)", tf.Num.Trim(), tf.Den.Trim())
}

package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for block-diagram simulation.
var (
	// ErrInvalidDenominator indicates an empty or all-zero denominator polynomial.
	ErrInvalidDenominator = errors.New("dynamo: invalid denominator (empty or all zero)")

	// ErrImproper indicates a transfer function with more zeros than poles.
	ErrImproper = errors.New("dynamo: improper transfer function (numerator degree exceeds denominator degree)")

	// ErrInvalidConfig indicates a non-positive or non-finite step size or horizon.
	ErrInvalidConfig = errors.New("dynamo: invalid simulation config")

	// ErrCyclic indicates a diagram with a feedback loop where an acyclic one is required.
	ErrCyclic = errors.New("dynamo: diagram contains a feedback loop")

	// ErrDiverged marks a dynamic block whose state left the finite range.
	ErrDiverged = errors.New("dynamo: state diverged to a non-finite value")

	ErrUnknownPreset   = errors.New("dynamo: unknown preset")
	ErrDiagramNotFound = errors.New("dynamo: diagram not found")
)

// BlockError attaches the offending block id to a recoverable diagram fault.
type BlockError struct {
	Block   string
	Wrapped error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block %s: %v", e.Block, e.Wrapped)
}

func (e *BlockError) Unwrap() error {
	return e.Wrapped
}

package network

import (
	"math"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/loops"
)

// Solver resolves zero-delay loops by damped Gauss-Seidel fixed-point
// sweeps. Members are updated in place, so later members of a sweep see
// the values written by earlier ones.
//
// Running out of iterations is not an error: the last iterate stands.
// Raising MaxIter trades per-step latency for accuracy.
type Solver struct {
	cfg dynamo.SolverConfig
}

func NewSolver(cfg dynamo.SolverConfig) *Solver {
	return &Solver{cfg: cfg.WithDefaults()}
}

func (s *Solver) Config() dynamo.SolverConfig {
	return s.cfg
}

// Solve iterates y[i] <- y[i] + relax*(eval(i) - y[i]) over the members of
// comp until the largest change in a sweep is below tolerance. It returns
// the number of sweeps and whether that happened.
func (s *Solver) Solve(comp loops.Component, y []float64, eval func(i int) float64) (int, bool) {
	for it := 1; it <= s.cfg.MaxIter; it++ {
		maxDelta := 0.0
		for _, i := range comp {
			old := y[i]
			next := old + s.cfg.Relax*(eval(i)-old)
			y[i] = next
			maxDelta = math.Max(maxDelta, math.Abs(next-old))
		}
		if maxDelta < s.cfg.Tolerance {
			return it, true
		}
	}
	return s.cfg.MaxIter, false
}

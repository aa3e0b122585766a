// Package network simulates block diagrams step by step: algebraic loops
// are resolved first, every block output is evaluated, dynamic state is
// advanced and the sink inputs are summed into one output sample.
package network

import (
	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/graph"
)

// timeDecimals drops floating noise from k*h so step onsets compare cleanly.
const timeDecimals = 9

type Simulator struct {
	graph     *graph.Graph
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(g *graph.Graph) *Simulator {
	return &Simulator{
		graph:     g,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run simulates the diagram over k = 0..N, N = cfg.Steps(). Every call
// compiles fresh state, so concurrent runs of one diagram are independent.
// The only error is an invalid config.
func (s *Simulator) Run(cfg dynamo.Config) (*dynamo.Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := compile(s.graph)
	r := &run{
		prog:   p,
		y:      make([]float64, len(p.nodes)),
		solver: NewSolver(cfg.Solver),
	}

	steps := cfg.Steps()
	result := &dynamo.Result{
		Times:    make([]float64, 0, steps+1),
		Outputs:  make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Warnings: p.warnings,
	}
	result.Solver.Loops = len(p.comps)

	for _, m := range s.metrics {
		m.Reset()
	}

	h := cfg.Dt
	for k := 0; k <= steps; k++ {
		t := dynamo.Round(float64(k)*h, timeDecimals)
		y := r.step(t, h, &result.Solver)

		result.Times = append(result.Times, t)
		result.Outputs = append(result.Outputs, y)

		for _, m := range s.metrics {
			m.Observe(t, y)
		}
		for _, obs := range s.observers {
			obs.OnStep(t, y)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	for i := range p.nodes {
		n := &p.nodes[i]
		if n.sys != nil && !n.sys.X.IsValid() {
			result.Warnings = append(result.Warnings, &dynamo.BlockError{Block: string(n.id), Wrapped: dynamo.ErrDiverged})
		}
	}

	return result, nil
}

// Run simulates g once without metrics or observers.
func Run(g *graph.Graph, cfg dynamo.Config) (*dynamo.Result, error) {
	return New(g).Run(cfg)
}

// run holds the state of one simulation. y is the arena of block outputs,
// parallel to the compiled nodes and zeroed at start.
type run struct {
	prog   *program
	y      []float64
	solver *Solver
}

func (r *run) input(i int) float64 {
	n := &r.prog.nodes[i]
	u := 0.0
	for j, p := range n.preds {
		if p >= 0 {
			u += n.weights[j] * r.y[p]
		}
	}
	return u
}

func (r *run) step(t, h float64, stats *dynamo.SolverStats) float64 {
	nodes := r.prog.nodes

	eval := func(i int) float64 {
		return nodes[i].output(r.input(i), t)
	}
	for _, c := range r.prog.comps {
		iters, converged := r.solver.Solve(c, r.y, eval)
		stats.Resolutions++
		stats.MaxIterations = max(stats.MaxIterations, iters)
		if !converged {
			stats.Unconverged++
		}
	}

	for _, i := range r.prog.order {
		r.y[i] = eval(i)
	}

	for i := range nodes {
		if nodes[i].dynamic() {
			nodes[i].advance(r.input(i), t, h)
		}
	}

	out := 0.0
	for _, i := range r.prog.sink {
		out += r.y[i]
	}
	return out
}

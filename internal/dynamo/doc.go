// Package dynamo provides the core primitives shared by the block-diagram
// simulation engine:
//
//   - [State]: state vector of a continuous-time system
//   - [System]: single-input system dX/dt = f(X, u, t)
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric], [Observer]: per-sample hooks on the output series
//   - [Config], [SolverConfig]: step size, horizon and algebraic loop tuning
//   - [Result]: parallel time/output sequences of one run
//
// # Example
//
//	g, _ := graph.Load("feedback.yaml")
//	res, err := network.Run(g, dynamo.DefaultConfig())
//
// # Thread Safety
//
// A run owns all of its state. Running the same diagram from several
// goroutines is safe as long as each run uses its own metrics.
package dynamo

package loops

import (
	"slices"

	"github.com/san-kum/blocksim/internal/graph"
)

// Component is a strongly connected set of node indices in ascending
// (declaration) order.
type Component []int

// Components returns the SCCs of g in topological order of the
// condensation: every component precedes the components it feeds.
func Components(g *Digraph) []Component {
	sccs := Tarjan(g)
	out := make([]Component, 0, len(sccs))
	for i := len(sccs) - 1; i >= 0; i-- {
		c := Component(slices.Clone(sccs[i]))
		slices.Sort(c)
		out = append(out, c)
	}
	return out
}

// Cyclic reports whether c needs iterative resolution: more than one
// member, or a single member feeding itself.
func (g *Digraph) Cyclic(c Component) bool {
	if len(c) > 1 {
		return true
	}
	return len(c) == 1 && g.HasEdge(c[0], c[0])
}

// Order flattens Components into one evaluation order. Members of a cyclic
// component keep declaration order and read each other's previous values.
func Order(g *Digraph) []int {
	order := make([]int, 0, g.Len())
	for _, c := range Components(g) {
		order = append(order, c...)
	}
	return order
}

// Algebraic returns the algebraic-cyclic components of g: SCCs of the
// sub-graph induced by blocks without private dynamic state that have
// more than one member or a self loop. Dynamic blocks and the sink never
// appear. g must not contain duplicate ids.
func Algebraic(g *graph.Graph) []Component {
	algebraic := make([]bool, len(g.Blocks))
	for i := range g.Blocks {
		algebraic[i] = !g.Blocks[i].Dynamic()
	}
	d := Build(g, func(from, to int) bool {
		return algebraic[from] && algebraic[to]
	})

	var out []Component
	for _, c := range Components(d) {
		if algebraic[c[0]] && d.Cyclic(c) {
			out = append(out, c)
		}
	}
	return out
}

// HasCycle reports whether any link path of g returns to its start,
// self loops included.
func HasCycle(g *graph.Graph) bool {
	d := Build(g, nil)
	for _, c := range Tarjan(d) {
		if d.Cyclic(c) {
			return true
		}
	}
	return false
}

// Package loops finds strongly connected components in block diagrams and
// classifies the ones that need iterative resolution within a time step.
//
// Traversal is deterministic: nodes are visited in declaration order and
// edges in link order.
package loops

import (
	"slices"

	"github.com/san-kum/blocksim/internal/graph"
)

// Digraph is an adjacency list over dense node indices.
type Digraph struct {
	adj [][]int
}

func NewDigraph(nodes int) *Digraph {
	return &Digraph{adj: make([][]int, nodes)}
}

func (g *Digraph) AddEdge(u, v int) {
	g.adj[u] = append(g.adj[u], v)
}

func (g *Digraph) Len() int {
	return len(g.adj)
}

func (g *Digraph) HasEdge(u, v int) bool {
	return slices.Contains(g.adj[u], v)
}

// Build indexes g's blocks by position and adds one edge per link accepted
// by keep. Links touching the sink or an unknown id are dropped. g must not
// contain duplicate ids (see graph.Graph.Unique).
func Build(g *graph.Graph, keep func(from, to int) bool) *Digraph {
	idx := g.Index()
	d := NewDigraph(len(g.Blocks))
	for _, l := range g.Links {
		if l.To.IsSink() {
			continue
		}
		from, ok := idx[l.From]
		if !ok {
			continue
		}
		to, ok := idx[l.To]
		if !ok {
			continue
		}
		if keep == nil || keep(from, to) {
			d.AddEdge(from, to)
		}
	}
	return d
}

type tarjan struct {
	graph   *Digraph
	stack   []int
	indices []int
	lowlink []int
	onStack []bool
	sccs    [][]int
	index   int
}

// Tarjan returns the strongly connected components in emission order:
// a component is emitted after every component reachable from it. Members
// are in stack pop order.
func Tarjan(g *Digraph) [][]int {
	t := &tarjan{
		graph:   g,
		indices: make([]int, g.Len()),
		lowlink: make([]int, g.Len()),
		onStack: make([]bool, g.Len()),
		index:   -1,
	}
	for i := range t.indices {
		t.indices[i] = -1
	}
	for v := range g.Len() {
		if t.indices[v] == -1 {
			t.strongConnect(v)
		}
	}
	return t.sccs
}

func (t *tarjan) strongConnect(v int) {
	t.index++
	t.indices[v] = t.index
	t.lowlink[v] = t.index
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.graph.adj[v] {
		if t.indices[w] == -1 {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.indices[w])
		}
	}

	if t.lowlink[v] == t.indices[v] {
		var scc []int
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}

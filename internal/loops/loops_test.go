package loops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/blocksim/internal/graph"
)

func TestTarjanEmissionOrder(t *testing.T) {
	// 0 -> 1 <-> 2 -> 3
	d := NewDigraph(4)
	d.AddEdge(0, 1)
	d.AddEdge(1, 2)
	d.AddEdge(2, 1)
	d.AddEdge(2, 3)

	sccs := Tarjan(d)
	require.Len(t, sccs, 3)
	assert.Equal(t, []int{3}, sccs[0])
	assert.ElementsMatch(t, []int{1, 2}, sccs[1])
	assert.Equal(t, []int{0}, sccs[2])
}

func TestComponentsTopological(t *testing.T) {
	d := NewDigraph(4)
	d.AddEdge(0, 1)
	d.AddEdge(1, 2)
	d.AddEdge(2, 1)
	d.AddEdge(2, 3)

	comps := Components(d)
	assert.Equal(t, []Component{{0}, {1, 2}, {3}}, comps)
	assert.Equal(t, []int{0, 1, 2, 3}, Order(d))

	assert.False(t, d.Cyclic(comps[0]))
	assert.True(t, d.Cyclic(comps[1]))
}

func TestSelfLoopIsCyclic(t *testing.T) {
	d := NewDigraph(2)
	d.AddEdge(0, 0)
	d.AddEdge(0, 1)

	comps := Components(d)
	require.Len(t, comps, 2)
	assert.True(t, d.Cyclic(comps[0]))
	assert.False(t, d.Cyclic(comps[1]))
}

func TestTarjanDeterministic(t *testing.T) {
	d := NewDigraph(6)
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 3}, {5, 5}, {2, 3}} {
		d.AddEdge(e[0], e[1])
	}

	first := Tarjan(d)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Tarjan(d))
	}
}

func TestOrderFeedsForward(t *testing.T) {
	// declared sink-first: 2 <- 1 <- 0
	d := NewDigraph(3)
	d.AddEdge(2, 1)
	d.AddEdge(1, 0)

	assert.Equal(t, []int{2, 1, 0}, Order(d))
}

func gain(id graph.ID, k float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindGain, K: graph.Float(k)}
}

func TestAlgebraicSelfLoop(t *testing.T) {
	g := &graph.Graph{
		Blocks: []graph.Block{
			{ID: "c", Kind: graph.KindConstant, Value: 1},
			gain("g", 0.5),
		},
		Links: []graph.Link{
			{From: "c", To: "g"},
			{From: "g", To: "g"},
			{From: "g", To: graph.Sink},
		},
	}

	comps := Algebraic(g)
	assert.Equal(t, []Component{{1}}, comps)
}

func TestAlgebraicExcludesDynamicBlocks(t *testing.T) {
	g := &graph.Graph{
		Blocks: []graph.Block{
			{ID: "s", Kind: graph.KindSummer, Signs: []float64{1, -1}},
			{ID: "plant", Kind: graph.KindTF, Num: []float64{1}, Den: []float64{1, 1}},
			{ID: "d", Kind: graph.KindUnitDelay},
			gain("k", 2),
		},
		Links: []graph.Link{
			{From: "s", To: "plant"},
			{From: "plant", To: "s"},
			{From: "k", To: "d"},
			{From: "d", To: "k"},
			{From: "plant", To: graph.Sink},
		},
	}

	assert.Empty(t, Algebraic(g))
	assert.True(t, HasCycle(g))
}

func TestAlgebraicLoopThroughSummer(t *testing.T) {
	g := &graph.Graph{
		Blocks: []graph.Block{
			{ID: "c", Kind: graph.KindConstant, Value: 1},
			{ID: "s", Kind: graph.KindSummer, Signs: []float64{1, 1}},
			gain("g", 0.5),
			{ID: "cmp", Kind: graph.KindComparator},
		},
		Links: []graph.Link{
			{From: "c", To: "s"},
			{From: "g", To: "s"},
			{From: "s", To: "g"},
			{From: "g", To: "cmp"},
			{From: "g", To: graph.Sink},
		},
	}

	assert.Equal(t, []Component{{1, 2}}, Algebraic(g))
}

func TestHasCycle(t *testing.T) {
	dag := &graph.Graph{
		Blocks: []graph.Block{gain("a", 1), gain("b", 1)},
		Links:  []graph.Link{{From: "a", To: "b"}, {From: "b", To: graph.Sink}, {From: "ghost", To: "a"}},
	}
	assert.False(t, HasCycle(dag))

	dag.Links = append(dag.Links, graph.Link{From: "b", To: "b"})
	assert.True(t, HasCycle(dag))
}

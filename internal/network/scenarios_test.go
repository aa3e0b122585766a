package network_test

import (
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/graph"
	"github.com/san-kum/blocksim/internal/network"
)

func cfg(dt, duration float64) dynamo.Config {
	c := dynamo.DefaultConfig()
	c.Dt = dt
	c.Duration = duration
	return c
}

func gain(id graph.ID, k float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindGain, K: graph.Float(k)}
}

func constant(id graph.ID, v float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindConstant, Value: v}
}

func step(id graph.ID) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindStep}
}

func link(from, to graph.ID) graph.Link {
	return graph.Link{From: from, To: to}
}

var _ = Describe("Network simulation", func() {
	Context("integrator fed by a unit step", func() {
		It("produces an Euler-accumulated ramp", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{step("u"), {ID: "int", Kind: graph.KindIntegrator}},
				Links:  []graph.Link{link("u", "int"), link("int", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.1, 0.5))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Times).To(HaveLen(6))

			for k, y := range res.Outputs {
				Expect(y).To(BeNumerically("~", 0.1*float64(k), 1e-12))
				Expect(res.Times[k]).To(BeNumerically("~", 0.1*float64(k), 1e-12))
			}
		})
	})

	Context("first-order lag 1/(s+1)", func() {
		It("follows 1 - exp(-t)", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					step("u"),
					{ID: "plant", Kind: graph.KindTF, Num: []float64{1}, Den: []float64{1, 1}},
				},
				Links: []graph.Link{link("u", "plant"), link("plant", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.025, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outputs[40]).To(BeNumerically("~", 0.632, 0.01))
			Expect(res.Outputs[len(res.Outputs)-1]).To(BeNumerically("~", 1-math.Exp(-5), 0.01))
		})
	})

	Context("gains in series", func() {
		It("multiplies a constant input at every step", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{constant("c", 1), gain("g2", 2), gain("g3", 3)},
				Links:  []graph.Link{link("c", "g2"), link("g2", "g3"), link("g3", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.01, 1))
			Expect(err).NotTo(HaveOccurred())
			for _, y := range res.Outputs {
				Expect(y).To(Equal(6.0))
			}
		})

		It("does not depend on declaration order", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{gain("g3", 3), gain("g2", 2), constant("c", 1)},
				Links:  []graph.Link{link("c", "g2"), link("g2", "g3"), link("g3", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.01, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outputs[0]).To(Equal(6.0))
		})
	})

	Context("signed summer", func() {
		It("subtracts the negative input", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					constant("five", 5),
					constant("two", 2),
					{ID: "sum", Kind: graph.KindSummer, Signs: []float64{1, -1}},
				},
				Links: []graph.Link{link("five", "sum"), link("two", "sum"), link("sum", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.01, 1))
			Expect(err).NotTo(HaveOccurred())
			for _, y := range res.Outputs {
				Expect(y).To(Equal(3.0))
			}
		})
	})

	Context("algebraic loops", func() {
		It("resolves a self-looped gain to its fixed point", func() {
			// y = 0.5 (1 + y)
			g := &graph.Graph{
				Blocks: []graph.Block{constant("c", 1), gain("g", 0.5)},
				Links:  []graph.Link{link("c", "g"), link("g", "g"), link("g", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solver.Loops).To(Equal(1))
			Expect(res.Outputs[len(res.Outputs)-1]).To(BeNumerically("~", 1, 1e-5))
		})

		It("resolves a summer with a gain in its feedback path", func() {
			// y = 1 + 0.5 y
			g := &graph.Graph{
				Blocks: []graph.Block{
					constant("c", 1),
					{ID: "sum", Kind: graph.KindSummer, Signs: []float64{1, 1}},
					gain("g", 0.5),
				},
				Links: []graph.Link{
					link("c", "sum"), link("g", "sum"), link("sum", "g"), link("sum", graph.Sink),
				},
			}

			res, err := network.Run(g, cfg(0.1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solver.Loops).To(Equal(1))
			Expect(res.Solver.Resolutions).To(Equal(res.Len()))
			Expect(res.Outputs[len(res.Outputs)-1]).To(BeNumerically("~", 2, 1e-5))
		})

		It("accepts non-convergence silently", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{constant("c", 1), gain("g", 0.5)},
				Links:  []graph.Link{link("c", "g"), link("g", "g"), link("g", graph.Sink)},
			}
			c := cfg(0.1, 0.2)
			c.Solver.MaxIter = 2

			res, err := network.Run(g, c)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solver.Unconverged).To(BeNumerically(">", 0))
			Expect(res.Solver.MaxIterations).To(Equal(2))
		})
	})

	Context("dynamic feedback", func() {
		It("settles a unity feedback loop around 1/(s+1) at 0.5", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					step("r"),
					{ID: "err", Kind: graph.KindSummer, Signs: []float64{1, -1}},
					{ID: "plant", Kind: graph.KindTF, Num: []float64{1}, Den: []float64{1, 1}},
				},
				Links: []graph.Link{
					link("r", "err"), link("plant", "err"), link("err", "plant"), link("plant", graph.Sink),
				},
			}

			res, err := network.Run(g, cfg(0.01, 10))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Solver.Loops).To(BeZero())
			Expect(res.Outputs[len(res.Outputs)-1]).To(BeNumerically("~", 0.5, 1e-3))
		})

		It("lets a dynamic comparator close its own loop", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					step("r"),
					{ID: "cmp", Kind: graph.KindComparator, Num: []float64{1}, Den: []float64{1, 1}},
				},
				Links: []graph.Link{link("r", "cmp"), link("cmp", "cmp"), link("cmp", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.01, 10))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outputs[len(res.Outputs)-1]).To(BeNumerically("~", 0.5, 1e-3))
		})

		It("counts through a unit delay accumulator", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					constant("one", 1),
					{ID: "acc", Kind: graph.KindSummer, Signs: []float64{1, 1}},
					{ID: "z", Kind: graph.KindUnitDelay},
				},
				Links: []graph.Link{
					link("one", "acc"), link("z", "acc"), link("acc", "z"), link("z", graph.Sink),
				},
			}

			res, err := network.Run(g, cfg(1, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outputs).To(Equal([]float64{0, 1, 2, 3, 4, 5}))
		})
	})

	Context("malformed diagrams", func() {
		It("runs with dangling links and unknown kinds", func() {
			in := `{
				"blocks": [
					{"id": "c", "kind": "constante", "value": 2},
					{"id": "x", "kind": "warp_drive"}
				],
				"links": [
					{"from": "c", "to": "x"},
					{"from": "ghost", "to": "x"},
					{"from": "x", "to": "saida"},
					{"from": "nowhere", "to": "saida"}
				]
			}`
			g, err := graph.Decode(strings.NewReader(in), graph.FormatJSON)
			Expect(err).NotTo(HaveOccurred())

			res, err := network.Run(g, cfg(0.1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Warnings).NotTo(BeEmpty())
			for _, y := range res.Outputs {
				Expect(y).To(Equal(2.0))
			}
		})

		It("degrades an improper transfer function to zero output", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					step("u"),
					{ID: "bad", Kind: graph.KindTF, Num: []float64{1, 0, 0}, Den: []float64{1, 1}},
				},
				Links: []graph.Link{link("u", "bad"), link("bad", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Warnings).To(ContainElement(MatchError(dynamo.ErrImproper)))
			for _, y := range res.Outputs {
				Expect(y).To(BeZero())
			}
		})

		It("flags a block whose state diverges", func() {
			g := &graph.Graph{
				Blocks: []graph.Block{
					step("u"),
					{ID: "unstable", Kind: graph.KindTF, Num: []float64{1}, Den: []float64{1, -1000}},
				},
				Links: []graph.Link{link("u", "unstable"), link("unstable", graph.Sink)},
			}

			res, err := network.Run(g, cfg(0.01, 10))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Warnings).To(ContainElement(MatchError(dynamo.ErrDiverged)))
		})

		It("rejects an invalid config", func() {
			_, err := network.Run(&graph.Graph{}, cfg(0, 1))
			Expect(err).To(MatchError(dynamo.ErrInvalidConfig))
		})
	})
})

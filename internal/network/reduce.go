package network

import (
	"github.com/san-kum/blocksim/internal/dynamo"
	"github.com/san-kum/blocksim/internal/graph"
	"github.com/san-kum/blocksim/internal/loops"
	"github.com/san-kum/blocksim/internal/lti"
)

// Reduce folds an acyclic diagram into one transfer function from its
// sources to the sink. Blocks in series multiply, inputs meeting at a
// block add with that block's weights. Sources contribute their level as
// a static gain and ignore inputs. A unit delay has no continuous-time
// form and passes its input through. Diagrams with any cycle return
// ErrCyclic.
func Reduce(g *graph.Graph) (lti.TransferFunction, error) {
	g = g.Unique()
	if loops.HasCycle(g) {
		return lti.TransferFunction{}, dynamo.ErrCyclic
	}

	idx := g.Index()
	acc := make([]lti.TransferFunction, len(g.Blocks))
	for _, i := range loops.Order(loops.Build(g, nil)) {
		b := &g.Blocks[i]
		own := blockTF(b)
		if b.Kind == graph.KindConstant || b.Kind == graph.KindStep {
			acc[i] = own
			continue
		}

		preds := g.Predecessors(b.ID)
		if len(preds) == 0 {
			acc[i] = own
			continue
		}
		weights := b.Weights(len(preds))
		in := lti.Gain(0)
		for j, from := range preds {
			if k, ok := idx[from]; ok {
				in = lti.Parallel(in, acc[k].Scale(weights[j]))
			}
		}
		acc[i] = lti.Series(in, own)
	}

	out := lti.Gain(0)
	for _, from := range g.SinkInputs() {
		if k, ok := idx[from]; ok {
			out = lti.Parallel(out, acc[k])
		}
	}
	return out, nil
}

func blockTF(b *graph.Block) lti.TransferFunction {
	switch b.Kind {
	case graph.KindGain:
		return lti.Gain(b.Gain())
	case graph.KindConstant:
		return lti.Gain(b.Value)
	case graph.KindStep:
		return lti.Gain(b.Amplitude())
	case graph.KindIntegrator:
		return lti.New([]float64{1}, []float64{1, 0})
	case graph.KindTF:
		return b.TF()
	case graph.KindComparator:
		if !b.Dynamic() {
			return lti.Gain(1)
		}
		return b.TF()
	default:
		return lti.Gain(1)
	}
}

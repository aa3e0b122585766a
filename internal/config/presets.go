package config

import (
	"sort"

	"github.com/san-kum/blocksim/internal/graph"
)

func gain(id graph.ID, k float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindGain, K: graph.Float(k)}
}

func constant(id graph.ID, v float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindConstant, Value: v}
}

func unitStep(id graph.ID) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindStep, Amp: graph.Float(1)}
}

func tf(id graph.ID, num, den []float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindTF, Num: num, Den: den}
}

func summer(id graph.ID, signs ...float64) graph.Block {
	return graph.Block{ID: id, Kind: graph.KindSummer, Signs: signs}
}

func links(pairs ...graph.ID) []graph.Link {
	out := make([]graph.Link, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, graph.Link{From: pairs[i], To: pairs[i+1]})
	}
	return out
}

var Presets = map[string]*graph.Graph{
	"ramp": {
		Name:   "ramp",
		Blocks: []graph.Block{unitStep("u"), {ID: "int", Kind: graph.KindIntegrator}},
		Links:  links("u", "int", "int", graph.Sink),
	},
	"first_order": {
		Name:   "first_order",
		Blocks: []graph.Block{unitStep("u"), tf("plant", []float64{1}, []float64{1, 1})},
		Links:  links("u", "plant", "plant", graph.Sink),
	},
	"series_gain": {
		Name:   "series_gain",
		Blocks: []graph.Block{constant("c", 1), gain("g2", 2), gain("g3", 3)},
		Links:  links("c", "g2", "g2", "g3", "g3", graph.Sink),
	},
	"summer": {
		Name:   "summer",
		Blocks: []graph.Block{constant("five", 5), constant("two", 2), summer("sum", 1, -1)},
		Links:  links("five", "sum", "two", "sum", "sum", graph.Sink),
	},
	"self_loop": {
		Name:   "self_loop",
		Blocks: []graph.Block{constant("c", 1), gain("g", 0.5)},
		Links:  links("c", "g", "g", "g", "g", graph.Sink),
	},
	"summer_loop": {
		Name:   "summer_loop",
		Blocks: []graph.Block{constant("c", 1), summer("sum", 1, 1), gain("g", 0.5)},
		Links:  links("c", "sum", "g", "sum", "sum", "g", "sum", graph.Sink),
	},
	"feedback": {
		Name:   "feedback",
		Blocks: []graph.Block{unitStep("r"), summer("err", 1, -1), gain("kp", 4), tf("plant", []float64{1}, []float64{1, 2, 1})},
		Links:  links("r", "err", "plant", "err", "err", "kp", "kp", "plant", "plant", graph.Sink),
	},
	"delay_counter": {
		Name:   "delay_counter",
		Blocks: []graph.Block{constant("one", 1), summer("acc", 1, 1), {ID: "z", Kind: graph.KindUnitDelay}},
		Links:  links("one", "acc", "z", "acc", "acc", "z", "z", graph.Sink),
	},
}

// GetPreset returns a copy of the named diagram, or nil.
func GetPreset(name string) *graph.Graph {
	g, ok := Presets[name]
	if !ok {
		return nil
	}
	return g.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

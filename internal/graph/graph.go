// Package graph holds block-diagram descriptions: blocks, directed links
// and the adjacency derived from them.
package graph

import (
	"errors"
	"fmt"

	"github.com/san-kum/blocksim/internal/dynamo"
)

// Link is a directed edge. To may be the Sink.
type Link struct {
	From ID `yaml:"from" json:"from" validate:"required"`
	To   ID `yaml:"to" json:"to" validate:"required"`
}

type Graph struct {
	Name   string  `yaml:"name,omitempty" json:"name,omitempty"`
	Blocks []Block `yaml:"blocks" json:"blocks" validate:"dive"`
	Links  []Link  `yaml:"links" json:"links" validate:"dive"`
}

// Index maps each id to its declaration position. Duplicate ids keep the
// first occurrence.
func (g *Graph) Index() map[ID]int {
	idx := make(map[ID]int, len(g.Blocks))
	for i, b := range g.Blocks {
		if _, dup := idx[b.ID]; !dup {
			idx[b.ID] = i
		}
	}
	return idx
}

func (g *Graph) Block(id ID) (*Block, bool) {
	for i := range g.Blocks {
		if g.Blocks[i].ID == id {
			return &g.Blocks[i], true
		}
	}
	return nil, false
}

// Predecessors lists the sources of links into id, in link order.
func (g *Graph) Predecessors(id ID) []ID {
	var preds []ID
	for _, l := range g.Links {
		if l.To == id && !id.IsSink() {
			preds = append(preds, l.From)
		}
	}
	return preds
}

// Successors lists the targets of links out of id, sink excluded.
func (g *Graph) Successors(id ID) []ID {
	var succ []ID
	for _, l := range g.Links {
		if l.From == id && !l.To.IsSink() {
			succ = append(succ, l.To)
		}
	}
	return succ
}

// SinkInputs lists the blocks linked to the sink, in link order.
func (g *Graph) SinkInputs() []ID {
	var in []ID
	for _, l := range g.Links {
		if l.To.IsSink() {
			in = append(in, l.From)
		}
	}
	return in
}

// Validate reports malformed parts of the diagram. None of them stop a run:
// dangling references contribute zero and bad transfer functions degrade to
// the null system.
func (g *Graph) Validate() []error {
	var warnings []error
	seen := make(map[ID]bool, len(g.Blocks))
	for i := range g.Blocks {
		b := &g.Blocks[i]
		if seen[b.ID] {
			warnings = append(warnings, &dynamo.BlockError{Block: string(b.ID), Wrapped: fmt.Errorf("duplicate id, declaration %d ignored", i)})
			continue
		}
		seen[b.ID] = true
		if b.ID.IsSink() {
			warnings = append(warnings, &dynamo.BlockError{Block: string(b.ID), Wrapped: errors.New("id shadows the sink")})
		}
		if b.Kind == KindTF || (b.Kind == KindComparator && b.Dynamic()) {
			if err := b.TF().Validate(); err != nil {
				warnings = append(warnings, &dynamo.BlockError{Block: string(b.ID), Wrapped: err})
			}
		}
		if b.Kind == KindSummer {
			if n := len(g.Predecessors(b.ID)); n > 3 {
				warnings = append(warnings, &dynamo.BlockError{Block: string(b.ID), Wrapped: fmt.Errorf("summer has %d inputs, at most 3 expected", n)})
			}
		}
	}
	for _, l := range g.Links {
		if !seen[l.From] {
			warnings = append(warnings, &dynamo.BlockError{Block: string(l.From), Wrapped: fmt.Errorf("link %s -> %s: unknown source", l.From, l.To)})
		}
		if !l.To.IsSink() && !seen[l.To] {
			warnings = append(warnings, &dynamo.BlockError{Block: string(l.To), Wrapped: fmt.Errorf("link %s -> %s: unknown target", l.From, l.To)})
		}
	}
	return warnings
}

func (g *Graph) Clone() *Graph {
	c := &Graph{
		Name:   g.Name,
		Blocks: make([]Block, len(g.Blocks)),
		Links:  make([]Link, len(g.Links)),
	}
	for i, b := range g.Blocks {
		c.Blocks[i] = b.Clone()
	}
	copy(c.Links, g.Links)
	return c
}

// Unique returns a copy without the later declarations of duplicate ids,
// so block positions and Index agree.
func (g *Graph) Unique() *Graph {
	c := g.Clone()
	seen := make(map[ID]bool, len(c.Blocks))
	blocks := c.Blocks[:0]
	for _, b := range c.Blocks {
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		blocks = append(blocks, b)
	}
	c.Blocks = blocks
	return c
}

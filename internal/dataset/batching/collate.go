// Package batching turns sequences of molecule graphs into batched graphs and
// pads them to static shapes for accelerator-style training loops.
package batching

import (
	"fmt"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// BatchedGraph is the disjoint union of B graphs.  Node ids of graph g are
// shifted by Boundaries[g]; every slice is freshly allocated.
type BatchedGraph struct {
	Positions    [][3]float32                  `json:"pos"`
	AtomFeatures [][molecule.NumAtomTypes]bool `json:"x"`
	Edges        []molecule.Edge               `json:"edge_index"`
	EdgeFeatures [][molecule.NumBondTypes]bool `json:"edge_attr"`
	// GraphIndex maps every node to its graph.
	GraphIndex []int `json:"batch"`
	// Boundaries has B+1 entries; graph g owns nodes [Boundaries[g], Boundaries[g+1]).
	Boundaries []int `json:"ptr"`
	// Targets has one row per graph.
	Targets    [][]float32         `json:"y"`
	Identities []molecule.Identity `json:"identities"`
}

// NumGraphs returns B.
func (b *BatchedGraph) NumGraphs() int { return len(b.Targets) }

// NumNodes returns the total atom count.
func (b *BatchedGraph) NumNodes() int { return len(b.Positions) }

// NumEdges returns the total directed edge count.
func (b *BatchedGraph) NumEdges() int { return len(b.Edges) }

// TargetWidth returns the width of each target row.
func (b *BatchedGraph) TargetWidth() int {
	if len(b.Targets) == 0 {
		return 0
	}
	return len(b.Targets[0])
}

// Collate concatenates graphs in order.  An empty input is an error, as are
// graphs whose targets differ in width.
func Collate(graphs []molecule.MoleculeGraph) (*BatchedGraph, error) {
	if len(graphs) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyBatch, "collate requires at least one graph")
	}
	width := len(graphs[0].Target)
	nodes, edges := 0, 0
	for i := range graphs {
		if len(graphs[i].Target) != width {
			return nil, errors.New(errors.ErrCodeLabelTableInvalid, "graphs in a batch must share the target width").
				WithDetail(fmt.Sprintf("graph %d has %d columns, graph 0 has %d", i, len(graphs[i].Target), width))
		}
		nodes += graphs[i].NumAtoms()
		edges += graphs[i].NumEdges()
	}

	b := &BatchedGraph{
		Positions:    make([][3]float32, 0, nodes),
		AtomFeatures: make([][molecule.NumAtomTypes]bool, 0, nodes),
		Edges:        make([]molecule.Edge, 0, edges),
		EdgeFeatures: make([][molecule.NumBondTypes]bool, 0, edges),
		GraphIndex:   make([]int, 0, nodes),
		Boundaries:   make([]int, 1, len(graphs)+1),
		Targets:      make([][]float32, len(graphs)),
		Identities:   make([]molecule.Identity, len(graphs)),
	}
	offset := 0
	for gi := range graphs {
		g := &graphs[gi]
		b.Positions = append(b.Positions, g.Positions...)
		b.AtomFeatures = append(b.AtomFeatures, g.AtomFeatures...)
		for range g.Positions {
			b.GraphIndex = append(b.GraphIndex, gi)
		}
		for _, e := range g.Edges {
			b.Edges = append(b.Edges, molecule.Edge{Src: e.Src + offset, Dst: e.Dst + offset})
		}
		b.EdgeFeatures = append(b.EdgeFeatures, g.EdgeFeatures...)
		b.Targets[gi] = append([]float32(nil), g.Target...)
		b.Identities[gi] = g.Identity
		offset += g.NumAtoms()
		b.Boundaries = append(b.Boundaries, offset)
	}
	return b, nil
}

//Personal.AI order the ending

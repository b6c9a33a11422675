// Package molecule provides the domain model of the molgraph corpus: the
// fixed-schema MoleculeGraph, its atom, bond and target vocabularies, and the
// raw structure records the readers produce.
//
// A MoleculeGraph is immutable once it leaves the parser.  Operations that
// change a graph (ProjectTarget, Gather) return new values.
package molecule

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value objects
// ─────────────────────────────────────────────────────────────────────────────

// Edge is a directed edge between two atoms of the same graph.
type Edge struct {
	Src int `json:"src"`
	Dst int `json:"dst"`
}

// Identity records where a graph came from.
type Identity struct {
	// Index is the 0-based ordinal of the record in the raw structure stream,
	// including records that were skipped.
	Index int `json:"index"`

	// Name is the title line of the structure record (e.g. "gdb_1").
	Name string `json:"name"`

	// SMILES is provenance only and never used as a feature.
	SMILES string `json:"smiles"`
}

// ─────────────────────────────────────────────────────────────────────────────
// MoleculeGraph
// ─────────────────────────────────────────────────────────────────────────────

// MoleculeGraph is the fixed-schema graph of one molecule.
//
// Invariants (checked by Validate):
//   - Positions and AtomFeatures have one row per atom and at least one atom.
//   - Every feature row is one-hot.
//   - Every bond appears as two directed edges with identical feature rows.
//   - Edges are strictly ordered by (Dst, Src).
//   - Every edge endpoint lies in [0, atoms) and no edge is a self loop.
type MoleculeGraph struct {
	Positions    [][3]float32         `json:"pos"`
	AtomFeatures [][NumAtomTypes]bool `json:"x"`
	Edges        []Edge               `json:"edge_index"`
	EdgeFeatures [][NumBondTypes]bool `json:"edge_attr"`
	Target       []float32            `json:"y"`
	Identity     Identity             `json:"identity"`
}

// NumAtoms returns the number of atoms.
func (g *MoleculeGraph) NumAtoms() int { return len(g.Positions) }

// NumEdges returns the number of directed edges (twice the bond count).
func (g *MoleculeGraph) NumEdges() int { return len(g.Edges) }

// AtomType decodes the one-hot row of atom i.
func (g *MoleculeGraph) AtomType(i int) AtomType {
	return AtomType(hotIndex(g.AtomFeatures[i][:]))
}

// BondType decodes the one-hot row of edge k.
func (g *MoleculeGraph) BondType(k int) BondType {
	return BondType(hotIndex(g.EdgeFeatures[k][:]))
}

func hotIndex(row []bool) int {
	for i, v := range row {
		if v {
			return i
		}
	}
	return -1
}

func oneHot(row []bool) bool {
	n := 0
	for _, v := range row {
		if v {
			n++
		}
	}
	return n == 1
}

func invariant(format string, args ...interface{}) error {
	return errors.New(errors.ErrCodeGraphInvariantViolated, "molecule graph invariant violated").
		WithDetail(fmt.Sprintf(format, args...))
}

// Validate checks every structural invariant of the graph.
func (g *MoleculeGraph) Validate() error {
	n := len(g.Positions)
	if n == 0 {
		return invariant("graph %d has no atoms", g.Identity.Index)
	}
	if len(g.AtomFeatures) != n {
		return invariant("graph %d: %d positions but %d atom feature rows", g.Identity.Index, n, len(g.AtomFeatures))
	}
	for i := range g.AtomFeatures {
		if !oneHot(g.AtomFeatures[i][:]) {
			return invariant("graph %d: atom %d feature row is not one-hot", g.Identity.Index, i)
		}
	}
	if len(g.EdgeFeatures) != len(g.Edges) {
		return invariant("graph %d: %d edges but %d edge feature rows", g.Identity.Index, len(g.Edges), len(g.EdgeFeatures))
	}
	if len(g.Target) == 0 {
		return invariant("graph %d has an empty target", g.Identity.Index)
	}

	features := make(map[Edge]int, len(g.Edges))
	for k, e := range g.Edges {
		if e.Src < 0 || e.Src >= n || e.Dst < 0 || e.Dst >= n {
			return invariant("graph %d: edge %d (%d,%d) out of range for %d atoms", g.Identity.Index, k, e.Src, e.Dst, n)
		}
		if e.Src == e.Dst {
			return invariant("graph %d: edge %d is a self loop", g.Identity.Index, k)
		}
		if !oneHot(g.EdgeFeatures[k][:]) {
			return invariant("graph %d: edge %d feature row is not one-hot", g.Identity.Index, k)
		}
		if k > 0 && !edgeLess(g.Edges[k-1], e) {
			return invariant("graph %d: edges %d and %d are not strictly ordered by (dst, src)", g.Identity.Index, k-1, k)
		}
		features[e] = hotIndex(g.EdgeFeatures[k][:])
	}
	for e, f := range features {
		rf, ok := features[Edge{Src: e.Dst, Dst: e.Src}]
		if !ok {
			return invariant("graph %d: edge (%d,%d) has no reverse", g.Identity.Index, e.Src, e.Dst)
		}
		if rf != f {
			return invariant("graph %d: edge (%d,%d) and its reverse carry different bond types", g.Identity.Index, e.Src, e.Dst)
		}
	}
	return nil
}

// edgeLess orders edges by destination, then source.
func edgeLess(a, b Edge) bool {
	if a.Dst != b.Dst {
		return a.Dst < b.Dst
	}
	return a.Src < b.Src
}

// EdgeLess reports whether a sorts before b in the canonical (Dst, Src) order.
func EdgeLess(a, b Edge) bool { return edgeLess(a, b) }

// Clone returns a deep copy of g.
func (g *MoleculeGraph) Clone() *MoleculeGraph {
	c := &MoleculeGraph{
		Positions:    append([][3]float32(nil), g.Positions...),
		AtomFeatures: append([][NumAtomTypes]bool(nil), g.AtomFeatures...),
		Edges:        append([]Edge(nil), g.Edges...),
		EdgeFeatures: append([][NumBondTypes]bool(nil), g.EdgeFeatures...),
		Target:       append([]float32(nil), g.Target...),
		Identity:     g.Identity,
	}
	return c
}

// ProjectTarget returns a copy of g whose target is the single column i.  A
// graph that is already projected (one column) is returned as a copy when i is
// 0, so projecting twice is harmless.
func (g *MoleculeGraph) ProjectTarget(i int) (*MoleculeGraph, error) {
	if len(g.Target) == 1 && i >= 0 {
		return g.Clone(), nil
	}
	if i < 0 || i >= len(g.Target) {
		return nil, errors.New(errors.ErrCodeUnknownTarget, "target column out of range").
			WithDetail(fmt.Sprintf("column=%d width=%d", i, len(g.Target)))
	}
	c := g.Clone()
	c.Target = []float32{g.Target[i]}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Corpus
// ─────────────────────────────────────────────────────────────────────────────

// Corpus is an ordered sequence of accepted graphs.  Position in the corpus is
// the dense index; Identity.Index keeps the raw ordinal.
type Corpus []MoleculeGraph

// Len returns the number of graphs.
func (c Corpus) Len() int { return len(c) }

// At returns graph i.  The returned graph shares storage with the corpus and
// must not be modified.
func (c Corpus) At(i int) (*MoleculeGraph, error) {
	if i < 0 || i >= len(c) {
		return nil, errors.New(errors.ErrCodeIndexOutOfRange, "index out of range").
			WithDetail(fmt.Sprintf("index=%d len=%d", i, len(c)))
	}
	return &c[i], nil
}

// Gather returns a new corpus holding the graphs at indices, in that order.
// The receiver is never modified.
func (c Corpus) Gather(indices []int) (Corpus, error) {
	out := make(Corpus, len(indices))
	for k, i := range indices {
		if i < 0 || i >= len(c) {
			return nil, errors.New(errors.ErrCodeIndexOutOfRange, "index out of range").
				WithDetail(fmt.Sprintf("index=%d len=%d", i, len(c)))
		}
		out[k] = c[i]
	}
	return out, nil
}

// Validate checks every graph.
func (c Corpus) Validate() error {
	for i := range c {
		if err := c[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

//Personal.AI order the ending

package qm9

import (
	"fmt"
	"sort"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/pkg/errors"
)

// SkipReason classifies a record that produced no graph.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipUnparsable
	SkipExcluded
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "accepted"
	case SkipUnparsable:
		return "unparsable"
	case SkipExcluded:
		return "excluded"
	}
	return fmt.Sprintf("SkipReason(%d)", int(r))
}

// ExclusionSet holds 0-based ordinals of structure records that must not
// enter the corpus.  The zero value excludes nothing.
type ExclusionSet map[int]struct{}

// NewExclusionSet builds a set from 0-based ordinals.
func NewExclusionSet(ordinals []int) ExclusionSet {
	s := make(ExclusionSet, len(ordinals))
	for _, o := range ordinals {
		s[o] = struct{}{}
	}
	return s
}

// Contains reports whether ordinal i is excluded.
func (s ExclusionSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Len returns the number of excluded ordinals.
func (s ExclusionSet) Len() int { return len(s) }

// ─────────────────────────────────────────────────────────────────────────────
// Parser
// ─────────────────────────────────────────────────────────────────────────────

// Parser converts raw structure records into MoleculeGraphs.  It is stateless
// and safe for concurrent use.
type Parser struct {
	provenance bool
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithProvenance toggles SMILES generation for Identity.SMILES (default on).
func WithProvenance(enabled bool) ParserOption {
	return func(p *Parser) { p.provenance = enabled }
}

// NewParser returns a Parser.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{provenance: true}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Parse converts rec, the record with 0-based ordinal index, into a graph.
//
// A nil rec stands for a record the reader could not decode.  Skipped records
// return a nil graph, a non-None reason and a nil error.  An atomic number
// outside the vocabulary is fatal and returned as an error.
func (p *Parser) Parse(rec *molecule.RawRecord, target []float32, index int, excluded ExclusionSet) (*molecule.MoleculeGraph, SkipReason, error) {
	if rec == nil {
		return nil, SkipUnparsable, nil
	}
	if excluded.Contains(index) {
		return nil, SkipExcluded, nil
	}
	if !structurallyValid(rec) {
		return nil, SkipUnparsable, nil
	}
	if len(target) == 0 {
		return nil, SkipNone, errors.New(errors.ErrCodeLabelTableInvalid, "record has no label row").
			WithDetail(fmt.Sprintf("ordinal=%d", index))
	}

	n := len(rec.Atoms)
	g := &molecule.MoleculeGraph{
		Positions:    make([][3]float32, n),
		AtomFeatures: make([][molecule.NumAtomTypes]bool, n),
		Edges:        make([]molecule.Edge, 0, 2*len(rec.Bonds)),
		EdgeFeatures: make([][molecule.NumBondTypes]bool, 0, 2*len(rec.Bonds)),
		Target:       append([]float32(nil), target...),
	}
	for i, a := range rec.Atoms {
		at, err := molecule.AtomTypeForAtomicNumber(a.AtomicNumber)
		if err != nil {
			return nil, SkipNone, errors.Wrap(err, errors.ErrCodeUnsupportedAtom,
				fmt.Sprintf("record %d (%s) atom %d", index, rec.Name, i))
		}
		g.Positions[i] = a.Position
		g.AtomFeatures[i][at] = true
	}
	for _, b := range rec.Bonds {
		bt, _ := molecule.BondTypeForOrder(b.Order)
		var row [molecule.NumBondTypes]bool
		row[bt] = true
		g.Edges = append(g.Edges,
			molecule.Edge{Src: b.Begin, Dst: b.End},
			molecule.Edge{Src: b.End, Dst: b.Begin})
		g.EdgeFeatures = append(g.EdgeFeatures, row, row)
	}
	sortEdges(g)

	g.Identity = molecule.Identity{Index: index, Name: rec.Name}
	if p.provenance {
		g.Identity.SMILES = molecule.DeterministicSMILES(g)
	}
	return g, SkipNone, nil
}

// structurallyValid rejects records without atoms, with dangling or self
// bonds, duplicate bonds or unknown bond orders.
func structurallyValid(rec *molecule.RawRecord) bool {
	n := len(rec.Atoms)
	if n == 0 {
		return false
	}
	seen := make(map[[2]int]struct{}, len(rec.Bonds))
	for _, b := range rec.Bonds {
		if b.Begin < 0 || b.Begin >= n || b.End < 0 || b.End >= n || b.Begin == b.End {
			return false
		}
		if _, err := molecule.BondTypeForOrder(b.Order); err != nil {
			return false
		}
		key := [2]int{b.Begin, b.End}
		if b.Begin > b.End {
			key = [2]int{b.End, b.Begin}
		}
		if _, dup := seen[key]; dup {
			return false
		}
		seen[key] = struct{}{}
	}
	return true
}

// sortEdges orders edges by (dst, src) and permutes the feature rows with
// them.
func sortEdges(g *molecule.MoleculeGraph) {
	order := make([]int, len(g.Edges))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return molecule.EdgeLess(g.Edges[order[a]], g.Edges[order[b]])
	})
	edges := make([]molecule.Edge, len(order))
	feats := make([][molecule.NumBondTypes]bool, len(order))
	for k, i := range order {
		edges[k] = g.Edges[i]
		feats[k] = g.EdgeFeatures[i]
	}
	g.Edges, g.EdgeFeatures = edges, feats
}

//Personal.AI order the ending

package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// graphOf builds a graph from atom types and undirected bonds.  Edge order is
// irrelevant for SMILES writing so no sorting is applied.
func graphOf(atoms []AtomType, bonds [][3]int) *MoleculeGraph {
	g := &MoleculeGraph{Target: []float32{0}}
	for _, a := range atoms {
		var row [NumAtomTypes]bool
		row[a] = true
		g.AtomFeatures = append(g.AtomFeatures, row)
		g.Positions = append(g.Positions, [3]float32{})
	}
	for _, b := range bonds {
		var row [NumBondTypes]bool
		row[b[2]] = true
		g.Edges = append(g.Edges, Edge{Src: b[0], Dst: b[1]}, Edge{Src: b[1], Dst: b[0]})
		g.EdgeFeatures = append(g.EdgeFeatures, row, row)
	}
	return g
}

func TestDeterministicSMILES(t *testing.T) {
	s, d, tr := int(BondSingle), int(BondDouble), int(BondTriple)

	cases := []struct {
		name  string
		atoms []AtomType
		bonds [][3]int
		want  string
	}{
		{"single atom", []AtomType{AtomC}, nil, "C"},
		{"acetaldehyde skeleton", []AtomType{AtomC, AtomC, AtomO}, [][3]int{{0, 1, s}, {1, 2, d}}, "CC=O"},
		{"hydrogen cyanide", []AtomType{AtomH, AtomC, AtomN}, [][3]int{{0, 1, s}, {1, 2, tr}}, "[H]C#N"},
		{"branch", []AtomType{AtomC, AtomO, AtomF}, [][3]int{{0, 1, s}, {0, 2, s}}, "C(O)F"},
		{"cyclopropane", []AtomType{AtomC, AtomC, AtomC}, [][3]int{{0, 1, s}, {1, 2, s}, {2, 0, s}}, "C1CC1"},
		{"double ring closure", []AtomType{AtomC, AtomC, AtomC}, [][3]int{{0, 1, s}, {1, 2, s}, {2, 0, d}}, "C1CC=1"},
		{"disconnected", []AtomType{AtomO, AtomN}, nil, "O.N"},
		{"methane", []AtomType{AtomC, AtomH, AtomH, AtomH, AtomH},
			[][3]int{{0, 1, s}, {0, 2, s}, {0, 3, s}, {0, 4, s}}, "C([H])([H])([H])[H]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeterministicSMILES(graphOf(tc.atoms, tc.bonds)))
		})
	}
}

func TestDeterministicSMILES_Deterministic(t *testing.T) {
	s := int(BondSingle)
	atoms := []AtomType{AtomC, AtomC, AtomC, AtomC, AtomO}
	bonds := [][3]int{{0, 1, s}, {1, 2, s}, {2, 3, s}, {3, 0, s}, {1, 4, s}}
	first := DeterministicSMILES(graphOf(atoms, bonds))
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, DeterministicSMILES(graphOf(atoms, bonds)))
	}
	assert.Equal(t, "C1C(CC1)O", first)
	assert.Empty(t, DeterministicSMILES(&MoleculeGraph{}))
}

func TestDeterministicSMILES_FollowsAtomNumbering(t *testing.T) {
	s, d := int(BondSingle), int(BondDouble)
	numbered := DeterministicSMILES(graphOf([]AtomType{AtomC, AtomC, AtomO}, [][3]int{{0, 1, s}, {1, 2, d}}))
	renumbered := DeterministicSMILES(graphOf([]AtomType{AtomO, AtomC, AtomC}, [][3]int{{0, 1, d}, {1, 2, s}}))
	assert.Equal(t, "CC=O", numbered)
	assert.Equal(t, "O=CC", renumbered)
}

//Personal.AI order the ending

package qm9

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/internal/domain/molecule"
	"github.com/turtacn/molgraph/internal/testutil"
	"github.com/turtacn/molgraph/pkg/errors"
)

func TestParser_Acetaldehyde(t *testing.T) {
	p := NewParser()
	target := []float32{0.5, 1.5}

	g, reason, err := p.Parse(testutil.Acetaldehyde("gdb_8"), target, 7, nil)
	require.NoError(t, err)
	require.Equal(t, SkipNone, reason)
	require.NoError(t, g.Validate())

	assert.Equal(t, [][molecule.NumAtomTypes]bool{
		{false, true, false, false, false},
		{false, true, false, false, false},
		{false, false, false, true, false},
	}, g.AtomFeatures)
	assert.Equal(t, []molecule.Edge{{Src: 1, Dst: 0}, {Src: 0, Dst: 1}, {Src: 2, Dst: 1}, {Src: 1, Dst: 2}}, g.Edges)

	single := [molecule.NumBondTypes]bool{true, false, false, false}
	double := [molecule.NumBondTypes]bool{false, true, false, false}
	assert.Equal(t, [][molecule.NumBondTypes]bool{single, single, double, double}, g.EdgeFeatures)

	assert.Equal(t, molecule.Identity{Index: 7, Name: "gdb_8", SMILES: "CC=O"}, g.Identity)
	assert.Equal(t, [3]float32{1.1, 0.1, -0.5}, g.Positions[1])

	target[0] = 99
	assert.Equal(t, float32(0.5), g.Target[0], "target must be copied")
}

func TestParser_BondTypes(t *testing.T) {
	g, _, err := NewParser().Parse(testutil.HydrogenCyanide("hcn"), []float32{1}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, molecule.BondTriple, g.BondType(3))
	assert.Equal(t, "[H]C#N", g.Identity.SMILES)

	arom := testutil.Record("arom", []int{6, 6}, testutil.Bond(0, 1, 4))
	g, _, err = NewParser().Parse(arom, []float32{1}, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, molecule.BondAromatic, g.BondType(0))
}

func TestParser_Skips(t *testing.T) {
	excluded := NewExclusionSet([]int{3})

	cases := []struct {
		name   string
		rec    *molecule.RawRecord
		index  int
		reason SkipReason
	}{
		{"reader failure", nil, 0, SkipUnparsable},
		{"excluded", testutil.Methane("m"), 3, SkipExcluded},
		{"no atoms", testutil.Record("empty", nil), 0, SkipUnparsable},
		{"dangling bond", testutil.Record("d", []int{6, 6}, testutil.Bond(0, 2, 1)), 0, SkipUnparsable},
		{"self bond", testutil.Record("s", []int{6, 6}, testutil.Bond(1, 1, 1)), 0, SkipUnparsable},
		{"unknown order", testutil.Record("u", []int{6, 6}, testutil.Bond(0, 1, 8)), 0, SkipUnparsable},
		{"duplicate bond", testutil.Record("dup", []int{6, 6}, testutil.Bond(0, 1, 1), testutil.Bond(1, 0, 2)), 0, SkipUnparsable},
		{"excluded and unsupported", testutil.Record("s", []int{16}), 3, SkipExcluded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, reason, err := NewParser().Parse(tc.rec, []float32{1}, tc.index, excluded)
			require.NoError(t, err)
			assert.Nil(t, g)
			assert.Equal(t, tc.reason, reason)
		})
	}
}

func TestParser_UnsupportedAtomIsFatal(t *testing.T) {
	rec := testutil.Record("thiol", []int{6, 16}, testutil.Bond(0, 1, 1))
	_, _, err := NewParser().Parse(rec, []float32{1}, 12, nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedAtom))
	assert.False(t, errors.IsSkip(err))
	assert.Contains(t, err.Error(), "record 12")
}

func TestParser_MissingTarget(t *testing.T) {
	_, _, err := NewParser().Parse(testutil.Methane("m"), nil, 0, nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeLabelTableInvalid))
}

func TestParser_WithoutProvenance(t *testing.T) {
	g, _, err := NewParser(WithProvenance(false)).Parse(testutil.Methane("m"), []float32{1}, 0, nil)
	require.NoError(t, err)
	assert.Empty(t, g.Identity.SMILES)
	assert.Equal(t, 8, g.NumEdges())
	require.NoError(t, g.Validate())
}

func TestSkipReason_String(t *testing.T) {
	assert.Equal(t, "accepted", SkipNone.String())
	assert.Equal(t, "unparsable", SkipUnparsable.String())
	assert.Equal(t, "excluded", SkipExcluded.String())
}

//Personal.AI order the ending

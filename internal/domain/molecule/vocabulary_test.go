package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/molgraph/pkg/errors"
)

func TestAtomTypeForAtomicNumber(t *testing.T) {
	want := map[int]AtomType{1: AtomH, 6: AtomC, 7: AtomN, 8: AtomO, 9: AtomF}
	for z, at := range want {
		got, err := AtomTypeForAtomicNumber(z)
		require.NoError(t, err)
		assert.Equal(t, at, got)
		assert.Equal(t, z, got.AtomicNumber())
	}

	for _, z := range []int{0, 2, 16, 17} {
		_, err := AtomTypeForAtomicNumber(z)
		assert.True(t, errors.IsCode(err, errors.ErrCodeUnsupportedAtom), "z=%d", z)
	}
}

func TestBondTypeForOrder(t *testing.T) {
	for order, want := range map[int]BondType{1: BondSingle, 2: BondDouble, 3: BondTriple, 4: BondAromatic} {
		got, err := BondTypeForOrder(order)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := BondTypeForOrder(8)
	assert.True(t, errors.IsSkip(err))
}

func TestAtomicNumberForSymbol(t *testing.T) {
	z, ok := AtomicNumberForSymbol("Cl")
	assert.True(t, ok)
	assert.Equal(t, 17, z)

	for sym, want := range map[string]int{"H": 1, "I": 53, "Sn": 50, "Xe": 54, "Pt": 78, "Au": 79, "U": 92, "Og": 118} {
		z, ok := AtomicNumberForSymbol(sym)
		assert.True(t, ok, sym)
		assert.Equal(t, want, z, sym)
	}
	for _, sym := range []string{"Xx", "", "c", "SN", "D"} {
		_, ok := AtomicNumberForSymbol(sym)
		assert.False(t, ok, sym)
	}
}

func TestTargets(t *testing.T) {
	names := TargetNames()
	require.Len(t, names, NumTargets)
	assert.Equal(t, "mu", names[0])
	assert.Equal(t, "C", names[NumTargets-1])

	cases := map[string]int{"mu": 0, "homo": 2, "gap": 4, "U0": 7, "Cv": 11, "G_atom": 15, "A": 16}
	for name, idx := range cases {
		got, err := TargetIndex(name)
		require.NoError(t, err)
		assert.Equal(t, idx, got, name)
	}

	_, err := TargetIndex("u0")
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnknownTarget))

	assert.Equal(t, "eV", TargetGap.Unit())
	assert.Equal(t, "GHz", TargetB.Unit())
	assert.Equal(t, "alpha", TargetAlpha.String())
}

//Personal.AI order the ending

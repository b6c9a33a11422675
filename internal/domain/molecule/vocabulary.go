package molecule

import (
	"fmt"

	"github.com/turtacn/molgraph/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Atom vocabulary
// ─────────────────────────────────────────────────────────────────────────────

// AtomType is the closed atom vocabulary of the corpus.  The numeric value is
// the column of the one-hot atom feature row.
type AtomType int

const (
	AtomH AtomType = iota
	AtomC
	AtomN
	AtomO
	AtomF
)

// NumAtomTypes is the width of an atom feature row.
const NumAtomTypes = 5

var atomSymbols = [NumAtomTypes]string{"H", "C", "N", "O", "F"}

var atomicNumbers = [NumAtomTypes]int{1, 6, 7, 8, 9}

// String returns the element symbol.
func (a AtomType) String() string {
	if a < 0 || int(a) >= NumAtomTypes {
		return fmt.Sprintf("AtomType(%d)", int(a))
	}
	return atomSymbols[a]
}

// AtomicNumber returns the element's atomic number.
func (a AtomType) AtomicNumber() int {
	if a < 0 || int(a) >= NumAtomTypes {
		return 0
	}
	return atomicNumbers[a]
}

// AtomTypeForAtomicNumber maps 1, 6, 7, 8, 9 onto the vocabulary.  Any other
// atomic number is fatal for a corpus build.
func AtomTypeForAtomicNumber(z int) (AtomType, error) {
	switch z {
	case 1:
		return AtomH, nil
	case 6:
		return AtomC, nil
	case 7:
		return AtomN, nil
	case 8:
		return AtomO, nil
	case 9:
		return AtomF, nil
	}
	return 0, errors.New(errors.ErrCodeUnsupportedAtom, "atomic number outside the supported vocabulary").
		WithDetail(fmt.Sprintf("atomic_number=%d", z))
}

// ─────────────────────────────────────────────────────────────────────────────
// Bond vocabulary
// ─────────────────────────────────────────────────────────────────────────────

// BondType is the closed bond vocabulary.  The numeric value is the column of
// the one-hot edge feature row.
type BondType int

const (
	BondSingle BondType = iota
	BondDouble
	BondTriple
	BondAromatic
)

// NumBondTypes is the width of an edge feature row.
const NumBondTypes = 4

var bondNames = [NumBondTypes]string{"single", "double", "triple", "aromatic"}

func (b BondType) String() string {
	if b < 0 || int(b) >= NumBondTypes {
		return fmt.Sprintf("BondType(%d)", int(b))
	}
	return bondNames[b]
}

// BondTypeForOrder maps an MDL bond type field (1, 2, 3, 4) to a BondType.
// Other values (query bonds, 0) make the record unparsable.
func BondTypeForOrder(order int) (BondType, error) {
	switch order {
	case 1:
		return BondSingle, nil
	case 2:
		return BondDouble, nil
	case 3:
		return BondTriple, nil
	case 4:
		return BondAromatic, nil
	}
	return 0, errors.New(errors.ErrCodeRecordUnparsable, "unsupported bond order").
		WithDetail(fmt.Sprintf("order=%d", order))
}

// ─────────────────────────────────────────────────────────────────────────────
// Element symbols
// ─────────────────────────────────────────────────────────────────────────────

// elementSymbols lists the periodic table in atomic-number order, so element
// Z sits at index Z-1.  Any real element resolves here; the atom vocabulary
// decides separately whether it is supported.
var elementSymbols = [...]string{
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn", "Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd", "In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg", "Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn", "Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var elementNumbers = func() map[string]int {
	m := make(map[string]int, len(elementSymbols))
	for i, sym := range elementSymbols {
		m[sym] = i + 1
	}
	return m
}()

// AtomicNumberForSymbol resolves an element symbol such as "C" or "Cl".
// Strings that are not element symbols report false.
func AtomicNumberForSymbol(symbol string) (int, bool) {
	z, ok := elementNumbers[symbol]
	return z, ok
}

//Personal.AI order the ending

package molecule

import (
	"fmt"
	"strings"

	"github.com/turtacn/molgraph/pkg/errors"
)

// Target is one of the 19 regression targets in canonical column order, i.e.
// the order produced by target normalisation.
type Target int

const (
	TargetMu Target = iota
	TargetAlpha
	TargetHOMO
	TargetLUMO
	TargetGap
	TargetR2
	TargetZPVE
	TargetU0
	TargetU
	TargetH
	TargetG
	TargetCv
	TargetU0Atom
	TargetUAtom
	TargetHAtom
	TargetGAtom
	TargetA
	TargetB
	TargetC
)

// NumTargets is the width of a normalised target row.
const NumTargets = 19

var targetNames = [NumTargets]string{
	"mu", "alpha", "homo", "lumo", "gap", "r2", "zpve", "U0", "U", "H", "G", "Cv",
	"U0_atom", "U_atom", "H_atom", "G_atom", "A", "B", "C",
}

// Units after normalisation: energies in eV, rotational constants in GHz.
var targetUnits = [NumTargets]string{
	"D", "a0^3", "eV", "eV", "eV", "a0^2", "eV", "eV", "eV", "eV", "eV", "cal/(mol K)",
	"eV", "eV", "eV", "eV", "GHz", "GHz", "GHz",
}

func (t Target) String() string {
	if t < 0 || int(t) >= NumTargets {
		return fmt.Sprintf("Target(%d)", int(t))
	}
	return targetNames[t]
}

// Unit returns the physical unit of the normalised column.
func (t Target) Unit() string {
	if t < 0 || int(t) >= NumTargets {
		return ""
	}
	return targetUnits[t]
}

// Index returns the column index of t.
func (t Target) Index() int { return int(t) }

// ParseTarget resolves a target name.  Names are case sensitive.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeUnknownTarget, "unknown target name").
		WithDetail(fmt.Sprintf("target=%q valid=[%s]", name, strings.Join(targetNames[:], " ")))
}

// TargetIndex returns the fixed column index for name.
func TargetIndex(name string) (int, error) {
	t, err := ParseTarget(name)
	if err != nil {
		return 0, err
	}
	return int(t), nil
}

// TargetNames returns the 19 names in canonical order.
func TargetNames() []string {
	out := make([]string, NumTargets)
	copy(out, targetNames[:])
	return out
}

//Personal.AI order the ending

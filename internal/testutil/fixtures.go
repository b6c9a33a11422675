package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/turtacn/molgraph/internal/domain/molecule"
)

// Default raw input file names, matching the published archive layout.
const (
	SDFFile             = "gdb9.sdf"
	CSVFile             = "gdb9.sdf.csv"
	UncharacterizedFile = "uncharacterized.txt"
)

// LabelHeader is the header row of the label table.
const LabelHeader = "mol_id,A,B,C,mu,alpha,homo,lumo,gap,r2,zpve,u0,u298,h298,g298,cv,u0_atom,u298_atom,h298_atom,g298_atom"

// ─────────────────────────────────────────────────────────────────────────────
// Raw records
// ─────────────────────────────────────────────────────────────────────────────

// Bond builds a RawBond with 0-based endpoints and an MDL order.
func Bond(begin, end, order int) molecule.RawBond {
	return molecule.RawBond{Begin: begin, End: end, Order: order}
}

var symbolOf = map[int]string{1: "H", 6: "C", 7: "N", 8: "O", 9: "F", 16: "S", 17: "Cl", 50: "Sn"}

// Record builds a raw record.  Atom i sits at (1.1*i, 0.1*i, -0.5*i).
func Record(name string, atomicNumbers []int, bonds ...molecule.RawBond) *molecule.RawRecord {
	rec := &molecule.RawRecord{Name: name, Bonds: bonds}
	for i, z := range atomicNumbers {
		f := float32(i)
		rec.Atoms = append(rec.Atoms, molecule.RawAtom{
			Symbol:       symbolOf[z],
			AtomicNumber: z,
			Position:     [3]float32{1.1 * f, 0.1 * f, -0.5 * f},
		})
	}
	return rec
}

// Methane is C with four hydrogens.
func Methane(name string) *molecule.RawRecord {
	return Record(name, []int{6, 1, 1, 1, 1}, Bond(0, 1, 1), Bond(0, 2, 1), Bond(0, 3, 1), Bond(0, 4, 1))
}

// Acetaldehyde is the heavy-atom skeleton C-C=O.
func Acetaldehyde(name string) *molecule.RawRecord {
	return Record(name, []int{6, 6, 8}, Bond(0, 1, 1), Bond(1, 2, 2))
}

// HydrogenCyanide is H-C#N.
func HydrogenCyanide(name string) *molecule.RawRecord {
	return Record(name, []int{1, 6, 7}, Bond(0, 1, 1), Bond(1, 2, 3))
}

// Records returns n valid records cycling through the three fixture
// molecules, named gdb_1..gdb_n.
func Records(n int) []*molecule.RawRecord {
	out := make([]*molecule.RawRecord, n)
	for i := range out {
		name := fmt.Sprintf("gdb_%d", i+1)
		switch i % 3 {
		case 0:
			out[i] = Methane(name)
		case 1:
			out[i] = Acetaldehyde(name)
		default:
			out[i] = HydrogenCyanide(name)
		}
	}
	return out
}

// RawLabels returns n rows of 19 raw label columns.  Column c of row i holds
// i + c/100, so every cell is distinct.
func RawLabels(n int) [][]float32 {
	rows := make([][]float32, n)
	for i := range rows {
		row := make([]float32, molecule.NumTargets)
		for c := range row {
			row[c] = float32(i) + float32(c)/100
		}
		rows[i] = row
	}
	return rows
}

// ─────────────────────────────────────────────────────────────────────────────
// Graphs
// ─────────────────────────────────────────────────────────────────────────────

// ChainGraph builds a valid graph of atoms carbons joined by single bonds.
// Target column c holds index + c/100.
func ChainGraph(index, atoms, targetWidth int) molecule.MoleculeGraph {
	g := molecule.MoleculeGraph{Identity: molecule.Identity{Index: index, Name: fmt.Sprintf("gdb_%d", index+1)}}
	for i := 0; i < atoms; i++ {
		var row [molecule.NumAtomTypes]bool
		row[molecule.AtomC] = true
		g.AtomFeatures = append(g.AtomFeatures, row)
		g.Positions = append(g.Positions, [3]float32{float32(i), float32(index), 0})
	}
	single := [molecule.NumBondTypes]bool{true, false, false, false}
	// (dst, src) order for a chain: into node d come d-1 then d+1.
	for d := 0; d < atoms; d++ {
		if d > 0 {
			g.Edges = append(g.Edges, molecule.Edge{Src: d - 1, Dst: d})
			g.EdgeFeatures = append(g.EdgeFeatures, single)
		}
		if d+1 < atoms {
			g.Edges = append(g.Edges, molecule.Edge{Src: d + 1, Dst: d})
			g.EdgeFeatures = append(g.EdgeFeatures, single)
		}
	}
	for c := 0; c < targetWidth; c++ {
		g.Target = append(g.Target, float32(index)+float32(c)/100)
	}
	g.Identity.SMILES = molecule.DeterministicSMILES(&g)
	return g
}

// Corpus returns n chain graphs with 1 + i%5 atoms and full-width targets.
func Corpus(n int) molecule.Corpus {
	c := make(molecule.Corpus, n)
	for i := range c {
		c[i] = ChainGraph(i, 1+i%5, molecule.NumTargets)
	}
	return c
}

// ─────────────────────────────────────────────────────────────────────────────
// Raw file encodings
// ─────────────────────────────────────────────────────────────────────────────

// SDF renders records as V2000 blocks.  A nil record renders a block with a
// corrupt counts line.
func SDF(records ...*molecule.RawRecord) string {
	var sb strings.Builder
	for _, r := range records {
		if r == nil {
			sb.WriteString("broken\n  fixture\n\n  x  y  0  0  0  0  0  0  0  0999 V2000\nM  END\n$$$$\n")
			continue
		}
		fmt.Fprintf(&sb, "%s\n     molgraph          3D\n\n", r.Name)
		fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(r.Atoms), len(r.Bonds))
		for _, a := range r.Atoms {
			fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
				a.Position[0], a.Position[1], a.Position[2], a.Symbol)
		}
		for _, b := range r.Bonds {
			fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b.Begin+1, b.End+1, b.Order)
		}
		sb.WriteString("M  END\n$$$$\n")
	}
	return sb.String()
}

// LabelCSV renders raw label rows with the published header.
func LabelCSV(rows [][]float32) string {
	var sb strings.Builder
	sb.WriteString(LabelHeader)
	sb.WriteByte('\n')
	for i, row := range rows {
		fmt.Fprintf(&sb, "gdb_%d", i+1)
		for _, v := range row {
			fmt.Fprintf(&sb, ",%g", v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Uncharacterized renders an exclusion list for 0-based ordinals: nine
// header lines, one line per 1-based ordinal and a footer.
func Uncharacterized(ordinals []int) string {
	var sb strings.Builder
	sb.WriteString(" Uncharacterized molecules\n")
	for i := 1; i < 9; i++ {
		fmt.Fprintf(&sb, " header line %d\n", i)
	}
	for _, o := range ordinals {
		fmt.Fprintf(&sb, " %6d  C  -0.1  -0.2  0.3\n", o+1)
	}
	sb.WriteString(" ------------------------------\n")
	return sb.String()
}

// WriteInputs writes the three raw files into dir under the default names.
// Labels are generated for every record.
func WriteInputs(t testing.TB, dir string, records []*molecule.RawRecord, excluded []int) {
	t.Helper()
	write := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write(SDFFile, SDF(records...))
	write(CSVFile, LabelCSV(RawLabels(len(records))))
	write(UncharacterizedFile, Uncharacterized(excluded))
}

//Personal.AI order the ending
